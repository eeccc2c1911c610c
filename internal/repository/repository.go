// Package repository holds the list and task repositories that sit between the
// service layer and the persistent store.
package repository

import (
	"context"
	"io"
	"log/slog"
	"time"

	"tasklists/internal/models"
	"tasklists/internal/storage/sqlite"
)

// Store is the persistent store the repositories write through.
// *sqlite.Store implements it.
type Store interface {
	NewID() string
	Version() uint64
	Subscribe(fn func(sqlite.Change)) (cancel func())

	ListLists(ctx context.Context) ([]models.TaskList, error)
	GetList(ctx context.Context, id string) (models.TaskList, error)
	InsertList(ctx context.Context, l models.TaskList) error
	MutateList(ctx context.Context, id string, fn func(*models.TaskList) error) (models.TaskList, error)
	MutateListTasks(ctx context.Context, listID string, fn func(*models.Task) error) (models.TaskList, error)
	DeleteList(ctx context.Context, id string) error

	ListTasks(ctx context.Context, listID string) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (models.Task, error)
	InsertTask(ctx context.Context, t models.Task) (models.Task, error)
	MutateTask(ctx context.Context, id string, fn func(*models.Task) error) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Option configures a repository.
type Option func(*options)

type options struct {
	logger *slog.Logger
	now    func() time.Time
}

// WithLogger sets the logger storage failures are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock replaces time.Now for creation and update timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
