package repository

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"tasklists/internal/models"
	"tasklists/internal/storage/sqlite"
)

// Lists is a live view over the task lists in the store. A held reference sees
// writes made after it was obtained: Items re-queries whenever the store
// version has moved since the last read.
type Lists struct {
	store  Store
	by     models.SortCriterion
	logger *slog.Logger

	mu    sync.Mutex
	seen  uint64
	valid bool
	items []models.TaskList
}

// Items returns the current lists in the view's order.
func (l *Lists) Items(ctx context.Context) ([]models.TaskList, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	v := l.store.Version()
	if !l.valid || v != l.seen {
		lists, err := l.store.ListLists(ctx)
		if err != nil {
			return nil, classify(l.logger, "list lists", "", err)
		}
		l.items = models.SortLists(lists, l.by)
		l.seen = v
		l.valid = true
	}
	out := slices.Clone(l.items)
	for i := range out {
		out[i].Tasks = slices.Clone(out[i].Tasks)
	}
	return out, nil
}

// SortedBy returns a view over the same store in a different order.
func (l *Lists) SortedBy(by models.SortCriterion) *Lists {
	return &Lists{store: l.store, by: by, logger: l.logger}
}

// Subscribe calls fn after every committed list or task write.
func (l *Lists) Subscribe(fn func(sqlite.Change)) (cancel func()) {
	return l.store.Subscribe(func(c sqlite.Change) {
		if c.Entity == sqlite.EntityList || c.Entity == sqlite.EntityTask {
			fn(c)
		}
	})
}

// Tasks is a live view over the tasks of one list.
type Tasks struct {
	store  Store
	listID string
	logger *slog.Logger

	mu    sync.Mutex
	seen  uint64
	valid bool
	items []models.Task
}

// ListID returns the owning list.
func (t *Tasks) ListID() string {
	return t.listID
}

// Items returns the list's tasks in insertion order. A deleted list reads as empty.
func (t *Tasks) Items(ctx context.Context) ([]models.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	v := t.store.Version()
	if !t.valid || v != t.seen {
		tasks, err := t.store.ListTasks(ctx, t.listID)
		if err != nil {
			return nil, classify(t.logger, "list tasks", t.listID, err)
		}
		t.items = tasks
		t.seen = v
		t.valid = true
	}
	return slices.Clone(t.items), nil
}

// Subscribe calls fn after every committed task write, and after bulk
// updates or deletion of the owning list.
func (t *Tasks) Subscribe(fn func(sqlite.Change)) (cancel func()) {
	return t.store.Subscribe(func(c sqlite.Change) {
		switch {
		case c.Entity == sqlite.EntityTask:
			fn(c)
		case c.Entity == sqlite.EntityList && c.ID == t.listID:
			fn(c)
		}
	})
}
