// Package service turns repository data into the rows and sections shown to
// users and orchestrates list and task writes.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"tasklists/internal/models"
)

// ListRepository is the list storage the service depends on.
type ListRepository interface {
	Create(ctx context.Context, title string) (models.TaskList, error)
	Get(ctx context.Context, id string) (models.TaskList, error)
	Delete(ctx context.Context, id string) error
	Rename(ctx context.Context, id, title string) (models.TaskList, error)
	MarkDone(ctx context.Context, id string) (models.TaskList, error)
	SortedBy(ctx context.Context, by models.SortCriterion) ([]models.TaskList, error)
}

// TaskRepository is the task storage the service depends on.
type TaskRepository interface {
	Create(ctx context.Context, listID, title, note string) (models.Task, error)
	Get(ctx context.Context, id string) (models.Task, error)
	Delete(ctx context.Context, id string) error
	Edit(ctx context.Context, id, title, note string) (models.Task, error)
	Toggle(ctx context.Context, id string) (models.Task, error)
}

// Flags persists boolean settings such as the first-run marker.
type Flags interface {
	Flag(ctx context.Context, key string) (bool, error)
	SetFlag(ctx context.Context, key string, value bool) error
}

// Service coordinates list and task operations.
type Service struct {
	lists  ListRepository
	tasks  TaskRepository
	flags  Flags
	logger *slog.Logger
	sf     singleflight.Group
}

// New creates a Service. flags may be nil when seeding is not used.
func New(lists ListRepository, tasks TaskRepository, flags Flags, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{lists: lists, tasks: tasks, flags: flags, logger: logger}
}

// ListRows returns one summary row per list in the requested order.
func (s *Service) ListRows(ctx context.Context, by models.SortCriterion) ([]models.ListRow, error) {
	lists, err := s.lists.SortedBy(ctx, by)
	if err != nil {
		return nil, err
	}
	rows := make([]models.ListRow, len(lists))
	for i, l := range lists {
		rows[i] = SummaryFor(l)
	}
	return rows, nil
}

// CreateList adds an empty list.
func (s *Service) CreateList(ctx context.Context, title string) (models.ListRow, error) {
	l, err := s.lists.Create(ctx, title)
	if err != nil {
		return models.ListRow{}, err
	}
	s.logger.Debug("list created", slog.String("id", l.ID))
	return SummaryFor(l), nil
}

// RenameList changes a list title.
func (s *Service) RenameList(ctx context.Context, id, title string) (models.ListRow, error) {
	l, err := s.lists.Rename(ctx, id, title)
	if err != nil {
		return models.ListRow{}, err
	}
	return SummaryFor(l), nil
}

// DeleteList removes a list and its tasks.
func (s *Service) DeleteList(ctx context.Context, id string) error {
	if err := s.lists.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Debug("list deleted", slog.String("id", id))
	return nil
}

// MarkListDone completes every task in the list and returns the refreshed row.
func (s *Service) MarkListDone(ctx context.Context, id string) (models.ListRow, error) {
	l, err := s.lists.MarkDone(ctx, id)
	if err != nil {
		return models.ListRow{}, err
	}
	return SummaryFor(l), nil
}

// TaskView is the sectioned view of one list.
type TaskView struct {
	ListID   string           `json:"list_id"`
	Title    string           `json:"title"`
	Sections []models.Section `json:"sections"`
}

// Tasks returns the list's tasks split into open and completed sections.
func (s *Service) Tasks(ctx context.Context, listID string) (TaskView, error) {
	l, err := s.lists.Get(ctx, listID)
	if err != nil {
		return TaskView{}, err
	}
	return TaskView{ListID: l.ID, Title: l.Title, Sections: SectionsFor(l)}, nil
}

// CreateTask appends a task and reports the row it occupies.
func (s *Service) CreateTask(ctx context.Context, listID, title, note string) (models.Task, models.RowPosition, error) {
	t, err := s.tasks.Create(ctx, listID, title, note)
	if err != nil {
		return models.Task{}, models.RowPosition{}, err
	}
	pos, err := s.positionOf(ctx, t)
	if err != nil {
		return models.Task{}, models.RowPosition{}, err
	}
	return t, pos, nil
}

// EditTask replaces a task's title and note.
func (s *Service) EditTask(ctx context.Context, id, title, note string) (models.Task, error) {
	return s.tasks.Edit(ctx, id, title, note)
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	return s.tasks.Delete(ctx, id)
}

// ToggleTask flips a task's completion state and reports the row it moves to.
func (s *Service) ToggleTask(ctx context.Context, id string) (models.Task, models.RowPosition, error) {
	t, err := s.tasks.Toggle(ctx, id)
	if err != nil {
		return models.Task{}, models.RowPosition{}, err
	}
	l, err := s.lists.Get(ctx, t.ListID)
	if err != nil {
		return models.Task{}, models.RowPosition{}, err
	}
	from := models.PartitionFor(!t.IsComplete)
	pos, ok := MoveOnToggle(l, t, from)
	if !ok {
		return models.Task{}, models.RowPosition{}, fmt.Errorf("task %s missing from list %s", t.ID, l.ID)
	}
	return t, pos, nil
}

func (s *Service) positionOf(ctx context.Context, t models.Task) (models.RowPosition, error) {
	l, err := s.lists.Get(ctx, t.ListID)
	if err != nil {
		return models.RowPosition{}, err
	}
	pos, ok := PositionOf(l, t.ID)
	if !ok {
		return models.RowPosition{}, fmt.Errorf("task %s missing from list %s", t.ID, l.ID)
	}
	return pos, nil
}
