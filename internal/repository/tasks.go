package repository

import (
	"context"

	"tasklists/internal/models"
)

// TaskRepository manages the tasks inside lists.
type TaskRepository struct {
	store Store
	opts  options
}

// NewTaskRepository builds a repository over the given store.
func NewTaskRepository(store Store, opts ...Option) *TaskRepository {
	return &TaskRepository{store: store, opts: buildOptions(opts)}
}

// Create appends an incomplete task to the end of the list.
func (r *TaskRepository) Create(ctx context.Context, listID, title, note string) (models.Task, error) {
	title, err := validTitle("task", title)
	if err != nil {
		return models.Task{}, err
	}

	now := r.opts.now().UTC()
	t, err := r.store.InsertTask(ctx, models.Task{
		ID:        r.store.NewID(),
		ListID:    listID,
		Title:     title,
		Note:      note,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return t, classify(r.opts.logger, "create task in list", listID, err)
}

// Get returns a single task.
func (r *TaskRepository) Get(ctx context.Context, id string) (models.Task, error) {
	t, err := r.store.GetTask(ctx, id)
	return t, classify(r.opts.logger, "get task", id, err)
}

// Delete removes the task from its list.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	return classify(r.opts.logger, "delete task", id, r.store.DeleteTask(ctx, id))
}

// Edit replaces both title and note. An empty note clears the previous one.
// The note is stored as given; only the title is trimmed.
func (r *TaskRepository) Edit(ctx context.Context, id, title, note string) (models.Task, error) {
	title, err := validTitle("task", title)
	if err != nil {
		return models.Task{}, err
	}
	now := r.opts.now().UTC()
	t, err := r.store.MutateTask(ctx, id, func(t *models.Task) error {
		t.Title = title
		t.Note = note
		t.UpdatedAt = now
		return nil
	})
	return t, classify(r.opts.logger, "edit task", id, err)
}

// Toggle flips the completion state of the task.
func (r *TaskRepository) Toggle(ctx context.Context, id string) (models.Task, error) {
	now := r.opts.now().UTC()
	t, err := r.store.MutateTask(ctx, id, func(t *models.Task) error {
		t.IsComplete = !t.IsComplete
		t.UpdatedAt = now
		return nil
	})
	return t, classify(r.opts.logger, "toggle task", id, err)
}

// Tasks returns a live view of the tasks in a list, in insertion order.
func (r *TaskRepository) Tasks(listID string) *Tasks {
	return &Tasks{store: r.store, listID: listID, logger: r.opts.logger}
}
