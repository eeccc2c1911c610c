package repository

import (
	"context"

	"tasklists/internal/models"
)

// ListRepository creates, edits and removes task lists.
type ListRepository struct {
	store Store
	opts  options
}

// NewListRepository builds a repository over the given store.
func NewListRepository(store Store, opts ...Option) *ListRepository {
	return &ListRepository{store: store, opts: buildOptions(opts)}
}

// Create persists a new empty list stamped with the current time.
func (r *ListRepository) Create(ctx context.Context, title string) (models.TaskList, error) {
	title, err := validTitle("list", title)
	if err != nil {
		return models.TaskList{}, err
	}

	now := r.opts.now().UTC()
	l := models.TaskList{
		ID:        r.store.NewID(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
		Tasks:     []models.Task{},
	}
	if err := r.store.InsertList(ctx, l); err != nil {
		return models.TaskList{}, classify(r.opts.logger, "create list", l.ID, err)
	}
	return l, nil
}

// Get returns a list with its tasks.
func (r *ListRepository) Get(ctx context.Context, id string) (models.TaskList, error) {
	l, err := r.store.GetList(ctx, id)
	return l, classify(r.opts.logger, "get list", id, err)
}

// Delete removes the list together with all of its tasks.
func (r *ListRepository) Delete(ctx context.Context, id string) error {
	return classify(r.opts.logger, "delete list", id, r.store.DeleteList(ctx, id))
}

// Rename replaces the list title.
func (r *ListRepository) Rename(ctx context.Context, id, title string) (models.TaskList, error) {
	title, err := validTitle("list", title)
	if err != nil {
		return models.TaskList{}, err
	}
	now := r.opts.now().UTC()
	l, err := r.store.MutateList(ctx, id, func(l *models.TaskList) error {
		l.Title = title
		l.UpdatedAt = now
		return nil
	})
	return l, classify(r.opts.logger, "rename list", id, err)
}

// MarkDone completes every task currently in the list. Tasks added later start incomplete.
func (r *ListRepository) MarkDone(ctx context.Context, id string) (models.TaskList, error) {
	now := r.opts.now().UTC()
	l, err := r.store.MutateListTasks(ctx, id, func(t *models.Task) error {
		t.IsComplete = true
		t.UpdatedAt = now
		return nil
	})
	return l, classify(r.opts.logger, "mark list done", id, err)
}

// All returns a live view of every list in creation order.
func (r *ListRepository) All() *Lists {
	return &Lists{store: r.store, by: models.SortByCreated, logger: r.opts.logger}
}

// SortedBy returns the lists ordered by the criterion. Persisted order is not changed.
func (r *ListRepository) SortedBy(ctx context.Context, by models.SortCriterion) ([]models.TaskList, error) {
	return r.All().SortedBy(by).Items(ctx)
}
