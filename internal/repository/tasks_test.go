package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tasklists/internal/repository"
)

func TestTaskCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l, _ := f.lists.Create(ctx, "Groceries")

	milk, err := f.tasks.Create(ctx, l.ID, "Milk", "2%")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if milk.ID == "" || milk.ListID != l.ID {
		t.Errorf("unexpected task %+v", milk)
	}
	if milk.IsComplete {
		t.Error("new task should be incomplete")
	}
	if milk.Note != "2%" {
		t.Errorf("expected note %q, got %q", "2%", milk.Note)
	}

	eggs, err := f.tasks.Create(ctx, l.ID, "Eggs", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if eggs.ID == milk.ID {
		t.Error("expected distinct ids")
	}

	got, _ := f.lists.Get(ctx, l.ID)
	if want := []string{"Milk", "Eggs"}; !equal(taskTitles(got.Tasks), want) {
		t.Errorf("expected %v, got %v", want, taskTitles(got.Tasks))
	}
}

func TestTaskCreate_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l, _ := f.lists.Create(ctx, "Groceries")

	if _, err := f.tasks.Create(ctx, l.ID, "  ", "note"); !errors.Is(err, repository.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if _, err := f.tasks.Create(ctx, "missing", "Milk", ""); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	got, _ := f.lists.Get(ctx, l.ID)
	if len(got.Tasks) != 0 {
		t.Errorf("expected nothing persisted, got %d tasks", len(got.Tasks))
	}
}

func TestTaskEdit_FullReplace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l, _ := f.lists.Create(ctx, "Groceries")
	milk, _ := f.tasks.Create(ctx, l.ID, "Milk", "2%")

	got, err := f.tasks.Edit(ctx, milk.ID, "Oat milk", "")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if got.Title != "Oat milk" || got.Note != "" {
		t.Errorf("expected full replace, got title %q note %q", got.Title, got.Note)
	}

	if _, err := f.tasks.Edit(ctx, milk.ID, "", "kept?"); !errors.Is(err, repository.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	after, _ := f.tasks.Get(ctx, milk.ID)
	if after.Title != "Oat milk" || after.Note != "" {
		t.Errorf("failed edit mutated task: %+v", after)
	}

	if _, err := f.tasks.Edit(ctx, "missing", "X", ""); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskToggle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l, _ := f.lists.Create(ctx, "Groceries")
	milk, _ := f.tasks.Create(ctx, l.ID, "Milk", "")

	got, err := f.tasks.Toggle(ctx, milk.ID)
	if err != nil || !got.IsComplete {
		t.Fatalf("first toggle: %+v, %v", got, err)
	}
	got, err = f.tasks.Toggle(ctx, milk.ID)
	if err != nil || got.IsComplete {
		t.Fatalf("second toggle: %+v, %v", got, err)
	}
	if _, err := f.tasks.Toggle(ctx, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l, _ := f.lists.Create(ctx, "Groceries")
	milk, _ := f.tasks.Create(ctx, l.ID, "Milk", "")
	f.tasks.Create(ctx, l.ID, "Eggs", "")

	if err := f.tasks.Delete(ctx, milk.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ := f.lists.Get(ctx, l.ID)
	if want := []string{"Eggs"}; !equal(taskTitles(got.Tasks), want) {
		t.Errorf("expected %v, got %v", want, taskTitles(got.Tasks))
	}
	if err := f.tasks.Delete(ctx, milk.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskNote_StoredAsGiven(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l, _ := f.lists.Create(ctx, "Groceries")

	milk, err := f.tasks.Create(ctx, l.ID, "  Milk  ", "  two cartons\n")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if milk.Title != "Milk" {
		t.Errorf("expected trimmed title, got %q", milk.Title)
	}
	if milk.Note != "  two cartons\n" {
		t.Errorf("expected note kept verbatim, got %q", milk.Note)
	}

	edited, err := f.tasks.Edit(ctx, milk.ID, "Milk", " oat ")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.Note != " oat " {
		t.Errorf("expected note kept verbatim, got %q", edited.Note)
	}
}

func TestUpdatedAt_FollowsClock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	lists := repository.NewListRepository(f.store, repository.WithClock(clock))
	tasks := repository.NewTaskRepository(f.store, repository.WithClock(clock))

	l, _ := lists.Create(ctx, "Groceries")
	milk, _ := tasks.Create(ctx, l.ID, "Milk", "")
	created := now

	now = now.Add(time.Hour)
	renamed, err := lists.Rename(ctx, l.ID, "Shopping")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if !renamed.UpdatedAt.Equal(now) || !renamed.CreatedAt.Equal(created) {
		t.Errorf("rename: created %v updated %v, want %v and %v", renamed.CreatedAt, renamed.UpdatedAt, created, now)
	}

	now = now.Add(time.Hour)
	edited, err := tasks.Edit(ctx, milk.ID, "Oat milk", "")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !edited.UpdatedAt.Equal(now) {
		t.Errorf("edit: expected updated %v, got %v", now, edited.UpdatedAt)
	}

	now = now.Add(time.Hour)
	toggled, err := tasks.Toggle(ctx, milk.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.UpdatedAt.Equal(now) {
		t.Errorf("toggle: expected updated %v, got %v", now, toggled.UpdatedAt)
	}

	now = now.Add(time.Hour)
	done, err := lists.MarkDone(ctx, l.ID)
	if err != nil {
		t.Fatalf("mark done: %v", err)
	}
	if got := done.Tasks[0].UpdatedAt; !got.Equal(now) {
		t.Errorf("mark done: expected updated %v, got %v", now, got)
	}
	if !done.Tasks[0].CreatedAt.Equal(created) {
		t.Errorf("mark done changed creation time to %v", done.Tasks[0].CreatedAt)
	}
}
