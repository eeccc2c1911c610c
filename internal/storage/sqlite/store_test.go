package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"tasklists/internal/models"
	"tasklists/internal/storage/sqlite"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "nested", "todo.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func insertList(t *testing.T, s *sqlite.Store, title string) models.TaskList {
	t.Helper()
	now := time.Now().UTC()
	l := models.TaskList{ID: s.NewID(), Title: title, CreatedAt: now, UpdatedAt: now}
	if err := s.InsertList(context.Background(), l); err != nil {
		t.Fatalf("insert list: %v", err)
	}
	return l
}

func insertTask(t *testing.T, s *sqlite.Store, listID, title string) models.Task {
	t.Helper()
	now := time.Now().UTC()
	task, err := s.InsertTask(context.Background(), models.Task{
		ID: s.NewID(), ListID: listID, Title: title, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("insert task: %v", err)
	}
	return task
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := sqlite.Open("", nil); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.db")
	s, err := sqlite.Open(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	l := insertList(t, s, "Groceries")
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = sqlite.Open(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.GetList(context.Background(), l.ID)
	if err != nil {
		t.Fatalf("get list after reopen: %v", err)
	}
	if got.Title != "Groceries" {
		t.Errorf("expected title %q, got %q", "Groceries", got.Title)
	}
}

func TestInsertTask_AppendsInOrder(t *testing.T) {
	s := openStore(t)
	l := insertList(t, s, "Groceries")
	insertTask(t, s, l.ID, "Milk")
	insertTask(t, s, l.ID, "Eggs")
	insertTask(t, s, l.ID, "Bread")

	got, err := s.GetList(context.Background(), l.ID)
	if err != nil {
		t.Fatalf("get list: %v", err)
	}
	want := []string{"Milk", "Eggs", "Bread"}
	if len(got.Tasks) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(got.Tasks))
	}
	for i, task := range got.Tasks {
		if task.Title != want[i] {
			t.Errorf("task %d: expected %q, got %q", i, want[i], task.Title)
		}
		if task.Position != int64(i) {
			t.Errorf("task %d: expected position %d, got %d", i, i, task.Position)
		}
		if task.IsComplete {
			t.Errorf("task %d: expected incomplete", i)
		}
	}
}

func TestInsertTask_UnknownList(t *testing.T) {
	s := openStore(t)
	_, err := s.InsertTask(context.Background(), models.Task{ID: s.NewID(), ListID: "missing", Title: "Milk"})
	if !errors.Is(err, sqlite.ErrNoRecord) {
		t.Errorf("expected ErrNoRecord, got %v", err)
	}
}

func TestDeleteList_Cascades(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	l := insertList(t, s, "Trip")
	a := insertTask(t, s, l.ID, "Tickets")
	b := insertTask(t, s, l.ID, "Hotel")

	if err := s.DeleteList(ctx, l.ID); err != nil {
		t.Fatalf("delete list: %v", err)
	}
	for _, id := range []string{a.ID, b.ID} {
		if _, err := s.GetTask(ctx, id); !errors.Is(err, sqlite.ErrNoRecord) {
			t.Errorf("task %s: expected ErrNoRecord, got %v", id, err)
		}
	}
	if err := s.DeleteList(ctx, l.ID); !errors.Is(err, sqlite.ErrNoRecord) {
		t.Errorf("second delete: expected ErrNoRecord, got %v", err)
	}
}

func TestMutateTask_RollsBackOnError(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	l := insertList(t, s, "Work")
	task := insertTask(t, s, l.ID, "Report")

	boom := errors.New("boom")
	_, err := s.MutateTask(ctx, task.ID, func(t *models.Task) error {
		t.Title = "changed"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, err := s.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Title != "Report" {
		t.Errorf("expected title unchanged, got %q", got.Title)
	}
}

func TestMutateListTasks(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	l := insertList(t, s, "Work")
	insertTask(t, s, l.ID, "A")
	insertTask(t, s, l.ID, "B")

	got, err := s.MutateListTasks(ctx, l.ID, func(t *models.Task) error {
		t.IsComplete = true
		return nil
	})
	if err != nil {
		t.Fatalf("mutate list tasks: %v", err)
	}
	for _, task := range got.Tasks {
		if !task.IsComplete {
			t.Errorf("task %q: expected complete", task.Title)
		}
	}
}

func TestSubscribe_VersionAndCancel(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	var changes []sqlite.Change
	cancel := s.Subscribe(func(c sqlite.Change) { changes = append(changes, c) })

	before := s.Version()
	l := insertList(t, s, "Inbox")
	task := insertTask(t, s, l.ID, "Call")
	if err := s.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}

	if s.Version() != before+3 {
		t.Errorf("expected version %d, got %d", before+3, s.Version())
	}
	if len(changes) != 3 {
		t.Fatalf("expected 3 changes, got %d", len(changes))
	}
	if changes[0].Kind != sqlite.ChangeInsert || changes[0].Entity != sqlite.EntityList {
		t.Errorf("unexpected first change %+v", changes[0])
	}
	if changes[2].Kind != sqlite.ChangeDelete || changes[2].ID != task.ID {
		t.Errorf("unexpected last change %+v", changes[2])
	}

	cancel()
	insertList(t, s, "Later")
	if len(changes) != 3 {
		t.Errorf("expected no changes after cancel, got %d", len(changes))
	}
}

func TestFlags(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	v, err := s.Flag(ctx, "done")
	if err != nil || v {
		t.Fatalf("expected unset flag to read false, got %v, %v", v, err)
	}
	if err := s.SetFlag(ctx, "done", true); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if err := s.SetFlag(ctx, "done", true); err != nil {
		t.Fatalf("set flag again: %v", err)
	}
	v, err = s.Flag(ctx, "done")
	if err != nil || !v {
		t.Errorf("expected flag true, got %v, %v", v, err)
	}
}
