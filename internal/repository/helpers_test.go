package repository_test

import (
	"path/filepath"
	"testing"
	"time"

	"tasklists/internal/models"
	"tasklists/internal/repository"
	"tasklists/internal/storage/sqlite"
)

type fixture struct {
	store *sqlite.Store
	lists *repository.ListRepository
	tasks *repository.TaskRepository
}

// newFixture opens a fresh database. Each repository call advances the
// fake clock by one minute so creation order is deterministic.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "todo.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	base := time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC)
	tick := 0
	clock := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	return &fixture{
		store: store,
		lists: repository.NewListRepository(store, repository.WithClock(clock)),
		tasks: repository.NewTaskRepository(store, repository.WithClock(clock)),
	}
}

func listTitles(lists []models.TaskList) []string {
	out := make([]string, len(lists))
	for i, l := range lists {
		out[i] = l.Title
	}
	return out
}

func taskTitles(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
