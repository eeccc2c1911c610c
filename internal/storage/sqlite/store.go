package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"tasklists/internal/models"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// ErrNoRecord is returned when a lookup or write targets a row that does not exist.
var ErrNoRecord = errors.New("record not found")

// Store wraps access to the SQLite database and exposes record level helpers.
// Every committed write advances Version and notifies subscribers.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	version atomic.Uint64

	subMu   sync.RWMutex
	subs    map[uint64]func(Change)
	nextSub uint64
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open initializes a new SQLite store and runs the required migrations.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("empty database path")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if err := ensureDir(dbPath); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=ON", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// single writer
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	s := &Store{db: conn, logger: logger, subs: make(map[uint64]func(Change))}
	if err := s.migrate(context.Background()); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the database resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (s *Store) migrate(ctx context.Context) error {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, fsys)
	if err != nil {
		return fmt.Errorf("migration provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	for _, r := range results {
		s.logger.Debug("migration applied",
			slog.Int64("version", r.Source.Version),
			slog.Duration("took", r.Duration))
	}
	return nil
}

// NewID allocates a fresh record identifier.
func (s *Store) NewID() string {
	return uuid.NewString()
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListLists retrieves all lists with their tasks, ordered by creation date.
func (s *Store) ListLists(ctx context.Context) ([]models.TaskList, error) {
	return listLists(ctx, s.db)
}

func listLists(ctx context.Context, q querier) ([]models.TaskList, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, title, created_at, updated_at FROM lists ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	defer rows.Close()

	var lists []models.TaskList
	index := map[string]int{}
	for rows.Next() {
		var l models.TaskList
		if err := rows.Scan(&l.ID, &l.Title, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		l.Tasks = []models.Task{}
		index[l.ID] = len(lists)
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tasks, err := queryTasks(ctx, q, `SELECT `+taskColumns+` FROM tasks ORDER BY position, rowid`)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if i, ok := index[t.ListID]; ok {
			lists[i].Tasks = append(lists[i].Tasks, t)
		}
	}
	return lists, nil
}

// GetList fetches a single list with its tasks.
func (s *Store) GetList(ctx context.Context, id string) (models.TaskList, error) {
	return getList(ctx, s.db, id)
}

func getList(ctx context.Context, q querier, id string) (models.TaskList, error) {
	var l models.TaskList
	err := q.QueryRowContext(ctx, `SELECT id, title, created_at, updated_at FROM lists WHERE id = ?`, id).
		Scan(&l.ID, &l.Title, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TaskList{}, fmt.Errorf("list %s: %w", id, ErrNoRecord)
	}
	if err != nil {
		return models.TaskList{}, fmt.Errorf("get list: %w", err)
	}
	tasks, err := listTasks(ctx, q, id)
	if err != nil {
		return models.TaskList{}, err
	}
	l.Tasks = tasks
	return l, nil
}

// InsertList persists a new list record. Its tasks are ignored.
func (s *Store) InsertList(ctx context.Context, l models.TaskList) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO lists(id, title, created_at, updated_at) VALUES(?, ?, ?, ?)`,
		l.ID, l.Title, l.CreatedAt.UTC(), l.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert list: %w", err)
	}
	s.notify(ChangeInsert, EntityList, l.ID)
	return nil
}

// MutateList loads the list, applies fn and persists the result in one transaction.
// fn owns UpdatedAt. An error from fn rolls the write back.
func (s *Store) MutateList(ctx context.Context, id string, fn func(*models.TaskList) error) (models.TaskList, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		l, err := getList(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(&l); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE lists SET title = ?, updated_at = ? WHERE id = ?`, l.Title, l.UpdatedAt.UTC(), id)
		if err != nil {
			return fmt.Errorf("update list: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.TaskList{}, err
	}
	s.notify(ChangeUpdate, EntityList, id)
	return s.GetList(ctx, id)
}

// MutateListTasks applies fn to every task of the list inside one transaction.
func (s *Store) MutateListTasks(ctx context.Context, listID string, fn func(*models.Task) error) (models.TaskList, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		l, err := getList(ctx, tx, listID)
		if err != nil {
			return err
		}
		for i := range l.Tasks {
			t := &l.Tasks[i]
			if err := fn(t); err != nil {
				return err
			}
			if err := updateTask(ctx, tx, *t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.TaskList{}, err
	}
	s.notify(ChangeUpdate, EntityList, listID)
	return s.GetList(ctx, listID)
}

// DeleteList removes a list; its tasks go with it through the foreign key cascade.
func (s *Store) DeleteList(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("list %s: %w", id, ErrNoRecord)
	}
	s.notify(ChangeDelete, EntityList, id)
	return nil
}

const taskColumns = `id, list_id, title, note, is_complete, position, created_at, updated_at`

// ListTasks returns the tasks of a list in insertion order.
func (s *Store) ListTasks(ctx context.Context, listID string) ([]models.Task, error) {
	return listTasks(ctx, s.db, listID)
}

func listTasks(ctx context.Context, q querier, listID string) ([]models.Task, error) {
	return queryTasks(ctx, q, `SELECT `+taskColumns+` FROM tasks WHERE list_id = ? ORDER BY position, rowid`, listID)
}

func queryTasks(ctx context.Context, q querier, query string, args ...any) ([]models.Task, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.ListID, &t.Title, &t.Note, &t.IsComplete, &t.Position, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetTask retrieves a task by id.
func (s *Store) GetTask(ctx context.Context, id string) (models.Task, error) {
	return getTask(ctx, s.db, id)
}

func getTask(ctx context.Context, q querier, id string) (models.Task, error) {
	var t models.Task
	err := q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id).
		Scan(&t.ID, &t.ListID, &t.Title, &t.Note, &t.IsComplete, &t.Position, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("task %s: %w", id, ErrNoRecord)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// InsertTask appends a task to the end of its list.
func (s *Store) InsertTask(ctx context.Context, t models.Task) (models.Task, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM lists WHERE id = ?`, t.ListID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("list %s: %w", t.ListID, ErrNoRecord)
		}
		if err != nil {
			return fmt.Errorf("get list: %w", err)
		}

		pos, err := nextPosition(ctx, tx, t.ListID)
		if err != nil {
			return err
		}
		t.Position = pos

		_, err = tx.ExecContext(ctx, `INSERT INTO tasks(`+taskColumns+`) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.ListID, t.Title, t.Note, t.IsComplete, t.Position, t.CreatedAt.UTC(), t.UpdatedAt.UTC())
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	s.notify(ChangeInsert, EntityTask, t.ID)
	return s.GetTask(ctx, t.ID)
}

// MutateTask loads the task, applies fn and persists the result in one transaction.
// Only title, note, completion state and UpdatedAt are written back.
func (s *Store) MutateTask(ctx context.Context, id string, fn func(*models.Task) error) (models.Task, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		t, err := getTask(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(&t); err != nil {
			return err
		}
		return updateTask(ctx, tx, t)
	})
	if err != nil {
		return models.Task{}, err
	}
	s.notify(ChangeUpdate, EntityTask, id)
	return s.GetTask(ctx, id)
}

func updateTask(ctx context.Context, q querier, t models.Task) error {
	_, err := q.ExecContext(ctx, `UPDATE tasks SET title = ?, note = ?, is_complete = ?, updated_at = ? WHERE id = ?`,
		t.Title, t.Note, t.IsComplete, t.UpdatedAt.UTC(), t.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// DeleteTask removes a task by id.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNoRecord)
	}
	s.notify(ChangeDelete, EntityTask, id)
	return nil
}

func nextPosition(ctx context.Context, q querier, listID string) (int64, error) {
	var position sql.NullInt64
	err := q.QueryRowContext(ctx, `SELECT MAX(position) FROM tasks WHERE list_id = ?`, listID).Scan(&position)
	if err != nil {
		return 0, fmt.Errorf("select position: %w", err)
	}
	if position.Valid {
		return position.Int64 + 1, nil
	}
	return 0, nil
}
