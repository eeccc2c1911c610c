package repository

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"tasklists/internal/storage/sqlite"
)

var (
	// ErrValidation marks input rejected before it reaches the store.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an operation on an unknown list or task id.
	ErrNotFound = errors.New("not found")
	// ErrStorage marks a failed read or write in the underlying store.
	ErrStorage = errors.New("storage failure")
)

func validTitle(kind, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%s title must not be empty: %w", kind, ErrValidation)
	}
	return title, nil
}

// classify maps store errors onto the repository taxonomy. Storage failures are
// logged here and still returned to the caller.
func classify(logger *slog.Logger, op, id string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound):
		return err
	case errors.Is(err, sqlite.ErrNoRecord):
		return fmt.Errorf("%s %s: %w", op, id, ErrNotFound)
	}
	logger.Error("storage operation failed",
		slog.String("op", op),
		slog.String("id", id),
		slog.String("error", err.Error()))
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
