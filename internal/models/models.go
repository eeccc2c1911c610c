package models

import (
	"fmt"
	"strings"
	"time"
)

// TaskList is a named, ordered collection of tasks.
type TaskList struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Tasks     []Task    `json:"tasks"`
}

// IsFullyComplete reports whether the list has tasks and all of them are done.
func (l TaskList) IsFullyComplete() bool {
	return len(l.Tasks) > 0 && l.IncompleteCount() == 0
}

// IncompleteCount returns the number of tasks that are not done yet.
func (l TaskList) IncompleteCount() int {
	n := 0
	for _, t := range l.Tasks {
		if !t.IsComplete {
			n++
		}
	}
	return n
}

// Task is a single unit of work owned by exactly one list.
type Task struct {
	ID         string    `json:"id"`
	ListID     string    `json:"list_id"`
	Title      string    `json:"title"`
	Note       string    `json:"note"`
	IsComplete bool      `json:"is_complete"`
	Position   int64     `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SortCriterion selects the order in which lists are presented.
type SortCriterion string

const (
	SortByCreated SortCriterion = "created"
	SortByTitle   SortCriterion = "title"
)

// ParseSortCriterion accepts the query values used by clients.
// An empty value means creation order.
func ParseSortCriterion(raw string) (SortCriterion, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "created", "date":
		return SortByCreated, nil
	case "title", "a-z":
		return SortByTitle, nil
	}
	return "", fmt.Errorf("unknown sort criterion %q", raw)
}

// Partition splits a list's tasks by completion state.
type Partition int

const (
	Incomplete Partition = iota
	Complete
)

// PartitionFor returns the partition a task with the given state belongs to.
func PartitionFor(isComplete bool) Partition {
	if isComplete {
		return Complete
	}
	return Incomplete
}

// Other returns the opposite partition.
func (p Partition) Other() Partition {
	if p == Complete {
		return Incomplete
	}
	return Complete
}

func (p Partition) String() string {
	if p == Complete {
		return "complete"
	}
	return "incomplete"
}

// Header is the section title shown above the partition.
func (p Partition) Header() string {
	if p == Complete {
		return "COMPLETED TASKS"
	}
	return "CURRENT TASKS"
}

// Action is the label of the toggle action offered on rows of the partition.
func (p Partition) Action() string {
	if p == Complete {
		return "undone"
	}
	return "done"
}

func (p Partition) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Partition) UnmarshalText(text []byte) error {
	switch string(text) {
	case "incomplete":
		*p = Incomplete
	case "complete":
		*p = Complete
	default:
		return fmt.Errorf("unknown partition %q", text)
	}
	return nil
}

// Indicator is the accessory shown next to a list row.
type Indicator string

const (
	IndicatorNone      Indicator = "none"
	IndicatorCheckmark Indicator = "checkmark"
)

// ListRow is the display model of a task list.
type ListRow struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	SecondaryLabel string    `json:"secondary_label"`
	Indicator      Indicator `json:"indicator"`
}

// TaskRow is the display model of a task.
type TaskRow struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Note  string `json:"note"`
}

// Section groups the rows of one partition.
type Section struct {
	Partition Partition `json:"partition"`
	Header    string    `json:"header"`
	Action    string    `json:"action"`
	Rows      []TaskRow `json:"rows"`
}

// RowPosition locates a task row inside the sectioned task view.
type RowPosition struct {
	Partition Partition `json:"partition"`
	Index     int       `json:"index"`
}
