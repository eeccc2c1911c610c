package service

import (
	"strconv"

	"tasklists/internal/models"
)

// PartitionTasks splits the list's tasks into incomplete and complete
// subsequences. Both keep insertion order and every task lands in exactly one.
func PartitionTasks(list models.TaskList) (incomplete, complete []models.Task) {
	incomplete = []models.Task{}
	complete = []models.Task{}
	for _, t := range list.Tasks {
		if t.IsComplete {
			complete = append(complete, t)
		} else {
			incomplete = append(incomplete, t)
		}
	}
	return incomplete, complete
}

// SummaryFor builds the display row of a list.
//
//	no tasks          -> "0", no indicator
//	all tasks done    -> "",  checkmark
//	otherwise         -> number of open tasks, no indicator
func SummaryFor(list models.TaskList) models.ListRow {
	row := models.ListRow{ID: list.ID, Title: list.Title, Indicator: models.IndicatorNone}
	switch {
	case len(list.Tasks) == 0:
		row.SecondaryLabel = "0"
	case list.IsFullyComplete():
		row.Indicator = models.IndicatorCheckmark
	default:
		row.SecondaryLabel = strconv.Itoa(list.IncompleteCount())
	}
	return row
}

// MoveOnToggle computes where a task lands after its completion state flips.
// from is the partition the task was shown in before the toggle. The index is
// recomputed from scratch: the task's position, matched by id, inside the
// destination partition of the list with the task in its new state. It
// reports false when the task does not belong to the list.
func MoveOnToggle(list models.TaskList, task models.Task, from models.Partition) (models.RowPosition, bool) {
	dest := from.Other()
	index := 0
	for _, t := range list.Tasks {
		if t.ID == task.ID {
			return models.RowPosition{Partition: dest, Index: index}, true
		}
		if models.PartitionFor(t.IsComplete) == dest {
			index++
		}
	}
	return models.RowPosition{}, false
}

// PositionOf locates a task in the list's current partitions.
func PositionOf(list models.TaskList, taskID string) (models.RowPosition, bool) {
	var counts [2]int
	for _, t := range list.Tasks {
		p := models.PartitionFor(t.IsComplete)
		if t.ID == taskID {
			return models.RowPosition{Partition: p, Index: counts[p]}, true
		}
		counts[p]++
	}
	return models.RowPosition{}, false
}

// TaskRowFor builds the display row of a task.
func TaskRowFor(t models.Task) models.TaskRow {
	return models.TaskRow{ID: t.ID, Title: t.Title, Note: t.Note}
}

// SectionsFor returns the two task sections of a list, open tasks first.
func SectionsFor(list models.TaskList) []models.Section {
	incomplete, complete := PartitionTasks(list)
	return []models.Section{
		section(models.Incomplete, incomplete),
		section(models.Complete, complete),
	}
}

func section(p models.Partition, tasks []models.Task) models.Section {
	rows := make([]models.TaskRow, len(tasks))
	for i, t := range tasks {
		rows[i] = TaskRowFor(t)
	}
	return models.Section{Partition: p, Header: p.Header(), Action: p.Action(), Rows: rows}
}
