package models

import "sort"

// SortLists returns a copy of lists ordered by the criterion. The input is left untouched.
// Title order is case-sensitive byte order; creation order keeps insertion order for ties.
func SortLists(lists []TaskList, by SortCriterion) []TaskList {
	out := make([]TaskList, len(lists))
	copy(out, lists)

	switch by {
	case SortByTitle:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	}
	return out
}
