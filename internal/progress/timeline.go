package progress

import (
	"iter"
	"sort"
	"strings"
	"time"

	"github.com/snagtrack/snagtrack/internal/types"
)

// IsCompleted reports whether a status counts as completed for the
// trajectory tracker: an exact match against the completion vocabulary, or
// an upper-cased substring match on COMPLETED or DONE.
//
// This is intentionally looser than the classifier's positive set. The two
// "completed" notions grew independently and are not reconciled; callers
// must not substitute one for the other.
func (r Rules) IsCompleted(status types.Status) bool {
	s := string(status)
	for _, c := range r.CompletedStatuses {
		if s == c {
			return true
		}
	}
	upper := strings.ToUpper(s)
	return strings.Contains(upper, "COMPLETED") || strings.Contains(upper, "DONE")
}

// CompletionSeries produces the cumulative completion trajectory of one
// (apartment, category) pair: one point per report date, ascending, with a
// running total of completed items. The count is per report, not
// deduplicated: an item observed as completed in three reports contributes
// three times.
//
// The returned sequence is lazy and restartable; ranging over it twice
// yields the same points.
func (r Rules) CompletionSeries(items []types.WorkItem, category types.Category) iter.Seq[types.CompletionPoint] {
	perDate := make(map[time.Time]int)
	for _, item := range items {
		if item.Category != category {
			continue
		}
		if _, ok := perDate[item.ReportDate]; !ok {
			perDate[item.ReportDate] = 0
		}
		if r.IsCompleted(item.Status) {
			perDate[item.ReportDate]++
		}
	}

	dates := make([]time.Time, 0, len(perDate))
	for d := range perDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	return func(yield func(types.CompletionPoint) bool) {
		cumulative := 0
		for _, d := range dates {
			cumulative += perDate[d]
			point := types.CompletionPoint{
				ReportDate: d,
				Completed:  perDate[d],
				Cumulative: cumulative,
			}
			if !yield(point) {
				return
			}
		}
	}
}

// Categories returns the distinct categories present in the items, sorted,
// for iterating series per category.
func Categories(items []types.WorkItem) []types.Category {
	seen := make(map[types.Category]struct{})
	for _, item := range items {
		seen[item.Category] = struct{}{}
	}
	cats := make([]types.Category, 0, len(seen))
	for c := range seen {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}
