package progress

import (
	"math"
	"sort"

	"github.com/snagtrack/snagtrack/internal/types"
)

type scopeKey struct {
	category types.Category
	location string
}

// Readiness reduces one apartment's full history to the most recent
// classified state per (category, location) scope and counts the outcome.
//
// INFO rows are discarded before the last-write-wins pass, so an
// unrecognized status observed later can never erase an earlier classified
// state. Ordering is by report date ascending with input order breaking
// ties (the sort is stable).
func Readiness(number string, items []types.WorkItem) types.ReadinessRow {
	classified := make([]types.WorkItem, 0, len(items))
	for _, item := range items {
		if StateOf(item.Status) != types.StateInfo {
			classified = append(classified, item)
		}
	}

	sort.SliceStable(classified, func(i, j int) bool {
		return classified[i].ReportDate.Before(classified[j].ReportDate)
	})

	latest := make(map[scopeKey]types.State)
	for _, item := range classified {
		key := scopeKey{category: item.Category, location: item.Location}
		latest[key] = StateOf(item.Status)
	}

	row := types.ReadinessRow{ApartmentNumber: number}
	for _, state := range latest {
		switch state {
		case types.StateOK:
			row.OK++
		case types.StateDefect:
			row.Defect++
		case types.StatePending:
			row.Pending++
		}
	}
	row.Total = row.OK + row.Defect + row.Pending

	// No qualifying scopes means the health score is undefined, not zero
	// and not NaN.
	if row.Total > 0 {
		health := math.Round(float64(row.OK)/float64(row.Total)*1000) / 10
		row.HealthScore = &health
	}

	return row
}
