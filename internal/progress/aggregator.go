package progress

import (
	"errors"
	"math"
	"time"

	"github.com/snagtrack/snagtrack/internal/types"
)

// ErrNoItems signals that an apartment has no work items to score. It is
// the explicit "no result" outcome and distinct from a zero score.
var ErrNoItems = errors.New("no work items")

// ScoreApartment computes the weighted progress of one apartment from the
// full set of its work items. Only the latest report counts: items are
// restricted to the maximum report date (all items sharing that date are
// included), averaged per category, then combined with the category
// weights. Categories with no items in the latest report are absent from
// the result, never emitted with a default score.
func (r Rules) ScoreApartment(number string, items []types.WorkItem, ruleset types.Ruleset) (*types.ApartmentProgress, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	latest := latestReportDate(items)

	type bucket struct {
		count   int
		total   int
		defects int
	}
	buckets := make(map[types.Category]*bucket)

	for _, item := range items {
		if !item.ReportDate.Equal(latest) {
			continue
		}
		b, ok := buckets[item.Category]
		if !ok {
			b = &bucket{}
			buckets[item.Category] = b
		}
		b.count++
		b.total += r.ItemProgress(item.Status, item.Notes, false, ruleset)
		if r.HasDefect(item.Status, item.Notes, ruleset) {
			b.defects++
		}
	}

	byCategory := make(map[types.Category]types.CategoryScore, len(buckets))
	var weightedSum, totalWeight float64
	for cat, b := range buckets {
		avg := int(math.Round(float64(b.total) / float64(b.count)))
		byCategory[cat] = types.CategoryScore{
			Category:        cat,
			ItemCount:       b.count,
			AverageProgress: avg,
			DefectCount:     b.defects,
		}
		weight := r.Weight(cat)
		weightedSum += float64(avg) * weight
		totalWeight += weight
	}

	overall := 0
	if totalWeight > 0 {
		overall = int(math.Round(weightedSum / totalWeight))
	}

	return &types.ApartmentProgress{
		ApartmentNumber: number,
		Ruleset:         ruleset,
		ReportDate:      latest,
		Overall:         overall,
		ByCategory:      byCategory,
	}, nil
}

func latestReportDate(items []types.WorkItem) time.Time {
	var latest time.Time
	for _, item := range items {
		if item.ReportDate.After(latest) {
			latest = item.ReportDate
		}
	}
	return latest
}
