// Package seed populates a store with demo inspection data.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/snagtrack/snagtrack/internal/store"
	"github.com/snagtrack/snagtrack/internal/types"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

// DemoData populates the store with three reports over two apartments:
// apartment 7 trending toward completion with a lingering plumbing defect,
// apartment 11 mid-construction. Notes follow the inspectors' real
// phrasing, including the Hebrew defect vocabulary.
func DemoData(ctx context.Context, s store.Store) error {
	reports := []struct {
		date  time.Time
		items []store.NewItem
	}{
		{
			date: date(2025, 9, 17),
			items: []store.NewItem{
				{ApartmentNumber: "7", Category: types.CategoryElectrical, Status: types.StatusInProgress, Location: "סלון"},
				{ApartmentNumber: "7", Category: types.CategoryElectrical, Status: types.StatusPending, Location: "מטבח"},
				{ApartmentNumber: "7", Category: types.CategoryPlumbing, Status: types.StatusDefect, Notes: "ליקוי בצנרת מתחת לכיור", Location: "אמבטיה"},
				{ApartmentNumber: "7", Category: types.CategoryFlooring, Status: types.StatusNotStarted, Location: "סלון"},
				{ApartmentNumber: "11", Category: types.CategoryElectrical, Status: types.StatusNotStarted, Location: "סלון"},
				{ApartmentNumber: "11", Category: types.CategoryDrywall, Status: types.StatusInProgress, Location: "חדר שינה"},
			},
		},
		{
			date: date(2025, 10, 5),
			items: []store.NewItem{
				{ApartmentNumber: "7", Category: types.CategoryElectrical, Status: types.StatusCompleted, Location: "סלון"},
				{ApartmentNumber: "7", Category: types.CategoryElectrical, Status: types.StatusCompleted, Notes: "חסרות שתי נקודות חשמל", Location: "מטבח"},
				{ApartmentNumber: "7", Category: types.CategoryPlumbing, Status: types.StatusNotOK, Notes: "עדיין לא תוקן", Location: "אמבטיה"},
				{ApartmentNumber: "7", Category: types.CategoryFlooring, Status: types.StatusInProgress, Location: "סלון"},
				{ApartmentNumber: "11", Category: types.CategoryElectrical, Status: types.StatusInProgress, Location: "סלון"},
				{ApartmentNumber: "11", Category: types.CategoryDrywall, Status: types.StatusCompleted, Location: "חדר שינה"},
				{ApartmentNumber: "11", Category: types.CategoryAC, Status: types.StatusPending, Location: "סלון"},
			},
		},
		{
			date: date(2026, 1, 12),
			items: []store.NewItem{
				{ApartmentNumber: "7", Category: types.CategoryElectrical, Status: types.StatusCompletedOK, Location: "סלון"},
				{ApartmentNumber: "7", Category: types.CategoryElectrical, Status: types.StatusCompletedOK, Location: "מטבח"},
				{ApartmentNumber: "7", Category: types.CategoryPlumbing, Status: types.StatusCompleted, Notes: "תוקן ונבדק", Location: "אמבטיה"},
				{ApartmentNumber: "7", Category: types.CategoryFlooring, Status: types.StatusCompleted, Notes: "אריח סדוק ליד הדלת", Location: "סלון"},
				{ApartmentNumber: "7", Category: types.CategoryPainting, Status: types.StatusInProgress, Location: "כללי"},
				{ApartmentNumber: "11", Category: types.CategoryElectrical, Status: types.StatusCompleted, Location: "סלון"},
				{ApartmentNumber: "11", Category: types.CategoryDrywall, Status: types.StatusCompletedOK, Location: "חדר שינה"},
				{ApartmentNumber: "11", Category: types.CategoryAC, Status: types.StatusInProgress, Location: "סלון"},
			},
		},
	}

	for _, r := range reports {
		if _, err := s.InsertReport(ctx, r.date, r.items); err != nil {
			return fmt.Errorf("seeding report %s: %w", r.date.Format("2006-01-02"), err)
		}
	}
	return nil
}
