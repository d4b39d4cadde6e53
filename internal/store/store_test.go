package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/snagtrack/snagtrack/internal/types"
)

// Both implementations must behave identically; every test runs against
// the memory store and a throwaway SQLite database.
func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore())
	})
	t.Run("sqlite", func(t *testing.T) {
		s, err := Open(context.Background(), "file:"+t.TempDir()+"/test.db")
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		fn(t, s)
	})
}

func reportDate(day int) time.Time {
	return time.Date(2025, 10, day, 0, 0, 0, 0, time.UTC)
}

func TestInsertReportAndItemsByApartment(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		_, err := s.InsertReport(ctx, reportDate(5), []NewItem{
			{ApartmentNumber: "7", Category: types.CategoryElectrical, Status: types.StatusPending},
			{ApartmentNumber: "7", Category: types.CategoryPlumbing, Status: types.StatusDefect, Notes: "ליקוי בצנרת", Location: "bathroom"},
			{ApartmentNumber: "11", Category: types.CategoryElectrical, Status: types.StatusCompleted},
		})
		require.NoError(t, err)

		items, err := s.ItemsByApartment(ctx, "7")
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "7", items[0].ApartmentNumber)
		assert.Equal(t, reportDate(5), items[0].ReportDate)
		assert.Equal(t, "ליקוי בצנרת", items[1].Notes)
		assert.Equal(t, "bathroom", items[1].Location)
	})
}

func TestItemsByApartment_NotFound(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		_, err := s.ItemsByApartment(context.Background(), "99")
		assert.ErrorIs(t, err, ErrApartmentNotFound)
	})
}

func TestItemsByApartment_OrderedByReportDate(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		// Insert out of chronological order.
		_, err := s.InsertReport(ctx, reportDate(20), []NewItem{
			{ApartmentNumber: "7", Category: types.CategoryAC, Status: types.StatusCompleted},
		})
		require.NoError(t, err)
		_, err = s.InsertReport(ctx, reportDate(5), []NewItem{
			{ApartmentNumber: "7", Category: types.CategoryAC, Status: types.StatusPending},
		})
		require.NoError(t, err)

		items, err := s.ItemsByApartment(ctx, "7")
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.True(t, items[0].ReportDate.Before(items[1].ReportDate))
		assert.Equal(t, types.StatusPending, items[0].Status)
	})
}

func TestInsertReport_ValidatesItems(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		_, err := s.InsertReport(ctx, reportDate(1), []NewItem{
			{Category: types.CategoryAC, Status: types.StatusPending},
		})
		assert.Error(t, err, "missing apartment number must fail fast")

		_, err = s.InsertReport(ctx, reportDate(1), []NewItem{
			{ApartmentNumber: "7", Status: types.StatusPending},
		})
		assert.Error(t, err, "missing category must fail fast")
	})
}

func TestApartments_Summaries(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		_, err := s.InsertReport(ctx, reportDate(5), []NewItem{
			{ApartmentNumber: "7", Category: types.CategoryAC, Status: types.StatusPending},
			{ApartmentNumber: "7", Category: types.CategoryKitchen, Status: types.StatusPending},
			{ApartmentNumber: "11", Category: types.CategoryAC, Status: types.StatusPending},
		})
		require.NoError(t, err)
		_, err = s.InsertReport(ctx, reportDate(12), []NewItem{
			{ApartmentNumber: "7", Category: types.CategoryAC, Status: types.StatusCompleted},
		})
		require.NoError(t, err)

		summaries, err := s.Apartments(ctx)
		require.NoError(t, err)
		require.Len(t, summaries, 2)

		// Sorted by number: "11" < "7" lexicographically.
		assert.Equal(t, "11", summaries[0].Number)
		assert.Equal(t, 1, summaries[0].ItemCount)
		assert.Equal(t, "7", summaries[1].Number)
		assert.Equal(t, 3, summaries[1].ItemCount)
		assert.Equal(t, 2, summaries[1].ReportCount)
		assert.Equal(t, reportDate(12), summaries[1].LastReport)
	})
}

func TestAllItems(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		_, err := s.InsertReport(ctx, reportDate(5), []NewItem{
			{ApartmentNumber: "7", Category: types.CategoryAC, Status: types.StatusPending},
			{ApartmentNumber: "11", Category: types.CategoryAC, Status: types.StatusPending},
		})
		require.NoError(t, err)

		items, err := s.AllItems(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})
}
