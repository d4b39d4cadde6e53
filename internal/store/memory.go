package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/snagtrack/snagtrack/internal/types"
)

// MemoryStore implements Store using in-memory slices.
// Intended for demos and testing — no database file required.
type MemoryStore struct {
	mu         sync.RWMutex
	apartments map[string]types.Apartment // keyed by number
	items      []types.WorkItem
	reports    []types.Report
}

// NewMemoryStore creates a new empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{apartments: make(map[string]types.Apartment)}
}

func (s *MemoryStore) InsertReport(_ context.Context, date time.Time, items []NewItem) (types.Report, error) {
	if err := validateItems(items); err != nil {
		return types.Report{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	report := types.Report{ID: uuid.NewString(), Date: date}
	s.reports = append(s.reports, report)

	for _, in := range items {
		apt, ok := s.apartments[in.ApartmentNumber]
		if !ok {
			apt = types.Apartment{ID: uuid.NewString(), Number: in.ApartmentNumber}
			s.apartments[in.ApartmentNumber] = apt
		}
		s.items = append(s.items, types.WorkItem{
			ID:              uuid.NewString(),
			ApartmentID:     apt.ID,
			ApartmentNumber: apt.Number,
			ReportID:        report.ID,
			Category:        in.Category,
			Status:          in.Status,
			Notes:           in.Notes,
			Location:        in.Location,
			Description:     in.Description,
			ReportDate:      date,
		})
	}

	return report, nil
}

func (s *MemoryStore) ItemsByApartment(_ context.Context, number string) ([]types.WorkItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.apartments[number]; !ok {
		return nil, ErrApartmentNotFound
	}

	var matched []types.WorkItem
	for _, item := range s.items {
		if item.ApartmentNumber == number {
			matched = append(matched, item)
		}
	}
	sortByReportDate(matched)
	return matched, nil
}

func (s *MemoryStore) AllItems(_ context.Context) ([]types.WorkItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]types.WorkItem, len(s.items))
	copy(all, s.items)
	sortByReportDate(all)
	return all, nil
}

func (s *MemoryStore) Apartments(_ context.Context) ([]ApartmentSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byNumber := make(map[string]*ApartmentSummary)
	reportsSeen := make(map[string]map[string]struct{})
	for number := range s.apartments {
		byNumber[number] = &ApartmentSummary{Number: number}
		reportsSeen[number] = make(map[string]struct{})
	}
	for _, item := range s.items {
		sum := byNumber[item.ApartmentNumber]
		sum.ItemCount++
		if item.ReportDate.After(sum.LastReport) {
			sum.LastReport = item.ReportDate
		}
		reportsSeen[item.ApartmentNumber][item.ReportID] = struct{}{}
	}

	result := make([]ApartmentSummary, 0, len(byNumber))
	for number, sum := range byNumber {
		sum.ReportCount = len(reportsSeen[number])
		result = append(result, *sum)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

// sortByReportDate orders items ascending by report date, stable so input
// order breaks ties (the readiness summarizer depends on this).
func sortByReportDate(items []types.WorkItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ReportDate.Before(items[j].ReportDate)
	})
}
