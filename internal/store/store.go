// Package store persists apartments, reports, and work items. The engine
// never queries storage itself; handlers load item slices through a Store
// and hand them to the pure functions in internal/progress.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/snagtrack/snagtrack/internal/types"
)

// ErrApartmentNotFound distinguishes "apartment unknown" from "apartment
// known but has no items yet".
var ErrApartmentNotFound = errors.New("apartment not found")

// NewItem is one work item of a report being imported. ApartmentNumber is
// required; the apartment is created on first sight.
type NewItem struct {
	ApartmentNumber string         `json:"apartment_number"`
	Category        types.Category `json:"category"`
	Status          types.Status   `json:"status"`
	Notes           string         `json:"notes,omitempty"`
	Location        string         `json:"location,omitempty"`
	Description     string         `json:"description,omitempty"`
}

// ApartmentSummary is the listing row for one apartment.
type ApartmentSummary struct {
	Number      string    `json:"number"`
	ReportCount int       `json:"report_count"`
	ItemCount   int       `json:"item_count"`
	LastReport  time.Time `json:"last_report"`
}

// Store is the persistence interface shared by the SQLite and in-memory
// implementations.
type Store interface {
	// InsertReport writes one report and all its items atomically,
	// creating unseen apartments along the way.
	InsertReport(ctx context.Context, date time.Time, items []NewItem) (types.Report, error)

	// ItemsByApartment returns every work item of one apartment across
	// all reports, ordered by report date ascending. Returns
	// ErrApartmentNotFound for unknown apartment numbers.
	ItemsByApartment(ctx context.Context, number string) ([]types.WorkItem, error)

	// AllItems returns every work item in the store ordered by report
	// date ascending.
	AllItems(ctx context.Context) ([]types.WorkItem, error)

	// Apartments lists all known apartments with report and item counts,
	// sorted by number.
	Apartments(ctx context.Context) ([]ApartmentSummary, error)
}

// validateItems fails fast on malformed records. Unknown statuses are fine
// (the engine fails open on those); a missing apartment number or category
// is an input-contract violation.
func validateItems(items []NewItem) error {
	for i, in := range items {
		if in.ApartmentNumber == "" {
			return fmt.Errorf("item %d: apartment number is required", i)
		}
		if in.Category == "" {
			return fmt.Errorf("item %d: category is required", i)
		}
	}
	return nil
}
