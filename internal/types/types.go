// Package types holds the domain records and derived aggregates shared by
// the progress engine, the stores, and the HTTP layer.
package types

import "time"

// Category is a construction trade. Work items carry the category as text;
// unrecognized categories are preserved verbatim and scored with the
// default weight.
type Category string

const (
	CategoryElectrical    Category = "ELECTRICAL"
	CategoryPlumbing      Category = "PLUMBING"
	CategoryAC            Category = "AC"
	CategoryFlooring      Category = "FLOORING"
	CategorySprinklers    Category = "SPRINKLERS"
	CategoryDrywall       Category = "DRYWALL"
	CategoryWaterproofing Category = "WATERPROOFING"
	CategoryPainting      Category = "PAINTING"
	CategoryKitchen       Category = "KITCHEN"
	CategoryOther         Category = "OTHER"
)

// Status is the raw inspection status recorded on a work item. Values
// outside the enumerated set are carried through unchanged and treated as
// unknown by the scorer.
type Status string

const (
	StatusCompleted   Status = "COMPLETED"
	StatusCompletedOK Status = "COMPLETED_OK"
	StatusHandled     Status = "HANDLED"
	StatusDefect      Status = "DEFECT"
	StatusNotOK       Status = "NOT_OK"
	StatusInProgress  Status = "IN_PROGRESS"
	StatusPending     Status = "PENDING"
	StatusNotStarted  Status = "NOT_STARTED"
)

// Ruleset selects between the two historical defect-detection formulations.
// They are defect-count equivalent but diverge on the score given to a
// positive status with negative notes (v2: 65, v3: 55).
type Ruleset string

const (
	RulesetV2 Ruleset = "v2"
	RulesetV3 Ruleset = "v3"
)

// State is the readiness classification of an (apartment, category,
// location) scope. StateInfo marks statuses outside the readiness
// vocabulary; INFO rows are discarded before aggregation.
type State string

const (
	StateOK      State = "OK"
	StateDefect  State = "DEFECT"
	StatePending State = "PENDING"
	StateInfo    State = "INFO"
)

// Apartment is a unit under inspection. Number is the human-facing
// identifier used throughout the API and CLI.
type Apartment struct {
	ID     string `json:"id"`
	Number string `json:"number"`
}

// Report is one site visit covering any number of apartments. All work
// items of a report share its date.
type Report struct {
	ID   string    `json:"id"`
	Date time.Time `json:"date"`
}

// WorkItem is a single inspected item inside a report. Notes is free text
// and may be empty; Location identifies a sub-area within the apartment
// and category (empty location is a distinct "general" scope).
// ApartmentNumber is denormalized from the apartment for aggregation.
type WorkItem struct {
	ID              string `json:"id"`
	ApartmentID     string `json:"apartment_id"`
	ApartmentNumber string `json:"apartment_number"`

	ReportID    string    `json:"report_id"`
	Category    Category  `json:"category"`
	Status      Status    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	ReportDate  time.Time `json:"report_date"`
}

// CategoryScore is the per-category aggregate over an apartment's latest
// report.
type CategoryScore struct {
	Category        Category `json:"category"`
	ItemCount       int      `json:"item_count"`
	AverageProgress int      `json:"average_progress"`
	DefectCount     int      `json:"defect_count"`
}

// ApartmentProgress is the weighted overall score for one apartment,
// computed fresh from the latest report on every call.
type ApartmentProgress struct {
	ApartmentNumber string                     `json:"apartment_number"`
	Ruleset         Ruleset                    `json:"ruleset"`
	ReportDate      time.Time                  `json:"report_date"`
	Overall         int                        `json:"overall"`
	ByCategory      map[Category]CategoryScore `json:"by_category"`
}

// CompletionPoint is one step of the cumulative completion trajectory for
// an (apartment, category) pair.
type CompletionPoint struct {
	ReportDate time.Time `json:"report_date"`
	Completed  int       `json:"completed"`
	Cumulative int       `json:"cumulative"`
}

// ReadinessRow summarizes the most recent classified state of every
// (category, location) scope in one apartment. HealthScore is nil when the
// apartment has no qualifying scopes, distinguishing "nothing tracked"
// from a zero score.
type ReadinessRow struct {
	ApartmentNumber string   `json:"apartment_number"`
	OK              int      `json:"ok"`
	Defect          int      `json:"defect"`
	Pending         int      `json:"pending"`
	Total           int      `json:"total"`
	HealthScore     *float64 `json:"health_score"`
}
