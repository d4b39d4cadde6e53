package handler

import (
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/snagtrack/snagtrack/internal/live"
	"github.com/snagtrack/snagtrack/internal/progress"
	"github.com/snagtrack/snagtrack/internal/store"
	"github.com/snagtrack/snagtrack/internal/types"
)

// scoreWorkers caps concurrent per-apartment scoring in portfolio queries.
const scoreWorkers = 8

// ProgressHandler implements the HTTP surface of the progress engine.
type ProgressHandler struct {
	store store.Store
	rules progress.Rules
	hub   *live.Hub
}

// NewProgressHandler creates a ProgressHandler. hub may be nil when no
// live feed is wanted (CLI, tests).
func NewProgressHandler(s store.Store, rules progress.Rules, hub *live.Hub) *ProgressHandler {
	return &ProgressHandler{store: s, rules: rules, hub: hub}
}

// ImportReport ingests one site report.
// POST /v1/reports
func (h *ProgressHandler) ImportReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date  time.Time       `json:"date"`
		Items []store.NewItem `json:"items"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if req.Date.IsZero() {
		writeError(w, http.StatusBadRequest, "MISSING_DATE", "report date is required")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "MISSING_ITEMS", "report must contain at least one item")
		return
	}

	report, err := h.store.InsertReport(r.Context(), req.Date, req.Items)
	if err != nil {
		writeError(w, http.StatusBadRequest, "IMPORT_FAILED", err.Error())
		return
	}

	h.broadcastAffected(r, req.Items)

	writeJSON(w, http.StatusCreated, report)
}

// broadcastAffected recomputes progress for every apartment touched by an
// import and pushes the result to live subscribers. Best-effort: failures
// are logged, never surfaced to the importer.
func (h *ProgressHandler) broadcastAffected(r *http.Request, items []store.NewItem) {
	if h.hub == nil || h.hub.SubscriberCount() == 0 {
		return
	}

	seen := make(map[string]struct{})
	for _, in := range items {
		if _, ok := seen[in.ApartmentNumber]; ok {
			continue
		}
		seen[in.ApartmentNumber] = struct{}{}

		all, err := h.store.ItemsByApartment(r.Context(), in.ApartmentNumber)
		if err != nil {
			log.Warn().Err(err).Str("apartment", in.ApartmentNumber).Msg("live recompute failed")
			continue
		}
		prog, err := h.rules.ScoreApartment(in.ApartmentNumber, all, types.RulesetV3)
		if err != nil {
			continue
		}
		h.hub.Broadcast(prog)
	}
}

// ListApartments returns all apartments with report and item counts.
// GET /v1/apartments
func (h *ProgressHandler) ListApartments(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.store.Apartments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "QUERY_FAILED", err.Error())
		return
	}
	if summaries == nil {
		summaries = []store.ApartmentSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"apartments": summaries})
}

// GetProgress returns the weighted progress of one apartment under the
// requested ruleset.
// GET /v1/apartments/{number}/progress?ruleset=v2|v3
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	ruleset, ok := parseRuleset(w, r)
	if !ok {
		return
	}
	number := chi.URLParam(r, "number")

	items, err := h.store.ItemsByApartment(r.Context(), number)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}

	prog, err := h.rules.ScoreApartment(number, items, ruleset)
	if errors.Is(err, progress.ErrNoItems) {
		writeError(w, http.StatusNotFound, "NO_ITEMS", "apartment has no work items")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "SCORING_FAILED", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, prog)
}

// CategoryComparison is one row of a v2/v3 comparison.
type CategoryComparison struct {
	Category types.Category `json:"category"`
	V2       int            `json:"v2"`
	V3       int            `json:"v3"`
	Diff     int            `json:"diff"`
}

// CompareProgress scores one apartment under both rulesets side by side.
// GET /v1/apartments/{number}/progress/compare
func (h *ProgressHandler) CompareProgress(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	items, err := h.store.ItemsByApartment(r.Context(), number)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}

	v2, err := h.rules.ScoreApartment(number, items, types.RulesetV2)
	if errors.Is(err, progress.ErrNoItems) {
		writeError(w, http.StatusNotFound, "NO_ITEMS", "apartment has no work items")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "SCORING_FAILED", err.Error())
		return
	}
	v3, err := h.rules.ScoreApartment(number, items, types.RulesetV3)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "SCORING_FAILED", err.Error())
		return
	}

	var categories []CategoryComparison
	for cat := range v2.ByCategory {
		categories = append(categories, CategoryComparison{
			Category: cat,
			V2:       v2.ByCategory[cat].AverageProgress,
			V3:       v3.ByCategory[cat].AverageProgress,
			Diff:     v3.ByCategory[cat].AverageProgress - v2.ByCategory[cat].AverageProgress,
		})
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Category < categories[j].Category })

	writeJSON(w, http.StatusOK, map[string]any{
		"apartment_number": number,
		"v2_overall":       v2.Overall,
		"v3_overall":       v3.Overall,
		"diff":             v3.Overall - v2.Overall,
		"categories":       categories,
	})
}

// GetTimeline returns the cumulative completion trajectory of one
// apartment, per category.
// GET /v1/apartments/{number}/timeline?category=FLOORING
func (h *ProgressHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")

	items, err := h.store.ItemsByApartment(r.Context(), number)
	if err != nil {
		storeErrorToHTTP(w, err)
		return
	}

	categories := progress.Categories(items)
	if c := r.URL.Query().Get("category"); c != "" {
		categories = []types.Category{types.Category(c)}
	}

	series := make(map[types.Category][]types.CompletionPoint, len(categories))
	for _, cat := range categories {
		points := []types.CompletionPoint{}
		for p := range h.rules.CompletionSeries(items, cat) {
			points = append(points, p)
		}
		series[cat] = points
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"apartment_number": number,
		"series":           series,
	})
}

// GetReadiness returns the latest-state readiness summary for every
// apartment.
// GET /v1/readiness
func (h *ProgressHandler) GetReadiness(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.AllItems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "QUERY_FAILED", err.Error())
		return
	}

	byApartment := make(map[string][]types.WorkItem)
	for _, item := range items {
		byApartment[item.ApartmentNumber] = append(byApartment[item.ApartmentNumber], item)
	}

	rows := make([]types.ReadinessRow, 0, len(byApartment))
	for number, aptItems := range byApartment {
		rows = append(rows, progress.Readiness(number, aptItems))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ApartmentNumber < rows[j].ApartmentNumber })

	writeJSON(w, http.StatusOK, map[string]any{"readiness": rows})
}

// PortfolioProgress scores every apartment concurrently under one ruleset.
// GET /v1/portfolio/progress?ruleset=v2|v3
func (h *ProgressHandler) PortfolioProgress(w http.ResponseWriter, r *http.Request) {
	ruleset, ok := parseRuleset(w, r)
	if !ok {
		return
	}

	summaries, err := h.store.Apartments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "QUERY_FAILED", err.Error())
		return
	}

	var (
		mu      sync.Mutex
		results []*types.ApartmentProgress
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(scoreWorkers)
	for _, sum := range summaries {
		g.Go(func() error {
			items, err := h.store.ItemsByApartment(ctx, sum.Number)
			if err != nil {
				return err
			}
			prog, err := h.rules.ScoreApartment(sum.Number, items, ruleset)
			if errors.Is(err, progress.ErrNoItems) {
				return nil // apartment known but nothing reported yet
			}
			if err != nil {
				return err
			}
			mu.Lock()
			results = append(results, prog)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		writeError(w, http.StatusInternalServerError, "SCORING_FAILED", err.Error())
		return
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].ApartmentNumber < results[j].ApartmentNumber
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"ruleset":    ruleset,
		"apartments": results,
	})
}

// storeErrorToHTTP maps store errors to HTTP responses.
func storeErrorToHTTP(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrApartmentNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	log.Error().Err(err).Msg("store error")
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
