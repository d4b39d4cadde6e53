package progress

import (
	"strings"

	"github.com/snagtrack/snagtrack/internal/types"
)

// HasNegativeNotes reports whether the notes contain any negative keyword
// as a case-folded contiguous substring. Empty notes never match.
//
// Matching is literal substring search on purpose. Tokenizing or fuzzy
// matching would silently change defect counts across historical reports.
func (r Rules) HasNegativeNotes(notes string) bool {
	if notes == "" {
		return false
	}
	lower := strings.ToLower(notes)
	for _, keyword := range r.Keywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// IsNegativeStatus reports whether the status explicitly records a defect.
func IsNegativeStatus(status types.Status) bool {
	return status == types.StatusDefect || status == types.StatusNotOK
}

// IsPositiveStatus reports whether the status claims the work is done.
func IsPositiveStatus(status types.Status) bool {
	switch status {
	case types.StatusCompleted, types.StatusCompletedOK, types.StatusHandled:
		return true
	}
	return false
}

// EffectiveStatus resolves the status a work item should be scored under:
//
//  1. A negative status is sticky: notes cannot un-flag a recorded defect.
//  2. A positive status with negative notes becomes DEFECT. Text evidence
//     of a problem overrides an optimistic status code.
//  3. Everything else, including unrecognized statuses, passes through
//     verbatim. A neutral status is never overridden, even with negative
//     notes.
func (r Rules) EffectiveStatus(status types.Status, notes string) types.Status {
	if IsNegativeStatus(status) {
		return status
	}
	if IsPositiveStatus(status) && r.HasNegativeNotes(notes) {
		return types.StatusDefect
	}
	return status
}

// HasDefect reports whether the item counts as defective under the given
// ruleset. v2 combines the raw status with an independent notes check; v3
// classifies through EffectiveStatus. The two are equivalent for every
// (status, notes) pair, which the tests verify exhaustively.
func (r Rules) HasDefect(status types.Status, notes string, ruleset types.Ruleset) bool {
	if ruleset == types.RulesetV2 {
		return IsNegativeStatus(status) || (IsPositiveStatus(status) && r.HasNegativeNotes(notes))
	}
	return IsNegativeStatus(r.EffectiveStatus(status, notes))
}

// StateOf maps a raw status to its readiness state. Statuses outside the
// readiness vocabulary map to INFO and are dropped from readiness totals.
func StateOf(status types.Status) types.State {
	switch status {
	case types.StatusCompleted, types.StatusCompletedOK:
		return types.StateOK
	case types.StatusDefect, types.StatusNotOK:
		return types.StateDefect
	case types.StatusInProgress, types.StatusPending:
		return types.StatePending
	}
	return types.StateInfo
}
