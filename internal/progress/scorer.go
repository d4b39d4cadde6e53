package progress

import (
	"github.com/snagtrack/snagtrack/internal/types"
)

// ItemProgress maps one work item to a progress value in [0,100].
//
// isFirstTime distinguishes the item's first-ever COMPLETED observation
// from a repeat one. The engine never derives it from history; callers
// that track history pass it explicitly, everyone else passes false.
//
// The v2 and v3 rulesets share the threshold table but reach it
// differently: v2 branches on the raw status plus a separate notes check
// and scores COMPLETED/COMPLETED_OK with negative notes at
// CompletedWithIssues (65); v3 scores the effective status, so the same
// item classifies as DEFECT and lands on DefectWorkDone (55). The 65/55
// split is a real historical divergence and is kept as-is.
func (r Rules) ItemProgress(status types.Status, notes string, isFirstTime bool, ruleset types.Ruleset) int {
	if ruleset == types.RulesetV2 {
		return r.itemProgressV2(status, notes, isFirstTime)
	}
	return r.itemProgressV3(status, notes, isFirstTime)
}

func (r Rules) itemProgressV2(status types.Status, notes string, isFirstTime bool) int {
	hasIssues := r.HasNegativeNotes(notes)

	switch status {
	case types.StatusCompletedOK:
		if hasIssues {
			return r.Thresholds.CompletedWithIssues
		}
		return r.Thresholds.VerifiedNoDefects
	case types.StatusCompleted:
		if hasIssues {
			return r.Thresholds.CompletedWithIssues
		}
		if isFirstTime {
			return r.Thresholds.CompletedOKFirst
		}
		return r.Thresholds.CompletedOKLater
	case types.StatusHandled:
		return r.Thresholds.Handled
	case types.StatusDefect, types.StatusNotOK:
		return r.Thresholds.DefectWorkDone
	case types.StatusInProgress:
		return r.Thresholds.InProgress
	case types.StatusPending:
		return r.Thresholds.Pending
	case types.StatusNotStarted:
		return r.Thresholds.NotStarted
	}
	return r.Thresholds.Unknown
}

func (r Rules) itemProgressV3(status types.Status, notes string, isFirstTime bool) int {
	effective := r.EffectiveStatus(status, notes)

	switch effective {
	case types.StatusCompletedOK:
		return r.Thresholds.VerifiedNoDefects
	case types.StatusCompleted:
		// No negative notes here: the classifier would have turned the
		// item into DEFECT otherwise.
		if isFirstTime {
			return r.Thresholds.CompletedOKFirst
		}
		return r.Thresholds.CompletedOKLater
	case types.StatusHandled:
		return r.Thresholds.Handled
	case types.StatusDefect, types.StatusNotOK:
		return r.Thresholds.DefectWorkDone
	case types.StatusInProgress:
		return r.Thresholds.InProgress
	case types.StatusPending:
		return r.Thresholds.Pending
	case types.StatusNotStarted:
		return r.Thresholds.NotStarted
	}
	return r.Thresholds.Unknown
}
