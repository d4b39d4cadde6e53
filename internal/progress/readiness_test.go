package progress

import (
	"testing"
	"time"

	"github.com/snagtrack/snagtrack/internal/types"
)

func scopeItem(cat types.Category, loc string, status types.Status, reportDay int) types.WorkItem {
	return types.WorkItem{
		Category:   cat,
		Location:   loc,
		Status:     status,
		ReportDate: day(reportDay),
	}
}

func TestReadiness_LastWriteWins(t *testing.T) {
	// First report flags a defect, a later report marks the same scope
	// completed: the scope ends up OK.
	items := []types.WorkItem{
		scopeItem(types.CategoryPlumbing, "bathroom", types.StatusDefect, 1),
		scopeItem(types.CategoryPlumbing, "bathroom", types.StatusCompleted, 8),
	}

	row := Readiness("7", items)
	if row.OK != 1 || row.Defect != 0 {
		t.Errorf("row = %+v, want OK=1 Defect=0", row)
	}
}

func TestReadiness_LastWriteWinsRegardlessOfInputOrder(t *testing.T) {
	// Same scopes but the newer report appears first in the input; the
	// stable sort by report date must still let the newer state win.
	items := []types.WorkItem{
		scopeItem(types.CategoryPlumbing, "bathroom", types.StatusCompleted, 8),
		scopeItem(types.CategoryPlumbing, "bathroom", types.StatusDefect, 1),
	}

	row := Readiness("7", items)
	if row.OK != 1 || row.Defect != 0 {
		t.Errorf("row = %+v, want OK=1 Defect=0", row)
	}
}

func TestReadiness_TimestampTieBrokenByInputOrder(t *testing.T) {
	items := []types.WorkItem{
		scopeItem(types.CategoryAC, "salon", types.StatusDefect, 5),
		scopeItem(types.CategoryAC, "salon", types.StatusCompleted, 5),
	}

	row := Readiness("7", items)
	if row.OK != 1 || row.Defect != 0 {
		t.Errorf("row = %+v, want the later input row (OK) to win the tie", row)
	}
}

func TestReadiness_InfoDiscardedBeforeDedup(t *testing.T) {
	// An unrecognized status seen later must not erase the classified
	// state: INFO rows are filtered out before the last-write-wins pass.
	items := []types.WorkItem{
		scopeItem(types.CategoryElectrical, "kitchen", types.StatusDefect, 1),
		scopeItem(types.CategoryElectrical, "kitchen", types.Status("SITE_VISIT_NOTE"), 8),
	}

	row := Readiness("7", items)
	if row.Defect != 1 {
		t.Errorf("row = %+v, want Defect=1 (INFO must not overwrite)", row)
	}
}

func TestReadiness_DistinctLocationsAreDistinctScopes(t *testing.T) {
	items := []types.WorkItem{
		scopeItem(types.CategoryFlooring, "salon", types.StatusCompleted, 1),
		scopeItem(types.CategoryFlooring, "bedroom", types.StatusDefect, 1),
		scopeItem(types.CategoryFlooring, "", types.StatusPending, 1),
	}

	row := Readiness("7", items)
	if row.Total != 3 {
		t.Fatalf("total = %d, want 3 (empty location is its own scope)", row.Total)
	}
	if row.OK != 1 || row.Defect != 1 || row.Pending != 1 {
		t.Errorf("row = %+v, want one of each state", row)
	}
}

func TestReadiness_HealthScoreOneDecimal(t *testing.T) {
	items := []types.WorkItem{
		scopeItem(types.CategoryAC, "a", types.StatusCompleted, 1),
		scopeItem(types.CategoryAC, "b", types.StatusCompleted, 1),
		scopeItem(types.CategoryAC, "c", types.StatusDefect, 1),
	}

	row := Readiness("7", items)
	if row.HealthScore == nil {
		t.Fatal("health score should be defined")
	}
	if *row.HealthScore != 66.7 {
		t.Errorf("health = %v, want 66.7", *row.HealthScore)
	}
}

func TestReadiness_NoQualifyingItemsHealthUndefined(t *testing.T) {
	// Only INFO rows: the health score is undefined, not zero or NaN.
	items := []types.WorkItem{
		scopeItem(types.CategoryOther, "", types.Status("NOTE"), 1),
		scopeItem(types.CategoryOther, "", types.StatusHandled, 1),
	}

	row := Readiness("7", items)
	if row.Total != 0 {
		t.Errorf("total = %d, want 0", row.Total)
	}
	if row.HealthScore != nil {
		t.Errorf("health = %v, want nil", *row.HealthScore)
	}
}

func TestReadiness_EmptyInput(t *testing.T) {
	row := Readiness("7", nil)
	if row.Total != 0 || row.HealthScore != nil {
		t.Errorf("row = %+v, want zero totals and undefined health", row)
	}
}

func TestReadiness_PreservesReportDateOrderingAcrossMixedScopes(t *testing.T) {
	base := time.Date(2025, 10, 5, 12, 0, 0, 0, time.UTC)
	items := []types.WorkItem{
		{Category: types.CategoryKitchen, Location: "sink", Status: types.StatusPending, ReportDate: base},
		{Category: types.CategoryKitchen, Location: "sink", Status: types.StatusDefect, ReportDate: base.Add(time.Hour)},
		{Category: types.CategoryKitchen, Location: "counter", Status: types.StatusCompleted, ReportDate: base},
	}

	row := Readiness("11", items)
	if row.Defect != 1 || row.OK != 1 || row.Pending != 0 {
		t.Errorf("row = %+v, want Defect=1 OK=1 Pending=0", row)
	}
}
