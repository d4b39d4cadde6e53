package progress

import (
	"errors"
	"testing"
	"time"

	"github.com/snagtrack/snagtrack/internal/types"
)

func day(n int) time.Time {
	return time.Date(2025, 9, n, 0, 0, 0, 0, time.UTC)
}

func makeItem(cat types.Category, status types.Status, notes string, reportDay int) types.WorkItem {
	return types.WorkItem{
		ApartmentID: "apt-7",
		Category:    cat,
		Status:      status,
		Notes:       notes,
		ReportDate:  day(reportDay),
	}
}

func TestScoreApartment_EmptyInput(t *testing.T) {
	rules := DefaultRules()
	_, err := rules.ScoreApartment("7", nil, types.RulesetV3)
	if !errors.Is(err, ErrNoItems) {
		t.Fatalf("err = %v, want ErrNoItems", err)
	}
}

func TestScoreApartment_LatestReportOnly(t *testing.T) {
	rules := DefaultRules()
	items := []types.WorkItem{
		// Older report: everything not started. Must be ignored.
		makeItem(types.CategoryElectrical, types.StatusNotStarted, "", 1),
		makeItem(types.CategoryPlumbing, types.StatusNotStarted, "", 1),
		// Latest report.
		makeItem(types.CategoryElectrical, types.StatusCompletedOK, "", 17),
	}

	prog, err := rules.ScoreApartment("7", items, types.RulesetV3)
	if err != nil {
		t.Fatal(err)
	}
	if !prog.ReportDate.Equal(day(17)) {
		t.Errorf("report date = %v, want %v", prog.ReportDate, day(17))
	}
	if len(prog.ByCategory) != 1 {
		t.Fatalf("got %d categories, want 1 (older report must not leak in)", len(prog.ByCategory))
	}
	if prog.ByCategory[types.CategoryElectrical].AverageProgress != 90 {
		t.Errorf("electrical avg = %d, want 90", prog.ByCategory[types.CategoryElectrical].AverageProgress)
	}
}

func TestScoreApartment_WeightsCancelWhenAveragesEqual(t *testing.T) {
	rules := DefaultRules()
	// Two ELECTRICAL items averaging 80 ((90+70)/2) and two PAINTING items
	// averaging 80. Equal averages make the weights cancel: overall 80.
	items := []types.WorkItem{
		makeItem(types.CategoryElectrical, types.StatusCompletedOK, "", 5),
		makeItem(types.CategoryElectrical, types.StatusHandled, "", 5),
		makeItem(types.CategoryPainting, types.StatusCompletedOK, "", 5),
		makeItem(types.CategoryPainting, types.StatusHandled, "", 5),
	}

	prog, err := rules.ScoreApartment("7", items, types.RulesetV3)
	if err != nil {
		t.Fatal(err)
	}
	if prog.ByCategory[types.CategoryElectrical].AverageProgress != 80 {
		t.Errorf("electrical avg = %d, want 80", prog.ByCategory[types.CategoryElectrical].AverageProgress)
	}
	if prog.Overall != 80 {
		t.Errorf("overall = %d, want 80", prog.Overall)
	}
}

func TestScoreApartment_UniformWeightsReduceToMean(t *testing.T) {
	rules := DefaultRules()
	rules.Weights = map[types.Category]float64{}
	rules.DefaultWeight = 1.0

	// Category averages 90 and 55: unweighted mean 72.5 rounds half-up to 73.
	items := []types.WorkItem{
		makeItem(types.CategoryElectrical, types.StatusCompletedOK, "", 5),
		makeItem(types.CategoryPlumbing, types.StatusDefect, "", 5),
	}

	prog, err := rules.ScoreApartment("7", items, types.RulesetV3)
	if err != nil {
		t.Fatal(err)
	}
	if prog.Overall != 73 {
		t.Errorf("overall = %d, want 73 (unweighted mean of 90 and 55)", prog.Overall)
	}
}

func TestScoreApartment_CategoryAverageRoundsHalfUp(t *testing.T) {
	rules := DefaultRules()
	// COMPLETED (repeat, 75) and COMPLETED_OK (90): mean 82.5 rounds to 83.
	items := []types.WorkItem{
		makeItem(types.CategoryFlooring, types.StatusCompleted, "", 5),
		makeItem(types.CategoryFlooring, types.StatusCompletedOK, "", 5),
	}

	prog, err := rules.ScoreApartment("7", items, types.RulesetV3)
	if err != nil {
		t.Fatal(err)
	}
	if got := prog.ByCategory[types.CategoryFlooring].AverageProgress; got != 83 {
		t.Errorf("flooring avg = %d, want 83 (82.5 rounded half-up)", got)
	}
}

func TestScoreApartment_DefectCounts(t *testing.T) {
	rules := DefaultRules()
	items := []types.WorkItem{
		makeItem(types.CategoryAC, types.StatusDefect, "", 5),
		makeItem(types.CategoryAC, types.StatusCompleted, "ליקוי במזגן", 5),
		makeItem(types.CategoryAC, types.StatusCompletedOK, "", 5),
		// Unrecognized status: excluded from defect counts (fail-open).
		makeItem(types.CategoryAC, types.Status("STRANGE"), "defect", 5),
	}

	for _, ruleset := range []types.Ruleset{types.RulesetV2, types.RulesetV3} {
		prog, err := rules.ScoreApartment("7", items, ruleset)
		if err != nil {
			t.Fatal(err)
		}
		if got := prog.ByCategory[types.CategoryAC].DefectCount; got != 2 {
			t.Errorf("%s defect count = %d, want 2", ruleset, got)
		}
	}
}

func TestScoreApartment_V2V3OverallDivergence(t *testing.T) {
	rules := DefaultRules()
	// A single item with a positive status and negative notes: v2 scores
	// it 65, v3 scores it 55, so the overall numbers differ.
	items := []types.WorkItem{
		makeItem(types.CategoryKitchen, types.StatusCompleted, "חסר ברז", 5),
	}

	v2, err := rules.ScoreApartment("7", items, types.RulesetV2)
	if err != nil {
		t.Fatal(err)
	}
	v3, err := rules.ScoreApartment("7", items, types.RulesetV3)
	if err != nil {
		t.Fatal(err)
	}
	if v2.Overall != 65 || v3.Overall != 55 {
		t.Errorf("overall v2=%d v3=%d, want 65 and 55", v2.Overall, v3.Overall)
	}
}

func TestScoreApartment_EmptyCategoryAbsent(t *testing.T) {
	rules := DefaultRules()
	items := []types.WorkItem{
		makeItem(types.CategoryElectrical, types.StatusCompleted, "", 5),
	}

	prog, err := rules.ScoreApartment("7", items, types.RulesetV3)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := prog.ByCategory[types.CategoryPlumbing]; ok {
		t.Error("plumbing has no items and must be absent, not zero-scored")
	}
}
