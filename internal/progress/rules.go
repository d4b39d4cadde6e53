// Package progress implements the defect-detection and progress-scoring
// engine: effective-status classification, item scoring under the v2/v3
// rulesets, per-category and weighted apartment aggregation, the cumulative
// completion tracker, and the readiness summarizer.
//
// Everything here is a pure function of its inputs. Rule tables live on the
// Rules struct so callers can audit or override them without touching logic.
package progress

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/snagtrack/snagtrack/internal/types"
)

// Thresholds maps scoring outcomes to progress values on the 0-100 scale.
type Thresholds struct {
	VerifiedNoDefects   int `yaml:"verified_no_defects"`
	CompletedOKLater    int `yaml:"completed_ok_later"`
	CompletedWithIssues int `yaml:"completed_with_issues"`
	CompletedOKFirst    int `yaml:"completed_ok_first"`
	Handled             int `yaml:"handled"`
	DefectWorkDone      int `yaml:"defect_work_done"`
	InProgress          int `yaml:"in_progress"`
	Pending             int `yaml:"pending"`
	NotStarted          int `yaml:"not_started"`
	Unknown             int `yaml:"unknown"`
}

// Rules bundles every fixed table the engine consults. All callers that
// need consistent classification must share one Rules value.
type Rules struct {
	// Keywords are negative-signal phrases matched as case-folded
	// substrings against work item notes.
	Keywords []string `yaml:"keywords"`

	// Weights are the per-category importance factors for the weighted
	// overall score. Categories absent from the map use DefaultWeight.
	Weights map[types.Category]float64 `yaml:"weights"`

	// DefaultWeight applies to categories missing from Weights.
	DefaultWeight float64 `yaml:"default_weight"`

	Thresholds Thresholds `yaml:"thresholds"`

	// CompletedStatuses is the exact-match vocabulary of the completion
	// tracker. It is deliberately looser than the classifier's positive
	// set and the two are kept separate.
	CompletedStatuses []string `yaml:"completed_statuses"`
}

// DefaultRules returns the canonical rule tables. The keyword list and
// thresholds mirror the site-report status mapper; the Hebrew phrases are
// the inspectors' standard defect vocabulary and must be matched verbatim.
func DefaultRules() Rules {
	return Rules{
		Keywords: []string{
			"אי תיאומים", "אי תאומים", "נמצאו אי", "קיימים אי",
			"יש הערות", "יש ליקויים", "ליקוי", "ליקויים",
			"לא תקין", "חסר", "חסרות", "חסרים", "חסרה",
			"שבור", "שבורים", "שבורה", "סדוק", "סדוקים",
			"פגם", "פגמים", "בעיה", "בעיות", "לתקן", "תיקון", "תיקונים",
			"לא בוצע", "לא הותקן", "לא הותקנו", "לא הושלם",
			"נזק", "נזקים", "missing", "defect", "חתוך", "להחליף",
		},
		Weights: map[types.Category]float64{
			types.CategoryElectrical:    1.2,
			types.CategoryPlumbing:      1.2,
			types.CategoryAC:            1.0,
			types.CategoryFlooring:      1.1,
			types.CategorySprinklers:    0.8,
			types.CategoryDrywall:       0.9,
			types.CategoryWaterproofing: 1.0,
			types.CategoryPainting:      0.8,
			types.CategoryKitchen:       1.0,
			types.CategoryOther:         0.7,
		},
		DefaultWeight: 0.8,
		Thresholds: Thresholds{
			VerifiedNoDefects:   90,
			CompletedOKLater:    75,
			CompletedWithIssues: 65,
			CompletedOKFirst:    50,
			Handled:             70,
			DefectWorkDone:      55,
			InProgress:          30,
			Pending:             15,
			NotStarted:          5,
			Unknown:             15,
		},
		CompletedStatuses: []string{
			"COMPLETED", "DONE", "OK", "בוצע", "תקין", "בוצע - תקין",
		},
	}
}

// LoadRules reads a YAML overrides file on top of DefaultRules. Only the
// fields present in the file replace the defaults, so a partial file (say,
// weights only) is valid.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()

	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("reading rules file: %w", err)
	}

	var overrides struct {
		Keywords          []string                   `yaml:"keywords"`
		Weights           map[types.Category]float64 `yaml:"weights"`
		DefaultWeight     *float64                   `yaml:"default_weight"`
		Thresholds        *Thresholds                `yaml:"thresholds"`
		CompletedStatuses []string                   `yaml:"completed_statuses"`
	}
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return Rules{}, fmt.Errorf("parsing rules file %s: %w", path, err)
	}

	if overrides.Keywords != nil {
		rules.Keywords = overrides.Keywords
	}
	if overrides.Weights != nil {
		rules.Weights = overrides.Weights
	}
	if overrides.DefaultWeight != nil {
		rules.DefaultWeight = *overrides.DefaultWeight
	}
	if overrides.Thresholds != nil {
		rules.Thresholds = *overrides.Thresholds
	}
	if overrides.CompletedStatuses != nil {
		rules.CompletedStatuses = overrides.CompletedStatuses
	}

	return rules, nil
}

// Weight returns the importance factor for a category.
func (r Rules) Weight(cat types.Category) float64 {
	if w, ok := r.Weights[cat]; ok {
		return w
	}
	return r.DefaultWeight
}
