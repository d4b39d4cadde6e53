package progress

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/snagtrack/snagtrack/internal/types"
)

func TestDefaultRules_Weights(t *testing.T) {
	rules := DefaultRules()
	if w := rules.Weight(types.CategoryElectrical); w != 1.2 {
		t.Errorf("electrical weight = %v, want 1.2", w)
	}
	if w := rules.Weight(types.Category("MASONRY")); w != 0.8 {
		t.Errorf("unknown category weight = %v, want default 0.8", w)
	}
}

func TestLoadRules_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := []byte("default_weight: 1.0\nweights:\n  ELECTRICAL: 2.0\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatal(err)
	}
	if w := rules.Weight(types.CategoryElectrical); w != 2.0 {
		t.Errorf("electrical weight = %v, want 2.0 from override", w)
	}
	if w := rules.Weight(types.Category("MASONRY")); w != 1.0 {
		t.Errorf("default weight = %v, want 1.0 from override", w)
	}
	// Untouched sections keep their defaults.
	if rules.Thresholds.VerifiedNoDefects != 90 {
		t.Errorf("thresholds should keep defaults, got %+v", rules.Thresholds)
	}
	if len(rules.Keywords) == 0 {
		t.Error("keywords should keep defaults")
	}
}

func TestLoadRules_MissingFile(t *testing.T) {
	if _, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing rules file")
	}
}

func TestLoadRules_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("weights: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRules(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
