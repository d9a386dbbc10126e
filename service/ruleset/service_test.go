package ruleset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/thirukguru/iam-entitlements/model"
)

func TestDefaultCatalogs(t *testing.T) {
	rs := Default()

	if len(rs.SensitiveActions) == 0 || len(rs.EscalationPatterns) == 0 {
		t.Fatal("default catalogs must not be empty")
	}
	if rs.SeverityWeights[model.SeverityCritical] != 40 {
		t.Errorf("critical weight = %d, want 40", rs.SeverityWeights[model.SeverityCritical])
	}
	if rs.WildcardRatioLimit != 0.3 {
		t.Errorf("wildcard ratio limit = %v, want 0.3", rs.WildcardRatioLimit)
	}
	if _, ok := rs.FieldMappings[ProviderAccessAnalyzer]; !ok {
		t.Error("missing access analyzer field mapping")
	}
	if _, ok := rs.FieldMappings[ProviderGCPAssetInventory]; !ok {
		t.Error("missing GCP asset inventory field mapping")
	}
	for _, pattern := range rs.EscalationPatterns {
		if pattern.Name == "" || len(pattern.Actions) == 0 {
			t.Errorf("incomplete escalation pattern: %+v", pattern)
		}
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	rs, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(rs.SensitiveActions) != len(Default().SensitiveActions) {
		t.Error("empty path should return the defaults unchanged")
	}
}

func TestLoadOverlayReplacesOnlyGivenSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ruleset.yaml")
	overlay := `
sensitive_actions:
  - custom:DoRiskyThing
wildcard_ratio_limit: 0.5
field_mappings:
  azure-defender:
    source_id: findingId
    resource_type: type
    resource_arn: resourceId
`
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatalf("failed to write overlay: %v", err)
	}

	rs, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(rs.SensitiveActions) != 1 || rs.SensitiveActions[0] != "custom:DoRiskyThing" {
		t.Errorf("sensitive actions not overridden: %v", rs.SensitiveActions)
	}
	if rs.WildcardRatioLimit != 0.5 {
		t.Errorf("ratio limit = %v, want 0.5", rs.WildcardRatioLimit)
	}

	// Untouched sections keep their defaults.
	if len(rs.EscalationPatterns) != len(Default().EscalationPatterns) {
		t.Error("escalation patterns should keep defaults")
	}
	if rs.SeverityWeights[model.SeverityCritical] != 40 {
		t.Error("severity weights should keep defaults")
	}

	// Field mappings merge per provider instead of replacing the map.
	if _, ok := rs.FieldMappings[ProviderAccessAnalyzer]; !ok {
		t.Error("built-in access analyzer mapping should survive the overlay")
	}
	custom, ok := rs.FieldMappings["azure-defender"]
	if !ok || custom.SourceID != "findingId" {
		t.Errorf("custom mapping not merged: %+v", custom)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("/nonexistent/ruleset.yaml"); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("sensitive_actions: {not: [valid"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestBaselineFallback(t *testing.T) {
	rs := Default()
	if got := rs.Baseline("AWS::SecretsManager::Secret"); got != 45 {
		t.Errorf("secrets baseline = %d, want 45", got)
	}
	if got := rs.Baseline("AWS::Unknown::Thing"); got != 25 {
		t.Errorf("unknown type should fall back to default baseline, got %d", got)
	}
}
