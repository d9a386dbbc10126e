// Package ruleset loads the catalogs and weight tables driving policy and
// finding analysis. The built-in defaults work without any config file; a
// YAML file can override any subset of them.
package ruleset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Provider identifiers with built-in field mappings.
const (
	ProviderAccessAnalyzer    = "aws-access-analyzer"
	ProviderGCPAssetInventory = "gcp-asset-inventory"
)

// Load returns the default ruleset overlaid with the YAML file at path.
// An empty path returns the defaults unchanged.
func Load(path string) (*Ruleset, error) {
	rs := Default()
	if path == "" {
		return rs, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ruleset file: %w", err)
	}

	var overlay Ruleset
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return nil, fmt.Errorf("failed to parse ruleset file: %w", err)
	}

	rs.merge(&overlay)
	return rs, nil
}

func (rs *Ruleset) merge(overlay *Ruleset) {
	if len(overlay.SensitiveActions) > 0 {
		rs.SensitiveActions = overlay.SensitiveActions
	}
	if len(overlay.AdminActions) > 0 {
		rs.AdminActions = overlay.AdminActions
	}
	if len(overlay.DataAccessActions) > 0 {
		rs.DataAccessActions = overlay.DataAccessActions
	}
	if len(overlay.KnownServices) > 0 {
		rs.KnownServices = overlay.KnownServices
	}
	if len(overlay.EscalationPatterns) > 0 {
		rs.EscalationPatterns = overlay.EscalationPatterns
	}
	if len(overlay.SeverityWeights) > 0 {
		rs.SeverityWeights = overlay.SeverityWeights
	}
	if len(overlay.PenaltyWeights) > 0 {
		rs.PenaltyWeights = overlay.PenaltyWeights
	}
	if len(overlay.ResourceBaselines) > 0 {
		rs.ResourceBaselines = overlay.ResourceBaselines
	}
	if len(overlay.FindingWeights) > 0 {
		rs.FindingWeights = overlay.FindingWeights
	}
	if overlay.WildcardRatioLimit > 0 {
		rs.WildcardRatioLimit = overlay.WildcardRatioLimit
	}
	for provider, mapping := range overlay.FieldMappings {
		if rs.FieldMappings == nil {
			rs.FieldMappings = map[string]FieldMapping{}
		}
		rs.FieldMappings[provider] = mapping
	}
}

// Baseline returns the severity baseline for a resource type, falling back
// to the default bucket for unknown types.
func (rs *Ruleset) Baseline(resourceType string) int {
	if v, ok := rs.ResourceBaselines[resourceType]; ok {
		return v
	}
	return rs.ResourceBaselines["default"]
}
