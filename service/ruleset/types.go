package ruleset

import "github.com/thirukguru/iam-entitlements/model"

// EscalationPattern is one privilege-escalation action signature. A policy
// matches when every action in the signature is granted.
type EscalationPattern struct {
	Name           string   `yaml:"name" json:"name"`
	Description    string   `yaml:"description" json:"description"`
	Actions        []string `yaml:"actions" json:"actions"`
	Recommendation string   `yaml:"recommendation" json:"recommendation,omitempty"`
}

// FieldMapping tells the finding normalizer where a provider keeps each
// canonical field in its raw finding records.
type FieldMapping struct {
	SourceID     string `yaml:"source_id"`
	ResourceType string `yaml:"resource_type"`
	ResourceARN  string `yaml:"resource_arn"`
	AccountID    string `yaml:"account_id"`
	Principal    string `yaml:"principal"`
	Action       string `yaml:"action"`
	Condition    string `yaml:"condition"`
	IsPublic     string `yaml:"is_public"`
	Status       string `yaml:"status"`
	CreatedAt    string `yaml:"created_at"`
	UpdatedAt    string `yaml:"updated_at"`
}

// Ruleset bundles every tunable catalog the analysis services consume.
// Zero fields fall back to the built-in defaults on load.
type Ruleset struct {
	SensitiveActions   []string                `yaml:"sensitive_actions"`
	AdminActions       []string                `yaml:"admin_actions"`
	DataAccessActions  []string                `yaml:"data_access_actions"`
	KnownServices      []string                `yaml:"known_services"`
	EscalationPatterns []EscalationPattern     `yaml:"escalation_patterns"`
	SeverityWeights    map[model.Severity]int  `yaml:"severity_weights"`
	PenaltyWeights     map[string]int          `yaml:"penalty_weights"`
	ResourceBaselines  map[string]int          `yaml:"resource_baselines"`
	FindingWeights     map[string]int          `yaml:"finding_weights"`
	WildcardRatioLimit float64                 `yaml:"wildcard_ratio_limit"`
	FieldMappings      map[string]FieldMapping `yaml:"field_mappings"`
}
