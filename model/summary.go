package model

// RiskFactorCount is one entry of the top risk factor ranking.
type RiskFactorCount struct {
	Factor string `json:"factor"`
	Count  int    `json:"count"`
}

// SummaryStatistics aggregates a batch of normalized findings.
type SummaryStatistics struct {
	TotalFindings  int                  `json:"total_findings"`
	Critical       int                  `json:"critical"`
	High           int                  `json:"high"`
	Medium         int                  `json:"medium"`
	Low            int                  `json:"low"`
	Info           int                  `json:"info"`
	PublicFindings int                  `json:"public_findings"`
	PublicPercent  float64              `json:"public_percent"`
	ByResourceType map[string]int       `json:"by_resource_type"`
	ByExposureType map[ExposureType]int `json:"by_exposure_type"`
	TopRiskFactors []RiskFactorCount    `json:"top_risk_factors,omitempty"`
}

// ValidationSummary aggregates a batch of policy validation results.
type ValidationSummary struct {
	TotalPolicies       int     `json:"total_policies"`
	ValidPolicies       int     `json:"valid_policies"`
	EscalationPolicies  int     `json:"escalation_policies"`
	AvgRiskScore        float64 `json:"avg_risk_score"`
	AvgLeastPrivilege   float64 `json:"avg_least_privilege_score"`
	Critical            int     `json:"critical"`
	High                int     `json:"high"`
	Medium              int     `json:"medium"`
	Low                 int     `json:"low"`
	Info                int     `json:"info"`
	TotalIssues         int     `json:"total_issues"`
	FrameworksViolating int     `json:"frameworks_violating"`
}
