package model

// RenderAnalysisInput carries everything an analysis run produced to the
// output layer.
type RenderAnalysisInput struct {
	Target     string
	Results    []ValidationResult
	Findings   []NormalizedFinding
	Warnings   []FindingWarning
	Summary    SummaryStatistics
	Validation ValidationSummary
}

// AnalysisReportJSON is the machine-readable report envelope.
type AnalysisReportJSON struct {
	Target      string              `json:"target,omitempty"`
	GeneratedAt string              `json:"generated_at"`
	HasFindings bool                `json:"has_findings"`
	Validation  ValidationSummary   `json:"validation_summary"`
	Policies    []ValidationResult  `json:"policies,omitempty"`
	Findings    []NormalizedFinding `json:"findings,omitempty"`
	Warnings    []FindingWarning    `json:"warnings,omitempty"`
	Summary     SummaryStatistics   `json:"finding_summary"`
}
