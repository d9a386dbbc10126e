package jsonoutput

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/thirukguru/iam-entitlements/model"
)

// OutputAnalysisJSON outputs the full analysis report as JSON on stdout.
func OutputAnalysisJSON(input model.RenderAnalysisInput) error {
	report := BuildAnalysisReport(input, time.Now().UTC().Format(time.RFC3339))
	return printJSON(report)
}

// BuildAnalysisReport builds the analysis JSON report model.
func BuildAnalysisReport(input model.RenderAnalysisInput, generatedAt string) model.AnalysisReportJSON {
	hasFindings := input.Validation.TotalIssues > 0 || input.Summary.TotalFindings > 0

	return model.AnalysisReportJSON{
		Target:      input.Target,
		GeneratedAt: generatedAt,
		HasFindings: hasFindings,
		Validation:  input.Validation,
		Policies:    input.Results,
		Findings:    input.Findings,
		Warnings:    input.Warnings,
		Summary:     input.Summary,
	}
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
