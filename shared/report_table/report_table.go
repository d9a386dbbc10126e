// Package reporttable renders analysis results as console tables.
package reporttable

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/thirukguru/iam-entitlements/model"
)

func severityColors(severity model.Severity) text.Colors {
	switch severity {
	case model.SeverityCritical:
		return text.Colors{text.BgRed, text.FgWhite, text.Bold}
	case model.SeverityHigh:
		return text.Colors{text.FgRed}
	case model.SeverityMedium:
		return text.Colors{text.FgYellow}
	case model.SeverityLow:
		return text.Colors{text.FgCyan}
	default:
		return text.Colors{text.FgWhite}
	}
}

func colorSeverity(severity model.Severity) string {
	return severityColors(severity).Sprint(string(severity))
}

// DrawAnalysisTables renders the full analysis report to stdout.
func DrawAnalysisTables(input model.RenderAnalysisInput) {
	if input.Target != "" {
		fmt.Printf("\nTarget: %s\n", input.Target)
	}

	if len(input.Results) > 0 {
		drawPolicyTable(input.Results)
		drawIssueTable(input.Results)
	}
	if len(input.Findings) > 0 {
		drawFindingTable(input.Findings)
	}
	drawWarnings(input.Warnings)
	drawSummary(input.Validation, input.Summary)
}

func drawPolicyTable(results []model.ValidationResult) {
	fmt.Println("\nPolicy Validation")
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Policy", "Valid", "Risk", "Least Privilege", "Issues", "Escalation"})
	for _, r := range results {
		valid := "yes"
		if !r.IsValid {
			valid = "NO"
		}
		escalation := "-"
		if r.HasEscalation() {
			escalation = severityColors(model.SeverityCritical).Sprint("YES")
		}
		t.AppendRow(table.Row{r.PolicyName, valid, r.RiskScore, r.LeastPrivilegeScore, len(r.Issues), escalation})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func drawIssueTable(results []model.ValidationResult) {
	total := 0
	for _, r := range results {
		total += len(r.Issues)
	}
	if total == 0 {
		return
	}

	fmt.Println("\nPolicy Issues")
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Policy", "Severity", "Stmt", "Rule", "Detail", "Compliance"})
	for _, r := range results {
		for _, issue := range r.Issues {
			stmt := "-"
			if issue.StatementIndex != model.PolicyWideIndex {
				stmt = fmt.Sprintf("#%d", issue.StatementIndex)
			}
			t.AppendRow(table.Row{
				r.PolicyName,
				colorSeverity(issue.Severity),
				stmt,
				issue.RuleID,
				text.WrapSoft(issue.Description, 60),
				strings.Join(issue.ComplianceTags, ", "),
			})
		}
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func drawFindingTable(findings []model.NormalizedFinding) {
	fmt.Println("\nAccess Findings")
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Severity", "Score", "Resource", "Exposure", "Risk Factors"})
	for _, f := range findings {
		t.AppendRow(table.Row{
			colorSeverity(f.Severity),
			f.SeverityScore,
			fmt.Sprintf("%s (%s)", f.ResourceName, f.ResourceType),
			string(f.ExposureType),
			strings.Join(f.RiskFactors, ", "),
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func drawWarnings(warnings []model.FindingWarning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Printf("\nSkipped %d malformed finding record(s):\n", len(warnings))
	for _, w := range warnings {
		id := w.SourceID
		if id == "" {
			id = fmt.Sprintf("record %d", w.Index)
		}
		fmt.Printf("  - %s: %s\n", id, w.Reason)
	}
}

func drawSummary(validation model.ValidationSummary, summary model.SummaryStatistics) {
	fmt.Println("\nSummary")
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"", "Critical", "High", "Medium", "Low", "Info", "Total"})
	if validation.TotalPolicies > 0 {
		t.AppendRow(table.Row{"Policy issues", validation.Critical, validation.High, validation.Medium, validation.Low, validation.Info, validation.TotalIssues})
	}
	if summary.TotalFindings > 0 {
		t.AppendRow(table.Row{"Access findings", summary.Critical, summary.High, summary.Medium, summary.Low, summary.Info, summary.TotalFindings})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()

	if validation.TotalPolicies > 0 {
		fmt.Printf("Policies: %d analyzed, %d valid, %d with escalation paths, avg risk %.1f, avg least-privilege %.1f\n",
			validation.TotalPolicies, validation.ValidPolicies, validation.EscalationPolicies,
			validation.AvgRiskScore, validation.AvgLeastPrivilege)
	}
	if summary.TotalFindings > 0 {
		fmt.Printf("Findings: %d total, %d public (%.1f%%)\n",
			summary.TotalFindings, summary.PublicFindings, summary.PublicPercent)
		for _, rf := range summary.TopRiskFactors {
			fmt.Printf("  %s: %d\n", rf.Factor, rf.Count)
		}
	}
}
