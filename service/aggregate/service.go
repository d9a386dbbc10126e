// Package aggregate holds the pure reducers that fold findings and
// validation results into report summaries.
package aggregate

import (
	"sort"

	"github.com/thirukguru/iam-entitlements/model"
)

// BySeverity buckets findings per severity. Empty input yields an empty
// map, not nil buckets with zero counts.
func BySeverity(findings []model.NormalizedFinding) map[model.Severity]int {
	out := map[model.Severity]int{}
	for _, f := range findings {
		out[f.Severity]++
	}
	return out
}

// ByResourceType buckets findings per resource type.
func ByResourceType(findings []model.NormalizedFinding) map[string]int {
	out := map[string]int{}
	for _, f := range findings {
		out[f.ResourceType]++
	}
	return out
}

// ByExposureType buckets findings per exposure type.
func ByExposureType(findings []model.NormalizedFinding) map[model.ExposureType]int {
	out := map[model.ExposureType]int{}
	for _, f := range findings {
		out[f.ExposureType]++
	}
	return out
}

// TopRiskFactors ranks risk factors by occurrence, most frequent first,
// ties broken alphabetically, truncated to n. n <= 0 returns nil.
func TopRiskFactors(findings []model.NormalizedFinding, n int) []model.RiskFactorCount {
	if n <= 0 {
		return nil
	}
	counts := map[string]int{}
	for _, f := range findings {
		for _, factor := range f.RiskFactors {
			counts[factor]++
		}
	}

	ranked := make([]model.RiskFactorCount, 0, len(counts))
	for factor, count := range counts {
		ranked = append(ranked, model.RiskFactorCount{Factor: factor, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Factor < ranked[j].Factor
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Summarize folds a batch of findings into summary statistics.
func Summarize(findings []model.NormalizedFinding, topFactors int) model.SummaryStatistics {
	bySeverity := BySeverity(findings)

	stats := model.SummaryStatistics{
		TotalFindings:  len(findings),
		Critical:       bySeverity[model.SeverityCritical],
		High:           bySeverity[model.SeverityHigh],
		Medium:         bySeverity[model.SeverityMedium],
		Low:            bySeverity[model.SeverityLow],
		Info:           bySeverity[model.SeverityInfo],
		ByResourceType: ByResourceType(findings),
		ByExposureType: ByExposureType(findings),
		TopRiskFactors: TopRiskFactors(findings, topFactors),
	}

	for _, f := range findings {
		if f.IsPublic || f.ExposureType == model.ExposurePublicInternet {
			stats.PublicFindings++
		}
	}
	if stats.TotalFindings > 0 {
		stats.PublicPercent = float64(stats.PublicFindings) / float64(stats.TotalFindings) * 100
	}

	return stats
}

// SummarizeValidation folds validation results into a batch summary.
func SummarizeValidation(results []model.ValidationResult) model.ValidationSummary {
	summary := model.ValidationSummary{TotalPolicies: len(results)}
	if len(results) == 0 {
		return summary
	}

	riskTotal, lpTotal := 0, 0
	frameworks := map[string]bool{}
	for _, r := range results {
		if r.IsValid {
			summary.ValidPolicies++
		}
		if r.HasEscalation() {
			summary.EscalationPolicies++
		}
		riskTotal += r.RiskScore
		lpTotal += r.LeastPrivilegeScore

		counts := r.CountBySeverity()
		summary.Critical += counts[model.SeverityCritical]
		summary.High += counts[model.SeverityHigh]
		summary.Medium += counts[model.SeverityMedium]
		summary.Low += counts[model.SeverityLow]
		summary.Info += counts[model.SeverityInfo]
		summary.TotalIssues += len(r.Issues)

		for fw, passed := range r.ComplianceStatus {
			if !passed {
				frameworks[fw] = true
			}
		}
	}

	summary.AvgRiskScore = float64(riskTotal) / float64(len(results))
	summary.AvgLeastPrivilege = float64(lpTotal) / float64(len(results))
	summary.FrameworksViolating = len(frameworks)
	return summary
}
