package aggregate

import (
	"testing"

	"github.com/thirukguru/iam-entitlements/model"
)

func sampleFindings() []model.NormalizedFinding {
	return []model.NormalizedFinding{
		{
			Severity:     model.SeverityCritical,
			ResourceType: "AWS::S3::Bucket",
			ExposureType: model.ExposurePublicInternet,
			IsPublic:     true,
			RiskFactors:  []string{"no_condition", "public_access"},
		},
		{
			Severity:     model.SeverityHigh,
			ResourceType: "AWS::IAM::Role",
			ExposureType: model.ExposureCrossAccount,
			RiskFactors:  []string{"cross_account", "no_condition"},
		},
		{
			Severity:     model.SeverityHigh,
			ResourceType: "AWS::S3::Bucket",
			ExposureType: model.ExposureCrossAccount,
			RiskFactors:  []string{"cross_account", "data_access"},
		},
		{
			Severity:     model.SeverityMedium,
			ResourceType: "AWS::Lambda::Function",
			ExposureType: model.ExposureServiceAccess,
			RiskFactors:  []string{"no_condition"},
		},
	}
}

func TestSummarize(t *testing.T) {
	stats := Summarize(sampleFindings(), 5)

	if stats.TotalFindings != 4 {
		t.Errorf("total = %d, want 4", stats.TotalFindings)
	}
	if stats.Critical != 1 || stats.High != 2 || stats.Medium != 1 || stats.Low != 0 {
		t.Errorf("unexpected severity counts: %+v", stats)
	}
	if stats.PublicFindings != 1 || stats.PublicPercent != 25 {
		t.Errorf("public = %d (%.0f%%), want 1 (25%%)", stats.PublicFindings, stats.PublicPercent)
	}
	if stats.ByResourceType["AWS::S3::Bucket"] != 2 {
		t.Errorf("unexpected resource type buckets: %v", stats.ByResourceType)
	}
	if stats.ByExposureType[model.ExposureCrossAccount] != 2 {
		t.Errorf("unexpected exposure buckets: %v", stats.ByExposureType)
	}

	resourceSum, exposureSum := 0, 0
	for _, n := range stats.ByResourceType {
		resourceSum += n
	}
	for _, n := range stats.ByExposureType {
		exposureSum += n
	}
	if resourceSum != stats.TotalFindings || exposureSum != stats.TotalFindings {
		t.Errorf("bucket sums %d/%d should equal total %d", resourceSum, exposureSum, stats.TotalFindings)
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	stats := Summarize(nil, 5)

	if stats.TotalFindings != 0 || stats.PublicPercent != 0 {
		t.Errorf("unexpected empty summary: %+v", stats)
	}
	if stats.ByResourceType == nil || stats.ByExposureType == nil {
		t.Error("bucket maps should be empty, not nil")
	}
	if len(stats.TopRiskFactors) != 0 {
		t.Errorf("expected no top factors, got %v", stats.TopRiskFactors)
	}
}

func TestTopRiskFactors(t *testing.T) {
	ranked := TopRiskFactors(sampleFindings(), 2)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 factors, got %v", ranked)
	}

	// no_condition appears three times, cross_account twice.
	if ranked[0].Factor != "no_condition" || ranked[0].Count != 3 {
		t.Errorf("top factor = %+v", ranked[0])
	}
	if ranked[1].Factor != "cross_account" || ranked[1].Count != 2 {
		t.Errorf("second factor = %+v", ranked[1])
	}
}

func TestTopRiskFactorsTieBreaksAlphabetically(t *testing.T) {
	findings := []model.NormalizedFinding{
		{RiskFactors: []string{"data_access"}},
		{RiskFactors: []string{"cross_account"}},
	}
	ranked := TopRiskFactors(findings, 5)
	if len(ranked) != 2 || ranked[0].Factor != "cross_account" || ranked[1].Factor != "data_access" {
		t.Errorf("unexpected tie break: %v", ranked)
	}
}

func TestTopRiskFactorsZeroN(t *testing.T) {
	if ranked := TopRiskFactors(sampleFindings(), 0); ranked != nil {
		t.Errorf("n=0 should return nil, got %v", ranked)
	}
}

func TestSummarizeValidation(t *testing.T) {
	results := []model.ValidationResult{
		{
			PolicyName:          "admin",
			RiskScore:           100,
			LeastPrivilegeScore: 0,
			Issues: []model.PolicyIssue{
				{RuleID: model.RuleWildcardAction, Severity: model.SeverityCritical},
				{RuleID: model.RulePrivilegeEscalation, Severity: model.SeverityCritical},
			},
			ComplianceStatus: map[string]bool{"CIS": false, "NIST": false},
		},
		{
			PolicyName:          "reader",
			IsValid:             true,
			RiskScore:           0,
			LeastPrivilegeScore: 100,
			ComplianceStatus:    map[string]bool{"CIS": true, "NIST": true},
		},
	}

	summary := SummarizeValidation(results)
	if summary.TotalPolicies != 2 || summary.ValidPolicies != 1 {
		t.Errorf("unexpected policy counts: %+v", summary)
	}
	if summary.EscalationPolicies != 1 {
		t.Errorf("escalation policies = %d, want 1", summary.EscalationPolicies)
	}
	if summary.AvgRiskScore != 50 || summary.AvgLeastPrivilege != 50 {
		t.Errorf("unexpected averages: %+v", summary)
	}
	if summary.Critical != 2 || summary.TotalIssues != 2 {
		t.Errorf("unexpected issue counts: %+v", summary)
	}
	if summary.FrameworksViolating != 2 {
		t.Errorf("frameworks violating = %d, want 2", summary.FrameworksViolating)
	}
}

func TestSummarizeValidationEmpty(t *testing.T) {
	summary := SummarizeValidation(nil)
	if summary.TotalPolicies != 0 || summary.AvgRiskScore != 0 {
		t.Errorf("unexpected empty summary: %+v", summary)
	}
}
