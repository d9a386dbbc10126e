package compliance

import (
	"testing"

	"github.com/thirukguru/iam-entitlements/model"
)

func TestGetComplianceIDs(t *testing.T) {
	ids := GetComplianceIDs(model.RuleWildcardAction)
	if len(ids) == 0 {
		t.Fatal("wildcard action rule must map to controls")
	}

	found := false
	for _, id := range ids {
		if id == "CIS 1.16" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected CIS 1.16 in %v", ids)
	}

	if ids := GetComplianceIDs("not_a_rule"); ids != nil {
		t.Errorf("unknown rule should map to nil, got %v", ids)
	}
}

func TestEveryRuleMapsToAtLeastOneControl(t *testing.T) {
	rules := []string{
		model.RuleWildcardPrincipal,
		model.RuleWildcardAction,
		model.RuleServiceWildcardAction,
		model.RuleWildcardResource,
		model.RuleMissingMFACondition,
		model.RuleMissingIPCondition,
		model.RuleMissingTimeCondition,
		model.RuleDangerousActions,
		model.RuleExcessiveWildcards,
		model.RuleUnrestrictedAdmin,
		model.RulePrivilegeEscalation,
	}
	for _, rule := range rules {
		if len(RuleCompliance[rule]) == 0 {
			t.Errorf("rule %s has no compliance mapping", rule)
		}
	}
}

func TestViolationsByFrameworkDeduplicates(t *testing.T) {
	issues := []model.PolicyIssue{
		{RuleID: model.RuleWildcardAction},
		{RuleID: model.RuleWildcardAction},
		{RuleID: model.RuleUnrestrictedAdmin},
	}

	violations := ViolationsByFramework(issues)

	cis := violations[FrameworkCIS]
	count := 0
	for _, id := range cis {
		if id == "CIS 1.16" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("CIS 1.16 should appear once, got %v", cis)
	}
}

func TestStatusByFramework(t *testing.T) {
	t.Run("clean issues pass everywhere", func(t *testing.T) {
		status := StatusByFramework(nil)
		if len(status) != len(Frameworks) {
			t.Fatalf("expected entry per framework, got %v", status)
		}
		for fw, passed := range status {
			if !passed {
				t.Errorf("framework %s should pass with no issues", fw)
			}
		}
	})

	t.Run("ip condition issue fails only mapped frameworks", func(t *testing.T) {
		status := StatusByFramework([]model.PolicyIssue{{RuleID: model.RuleMissingIPCondition}})
		if status[FrameworkNIST] || status[FrameworkZeroTrust] {
			t.Errorf("NIST and ZeroTrust should fail: %v", status)
		}
		if !status[FrameworkCIS] || !status[FrameworkPCIDSS] {
			t.Errorf("CIS and PCI-DSS should pass: %v", status)
		}
	})
}
