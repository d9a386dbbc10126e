package rules

import (
	"testing"

	"github.com/thirukguru/iam-entitlements/model"
	"github.com/thirukguru/iam-entitlements/service/ruleset"
)

func newChecker(t *testing.T) *Checker {
	t.Helper()
	return NewChecker(ruleset.Default())
}

func issuesByRule(issues []model.PolicyIssue) map[string][]model.PolicyIssue {
	byRule := map[string][]model.PolicyIssue{}
	for _, issue := range issues {
		byRule[issue.RuleID] = append(byRule[issue.RuleID], issue)
	}
	return byRule
}

func TestCheckStatementDenyProducesNoIssues(t *testing.T) {
	c := newChecker(t)
	issues := c.CheckStatement(0, model.Statement{
		Effect:    model.EffectDeny,
		Principal: []string{"*"},
		Action:    []string{"*"},
		Resource:  []string{"*"},
	})
	if len(issues) != 0 {
		t.Errorf("deny statement should not produce issues, got %v", issues)
	}
}

func TestCheckStatementWildcardPrincipal(t *testing.T) {
	c := newChecker(t)
	issues := c.CheckStatement(2, model.Statement{
		Effect:    model.EffectAllow,
		Principal: []string{"*"},
		Action:    []string{"s3:GetObject"},
		Resource:  []string{"arn:aws:s3:::app-data/*"},
	})

	byRule := issuesByRule(issues)
	principal := byRule[model.RuleWildcardPrincipal]
	if len(principal) != 1 {
		t.Fatalf("expected one wildcard principal issue, got %v", issues)
	}
	if principal[0].Severity != model.SeverityCritical || principal[0].StatementIndex != 2 {
		t.Errorf("unexpected principal issue: %+v", principal[0])
	}
	if principal[0].RiskScore != 95 {
		t.Errorf("principal issue risk score = %d, want 95", principal[0].RiskScore)
	}
}

func TestIssuesCarryReportFields(t *testing.T) {
	c := newChecker(t)
	doc := model.PolicyDocument{Statements: []model.Statement{
		{
			Effect:    model.EffectAllow,
			Principal: []string{"*"},
			Action:    []string{"*"},
			Resource:  []string{"*"},
		},
		{
			Effect:   model.EffectAllow,
			Action:   []string{"iam:CreateAccessKey"},
			Resource: []string{"arn:aws:iam::123456789012:user/deploy"},
		},
	}}

	issues := c.CheckPolicy(doc)
	if len(issues) == 0 {
		t.Fatal("expected issues")
	}
	for _, issue := range issues {
		if issue.Title == "" {
			t.Errorf("issue %s has no title", issue.RuleID)
		}
		if issue.Description == "" {
			t.Errorf("issue %s has no description", issue.RuleID)
		}
		if issue.Title == issue.Description {
			t.Errorf("issue %s title and description are identical: %q", issue.RuleID, issue.Title)
		}
		if issue.RiskScore <= 0 || issue.RiskScore > 100 {
			t.Errorf("issue %s risk score = %d, want 1..100", issue.RuleID, issue.RiskScore)
		}
	}
}

func TestCheckStatementWildcardActions(t *testing.T) {
	c := newChecker(t)

	t.Run("full wildcard", func(t *testing.T) {
		issues := c.CheckStatement(0, model.Statement{
			Effect:   model.EffectAllow,
			Action:   []string{"*"},
			Resource: []string{"arn:aws:s3:::app-data"},
		})
		byRule := issuesByRule(issues)
		full := byRule[model.RuleWildcardAction]
		if len(full) != 1 || full[0].Severity != model.SeverityCritical {
			t.Fatalf("expected one CRITICAL wildcard action issue, got %v", issues)
		}
		if full[0].WildcardShare != 1.0 {
			t.Errorf("full wildcard share = %v, want 1.0", full[0].WildcardShare)
		}
	})

	t.Run("service wildcard among specific actions", func(t *testing.T) {
		issues := c.CheckStatement(0, model.Statement{
			Effect:   model.EffectAllow,
			Action:   []string{"s3:*", "ec2:DescribeInstances", "ec2:DescribeVolumes", "logs:GetLogEvents"},
			Resource: []string{"arn:aws:s3:::app-data"},
		})
		byRule := issuesByRule(issues)
		svc := byRule[model.RuleServiceWildcardAction]
		if len(svc) != 1 || svc[0].Severity != model.SeverityHigh {
			t.Fatalf("expected one HIGH service wildcard issue, got %v", issues)
		}
		if svc[0].WildcardShare != 0.25 {
			t.Errorf("service wildcard share = %v, want 0.25", svc[0].WildcardShare)
		}
	})
}

func TestCheckStatementWildcardResource(t *testing.T) {
	c := newChecker(t)

	t.Run("without condition", func(t *testing.T) {
		issues := c.CheckStatement(0, model.Statement{
			Effect:   model.EffectAllow,
			Action:   []string{"s3:GetObject"},
			Resource: []string{"*"},
		})
		byRule := issuesByRule(issues)
		res := byRule[model.RuleWildcardResource]
		if len(res) != 1 || res[0].Severity != model.SeverityHigh {
			t.Fatalf("expected one HIGH wildcard resource issue, got %v", issues)
		}
	})

	t.Run("condition downgrades severity", func(t *testing.T) {
		issues := c.CheckStatement(0, model.Statement{
			Effect:   model.EffectAllow,
			Action:   []string{"s3:GetObject"},
			Resource: []string{"*"},
			Condition: model.ConditionMap{
				"StringEquals": {"aws:PrincipalOrgID": {"o-example"}},
			},
		})
		byRule := issuesByRule(issues)
		res := byRule[model.RuleWildcardResource]
		if len(res) != 1 || res[0].Severity != model.SeverityMedium {
			t.Fatalf("expected one MEDIUM wildcard resource issue, got %v", issues)
		}
	})

	t.Run("arn embedded wildcard is fine", func(t *testing.T) {
		issues := c.CheckStatement(0, model.Statement{
			Effect:   model.EffectAllow,
			Action:   []string{"s3:GetObject"},
			Resource: []string{"arn:aws:s3:::app-data/*"},
		})
		if byRule := issuesByRule(issues); len(byRule[model.RuleWildcardResource]) != 0 {
			t.Errorf("ARN-embedded wildcard should not flag: %v", issues)
		}
	})
}

func TestCheckStatementUnrestrictedAdmin(t *testing.T) {
	c := newChecker(t)
	issues := c.CheckStatement(0, model.Statement{
		Effect:   model.EffectAllow,
		Action:   []string{"iam:*"},
		Resource: []string{"*"},
	})
	byRule := issuesByRule(issues)
	admin := byRule[model.RuleUnrestrictedAdmin]
	if len(admin) != 1 || admin[0].Severity != model.SeverityCritical {
		t.Fatalf("expected one CRITICAL unrestricted admin issue, got %v", issues)
	}
}

func TestSensitiveActionsTriggerConditionChecks(t *testing.T) {
	c := newChecker(t)
	issues := c.CheckStatement(0, model.Statement{
		Effect:   model.EffectAllow,
		Action:   []string{"iam:CreateAccessKey"},
		Resource: []string{"arn:aws:iam::123456789012:user/deploy"},
	})

	byRule := issuesByRule(issues)
	if len(byRule[model.RuleDangerousActions]) != 1 {
		t.Fatalf("expected dangerous actions issue, got %v", issues)
	}
	if len(byRule[model.RuleMissingMFACondition]) != 1 {
		t.Error("expected missing MFA condition issue")
	}
	if len(byRule[model.RuleMissingIPCondition]) != 1 {
		t.Error("expected missing IP condition issue")
	}
	if len(byRule[model.RuleMissingTimeCondition]) != 1 {
		t.Error("expected missing time condition issue")
	}
}

func TestConditionChecksAreIndependent(t *testing.T) {
	c := newChecker(t)
	issues := c.CheckStatement(0, model.Statement{
		Effect:   model.EffectAllow,
		Action:   []string{"iam:CreateAccessKey"},
		Resource: []string{"arn:aws:iam::123456789012:user/deploy"},
		Condition: model.ConditionMap{
			"Bool": {"aws:MultiFactorAuthPresent": {"true"}},
		},
	})

	byRule := issuesByRule(issues)
	if len(byRule[model.RuleMissingMFACondition]) != 0 {
		t.Error("MFA condition present, should not flag")
	}
	if len(byRule[model.RuleMissingIPCondition]) != 1 {
		t.Error("IP condition still missing, should flag")
	}
	if len(byRule[model.RuleMissingTimeCondition]) != 1 {
		t.Error("time condition still missing, should flag")
	}
}

func TestConditionChecksSkippedWithoutSensitiveActions(t *testing.T) {
	c := newChecker(t)
	issues := c.CheckStatement(0, model.Statement{
		Effect:   model.EffectAllow,
		Action:   []string{"s3:GetObject"},
		Resource: []string{"arn:aws:s3:::app-data/*"},
	})

	byRule := issuesByRule(issues)
	for _, rule := range []string{model.RuleMissingMFACondition, model.RuleMissingIPCondition, model.RuleMissingTimeCondition} {
		if len(byRule[rule]) != 0 {
			t.Errorf("condition check %s should not fire without sensitive actions", rule)
		}
	}
}

func TestCheckStatementUnknownAction(t *testing.T) {
	c := newChecker(t)
	issues := c.CheckStatement(0, model.Statement{
		Effect:   model.EffectAllow,
		Action:   []string{"madeupservice:DoThing"},
		Resource: []string{"arn:aws:s3:::app-data"},
	})
	byRule := issuesByRule(issues)
	unknown := byRule[model.RuleUnknownAction]
	if len(unknown) != 1 || unknown[0].Severity != model.SeverityInfo {
		t.Fatalf("expected one INFO unknown action issue, got %v", issues)
	}
}

func TestCheckPolicyWildcardRatio(t *testing.T) {
	c := newChecker(t)
	doc := model.PolicyDocument{Statements: []model.Statement{
		{
			Effect:   model.EffectAllow,
			Action:   []string{"s3:Get*", "s3:List*", "ec2:DescribeInstances"},
			Resource: []string{"arn:aws:s3:::app-data"},
		},
	}}

	byRule := issuesByRule(c.CheckPolicy(doc))
	ratio := byRule[model.RuleExcessiveWildcards]
	if len(ratio) != 1 {
		t.Fatalf("expected excessive wildcards issue, got %v", byRule)
	}
	if ratio[0].StatementIndex != model.PolicyWideIndex {
		t.Errorf("ratio issue should be policy-wide, got index %d", ratio[0].StatementIndex)
	}
	if ratio[0].Severity != model.SeverityMedium {
		t.Errorf("ratio issue severity = %s, want MEDIUM", ratio[0].Severity)
	}
}

func TestCheckPolicyCleanPolicyHasNoIssues(t *testing.T) {
	c := newChecker(t)
	doc := model.PolicyDocument{Statements: []model.Statement{
		{
			Effect:   model.EffectAllow,
			Action:   []string{"s3:GetObject", "s3:ListBucket"},
			Resource: []string{"arn:aws:s3:::app-data", "arn:aws:s3:::app-data/*"},
		},
		{
			Effect:   model.EffectAllow,
			Action:   []string{"logs:GetLogEvents", "logs:FilterLogEvents"},
			Resource: []string{"arn:aws:logs:us-east-1:123456789012:log-group:/app/*"},
		},
	}}

	if issues := c.CheckPolicy(doc); len(issues) != 0 {
		t.Errorf("clean policy should produce no issues, got %v", issues)
	}
}
