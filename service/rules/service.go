// Package rules implements the pure per-statement policy checks. Checks
// never mutate their input and only ever append issues; scoring and
// compliance mapping happen downstream.
package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thirukguru/iam-entitlements/model"
	"github.com/thirukguru/iam-entitlements/service/ruleset"
	"github.com/thirukguru/iam-entitlements/shared/wildcard"
)

// Condition keys the missing-condition checks look for.
const (
	conditionKeyMFA       = "aws:MultiFactorAuthPresent"
	conditionKeySourceIP  = "aws:SourceIp"
	conditionKeyVPCSource = "aws:VpcSourceIp"
	conditionKeyTime      = "aws:CurrentTime"
	conditionKeyEpoch     = "aws:EpochTime"
)

// Checker runs the statement-level rule checks against an injected ruleset.
type Checker struct {
	rs *ruleset.Ruleset
}

// NewChecker creates a rule checker bound to the given ruleset.
func NewChecker(rs *ruleset.Ruleset) *Checker {
	return &Checker{rs: rs}
}

// CheckPolicy runs every statement check plus the policy-wide wildcard
// ratio check and returns all issues found.
func (c *Checker) CheckPolicy(doc model.PolicyDocument) []model.PolicyIssue {
	var issues []model.PolicyIssue
	for i, st := range doc.Statements {
		issues = append(issues, c.CheckStatement(i, st)...)
	}
	if issue, ok := c.checkWildcardRatio(doc); ok {
		issues = append(issues, issue)
	}
	return issues
}

// CheckStatement runs all per-statement checks. Deny statements never
// produce issues; they only ever narrow access.
func (c *Checker) CheckStatement(index int, st model.Statement) []model.PolicyIssue {
	if st.Effect != model.EffectAllow {
		return nil
	}

	var issues []model.PolicyIssue
	issues = append(issues, c.checkPrincipal(index, st)...)
	issues = append(issues, c.checkActions(index, st)...)
	issues = append(issues, c.checkResources(index, st)...)
	issues = append(issues, c.checkUnrestrictedAdmin(index, st)...)

	dangerous := c.dangerousActions(st)
	if len(dangerous) > 0 {
		issues = append(issues, model.PolicyIssue{
			RuleID:         model.RuleDangerousActions,
			Severity:       model.SeverityHigh,
			StatementIndex: index,
			Title:          "Sensitive actions granted",
			Description:    fmt.Sprintf("Statement grants sensitive actions: %s", strings.Join(dangerous, ", ")),
			RiskScore:      75,
			Recommendation: "Scope sensitive actions to explicit resource ARNs and add restricting conditions",
			Actions:        dangerous,
		})
		issues = append(issues, c.checkConditions(index, st)...)
	}

	issues = append(issues, c.checkUnknownActions(index, st)...)
	return issues
}

func (c *Checker) checkPrincipal(index int, st model.Statement) []model.PolicyIssue {
	if len(st.Principal) == 0 {
		return nil
	}
	wild := 0
	for _, p := range st.Principal {
		if p == "*" {
			wild++
		}
	}
	if wild == 0 {
		return nil
	}
	return []model.PolicyIssue{{
		RuleID:         model.RuleWildcardPrincipal,
		Severity:       model.SeverityCritical,
		StatementIndex: index,
		Title:          "Wildcard principal allows public access",
		Description:    "Statement allows access to any principal (*)",
		RiskScore:      95,
		Recommendation: "Replace the wildcard principal with explicit account or role ARNs",
		WildcardShare:  float64(wild) / float64(len(st.Principal)),
	}}
}

func (c *Checker) checkActions(index int, st model.Statement) []model.PolicyIssue {
	if len(st.Action) == 0 {
		return nil
	}

	var full, services []string
	for _, a := range st.Action {
		switch {
		case wildcard.IsFull(a):
			full = append(full, a)
		case wildcard.IsServiceWildcard(a):
			services = append(services, a)
		}
	}

	if len(full) > 0 {
		return []model.PolicyIssue{{
			RuleID:         model.RuleWildcardAction,
			Severity:       model.SeverityCritical,
			StatementIndex: index,
			Title:          "Wildcard actions grant excessive permissions",
			Description:    "Statement allows all actions (*)",
			RiskScore:      95,
			Recommendation: "List only the actions the workload actually needs",
			Actions:        full,
			WildcardShare:  float64(len(full)) / float64(len(st.Action)),
		}}
	}
	if len(services) > 0 {
		return []model.PolicyIssue{{
			RuleID:         model.RuleServiceWildcardAction,
			Severity:       model.SeverityHigh,
			StatementIndex: index,
			Title:          "Service-wide wildcard actions",
			Description:    fmt.Sprintf("Statement allows all actions of a service: %s", strings.Join(services, ", ")),
			RiskScore:      85,
			Recommendation: "Replace service wildcards with the specific actions required",
			Actions:        services,
			WildcardShare:  float64(len(services)) / float64(len(st.Action)),
		}}
	}
	return nil
}

func (c *Checker) checkResources(index int, st model.Statement) []model.PolicyIssue {
	if len(st.Resource) == 0 {
		return nil
	}
	wild := 0
	for _, r := range st.Resource {
		if r == "*" {
			wild++
		}
	}
	if wild == 0 {
		return nil
	}

	severity := model.SeverityHigh
	riskScore := 80
	recommendation := "Scope the statement to explicit resource ARNs"
	if st.HasCondition() {
		severity = model.SeverityMedium
		riskScore = 60
		recommendation = "Scope the statement to explicit resource ARNs; the existing condition only narrows, not replaces, resource scoping"
	}

	return []model.PolicyIssue{{
		RuleID:         model.RuleWildcardResource,
		Severity:       severity,
		StatementIndex: index,
		Title:          "Wildcard resources grant broad access",
		Description:    "Statement applies to all resources (*)",
		RiskScore:      riskScore,
		Recommendation: recommendation,
		WildcardShare:  float64(wild) / float64(len(st.Resource)),
	}}
}

func (c *Checker) checkUnrestrictedAdmin(index int, st model.Statement) []model.PolicyIssue {
	wildResource := false
	for _, r := range st.Resource {
		if r == "*" {
			wildResource = true
			break
		}
	}
	if !wildResource {
		return nil
	}

	var admin []string
	for _, a := range st.Action {
		for _, adm := range c.rs.AdminActions {
			if strings.EqualFold(a, adm) {
				admin = append(admin, a)
				break
			}
		}
	}
	if len(admin) == 0 {
		return nil
	}

	return []model.PolicyIssue{{
		RuleID:         model.RuleUnrestrictedAdmin,
		Severity:       model.SeverityCritical,
		StatementIndex: index,
		Title:          "Unrestricted administrative permissions",
		Description:    fmt.Sprintf("Administrative actions granted on all resources: %s", strings.Join(admin, ", ")),
		RiskScore:      95,
		Recommendation: "Split administrative permissions into scoped statements with explicit resources",
		Actions:        admin,
	}}
}

// dangerousActions returns the sensitive catalog entries this statement
// grants, wildcard grants included, sorted for stable output.
func (c *Checker) dangerousActions(st model.Statement) []string {
	var matched []string
	for _, sensitive := range c.rs.SensitiveActions {
		if wildcard.AnyMatches(st.Action, sensitive) {
			matched = append(matched, sensitive)
		}
	}
	sort.Strings(matched)
	return matched
}

// checkConditions only runs for statements that grant sensitive actions.
// The three checks are independent and may all fire.
func (c *Checker) checkConditions(index int, st model.Statement) []model.PolicyIssue {
	var issues []model.PolicyIssue

	if !st.Condition.HasKey(conditionKeyMFA) {
		issues = append(issues, model.PolicyIssue{
			RuleID:         model.RuleMissingMFACondition,
			Severity:       model.SeverityMedium,
			StatementIndex: index,
			Title:          "Sensitive actions lack an MFA condition",
			Description:    "Sensitive actions are granted without an MFA condition",
			RiskScore:      60,
			Recommendation: "Add a Bool condition on aws:MultiFactorAuthPresent",
		})
	}
	if !st.Condition.HasKey(conditionKeySourceIP) && !st.Condition.HasKey(conditionKeyVPCSource) {
		issues = append(issues, model.PolicyIssue{
			RuleID:         model.RuleMissingIPCondition,
			Severity:       model.SeverityLow,
			StatementIndex: index,
			Title:          "Sensitive actions lack a source IP restriction",
			Description:    "Sensitive actions are granted without a source IP restriction",
			RiskScore:      40,
			Recommendation: "Add an IpAddress condition on aws:SourceIp or aws:VpcSourceIp",
		})
	}
	hasTime := st.Condition.HasKey(conditionKeyTime) ||
		st.Condition.HasKey(conditionKeyEpoch) ||
		st.Condition.HasOperatorPrefix("Date")
	if !hasTime {
		issues = append(issues, model.PolicyIssue{
			RuleID:         model.RuleMissingTimeCondition,
			Severity:       model.SeverityInfo,
			StatementIndex: index,
			Title:          "Sensitive actions lack a time-window restriction",
			Description:    "Sensitive actions are granted without a time-window restriction",
			RiskScore:      20,
			Recommendation: "Consider a Date condition limiting when the grant is usable",
		})
	}

	return issues
}

func (c *Checker) checkUnknownActions(index int, st model.Statement) []model.PolicyIssue {
	known := make(map[string]bool, len(c.rs.KnownServices))
	for _, s := range c.rs.KnownServices {
		known[strings.ToLower(s)] = true
	}

	var unknown []string
	for _, a := range st.Action {
		if wildcard.IsFull(a) {
			continue
		}
		service, ok := wildcard.ServicePrefix(a)
		if !ok || !known[service] {
			unknown = append(unknown, a)
		}
	}
	if len(unknown) == 0 {
		return nil
	}

	return []model.PolicyIssue{{
		RuleID:         model.RuleUnknownAction,
		Severity:       model.SeverityInfo,
		StatementIndex: index,
		Title:          "Unrecognized actions referenced",
		Description:    fmt.Sprintf("Statement references unrecognized actions: %s", strings.Join(unknown, ", ")),
		RiskScore:      15,
		Recommendation: "Verify the action names; unrecognized actions are analyzed conservatively",
		Actions:        unknown,
	}}
}

// checkWildcardRatio flags policies where wildcarded actions make up more
// of the grant surface than the configured limit allows.
func (c *Checker) checkWildcardRatio(doc model.PolicyDocument) (model.PolicyIssue, bool) {
	total, wild := 0, 0
	for _, st := range doc.Statements {
		if st.Effect != model.EffectAllow {
			continue
		}
		for _, a := range st.Action {
			total++
			if wildcard.HasWildcard(a) {
				wild++
			}
		}
	}
	if total == 0 {
		return model.PolicyIssue{}, false
	}

	ratio := float64(wild) / float64(total)
	if ratio <= c.rs.WildcardRatioLimit {
		return model.PolicyIssue{}, false
	}

	return model.PolicyIssue{
		RuleID:         model.RuleExcessiveWildcards,
		Severity:       model.SeverityMedium,
		StatementIndex: model.PolicyWideIndex,
		Title:          "Excessive use of wildcard actions",
		Description:    fmt.Sprintf("%.0f%% of granted actions contain wildcards", ratio*100),
		RiskScore:      55,
		Recommendation: "Enumerate actions explicitly instead of relying on wildcards",
		WildcardShare:  ratio,
	}, true
}
