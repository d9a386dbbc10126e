package model

// Rule identifiers shared between the rule checks, the escalation detector,
// the scorer penalty table and the compliance mappings.
const (
	RuleWildcardPrincipal     = "wildcard_principal"
	RuleWildcardAction        = "wildcard_action"
	RuleServiceWildcardAction = "service_wildcard_action"
	RuleWildcardResource      = "wildcard_resource"
	RuleMissingMFACondition   = "missing_mfa_condition"
	RuleMissingIPCondition    = "missing_ip_condition"
	RuleMissingTimeCondition  = "missing_time_condition"
	RuleDangerousActions      = "dangerous_actions"
	RuleUnknownAction         = "unknown_action"
	RuleExcessiveWildcards    = "excessive_wildcards"
	RuleUnrestrictedAdmin     = "unrestricted_admin"
	RulePrivilegeEscalation   = "privilege_escalation"
)

// PolicyWideIndex marks issues that apply to the whole document rather than
// a single statement, e.g. escalation paths assembled across statements.
const PolicyWideIndex = -1

// PolicyIssue is one problem surfaced by a rule check or the escalation
// detector.
type PolicyIssue struct {
	RuleID         string   `json:"rule_id"`
	Severity       Severity `json:"severity"`
	StatementIndex int      `json:"affected_statement_index"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RiskScore      int      `json:"risk_score"`
	Recommendation string   `json:"recommendation,omitempty"`
	Actions        []string `json:"actions,omitempty"`
	ComplianceTags []string `json:"compliance_tags,omitempty"`

	// WildcardShare is the fraction of the affected statement's scope that
	// is wildcarded. Scoring uses it to weigh least-privilege penalties.
	WildcardShare float64 `json:"-"`
}

// ValidationResult is the full outcome of analyzing one policy or identity.
type ValidationResult struct {
	PolicyName           string              `json:"policy_name"`
	IsValid              bool                `json:"is_valid"`
	Issues               []PolicyIssue       `json:"issues"`
	RiskScore            int                 `json:"risk_score"`
	LeastPrivilegeScore  int                 `json:"least_privilege_score"`
	ComplianceViolations map[string][]string `json:"compliance_violations,omitempty"`
	ComplianceStatus     map[string]bool     `json:"compliance_status,omitempty"`
}

// CountBySeverity tallies the result's issues per severity.
func (r ValidationResult) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int, len(Severities))
	for _, issue := range r.Issues {
		counts[issue.Severity]++
	}
	return counts
}

// HasEscalation reports whether any issue is a privilege-escalation match.
func (r ValidationResult) HasEscalation() bool {
	for _, issue := range r.Issues {
		if issue.RuleID == RulePrivilegeEscalation {
			return true
		}
	}
	return false
}
