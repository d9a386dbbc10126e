// Package compliance provides CIS Benchmark and other compliance framework
// mappings for policy rule findings.
package compliance

import "github.com/thirukguru/iam-entitlements/model"

// Framework identifiers used across rule mappings.
const (
	FrameworkCIS       = "CIS"
	FrameworkNIST      = "NIST"
	FrameworkPCIDSS    = "PCI-DSS"
	FrameworkZeroTrust = "ZeroTrust"
)

// Frameworks lists every framework the mappings cover.
var Frameworks = []string{FrameworkCIS, FrameworkNIST, FrameworkPCIDSS, FrameworkZeroTrust}

// Control represents one compliance framework control.
type Control struct {
	ID          string
	Title       string
	Description string
	Framework   string
}

// RuleCompliance maps rule identifiers to the controls they violate.
var RuleCompliance = map[string][]Control{
	model.RuleWildcardPrincipal: {
		{ID: "CIS 1.17", Title: "Ensure IAM roles allow only trusted principals", Framework: FrameworkCIS},
		{ID: "NIST AC-3", Title: "Access Enforcement", Framework: FrameworkNIST},
		{ID: "PCI-DSS 7.1", Title: "Limit access to system components", Framework: FrameworkPCIDSS},
		{ID: "ZT Verify-Explicitly", Title: "Authenticate and authorize every principal explicitly", Framework: FrameworkZeroTrust},
	},
	model.RuleWildcardAction: {
		{ID: "CIS 1.16", Title: "Ensure IAM policies with full *:* administrative privileges are not attached", Framework: FrameworkCIS},
		{ID: "NIST AC-6", Title: "Least Privilege", Framework: FrameworkNIST},
		{ID: "PCI-DSS 7.1.2", Title: "Restrict access to privileged user IDs", Framework: FrameworkPCIDSS},
		{ID: "ZT Least-Privilege", Title: "Grant only the access a workload needs", Framework: FrameworkZeroTrust},
	},
	model.RuleServiceWildcardAction: {
		{ID: "CIS 1.16", Title: "Ensure IAM policies with full *:* administrative privileges are not attached", Framework: FrameworkCIS},
		{ID: "NIST AC-6", Title: "Least Privilege", Framework: FrameworkNIST},
		{ID: "ZT Least-Privilege", Title: "Grant only the access a workload needs", Framework: FrameworkZeroTrust},
	},
	model.RuleWildcardResource: {
		{ID: "NIST AC-6", Title: "Least Privilege", Framework: FrameworkNIST},
		{ID: "PCI-DSS 7.1", Title: "Limit access to system components", Framework: FrameworkPCIDSS},
		{ID: "ZT Least-Privilege", Title: "Grant only the access a workload needs", Framework: FrameworkZeroTrust},
	},
	model.RuleMissingMFACondition: {
		{ID: "CIS 1.10", Title: "Ensure multi-factor authentication is enabled for all IAM users", Framework: FrameworkCIS},
		{ID: "NIST IA-2", Title: "Identification and Authentication", Framework: FrameworkNIST},
		{ID: "PCI-DSS 8.3", Title: "Incorporate two-factor authentication", Framework: FrameworkPCIDSS},
		{ID: "ZT Verify-Explicitly", Title: "Authenticate and authorize every principal explicitly", Framework: FrameworkZeroTrust},
	},
	model.RuleMissingIPCondition: {
		{ID: "NIST AC-4", Title: "Information Flow Enforcement", Framework: FrameworkNIST},
		{ID: "ZT Assume-Breach", Title: "Constrain where credentials can be exercised", Framework: FrameworkZeroTrust},
	},
	model.RuleMissingTimeCondition: {
		{ID: "NIST AC-2", Title: "Account Management", Framework: FrameworkNIST},
		{ID: "ZT Assume-Breach", Title: "Constrain where credentials can be exercised", Framework: FrameworkZeroTrust},
	},
	model.RuleDangerousActions: {
		{ID: "NIST AC-6", Title: "Least Privilege", Framework: FrameworkNIST},
		{ID: "PCI-DSS 7.1.2", Title: "Restrict access to privileged user IDs", Framework: FrameworkPCIDSS},
		{ID: "ZT Least-Privilege", Title: "Grant only the access a workload needs", Framework: FrameworkZeroTrust},
	},
	model.RuleExcessiveWildcards: {
		{ID: "NIST AC-6", Title: "Least Privilege", Framework: FrameworkNIST},
		{ID: "ZT Least-Privilege", Title: "Grant only the access a workload needs", Framework: FrameworkZeroTrust},
	},
	model.RuleUnrestrictedAdmin: {
		{ID: "CIS 1.16", Title: "Ensure IAM policies with full *:* administrative privileges are not attached", Framework: FrameworkCIS},
		{ID: "NIST AC-6", Title: "Least Privilege", Framework: FrameworkNIST},
		{ID: "PCI-DSS 7.1.2", Title: "Restrict access to privileged user IDs", Framework: FrameworkPCIDSS},
		{ID: "ZT Least-Privilege", Title: "Grant only the access a workload needs", Framework: FrameworkZeroTrust},
	},
	model.RulePrivilegeEscalation: {
		{ID: "CIS 1.16", Title: "Ensure no IAM policies allow privilege escalation", Framework: FrameworkCIS},
		{ID: "NIST AC-6", Title: "Least Privilege", Framework: FrameworkNIST},
		{ID: "PCI-DSS 7.1.2", Title: "Restrict access to privileged user IDs", Framework: FrameworkPCIDSS},
		{ID: "ZT Assume-Breach", Title: "Constrain where credentials can be exercised", Framework: FrameworkZeroTrust},
	},
}

// GetComplianceIDs returns the control IDs a rule violates.
func GetComplianceIDs(ruleID string) []string {
	controls, ok := RuleCompliance[ruleID]
	if !ok {
		return nil
	}

	ids := make([]string, 0, len(controls))
	for _, c := range controls {
		ids = append(ids, c.ID)
	}
	return ids
}

// ViolationsByFramework groups the deduplicated control IDs violated by a
// set of issues, keyed by framework.
func ViolationsByFramework(issues []model.PolicyIssue) map[string][]string {
	seen := map[string]bool{}
	out := map[string][]string{}
	for _, issue := range issues {
		for _, c := range RuleCompliance[issue.RuleID] {
			key := c.Framework + "|" + c.ID
			if seen[key] {
				continue
			}
			seen[key] = true
			out[c.Framework] = append(out[c.Framework], c.ID)
		}
	}
	return out
}

// StatusByFramework reports per-framework pass/fail for a set of issues.
// A framework passes when no issue maps to one of its controls.
func StatusByFramework(issues []model.PolicyIssue) map[string]bool {
	violations := ViolationsByFramework(issues)
	status := make(map[string]bool, len(Frameworks))
	for _, fw := range Frameworks {
		status[fw] = len(violations[fw]) == 0
	}
	return status
}
