// Package escalation detects privilege-escalation paths in policies by
// matching the union of granted actions against known action signatures.
package escalation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thirukguru/iam-entitlements/model"
	"github.com/thirukguru/iam-entitlements/service/ruleset"
	"github.com/thirukguru/iam-entitlements/shared/wildcard"
)

// Match is one escalation pattern found in a policy, with the minimal set
// of granted actions that satisfied it.
type Match struct {
	Pattern        ruleset.EscalationPattern `json:"pattern"`
	MatchedActions []string                  `json:"matched_actions"`
}

// Detector matches action unions against an injected pattern catalog.
type Detector struct {
	patterns []ruleset.EscalationPattern
}

// NewDetector creates a detector bound to the given pattern catalog.
func NewDetector(rs *ruleset.Ruleset) *Detector {
	return &Detector{patterns: rs.EscalationPatterns}
}

// Detect runs the pattern catalog against one policy document.
func (d *Detector) Detect(doc model.PolicyDocument) []Match {
	return d.DetectAcross([]model.PolicyDocument{doc})
}

// DetectAcross runs the pattern catalog against the combined action union
// of several documents, catching paths no single policy grants on its own.
// Only Allow statements contribute to the union; Deny statements are not
// subtracted, so matches are an over-approximation of effective access.
func (d *Detector) DetectAcross(docs []model.PolicyDocument) []Match {
	granted := grantedUnion(docs)
	if len(granted) == 0 {
		return nil
	}

	if fullGrant(granted) {
		return []Match{{
			Pattern: ruleset.EscalationPattern{
				Name:           "Full administrative access",
				Description:    "A wildcard action grant covers every escalation path at once.",
				Recommendation: "Replace the wildcard grant with the specific actions the workload needs.",
				Actions:        []string{"*"},
			},
			MatchedActions: []string{"*"},
		}}
	}

	var matches []Match
	for _, pattern := range d.patterns {
		matched, ok := matchPattern(pattern, granted)
		if !ok {
			continue
		}
		matches = append(matches, Match{Pattern: pattern, MatchedActions: matched})
	}
	return matches
}

// Issues converts matches into CRITICAL policy issues, one per pattern.
func Issues(matches []Match) []model.PolicyIssue {
	var issues []model.PolicyIssue
	for _, m := range matches {
		issues = append(issues, model.PolicyIssue{
			RuleID:         model.RulePrivilegeEscalation,
			Severity:       model.SeverityCritical,
			StatementIndex: model.PolicyWideIndex,
			Title:          fmt.Sprintf("Privilege escalation path: %s", m.Pattern.Name),
			Description:    m.Pattern.Description,
			RiskScore:      95,
			Recommendation: m.Pattern.Recommendation,
			Actions:        m.MatchedActions,
		})
	}
	return issues
}

// grantedUnion collects the lowercased action patterns of every Allow
// statement across the documents.
func grantedUnion(docs []model.PolicyDocument) []string {
	seen := map[string]bool{}
	var union []string
	for _, doc := range docs {
		for _, st := range doc.Statements {
			if st.Effect != model.EffectAllow {
				continue
			}
			for _, a := range st.Action {
				key := strings.ToLower(a)
				if !seen[key] {
					seen[key] = true
					union = append(union, a)
				}
			}
		}
	}
	sort.Strings(union)
	return union
}

func fullGrant(granted []string) bool {
	for _, a := range granted {
		if wildcard.IsFull(a) {
			return true
		}
	}
	return false
}

// matchPattern checks subset containment: every signature action must be
// covered by some granted pattern. It returns the granted patterns that
// satisfied the signature.
func matchPattern(pattern ruleset.EscalationPattern, granted []string) ([]string, bool) {
	matched := make([]string, 0, len(pattern.Actions))
	for _, required := range pattern.Actions {
		found := ""
		for _, g := range granted {
			if wildcard.Matches(g, required) {
				found = g
				break
			}
		}
		if found == "" {
			return nil, false
		}
		matched = append(matched, found)
	}
	return uniqueStrings(matched), true
}

func uniqueStrings(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
