// Package scoring turns a list of policy issues into the 0-100 risk and
// least-privilege scores. Both functions are pure; scoring the same issues
// twice yields the same numbers.
package scoring

import (
	"math"

	"github.com/thirukguru/iam-entitlements/model"
	"github.com/thirukguru/iam-entitlements/service/ruleset"
)

// escalationFloor is the minimum risk score for any policy with a
// confirmed privilege-escalation path.
const escalationFloor = 90

// Scorer computes scores from an injected weight table.
type Scorer struct {
	weights   map[model.Severity]int
	penalties map[string]int
}

// NewScorer creates a scorer bound to the ruleset's weight tables.
func NewScorer(rs *ruleset.Ruleset) *Scorer {
	return &Scorer{weights: rs.SeverityWeights, penalties: rs.PenaltyWeights}
}

// RiskScore sums the severity weights of all issues, capped at 100. A
// privilege-escalation issue raises the result to at least the floor.
func (s *Scorer) RiskScore(issues []model.PolicyIssue) int {
	score := 0
	escalated := false
	for _, issue := range issues {
		score += s.weights[issue.Severity]
		if issue.RuleID == model.RulePrivilegeEscalation {
			escalated = true
		}
	}
	if score > 100 {
		score = 100
	}
	if escalated && score < escalationFloor {
		score = escalationFloor
	}
	return score
}

// LeastPrivilegeScore starts at 100 and subtracts a penalty per wildcard
// issue. Each penalty scales with the wildcarded fraction of the affected
// statement's scope, so one wildcard action among many specific ones costs
// far less than a statement that is nothing but wildcards.
func (s *Scorer) LeastPrivilegeScore(issues []model.PolicyIssue) int {
	penalty := 0.0
	for _, issue := range issues {
		weight, ok := s.penalties[issue.RuleID]
		if !ok {
			continue
		}
		share := issue.WildcardShare
		if share <= 0 {
			share = 1
		}
		penalty += float64(weight) * share
	}

	score := 100 - int(math.Round(penalty))
	if score < 0 {
		score = 0
	}
	return score
}
