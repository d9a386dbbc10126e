package model

import "strings"

// Severity is the shared severity scale used by policy issues and findings.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityInfo     Severity = "INFO"
)

// Severities lists all severities from most to least severe.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}

var severityRank = map[Severity]int{
	SeverityCritical: 4,
	SeverityHigh:     3,
	SeverityMedium:   2,
	SeverityLow:      1,
	SeverityInfo:     0,
}

// Rank returns a comparable ordering value, higher means more severe.
func (s Severity) Rank() int {
	return severityRank[s]
}

// Effect is the statement effect, Allow or Deny.
type Effect string

const (
	EffectAllow Effect = "Allow"
	EffectDeny  Effect = "Deny"
)

// ConditionMap mirrors the IAM condition block: operator -> key -> values.
type ConditionMap map[string]map[string][]string

// HasKey reports whether any operator carries the given condition key.
// Key comparison is case-insensitive, as IAM treats keys.
func (c ConditionMap) HasKey(key string) bool {
	for _, keys := range c {
		for k := range keys {
			if strings.EqualFold(k, key) {
				return true
			}
		}
	}
	return false
}

// HasOperatorPrefix reports whether any condition operator starts with the
// given prefix, e.g. "Date" for time-window operators.
func (c ConditionMap) HasOperatorPrefix(prefix string) bool {
	for op := range c {
		if strings.HasPrefix(op, prefix) {
			return true
		}
	}
	return false
}

// Statement is one normalized policy statement. Principal, Action and
// Resource are always slices; absent optional fields stay empty.
type Statement struct {
	SID       string       `json:"sid,omitempty"`
	Effect    Effect       `json:"effect"`
	Principal []string     `json:"principal,omitempty"`
	Action    []string     `json:"action,omitempty"`
	Resource  []string     `json:"resource,omitempty"`
	Condition ConditionMap `json:"condition,omitempty"`
}

// HasCondition reports whether the statement carries any condition block.
func (st Statement) HasCondition() bool {
	return len(st.Condition) > 0
}

// PolicyDocument is a parsed policy ready for rule checks.
type PolicyDocument struct {
	Version    string      `json:"version,omitempty"`
	Statements []Statement `json:"statements"`
}
