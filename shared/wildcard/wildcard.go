// Package wildcard implements IAM-style action pattern matching shared by
// the rule checks and the escalation detector.
package wildcard

import "strings"

// IsFull reports whether the action grants everything, "*" or "*:*".
func IsFull(action string) bool {
	return action == "*" || action == "*:*"
}

// IsServiceWildcard reports whether the action is a whole-service grant
// such as "s3:*".
func IsServiceWildcard(action string) bool {
	service, rest, ok := strings.Cut(action, ":")
	return ok && service != "*" && rest == "*"
}

// HasWildcard reports whether the action contains any wildcard character.
func HasWildcard(action string) bool {
	return strings.ContainsAny(action, "*?")
}

// ServicePrefix returns the service portion of an action, lowercased.
// The second return is false for actions without a service separator.
func ServicePrefix(action string) (string, bool) {
	service, _, ok := strings.Cut(action, ":")
	if !ok {
		return "", false
	}
	return strings.ToLower(service), true
}

// Matches reports whether a granted action pattern covers a concrete
// action. Matching is case-insensitive and supports "*" segments and
// trailing wildcards the way IAM evaluates them.
func Matches(pattern, action string) bool {
	p := strings.ToLower(pattern)
	a := strings.ToLower(action)

	if p == a {
		return true
	}
	if IsFull(p) {
		return true
	}
	if !strings.Contains(p, "*") {
		return false
	}
	if strings.HasSuffix(p, "*") {
		return strings.HasPrefix(a, strings.TrimSuffix(p, "*"))
	}

	// Wildcard in the middle: split on '*' and require the fragments in order.
	parts := strings.Split(p, "*")
	rest := a
	for i, part := range parts {
		if part == "" {
			continue
		}
		idx := strings.Index(rest, part)
		if idx < 0 {
			return false
		}
		if i == 0 && idx != 0 {
			return false
		}
		rest = rest[idx+len(part):]
	}
	if last := parts[len(parts)-1]; last != "" && !strings.HasSuffix(a, last) {
		return false
	}
	return true
}

// AnyMatches reports whether any granted pattern covers the action.
func AnyMatches(patterns []string, action string) bool {
	for _, p := range patterns {
		if Matches(p, action) {
			return true
		}
	}
	return false
}
