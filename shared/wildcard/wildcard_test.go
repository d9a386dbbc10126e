package wildcard

import "testing"

func TestIsFull(t *testing.T) {
	testCases := []struct {
		action   string
		expected bool
	}{
		{"*", true},
		{"*:*", true},
		{"s3:*", false},
		{"iam:PassRole", false},
		{"", false},
	}

	for _, tc := range testCases {
		t.Run(tc.action, func(t *testing.T) {
			if got := IsFull(tc.action); got != tc.expected {
				t.Errorf("IsFull(%q) = %v, want %v", tc.action, got, tc.expected)
			}
		})
	}
}

func TestIsServiceWildcard(t *testing.T) {
	testCases := []struct {
		action   string
		expected bool
	}{
		{"s3:*", true},
		{"iam:*", true},
		{"*:*", false},
		{"*", false},
		{"s3:GetObject", false},
		{"s3:Get*", false},
	}

	for _, tc := range testCases {
		t.Run(tc.action, func(t *testing.T) {
			if got := IsServiceWildcard(tc.action); got != tc.expected {
				t.Errorf("IsServiceWildcard(%q) = %v, want %v", tc.action, got, tc.expected)
			}
		})
	}
}

func TestServicePrefix(t *testing.T) {
	service, ok := ServicePrefix("IAM:PassRole")
	if !ok || service != "iam" {
		t.Errorf("ServicePrefix(IAM:PassRole) = %q, %v", service, ok)
	}
	if _, ok := ServicePrefix("NotAnAction"); ok {
		t.Error("expected no service prefix for action without separator")
	}
}

func TestMatches(t *testing.T) {
	testCases := []struct {
		name     string
		pattern  string
		action   string
		expected bool
	}{
		{"exact", "iam:PassRole", "iam:PassRole", true},
		{"case insensitive", "iam:passrole", "iam:PassRole", true},
		{"full wildcard", "*", "iam:PassRole", true},
		{"colon wildcard", "*:*", "s3:GetObject", true},
		{"service wildcard", "iam:*", "iam:CreateAccessKey", true},
		{"trailing wildcard", "iam:Create*", "iam:CreateAccessKey", true},
		{"trailing wildcard miss", "iam:Create*", "iam:DeleteUser", false},
		{"middle wildcard", "iam:*AccessKey", "iam:CreateAccessKey", true},
		{"middle wildcard fragments", "iam:C*Key", "iam:CreateAccessKey", true},
		{"middle wildcard miss", "iam:*AccessKey", "iam:CreateUser", false},
		{"wrong service", "s3:*", "iam:PassRole", false},
		{"no wildcard miss", "iam:PassRole", "iam:CreateRole", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Matches(tc.pattern, tc.action); got != tc.expected {
				t.Errorf("Matches(%q, %q) = %v, want %v", tc.pattern, tc.action, got, tc.expected)
			}
		})
	}
}

func TestAnyMatches(t *testing.T) {
	granted := []string{"s3:GetObject", "iam:Create*"}
	if !AnyMatches(granted, "iam:CreateAccessKey") {
		t.Error("expected iam:Create* to cover iam:CreateAccessKey")
	}
	if AnyMatches(granted, "iam:DeleteUser") {
		t.Error("expected no pattern to cover iam:DeleteUser")
	}
}
