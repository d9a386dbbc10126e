package validator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thirukguru/iam-entitlements/model"
	"github.com/thirukguru/iam-entitlements/service/ruleset"
	"github.com/thirukguru/iam-entitlements/shared/compliance"
)

var (
	adminPolicy = []byte(`{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Action": "*",
			"Resource": "*"
		}]
	}`)

	cleanPolicy = []byte(`{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Action": ["s3:GetObject", "s3:ListBucket"],
			"Resource": ["arn:aws:s3:::app-data", "arn:aws:s3:::app-data/*"]
		}]
	}`)
)

func newValidator(t *testing.T) Service {
	t.Helper()
	return NewService(ruleset.Default())
}

func TestValidateJSONAdminPolicy(t *testing.T) {
	svc := newValidator(t)

	result, err := svc.ValidateJSON("admin", adminPolicy)
	require.NoError(t, err)

	assert.False(t, result.IsValid)
	assert.Equal(t, 100, result.RiskScore)
	assert.LessOrEqual(t, result.LeastPrivilegeScore, 10)
	assert.True(t, result.HasEscalation())

	bySeverity := result.CountBySeverity()
	assert.GreaterOrEqual(t, bySeverity[model.SeverityCritical], 2)
}

func TestValidateJSONCleanPolicy(t *testing.T) {
	svc := newValidator(t)

	result, err := svc.ValidateJSON("reader", cleanPolicy)
	require.NoError(t, err)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Issues)
	assert.Equal(t, 0, result.RiskScore)
	assert.Equal(t, 100, result.LeastPrivilegeScore)
	assert.False(t, result.HasEscalation())

	for _, framework := range compliance.Frameworks {
		assert.True(t, result.ComplianceStatus[framework], "framework %s should pass", framework)
	}
}

func TestValidateJSONAttachesComplianceTags(t *testing.T) {
	svc := newValidator(t)

	result, err := svc.ValidateJSON("admin", adminPolicy)
	require.NoError(t, err)
	require.NotEmpty(t, result.Issues)

	tagged := false
	for _, issue := range result.Issues {
		if len(issue.ComplianceTags) > 0 {
			tagged = true
		}
	}
	assert.True(t, tagged, "expected at least one issue with compliance tags")
	assert.NotEmpty(t, result.ComplianceViolations)

	passed := 0
	for _, ok := range result.ComplianceStatus {
		if ok {
			passed++
		}
	}
	assert.Less(t, passed, len(compliance.Frameworks), "admin policy should fail at least one framework")
}

func TestValidateBatchContinuesPastMalformedPolicy(t *testing.T) {
	svc := newValidator(t)

	inputs := []PolicyInput{
		{Name: "clean-1", Raw: cleanPolicy},
		{Name: "broken", Raw: []byte(`{"Version": "2012-10-17"}`)},
		{Name: "clean-2", Raw: cleanPolicy},
		{Name: "admin", Raw: adminPolicy},
		{Name: "clean-3", Raw: cleanPolicy},
	}

	items, err := svc.ValidateBatch(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, items, 5)

	var failed, succeeded int
	for i, item := range items {
		assert.Equal(t, inputs[i].Name, item.Name, "items must keep input order")
		if item.Err != nil {
			failed++
			continue
		}
		succeeded++
	}
	assert.Equal(t, 1, failed)
	assert.Equal(t, 4, succeeded)
}

func TestValidateBatchRespectsContext(t *testing.T) {
	svc := newValidator(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ValidateBatch(ctx, []PolicyInput{{Name: "clean", Raw: cleanPolicy}})
	assert.Error(t, err)
}

func TestValidateIdentityCombinesPolicies(t *testing.T) {
	svc := newValidator(t)

	passRole := []byte(`{
		"Statement": [{
			"Effect": "Allow",
			"Action": "iam:PassRole",
			"Resource": "arn:aws:iam::123456789012:role/app"
		}]
	}`)
	runInstances := []byte(`{
		"Statement": [{
			"Effect": "Allow",
			"Action": "ec2:RunInstances",
			"Resource": "*"
		}]
	}`)

	single, err := svc.ValidateJSON("pass-role-only", passRole)
	require.NoError(t, err)
	assert.False(t, single.HasEscalation())

	combined, err := svc.ValidateIdentity("deploy-role", []PolicyInput{
		{Name: "pass-role", Raw: passRole},
		{Name: "run-instances", Raw: runInstances},
	})
	require.NoError(t, err)

	assert.Equal(t, "deploy-role", combined.PolicyName)
	assert.True(t, combined.HasEscalation(), "paths spanning policies must be caught")
	assert.GreaterOrEqual(t, combined.RiskScore, 90)
}

func TestValidateIdentityOffsetsStatementIndexes(t *testing.T) {
	svc := newValidator(t)

	first := []byte(`{
		"Statement": [
			{"Effect": "Allow", "Action": "s3:GetObject", "Resource": "arn:aws:s3:::app-data/*"},
			{"Effect": "Allow", "Action": "s3:ListBucket", "Resource": "arn:aws:s3:::app-data"}
		]
	}`)
	second := []byte(`{
		"Statement": [
			{"Effect": "Allow", "Action": "s3:GetObject", "Resource": "*"}
		]
	}`)

	result, err := svc.ValidateIdentity("reader", []PolicyInput{
		{Name: "first", Raw: first},
		{Name: "second", Raw: second},
	})
	require.NoError(t, err)

	found := false
	for _, issue := range result.Issues {
		if issue.RuleID == model.RuleWildcardResource {
			found = true
			assert.Equal(t, 2, issue.StatementIndex, "index must be offset past the first document")
		}
	}
	assert.True(t, found, "expected a wildcard resource issue from the second document")
}

func TestValidateIdentityMalformedPolicyFails(t *testing.T) {
	svc := newValidator(t)

	_, err := svc.ValidateIdentity("deploy-role", []PolicyInput{
		{Name: "broken", Raw: []byte(`{"Statement": []}`)},
	})
	assert.Error(t, err)
}
