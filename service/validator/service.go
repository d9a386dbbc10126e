// Package validator wires the parser, rule checks, escalation detector and
// scorer into the per-policy analysis pipeline.
package validator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/thirukguru/iam-entitlements/model"
	"github.com/thirukguru/iam-entitlements/service/escalation"
	"github.com/thirukguru/iam-entitlements/service/policy"
	"github.com/thirukguru/iam-entitlements/service/rules"
	"github.com/thirukguru/iam-entitlements/service/ruleset"
	"github.com/thirukguru/iam-entitlements/service/scoring"
	"github.com/thirukguru/iam-entitlements/shared/compliance"
)

// batchConcurrency bounds parallel policy analysis in ValidateBatch.
const batchConcurrency = 8

// PolicyInput names one raw policy handed to batch or identity validation.
// Either Document or Raw must be set; Document wins when both are.
type PolicyInput struct {
	Name     string
	Document map[string]any
	Raw      []byte
}

// BatchItem is the per-policy outcome of a batch run. Err is set for
// policies that failed to parse; the rest of the batch still completes.
type BatchItem struct {
	Name   string
	Result model.ValidationResult
	Err    error
}

// Service analyzes policies end to end.
type Service interface {
	ValidatePolicy(name string, doc map[string]any) (model.ValidationResult, error)
	ValidateJSON(name string, raw []byte) (model.ValidationResult, error)
	ValidateBatch(ctx context.Context, inputs []PolicyInput) ([]BatchItem, error)
	ValidateIdentity(identity string, policies []PolicyInput) (model.ValidationResult, error)
}

type service struct {
	checker  *rules.Checker
	detector *escalation.Detector
	scorer   *scoring.Scorer
}

// NewService creates a validator bound to the given ruleset.
func NewService(rs *ruleset.Ruleset) Service {
	return &service{
		checker:  rules.NewChecker(rs),
		detector: escalation.NewDetector(rs),
		scorer:   scoring.NewScorer(rs),
	}
}

// ValidatePolicy analyzes one decoded policy document.
func (s *service) ValidatePolicy(name string, doc map[string]any) (model.ValidationResult, error) {
	parsed, err := policy.Parse(doc)
	if err != nil {
		return model.ValidationResult{}, fmt.Errorf("policy %q: %w", name, err)
	}
	return s.analyze(name, []model.PolicyDocument{parsed}), nil
}

// ValidateJSON analyzes one raw JSON policy document.
func (s *service) ValidateJSON(name string, raw []byte) (model.ValidationResult, error) {
	parsed, err := policy.ParseJSON(raw)
	if err != nil {
		return model.ValidationResult{}, fmt.Errorf("policy %q: %w", name, err)
	}
	return s.analyze(name, []model.PolicyDocument{parsed}), nil
}

// ValidateBatch analyzes the inputs concurrently and returns one item per
// input, in input order. Malformed policies surface on their item instead
// of aborting the batch.
func (s *service) ValidateBatch(ctx context.Context, inputs []PolicyInput) ([]BatchItem, error) {
	items := make([]BatchItem, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			items[i] = s.validateOne(input)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *service) validateOne(input PolicyInput) BatchItem {
	var (
		result model.ValidationResult
		err    error
	)
	if input.Document != nil {
		result, err = s.ValidatePolicy(input.Name, input.Document)
	} else {
		result, err = s.ValidateJSON(input.Name, input.Raw)
	}
	return BatchItem{Name: input.Name, Result: result, Err: err}
}

// ValidateIdentity analyzes all policies attached to one identity as a
// unit. Statement indexes refer to the concatenation of all statements in
// input order, and escalation detection runs over the combined action
// union, so paths spanning policies are caught.
func (s *service) ValidateIdentity(identity string, policies []PolicyInput) (model.ValidationResult, error) {
	docs := make([]model.PolicyDocument, 0, len(policies))
	for _, input := range policies {
		var (
			parsed model.PolicyDocument
			err    error
		)
		if input.Document != nil {
			parsed, err = policy.Parse(input.Document)
		} else {
			parsed, err = policy.ParseJSON(input.Raw)
		}
		if err != nil {
			return model.ValidationResult{}, fmt.Errorf("policy %q: %w", input.Name, err)
		}
		docs = append(docs, parsed)
	}
	return s.analyze(identity, docs), nil
}

// analyze is the shared pipeline behind the public entry points.
func (s *service) analyze(name string, docs []model.PolicyDocument) model.ValidationResult {
	var issues []model.PolicyIssue

	offset := 0
	for _, doc := range docs {
		for _, issue := range s.checker.CheckPolicy(doc) {
			if issue.StatementIndex != model.PolicyWideIndex {
				issue.StatementIndex += offset
			}
			issues = append(issues, issue)
		}
		offset += len(doc.Statements)
	}

	matches := s.detector.DetectAcross(docs)
	issues = append(issues, escalation.Issues(matches)...)

	for i := range issues {
		issues[i].ComplianceTags = compliance.GetComplianceIDs(issues[i].RuleID)
	}

	result := model.ValidationResult{
		PolicyName:           name,
		Issues:               issues,
		RiskScore:            s.scorer.RiskScore(issues),
		LeastPrivilegeScore:  s.scorer.LeastPrivilegeScore(issues),
		ComplianceViolations: compliance.ViolationsByFramework(issues),
		ComplianceStatus:     compliance.StatusByFramework(issues),
	}
	result.IsValid = result.CountBySeverity()[model.SeverityCritical] == 0
	return result
}
