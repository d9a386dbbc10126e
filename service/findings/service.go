// Package findings normalizes raw provider access findings into the
// unified NormalizedFinding schema.
package findings

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thirukguru/iam-entitlements/model"
	"github.com/thirukguru/iam-entitlements/service/ruleset"
)

// Risk factor labels attached to normalized findings.
const (
	FactorPublicAccess = "public_access"
	FactorAdminPerms   = "admin_permissions"
	FactorDestructive  = "destructive_actions"
	FactorCrossAccount = "cross_account"
	FactorDataAccess   = "data_access"
	FactorNoCondition  = "no_condition"
)

// MalformedFindingError reports a raw record that cannot be normalized.
// Batch normalization converts it into a warning and keeps going.
type MalformedFindingError struct {
	Reason string
}

func (e *MalformedFindingError) Error() string {
	return fmt.Sprintf("malformed finding record: %s", e.Reason)
}

// Service normalizes raw provider findings.
type Service interface {
	Normalize(provider string, raw map[string]any) (model.NormalizedFinding, error)
	NormalizeBatch(provider string, raws []map[string]any) ([]model.NormalizedFinding, []model.FindingWarning)
}

type service struct {
	rs *ruleset.Ruleset
}

// NewService creates a findings service bound to the given ruleset.
func NewService(rs *ruleset.Ruleset) Service {
	return &service{rs: rs}
}

// Normalize maps one raw record through the provider's field mapping and
// enriches it with exposure, severity, risk factors and remediation text.
func (s *service) Normalize(provider string, raw map[string]any) (model.NormalizedFinding, error) {
	mapping, ok := s.rs.FieldMappings[provider]
	if !ok {
		return model.NormalizedFinding{}, &MalformedFindingError{Reason: fmt.Sprintf("unknown provider %q", provider)}
	}
	if raw == nil {
		return model.NormalizedFinding{}, &MalformedFindingError{Reason: "record is empty"}
	}

	sourceID := getString(raw, mapping.SourceID)
	if sourceID == "" {
		return model.NormalizedFinding{}, &MalformedFindingError{Reason: fmt.Sprintf("missing %s", mapping.SourceID)}
	}
	resourceARN := getString(raw, mapping.ResourceARN)
	if resourceARN == "" {
		return model.NormalizedFinding{}, &MalformedFindingError{Reason: fmt.Sprintf("missing %s", mapping.ResourceARN)}
	}
	resourceType := getString(raw, mapping.ResourceType)
	if resourceType == "" {
		return model.NormalizedFinding{}, &MalformedFindingError{Reason: fmt.Sprintf("missing %s", mapping.ResourceType)}
	}

	principal := principalString(raw[mapping.Principal])
	actions := getStringList(raw, mapping.Action)
	hasCondition, orgCondition := conditionInfo(raw[mapping.Condition])
	isPublic := getBool(raw, mapping.IsPublic)
	accountID := getString(raw, mapping.AccountID)

	f := model.NormalizedFinding{
		ID:            provider + "/" + sourceID,
		Provider:      provider,
		SourceID:      sourceID,
		AccountID:     accountID,
		Region:        regionFromARN(resourceARN),
		ResourceType:  resourceType,
		ResourceARN:   resourceARN,
		ResourceName:  nameFromARN(resourceARN),
		Status:        getString(raw, mapping.Status),
		Principal:     principal,
		Actions:       actions,
		HasCondition:  hasCondition,
		IsPublic:      isPublic,
		FirstObserved: getString(raw, mapping.CreatedAt),
		LastObserved:  getString(raw, mapping.UpdatedAt),
	}

	f.ExposureType = exposureType(principal, isPublic, orgCondition)
	f.RiskFactors = s.riskFactors(f)
	f.SeverityScore = s.severityScore(f)
	f.Severity = severityFor(f)
	f.Title = title(f)
	f.Description = description(f)
	f.Recommendation = recommendation(f)

	return f, nil
}

// NormalizeBatch normalizes records in input order. Malformed records are
// skipped and reported as warnings instead of failing the batch.
func (s *service) NormalizeBatch(provider string, raws []map[string]any) ([]model.NormalizedFinding, []model.FindingWarning) {
	var (
		findings []model.NormalizedFinding
		warnings []model.FindingWarning
	)
	for i, raw := range raws {
		f, err := s.Normalize(provider, raw)
		if err != nil {
			warnings = append(warnings, model.FindingWarning{
				Index:    i,
				SourceID: sourceIDForWarning(s.rs, provider, raw),
				Reason:   err.Error(),
			})
			continue
		}
		findings = append(findings, f)
	}
	return findings, warnings
}

func sourceIDForWarning(rs *ruleset.Ruleset, provider string, raw map[string]any) string {
	mapping, ok := rs.FieldMappings[provider]
	if !ok || raw == nil {
		return ""
	}
	return getString(raw, mapping.SourceID)
}

// exposureType classifies who the finding exposes the resource to. A
// public grant to the bare "*" principal is anonymous access; any other
// public grant is internet exposure.
func exposureType(principal string, isPublic, orgCondition bool) model.ExposureType {
	switch {
	case isPublic && principal == "*":
		return model.ExposureAnonymous
	case isPublic || principal == "*":
		return model.ExposurePublicInternet
	case strings.HasSuffix(principal, ".amazonaws.com"):
		return model.ExposureServiceAccess
	case orgCondition:
		return model.ExposureCrossOrg
	default:
		return model.ExposureCrossAccount
	}
}

var exposureSeverity = map[model.ExposureType][2]model.Severity{
	// [0] without restricting condition, [1] with one.
	model.ExposurePublicInternet: {model.SeverityCritical, model.SeverityHigh},
	model.ExposureAnonymous:      {model.SeverityCritical, model.SeverityCritical},
	model.ExposureCrossAccount:   {model.SeverityHigh, model.SeverityMedium},
	model.ExposureCrossOrg:       {model.SeverityMedium, model.SeverityLow},
	model.ExposureServiceAccess:  {model.SeverityMedium, model.SeverityLow},
}

func severityFor(f model.NormalizedFinding) model.Severity {
	pair, ok := exposureSeverity[f.ExposureType]
	if !ok {
		return model.SeverityMedium
	}
	severity := pair[0]
	if f.HasCondition {
		severity = pair[1]
	}

	// Admin-level grants on an already exposed resource are never less
	// than CRITICAL at HIGH exposure.
	if severity == model.SeverityHigh && containsFactor(f.RiskFactors, FactorAdminPerms) {
		severity = model.SeverityCritical
	}
	return severity
}

func (s *service) riskFactors(f model.NormalizedFinding) []string {
	factors := map[string]bool{}

	if f.IsPublic || f.ExposureType == model.ExposurePublicInternet || f.ExposureType == model.ExposureAnonymous {
		factors[FactorPublicAccess] = true
	}
	if !f.HasCondition {
		factors[FactorNoCondition] = true
	}
	if f.ExposureType == model.ExposureCrossAccount || f.ExposureType == model.ExposureCrossOrg {
		factors[FactorCrossAccount] = true
	}

	for _, action := range f.Actions {
		if isAdminAction(action) {
			factors[FactorAdminPerms] = true
		}
		if isDestructiveAction(action) {
			factors[FactorDestructive] = true
		}
		if s.isDataAccessAction(action) {
			factors[FactorDataAccess] = true
		}
	}

	out := make([]string, 0, len(factors))
	for factor := range factors {
		out = append(out, factor)
	}
	sort.Strings(out)
	return out
}

func (s *service) severityScore(f model.NormalizedFinding) int {
	score := s.rs.Baseline(f.ResourceType)
	for _, factor := range f.RiskFactors {
		score += s.rs.FindingWeights[factor]
	}
	if score > 100 {
		score = 100
	}
	return score
}

func isAdminAction(action string) bool {
	if action == "*" || strings.HasSuffix(action, ":*") {
		return true
	}
	lower := strings.ToLower(action)
	return strings.Contains(lower, "admin") ||
		strings.Contains(lower, "fullaccess") ||
		strings.Contains(lower, "assumerole")
}

var destructiveKeywords = []string{"delete", "remove", "terminate", "destroy", "schedulekeydeletion"}

func isDestructiveAction(action string) bool {
	lower := strings.ToLower(action)
	for _, kw := range destructiveKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func (s *service) isDataAccessAction(action string) bool {
	for _, da := range s.rs.DataAccessActions {
		if strings.EqualFold(action, da) {
			return true
		}
	}
	lower := strings.ToLower(action)
	return strings.Contains(lower, "getobject") ||
		strings.Contains(lower, "getsecretvalue") ||
		strings.Contains(lower, "decrypt")
}

func containsFactor(factors []string, factor string) bool {
	for _, f := range factors {
		if f == factor {
			return true
		}
	}
	return false
}

// principalString renders the raw principal field, which providers deliver
// either as a bare string or as a keyed map like {"AWS": "arn:..."}.
func principalString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case map[string]any:
		if aws, ok := v["AWS"].(string); ok {
			return aws
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if s, ok := v[k].(string); ok {
				return s
			}
		}
		return ""
	default:
		return ""
	}
}

func conditionInfo(raw any) (hasCondition, orgCondition bool) {
	cond, ok := raw.(map[string]any)
	if !ok || len(cond) == 0 {
		return false, false
	}
	for key := range cond {
		if strings.EqualFold(key, "aws:PrincipalOrgID") {
			return true, true
		}
	}
	return true, false
}

// regionFromARN pulls the region segment out of an ARN, empty for global
// resources like IAM.
func regionFromARN(arn string) string {
	parts := strings.SplitN(arn, ":", 6)
	if len(parts) < 6 || parts[0] != "arn" {
		return ""
	}
	return parts[3]
}

// nameFromARN returns the trailing resource identifier of an ARN.
func nameFromARN(arn string) string {
	parts := strings.SplitN(arn, ":", 6)
	if len(parts) < 6 {
		return arn
	}
	resource := parts[5]
	if idx := strings.LastIndex(resource, "/"); idx >= 0 {
		resource = resource[idx+1:]
	}
	if idx := strings.LastIndex(resource, ":"); idx >= 0 {
		resource = resource[idx+1:]
	}
	return resource
}

func shortResourceType(resourceType string) string {
	parts := strings.Split(resourceType, "::")
	if len(parts) < 3 {
		return resourceType
	}
	return parts[1] + " " + parts[2]
}

var exposurePhrase = map[model.ExposureType]string{
	model.ExposurePublicInternet: "publicly accessible from the internet",
	model.ExposureAnonymous:      "accessible without authentication",
	model.ExposureCrossAccount:   "accessible from another AWS account",
	model.ExposureCrossOrg:       "accessible across the organization",
	model.ExposureServiceAccess:  "accessible to an AWS service principal",
}

func title(f model.NormalizedFinding) string {
	return fmt.Sprintf("%s %q is %s", shortResourceType(f.ResourceType), f.ResourceName, exposurePhrase[f.ExposureType])
}

func description(f model.NormalizedFinding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Resource %s is %s", f.ResourceARN, exposurePhrase[f.ExposureType])
	if f.Principal != "" {
		fmt.Fprintf(&b, " via principal %s", f.Principal)
	}
	if len(f.Actions) > 0 {
		fmt.Fprintf(&b, ", granting: %s", strings.Join(f.Actions, ", "))
	}
	if !f.HasCondition {
		b.WriteString(". No restricting condition limits this access")
	}
	b.WriteString(".")
	return b.String()
}

func recommendation(f model.NormalizedFinding) string {
	switch f.ExposureType {
	case model.ExposurePublicInternet, model.ExposureAnonymous:
		return "Remove the public grant or front the resource with an authenticated distribution point."
	case model.ExposureCrossAccount:
		return "Verify the external account is a known partner and pin the grant to specific role ARNs."
	case model.ExposureCrossOrg:
		return "Confirm the aws:PrincipalOrgID condition matches your organization and narrow the granted actions."
	default:
		return "Add a source condition (aws:SourceArn or aws:SourceAccount) restricting the service grant."
	}
}

func getString(raw map[string]any, key string) string {
	if key == "" {
		return ""
	}
	if s, ok := raw[key].(string); ok {
		return s
	}
	return ""
}

func getStringList(raw map[string]any, key string) []string {
	switch v := raw[key].(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	default:
		return nil
	}
}

func getBool(raw map[string]any, key string) bool {
	switch v := raw[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	default:
		return false
	}
}
