package findings

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	aatypes "github.com/aws/aws-sdk-go-v2/service/accessanalyzer/types"
)

// FromAccessAnalyzer converts an Access Analyzer finding summary into the
// raw record shape the aws-access-analyzer field mapping expects. Callers
// that already hold SDK types can feed them straight into NormalizeBatch
// without re-marshaling.
func FromAccessAnalyzer(f aatypes.FindingSummary) map[string]any {
	raw := map[string]any{
		"id":                   aws.ToString(f.Id),
		"resource":             aws.ToString(f.Resource),
		"resourceType":         string(f.ResourceType),
		"resourceOwnerAccount": aws.ToString(f.ResourceOwnerAccount),
		"status":               string(f.Status),
		"isPublic":             aws.ToBool(f.IsPublic),
	}

	if len(f.Principal) > 0 {
		principal := make(map[string]any, len(f.Principal))
		for k, v := range f.Principal {
			principal[k] = v
		}
		raw["principal"] = principal
	}
	if len(f.Action) > 0 {
		actions := make([]any, 0, len(f.Action))
		for _, a := range f.Action {
			actions = append(actions, a)
		}
		raw["action"] = actions
	}
	if len(f.Condition) > 0 {
		condition := make(map[string]any, len(f.Condition))
		for k, v := range f.Condition {
			condition[k] = v
		}
		raw["condition"] = condition
	}

	if f.CreatedAt != nil {
		raw["createdAt"] = f.CreatedAt.UTC().Format(time.RFC3339)
	}
	if f.UpdatedAt != nil {
		raw["updatedAt"] = f.UpdatedAt.UTC().Format(time.RFC3339)
	}

	return raw
}

// FromAccessAnalyzerBatch converts a page of finding summaries.
func FromAccessAnalyzerBatch(fs []aatypes.FindingSummary) []map[string]any {
	out := make([]map[string]any, 0, len(fs))
	for _, f := range fs {
		out = append(out, FromAccessAnalyzer(f))
	}
	return out
}
