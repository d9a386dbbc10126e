// Package policy normalizes raw IAM policy documents into the model types
// the rule checks consume.
package policy

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/thirukguru/iam-entitlements/model"
)

// ParseJSON decodes raw JSON bytes and normalizes them into a PolicyDocument.
func ParseJSON(raw []byte) (model.PolicyDocument, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.PolicyDocument{}, malformed("invalid JSON: %v", err)
	}
	return Parse(doc)
}

// Parse normalizes a decoded policy document. Scalar Principal, Action and
// Resource values become single-element slices; absent optional fields stay
// empty so downstream checks can skip them.
func Parse(raw map[string]any) (model.PolicyDocument, error) {
	if raw == nil {
		return model.PolicyDocument{}, malformed("document is empty")
	}

	doc := model.PolicyDocument{}
	if v, ok := raw["Version"].(string); ok {
		doc.Version = v
	}

	stmtRaw, ok := raw["Statement"]
	if !ok {
		return model.PolicyDocument{}, malformed("missing Statement key")
	}

	stmts := toSlice(stmtRaw)
	if len(stmts) == 0 {
		return model.PolicyDocument{}, malformed("statement list is empty")
	}

	for i, s := range stmts {
		stmtMap, ok := s.(map[string]any)
		if !ok {
			return model.PolicyDocument{}, malformed("statement %d is not an object", i)
		}
		stmt, err := parseStatement(i, stmtMap)
		if err != nil {
			return model.PolicyDocument{}, err
		}
		doc.Statements = append(doc.Statements, stmt)
	}

	return doc, nil
}

func parseStatement(index int, raw map[string]any) (model.Statement, error) {
	stmt := model.Statement{}

	if sid, ok := raw["Sid"].(string); ok {
		stmt.SID = sid
	}

	effectRaw, ok := raw["Effect"]
	if !ok {
		return stmt, malformed("statement %d missing Effect", index)
	}
	effect, ok := effectRaw.(string)
	if !ok || (effect != string(model.EffectAllow) && effect != string(model.EffectDeny)) {
		return stmt, malformed("statement %d has invalid Effect %q", index, fmt.Sprint(effectRaw))
	}
	stmt.Effect = model.Effect(effect)

	stmt.Principal = parsePrincipal(raw["Principal"])
	stmt.Action = toStringList(raw["Action"])
	stmt.Resource = toStringList(raw["Resource"])
	stmt.Condition = parseCondition(raw["Condition"])

	return stmt, nil
}

// parsePrincipal flattens the IAM principal block. A bare "*" stays "*";
// the map form flattens its values, keeping service and federated entries
// as their identifier strings.
func parsePrincipal(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var out []string
		for _, k := range keys {
			out = append(out, toStringList(v[k])...)
		}
		return out
	case []any:
		return toStringList(v)
	default:
		return nil
	}
}

func parseCondition(raw any) model.ConditionMap {
	condRaw, ok := raw.(map[string]any)
	if !ok || len(condRaw) == 0 {
		return nil
	}
	cond := make(model.ConditionMap, len(condRaw))
	for op, keysRaw := range condRaw {
		keysMap, ok := keysRaw.(map[string]any)
		if !ok {
			continue
		}
		keys := make(map[string][]string, len(keysMap))
		for key, valRaw := range keysMap {
			keys[key] = toStringList(valRaw)
		}
		cond[op] = keys
	}
	return cond
}

func toSlice(raw any) []any {
	switch v := raw.(type) {
	case []any:
		return v
	case map[string]any:
		return []any{v}
	default:
		return nil
	}
}

// toStringList normalizes scalar-or-sequence fields into a string slice.
// Non-string members are rendered with fmt.Sprint rather than dropped, so
// numeric condition values survive.
func toStringList(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case bool:
		return []string{fmt.Sprintf("%t", v)}
	case float64:
		return []string{fmt.Sprint(v)}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			switch s := item.(type) {
			case string:
				out = append(out, s)
			default:
				out = append(out, fmt.Sprint(s))
			}
		}
		return out
	default:
		return nil
	}
}
