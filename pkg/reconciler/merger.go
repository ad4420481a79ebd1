package reconciler

import (
	"encoding/json"
	"fmt"

	"github.com/agentstation/iibkit/pkg/document"
	"github.com/agentstation/iibkit/pkg/errors"
)

// outcome is the combined list produced by a policy.
type outcome struct {
	list       []json.RawMessage
	applied    int
	duplicates int
}

// apply dispatches to the policy's combine rule.
func (p Policy) apply(source, target []json.RawMessage, idField string) (*outcome, error) {
	switch p {
	case PolicyMergeUnique:
		return mergeUnique(source, target, idField)
	case PolicyPrependAll:
		return prependAll(source, target), nil
	default:
		return nil, errors.NewValidationError("policy", string(p), "unsupported policy")
	}
}

// mergeUnique appends source entries after the target entries, skipping any
// whose truthy identifier is already present. Entries with a falsy or absent
// identifier cannot be compared and are always appended.
func mergeUnique(source, target []json.RawMessage, idField string) (*outcome, error) {
	seen := make(map[string]struct{}, len(target)+len(source))
	for _, entry := range target {
		if id, ok := identifier(entry, idField); ok {
			seen[id] = struct{}{}
		}
	}

	out := &outcome{list: make([]json.RawMessage, len(target), len(target)+len(source))}
	copy(out.list, target)

	for i, entry := range source {
		if document.Kind(entry) != document.KindObject {
			return nil, errors.NewValidationError(fmt.Sprintf("source[%d]", i), nil, "entry must be an object")
		}

		id, ok := identifier(entry, idField)
		if ok {
			if _, dup := seen[id]; dup {
				out.duplicates++
				continue
			}
			seen[id] = struct{}{}
		}
		out.list = append(out.list, entry)
		out.applied++
	}
	return out, nil
}

// prependAll returns source followed by target, unfiltered.
func prependAll(source, target []json.RawMessage) *outcome {
	list := make([]json.RawMessage, 0, len(source)+len(target))
	list = append(list, source...)
	list = append(list, target...)
	return &outcome{list: list, applied: len(source)}
}

// identifier returns the comparison key of entry's id field when it is truthy.
func identifier(entry json.RawMessage, field string) (string, bool) {
	v, ok := document.Field(entry, field)
	if !ok || !document.Truthy(v) {
		return "", false
	}
	return document.Canonical(v), true
}
