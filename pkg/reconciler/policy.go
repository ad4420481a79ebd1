package reconciler

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/iibkit/pkg/errors"
)

// Policy selects how the source list is combined into the target list.
type Policy string

const (
	// PolicyMergeUnique appends source entries whose identifier is not yet in
	// the target. Entries without an identifier are always appended.
	PolicyMergeUnique Policy = "merge-unique"
	// PolicyPrependAll places the whole source list in front of the target list.
	PolicyPrependAll Policy = "prepend-all"
)

// DefaultPolicy is used when no policy is given.
const DefaultPolicy = PolicyMergeUnique

// Policies returns every supported policy in display order.
func Policies() []Policy {
	return []Policy{PolicyMergeUnique, PolicyPrependAll}
}

// String returns the string representation of a policy.
func (p Policy) String() string {
	return string(p)
}

// Name returns a human-readable title for the policy.
func (p Policy) Name() string {
	return cases.Title(language.English).String(strings.ReplaceAll(p.String(), "-", " "))
}

// Description returns a one-line explanation of the policy.
func (p Policy) Description() string {
	switch p {
	case PolicyMergeUnique:
		return "Append source entries with an unseen identifier; entries without one are always appended"
	case PolicyPrependAll:
		return "Prepend the entire source list to the target list, keeping duplicates"
	default:
		return "unknown policy"
	}
}

// IsValid reports whether p is a supported policy.
func (p Policy) IsValid() bool {
	switch p {
	case PolicyMergeUnique, PolicyPrependAll:
		return true
	default:
		return false
	}
}

// ParsePolicy converts s to a Policy. An empty string yields DefaultPolicy.
func ParsePolicy(s string) (Policy, error) {
	p := Policy(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return DefaultPolicy, nil
	}
	if !p.IsValid() {
		return "", errors.NewValidationError("policy", s, "must be one of: merge-unique, prepend-all")
	}
	return p, nil
}
