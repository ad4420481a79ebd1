package reconciler

import "fmt"

// Status describes how a reconciliation ended.
type Status string

const (
	// StatusApplied means the policy ran and the target was written (or rendered on dry run).
	StatusApplied Status = "applied"
	// StatusNoList means the source had no list under the configured key; nothing was written.
	StatusNoList Status = "no-list"
)

// Result represents the outcome of a reconciliation.
type Result struct {
	Policy  Policy `json:"policy" yaml:"policy"`
	Source  string `json:"source" yaml:"source"`
	Target  string `json:"target" yaml:"target"`
	ListKey string `json:"list_key" yaml:"list_key"`
	Status  Status `json:"status" yaml:"status"`

	// Applied is the count reported to the user: entries appended under
	// merge-unique, the source list length under prepend-all.
	Applied int `json:"applied" yaml:"applied"`

	// Duplicates counts source entries skipped by merge-unique.
	Duplicates int `json:"duplicates" yaml:"duplicates"`

	SourceCount  int  `json:"source_count" yaml:"source_count"`
	TargetBefore int  `json:"target_before" yaml:"target_before"`
	TargetAfter  int  `json:"target_after" yaml:"target_after"`
	DryRun       bool `json:"dry_run" yaml:"dry_run"`
	Written      bool `json:"written" yaml:"written"`
}

// Summary returns the human-readable line printed after a run.
func (r *Result) Summary() string {
	switch r.Status {
	case StatusNoList:
		return fmt.Sprintf("Source file does not contain a '%s' list.", r.ListKey)
	default:
		verb := "Added"
		if r.DryRun {
			verb = "Would add"
		}
		return fmt.Sprintf("%s %d %s from %s to %s", verb, r.Applied, r.ListKey, r.Source, r.Target)
	}
}
