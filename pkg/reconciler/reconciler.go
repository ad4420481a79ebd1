// Package reconciler combines a named list from a source JSON document into
// a target JSON document under a selectable policy.
//
// The target is rewritten atomically and only on success; the source is
// never modified. Two runs against the same target at once race and the
// last writer wins.
package reconciler

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"

	"github.com/agentstation/iibkit/pkg/document"
	"github.com/agentstation/iibkit/pkg/errors"
	"github.com/agentstation/iibkit/pkg/logging"
	"github.com/agentstation/iibkit/pkg/save"
)

// Reconcile merges the list held by sourcePath into targetPath using policy.
//
// A missing file yields a NotFoundError before either file is parsed. A
// source without the list, including valid JSON whose root is not an object,
// is a successful no-op with StatusNoList. Parse and write failures are
// returned and leave the target untouched.
func Reconcile(ctx context.Context, sourcePath, targetPath string, policy Policy, opts ...Option) (*Result, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	if !policy.IsValid() {
		return nil, errors.NewValidationError("policy", string(policy), "unsupported policy")
	}

	logger := o.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	if err := exists("source document", sourcePath); err != nil {
		return nil, err
	}
	if err := exists("target document", targetPath); err != nil {
		return nil, err
	}

	source, err := document.Load(sourcePath)
	if err != nil && !errors.Is(err, document.ErrRootNotObject) {
		return nil, err
	}
	target, err := document.Load(targetPath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{
		Policy:  policy,
		Source:  sourcePath,
		Target:  targetPath,
		ListKey: o.listKey,
	}

	var (
		sourceList []json.RawMessage
		ok         bool
	)
	if source != nil {
		sourceList, ok = source.List(o.listKey)
	}
	if !ok {
		result.Status = StatusNoList
		logger.Info().
			Str("source", sourcePath).
			Str("list_key", o.listKey).
			Msg("Source has no list, nothing to reconcile")
		return result, nil
	}

	targetList := []json.RawMessage{}
	if target.Has(o.listKey) {
		targetList, ok = target.List(o.listKey)
		if !ok {
			return nil, errors.NewValidationError(o.listKey, targetPath, "target value must be a list")
		}
	}

	out, err := policy.apply(sourceList, targetList, o.idField)
	if err != nil {
		return nil, err
	}
	if err := target.SetList(o.listKey, out.list); err != nil {
		return nil, err
	}

	result.Status = StatusApplied
	result.Applied = out.applied
	result.Duplicates = out.duplicates
	result.SourceCount = len(sourceList)
	result.TargetBefore = len(targetList)
	result.TargetAfter = len(out.list)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if o.dryRun != nil {
		result.DryRun = true
		if err := document.Save(target, save.WithWriter(o.dryRun), save.WithIndent(o.indent)); err != nil {
			return nil, err
		}
	} else {
		if err := document.Save(target, save.WithPath(targetPath), save.WithIndent(o.indent)); err != nil {
			return nil, err
		}
		result.Written = true
	}

	logger.Debug().
		Str("policy", policy.String()).
		Str("target", targetPath).
		Int("applied", result.Applied).
		Int("duplicates", result.Duplicates).
		Int("target_after", result.TargetAfter).
		Bool("dry_run", result.DryRun).
		Msg("Reconciled list")

	return result, nil
}

// exists reports a NotFoundError for a missing path; other stat failures
// are left for the read to report.
func exists(role, path string) error {
	if _, err := os.Stat(path); err != nil && errors.Is(err, fs.ErrNotExist) {
		return errors.NewNotFoundError(role, path)
	}
	return nil
}
