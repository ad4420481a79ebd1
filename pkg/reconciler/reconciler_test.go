package reconciler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/iibkit/pkg/errors"
	"github.com/agentstation/iibkit/pkg/logging"
	"github.com/agentstation/iibkit/pkg/reconciler"
)

// writeJSON writes content to name inside dir and returns the path.
func writeJSON(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// readModels returns the models list of the document at path.
func readModels(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		Models []map[string]any `json:"models"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc.Models
}

func filenames(models []map[string]any) []any {
	out := make([]any, len(models))
	for i, m := range models {
		out[i] = m["filename"]
	}
	return out
}

func TestMergeUniqueIdentifierExample(t *testing.T) {
	dir := t.TempDir()
	source := writeJSON(t, dir, "source.json", `{"models":[{"filename":"a.png"},{"filename":"b.png"}]}`)
	target := writeJSON(t, dir, "target.json", `{"models":[{"filename":"a.png"}]}`)

	result, err := reconciler.Reconcile(context.Background(), source, target, reconciler.PolicyMergeUnique)
	require.NoError(t, err)

	assert.Equal(t, reconciler.StatusApplied, result.Status)
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 1, result.Duplicates)
	assert.True(t, result.Written)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.JSONEq(t, `{"models":[{"filename":"a.png"},{"filename":"b.png"}]}`, string(data))
}

func TestMergeUniqueKeepsLargeIntegerIdentifiersDistinct(t *testing.T) {
	dir := t.TempDir()
	source := writeJSON(t, dir, "source.json", `{"models":[{"filename":12345678901234567891},{"filename":12345678901234567890.0}]}`)
	target := writeJSON(t, dir, "target.json", `{"models":[{"filename":12345678901234567890}]}`)

	result, err := reconciler.Reconcile(context.Background(), source, target, reconciler.PolicyMergeUnique)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 1, result.Duplicates)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "12345678901234567890")
	assert.Contains(t, string(data), "12345678901234567891")
	assert.NotContains(t, string(data), "12345678901234567890.0")
}

func TestMergeUniqueIgnoresNonObjectTargetEntries(t *testing.T) {
	dir := t.TempDir()
	source := writeJSON(t, dir, "source.json", `{"models":[{"filename":"x","size":1.0},{"filename":"a"}]}`)
	target := writeJSON(t, dir, "target.json", `{"models":["x",{"filename":"a"}]}`)

	result, err := reconciler.Reconcile(context.Background(), source, target, reconciler.PolicyMergeUnique)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 1, result.Duplicates)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"models\": [\n        \"x\",\n        {\n            \"filename\": \"a\"\n        },\n        {\n            \"filename\": \"x\",\n            \"size\": 1.0\n        }\n    ]\n}\n", string(data))
}

func TestMergeUniqueIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	source := writeJSON(t, dir, "source.json", `{"models":[{"filename":"x.safetensors"},{"filename":"y.safetensors"}]}`)
	target := writeJSON(t, dir, "target.json", `{"models":[{"filename":"w.safetensors"}]}`)
	ctx := context.Background()

	first, err := reconciler.Reconcile(ctx, source, target, reconciler.PolicyMergeUnique)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Applied)
	afterFirst, err := os.ReadFile(target)
	require.NoError(t, err)

	second, err := reconciler.Reconcile(ctx, source, target, reconciler.PolicyMergeUnique)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Applied)
	assert.Equal(t, 2, second.Duplicates)

	afterSecond, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, string(afterFirst), string(afterSecond))
}

func TestMergeUniqueOrderPreservation(t *testing.T) {
	dir := t.TempDir()
	source := writeJSON(t, dir, "source.json", `{"models":[{"filename":"c"},{"filename":"a"},{"filename":"d"},{"filename":"d"}]}`)
	target := writeJSON(t, dir, "target.json", `{"models":[{"filename":"b"},{"filename":"a"}]}`)

	result, err := reconciler.Reconcile(context.Background(), source, target, reconciler.PolicyMergeUnique)
	require.NoError(t, err)

	assert.Equal(t, []any{"b", "a", "c", "d"}, filenames(readModels(t, target)))
	assert.Equal(t, 2, result.Applied)
	assert.Equal(t, 2, result.Duplicates, "a already in target, second d duplicates the first")
}

func TestMergeUniqueNoFilenamePassthrough(t *testing.T) {
	dir := t.TempDir()
	source := writeJSON(t, dir, "source.json", `{"models":[{"name":"anon"},{"filename":""},{"filename":null},{"filename":"a"}]}`)
	target := writeJSON(t, dir, "target.json", `{"models":[]}`)
	ctx := context.Background()

	first, err := reconciler.Reconcile(ctx, source, target, reconciler.PolicyMergeUnique)
	require.NoError(t, err)
	assert.Equal(t, 4, first.Applied)

	second, err := reconciler.Reconcile(ctx, source, target, reconciler.PolicyMergeUnique)
	require.NoError(t, err)
	assert.Equal(t, 3, second.Applied, "entries with falsy filename are appended again")

	models := readModels(t, target)
	assert.Len(t, models, 7)
}

func TestMergeUniqueInitializesMissingList(t *testing.T) {
	dir := t.TempDir()
	source := writeJSON(t, dir, "source.json", `{"models":[{"filename":"a"}]}`)
	target := writeJSON(t, dir, "target.json", `{"theme":"dark","size":1.50}`)

	_, err := reconciler.Reconcile(context.Background(), source, target, reconciler.PolicyMergeUnique)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"theme\": \"dark\",\n    \"size\": 1.50,\n    \"models\": [\n        {\n            \"filename\": \"a\"\n        }\n    ]\n}\n", string(data))
}

func TestMergeUniqueRejectsNonObjectSourceEntry(t *testing.T) {
	dir := t.TempDir()
	source := writeJSON(t, dir, "source.json", `{"models":["a.png"]}`)
	original := `{"models":[]}`
	target := writeJSON(t, dir, "target.json", original)

	_, err := reconciler.Reconcile(context.Background(), source, target, reconciler.PolicyMergeUnique)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestPrependAll(t *testing.T) {
	dir := t.TempDir()
	source := writeJSON(t, dir, "source.json", `{"models":[{"filename":"a"},{"filename":"b"}]}`)
	target := writeJSON(t, dir, "target.json", `{"models":[{"filename":"a"},{"filename":"z"}],"keep":true}`)
	ctx := context.Background()

	first, err := reconciler.Reconcile(ctx, source, target, reconciler.PolicyPrependAll)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Applied)
	assert.Equal(t, []any{"a", "b", "a", "z"}, filenames(readModels(t, target)))

	second, err := reconciler.Reconcile(ctx, source, target, reconciler.PolicyPrependAll)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Applied)
	assert.Equal(t, []any{"a", "b", "a", "b", "a", "z"}, filenames(readModels(t, target)),
		"prepend-all is not idempotent")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"keep": true`)
}

func TestPrependAllKeepsNonObjectEntries(t *testing.T) {
	dir := t.TempDir()
	source := writeJSON(t, dir, "source.json", `{"models":["raw", 1]}`)
	target := writeJSON(t, dir, "target.json", `{}`)

	result, err := reconciler.Reconcile(context.Background(), source, target, reconciler.PolicyPrependAll)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Applied)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.JSONEq(t, `{"models":["raw",1]}`, string(data))
}

func TestMissingListIsNoop(t *testing.T) {
	for _, sourceDoc := range []string{`{"other": 1}`, `{"models": {"filename": "a"}}`, `{"models": null}`} {
		t.Run(sourceDoc, func(t *testing.T) {
			dir := t.TempDir()
			source := writeJSON(t, dir, "source.json", sourceDoc)
			original := "{\"models\":[{\"filename\":\"a\"}],  \"x\": 1}"
			target := writeJSON(t, dir, "target.json", original)

			for _, policy := range reconciler.Policies() {
				result, err := reconciler.Reconcile(context.Background(), source, target, policy)
				require.NoError(t, err)
				assert.Equal(t, reconciler.StatusNoList, result.Status)
				assert.False(t, result.Written)
			}

			data, err := os.ReadFile(target)
			require.NoError(t, err)
			assert.Equal(t, original, string(data), "target must be byte-for-byte unchanged")
		})
	}
}

func TestNonObjectSourceRootIsNoop(t *testing.T) {
	for _, sourceDoc := range []string{`[{"filename":"a"}]`, `"models"`, `42`, `null`} {
		t.Run(sourceDoc, func(t *testing.T) {
			dir := t.TempDir()
			source := writeJSON(t, dir, "source.json", sourceDoc)
			original := `{"models":[]}`
			target := writeJSON(t, dir, "target.json", original)

			for _, policy := range reconciler.Policies() {
				result, err := reconciler.Reconcile(context.Background(), source, target, policy)
				require.NoError(t, err)
				assert.Equal(t, reconciler.StatusNoList, result.Status)
				assert.False(t, result.Written)
			}

			data, err := os.ReadFile(target)
			require.NoError(t, err)
			assert.Equal(t, original, string(data))
		})
	}
}

func TestNonObjectTargetRootIsParseError(t *testing.T) {
	dir := t.TempDir()
	source := writeJSON(t, dir, "source.json", `{"models":[{"filename":"a"}]}`)
	target := writeJSON(t, dir, "target.json", `[]`)

	_, err := reconciler.Reconcile(context.Background(), source, target, reconciler.PolicyMergeUnique)
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err))
}

func TestNotFound(t *testing.T) {
	dir := t.TempDir()
	existing := writeJSON(t, dir, "exists.json", `{"models":[]}`)
	missing := filepath.Join(dir, "missing.json")
	invalid := writeJSON(t, dir, "invalid.json", `{not json`)

	t.Run("source", func(t *testing.T) {
		_, err := reconciler.Reconcile(context.Background(), missing, existing, reconciler.PolicyMergeUnique)
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
		assert.Contains(t, err.Error(), "source document")
	})

	t.Run("target", func(t *testing.T) {
		_, err := reconciler.Reconcile(context.Background(), existing, missing, reconciler.PolicyMergeUnique)
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
		assert.Contains(t, err.Error(), "target document")
	})

	t.Run("missing target wins over unparsable source", func(t *testing.T) {
		_, err := reconciler.Reconcile(context.Background(), invalid, missing, reconciler.PolicyMergeUnique)
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestParseErrorLeavesTargetUntouched(t *testing.T) {
	dir := t.TempDir()
	source := writeJSON(t, dir, "source.json", `{"models":[{"filename":"a"}]}`)
	original := `{"models": [`
	target := writeJSON(t, dir, "target.json", original)

	_, err := reconciler.Reconcile(context.Background(), source, target, reconciler.PolicyMergeUnique)
	require.Error(t, err)
	assert.True(t, errors.IsParseError(err))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestTargetListMustBeArray(t *testing.T) {
	dir := t.TempDir()
	source := writeJSON(t, dir, "source.json", `{"models":[{"filename":"a"}]}`)
	target := writeJSON(t, dir, "target.json", `{"models":"oops"}`)

	_, err := reconciler.Reconcile(context.Background(), source, target, reconciler.PolicyPrependAll)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestDryRun(t *testing.T) {
	dir := t.TempDir()
	source := writeJSON(t, dir, "source.json", `{"models":[{"filename":"b"}]}`)
	original := `{"models":[{"filename":"a"}]}`
	target := writeJSON(t, dir, "target.json", original)

	var out bytes.Buffer
	result, err := reconciler.Reconcile(context.Background(), source, target, reconciler.PolicyMergeUnique,
		reconciler.WithDryRun(&out), reconciler.WithIndent("  "))
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.False(t, result.Written)
	assert.Contains(t, result.Summary(), "Would add 1 models")
	assert.JSONEq(t, `{"models":[{"filename":"a"},{"filename":"b"}]}`, out.String())

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestCustomListKeyAndIdentifier(t *testing.T) {
	dir := t.TempDir()
	source := writeJSON(t, dir, "source.json", `{"loras":[{"hash":"h1"},{"hash":"h2"}]}`)
	target := writeJSON(t, dir, "target.json", `{"loras":[{"hash":"h2"}]}`)

	result, err := reconciler.Reconcile(context.Background(), source, target, reconciler.PolicyMergeUnique,
		reconciler.WithListKey("loras"), reconciler.WithIdentifierField("hash"))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, "Added 1 loras from "+source+" to "+target, result.Summary())
}

func TestInvalidOptions(t *testing.T) {
	ctx := context.Background()

	_, err := reconciler.Reconcile(ctx, "a", "b", reconciler.Policy("append"))
	assert.True(t, errors.IsValidationError(err))

	_, err = reconciler.Reconcile(ctx, "a", "b", reconciler.PolicyMergeUnique, reconciler.WithListKey(""))
	assert.True(t, errors.IsValidationError(err))

	_, err = reconciler.Reconcile(ctx, "a", "b", reconciler.PolicyMergeUnique, reconciler.WithDryRun(nil))
	assert.True(t, errors.IsValidationError(err))
}

func TestCanceledContext(t *testing.T) {
	dir := t.TempDir()
	source := writeJSON(t, dir, "source.json", `{"models":[{"filename":"b"}]}`)
	original := `{"models":[]}`
	target := writeJSON(t, dir, "target.json", original)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := reconciler.Reconcile(ctx, source, target, reconciler.PolicyMergeUnique)
	assert.ErrorIs(t, err, context.Canceled)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestReconcileLogsNoList(t *testing.T) {
	dir := t.TempDir()
	source := writeJSON(t, dir, "source.json", `{}`)
	target := writeJSON(t, dir, "target.json", `{}`)

	testLogger := logging.NewTestLogger(t)
	_, err := reconciler.Reconcile(context.Background(), source, target, reconciler.PolicyMergeUnique,
		reconciler.WithLogger(testLogger.Logger))
	require.NoError(t, err)

	testLogger.AssertContains(t, "Source has no list")
}
