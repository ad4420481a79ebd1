package seed

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/iibkit/cmd/application"
	mockapp "github.com/agentstation/iibkit/internal/cmd/application"
	"github.com/agentstation/iibkit/pkg/errors"
)

func execute(t *testing.T, app application.Application, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestSeedCommand(t *testing.T) {
	project := t.TempDir()

	stdout, err := execute(t, &mockapp.Mock{}, "/data/images", "--project-path", project)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Database initialized at "+filepath.Join(project, "iib.db"), lines[0])
	assert.Equal(t, "Successfully configured default path: /data/images (walk)", lines[1])
	assert.FileExists(t, filepath.Join(project, "iib.db"))
}

func TestSeedCommandOptions(t *testing.T) {
	project := t.TempDir()

	stdout, err := execute(t, &mockapp.Mock{}, "/imgs", "--project-path", project, "--mode", "scanned-fixed", "--db-name", "other.db")
	require.NoError(t, err)
	assert.Contains(t, stdout, "other.db")
	assert.Contains(t, stdout, "(scanned-fixed)")
}

func TestSeedCommandYAML(t *testing.T) {
	project := t.TempDir()
	app := &mockapp.Mock{OutputFormatFunc: func() string { return "yaml" }}

	stdout, err := execute(t, app, "/imgs", "--project-path", project)
	require.NoError(t, err)
	assert.Contains(t, stdout, "snapshot_key: workspace_snapshot_")
	assert.Contains(t, stdout, "mode: walk")
}

func TestSeedCommandMissingProject(t *testing.T) {
	_, err := execute(t, &mockapp.Mock{}, "/imgs", "--project-path", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestSeedCommandInvalidMode(t *testing.T) {
	_, err := execute(t, &mockapp.Mock{}, "/imgs", "--project-path", t.TempDir(), "--mode", "browse")
	assert.True(t, errors.IsValidationError(err))
}

func TestSeedCommandProjectPathFromConfig(t *testing.T) {
	project := t.TempDir()
	app := &mockapp.Mock{DefaultsFunc: func() application.Defaults {
		return application.Defaults{ProjectPath: project}
	}}

	stdout, err := execute(t, app, "/imgs")
	require.NoError(t, err)
	assert.Contains(t, stdout, filepath.Join(project, "iib.db"))
}

func TestSeedCommandArgs(t *testing.T) {
	_, err := execute(t, &mockapp.Mock{}, "--project-path", t.TempDir())
	assert.Error(t, err)
}
