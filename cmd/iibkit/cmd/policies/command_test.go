package policies

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mockapp "github.com/agentstation/iibkit/internal/cmd/application"
)

func TestPoliciesTable(t *testing.T) {
	cmd := NewCommand(&mockapp.Mock{})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "merge-unique (default)")
	assert.Contains(t, out.String(), "prepend-all")
	assert.Contains(t, out.String(), "Prepend All")
}

func TestPoliciesJSON(t *testing.T) {
	cmd := NewCommand(&mockapp.Mock{OutputFormatFunc: func() string { return "json" }})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())

	var infos []Info
	require.NoError(t, json.Unmarshal(out.Bytes(), &infos))
	require.Len(t, infos, 2)
	assert.Equal(t, "merge-unique", infos[0].Policy)
	assert.True(t, infos[0].Default)
	assert.False(t, infos[1].Default)
}
