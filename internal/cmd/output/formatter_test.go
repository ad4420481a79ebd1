package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string `json:"name"`
	Count   int    `json:"item_count"`
	private string
	Skipped string `json:"-"`
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":      FormatText,
		"JSON":  FormatJSON,
		"yaml":  FormatYAML,
		"table": FormatTable,
		"text":  FormatText,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter(FormatJSON).Format(&buf, sample{Name: "a<b", Count: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"a<b","item_count":2}`, buf.String())
	assert.Contains(t, buf.String(), "a<b", "HTML characters are not escaped")
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter(FormatYAML).Format(&buf, map[string]any{"items": []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, "items:\n- a\n- b\n", buf.String())
}

func TestTableFormatterStruct(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter(FormatTable).Format(&buf, &sample{Name: "x", Count: 3, private: "hidden"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, strings.ToUpper(out), "PROPERTY")
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "Item Count")
	assert.Contains(t, out, "3")
	assert.NotContains(t, out, "Skipped")
}

func TestTableFormatterSlice(t *testing.T) {
	var buf bytes.Buffer
	err := NewFormatter(FormatTable).Format(&buf, []*sample{{Name: "a", Count: 1}, {Name: "b", Count: 2}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, strings.ToUpper(out), "NAME")
	assert.Contains(t, out, "a")
	assert.Contains(t, out, "b")
}

func TestTableFormatterData(t *testing.T) {
	var buf bytes.Buffer
	data := Data{
		Headers:         []string{"Policy", "Description"},
		Rows:            [][]string{{"merge-unique", "dedupe"}},
		ColumnAlignment: []Align{AlignLeft, AlignDefault},
	}
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, data))
	assert.Contains(t, buf.String(), "merge-unique")
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, map[string]int{"a": 1}))
	assert.JSONEq(t, `{"a":1}`, buf.String())
}
