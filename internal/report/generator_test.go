package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/coa-xml/internal/converter"
	"fjacquet/coa-xml/internal/hierarchy"
	"fjacquet/coa-xml/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleSummary() *Summary {
	return NewSummary("types.csv", "cuentas.csv", "out.xml", converter.Report{
		Report: hierarchy.Report{
			AccountTypes: 2,
			Accounts:     3,
			Renamed:      []hierarchy.Rename{{Line: 4, Original: "varios", Renamed: "varios_23"}},
		},
		Records:  6,
		Bytes:    1024,
		Duration: 1500 * time.Millisecond,
	})
}

func TestNewSummary(t *testing.T) {
	s := sampleSummary()
	assert.Equal(t, 2, s.AccountTypes)
	assert.Equal(t, 3, s.Accounts)
	assert.Equal(t, 6, s.Records)
	assert.Equal(t, "1.5s", s.Duration)
	assert.Equal(t, []Rename{{Line: 4, Original: "varios", Renamed: "varios_23"}}, s.Renamed)

	empty := NewSummary("a", "b", "c", converter.Report{})
	assert.NotNil(t, empty.Renamed, "renamed renders as an empty list")
	assert.Empty(t, empty.Duration)
}

func TestGenerator_Generate_JSON(t *testing.T) {
	g := NewGenerator(logging.NewMockLogger())

	data, err := g.Generate(sampleSummary(), FormatJSON)
	require.NoError(t, err)

	var decoded Summary
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *sampleSummary(), decoded)
	assert.Contains(t, string(data), `"renamed": "varios_23"`)
}

func TestGenerator_Generate_YAML(t *testing.T) {
	g := NewGenerator(nil)

	data, err := g.Generate(sampleSummary(), FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(data), "accounts_file: cuentas.csv")

	var decoded Summary
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, *sampleSummary(), decoded)
}

func TestGenerator_Generate_UnsupportedFormat(t *testing.T) {
	g := NewGenerator(nil)
	_, err := g.Generate(sampleSummary(), "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported report format")
}

func TestValidateFormat(t *testing.T) {
	assert.NoError(t, ValidateFormat("json"))
	assert.NoError(t, ValidateFormat("yaml"))
	assert.Error(t, ValidateFormat("JSON"))
	assert.Error(t, ValidateFormat(""))
}

func TestGenerator_WriteFile(t *testing.T) {
	logger := logging.NewMockLogger()
	g := NewGenerator(logger)
	path := filepath.Join(t.TempDir(), "reports", "summary.json")

	require.NoError(t, g.WriteFile(sampleSummary(), FormatJSON, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"records": 6`)
	assert.True(t, logger.HasEntry("INFO", "Report written"))
}
