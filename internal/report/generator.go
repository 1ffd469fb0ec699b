// Package report renders the summary of a conversion for operators: which
// files were read and written, how many records came out, and which account
// identifiers had to be renamed.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"fjacquet/coa-xml/internal/converter"
	"fjacquet/coa-xml/internal/fileutils"
	"fjacquet/coa-xml/internal/logging"
	"fjacquet/coa-xml/internal/models"

	"gopkg.in/yaml.v3"
)

// Supported report formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Rename is one disambiguated account identifier.
type Rename struct {
	Line     int    `json:"line" yaml:"line"`
	Original string `json:"original" yaml:"original"`
	Renamed  string `json:"renamed" yaml:"renamed"`
}

// Summary is the operator-facing record of one conversion.
type Summary struct {
	TypesFile    string   `json:"types_file" yaml:"types_file"`
	AccountsFile string   `json:"accounts_file" yaml:"accounts_file"`
	OutputFile   string   `json:"output_file" yaml:"output_file"`
	AccountTypes int      `json:"account_types" yaml:"account_types"`
	Accounts     int      `json:"accounts" yaml:"accounts"`
	Records      int      `json:"records" yaml:"records"`
	Bytes        int      `json:"bytes" yaml:"bytes"`
	Duration     string   `json:"duration,omitempty" yaml:"duration,omitempty"`
	Renamed      []Rename `json:"renamed" yaml:"renamed"`
}

// NewSummary builds a Summary from a converter report.
func NewSummary(typesFile, accountsFile, outputFile string, r converter.Report) *Summary {
	s := &Summary{
		TypesFile:    typesFile,
		AccountsFile: accountsFile,
		OutputFile:   outputFile,
		AccountTypes: r.AccountTypes,
		Accounts:     r.Accounts,
		Records:      r.Records,
		Bytes:        r.Bytes,
		Renamed:      make([]Rename, 0, len(r.Renamed)),
	}
	if r.Duration > 0 {
		s.Duration = r.Duration.String()
	}
	for _, rn := range r.Renamed {
		s.Renamed = append(s.Renamed, Rename{Line: rn.Line, Original: rn.Original, Renamed: rn.Renamed})
	}
	return s
}

// ValidateFormat checks if the given format is supported.
func ValidateFormat(format string) error {
	switch format {
	case FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported report format: %s. Supported formats are 'json', 'yaml'", format)
	}
}

// Generator renders summaries.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a new instance of Generator.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Generator{logger: logger.WithField("component", "ReportGenerator")}
}

// Generate renders the summary in the given format (json or yaml).
func (g *Generator) Generate(s *Summary, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return g.generateJSON(s)
	case FormatYAML:
		return g.generateYAML(s)
	default:
		return nil, ValidateFormat(format)
	}
}

func (g *Generator) generateJSON(s *Summary) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(data, '\n'), nil
}

func (g *Generator) generateYAML(s *Summary) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return data, nil
}

// WriteFile renders the summary and writes it to path.
func (g *Generator) WriteFile(s *Summary, format, path string) error {
	data, err := g.Generate(s, format)
	if err != nil {
		return err
	}
	err = fileutils.WriteAtomic(path, models.PermissionOutputFile, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	g.logger.Info("Report written", logging.F(logging.FieldOutputFile, path))
	return nil
}
