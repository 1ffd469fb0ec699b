// Package converter runs the whole chart-of-accounts pipeline: read both
// sources, validate rows, build the record hierarchy and write the XML
// document once.
package converter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"fjacquet/coa-xml/internal/chartparser"
	"fjacquet/coa-xml/internal/common"
	"fjacquet/coa-xml/internal/fileutils"
	"fjacquet/coa-xml/internal/hierarchy"
	"fjacquet/coa-xml/internal/logging"
	"fjacquet/coa-xml/internal/models"
	"fjacquet/coa-xml/internal/trytonxml"
	"fjacquet/coa-xml/internal/xmlutils"
)

// Options configures a Converter.
type Options struct {
	Delimiter rune
	Sheet     string
	RootName  string
	RootType  string
	// Verify reads the rendered document back before it is written.
	Verify bool
}

// Sources names the two input files.
type Sources struct {
	Types    string
	Accounts string
}

// Report summarises a conversion.
type Report struct {
	hierarchy.Report
	Records  int
	Bytes    int
	Duration time.Duration
}

// Converter turns account type and account sources into a Tryton data
// document.
type Converter struct {
	opts   Options
	parser *chartparser.Parser
	logger logging.Logger
}

// New returns a Converter. A nil logger discards output.
func New(opts Options, logger logging.Logger) *Converter {
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.RootName == "" {
		opts.RootName = hierarchy.DefaultRootName
	}
	return &Converter{
		opts:   opts,
		parser: chartparser.NewParser(logger),
		logger: logger,
	}
}

// Options returns the options the converter runs with.
func (c *Converter) Options() Options {
	return c.opts
}

// Build reads and validates both sources and returns the built document.
func (c *Converter) Build(ctx context.Context, src Sources) (*models.Document, hierarchy.Report, error) {
	readOpts := common.SourceOptions{Delimiter: c.opts.Delimiter, Sheet: c.opts.Sheet}

	typesTable, err := common.LoadTable(src.Types, readOpts, c.logger)
	if err != nil {
		return nil, hierarchy.Report{}, fmt.Errorf("error reading account types: %w", err)
	}
	types, err := c.parser.ParseAccountTypes(typesTable)
	if err != nil {
		return nil, hierarchy.Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, hierarchy.Report{}, err
	}

	accountsTable, err := common.LoadTable(src.Accounts, readOpts, c.logger)
	if err != nil {
		return nil, hierarchy.Report{}, fmt.Errorf("error reading accounts: %w", err)
	}
	accounts, err := c.parser.ParseAccounts(accountsTable)
	if err != nil {
		return nil, hierarchy.Report{}, err
	}

	return hierarchy.Build(ctx, types, accounts, hierarchy.Options{
		TypesSource:    typesTable.Source,
		AccountsSource: accountsTable.Source,
		RootName:       c.opts.RootName,
		RootType:       c.opts.RootType,
		Logger:         c.logger,
	})
}

// Convert renders the document built from src and writes it to out. Nothing
// is written unless the whole document could be built.
func (c *Converter) Convert(ctx context.Context, src Sources, out io.Writer) (Report, error) {
	return c.convert(ctx, src, out, c.opts.Verify)
}

func (c *Converter) convert(ctx context.Context, src Sources, out io.Writer, verify bool) (Report, error) {
	start := time.Now()

	doc, built, err := c.Build(ctx, src)
	if err != nil {
		return Report{}, err
	}
	data, err := trytonxml.Marshal(doc)
	if err != nil {
		return Report{}, err
	}

	if verify {
		if _, err := xmlutils.VerifyDocument(bytes.NewReader(data), "generated document", c.verifyOptions()); err != nil {
			return Report{}, err
		}
	}

	if _, err := out.Write(data); err != nil {
		return Report{}, fmt.Errorf("failed to write document: %w", err)
	}

	report := Report{Report: built, Records: doc.Len(), Bytes: len(data), Duration: time.Since(start)}
	c.logger.Info("Chart of accounts converted",
		logging.F(logging.FieldCount, report.Records),
		logging.F(logging.FieldDuration, report.Duration.String()))
	if n := len(report.Renamed); n > 0 {
		c.logger.Warn("Some account identifiers were renamed", logging.F(logging.FieldCount, n))
	}
	return report, nil
}

// ConvertFiles converts the sources into outputPath. The file is replaced
// atomically, so a failed run leaves any previous document untouched. With
// verify set (or Options.Verify), the rendered document is checked before
// it replaces outputPath.
func (c *Converter) ConvertFiles(ctx context.Context, typesPath, accountsPath, outputPath string, verify bool) (Report, error) {
	c.logger.Info("Converting chart of accounts",
		logging.F(logging.FieldInputFile, accountsPath),
		logging.F(logging.FieldOutputFile, outputPath))

	var report Report
	err := fileutils.WriteAtomic(outputPath, models.PermissionOutputFile, func(w io.Writer) error {
		var err error
		report, err = c.convert(ctx, Sources{Types: typesPath, Accounts: accountsPath}, w, verify || c.opts.Verify)
		return err
	})
	if err != nil {
		return Report{}, err
	}
	return report, nil
}

// VerifyFile checks a previously generated document.
func (c *Converter) VerifyFile(path string) (xmlutils.Summary, error) {
	return xmlutils.VerifyFile(path, c.verifyOptions())
}

func (c *Converter) verifyOptions() xmlutils.VerifyOptions {
	var opts xmlutils.VerifyOptions
	if c.opts.RootType != "" {
		opts.ExternalRefs = []string{c.opts.RootType}
	}
	return opts
}
