// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"errors"
	"fmt"

	"fjacquet/coa-xml/internal/converter"
	"fjacquet/coa-xml/internal/fileutils"
	"fjacquet/coa-xml/internal/logging"
	"fjacquet/coa-xml/internal/parsererror"
	"fjacquet/coa-xml/internal/xmlutils"
)

var (
	// ErrInputNotFound is returned when a source file does not exist.
	ErrInputNotFound = errors.New("input file not found")
	// ErrMissingArgument is returned when a required path was not given.
	ErrMissingArgument = errors.New("missing required argument")
	// ErrVerificationFailed is returned when a generated document does not
	// pass verification.
	ErrVerificationFailed = errors.New("generated document failed verification")
)

// ChartConverter is the part of the converter used by the commands.
type ChartConverter interface {
	ConvertFiles(ctx context.Context, typesPath, accountsPath, outputPath string, verify bool) (converter.Report, error)
	VerifyFile(path string) (xmlutils.Summary, error)
}

// ConvertRequest names the files of one conversion.
type ConvertRequest struct {
	TypesFile    string
	AccountsFile string
	OutputFile   string
	Verify       bool
}

// ProcessFilesWithError converts the request's sources. With Verify set the
// rendered document is checked before it replaces the output file, so a
// document that fails verification never reaches disk.
func ProcessFilesWithError(ctx context.Context, conv ChartConverter, req ConvertRequest, log logging.Logger) (converter.Report, error) {
	required := []struct{ flag, path string }{
		{"--types", req.TypesFile},
		{"--accounts", req.AccountsFile},
		{"--output", req.OutputFile},
	}
	for _, r := range required {
		if r.path == "" {
			return converter.Report{}, fmt.Errorf("%w: %s", ErrMissingArgument, r.flag)
		}
	}
	for _, path := range []string{req.TypesFile, req.AccountsFile} {
		if !fileutils.FileExists(path) {
			return converter.Report{}, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
	}

	report, err := conv.ConvertFiles(ctx, req.TypesFile, req.AccountsFile, req.OutputFile, req.Verify)
	if err != nil {
		if errors.Is(err, parsererror.ErrVerification) {
			return converter.Report{}, fmt.Errorf("%w: %w", ErrVerificationFailed, err)
		}
		return converter.Report{}, fmt.Errorf("error converting chart of accounts: %w", err)
	}
	if req.Verify {
		log.Info("Verification successful.")
	}

	for _, r := range report.Renamed {
		log.Warn("Account identifier renamed",
			logging.F(logging.FieldLine, r.Line),
			logging.F(logging.FieldIdentifier, r.Original),
			logging.F(logging.FieldRenamedTo, r.Renamed))
	}
	log.Info("Conversion completed successfully!",
		logging.F(logging.FieldCount, report.Records))
	return report, nil
}

// VerifyWithError checks a previously generated document.
func VerifyWithError(conv ChartConverter, path string, log logging.Logger) (xmlutils.Summary, error) {
	if path == "" {
		return xmlutils.Summary{}, fmt.Errorf("%w: --input", ErrMissingArgument)
	}
	if !fileutils.FileExists(path) {
		return xmlutils.Summary{}, fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}

	summary, err := conv.VerifyFile(path)
	if err != nil {
		return xmlutils.Summary{}, fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}
	log.Info("Document is consistent",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, summary.Records))
	return summary, nil
}
