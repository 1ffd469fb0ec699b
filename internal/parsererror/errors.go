// Package parsererror defines the failures a chart conversion can end with.
// Every error names the source and line so the spreadsheet can be fixed.
package parsererror

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is matching. The typed errors below unwrap to them.
var (
	ErrUnknownClassification = errors.New("unknown classification")
	ErrDuplicateIdentifier   = errors.New("duplicate identifier")
	ErrUnresolvedParent      = errors.New("unresolved parent")
	ErrMalformedRow          = errors.New("malformed row")
	ErrDuplicateGroup        = errors.New("duplicate group")
	ErrVerification          = errors.New("document verification failed")
)

// Location points at a row of an input source. Line is the 1-based line in
// the source, the header being line 1.
type Location struct {
	Source string
	Line   int
}

func (l Location) String() string {
	if l.Source == "" {
		return fmt.Sprintf("line %d", l.Line)
	}
	return fmt.Sprintf("%s:%d", l.Source, l.Line)
}

// UnknownClassificationError is returned when an account's class label has
// no entry in the label table.
type UnknownClassificationError struct {
	Location
	Label    string
	Accepted []string
}

func (e *UnknownClassificationError) Error() string {
	msg := fmt.Sprintf("%s: unknown account classification %q", e.Location, e.Label)
	if len(e.Accepted) > 0 {
		msg += " (accepted: " + strings.Join(e.Accepted, ", ") + ")"
	}
	return msg
}

func (e *UnknownClassificationError) Unwrap() error { return ErrUnknownClassification }

// DuplicateIdentifierError is returned when a record id is issued twice and
// cannot be disambiguated.
type DuplicateIdentifierError struct {
	Location
	Identifier string
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("%s: identifier %q is already used by another record", e.Location, e.Identifier)
}

func (e *DuplicateIdentifierError) Unwrap() error { return ErrDuplicateIdentifier }

// UnresolvedParentError is returned when a row refers to a parent that was
// not declared before it.
type UnresolvedParentError struct {
	Location
	Identifier string
	Parent     string
}

func (e *UnresolvedParentError) Error() string {
	return fmt.Sprintf("%s: parent %q of %q is not declared before it", e.Location, e.Parent, e.Identifier)
}

func (e *UnresolvedParentError) Unwrap() error { return ErrUnresolvedParent }

// UnknownAccountTypeError is returned when a postable account names an
// account type that the types source never declared. It is a referential
// failure and matches ErrUnresolvedParent.
type UnknownAccountTypeError struct {
	Location
	TypeName string
}

func (e *UnknownAccountTypeError) Error() string {
	return fmt.Sprintf("%s: account type %q is not declared in the types source", e.Location, e.TypeName)
}

func (e *UnknownAccountTypeError) Unwrap() error { return ErrUnresolvedParent }

// MalformedRowError is returned when a required column is missing, empty or
// cannot be parsed.
type MalformedRowError struct {
	Location
	Column string
	Value  string
	Reason string
	Err    error
}

func (e *MalformedRowError) Error() string {
	msg := e.Location.String()
	if e.Column != "" {
		msg += fmt.Sprintf(": column %q", e.Column)
	}
	if e.Value != "" {
		msg += fmt.Sprintf(" value %q", e.Value)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedRowError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedRow, e.Err}
	}
	return []error{ErrMalformedRow}
}

// DuplicateGroupError is returned when two accounts declare the same group
// path. The second declaration would make later parent lookups ambiguous.
type DuplicateGroupError struct {
	Location
	Group     string
	FirstLine int
}

func (e *DuplicateGroupError) Error() string {
	return fmt.Sprintf("%s: group %q was already declared on line %d", e.Location, e.Group, e.FirstLine)
}

func (e *DuplicateGroupError) Unwrap() error { return ErrDuplicateGroup }

// DuplicateTypeNameError is returned when two account type rows share a
// name, compared case-insensitively. Accounts select their type by name, so
// the second row would make that lookup ambiguous.
type DuplicateTypeNameError struct {
	Location
	Name      string
	FirstLine int
}

func (e *DuplicateTypeNameError) Error() string {
	return fmt.Sprintf("%s: account type name %q was already declared on line %d", e.Location, e.Name, e.FirstLine)
}

func (e *DuplicateTypeNameError) Unwrap() error { return ErrDuplicateIdentifier }

// VerificationError describes an inconsistency found in a serialized document.
type VerificationError struct {
	FilePath string
	Record   string
	Reason   string
}

func (e *VerificationError) Error() string {
	msg := e.Reason
	if e.Record != "" {
		msg = fmt.Sprintf("record %q: %s", e.Record, msg)
	}
	if e.FilePath != "" {
		msg = e.FilePath + ": " + msg
	}
	return msg
}

func (e *VerificationError) Unwrap() error { return ErrVerification }
