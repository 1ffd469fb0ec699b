// Package hierarchy builds the ordered record document from validated
// account type and account rows.
//
// A Builder owns every registry used during the single forward pass (issued
// identifiers, type names, group paths), so independent conversions never
// share state.
package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fjacquet/coa-xml/internal/logging"
	"fjacquet/coa-xml/internal/models"
	"fjacquet/coa-xml/internal/parsererror"
	"fjacquet/coa-xml/internal/textutils"
)

// DefaultRootName is the name given to the synthetic account root.
const DefaultRootName = "Plan Contable Argentino para Cooperativas"

// DefaultRootType is the account type id the synthetic root refers to.
const DefaultRootType = "ar"

// Options configures a Builder.
type Options struct {
	// TypesSource and AccountsSource name the inputs in error locations.
	TypesSource    string
	AccountsSource string
	// RootName and RootType describe the synthetic root. An empty RootType
	// omits the root's type field.
	RootName string
	RootType string
	Logger   logging.Logger
}

// Rename records an account identifier that had to be disambiguated.
type Rename struct {
	Line     int
	Original string
	Renamed  string
}

// Report summarises a build.
type Report struct {
	AccountTypes int
	Accounts     int
	Renamed      []Rename
}

// entry is a registered type name or group path and the line that declared
// it.
type entry struct {
	id   string
	line int
}

// Builder assembles a Document in one forward pass: account types first,
// then the root, then accounts. It is not safe for concurrent use.
type Builder struct {
	opts   Options
	logger logging.Logger

	doc       *models.Document
	typeIDs   map[string]entry // lower-cased type name
	groups    map[string]entry
	rootAdded bool
	report    Report
}

// NewBuilder returns an empty Builder.
func NewBuilder(opts Options) *Builder {
	if opts.RootName == "" {
		opts.RootName = DefaultRootName
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Builder{
		opts:    opts,
		logger:  logger,
		doc:     models.NewDocument(),
		typeIDs: make(map[string]entry),
		groups:  make(map[string]entry),
	}
}

// AddAccountType registers an account type record. Its parent, when set,
// must be the id of a type added earlier.
func (b *Builder) AddAccountType(row models.AccountTypeRow) error {
	loc := parsererror.Location{Source: b.opts.TypesSource, Line: row.Line}
	if b.rootAdded {
		return fmt.Errorf("%s: account type %q added after the account root", loc, row.Name)
	}

	id := row.ID
	if id == "" {
		token := textutils.Sanitize(row.Name)
		if token == "" {
			return &parsererror.MalformedRowError{
				Location: loc,
				Column:   "name",
				Value:    row.Name,
				Reason:   "does not produce a usable identifier",
			}
		}
		id = models.TypeIDPrefix + token
	}
	if id == models.RootID || b.doc.Has(id) {
		return &parsererror.DuplicateIdentifierError{Location: loc, Identifier: id}
	}
	key := textutils.LookupKey(row.Name)
	if first, seen := b.typeIDs[key]; seen {
		return &parsererror.DuplicateTypeNameError{Location: loc, Name: row.Name, FirstLine: first.line}
	}

	fields := []models.Field{
		{Name: "name", Value: models.Literal(row.Name)},
		{Name: "sequence", Value: models.Numeric(row.Sequence)},
	}
	if row.Parent != "" {
		parent, ok := b.doc.Lookup(row.Parent)
		if !ok || parent.Model != models.ModelAccountTypeTemplate {
			return &parsererror.UnresolvedParentError{Location: loc, Identifier: id, Parent: row.Parent}
		}
		fields = append(fields, models.Field{Name: "parent", Value: models.Reference(row.Parent)})
	}

	if err := b.appendNode(loc, models.Node{ID: id, Model: models.ModelAccountTypeTemplate, Fields: fields}); err != nil {
		return err
	}
	b.typeIDs[key] = entry{id: id, line: row.Line}
	b.report.AccountTypes++

	b.logger.Debug("Registered account type",
		logging.F(logging.FieldIdentifier, id),
		logging.F(logging.FieldLine, row.Line))
	return nil
}

// AddRoot appends the synthetic account root. It is called automatically
// by the first AddAccount; calling it twice is an error.
func (b *Builder) AddRoot() error {
	if b.rootAdded {
		return errors.New("account root already added")
	}
	fields := []models.Field{
		{Name: "name", Value: models.Literal(b.opts.RootName)},
		{Name: "kind", Value: models.Literal(models.KindView.String())},
	}
	if b.opts.RootType != "" {
		fields = append(fields, models.Field{Name: "type", Value: models.Reference(b.opts.RootType)})
	}
	if !b.doc.Append(models.Node{ID: models.RootID, Model: models.ModelAccountTemplate, Fields: fields}) {
		return &parsererror.DuplicateIdentifierError{Identifier: models.RootID}
	}
	b.rootAdded = true
	return nil
}

// AddAccount registers an account record under the node last registered
// for its parent group.
func (b *Builder) AddAccount(row models.AccountRow) error {
	if !b.rootAdded {
		if err := b.AddRoot(); err != nil {
			return err
		}
	}
	loc := parsererror.Location{Source: b.opts.AccountsSource, Line: row.Line}

	kind := row.Kind
	if kind == "" {
		k, ok := models.KindForLabel(row.KindLabel)
		if !ok {
			return &parsererror.UnknownClassificationError{Location: loc, Label: row.KindLabel, Accepted: models.KindLabels()}
		}
		kind = k
	}

	if first, seen := b.groups[row.Group]; seen {
		return &parsererror.DuplicateGroupError{Location: loc, Group: row.Group, FirstLine: first.line}
	}
	id, err := b.accountID(loc, row)
	if err != nil {
		return err
	}
	parent, err := b.parentFor(loc, row.Group, id)
	if err != nil {
		return err
	}

	code := row.Code
	if kind.IsView() {
		code += models.ViewCodeMarker
	}

	fields := []models.Field{
		{Name: "name", Value: models.Literal(row.Description)},
		{Name: "code", Value: models.Literal(code)},
	}
	if row.Deferral {
		fields = append(fields, models.Field{Name: "deferral", Value: models.Boolean(true)})
	}
	if row.Reconcile {
		fields = append(fields, models.Field{Name: "reconcile", Value: models.Boolean(true)})
	}
	fields = append(fields, models.Field{Name: "kind", Value: models.Literal(kind.String())})
	if !kind.IsView() {
		typ, ok := b.typeIDs[textutils.LookupKey(row.TypeName)]
		if !ok {
			return &parsererror.UnknownAccountTypeError{Location: loc, TypeName: row.TypeName}
		}
		fields = append(fields, models.Field{Name: "type", Value: models.Reference(typ.id)})
	}
	fields = append(fields, models.Field{Name: "parent", Value: models.Reference(parent)})

	if err := b.appendNode(loc, models.Node{ID: id, Model: models.ModelAccountTemplate, Fields: fields}); err != nil {
		return err
	}
	b.groups[row.Group] = entry{id: id, line: row.Line}
	b.report.Accounts++
	return nil
}

// accountID derives the identifier from the description. A collision is
// resolved by appending the sanitized account code; a second collision is
// fatal.
func (b *Builder) accountID(loc parsererror.Location, row models.AccountRow) (string, error) {
	id := textutils.Sanitize(row.Description)
	if id == "" {
		return "", &parsererror.MalformedRowError{
			Location: loc,
			Column:   "DESCRIPCION",
			Value:    row.Description,
			Reason:   "does not produce a usable identifier",
		}
	}
	if !b.doc.Has(id) {
		return id, nil
	}

	suffix := textutils.Sanitize(row.Code)
	if suffix == "" {
		return "", &parsererror.MalformedRowError{
			Location: loc,
			Column:   "NUMERO",
			Value:    row.Code,
			Reason:   "does not produce a usable identifier suffix",
		}
	}
	renamed := id + "_" + suffix
	if b.doc.Has(renamed) {
		return "", &parsererror.DuplicateIdentifierError{Location: loc, Identifier: id}
	}

	b.logger.Warn("Duplicated account name, using code suffix",
		logging.F(logging.FieldLine, row.Line),
		logging.F(logging.FieldIdentifier, id),
		logging.F(logging.FieldRenamedTo, renamed))
	b.report.Renamed = append(b.report.Renamed, Rename{Line: row.Line, Original: id, Renamed: renamed})
	return renamed, nil
}

// parentFor resolves the parent of group: the root for a single segment,
// otherwise the node registered for the group minus its last segment.
func (b *Builder) parentFor(loc parsererror.Location, group, id string) (string, error) {
	i := strings.LastIndex(group, ".")
	if i < 0 {
		return models.RootID, nil
	}
	parentGroup := group[:i]
	entry, ok := b.groups[parentGroup]
	if !ok {
		return "", &parsererror.UnresolvedParentError{Location: loc, Identifier: id, Parent: parentGroup}
	}
	return entry.id, nil
}

// appendNode stores n, refusing an identifier the document already holds.
func (b *Builder) appendNode(loc parsererror.Location, n models.Node) error {
	if !b.doc.Append(n) {
		return &parsererror.DuplicateIdentifierError{Location: loc, Identifier: n.ID}
	}
	return nil
}

// Document returns the document built so far.
func (b *Builder) Document() *models.Document {
	return b.doc
}

// Report returns the build summary.
func (b *Builder) Report() Report {
	r := b.report
	r.Renamed = append([]Rename(nil), b.report.Renamed...)
	return r
}

// Build runs a complete pass over both row sets. The root is emitted even
// when there are no accounts. ctx is checked between rows.
func Build(ctx context.Context, types []models.AccountTypeRow, accounts []models.AccountRow, opts Options) (*models.Document, Report, error) {
	b := NewBuilder(opts)
	for _, row := range types {
		if err := ctx.Err(); err != nil {
			return nil, Report{}, err
		}
		if err := b.AddAccountType(row); err != nil {
			return nil, Report{}, err
		}
	}
	if err := b.AddRoot(); err != nil {
		return nil, Report{}, err
	}
	for _, row := range accounts {
		if err := ctx.Err(); err != nil {
			return nil, Report{}, err
		}
		if err := b.AddAccount(row); err != nil {
			return nil, Report{}, err
		}
	}
	return b.Document(), b.Report(), nil
}
