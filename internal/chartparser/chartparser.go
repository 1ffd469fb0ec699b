// Package chartparser turns the loosely typed source tables into validated
// account type and account rows. Every check on a row happens here, once,
// so the hierarchy builder only sees well-formed records.
package chartparser

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"fjacquet/coa-xml/internal/common"
	"fjacquet/coa-xml/internal/logging"
	"fjacquet/coa-xml/internal/models"
	"fjacquet/coa-xml/internal/parsererror"

	"github.com/go-playground/validator/v10"
)

// Column names of the account types source.
const (
	ColTypeName     = "name"
	ColTypeID       = "id"
	ColTypeSequence = "sequence"
	ColTypeParent   = "parent"
)

// Column names of the accounts source.
const (
	ColGroup       = "GRUPO"
	ColCode        = "NUMERO"
	ColClass       = "clase"
	ColDescription = "DESCRIPCION"
	ColDeferral    = "aplazar"
	ColReconcile   = "conciliar"
	ColType        = "tipo"
)

// TypeColumns lists the header every account types source must carry.
var TypeColumns = []string{ColTypeName, ColTypeID, ColTypeSequence, ColTypeParent}

// AccountColumns lists the header every accounts source must carry.
var AccountColumns = []string{ColGroup, ColCode, ColClass, ColDescription, ColDeferral, ColReconcile, ColType}

// AccountTypeCSVRow is one raw row of the account types source.
type AccountTypeCSVRow struct {
	Name     string `csv:"name" validate:"required"`
	ID       string `csv:"id"`
	Sequence string `csv:"sequence" validate:"required"`
	Parent   string `csv:"parent"`
}

// AccountCSVRow is one raw row of the accounts source.
type AccountCSVRow struct {
	Group       string `csv:"GRUPO" validate:"required"`
	Code        string `csv:"NUMERO" validate:"required"`
	Class       string `csv:"clase" validate:"required"`
	Description string `csv:"DESCRIPCION" validate:"required"`
	Deferral    string `csv:"aplazar"`
	Reconcile   string `csv:"conciliar"`
	Type        string `csv:"tipo"`
}

var (
	trueWords  = map[string]bool{"x": true, "si": true, "sí": true, "s": true, "yes": true, "y": true, "true": true, "1": true, "verdadero": true}
	falseWords = map[string]bool{"no": true, "n": true, "false": true, "0": true, "falso": true}
)

// Parser validates source tables.
type Parser struct {
	validate *validator.Validate
	logger   logging.Logger
}

// NewParser returns a Parser. A nil logger discards output.
func NewParser(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.Discard()
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report the source column name rather than the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("csv")
	})
	return &Parser{validate: v, logger: logger}
}

// ParseAccountTypes validates the account types table.
func (p *Parser) ParseAccountTypes(table *common.Table) ([]models.AccountTypeRow, error) {
	if err := table.Require(TypeColumns...); err != nil {
		return nil, err
	}
	raw, err := common.Decode[AccountTypeCSVRow](table)
	if err != nil {
		return nil, err
	}

	rows := make([]models.AccountTypeRow, 0, len(raw))
	for i, r := range raw {
		loc := table.Location(i)
		r = AccountTypeCSVRow{
			Name:     strings.TrimSpace(r.Name),
			ID:       strings.TrimSpace(r.ID),
			Sequence: strings.TrimSpace(r.Sequence),
			Parent:   strings.TrimSpace(r.Parent),
		}
		if err := p.check(loc, r); err != nil {
			return nil, err
		}

		seq, err := strconv.Atoi(r.Sequence)
		if err != nil {
			return nil, &parsererror.MalformedRowError{
				Location: loc,
				Column:   ColTypeSequence,
				Value:    r.Sequence,
				Reason:   "must be an integer",
				Err:      err,
			}
		}

		rows = append(rows, models.AccountTypeRow{
			Name:     r.Name,
			ID:       r.ID,
			Sequence: seq,
			Parent:   r.Parent,
			Line:     loc.Line,
		})
	}

	p.logger.Debug("Parsed account types",
		logging.F(logging.FieldSource, table.Source),
		logging.F(logging.FieldCount, len(rows)))
	return rows, nil
}

// ParseAccounts validates the accounts table.
func (p *Parser) ParseAccounts(table *common.Table) ([]models.AccountRow, error) {
	if err := table.Require(AccountColumns...); err != nil {
		return nil, err
	}
	raw, err := common.Decode[AccountCSVRow](table)
	if err != nil {
		return nil, err
	}

	rows := make([]models.AccountRow, 0, len(raw))
	for i, r := range raw {
		row, err := p.parseAccount(table.Location(i), r)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	p.logger.Debug("Parsed accounts",
		logging.F(logging.FieldSource, table.Source),
		logging.F(logging.FieldCount, len(rows)))
	return rows, nil
}

func (p *Parser) parseAccount(loc parsererror.Location, r AccountCSVRow) (models.AccountRow, error) {
	r = AccountCSVRow{
		Group:       strings.TrimSpace(r.Group),
		Code:        strings.TrimSpace(r.Code),
		Class:       strings.TrimSpace(r.Class),
		Description: strings.TrimSpace(r.Description),
		Deferral:    strings.TrimSpace(r.Deferral),
		Reconcile:   strings.TrimSpace(r.Reconcile),
		Type:        strings.TrimSpace(r.Type),
	}
	if err := p.check(loc, r); err != nil {
		return models.AccountRow{}, err
	}

	kind, ok := models.KindForLabel(r.Class)
	if !ok {
		return models.AccountRow{}, &parsererror.UnknownClassificationError{Location: loc, Label: r.Class, Accepted: models.KindLabels()}
	}

	if err := checkGroup(r.Group); err != nil {
		return models.AccountRow{}, &parsererror.MalformedRowError{
			Location: loc, Column: ColGroup, Value: r.Group, Reason: err.Error(),
		}
	}

	deferral, err := parseFlag(loc, ColDeferral, r.Deferral)
	if err != nil {
		return models.AccountRow{}, err
	}
	reconcile, err := parseFlag(loc, ColReconcile, r.Reconcile)
	if err != nil {
		return models.AccountRow{}, err
	}

	if !kind.IsView() && r.Type == "" {
		return models.AccountRow{}, &parsererror.MalformedRowError{
			Location: loc, Column: ColType, Reason: fmt.Sprintf("is required for %s accounts", kind),
		}
	}

	return models.AccountRow{
		Group:       r.Group,
		Code:        r.Code,
		KindLabel:   r.Class,
		Kind:        kind,
		Description: r.Description,
		Deferral:    deferral,
		Reconcile:   reconcile,
		TypeName:    r.Type,
		Line:        loc.Line,
	}, nil
}

// check runs the struct tag validation and converts the first failure into
// a MalformedRowError.
func (p *Parser) check(loc parsererror.Location, row interface{}) error {
	err := p.validate.Struct(row)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		reason := fmt.Sprintf("failed %q check", fe.Tag())
		if fe.Tag() == "required" {
			reason = "is required"
		}
		return &parsererror.MalformedRowError{
			Location: loc,
			Column:   fe.Field(),
			Value:    fmt.Sprint(fe.Value()),
			Reason:   reason,
		}
	}
	return &parsererror.MalformedRowError{Location: loc, Reason: "row failed validation", Err: err}
}

// checkGroup accepts dotted paths such as "1", "1.2" or "1.2.3".
func checkGroup(group string) error {
	for _, seg := range strings.Split(group, ".") {
		if strings.TrimSpace(seg) == "" {
			return errors.New("group path has an empty segment")
		}
	}
	return nil
}

func parseFlag(loc parsererror.Location, column, value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	w := strings.ToLower(value)
	switch {
	case trueWords[w]:
		return true, nil
	case falseWords[w]:
		return false, nil
	}
	return false, &parsererror.MalformedRowError{
		Location: loc,
		Column:   column,
		Value:    value,
		Reason:   "is not a recognised yes/no marker",
	}
}
