package hierarchy

import (
	"context"
	"errors"
	"testing"

	"fjacquet/coa-xml/internal/logging"
	"fjacquet/coa-xml/internal/models"
	"fjacquet/coa-xml/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTypes() []models.AccountTypeRow {
	return []models.AccountTypeRow{
		{Name: "Argentina", ID: "ar", Sequence: 10, Line: 2},
		{Name: "Activo", Sequence: 20, Parent: "ar", Line: 3},
		{Name: "Caja y Bancos", Sequence: 30, Parent: "account_type_activo", Line: 4},
	}
}

func view(group, code, description string, line int) models.AccountRow {
	return models.AccountRow{Group: group, Code: code, KindLabel: "vista", Kind: models.KindView, Description: description, Line: line}
}

func postable(group, code, description, typeName string, line int) models.AccountRow {
	return models.AccountRow{Group: group, Code: code, KindLabel: "otro", Kind: models.KindOther, Description: description, TypeName: typeName, Line: line}
}

func fieldText(t *testing.T, n models.Node, name string) string {
	t.Helper()
	v, ok := n.Field(name)
	require.True(t, ok, "node %s has no field %s", n.ID, name)
	return v.Text()
}

func TestBuild_AccountTypes(t *testing.T) {
	doc, report, err := Build(context.Background(), sampleTypes(), nil, Options{RootType: DefaultRootType})
	require.NoError(t, err)
	assert.Equal(t, 3, report.AccountTypes)

	nodes := doc.Nodes()
	require.Len(t, nodes, 4)
	assert.Equal(t, "ar", nodes[0].ID)
	assert.Equal(t, "account_type_activo", nodes[1].ID)
	assert.Equal(t, "account_type_caja_y_bancos", nodes[2].ID)
	assert.Equal(t, models.RootID, nodes[3].ID)

	for _, n := range nodes[:3] {
		assert.Equal(t, models.ModelAccountTypeTemplate, n.Model)
	}
	_, hasParent := nodes[0].Field("parent")
	assert.False(t, hasParent)
	assert.Equal(t, "ar", nodes[1].Parent())

	seq, ok := nodes[2].Field("sequence")
	require.True(t, ok)
	assert.Equal(t, models.NumericValue, seq.Kind())
	assert.Equal(t, "30", seq.Text())
}

func TestBuild_Root(t *testing.T) {
	doc, _, err := Build(context.Background(), nil, nil, Options{RootType: "ar"})
	require.NoError(t, err)
	require.Equal(t, 1, doc.Len())

	root := doc.Nodes()[0]
	assert.Equal(t, models.RootID, root.ID)
	assert.Equal(t, models.ModelAccountTemplate, root.Model)
	assert.Equal(t, DefaultRootName, fieldText(t, root, "name"))
	assert.Equal(t, "view", fieldText(t, root, "kind"))
	typ, ok := root.Field("type")
	require.True(t, ok)
	assert.True(t, typ.IsReference())
	assert.Equal(t, "ar", typ.Text())
	assert.Empty(t, root.Parent())

	doc, _, err = Build(context.Background(), nil, nil, Options{RootName: "Plan"})
	require.NoError(t, err)
	root = doc.Nodes()[0]
	assert.Equal(t, "Plan", fieldText(t, root, "name"))
	_, ok = root.Field("type")
	assert.False(t, ok)
}

func TestBuild_GroupParents(t *testing.T) {
	accounts := []models.AccountRow{
		view("1", "1", "Activo", 2),
		postable("1.1", "1.1", "Caja", "Caja y Bancos", 3),
		postable("1.2", "1.2", "Banco Nación", "caja y bancos", 4),
		view("2", "2", "Pasivo", 5),
	}
	doc, report, err := Build(context.Background(), sampleTypes(), accounts, Options{RootType: "ar"})
	require.NoError(t, err)
	assert.Equal(t, 4, report.Accounts)
	assert.Empty(t, report.Renamed)

	parents := map[string]string{}
	for _, n := range doc.Nodes() {
		if n.Model == models.ModelAccountTemplate && n.ID != models.RootID {
			parents[n.ID] = n.Parent()
		}
	}
	assert.Equal(t, map[string]string{
		"activo":       models.RootID,
		"caja":         "activo",
		"banco_nacion": "activo",
		"pasivo":       models.RootID,
	}, parents)
}

func TestBuild_AccountFields(t *testing.T) {
	accounts := []models.AccountRow{
		view("1", "1", "Activo", 2),
		{
			Group: "1.1", Code: "1.1", KindLabel: "a cobrar", Kind: models.KindReceivable,
			Description: "Deudores", Deferral: true, Reconcile: true, TypeName: "CAJA Y BANCOS", Line: 3,
		},
	}
	doc, _, err := Build(context.Background(), sampleTypes(), accounts, Options{RootType: "ar"})
	require.NoError(t, err)

	activo, ok := doc.Lookup("activo")
	require.True(t, ok)
	assert.Equal(t, "1*", fieldText(t, activo, "code"))
	assert.Equal(t, "view", fieldText(t, activo, "kind"))
	_, hasType := activo.Field("type")
	assert.False(t, hasType)
	_, hasDeferral := activo.Field("deferral")
	assert.False(t, hasDeferral)

	deudores, ok := doc.Lookup("deudores")
	require.True(t, ok)
	var names []string
	for _, f := range deudores.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"name", "code", "deferral", "reconcile", "kind", "type", "parent"}, names)
	assert.Equal(t, "1.1", fieldText(t, deudores, "code"))
	assert.Equal(t, "True", fieldText(t, deudores, "deferral"))
	assert.Equal(t, "receivable", fieldText(t, deudores, "kind"))
	assert.Equal(t, "account_type_caja_y_bancos", fieldText(t, deudores, "type"))
}

func TestBuild_DuplicateDescriptionRenamed(t *testing.T) {
	logger := logging.NewMockLogger()
	accounts := []models.AccountRow{
		view("1", "1", "Varios", 2),
		view("2", "2", "Varios", 3),
	}
	doc, report, err := Build(context.Background(), nil, accounts, Options{Logger: logger, AccountsSource: "cuentas.csv"})
	require.NoError(t, err)

	assert.True(t, doc.Has("varios"))
	assert.True(t, doc.Has("varios_2"))
	require.Len(t, report.Renamed, 1)
	assert.Equal(t, Rename{Line: 3, Original: "varios", Renamed: "varios_2"}, report.Renamed[0])

	warns := logger.EntriesByLevel("WARN")
	require.Len(t, warns, 1)
	renamed, ok := warns[0].FieldValue(logging.FieldRenamedTo)
	require.True(t, ok)
	assert.Equal(t, "varios_2", renamed)
}

func TestBuild_RenameUsesSanitizedCode(t *testing.T) {
	accounts := []models.AccountRow{
		view("1", "1", "Varios", 2),
		view("2", "2.3", "Varios", 3),
		view("3", "3 01", "Varios", 4),
	}
	doc, report, err := Build(context.Background(), nil, accounts, Options{})
	require.NoError(t, err)

	assert.True(t, doc.Has("varios_23"))
	assert.True(t, doc.Has("varios_3_01"))
	require.Len(t, report.Renamed, 2)
	for _, n := range doc.Nodes() {
		assert.NotContains(t, n.ID, ".", "identifier %q", n.ID)
		assert.NotContains(t, n.ID, " ", "identifier %q", n.ID)
	}

	varios, ok := doc.Lookup("varios_23")
	require.True(t, ok)
	assert.Equal(t, "2.3*", fieldText(t, varios, "code"), "the code field keeps the raw code")
}

func TestBuild_DuplicateTypeName(t *testing.T) {
	types := []models.AccountTypeRow{
		{Name: "Caja", ID: "caja_a", Sequence: 1, Line: 2},
		{Name: "CAJA", ID: "caja_b", Sequence: 2, Line: 3},
	}
	_, _, err := Build(context.Background(), types, nil, Options{TypesSource: "types.csv"})
	require.ErrorIs(t, err, parsererror.ErrDuplicateIdentifier)

	var dup *parsererror.DuplicateTypeNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, 3, dup.Line)
	assert.Equal(t, 2, dup.FirstLine)
	assert.Equal(t, "types.csv", dup.Source)
}

func TestBuilder_AppendRefusesTakenIdentifier(t *testing.T) {
	b := NewBuilder(Options{AccountsSource: "cuentas.csv"})
	require.NoError(t, b.AddRoot())

	err := b.appendNode(parsererror.Location{Source: "cuentas.csv", Line: 4}, models.Node{ID: models.RootID})
	var dup *parsererror.DuplicateIdentifierError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, models.RootID, dup.Identifier)
	assert.Equal(t, 1, b.Document().Len())
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name     string
		types    []models.AccountTypeRow
		accounts []models.AccountRow
		sentinel error
	}{
		{
			name:     "unknown classification",
			accounts: []models.AccountRow{{Group: "1", Code: "1", KindLabel: "raro", Description: "X", Line: 2}},
			sentinel: parsererror.ErrUnknownClassification,
		},
		{
			name: "suffixed id still collides",
			accounts: []models.AccountRow{
				view("1", "1", "Varios", 2),
				view("2", "1", "Varios", 3),
				view("3", "1", "Varios", 4),
			},
			sentinel: parsererror.ErrDuplicateIdentifier,
		},
		{
			name:     "child before ancestor",
			accounts: []models.AccountRow{view("1.1", "1.1", "Caja", 2)},
			sentinel: parsererror.ErrUnresolvedParent,
		},
		{
			name:     "unknown account type",
			types:    sampleTypes(),
			accounts: []models.AccountRow{postable("1", "1", "Caja", "Inexistente", 2)},
			sentinel: parsererror.ErrUnresolvedParent,
		},
		{
			name:     "duplicate group",
			accounts: []models.AccountRow{view("1", "1", "Activo", 2), view("1", "1", "Pasivo", 3)},
			sentinel: parsererror.ErrDuplicateGroup,
		},
		{
			name: "code without identifier characters",
			accounts: []models.AccountRow{
				view("1", "1", "Varios", 2),
				view("2", "€", "Varios", 3),
			},
			sentinel: parsererror.ErrMalformedRow,
		},
		{
			name:     "description without identifier characters",
			accounts: []models.AccountRow{view("1", "1", "€", 2)},
			sentinel: parsererror.ErrMalformedRow,
		},
		{
			name:     "type parent not registered",
			types:    []models.AccountTypeRow{{Name: "Activo", Sequence: 1, Parent: "ar", Line: 2}},
			sentinel: parsererror.ErrUnresolvedParent,
		},
		{
			name: "type id reused",
			types: []models.AccountTypeRow{
				{Name: "Activo", Sequence: 1, Line: 2},
				{Name: "activo", Sequence: 2, Line: 3},
			},
			sentinel: parsererror.ErrDuplicateIdentifier,
		},
		{
			name:     "type id root",
			types:    []models.AccountTypeRow{{Name: "Root", ID: "root", Sequence: 1, Line: 2}},
			sentinel: parsererror.ErrDuplicateIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, _, err := Build(context.Background(), tt.types, tt.accounts, Options{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
			assert.Nil(t, doc)
		})
	}
}

func TestBuild_ErrorLocation(t *testing.T) {
	accounts := []models.AccountRow{view("1", "1", "Activo", 2), view("1.9.1", "1.9.1", "Suelto", 7)}
	_, _, err := Build(context.Background(), nil, accounts, Options{AccountsSource: "cuentas.csv"})

	var unresolved *parsererror.UnresolvedParentError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "cuentas.csv", unresolved.Source)
	assert.Equal(t, 7, unresolved.Line)
	assert.Equal(t, "1.9", unresolved.Parent)
}

func TestBuild_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Build(ctx, sampleTypes(), nil, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuild_Invariants(t *testing.T) {
	accounts := []models.AccountRow{
		view("1", "1", "Activo", 2),
		view("1.1", "1.1", "Disponibilidades", 3),
		postable("1.1.1", "1.1.1", "Caja", "Caja y Bancos", 4),
		postable("1.1.2", "1.1.2", "Caja", "Caja y Bancos", 5),
		view("2", "2", "Pasivo", 6),
		postable("2.1", "2.1", "Proveedores", "Activo", 7),
	}
	doc, _, err := Build(context.Background(), sampleTypes(), accounts, Options{RootType: "ar"})
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, n := range doc.Nodes() {
		assert.False(t, seen[n.ID], "duplicate id %s", n.ID)
		if p := n.Parent(); p != "" {
			assert.True(t, seen[p], "%s references %s before it is declared", n.ID, p)
		}
		seen[n.ID] = true
	}
}

func TestBuilder_TypeAfterRoot(t *testing.T) {
	b := NewBuilder(Options{})
	require.NoError(t, b.AddRoot())
	assert.Error(t, b.AddRoot())
	assert.Error(t, b.AddAccountType(models.AccountTypeRow{Name: "Activo", Sequence: 1, Line: 2}))
}

func TestBuilder_AddAccountAddsRoot(t *testing.T) {
	b := NewBuilder(Options{})
	require.NoError(t, b.AddAccount(view("1", "1", "Activo", 2)))

	nodes := b.Document().Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, models.RootID, nodes[0].ID)
	assert.Equal(t, 1, b.Report().Accounts)
}

func TestBuild_AccountNamedRoot(t *testing.T) {
	doc, report, err := Build(context.Background(), nil, []models.AccountRow{view("1", "7", "Root", 2)}, Options{})
	require.NoError(t, err)
	assert.True(t, doc.Has("root_7"))
	require.Len(t, report.Renamed, 1)
	assert.Equal(t, "root", report.Renamed[0].Original)
}
