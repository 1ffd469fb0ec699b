package models

// AccountTypeRow is a validated row of the account types source.
type AccountTypeRow struct {
	Name     string
	ID       string // empty when the row relies on the derived id
	Sequence int
	Parent   string // empty for top-level types
	Line     int
}

// AccountRow is a validated row of the accounts source.
type AccountRow struct {
	Group       string
	Code        string
	KindLabel   string
	Kind        Kind
	Description string
	Deferral    bool
	Reconcile   bool
	TypeName    string
	Line        int
}
