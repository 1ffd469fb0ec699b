package models

// Record models understood by the importing framework.
const (
	ModelAccountTypeTemplate = "account.account.type.template"
	ModelAccountTemplate     = "account.account.template"
)

// RootID is the identifier of the synthetic account chart root.
const RootID = "root"

// TypeIDPrefix is prepended to sanitized type names when a type row has no
// explicit id.
const TypeIDPrefix = "account_type_"

// ViewCodeMarker is appended to the code of aggregating (view) accounts.
const ViewCodeMarker = "*"

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionOutputFile = 0644
)
