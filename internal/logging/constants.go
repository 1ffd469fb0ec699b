package logging

// Field names shared by every component so log lines can be filtered
// consistently.
const (
	FieldFile       = "file_path"
	FieldSource     = "source"
	FieldLine       = "line"
	FieldGroup      = "group"
	FieldCode       = "code"
	FieldIdentifier = "identifier"
	FieldRenamedTo  = "renamed_to"
	FieldKind       = "kind"
	FieldCount      = "count"
	FieldSheet      = "sheet"
	FieldDelimiter  = "delimiter"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldDuration   = "duration_ms"
)
