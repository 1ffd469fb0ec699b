package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstantsAreDistinct(t *testing.T) {
	names := []string{
		FieldFile, FieldSource, FieldLine, FieldGroup, FieldCode, FieldIdentifier,
		FieldRenamedTo, FieldKind, FieldCount, FieldSheet, FieldDelimiter,
		FieldInputFile, FieldOutputFile, FieldDuration,
	}

	seen := make(map[string]bool, len(names))
	for _, n := range names {
		assert.NotEmpty(t, n)
		assert.False(t, seen[n], "duplicate field name %q", n)
		seen[n] = true
	}
}
