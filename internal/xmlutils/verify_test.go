package xmlutils

import (
	"strings"
	"testing"

	"fjacquet/coa-xml/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyDocument(t *testing.T) {
	summary, err := VerifyDocument(strings.NewReader(sampleXML), "sample.xml", VerifyOptions{ExternalRefs: []string{"ar"}})
	require.NoError(t, err)
	assert.Equal(t, Summary{Records: 3, AccountTypes: 1, Accounts: 1, ExternalRefsUsed: []string{"ar"}}, summary)
}

func TestVerifyFile(t *testing.T) {
	path := writeSample(t, sampleXML)
	summary, err := VerifyFile(path, VerifyOptions{ExternalRefs: []string{"ar"}})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Records)
}

func TestVerifyDocument_Failures(t *testing.T) {
	tests := []struct {
		name   string
		xml    string
		opts   VerifyOptions
		record string
		reason string
	}{
		{
			name:   "external ref not allowed",
			xml:    sampleXML,
			record: "root",
			reason: "references ar",
		},
		{
			name: "duplicate id",
			xml: `<tryton><data>
  <record model="account.account.template" id="caja"></record>
  <record model="account.account.template" id="caja"></record>
</data></tryton>`,
			record: "caja",
			reason: "duplicate record id",
		},
		{
			name: "forward parent",
			xml: `<tryton><data>
  <record model="account.account.template" id="caja"><field name="parent" ref="activo"></field></record>
  <record model="account.account.template" id="activo"></record>
</data></tryton>`,
			record: "caja",
			reason: "field parent references activo",
		},
		{
			name:   "record without id",
			xml:    `<tryton><data><record model="account.account.template"></record></data></tryton>`,
			reason: "record has no id",
		},
		{
			name:   "empty document",
			xml:    `<tryton><data></data></tryton>`,
			reason: "document has no records",
		},
		{
			name:   "not xml",
			xml:    `<tryton><data>`,
			reason: "failed to parse XML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyDocument(strings.NewReader(tt.xml), "out.xml", tt.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, parsererror.ErrVerification)

			var verr *parsererror.VerificationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "out.xml", verr.FilePath)
			assert.Equal(t, tt.record, verr.Record)
			assert.Contains(t, verr.Reason, tt.reason)
		})
	}
}
