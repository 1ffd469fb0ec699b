package xmlutils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/xmlpath.v2"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<tryton>
  <data>
    <record model="account.account.type.template" id="account_type_activo">
      <field name="name">Activo</field>
      <field name="sequence" eval="10"></field>
    </record>
    <record model="account.account.template" id="root">
      <field name="name">Plan</field>
      <field name="kind">view</field>
      <field name="type" ref="ar"></field>
    </record>
    <record model="account.account.template" id="caja">
      <field name="name">Caja</field>
      <field name="code">1</field>
      <field name="kind">other</field>
      <field name="type" ref="account_type_activo"></field>
      <field name="parent" ref="root"></field>
    </record>
  </data>
</tryton>
`

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestValues(t *testing.T) {
	root, err := ParseXML(strings.NewReader(sampleXML))
	require.NoError(t, err)

	refs := values(root, xmlpath.MustCompile("//field/@ref"))
	assert.Equal(t, []string{"ar", "account_type_activo", "root"}, refs)

	names := values(root, xmlpath.MustCompile("/tryton/data/record/field[1]"))
	assert.Equal(t, []string{"Activo", "Plan", "Caja"}, names)

	assert.Empty(t, values(root, xmlpath.MustCompile("/tryton/missing")))
}

func TestRecordIDs(t *testing.T) {
	path := writeSample(t, sampleXML)

	ids, err := RecordIDs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"account_type_activo", "root", "caja"}, ids)

	_, err = RecordIDs(filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)
}

func TestLoadXMLFile_Invalid(t *testing.T) {
	path := writeSample(t, "<tryton><data>")
	_, err := LoadXMLFile(path)
	assert.Error(t, err)
}
