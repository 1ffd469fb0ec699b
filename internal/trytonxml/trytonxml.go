// Package trytonxml serializes a record document into the XML data format
// imported by Tryton modules.
package trytonxml

import (
	"encoding/xml"
	"fmt"
	"io"

	"fjacquet/coa-xml/internal/models"
)

// Indent is the per-level indentation of the generated document.
const Indent = "  "

type trytonDoc struct {
	XMLName xml.Name  `xml:"tryton"`
	Data    dataBlock `xml:"data"`
}

type dataBlock struct {
	Records []recordElem `xml:"record"`
}

type recordElem struct {
	Model  string      `xml:"model,attr"`
	ID     string      `xml:"id,attr"`
	Fields []fieldElem `xml:"field"`
}

type fieldElem struct {
	Name string `xml:"name,attr"`
	Ref  string `xml:"ref,attr,omitempty"`
	Eval string `xml:"eval,attr,omitempty"`
	Text string `xml:",chardata"`
}

func toField(f models.Field) fieldElem {
	el := fieldElem{Name: f.Name}
	switch f.Value.Kind() {
	case models.ReferenceValue:
		el.Ref = f.Value.Text()
	case models.NumericValue, models.BooleanValue:
		el.Eval = f.Value.Text()
	default:
		el.Text = f.Value.Text()
	}
	return el
}

func toTree(doc *models.Document) trytonDoc {
	nodes := doc.Nodes()
	out := trytonDoc{Data: dataBlock{Records: make([]recordElem, 0, len(nodes))}}
	for _, n := range nodes {
		rec := recordElem{Model: n.Model, ID: n.ID, Fields: make([]fieldElem, 0, len(n.Fields))}
		for _, f := range n.Fields {
			rec.Fields = append(rec.Fields, toField(f))
		}
		out.Data.Records = append(out.Data.Records, rec)
	}
	return out
}

// Marshal renders doc with the XML declaration, two-space indentation and a
// trailing newline. Identical documents always render to identical bytes.
func Marshal(doc *models.Document) ([]byte, error) {
	body, err := xml.MarshalIndent(toTree(doc), "", Indent)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

// Encode writes the rendered document to w.
func Encode(w io.Writer, doc *models.Document) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}
