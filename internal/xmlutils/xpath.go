package xmlutils

import (
	"fmt"
	"io"
	"os"

	"fjacquet/coa-xml/internal/logging"

	"gopkg.in/xmlpath.v2"
)

var log = logging.Discard()

// SetLogger sets a custom logger for this package
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// ParseXML parses an XML document and returns its root node
func ParseXML(r io.Reader) (*xmlpath.Node, error) {
	root, err := xmlpath.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	return root, nil
}

// LoadXMLFile loads an XML file and returns the XML root node
func LoadXMLFile(xmlFilePath string) (*xmlpath.Node, error) {
	file, err := os.Open(xmlFilePath) // #nosec G304 -- path supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open XML file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file", logging.F(logging.FieldFile, xmlFilePath))
		}
	}()

	return ParseXML(file)
}

// values returns the string value of every node path selects under root,
// in document order.
func values(root *xmlpath.Node, path *xmlpath.Path) []string {
	var out []string
	iter := path.Iter(root)
	for iter.Next() {
		out = append(out, iter.Node().String())
	}
	return out
}

// valueAt returns the value of a relative path evaluated on node, or "".
func valueAt(node *xmlpath.Node, path *xmlpath.Path) string {
	if v, ok := path.String(node); ok {
		return v
	}
	return ""
}
