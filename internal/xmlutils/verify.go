package xmlutils

import (
	"io"
	"sort"

	"fjacquet/coa-xml/internal/logging"
	"fjacquet/coa-xml/internal/models"
	"fjacquet/coa-xml/internal/parsererror"

	"gopkg.in/xmlpath.v2"
)

var (
	recordPath      = xmlpath.MustCompile(XPathRecord)
	recordIDPath    = xmlpath.MustCompile(XPathID)
	allIDsPath      = xmlpath.MustCompile(XPathRecordID)
	recordModelPath = xmlpath.MustCompile(XPathModel)
	fieldPath       = xmlpath.MustCompile(XPathField)
	fieldNamePath   = xmlpath.MustCompile(XPathFieldName)
	fieldRefPath    = xmlpath.MustCompile(XPathFieldRef)
)

// VerifyOptions configures VerifyDocument.
type VerifyOptions struct {
	// ExternalRefs lists identifiers defined outside the document (the
	// account root's type, for instance) that references may name.
	ExternalRefs []string
}

// Summary describes a verified document.
type Summary struct {
	Records          int
	AccountTypes     int
	Accounts         int
	ExternalRefsUsed []string
}

// VerifyDocument reads a generated document and checks that record ids are
// unique and that every ref names a record declared earlier, or one of the
// allowed external identifiers. source names the document in errors.
func VerifyDocument(r io.Reader, source string, opts VerifyOptions) (Summary, error) {
	root, err := ParseXML(r)
	if err != nil {
		return Summary{}, &parsererror.VerificationError{FilePath: source, Reason: err.Error()}
	}
	return verify(root, source, opts)
}

// VerifyFile is VerifyDocument on a file.
func VerifyFile(path string, opts VerifyOptions) (Summary, error) {
	root, err := LoadXMLFile(path)
	if err != nil {
		return Summary{}, &parsererror.VerificationError{FilePath: path, Reason: err.Error()}
	}
	return verify(root, path, opts)
}

// RecordIDs lists the record identifiers of a document file in document
// order.
func RecordIDs(path string) ([]string, error) {
	root, err := LoadXMLFile(path)
	if err != nil {
		return nil, err
	}
	return values(root, allIDsPath), nil
}

func verify(root *xmlpath.Node, source string, opts VerifyOptions) (Summary, error) {
	external := make(map[string]bool, len(opts.ExternalRefs))
	for _, id := range opts.ExternalRefs {
		external[id] = true
	}

	var summary Summary
	seen := make(map[string]bool)
	usedExternal := make(map[string]bool)

	iter := recordPath.Iter(root)
	for iter.Next() {
		rec := iter.Node()
		id := valueAt(rec, recordIDPath)
		if id == "" {
			return Summary{}, fail(source, id, "record has no id")
		}
		if seen[id] {
			return Summary{}, fail(source, id, "duplicate record id")
		}

		fields := fieldPath.Iter(rec)
		for fields.Next() {
			field := fields.Node()
			ref := valueAt(field, fieldRefPath)
			if ref == "" || seen[ref] {
				continue
			}
			if external[ref] {
				usedExternal[ref] = true
				continue
			}
			return Summary{}, fail(source, id,
				"field "+valueAt(field, fieldNamePath)+" references "+ref+" which is not declared before it")
		}

		switch valueAt(rec, recordModelPath) {
		case models.ModelAccountTypeTemplate:
			summary.AccountTypes++
		case models.ModelAccountTemplate:
			if id != models.RootID {
				summary.Accounts++
			}
		}
		seen[id] = true
		summary.Records++
	}

	if summary.Records == 0 {
		return Summary{}, fail(source, "", "document has no records")
	}
	for id := range usedExternal {
		summary.ExternalRefsUsed = append(summary.ExternalRefsUsed, id)
	}
	sort.Strings(summary.ExternalRefsUsed)

	log.Debug("Verified document",
		logging.F(logging.FieldFile, source),
		logging.F(logging.FieldCount, summary.Records))
	return summary, nil
}

func fail(source, record, reason string) error {
	return &parsererror.VerificationError{FilePath: source, Record: record, Reason: reason}
}
