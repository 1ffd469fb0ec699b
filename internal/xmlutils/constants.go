// Package xmlutils provides XML-related utility functions used throughout the application.
package xmlutils

// XPath expressions used to read back a generated Tryton data document.
const (
	XPathRecord   = "/tryton/data/record"
	XPathRecordID = "/tryton/data/record/@id"

	// Relative to a record node
	XPathID    = "@id"
	XPathModel = "@model"
	XPathField = "field"

	// Relative to a field node
	XPathFieldName = "@name"
	XPathFieldRef  = "@ref"
)
