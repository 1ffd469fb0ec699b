package models

import "strconv"

// ValueKind tells how a field value is written out.
type ValueKind int

const (
	// LiteralValue is plain text content.
	LiteralValue ValueKind = iota
	// NumericValue is an integer the consumer evaluates.
	NumericValue
	// BooleanValue is a boolean the consumer evaluates.
	BooleanValue
	// ReferenceValue names another record's identifier.
	ReferenceValue
)

// Value is a field value tagged with how the consumer must read it.
// Construct it with Literal, Numeric, Boolean or Reference.
type Value struct {
	kind ValueKind
	text string
	num  int
	flag bool
}

// Literal is text written as element content.
func Literal(s string) Value { return Value{kind: LiteralValue, text: s} }

// Numeric is an integer written as an eval attribute.
func Numeric(n int) Value { return Value{kind: NumericValue, num: n} }

// Boolean is written as an eval attribute of True or False.
func Boolean(b bool) Value { return Value{kind: BooleanValue, flag: b} }

// Reference names the identifier of another record.
func Reference(id string) Value { return Value{kind: ReferenceValue, text: id} }

// Kind returns the tag.
func (v Value) Kind() ValueKind { return v.kind }

// IsReference reports whether v names another record.
func (v Value) IsReference() bool { return v.kind == ReferenceValue }

// Text returns the value rendered the way the consumer reads it: the literal
// text, the referenced id, the decimal number, or True/False.
func (v Value) Text() string {
	switch v.kind {
	case NumericValue:
		return strconv.Itoa(v.num)
	case BooleanValue:
		if v.flag {
			return "True"
		}
		return "False"
	default:
		return v.text
	}
}

// Field is one named value of a record.
type Field struct {
	Name  string
	Value Value
}
