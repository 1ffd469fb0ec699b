// Package logging hides the concrete logging framework behind a small
// structured-logging interface so the conversion packages can be tested with
// a capturing logger.
package logging

// Logger is the structured logger used by the builder, converter and commands.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a logger that attaches err to every entry.
	WithError(err error) Logger

	// WithField returns a logger that attaches key=value to every entry.
	WithField(key string, value interface{}) Logger

	// WithFields returns a logger that attaches all fields to every entry.
	WithFields(fields ...Field) Logger
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Discard returns a Logger that drops everything. Used when a caller passes
// no logger to a constructor.
func Discard() Logger {
	return discard{}
}

type discard struct{}

func (discard) Debug(string, ...Field) {}
func (discard) Info(string, ...Field) {}
func (discard) Warn(string, ...Field) {}
func (discard) Error(string, ...Field) {}
func (d discard) WithError(error) Logger { return d }
func (d discard) WithField(string, interface{}) Logger { return d }
func (d discard) WithFields(...Field) Logger { return d }
