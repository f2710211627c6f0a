// Package alerr provides standardized error handling for geoalab.
// All errors have stable, machine-readable codes, structured context, and proper wrapping.
package alerr

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
)

// Code represents a stable, machine-readable error code.
// Format: E{category}{number} where category is 1-9 and number is 001-999.
type Code string

// Error codes organized by category.
const (
	// Schema errors (E1xxx) - problems with model definitions
	ErrSchemaInvalid   Code = "E1001" // Model file is malformed or invalid
	ErrSchemaNotFound  Code = "E1002" // Referenced model does not exist
	ErrSchemaDuplicate Code = "E1003" // Model with same table name already exists

	// Validation errors (E2xxx) - problems with user input validation
	ErrInvalidIdentifier Code = "E2001" // Identifier does not match allowed pattern
	ErrReservedWord      Code = "E2004" // Name is a reserved SQL keyword
	ErrInvalidType       Code = "E2005" // Type is not supported
	ErrTypeMismatchVal   Code = "E2008" // Value type doesn't match column type

	// SQL errors (E4xxx) - problems with database operations and query building
	ErrSQLExecution       Code = "E4001" // SQL statement failed to execute
	ErrSQLConnection      Code = "E4002" // Database connection failed
	ErrSQLTransaction     Code = "E4003" // Transaction operation failed
	ErrInvalidArgument    Code = "E4004" // Function argument is not a literal, column or expression
	ErrAmbiguousArguments Code = "E4005" // Spatial call mixes positional and keyword forms

	// Geometry errors (E5xxx) - problems with geometry values
	ErrInvalidCoordinate   Code = "E5001" // Longitude or latitude out of range
	ErrMalformedGeometry   Code = "E5002" // Value to encode is not a geometry or parseable WKT
	ErrUnparseableGeometry Code = "E5003" // Text could not be decoded as hex WKB nor WKT
	ErrCorruptGeometry     Code = "E5004" // Stored binary is not valid WKB

	// Dialect errors (E6xxx) - capability mismatches
	EUnsupportedDialect Code = "E6003" // Dialect not supported for operation

	// Config errors (E7xxx) - problems loading configuration
	ErrConfigInvalid Code = "E7001" // Config file is malformed
	ErrConfigRead    Code = "E7002" // Config file could not be read

	// Internal errors (E9xxx) - unexpected internal errors
	EInternalError Code = "E9001" // Internal error
)

// Error is the standard error type for geoalab.
// It provides structured error information with codes, context, and wrapping support.
type Error struct {
	code    Code           // Machine-readable error code
	message string         // Human-readable error message
	context map[string]any // Structured context data
	cause   error          // Wrapped underlying error
	stack   string         // Stack trace for debugging
}

// Error returns the formatted error string.
// Format:
//
//	[E5001] The longitude value 180.01 is not valid. ...
//	  axis: longitude
//	  value: 180.01
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.code, e.message))

	// Context in sorted order for deterministic output
	if len(e.context) > 0 {
		keys := make([]string, 0, len(e.context))
		for k := range e.context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			b.WriteString(fmt.Sprintf("\n  %s: %v", k, e.context[k]))
		}
	}

	if e.cause != nil {
		b.WriteString(fmt.Sprintf("\n  cause: %v", e.cause))
	}

	return b.String()
}

// Unwrap returns the underlying cause error for errors.Unwrap compatibility.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether the target error is an *Error with the same code.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.code == targetErr.code
	}

	return false
}

// GetCode returns the error code.
func (e *Error) GetCode() Code {
	return e.code
}

// GetMessage returns the error message without code or context.
func (e *Error) GetMessage() string {
	return e.message
}

// GetContext returns the error context map.
func (e *Error) GetContext() map[string]any {
	return e.context
}

// GetCause returns the underlying cause error.
func (e *Error) GetCause() error {
	return e.cause
}

// GetStack returns the stack trace.
func (e *Error) GetStack() string {
	return e.stack
}

// With adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *Error) With(key string, value any) *Error {
	if e.context == nil {
		e.context = make(map[string]any)
	}
	e.context[key] = value
	return e
}

// WithTable adds table context to the error.
func (e *Error) WithTable(table string) *Error {
	return e.With("table", table)
}

// WithColumn adds column context to the error.
func (e *Error) WithColumn(name string) *Error {
	return e.With("column", name)
}

// WithSQL adds SQL statement context to the error.
func (e *Error) WithSQL(sql string) *Error {
	return e.With("sql", sql)
}

// WithFile adds file context to the error.
func (e *Error) WithFile(path string) *Error {
	return e.With("file", path)
}

// WithNote adds a note to the error (displayed as "note: ...").
func (e *Error) WithNote(note string) *Error {
	notes, _ := e.context["notes"].([]string)
	notes = append(notes, note)
	return e.With("notes", notes)
}

// WithHelp adds a help suggestion to the error (displayed as "help: ...").
func (e *Error) WithHelp(help string) *Error {
	helps, _ := e.context["helps"].([]string)
	helps = append(helps, help)
	return e.With("helps", helps)
}

// Notes returns all notes attached to this error.
func (e *Error) Notes() []string {
	notes, _ := e.context["notes"].([]string)
	return notes
}

// Helps returns all help suggestions attached to this error.
func (e *Error) Helps() []string {
	helps, _ := e.context["helps"].([]string)
	return helps
}

// captureStack captures a stack trace for debugging.
func captureStack(skip int) string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return ""
	}

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if strings.Contains(frame.File, "runtime/") {
			if !more {
				break
			}
			continue
		}
		b.WriteString(fmt.Sprintf("%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line))
		if !more {
			break
		}
	}
	return b.String()
}

// New creates a new Error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{
		code:    code,
		message: msg,
		context: make(map[string]any),
		stack:   captureStack(3),
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{
		code:    code,
		message: fmt.Sprintf(format, args...),
		context: make(map[string]any),
		stack:   captureStack(3),
	}
}

// Wrap creates a new Error that wraps an existing error.
func Wrap(code Code, err error, msg string) *Error {
	if err == nil {
		return New(code, msg)
	}
	return &Error{
		code:    code,
		message: msg,
		context: make(map[string]any),
		cause:   err,
		stack:   captureStack(3),
	}
}

// Wrapf creates a new Error that wraps an existing error with a formatted message.
func Wrapf(code Code, err error, format string, args ...any) *Error {
	return Wrap(code, err, fmt.Sprintf(format, args...))
}

// GetErrorCode extracts the error code from an error chain.
// Returns empty string if no code is found.
func GetErrorCode(err error) Code {
	if err == nil {
		return ""
	}

	var alerr *Error
	if errors.As(err, &alerr) {
		return alerr.code
	}

	return ""
}

// Is checks if an error has the specified code.
func Is(err error, code Code) bool {
	return GetErrorCode(err) == code
}

// HasCode checks if an error has any error code.
func HasCode(err error) bool {
	return GetErrorCode(err) != ""
}

// WrapSQL creates an ErrSQLExecution error with table context.
// Example: WrapSQL(err, "insert row", "region")
func WrapSQL(err error, op string, table string) *Error {
	e := Wrap(ErrSQLExecution, err, "failed to "+op)
	if table != "" {
		e.WithTable(table)
	}
	return e
}
