package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseValidate Phase = "validate" // schema validation
	PhaseLayout   Phase = "layout"   // bit layout computation
	PhaseCompile  Phase = "compile"  // codec compilation
	PhaseEncode   Phase = "encode"   // values to words
	PhaseDecode   Phase = "decode"   // words to values
	PhaseStore    Phase = "store"    // dynamic reference store
	PhaseResolve  Phase = "resolve"  // feature resolution
	PhaseLoad     Phase = "load"     // schema file loading
)

// Kind categorizes the error
type Kind string

const (
	KindValueOutOfRange      Kind = "value_out_of_range"
	KindUnsupportedFieldType Kind = "unsupported_field_type"
	KindSchemaInconsistency  Kind = "schema_inconsistency"
	KindNotFound             Kind = "not_found"
	KindAlreadyPopulated     Kind = "already_populated"
	KindIncompatibleFeatures Kind = "incompatible_features"
	KindUnmetPrecondition    Kind = "unmet_precondition"
	KindInvalidInput         Kind = "invalid_input"
	KindTypeMismatch         Kind = "type_mismatch"
	KindFieldMissing         Kind = "field_missing"
	KindFieldUnknown         Kind = "field_unknown"
	KindOutOfBounds          Kind = "out_of_bounds"
)

// Error is the structured error type used throughout the compiler
type Error struct {
	Value     any
	Cause     error
	Phase     Phase
	Kind      Kind
	FieldType string
	Feature   string
	Detail    string
	Path      []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	tagged := e.FieldType != "" || e.Feature != ""
	if tagged {
		b.WriteString(": ")
		switch {
		case e.FieldType != "" && e.Feature != "":
			b.WriteString("type ")
			b.WriteString(e.FieldType)
			b.WriteString(", feature ")
			b.WriteString(e.Feature)
		case e.FieldType != "":
			b.WriteString("type ")
			b.WriteString(e.FieldType)
		default:
			b.WriteString("feature ")
			b.WriteString(e.Feature)
		}
	}

	if e.Detail != "" {
		if tagged {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether any error in err's tree is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	switch e := err.(type) {
	case nil:
		return false
	case *Error:
		return e.Kind == kind || IsKind(e.Cause, kind)
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if IsKind(inner, kind) {
				return true
			}
		}
		return false
	case interface{ Unwrap() error }:
		return IsKind(e.Unwrap(), kind)
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// FieldType sets the declared field type name
func (b *Builder) FieldType(t string) *Builder {
	b.err.FieldType = t
	return b
}

// Feature sets the feature name
func (b *Builder) Feature(f string) *Builder {
	b.err.Feature = f
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// OutOfRange creates a value-out-of-range error for a declared field type
func OutOfRange(phase Phase, path []string, value any, fieldType string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindValueOutOfRange,
		Path:      path,
		FieldType: fieldType,
		Detail:    fmt.Sprintf("value %v does not fit %s", value, fieldType),
		Value:     value,
	}
}

// Unsupported creates an unsupported-field-type error
func Unsupported(phase Phase, path []string, fieldType, what string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindUnsupportedFieldType,
		Path:      path,
		FieldType: fieldType,
		Detail:    what,
	}
}

// Inconsistent creates a schema inconsistency error
func Inconsistent(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindSchemaInconsistency,
		Path:   path,
		Detail: detail,
	}
}

// TypeMismatch creates a type mismatch error between a Go value and a field type
func TypeMismatch(phase Phase, path []string, goType, fieldType string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindTypeMismatch,
		Path:      path,
		FieldType: fieldType,
		Detail:    fmt.Sprintf("cannot use Go type %s", goType),
	}
}

// FieldMissing creates a missing field error
func FieldMissing(phase Phase, fieldKey string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldMissing,
		Path:   []string{fieldKey},
		Detail: fmt.Sprintf("required field %q not found", fieldKey),
	}
}

// FieldUnknown creates an unknown field error
func FieldUnknown(phase Phase, fieldKey string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldUnknown,
		Path:   []string{fieldKey},
		Detail: fmt.Sprintf("unknown field %q", fieldKey),
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what string, value any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %v not found", what, value),
		Value:  value,
	}
}

// AlreadyPopulated creates an already-populated error
func AlreadyPopulated(phase Phase, count int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAlreadyPopulated,
		Detail: fmt.Sprintf("store already holds %d references", count),
		Value:  count,
	}
}

// Incompatible creates an incompatible-features error naming both features
func Incompatible(feature, other string) *Error {
	return &Error{
		Phase:   PhaseResolve,
		Kind:    KindIncompatibleFeatures,
		Feature: feature,
		Detail:  fmt.Sprintf("%s cannot be combined with %s", feature, other),
		Value:   other,
	}
}

// Unmet creates an unmet-precondition error for a feature
func Unmet(feature, requirement string) *Error {
	return &Error{
		Phase:   PhaseResolve,
		Kind:    KindUnmetPrecondition,
		Feature: feature,
		Detail:  "requires " + requirement,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Path:   path,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ValidationError collects every problem found while validating a schema.
// Validation reports all problems at once so the author can fix them together.
type ValidationError struct {
	Problems []*Error
}

// Add appends a problem.
func (e *ValidationError) Add(err *Error) {
	e.Problems = append(e.Problems, err)
}

// Err returns nil when no problems were recorded.
func (e *ValidationError) Err() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return e.Problems[0].Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "schema has %d problem(s):", len(e.Problems))
	for _, p := range e.Problems {
		b.WriteString("\n  - ")
		b.WriteString(p.Error())
	}
	return b.String()
}

// Unwrap exposes each problem to errors.Is/As.
func (e *ValidationError) Unwrap() []error {
	out := make([]error, len(e.Problems))
	for i, p := range e.Problems {
		out[i] = p
	}
	return out
}
