package gfa

import "fmt"

// FieldKind classifies why a single column of a record failed to parse.
type FieldKind int

const (
	// KindUnknown is an unclassified field failure.
	KindUnknown FieldKind = iota
	// KindUintID means a segment name could not be parsed as an
	// unsigned integer. Only produced by UintIDs.
	KindUintID
	// KindUTF8 means a field contained bytes that are not valid UTF-8.
	KindUTF8
	// KindParse means a field could not be parsed into its target type.
	KindParse
	// KindOrientation means an orientation column was not '+' or '-'.
	KindOrientation
	// KindInvalidField means a named required column was malformed.
	// FieldError.Field holds the column name from the GFA1 spec.
	KindInvalidField
	// KindMissingFields means the line ended before all required
	// columns were seen.
	KindMissingFields
	// KindUnknownTagType means an optional tag carried a type byte
	// outside AifZJHB. The tag sub-language defines a closed set, so
	// this is a defect in the input rather than an ignorable tag.
	KindUnknownTagType
)

// FieldError describes the failure of one column of one record. It is
// always attributable to a specific column; for KindInvalidField the
// column's spec name is retained for diagnostics.
type FieldError struct {
	Kind  FieldKind
	Field string
}

func (e *FieldError) Error() string {
	switch e.Kind {
	case KindUintID:
		return "failed to parse a segment name as an unsigned integer"
	case KindUTF8:
		return "field is not valid UTF-8"
	case KindParse:
		return "failed to parse a field from a string"
	case KindOrientation:
		return "failed to parse an orientation character"
	case KindInvalidField:
		return fmt.Sprintf("failed to parse field %q", e.Field)
	case KindMissingFields:
		return "line is missing required fields"
	case KindUnknownTagType:
		return "unknown optional tag type character"
	}
	return "unknown error when parsing a field"
}

func invalidField(name string) *FieldError {
	return &FieldError{Kind: KindInvalidField, Field: name}
}

func missingFields() *FieldError {
	return &FieldError{Kind: KindMissingFields}
}

// LineKind classifies the failure of a whole line.
type LineKind int

const (
	// LineUnknown is an unclassified line failure.
	LineUnknown LineKind = iota
	// LineUnknownType means the line's leading record marker was not
	// one of 'H', 'S', 'L', 'C', 'P'. Recoverable: a driving loop
	// skips the line.
	LineUnknownType
	// LineEmpty means the line had no content. Recoverable.
	LineEmpty
	// LineInvalid wraps a field failure together with the raw line.
	LineInvalid
	// LineIO wraps an I/O error from the underlying stream.
	LineIO
)

// LineError describes the failure of one input line. For LineInvalid
// the first field failure and the raw offending line are retained so a
// caller can surface enough context to locate the problem.
type LineError struct {
	Kind  LineKind
	Field *FieldError
	Line  string
	Err   error
}

func (e *LineError) Error() string {
	switch e.Kind {
	case LineUnknownType:
		return "line type was not one of 'H', 'S', 'L', 'C', 'P'"
	case LineEmpty:
		return "line was empty"
	case LineInvalid:
		return fmt.Sprintf("failed to parse line %q: %v", e.Line, e.Field)
	case LineIO:
		return fmt.Sprintf("io error: %v", e.Err)
	}
	return "unknown error when parsing a line"
}

func (e *LineError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	if e.Field != nil {
		return e.Field
	}
	return nil
}

// Recoverable reports whether a driving loop may skip the offending
// line and continue. Exactly the empty-line and unknown-record-marker
// kinds are recoverable; every other kind must abort the loop.
func (e *LineError) Recoverable() bool {
	return e.Kind == LineEmpty || e.Kind == LineUnknownType
}

func invalidLine(fe *FieldError, line []byte) *LineError {
	return &LineError{Kind: LineInvalid, Field: fe, Line: string(line)}
}

// asFieldError normalizes err into a *FieldError, preserving typed
// errors produced inside the package.
func asFieldError(err error) *FieldError {
	if fe, ok := err.(*FieldError); ok {
		return fe
	}
	return &FieldError{Kind: KindUnknown}
}
