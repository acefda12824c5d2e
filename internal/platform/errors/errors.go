// Package errors provides a structured error type with wrapping and metadata
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
)

// ErrorCode defines supported error codes used across services
// Values are stable for diagnostics; add sparingly
type ErrorCode uint16

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodeInvalidArgument is for bad input parameters
	ErrorCodeInvalidArgument

	// ErrorCodeValidation is for configuration validation failures
	ErrorCodeValidation

	// ErrorCodeEmptyField is for extraction results with a blank required field
	ErrorCodeEmptyField

	// ErrorCodeFiltered is for blocks that are valid but intentionally excluded
	// (e.g. an entered-room line misfiled as chat)
	ErrorCodeFiltered

	// ErrorCodeAmbiguousField is for extractions where two fields resolved to
	// the same value (gift name equals user name)
	ErrorCodeAmbiguousField

	// ErrorCodeInvalidGift is for gift names that fail plausibility checks
	ErrorCodeInvalidGift

	// ErrorCodeMissingGiftName is for blocks with a gift verb but no
	// recoverable name after the full extraction cascade
	ErrorCodeMissingGiftName
)

// String returns the stable diagnostic label for a code
func (c ErrorCode) String() string {
	switch c {
	case ErrorCodeInvalidArgument:
		return "invalid_argument"
	case ErrorCodeValidation:
		return "validation"
	case ErrorCodeEmptyField:
		return "empty_field"
	case ErrorCodeFiltered:
		return "filtered"
	case ErrorCodeAmbiguousField:
		return "ambiguous_field"
	case ErrorCodeInvalidGift:
		return "invalid_gift"
	case ErrorCodeMissingGiftName:
		return "missing_gift_name"
	default:
		return "unknown"
	}
}

// Error is the structured error type with wrapping and metadata
// msg is human/developer facing; code is machine facing
// field is optional (for validation); op is optional operation tag
// orig is the wrapped cause
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
	op    string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending field, if any
func (e *Error) Field() string { return e.field }

// Op returns the operation label, if set
func (e *Error) Op() string { return e.op }

// Root returns the deepest wrapped cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf extracts an ErrorCode from any error, defaulting to Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Mutators (copy-on-write)

// WithField attaches a field to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// WithOp attaches an operation label to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		c := *e
		c.op = op
		return &c
	}
	return err
}

// Constructors

// New returns a new *Error with the given code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns a new *Error with code and formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with code and message
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns a new *Error that wraps orig with code and formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// WrapIf wraps only when err != nil (helper for 1-liners)
func WrapIf(err error, code ErrorCode, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, msg)
}

// Sugar

// InvalidArgf returns an invalid argument error
func InvalidArgf(format string, a ...any) error { return Newf(ErrorCodeInvalidArgument, format, a...) }

// Validationf returns a configuration validation error
func Validationf(format string, a ...any) error { return Newf(ErrorCodeValidation, format, a...) }

// EmptyFieldf returns an empty field extraction error
func EmptyFieldf(format string, a ...any) error { return Newf(ErrorCodeEmptyField, format, a...) }

// Filteredf returns an intentionally-excluded extraction error
func Filteredf(format string, a ...any) error { return Newf(ErrorCodeFiltered, format, a...) }

// AmbiguousFieldf returns an ambiguous field extraction error
func AmbiguousFieldf(format string, a ...any) error { return Newf(ErrorCodeAmbiguousField, format, a...) }

// InvalidGiftf returns a gift plausibility error
func InvalidGiftf(format string, a ...any) error { return Newf(ErrorCodeInvalidGift, format, a...) }

// MissingGiftNamef returns a missing gift name error
func MissingGiftNamef(format string, a ...any) error { return Newf(ErrorCodeMissingGiftName, format, a...) }

// Internalf returns a generic internal error
func Internalf(format string, a ...any) error { return Newf(ErrorCodeUnknown, format, a...) }
