// Package errors provides the error kinds shared by the codec and the
// command layer. Callers branch on the kind with errors.Is against the
// sentinels or with KindOf, never on message text.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a codec failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindFormat is malformed structure: bad header, short buffer, truncated
	// chunk, invalid type tag.
	KindFormat
	// KindIntegrity is a checksum mismatch.
	KindIntegrity
	// KindEncoding is a payload that is not valid text.
	KindEncoding
	// KindNotFound is a missing chunk type.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindFormat:
		return "format"
	case KindIntegrity:
		return "integrity"
	case KindEncoding:
		return "encoding"
	case KindNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Error is a kind-tagged error with an optional cause.
type Error struct {
	kind    Kind
	message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying cause error for error unwrapping.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.kind == e.kind
}

// Kind returns the error kind.
func (e *Error) Kind() Kind {
	return e.kind
}

// New creates a new error of the given kind with a message and optional cause.
func New(kind Kind, message string, cause error) error {
	return &Error{
		kind:    kind,
		message: message,
		cause:   cause,
	}
}

// NewFormatError creates a KindFormat error with a formatted message.
func NewFormatError(format string, args ...any) error {
	return New(KindFormat, fmt.Sprintf(format, args...), nil)
}

// NewEncodingError creates a KindEncoding error.
func NewEncodingError(message string, cause error) error {
	return New(KindEncoding, message, cause)
}

// NewNotFoundError creates a KindNotFound error with a formatted message.
func NewNotFoundError(format string, args ...any) error {
	return New(KindNotFound, fmt.Sprintf(format, args...), nil)
}

// ChecksumError reports a CRC mismatch. Expected is the value recomputed
// from the data, Actual the value stored in the buffer.
type ChecksumError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("crc mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// Is makes a ChecksumError match ErrIntegrity.
func (e *ChecksumError) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.kind == KindIntegrity
}

// KindOf returns the kind of the first tagged error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var checksumErr *ChecksumError
	if errors.As(err, &checksumErr) {
		return KindIntegrity
	}

	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.kind
	}

	return KindUnknown
}

// IsFormat checks if an error is a format error.
func IsFormat(err error) bool {
	return errors.Is(err, ErrFormat)
}

// IsIntegrity checks if an error is a checksum mismatch.
func IsIntegrity(err error) bool {
	return errors.Is(err, ErrIntegrity)
}

// IsEncoding checks if an error is an encoding error.
func IsEncoding(err error) bool {
	return errors.Is(err, ErrEncoding)
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Sentinel errors, one per kind, for use with errors.Is.
var (
	ErrFormat = &Error{
		kind:    KindFormat,
		message: "malformed png data",
	}

	ErrIntegrity = &Error{
		kind:    KindIntegrity,
		message: "checksum mismatch",
	}

	ErrEncoding = &Error{
		kind:    KindEncoding,
		message: "invalid text encoding",
	}

	ErrNotFound = &Error{
		kind:    KindNotFound,
		message: "chunk not found",
	}
)
