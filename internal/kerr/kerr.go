// Package kerr defines the error-kind taxonomy shared across the
// state-core: reducers, the LSP engine, the file watcher and the
// clipboard ports all classify failures into one of these kinds rather
// than inventing their own per-package sentinel zoo.
package kerr

import (
	"errors"
	"fmt"
)

// Kind categorizes a failure so callers can branch on it without
// string-matching error messages.
type Kind uint8

const (
	NotFound Kind = iota
	PermissionDenied
	AlreadyExists
	NotADirectory
	NotAFile
	InvalidPath
	ProviderNotFound
	TooLarge
	IO
	ClipboardUnavailable
	SearchRegexInvalid
	LspStartupFailed
	LspProtocolError
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case PermissionDenied:
		return "permission_denied"
	case AlreadyExists:
		return "already_exists"
	case NotADirectory:
		return "not_a_directory"
	case NotAFile:
		return "not_a_file"
	case InvalidPath:
		return "invalid_path"
	case ProviderNotFound:
		return "provider_not_found"
	case TooLarge:
		return "too_large"
	case IO:
		return "io"
	case ClipboardUnavailable:
		return "clipboard_unavailable"
	case SearchRegexInvalid:
		return "search_regex_invalid"
	case LspStartupFailed:
		return "lsp_startup_failed"
	case LspProtocolError:
		return "lsp_protocol_error"
	default:
		return "unknown"
	}
}

// Error pairs a Kind with a message and an optional wrapped cause.
// It is the concrete error type every package in the core returns for
// classifiable failures; reducers and UI code type-assert to *Error
// (or use As) rather than comparing strings.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// New creates an *Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an *Error that wraps cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target has the same Kind, so callers can write
// errors.Is(err, kerr.New(kerr.NotFound, "")) style checks, or more
// conveniently use KindOf below.
func (e *Error) Is(target error) bool {
	var te *Error
	if errors.As(target, &te) {
		return te.Kind == e.Kind
	}
	return false
}

// KindOf extracts the Kind from err if it is (or wraps) a *Error.
// The second return is false for errors outside this taxonomy.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
