// Package apperr defines the error kinds used by phihelper and how each one propagates.
//
// Config errors are fatal and are returned up to main. Every other kind is
// recovered where it occurs and rendered inline into the command output.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the category of an Error.
type Kind int

const (
	// KindConfig is a missing or invalid configuration. Fatal.
	KindConfig Kind = iota
	// KindEnumeration is a failed version-control listing. Recovered as an empty file list.
	KindEnumeration
	// KindFileRead is a per-file read failure. Recovered as inline content.
	KindFileRead
	// KindRemoteCall is a failed chat-completion request. Recovered as the printed result.
	KindRemoteCall
)

// String returns the short name of the kind.
func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindEnumeration:
		return "enumeration"
	case KindFileRead:
		return "file_read"
	case KindRemoteCall:
		return "remote_call"
	default:
		return "unknown"
	}
}

// Fatal reports whether errors of this kind must stop the process.
func (k Kind) Fatal() bool {
	return k == KindConfig
}

// Error is the base error type for phihelper.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error returns the message, followed by the cause when present.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error of the given kind.
func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Config creates a fatal configuration error.
func Config(message string, cause error) *Error {
	return New(KindConfig, message, cause)
}

// Enumeration creates a listing error.
func Enumeration(message string, cause error) *Error {
	return New(KindEnumeration, message, cause)
}

// FileRead creates a per-file read error. Its text is what ends up in the packed content.
func FileRead(path string, cause error) *Error {
	return New(KindFileRead, "Error reading file "+path, cause)
}

// RemoteCall creates an API error. Its text is what the user sees as the result.
func RemoteCall(cause error) *Error {
	return New(KindRemoteCall, "Error calling API", cause)
}

// IsKind checks if err is, or wraps, an Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// IsFatal returns true if err must terminate the process.
func IsFatal(err error) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind.Fatal()
	}
	return false
}
