// Package apperr defines the gateway's error taxonomy. Every failure that
// crosses the dispatcher boundary is classified into one of these kinds so
// the RPC layer can choose the right JSON-RPC code and HTTP status.
package apperr

import (
	"errors"
	"fmt"
)

// Kind identifies the class of a gateway error.
type Kind int

const (
	// KindInternal covers unclassified failures.
	KindInternal Kind = iota
	// KindAuth means the caller's API key was missing or rejected.
	KindAuth
	// KindConfiguration means the tenant's backend configuration is absent or incomplete.
	KindConfiguration
	// KindValidation means a required tool argument was missing or malformed.
	KindValidation
	// KindUnknownTool means the tool name is not in the registry.
	KindUnknownTool
	// KindBackend means the Confluence REST API reported a failure.
	KindBackend
	// KindFetch means a remote file retrieval failed.
	KindFetch
	// KindUpload means an attachment upload did not produce a usable result.
	KindUpload
)

// Error carries a kind alongside the human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying error.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the kind from err, or KindInternal if err is untyped.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
