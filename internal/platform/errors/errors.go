// Package errors defines typed passkey client errors.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind classifies client failures for consistent handling.
type Kind string

const (
	KindUnknown Kind = "unknown"
	// KindDecode marks malformed wire-format binary data.
	KindDecode Kind = "decode"
	// KindServer marks a non-2xx response from the relying party.
	KindServer Kind = "server"
	// KindProtocol marks a response missing expected fields, a body that is
	// not valid JSON, or a credential of an unexpected kind.
	KindProtocol Kind = "protocol"
	// KindSchema marks a finish response body that is well-formed JSON but
	// does not fit or pass validation of the authorization result shape.
	KindSchema Kind = "schema"
	// KindPlatform marks a platform authenticator rejection or timeout,
	// including user cancellation.
	KindPlatform Kind = "platform"
	// KindForbidden marks a redirect target outside the allow-list.
	KindForbidden Kind = "forbidden"
	// KindInvalidInput marks caller-supplied arguments that fail validation
	// before any network call.
	KindInvalidInput Kind = "invalid_input"
)

// Error is a typed passkey client failure.
type Error struct {
	Kind    Kind
	Message string
	// Status and URL are populated for KindServer.
	Status int
	URL    string
	Err    error
}

// Error renders the human-readable message.
func (e Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the wrapped cause.
func (e Error) Unwrap() error {
	return e.Err
}

// E builds a typed Error.
func E(kind Kind, message string) error {
	return Error{Kind: kind, Message: message}
}

// Ef builds a typed Error with a formatted message.
func Ef(kind Kind, format string, args ...any) error {
	return Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a typed Error around a cause.
func Wrap(kind Kind, message string, err error) error {
	return Error{Kind: kind, Message: message, Err: err}
}

// Server builds a KindServer error carrying the response status and URL.
func Server(status int, url string) error {
	return Error{
		Kind:    KindServer,
		Message: fmt.Sprintf("relying party returned %d for %s", status, strings.TrimSpace(url)),
		Status:  status,
		URL:     strings.TrimSpace(url),
	}
}

// KindOf returns the classification of an error, KindUnknown for untyped ones.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var appErr Error
	if !stderrors.As(err, &appErr) {
		return KindUnknown
	}
	if appErr.Kind == "" {
		return KindUnknown
	}
	return appErr.Kind
}

// ServerStatus returns the HTTP status carried by a KindServer error, zero
// otherwise.
func ServerStatus(err error) int {
	var appErr Error
	if !stderrors.As(err, &appErr) {
		return 0
	}
	return appErr.Status
}
