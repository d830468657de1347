// Package passkeys drives WebAuthn ceremonies against the relying party.
//
// It owns the begin/finish protocol exchanges, the binary-to-wire encoding
// boundary, and the session identifiers that tie ceremony steps together.
// The platform authenticator stays behind the Authenticator interface; the
// core moves its bytes and never interprets them.
package passkeys
