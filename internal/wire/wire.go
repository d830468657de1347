// Package wire converts between the WebAuthn wire encoding and raw bytes.
//
// The relying party transmits binary credential fields as URL-safe base64
// without padding; the platform authenticator consumes and produces raw byte
// buffers. Every boundary crossing goes through this package so no other
// encoding can leak in.
package wire

import (
	"encoding/base64"

	apperrors "github.com/ente-io/passkeys-go/internal/platform/errors"
)

// Strict rejects non-canonical trailing bits so Encode(Decode(s)) == s holds
// for every accepted wire string.
var codec = base64.RawURLEncoding.Strict()

// Decode converts a wire string to raw bytes. Malformed input yields a
// decode-kind error and no partial bytes.
func Decode(s string) ([]byte, error) {
	b, err := codec.DecodeString(s)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindDecode, "decode wire base64", err)
	}
	return b, nil
}

// Encode converts raw bytes to the canonical padding-free wire string.
func Encode(b []byte) string {
	return codec.EncodeToString(b)
}
