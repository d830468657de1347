package passkeys

import (
	"encoding/json"

	"github.com/go-webauthn/webauthn/protocol"

	apperrors "github.com/ente-io/passkeys-go/internal/platform/errors"
)

// Passkey is a registered credential as the backend reports it. The backend
// owns the record; the client only lists, renames and deletes by reference.
type Passkey struct {
	ID           string `json:"id"`
	FriendlyName string `json:"friendlyName"`
	// CreatedAt is epoch milliseconds.
	CreatedAt int64 `json:"createdAt"`
}

// UserEntity identifies the account a new credential binds to.
type UserEntity struct {
	ID          []byte
	Name        string
	DisplayName string
}

// CreationOptions is the platform-side shape of the server's publicKey
// creation options: binary fields as raw bytes, everything the client does
// not touch carried through verbatim.
type CreationOptions struct {
	Challenge              []byte
	User                   UserEntity
	RP                     json.RawMessage
	PubKeyCredParams       json.RawMessage
	Timeout                json.RawMessage
	ExcludeCredentials     json.RawMessage
	AuthenticatorSelection json.RawMessage
	Attestation            json.RawMessage
}

// CredentialDescriptor references an existing credential the platform may
// use to satisfy a request.
type CredentialDescriptor struct {
	Type       protocol.CredentialType
	ID         []byte
	Transports []protocol.AuthenticatorTransport
}

// RequestOptions is the platform-side shape of the server's publicKey
// request options.
type RequestOptions struct {
	Challenge        []byte
	TimeoutMillis    int
	RPID             string
	AllowCredentials []CredentialDescriptor
	UserVerification protocol.UserVerificationRequirement
}

// RegistrationSession is created by begin-registration and consumed exactly
// once by finish-registration.
type RegistrationSession struct {
	SessionID       string
	CreationOptions CreationOptions
}

// AuthenticationSession carries the inner WebAuthn ceremony session. The
// outer passkeySessionID that started the login flow travels alongside it
// and the two are never interchangeable.
type AuthenticationSession struct {
	CeremonySessionID string
	RequestOptions    RequestOptions
}

// AuthorizationResult is the schema-validated payload the relying party
// returns once the assertion verifies. KeyAttributes is opaque to the
// client and passed through to the initiating application.
type AuthorizationResult struct {
	ID             int64           `json:"id"`
	KeyAttributes  json.RawMessage `json:"keyAttributes,omitempty"`
	EncryptedToken string          `json:"encryptedToken,omitempty"`
	Token          string          `json:"token,omitempty"`
	AccountsURL    string          `json:"accountsUrl,omitempty"`
}

func (r AuthorizationResult) validate() error {
	if r.ID == 0 {
		return apperrors.E(apperrors.KindSchema, "authorization result missing user id")
	}
	if r.EncryptedToken == "" && r.Token == "" {
		return apperrors.E(apperrors.KindSchema, "authorization result carries no token")
	}
	return nil
}
