package passkeys

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/go-webauthn/webauthn/protocol"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ente-io/passkeys-go/internal/api"
	apperrors "github.com/ente-io/passkeys-go/internal/platform/errors"
	"github.com/ente-io/passkeys-go/internal/wire"
)

const (
	authenticationBeginPath  = "/users/two-factor/passkeys/begin"
	authenticationFinishPath = "/users/two-factor/passkeys/finish"
)

// signTimeoutMillis caps how long the platform waits for user interaction
// while signing the challenge.
const signTimeoutMillis = 60_000

// fullTransports replaces the server-declared transport hints before
// signing. The platform filters to what is actually available, while a
// stale narrower server hint risks false negatives on some platforms.
var fullTransports = []protocol.AuthenticatorTransport{
	protocol.USB,
	protocol.NFC,
	protocol.BLE,
	protocol.Internal,
}

// AuthenticationCeremony drives begin, platform get and finish for proving
// possession of an existing passkey as a second factor. The fail-fast
// policy matches RegistrationCeremony: first error abandons the ceremony.
type AuthenticationCeremony struct {
	client        *api.Client
	authenticator Authenticator
	tracer        trace.Tracer
}

// NewAuthenticationCeremony builds an authentication ceremony driver.
func NewAuthenticationCeremony(client *api.Client, authenticator Authenticator) *AuthenticationCeremony {
	return &AuthenticationCeremony{
		client:        client,
		authenticator: authenticator,
		tracer:        otel.Tracer(tracerName),
	}
}

type beginAuthenticationRequest struct {
	SessionID string `json:"sessionID"`
}

type beginAuthenticationResponse struct {
	CeremonySessionID string `json:"ceremonySessionID"`
	Options           struct {
		PublicKey requestOptionsWire `json:"publicKey"`
	} `json:"options"`
}

type requestOptionsWire struct {
	Challenge        string                `json:"challenge"`
	Timeout          int                   `json:"timeout,omitempty"`
	RPID             string                `json:"rpId,omitempty"`
	AllowCredentials []allowCredentialWire `json:"allowCredentials,omitempty"`
	UserVerification string                `json:"userVerification,omitempty"`
}

type allowCredentialWire struct {
	Type       string   `json:"type"`
	ID         string   `json:"id"`
	Transports []string `json:"transports,omitempty"`
}

type assertionResponseWire struct {
	AuthenticatorData string `json:"authenticatorData"`
	ClientDataJSON    string `json:"clientDataJSON"`
	Signature         string `json:"signature"`
	// UserHandle must serialize as null, not "", when the authenticator
	// supplied no handle.
	UserHandle *string `json:"userHandle"`
}

type finishAuthenticationRequest struct {
	ID       string                `json:"id"`
	RawID    string                `json:"rawId"`
	Type     string                `json:"type"`
	Response assertionResponseWire `json:"response"`
}

// BeginAuthentication opens the inner WebAuthn ceremony for the outer
// passkey session. The call is unauthenticated: the caller does not yet
// hold a user token, so only the optional client-package header is sent.
func (ac *AuthenticationCeremony) BeginAuthentication(ctx context.Context, passkeySessionID string) (AuthenticationSession, error) {
	var resp beginAuthenticationResponse
	err := ac.client.PostPublic(ctx, authenticationBeginPath, nil, beginAuthenticationRequest{SessionID: passkeySessionID}, &resp)
	if err != nil {
		return AuthenticationSession{}, err
	}
	if resp.CeremonySessionID == "" {
		return AuthenticationSession{}, apperrors.E(apperrors.KindProtocol, "begin authentication response missing ceremonySessionID")
	}
	pk := resp.Options.PublicKey
	if pk.Challenge == "" {
		return AuthenticationSession{}, apperrors.E(apperrors.KindProtocol, "begin authentication response missing challenge")
	}
	challenge, err := wire.Decode(pk.Challenge)
	if err != nil {
		return AuthenticationSession{}, err
	}
	allowed := make([]CredentialDescriptor, 0, len(pk.AllowCredentials))
	for _, cred := range pk.AllowCredentials {
		id, err := wire.Decode(cred.ID)
		if err != nil {
			return AuthenticationSession{}, err
		}
		transports := make([]protocol.AuthenticatorTransport, 0, len(cred.Transports))
		for _, transport := range cred.Transports {
			transports = append(transports, protocol.AuthenticatorTransport(transport))
		}
		allowed = append(allowed, CredentialDescriptor{
			Type:       protocol.CredentialType(cred.Type),
			ID:         id,
			Transports: transports,
		})
	}
	return AuthenticationSession{
		CeremonySessionID: resp.CeremonySessionID,
		RequestOptions: RequestOptions{
			Challenge:        challenge,
			TimeoutMillis:    pk.Timeout,
			RPID:             pk.RPID,
			AllowCredentials: allowed,
			UserVerification: protocol.UserVerificationRequirement(pk.UserVerification),
		},
	}, nil
}

// SignChallenge invokes the platform get capability. Each allowed
// credential's transports are first normalized to the full known set and
// the interaction is capped at 60 seconds.
func (ac *AuthenticationCeremony) SignChallenge(ctx context.Context, options RequestOptions) (*Credential, error) {
	normalized := options
	normalized.TimeoutMillis = signTimeoutMillis
	normalized.AllowCredentials = make([]CredentialDescriptor, len(options.AllowCredentials))
	for i, cred := range options.AllowCredentials {
		cred.Transports = append([]protocol.AuthenticatorTransport(nil), fullTransports...)
		normalized.AllowCredentials[i] = cred
	}

	credential, err := ac.authenticator.Get(ctx, normalized)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindPlatform, "get credential", err)
	}
	return credential, nil
}

// FinishAuthentication encodes the assertion and closes both the inner
// ceremony and the outer passkey session. The two session identifiers are
// distinct and the server requires both.
func (ac *AuthenticationCeremony) FinishAuthentication(ctx context.Context, passkeySessionID, ceremonySessionID string, credential *Credential) (AuthorizationResult, error) {
	assertion, err := credential.assertion()
	if err != nil {
		return AuthorizationResult{}, err
	}

	var userHandle *string
	if assertion.UserHandle != nil {
		encoded := wire.Encode(assertion.UserHandle)
		userHandle = &encoded
	}
	body := finishAuthenticationRequest{
		ID:    credential.ID,
		RawID: credential.ID,
		Type:  credential.Type,
		Response: assertionResponseWire{
			AuthenticatorData: wire.Encode(assertion.AuthenticatorData),
			ClientDataJSON:    wire.Encode(assertion.ClientDataJSON),
			Signature:         wire.Encode(assertion.Signature),
			UserHandle:        userHandle,
		},
	}
	query := url.Values{}
	query.Set("sessionID", passkeySessionID)
	query.Set("ceremonySessionID", ceremonySessionID)

	// Two-step decode keeps the error split clean: a body that is not JSON
	// fails in the transport as a protocol error, while valid JSON that
	// does not fit the authorization result shape is a schema failure.
	var raw json.RawMessage
	if err := ac.client.PostPublic(ctx, authenticationFinishPath, query, body, &raw); err != nil {
		return AuthorizationResult{}, err
	}
	var result AuthorizationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return AuthorizationResult{}, apperrors.Wrap(apperrors.KindSchema, "decode authorization result", err)
	}
	if err := result.validate(); err != nil {
		return AuthorizationResult{}, err
	}
	return result, nil
}

// Authenticate runs the whole second-factor ceremony for the outer passkey
// session and returns the authorization result.
func (ac *AuthenticationCeremony) Authenticate(ctx context.Context, passkeySessionID string) (AuthorizationResult, error) {
	ctx, span := ac.tracer.Start(ctx, "passkeys.Authenticate")
	defer span.End()

	session, err := ac.BeginAuthentication(ctx, passkeySessionID)
	if err != nil {
		return AuthorizationResult{}, spanErr(span, err)
	}
	span.AddEvent("begun on server")

	credential, err := ac.SignChallenge(ctx, session.RequestOptions)
	if err != nil {
		return AuthorizationResult{}, spanErr(span, err)
	}
	span.AddEvent("credential obtained locally")

	result, err := ac.FinishAuthentication(ctx, passkeySessionID, session.CeremonySessionID, credential)
	if err != nil {
		return AuthorizationResult{}, spanErr(span, err)
	}
	span.AddEvent("finished on server")
	return result, nil
}
