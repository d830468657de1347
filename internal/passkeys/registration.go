package passkeys

import (
	"context"
	"encoding/json"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ente-io/passkeys-go/internal/api"
	apperrors "github.com/ente-io/passkeys-go/internal/platform/errors"
	"github.com/ente-io/passkeys-go/internal/wire"
)

const (
	registrationBeginPath  = "/passkeys/registration/begin"
	registrationFinishPath = "/passkeys/registration/finish"
)

// RegistrationCeremony drives begin, platform create and finish for adding
// a new passkey. Any failure abandons the ceremony; the caller restarts
// from BeginRegistration. Nothing is retried and no cleanup call is made
// for an abandoned begin session, which simply expires server-side.
type RegistrationCeremony struct {
	client        *api.Client
	authenticator Authenticator
	tracer        trace.Tracer
}

// NewRegistrationCeremony builds a registration ceremony driver.
func NewRegistrationCeremony(client *api.Client, authenticator Authenticator) *RegistrationCeremony {
	return &RegistrationCeremony{
		client:        client,
		authenticator: authenticator,
		tracer:        otel.Tracer(tracerName),
	}
}

type beginRegistrationResponse struct {
	SessionID string `json:"sessionID"`
	Options   struct {
		PublicKey creationOptionsWire `json:"publicKey"`
	} `json:"options"`
}

// creationOptionsWire is the wire form of the creation options. Only
// challenge and user.id need conversion; the remaining fields are carried
// through untouched.
type creationOptionsWire struct {
	Challenge              string          `json:"challenge"`
	User                   userEntityWire  `json:"user"`
	RP                     json.RawMessage `json:"rp,omitempty"`
	PubKeyCredParams       json.RawMessage `json:"pubKeyCredParams,omitempty"`
	Timeout                json.RawMessage `json:"timeout,omitempty"`
	ExcludeCredentials     json.RawMessage `json:"excludeCredentials,omitempty"`
	AuthenticatorSelection json.RawMessage `json:"authenticatorSelection,omitempty"`
	Attestation            json.RawMessage `json:"attestation,omitempty"`
}

type userEntityWire struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

type attestationResponseWire struct {
	AttestationObject string `json:"attestationObject"`
	ClientDataJSON    string `json:"clientDataJSON"`
}

type finishRegistrationRequest struct {
	ID       string                  `json:"id"`
	RawID    string                  `json:"rawId"`
	Type     string                  `json:"type"`
	Response attestationResponseWire `json:"response"`
}

// BeginRegistration asks the backend for creation options and converts the
// binary fields to platform form.
func (rc *RegistrationCeremony) BeginRegistration(ctx context.Context) (RegistrationSession, error) {
	var resp beginRegistrationResponse
	if err := rc.client.Get(ctx, registrationBeginPath, nil, &resp); err != nil {
		return RegistrationSession{}, err
	}
	if resp.SessionID == "" {
		return RegistrationSession{}, apperrors.E(apperrors.KindProtocol, "begin registration response missing sessionID")
	}
	pk := resp.Options.PublicKey
	if pk.Challenge == "" || pk.User.ID == "" {
		return RegistrationSession{}, apperrors.E(apperrors.KindProtocol, "begin registration response missing challenge or user id")
	}
	challenge, err := wire.Decode(pk.Challenge)
	if err != nil {
		return RegistrationSession{}, err
	}
	userID, err := wire.Decode(pk.User.ID)
	if err != nil {
		return RegistrationSession{}, err
	}
	return RegistrationSession{
		SessionID: resp.SessionID,
		CreationOptions: CreationOptions{
			Challenge: challenge,
			User: UserEntity{
				ID:          userID,
				Name:        pk.User.Name,
				DisplayName: pk.User.DisplayName,
			},
			RP:                     pk.RP,
			PubKeyCredParams:       pk.PubKeyCredParams,
			Timeout:                pk.Timeout,
			ExcludeCredentials:     pk.ExcludeCredentials,
			AuthenticatorSelection: pk.AuthenticatorSelection,
			Attestation:            pk.Attestation,
		},
	}, nil
}

// Register runs the whole registration ceremony for a new passkey labelled
// friendlyName.
func (rc *RegistrationCeremony) Register(ctx context.Context, friendlyName string) error {
	ctx, span := rc.tracer.Start(ctx, "passkeys.Register")
	defer span.End()

	session, err := rc.BeginRegistration(ctx)
	if err != nil {
		return spanErr(span, err)
	}
	span.AddEvent("begun on server")

	credential, err := rc.authenticator.Create(ctx, session.CreationOptions)
	if err != nil {
		return spanErr(span, apperrors.Wrap(apperrors.KindPlatform, "create credential", err))
	}
	span.AddEvent("credential created locally")

	attestation, err := credential.attestation()
	if err != nil {
		return spanErr(span, err)
	}

	body := finishRegistrationRequest{
		ID:    credential.ID,
		RawID: credential.ID,
		Type:  credential.Type,
		Response: attestationResponseWire{
			AttestationObject: wire.Encode(attestation.AttestationObject),
			ClientDataJSON:    wire.Encode(attestation.ClientDataJSON),
		},
	}
	query := url.Values{}
	query.Set("friendlyName", friendlyName)
	query.Set("sessionID", session.SessionID)
	if err := rc.client.Post(ctx, registrationFinishPath, query, body, nil); err != nil {
		return spanErr(span, err)
	}
	span.AddEvent("finished on server")
	return nil
}
