package passkeys

import (
	"context"

	apperrors "github.com/ente-io/passkeys-go/internal/platform/errors"
)

// Authenticator is the platform credential capability. Implementations wrap
// a browser bridge or an OS authenticator API; the client trusts the
// returned credential and never inspects its semantic content.
//
// Both calls block until the user completes or abandons the interaction.
// Rejections, timeouts and user cancellation all surface as errors, which
// the ceremonies classify as platform failures.
type Authenticator interface {
	// Create makes a new credential for the decoded creation options.
	Create(ctx context.Context, options CreationOptions) (*Credential, error)
	// Get proves possession of an existing credential.
	Get(ctx context.Context, options RequestOptions) (*Credential, error)
}

// Credential is the platform capability's result. Exactly one response
// variant is set, matching the ceremony that produced it.
type Credential struct {
	ID   string
	Type string

	Attestation *AttestationResponse
	Assertion   *AssertionResponse
}

// AttestationResponse carries the raw buffers produced during credential
// creation.
type AttestationResponse struct {
	AttestationObject []byte
	ClientDataJSON    []byte
}

// AssertionResponse carries the raw buffers produced during authentication.
type AssertionResponse struct {
	AuthenticatorData []byte
	ClientDataJSON    []byte
	Signature         []byte
	// UserHandle is nil when the authenticator supplied none.
	UserHandle []byte
}

// attestation extracts the creation response, failing with a protocol error
// when the credential is of the wrong kind.
func (c *Credential) attestation() (*AttestationResponse, error) {
	if c == nil || c.Attestation == nil {
		return nil, apperrors.E(apperrors.KindProtocol, "credential does not carry an attestation response")
	}
	return c.Attestation, nil
}

// assertion extracts the authentication response, failing with a protocol
// error when the credential is of the wrong kind.
func (c *Credential) assertion() (*AssertionResponse, error) {
	if c == nil || c.Assertion == nil {
		return nil, apperrors.E(apperrors.KindProtocol, "credential does not carry an assertion response")
	}
	return c.Assertion, nil
}
