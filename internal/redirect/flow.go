package redirect

import (
	"context"

	"github.com/ente-io/passkeys-go/internal/api"
	"github.com/ente-io/passkeys-go/internal/passkeys"
)

// Flow ties an authentication ceremony to the redirect guard: the host
// application hands it the outer passkey session and the redirect target it
// received out-of-band, and gets back the guarded navigation URL.
type Flow struct {
	Ceremony *passkeys.AuthenticationCeremony
	Guard    Guard
}

// NewFlow builds the post-authentication flow from client configuration and
// the platform capability.
func NewFlow(cfg passkeys.Config, authenticator passkeys.Authenticator) *Flow {
	client := api.NewClient(api.Config{
		BaseURL:       cfg.APIURL,
		ClientPackage: cfg.ClientPackage,
	})
	return &Flow{
		Ceremony: passkeys.NewAuthenticationCeremony(client, authenticator),
		Guard:    NewGuard(cfg),
	}
}

// NewFlowFromEnv builds the flow from the ENTE_PASSKEYS_* environment.
func NewFlowFromEnv(authenticator passkeys.Authenticator) (*Flow, error) {
	cfg, err := passkeys.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return NewFlow(cfg, authenticator), nil
}

// Run authenticates the outer passkey session and returns the navigation
// URL carrying the authorization result. The redirect target is checked
// before the ceremony output crosses back; a disallowed target fails
// closed.
func (f *Flow) Run(ctx context.Context, passkeySessionID, redirectURL string) (string, error) {
	result, err := f.Ceremony.Authenticate(ctx, passkeySessionID)
	if err != nil {
		return "", err
	}
	return f.Guard.FinalizeRedirect(redirectURL, result)
}
