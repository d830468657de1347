package passkeys

import (
	"context"
	"net/url"
	"strings"

	"github.com/ente-io/passkeys-go/internal/api"
	apperrors "github.com/ente-io/passkeys-go/internal/platform/errors"
)

const passkeysPath = "/passkeys"

// Manager performs the passkey management calls that need no ceremony.
type Manager struct {
	client *api.Client
}

// NewManager builds a passkey manager over the given transport.
func NewManager(client *api.Client) *Manager {
	return &Manager{client: client}
}

type listPasskeysResponse struct {
	Passkeys []Passkey `json:"passkeys"`
}

// ListPasskeys returns the user's registered passkeys.
func (m *Manager) ListPasskeys(ctx context.Context) ([]Passkey, error) {
	var resp listPasskeysResponse
	if err := m.client.Get(ctx, passkeysPath, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Passkeys, nil
}

// RenamePasskey updates a passkey's user-assigned label.
func (m *Manager) RenamePasskey(ctx context.Context, id, friendlyName string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.E(apperrors.KindInvalidInput, "passkey id is required")
	}
	if strings.TrimSpace(friendlyName) == "" {
		return apperrors.E(apperrors.KindInvalidInput, "friendly name is required")
	}
	query := url.Values{}
	query.Set("friendlyName", friendlyName)
	return m.client.Patch(ctx, passkeysPath+"/"+url.PathEscape(id), query)
}

// DeletePasskey removes a passkey by id.
func (m *Manager) DeletePasskey(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.E(apperrors.KindInvalidInput, "passkey id is required")
	}
	return m.client.Delete(ctx, passkeysPath+"/"+url.PathEscape(id))
}
