// Package redirect guards post-authentication navigation targets.
//
// The application that initiated an authentication ceremony supplies a
// redirect URL out-of-band. The guard validates it against first-party
// allow-lists before any ceremony output crosses back; a disallowed target
// blocks the redirect entirely.
package redirect

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/ente-io/passkeys-go/internal/passkeys"
	apperrors "github.com/ente-io/passkeys-go/internal/platform/errors"
	"github.com/ente-io/passkeys-go/internal/wire"
)

// responseParam carries the encoded authorization result back to the
// initiating application.
const responseParam = "response"

// Guard holds the redirect allow-list policy.
//
// Dev must be explicitly enabled for localhost targets to pass. Keeping it
// explicit avoids shipping a production build that trusts loopback URLs.
type Guard struct {
	Dev bool
	// HostSuffixes are first-party domain suffixes such as ".ente.io".
	// A suffix matches the apex and any subdomain, with or without the
	// leading dot in the configured value.
	HostSuffixes []string
	// Schemes are first-party custom schemes such as "ente".
	Schemes []string
	// Hosts are exact first-party hosts allowed in addition to the
	// suffixes, such as the accounts origin.
	Hosts []string
}

// NewGuard builds a Guard from client configuration. The accounts origin's
// host is always allowed so the post-authentication flow can land back on
// the accounts app.
func NewGuard(cfg passkeys.Config) Guard {
	g := Guard{
		Dev:          cfg.Dev,
		HostSuffixes: cfg.RedirectHostSuffixes,
		Schemes:      cfg.RedirectSchemes,
	}
	if parsed, err := url.Parse(cfg.AccountsURL); err == nil {
		if host := strings.ToLower(parsed.Hostname()); host != "" {
			g.Hosts = append(g.Hosts, host)
		}
	}
	return g
}

// IsAllowed reports whether url is an acceptable redirect target. It is a
// pure predicate and must be consulted before any redirect is performed; a
// false result fails closed.
func (g Guard) IsAllowed(rawURL string) bool {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	if g.Dev && host == "localhost" {
		return true
	}
	scheme := strings.ToLower(parsed.Scheme)
	for _, allowed := range g.Schemes {
		if scheme == strings.ToLower(strings.TrimSpace(allowed)) && scheme != "" {
			return true
		}
	}
	if host == "" {
		return false
	}
	for _, allowed := range g.Hosts {
		if host == strings.ToLower(strings.TrimSpace(allowed)) {
			return true
		}
	}
	for _, suffix := range g.HostSuffixes {
		if matchesHostSuffix(host, suffix) {
			return true
		}
	}
	return false
}

// FinalizeRedirect returns the navigation URL carrying the serialized
// authorization result as a query parameter. The target is never mutated
// beyond appending that parameter. Navigation itself belongs to the
// caller; this is the sole point where ceremony output crosses back to the
// initiating application.
func (g Guard) FinalizeRedirect(rawURL string, result passkeys.AuthorizationResult) (string, error) {
	if !g.IsAllowed(rawURL) {
		return "", apperrors.Ef(apperrors.KindForbidden, "redirect target %q is not allow-listed", rawURL)
	}
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindForbidden, "parse redirect target", err)
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindUnknown, "encode authorization result", err)
	}
	query := parsed.Query()
	query.Set(responseParam, wire.Encode(payload))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

// matchesHostSuffix accepts the apex itself or any subdomain of it, never a
// host that merely ends in the same characters ("evilente.io" for "ente.io").
func matchesHostSuffix(host, suffix string) bool {
	apex := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(suffix)), ".")
	if apex == "" {
		return false
	}
	return host == apex || strings.HasSuffix(host, "."+apex)
}
