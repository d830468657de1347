// Package api provides the HTTP client for the relying party backend.
//
// Every ceremony call goes through Client, which enforces the shared
// response contract: any non-2xx status is fatal for the call and surfaces
// as a server-kind error carrying the status and URL. No call is retried.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/ente-io/passkeys-go/internal/platform/errors"
	"github.com/ente-io/passkeys-go/internal/platform/timeouts"
)

const (
	authTokenHeader     = "X-Auth-Token"
	clientPackageHeader = "X-Client-Package"
)

// Config carries the explicit request context the client needs. The auth
// token and client package tag are plain values here rather than ambient
// process state so ceremonies stay independently testable.
type Config struct {
	// BaseURL is the relying party API origin, e.g. https://api.ente.io.
	BaseURL string
	// AuthToken authenticates user-scoped endpoints. May be empty for
	// clients that only drive the public two-factor ceremony.
	AuthToken string
	// ClientPackage tags requests with the calling app's package name.
	ClientPackage string
	// HTTPClient overrides the transport; a 30s-timeout client is used
	// when nil.
	HTTPClient *http.Client
}

// Client is the HTTP transport shared by all ceremonies.
type Client struct {
	baseURL       string
	authToken     string
	clientPackage string
	httpClient    *http.Client
}

// NewClient builds a Client from explicit configuration.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeouts.HTTPRequest}
	}
	return &Client{
		baseURL:       strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		authToken:     cfg.AuthToken,
		clientPackage: cfg.ClientPackage,
		httpClient:    httpClient,
	}
}

// Get issues an authenticated GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out, true)
}

// Post issues an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPost, path, query, body, out, true)
}

// PostPublic issues an unauthenticated POST carrying only the optional
// client-package header. The two-factor ceremony endpoints use it because
// the caller does not yet hold a user token.
func (c *Client) PostPublic(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPost, path, query, body, out, false)
}

// Patch issues an authenticated PATCH; the response body is discarded.
func (c *Client) Patch(ctx context.Context, path string, query url.Values) error {
	return c.do(ctx, http.MethodPatch, path, query, nil, nil, true)
}

// Delete issues an authenticated DELETE; the response body is discarded.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, true)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, authed bool) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(apperrors.KindUnknown, "encode request body", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return apperrors.Wrap(apperrors.KindUnknown, "build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if authed && c.authToken != "" {
		req.Header.Set(authTokenHeader, c.authToken)
	}
	if c.clientPackage != "" {
		req.Header.Set(clientPackageHeader, c.clientPackage)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.KindServer, "call relying party", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		io.Copy(io.Discard, resp.Body)
		return apperrors.Server(resp.StatusCode, fullURL)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(apperrors.KindProtocol, "decode response body", err)
	}
	return nil
}
