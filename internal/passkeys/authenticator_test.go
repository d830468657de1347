package passkeys

import (
	"context"

	"github.com/ente-io/passkeys-go/internal/api"
)

// fakeAuthenticator records the options it receives and replays canned
// results, standing in for the platform capability.
type fakeAuthenticator struct {
	createOptions *CreationOptions
	createResult  *Credential
	createErr     error
	createCalls   int

	getOptions *RequestOptions
	getResult  *Credential
	getErr     error
	getCalls   int
}

func (f *fakeAuthenticator) Create(_ context.Context, options CreationOptions) (*Credential, error) {
	f.createCalls++
	f.createOptions = &options
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createResult, nil
}

func (f *fakeAuthenticator) Get(_ context.Context, options RequestOptions) (*Credential, error) {
	f.getCalls++
	f.getOptions = &options
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getResult, nil
}

func newTestClient(baseURL string) *api.Client {
	return api.NewClient(api.Config{
		BaseURL:       baseURL,
		AuthToken:     "test-token",
		ClientPackage: "io.ente.accounts.web",
	})
}
