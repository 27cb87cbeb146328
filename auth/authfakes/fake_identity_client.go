package authfakes

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-teams-profile/auth"
)

var _ auth.IdentityClient = (*FakeIdentityClient)(nil)

// FakeIdentityClient simulates a redirecting public client. A started redirect
// completes with NextToken, which the following HandleRedirect reports.
type FakeIdentityClient struct {
	InitErr    error
	Known      []auth.Account
	SilentFunc func(account auth.Account) (*auth.RedirectResult, error)
	NextToken  string

	lock      sync.Mutex
	pending   *auth.RedirectResult
	initCalls int
	redirects []string
}

func NewFakeIdentityClient() *FakeIdentityClient {
	return &FakeIdentityClient{}
}

func (f *FakeIdentityClient) Initialize(_ context.Context) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.initCalls++
	return f.InitErr
}

func (f *FakeIdentityClient) HandleRedirect(_ context.Context) (*auth.RedirectResult, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	result := f.pending
	f.pending = nil
	return result, nil
}

func (f *FakeIdentityClient) Accounts(_ context.Context) ([]auth.Account, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]auth.Account(nil), f.Known...), nil
}

func (f *FakeIdentityClient) AcquireTokenSilent(_ context.Context, account auth.Account) (*auth.RedirectResult, error) {
	if f.SilentFunc == nil {
		return nil, auth.NewError(auth.KindInteractionInProgress, nil)
	}
	return f.SilentFunc(account)
}

func (f *FakeIdentityClient) AcquireTokenRedirect(_ context.Context, account auth.Account, loginHint string) error {
	f.startRedirect("acquire:"+loginHint, &account)
	return nil
}

func (f *FakeIdentityClient) LoginRedirect(_ context.Context, loginHint string) error {
	f.startRedirect("login:"+loginHint, nil)
	return nil
}

func (f *FakeIdentityClient) startRedirect(kind string, account *auth.Account) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.redirects = append(f.redirects, kind)
	if f.NextToken != "" {
		f.pending = &auth.RedirectResult{AccessToken: f.NextToken, Account: account}
	}
}

// InitCalls returns how often Initialize was called
func (f *FakeIdentityClient) InitCalls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.initCalls
}

// Redirects lists the redirects started so far as "login:<hint>" or "acquire:<hint>"
func (f *FakeIdentityClient) Redirects() []string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]string(nil), f.redirects...)
}
