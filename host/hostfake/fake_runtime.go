package hostfake

import (
	"context"
	"errors"
	"sync"

	"github.com/jrsteele09/go-teams-profile/host"
)

var _ host.Runtime = (*FakeRuntime)(nil)

// FakeRuntime is a scriptable host runtime
type FakeRuntime struct {
	InitErr          error
	HostContext      *host.Context
	ContextErr       error
	AuthenticateFunc func(ctx context.Context, params host.AuthenticateParameters) (string, error)

	lock              sync.Mutex
	authenticateCalls []host.AuthenticateParameters
}

// NewFakeRuntime returns a runtime reporting hostContext
func NewFakeRuntime(hostContext *host.Context) *FakeRuntime {
	return &FakeRuntime{HostContext: hostContext}
}

func (f *FakeRuntime) Initialize(_ context.Context) error {
	return f.InitErr
}

func (f *FakeRuntime) Context(_ context.Context) (*host.Context, error) {
	if f.ContextErr != nil {
		return nil, f.ContextErr
	}
	return f.HostContext, nil
}

func (f *FakeRuntime) Authenticate(ctx context.Context, params host.AuthenticateParameters) (string, error) {
	f.lock.Lock()
	f.authenticateCalls = append(f.authenticateCalls, params)
	fn := f.AuthenticateFunc
	f.lock.Unlock()

	if fn == nil {
		return "", errors.New("authenticate not scripted")
	}
	return fn(ctx, params)
}

func (f *FakeRuntime) AuthToken(_ context.Context, _ bool) (string, error) {
	return "", errors.New("not supported")
}

// AuthenticateCalls returns the parameters of every Authenticate call so far
func (f *FakeRuntime) AuthenticateCalls() []host.AuthenticateParameters {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]host.AuthenticateParameters(nil), f.authenticateCalls...)
}
