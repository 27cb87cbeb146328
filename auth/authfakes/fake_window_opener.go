package authfakes

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jrsteele09/go-teams-profile/auth"
)

var _ auth.WindowOpener = (*FakeWindowOpener)(nil)

// FakeWindow is closed by the test
type FakeWindow struct {
	closed atomic.Bool
}

func (w *FakeWindow) Closed() bool {
	return w.closed.Load()
}

func (w *FakeWindow) Close() {
	w.closed.Store(true)
}

// FakeWindowOpener records opened URLs. OnOpen runs with each new window.
type FakeWindowOpener struct {
	OpenErr error
	OnOpen  func(url string, window *FakeWindow)

	lock   sync.Mutex
	opened []string
}

func (f *FakeWindowOpener) Open(_ context.Context, url string) (auth.Window, error) {
	f.lock.Lock()
	f.opened = append(f.opened, url)
	f.lock.Unlock()

	if f.OpenErr != nil {
		return nil, f.OpenErr
	}
	window := &FakeWindow{}
	if f.OnOpen != nil {
		go f.OnOpen(url, window)
	}
	return window, nil
}

func (f *FakeWindowOpener) Opened() []string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]string(nil), f.opened...)
}
