package auth

import "sync"

// ManualGate admits one manual sign-in attempt at a time
type ManualGate struct {
	lock sync.Mutex
}

// TryEnter reports whether the caller may start an attempt. A caller that
// enters must call Leave.
func (g *ManualGate) TryEnter() bool {
	return g.lock.TryLock()
}

func (g *ManualGate) Leave() {
	g.lock.Unlock()
}
