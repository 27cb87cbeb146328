// Package view holds the page state shared by the orchestrator and its renderers.
package view

// Status is the page state
type Status string

const (
	StatusLoading        Status = "loading"
	StatusWaitingConsent Status = "waitingConsent"
	StatusManual         Status = "manual"
	StatusSuccess        Status = "success"
	StatusError          Status = "error"
)

var transitions = map[Status][]Status{
	StatusLoading:        {StatusWaitingConsent, StatusManual, StatusSuccess, StatusError},
	StatusWaitingConsent: {StatusManual, StatusSuccess, StatusError, StatusLoading},
	StatusManual:         {StatusWaitingConsent},
}

// CanTransition reports whether the page may move from s to next.
// Success and error are terminal.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

func (s Status) String() string {
	return string(s)
}
