package auth

import (
	"errors"
	"fmt"
)

// Kind classifies a token acquisition failure
type Kind int

const (
	KindUnknown Kind = iota
	KindCancelled
	KindNotSupported
	KindPopupBlocked
	KindInteractionInProgress
	KindEmbeddedBrowser
	KindNotAllowedInContext
	// KindRedirectPending is control flow: the session is navigating to sign in
	KindRedirectPending
)

var kindNames = map[Kind]string{
	KindUnknown:               "unknown",
	KindCancelled:             "cancelled",
	KindNotSupported:          "not_supported",
	KindPopupBlocked:          "popup_blocked",
	KindInteractionInProgress: "interaction_in_progress",
	KindEmbeddedBrowser:       "embedded_browser",
	KindNotAllowedInContext:   "not_allowed_in_context",
	KindRedirectPending:       "redirect_pending",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a classified acquisition failure
type Error struct {
	Kind Kind
	Err  error
}

// NewError tags err with kind
func NewError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrRedirectPending is returned once a redirect has been started; the result
// arrives when the session resumes.
var ErrRedirectPending = NewError(KindRedirectPending, nil)

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr.Kind
	}
	return KindUnknown
}

func IsRedirectPending(err error) bool {
	return err != nil && KindOf(err) == KindRedirectPending
}

// IsEmbeddedBrowserClass reports failures where the host refused to show its
// dialog, so a separate window is worth trying
func IsEmbeddedBrowserClass(err error) bool {
	switch KindOf(err) {
	case KindEmbeddedBrowser, KindNotAllowedInContext, KindNotSupported:
		return true
	}
	return false
}

// RequiresManual reports failures the user can recover from with the manual
// sign-in action
func RequiresManual(err error) bool {
	switch KindOf(err) {
	case KindEmbeddedBrowser, KindNotAllowedInContext, KindCancelled, KindPopupBlocked:
		return true
	}
	return false
}
