package auth

import (
	"context"
	"errors"

	"github.com/jrsteele09/go-teams-profile/graph"
	interrors "github.com/jrsteele09/go-teams-profile/internal/errors"
	"github.com/jrsteele09/go-teams-profile/internal/i18n"
	"golang.org/x/text/message"
)

// Message is the localized text shown for err
func Message(err error, p *message.Printer) string {
	if err == nil {
		return p.Sprintf(i18n.MsgFlowInterrupted)
	}

	var statusErr *graph.StatusError
	if errors.As(err, &statusErr) {
		return p.Sprintf(i18n.MsgGraphError, statusErr.StatusCode)
	}
	if interrors.Is(err, interrors.ErrNoHostContext) {
		return p.Sprintf(i18n.MsgNoHostContext)
	}
	if errors.Is(err, context.Canceled) {
		return p.Sprintf(i18n.MsgFlowInterrupted)
	}

	switch KindOf(err) {
	case KindInteractionInProgress, KindRedirectPending:
		return p.Sprintf(i18n.MsgInteractionInProgress)
	case KindCancelled:
		return p.Sprintf(i18n.MsgCancelled)
	case KindPopupBlocked:
		return p.Sprintf(i18n.MsgPopupBlocked)
	case KindNotSupported:
		return p.Sprintf(i18n.MsgNotSupported)
	case KindEmbeddedBrowser, KindNotAllowedInContext:
		return p.Sprintf(i18n.MsgEmbeddedBrowser)
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return p.Sprintf(i18n.MsgUnknownError)
}
