package tui

import (
	"fmt"
	"strings"

	"github.com/jrsteele09/go-teams-profile/auth"
	"github.com/jrsteele09/go-teams-profile/internal/i18n"
	"github.com/jrsteele09/go-teams-profile/view"
	"golang.org/x/text/message"
)

// Render is a plain text rendering of snap for non-interactive output
func Render(snap auth.Snapshot, p *message.Printer) string {
	var b strings.Builder
	if title, body, ok := Banner(snap.Environment, p); ok {
		fmt.Fprintf(&b, "[%s] %s\n\n", title, body)
	}

	switch snap.Status {
	case view.StatusLoading:
		fmt.Fprintf(&b, "%s\n%s\n", p.Sprintf(i18n.MsgLoadingTitle), p.Sprintf(i18n.MsgLoadingBody))
	case view.StatusWaitingConsent:
		fmt.Fprintf(&b, "%s\n%s\n", p.Sprintf(i18n.MsgConsentTitle), p.Sprintf(i18n.MsgConsentBody))
	case view.StatusManual:
		fmt.Fprintf(&b, "%s\n%s\n%s: %s\n", p.Sprintf(i18n.MsgManualTitle), p.Sprintf(i18n.MsgManualBody),
			p.Sprintf(i18n.MsgManualKey), p.Sprintf(i18n.MsgManualButton))
	case view.StatusSuccess:
		fmt.Fprintf(&b, "%s\n", p.Sprintf(i18n.MsgSuccessTitle))
		if snap.User != nil {
			for _, row := range Rows(*snap.User, p) {
				fmt.Fprintf(&b, "  %s: %s\n", row.Label, row.Value)
			}
		}
	case view.StatusError:
		fmt.Fprintf(&b, "%s\n%s\n%s\n", p.Sprintf(i18n.MsgErrorTitle), errorText(snap.Err, p), p.Sprintf(i18n.MsgErrorHint))
	}
	return b.String()
}
