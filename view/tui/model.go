// Package tui renders the sign-in state in the terminal.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jrsteele09/go-teams-profile/auth"
	"github.com/jrsteele09/go-teams-profile/internal/i18n"
	"github.com/jrsteele09/go-teams-profile/view"
	"golang.org/x/text/message"
)

// SnapshotMsg carries a new sign-in state
type SnapshotMsg auth.Snapshot

type manualDoneMsg struct {
	err error
}

// Styles contains lipgloss styles for the TUI
type Styles struct {
	Title   lipgloss.Style
	Body    lipgloss.Style
	Banner  lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Label   lipgloss.Style
	Button  lipgloss.Style
	Muted   lipgloss.Style
}

// DefaultStyles returns the default lipgloss styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")), // Purple
		Body: lipgloss.NewStyle().
			MarginBottom(1),
		Banner: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			MarginBottom(1),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")), // Green
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")). // Gray
			Width(16),
		Button: lipgloss.NewStyle().
			Background(lipgloss.Color("63")).
			Foreground(lipgloss.Color("230")).
			Bold(true).
			Padding(0, 1),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}

// Model is the bubbletea model of the sign-in page
type Model struct {
	ctx        context.Context
	snapshot   auth.Snapshot
	printer    *message.Printer
	manualAuth func(ctx context.Context) error
	spinner    spinner.Model
	styles     Styles
	quitting   bool
}

// NewModel creates a model showing initial. manualAuth runs when the user
// confirms manual sign-in.
func NewModel(ctx context.Context, initial auth.Snapshot, printer *message.Printer, manualAuth func(ctx context.Context) error) Model {
	return Model{
		ctx:        ctx,
		snapshot:   initial,
		printer:    printer,
		manualAuth: manualAuth,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		styles:     DefaultStyles(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case SnapshotMsg:
		m.snapshot = auth.Snapshot(msg)
		return m, nil

	case manualDoneMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "enter":
		if m.snapshot.Status != view.StatusManual || m.snapshot.ManualInProgress || m.manualAuth == nil {
			return m, nil
		}
		m.snapshot.ManualInProgress = true
		manualAuth, ctx := m.manualAuth, m.ctx
		return m, func() tea.Msg {
			return manualDoneMsg{err: manualAuth(ctx)}
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	if title, body, ok := Banner(m.snapshot.Environment, m.printer); ok {
		b.WriteString(m.styles.Banner.Render(m.styles.Title.Render(title) + "\n" + body))
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(m.printer.Sprintf(i18n.MsgQuitHint)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderStatus() string {
	p := m.printer
	switch m.snapshot.Status {
	case view.StatusLoading:
		return fmt.Sprintf("%s %s\n%s\n", m.spinner.View(), m.styles.Title.Render(p.Sprintf(i18n.MsgLoadingTitle)), p.Sprintf(i18n.MsgLoadingBody))

	case view.StatusWaitingConsent:
		return fmt.Sprintf("%s %s\n%s\n", m.spinner.View(), m.styles.Title.Render(p.Sprintf(i18n.MsgConsentTitle)), p.Sprintf(i18n.MsgConsentBody))

	case view.StatusManual:
		label := p.Sprintf(i18n.MsgManualButton)
		if m.snapshot.ManualInProgress {
			label = p.Sprintf(i18n.MsgManualBusy)
		}
		return fmt.Sprintf("%s\n%s\n%s %s\n%s\n",
			m.styles.Title.Render(p.Sprintf(i18n.MsgManualTitle)),
			m.styles.Body.Render(p.Sprintf(i18n.MsgManualBody)),
			m.styles.Button.Render(label),
			m.styles.Muted.Render(p.Sprintf(i18n.MsgManualKey)),
			m.styles.Muted.Render(p.Sprintf(i18n.MsgManualHint)))

	case view.StatusSuccess:
		var b strings.Builder
		b.WriteString(m.styles.Success.Render(p.Sprintf(i18n.MsgSuccessTitle)))
		b.WriteString("\n")
		if m.snapshot.User != nil {
			for _, row := range Rows(*m.snapshot.User, p) {
				b.WriteString(m.styles.Label.Render(row.Label) + row.Value + "\n")
			}
		}
		return b.String()

	case view.StatusError:
		return fmt.Sprintf("%s\n%s\n%s\n",
			m.styles.Error.Render(p.Sprintf(i18n.MsgErrorTitle)),
			errorText(m.snapshot.Err, p),
			m.styles.Muted.Render(p.Sprintf(i18n.MsgErrorHint)))
	}
	return ""
}

func errorText(err error, p *message.Printer) string {
	if err == nil {
		return p.Sprintf(i18n.MsgErrorFallback)
	}
	return auth.Message(err, p)
}
