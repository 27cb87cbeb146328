package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jrsteele09/go-teams-profile/auth"
	"github.com/jrsteele09/go-teams-profile/authpage"
	"github.com/jrsteele09/go-teams-profile/graph"
	"github.com/jrsteele09/go-teams-profile/host/contextfile"
	"github.com/jrsteele09/go-teams-profile/identity"
	"github.com/jrsteele09/go-teams-profile/internal/config"
	"github.com/jrsteele09/go-teams-profile/internal/i18n"
	"github.com/jrsteele09/go-teams-profile/internal/utils"
	"github.com/jrsteele09/go-teams-profile/sessions"
	"github.com/jrsteele09/go-teams-profile/token"
	"github.com/jrsteele09/go-teams-profile/view"
	"github.com/jrsteele09/go-teams-profile/view/tui"
	"github.com/pkg/browser"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/message"
)

func runApp(ctx context.Context, opts Options) error {
	c := config.New()

	store := sessions.NewMemoryStore()
	log.Debug().Str("session", store.ID()).Msg("Session started")
	defer store.Clear()

	cache := token.NewCache(store,
		token.WithExpiryMargin(c.GetTokenExpiryMargin()),
		token.WithDefaultLifetime(c.GetDefaultTokenLifetime()),
	)

	page, err := authpage.New(ctx, authpage.Config{
		AppName:   c.GetAppName(),
		ClientID:  c.GetClientID(),
		Authority: c.GetAuthority(),
		Scopes:    c.GetScopes(),
		Port:      c.GetAuthPagePort(),
	}, cache)
	if err != nil {
		return errors.Wrap(err, "start auth page")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := page.Shutdown(shutdownCtx); err != nil {
			log.Err(err).Msg("Auth page shutdown")
		}
	}()

	opener := authpage.NewBrowserOpener(page)
	width, height := c.GetAuthWindowSize()

	service, err := auth.NewService(auth.Dependencies{
		Runtime: contextfile.New(opts.TeamsContext, opener, contextfile.WithUserAgent(opts.UserAgent)),
		Identity: identity.NewClient(c.GetClientID(), c.GetAuthority(), store,
			identity.WithScopes(c.GetScopes()...),
			identity.WithRedirectURI(c.GetRedirectURI()),
			identity.WithOpenURL(browser.OpenURL),
		),
		Cache:       cache,
		Graph:       graph.NewClient(cache, graph.WithBaseURL(c.GetGraphBaseURL())),
		Opener:      opener,
		AuthPageURL: page.AuthURL(),
	},
		auth.WithUserAgent(opts.UserAgent),
		auth.WithEmbeddedOptions(
			auth.WithWindowSize(width, height),
			auth.WithPollInterval(c.GetAuthWindowPollInterval()),
		),
	)
	if err != nil {
		return err
	}

	printer := i18n.Printer(utils.Coalesce(opts.Locale, c.GetLocale()))
	if opts.NoTUI {
		return runPlain(ctx, service, printer, os.Stdin, os.Stdout)
	}
	return runInteractive(ctx, service, printer)
}

func runInteractive(ctx context.Context, service *auth.Service, printer *message.Printer) error {
	model := tui.NewModel(ctx, service.Snapshot(), printer, service.ManualAuth)
	program := tea.NewProgram(model, tea.WithContext(ctx))
	service.Observe(func(snap auth.Snapshot) {
		program.Send(tui.SnapshotMsg(snap))
	})

	go func() {
		if err := service.Run(ctx); err != nil {
			log.Debug().Err(err).Msg("Sign-in ended with an error")
		}
	}()

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// runPlain signs in and prints the result. In the manual state it waits for
// Enter on in before trying again.
func runPlain(ctx context.Context, service *auth.Service, printer *message.Printer, in io.Reader, out io.Writer) error {
	err := service.Run(ctx)
	snap := service.Snapshot()
	fmt.Fprint(out, tui.Render(snap, printer))

	if snap.Status == view.StatusManual {
		if _, readErr := bufio.NewReader(in).ReadString('\n'); readErr != nil && !errors.Is(readErr, io.EOF) {
			return readErr
		}
		err = service.ManualAuth(ctx)
		fmt.Fprint(out, "\n"+tui.Render(service.Snapshot(), printer))
	}
	return err
}
