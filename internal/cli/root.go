package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var version = "dev"

// Options are the command line flags
type Options struct {
	TeamsContext string
	UserAgent    string
	Locale       string
	Verbose      bool
	NoTUI        bool
}

// NewRootCommand builds the teamsprofile command. run is called with the parsed flags.
func NewRootCommand(run func(ctx context.Context, opts Options) error) *cobra.Command {
	var opts Options

	cmd := &cobra.Command{
		Use:     "teamsprofile",
		Short:   "Sign in with Microsoft Teams and show your Microsoft 365 profile",
		Version: version,
		Long: `teamsprofile signs in the way a Teams personal tab does: through the Teams
authentication dialog when a Teams context is available, or through the
Microsoft identity platform in the browser otherwise. It then reads your
profile from Microsoft Graph.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(cmd.ErrOrStderr(), opts)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.TeamsContext, "teams-context", "", "JSON file with the Teams context to sign in with")
	flags.StringVar(&opts.UserAgent, "user-agent", "", "browser user agent of the Teams client")
	flags.StringVar(&opts.Locale, "locale", "", "display language, e.g. zh-TW or en-US (default $TEAMS_LOCALE)")
	flags.BoolVar(&opts.NoTUI, "no-tui", false, "print plain text instead of the interactive view")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose debug output")

	return cmd
}

// Execute runs the command with the application wiring
func Execute(ctx context.Context) error {
	return NewRootCommand(runApp).ExecuteContext(ctx)
}

// setupLogging writes console logs to stderr. The interactive view owns the
// terminal, so its logs go to a file instead.
func setupLogging(stderr io.Writer, opts Options) error {
	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	out := stderr
	if !opts.NoTUI {
		f, err := os.OpenFile(filepath.Join(os.TempDir(), "teamsprofile.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return err
		}
		out = f
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05", NoColor: !opts.NoTUI})
	return nil
}
