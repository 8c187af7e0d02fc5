// Package cli implements travelerctl, a terminal front end for the traveler
// registration server. Each command drives the same controller the
// registration page uses, with terminal implementations of its views.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pkordes/traveler-registration/internal/client"
	"github.com/pkordes/traveler-registration/internal/controller"
	"github.com/pkordes/traveler-registration/internal/grid"
)

// DefaultURL is used when neither --url nor TRAVELERS_URL is set.
const DefaultURL = "http://localhost:8080"

type options struct {
	url      string
	user     string
	password string
	dir      string
	verbose  bool
}

// resolve fills unset connection options from the environment.
func (o *options) resolve(cmd *cobra.Command) {
	fromEnv := func(flag string, dst *string, key, fallback string) {
		if cmd.Flags().Changed(flag) {
			return
		}
		if v := os.Getenv(key); v != "" {
			*dst = v
			return
		}
		if *dst == "" {
			*dst = fallback
		}
	}
	fromEnv("url", &o.url, "TRAVELERS_URL", DefaultURL)
	fromEnv("user", &o.user, "TRAVELERS_USER", "")
	fromEnv("password", &o.password, "TRAVELERS_PASSWORD", "")
}

// NewRootCmd builds the travelerctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "travelerctl",
		Short: "Register, list and export travelers from the terminal",
		Long: `travelerctl talks to a traveler registration server.

It lists and searches registered travelers, registers new ones with the same
validation the registration page applies, exports the table to a spreadsheet
and downloads database backups.

Connection settings fall back to TRAVELERS_URL, TRAVELERS_USER and
TRAVELERS_PASSWORD, which may also come from a .env file.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			opts.resolve(cmd)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.url, "url", "", "Server base URL (default $TRAVELERS_URL or "+DefaultURL+")")
	f.StringVar(&opts.user, "user", "", "Operator username (default $TRAVELERS_USER)")
	f.StringVar(&opts.password, "password", "", "Operator password (default $TRAVELERS_PASSWORD)")
	f.StringVar(&opts.dir, "dir", ".", "Directory downloads and exports are saved to")
	f.BoolVar(&opts.verbose, "verbose", false, "Log diagnostics to stderr")

	cmd.AddCommand(
		newStatusCmd(opts),
		newListCmd(opts),
		newRegisterCmd(opts),
		newExportCmd(opts),
		newBackupCmd(opts),
	)
	return cmd
}

// newLogger writes diagnostics as text to the command's stderr.
func newLogger(cmd *cobra.Command, opts *options) *slog.Logger {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// session is a signed-in client and the controller driving it.
type session struct {
	client *client.Client
	ctrl   *controller.Controller
}

// connect builds the client and controller for one command run. table is
// where the controller draws the grid. A configured user is signed in first.
func connect(ctx context.Context, cmd *cobra.Command, opts *options, table grid.View) (*session, error) {
	log := newLogger(cmd, opts)

	saver := client.DirSaver{Dir: opts.dir}
	c, err := client.New(opts.url, client.WithSaver(saver))
	if err != nil {
		return nil, err
	}
	if opts.user != "" {
		if err := c.Login(ctx, opts.user, opts.password); err != nil {
			return nil, fmt.Errorf("sign in as %s: %w", opts.user, err)
		}
		log.Debug("signed in", "user", opts.user, "url", opts.url)
	}

	ctrl := controller.New(controller.Deps{
		Fetcher:   c,
		Navigator: c,
		Saver:     saver,
		Notifier:  lineNotifier{w: cmd.ErrOrStderr()},
		Status:    statusLine{w: cmd.OutOrStdout()},
		Table:     table,
		Log:       log,
	})
	return &session{client: c, ctrl: ctrl}, nil
}
