package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/bnema/random-video-picker/internal/adapters/probe/ffprobe"
	"github.com/bnema/random-video-picker/internal/adapters/prompt/tui"
	"github.com/bnema/random-video-picker/internal/adapters/render/pick"
	"github.com/bnema/random-video-picker/internal/adapters/stream"
	"github.com/bnema/random-video-picker/internal/application"
	"github.com/bnema/random-video-picker/internal/config"
	"github.com/bnema/random-video-picker/internal/ports"
	"github.com/bnema/random-video-picker/internal/selection"
)

func Execute() error {
	return newRootCmd().Execute()
}

type rootOptions struct {
	folder       string
	nonRecursive bool
	noStreaming  bool
	port         int
	logLevel     string
}

// apply lets command-line flags win over config.toml and the environment.
func (o *rootOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	if o.folder != "" {
		cfg.Scan.Root = o.folder
	}
	if o.nonRecursive {
		cfg.Scan.Recursive = false
	}
	if o.noStreaming {
		cfg.Stream.Enabled = false
	}
	if flag := cmd.Flags().Lookup("port"); flag != nil && flag.Changed {
		cfg.Stream.Port = o.port
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           config.AppName,
		Short:         "Random Video Picker (rvp): pick a video you have watched least",
		Long:          "rvp scans a folder for videos, picks one at random favouring files you have picked less often, records the pick and serves it over HTTP so another device can play it.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInteractive(cmd, opts)
		},
	}

	persistent := rootCmd.PersistentFlags()
	persistent.StringVarP(&opts.folder, "folder", "f", "", "video folder to scan (overrides scan.root and DEFAULT_VIDEO_FOLDER)")
	persistent.BoolVar(&opts.nonRecursive, "non-recursive", false, "only scan the top level of the folder")
	persistent.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error or off")

	rootCmd.Flags().BoolVar(&opts.noStreaming, "no-streaming", false, "do not start the HTTP stream server")
	rootCmd.Flags().IntVar(&opts.port, "port", 8080, "stream server port")

	rootCmd.AddCommand(
		newVersionCmd(),
		newPickCmd(opts),
		newHistoryCmd(opts),
		newConfigCmd(opts),
	)

	return rootCmd
}

func runInteractive(cmd *cobra.Command, opts *rootOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := wireApp(cmd, opts)
	if err != nil {
		return err
	}
	defer app.close()

	ledger, err := app.ledger.Load(ctx)
	if err != nil {
		return err
	}

	publisher, streamURL, stopStreaming := startStreaming(app.cfg.Stream, selection.NewSlot(), app.logger)
	defer stopStreaming()

	session := application.NewSession(application.SessionDeps{
		Ledger:     app.ledger,
		Selector:   application.NewSelector(nil),
		Scanner:    newSpinnerScanner(app.scanner, cmd.OutOrStdout()),
		Prober:     ffprobe.NewProber(),
		Prompter:   tui.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
		Presenter:  pick.NewPresenter(cmd.OutOrStdout(), cmd.ErrOrStderr()),
		Publisher:  publisher,
		ExpandRoot: homedir.Expand,
		Logger:     app.logger,
	}, application.SessionOptions{
		InitialRoot: app.cfg.Scan.Root,
		Recursive:   app.cfg.Scan.Recursive,
		StreamURL:   streamURL,
	}, ledger)

	return session.Run(ctx)
}

// startStreaming serves slot over HTTP. A server that cannot start is not
// fatal: the session then runs without a publisher or URL.
func startStreaming(cfg config.StreamConfig, slot *selection.Slot, logger *slog.Logger) (ports.SelectionPublisher, string, func()) {
	if !cfg.Enabled {
		return nil, "", func() {}
	}

	responder, err := stream.Start(stream.Config{Host: cfg.Host, Port: cfg.Port}, slot, logger)
	if err != nil {
		logger.Warn("streaming disabled", "error", err)
		slot.Clear()
		return nil, "", func() {}
	}

	return slot, responder.URL(), func() {
		shutdownResponder(responder, cfg.ShutdownTimeout, logger)
	}
}

func shutdownResponder(responder *stream.Responder, timeout time.Duration, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := responder.Shutdown(ctx); err != nil {
		logger.Warn("stream server shutdown", "error", err)
	}
}
