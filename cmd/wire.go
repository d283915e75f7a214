package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bnema/random-video-picker/internal/adapters/repo/jsonfile"
	"github.com/bnema/random-video-picker/internal/adapters/repo/sqlite"
	scanfs "github.com/bnema/random-video-picker/internal/adapters/scan/fs"
	"github.com/bnema/random-video-picker/internal/application"
	"github.com/bnema/random-video-picker/internal/config"
	"github.com/bnema/random-video-picker/internal/logging"
	"github.com/bnema/random-video-picker/internal/ports"
)

type app struct {
	cfg     config.Config
	logger  *slog.Logger
	ledger  *application.LedgerService
	scanner ports.Scanner
	closers []io.Closer
}

func wireApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg, err := config.Load(viper.New(), config.Options{})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	opts.apply(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		scanner: scanfs.NewScanner(cfg.Scan.Extensions, cfg.Scan.Exclude),
	}

	store, err := a.openLedgerStore()
	if err != nil {
		return nil, err
	}
	a.ledger = application.NewLedgerService(store, nil, logger)

	logger.Debug("wired application",
		"config_file", cfg.ConfigFile,
		"ledger_backend", cfg.Ledger.Backend,
		"ledger_path", cfg.Ledger.Path,
	)

	return a, nil
}

func (a *app) openLedgerStore() (ports.LedgerStore, error) {
	switch a.cfg.Ledger.Backend {
	case config.BackendSQLite:
		store, err := sqlite.NewStore(a.cfg.Ledger.Path)
		if err != nil {
			return nil, fmt.Errorf("wire history store: %w", err)
		}
		a.closers = append(a.closers, store)
		return store, nil
	default:
		store, err := jsonfile.NewStore(a.cfg.Ledger.Path)
		if err != nil {
			return nil, fmt.Errorf("wire history store: %w", err)
		}
		return store, nil
	}
}

func (a *app) close() {
	for _, closer := range a.closers {
		if err := closer.Close(); err != nil {
			a.logger.Warn("close resource", "error", err)
		}
	}
}
