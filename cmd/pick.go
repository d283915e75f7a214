package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/bnema/random-video-picker/internal/adapters/probe/ffprobe"
	renderpick "github.com/bnema/random-video-picker/internal/adapters/render/pick"
	"github.com/bnema/random-video-picker/internal/application"
	"github.com/bnema/random-video-picker/internal/domain"
)

var errNoFolder = errors.New("no video folder: pass --folder, set scan.root or DEFAULT_VIDEO_FOLDER")

type pickOutput struct {
	Path      string           `json:"path"`
	PickCount int              `json:"pick_count"`
	Metadata  *domain.Metadata `json:"metadata,omitempty"`
}

func newPickCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick and record one video, then exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(cmd, opts)
			if err != nil {
				return err
			}
			defer app.close()

			if app.cfg.Scan.Root == "" {
				return errNoFolder
			}
			root, err := homedir.Expand(app.cfg.Scan.Root)
			if err != nil {
				return fmt.Errorf("expand folder %q: %w", app.cfg.Scan.Root, err)
			}

			ctx := cmd.Context()
			ledger, err := app.ledger.Load(ctx)
			if err != nil {
				return err
			}

			candidates, err := app.scanner.Scan(ctx, root, app.cfg.Scan.Recursive)
			if err != nil {
				return err
			}

			entry, err := application.NewSelector(nil).Select(candidates, ledger)
			if err != nil {
				return err
			}

			result := domain.Pick{Entry: entry}
			if metadata, probeErr := ffprobe.NewProber().Probe(ctx, entry.Path); probeErr == nil {
				result.Metadata = &metadata
			} else {
				app.logger.Debug("metadata probe failed", "path", entry.Path, "error", probeErr)
			}

			if _, err := app.ledger.Record(ctx, ledger, entry.Path); err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(pickOutput{
					Path:      entry.Path,
					PickCount: entry.PickCount,
					Metadata:  result.Metadata,
				})
			}

			renderpick.NewPresenter(cmd.OutOrStdout(), cmd.ErrOrStderr(), renderpick.WithoutQR()).ShowPick(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the pick as JSON")

	return cmd
}
