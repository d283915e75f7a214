package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/random-video-picker/internal/domain"
)

const historyTimeLayout = "2006-01-02 15:04:05"

var errLimitNegative = errors.New("--limit must not be negative")

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past picks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 0 {
				return errLimitNegative
			}

			app, err := wireApp(cmd, opts)
			if err != nil {
				return err
			}
			defer app.close()

			ledger, err := app.ledger.Load(cmd.Context())
			if err != nil {
				return err
			}

			return writeHistoryOutput(cmd, ledger.Recent(limit), asJSON)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of entries to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print history as JSON")

	return cmd
}

func writeHistoryOutput(cmd *cobra.Command, ledger domain.Ledger, asJSON bool) error {
	if asJSON {
		if ledger == nil {
			ledger = domain.Ledger{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(ledger)
	}

	out := cmd.OutOrStdout()
	if len(ledger) == 0 {
		_, err := fmt.Fprintln(out, "History is empty.")
		return err
	}

	for _, entry := range ledger {
		if _, err := fmt.Fprintf(out, "%s  %s\n", entry.PickedAt.In(time.Local).Format(historyTimeLayout), entry.Path); err != nil {
			return err
		}
	}
	return nil
}
