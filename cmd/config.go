package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(cmd, opts)
			if err != nil {
				return err
			}
			defer app.close()

			out := cmd.OutOrStdout()
			if app.cfg.ConfigFile != "" {
				if _, err := fmt.Fprintf(out, "# loaded from %s\n", app.cfg.ConfigFile); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(out, "# data directory %s\n\n", app.cfg.DataDir); err != nil {
				return err
			}

			encoded, err := app.cfg.TOML()
			if err != nil {
				return err
			}
			_, err = out.Write(encoded)
			return err
		},
	}
}
