package cmd

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/mungerd/rembobine/internal/config"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "config",
		Short:         "Print the effective configuration as TOML",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := writeSettings(cmd.OutOrStdout(), settingsFrom(cmd), config.ConfigFile()); err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			return nil
		},
	}
}

func writeSettings(w io.Writer, s config.Settings, file string) error {
	if file == "" {
		file = "(none)"
	}
	fmt.Fprintf(w, "# config file: %s\n", file)
	data, err := toml.Marshal(s)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
