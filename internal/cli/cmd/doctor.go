package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mungerd/rembobine/internal/util/deps"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Diagnose external dependencies (mencoder, mplayer)",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := settingsFrom(cmd)
			checks := []struct {
				name string
				find func(string) (string, error)
				arg  string
			}{
				{"mencoder", deps.FindEncoder, s.Mencoder},
				{"mplayer", deps.FindProbe, s.Mplayer},
			}

			var rows [][]string
			var firstErr error
			for _, c := range checks {
				path, err := c.find(c.arg)
				status := "ok"
				if err != nil {
					status = "missing"
					path = err.Error()
					if firstErr == nil {
						firstErr = err
					}
				}
				rows = append(rows, []string{c.name, status, path})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Tool", "Status", "Path"}, rows))
			if firstErr != nil {
				return &ExitError{Code: ExitMissingDep, Err: firstErr}
			}
			return nil
		},
	}
}
