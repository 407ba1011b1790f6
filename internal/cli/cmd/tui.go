package cmd

import (
	"github.com/spf13/cobra"
)

func newTuiCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:           "tui <input> [output]",
		Short:         "Encode with the interactive progress view (q cancels)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd, args, flags, runMode{ForceTUI: true})
		},
	}
	flags.bind(cmd)
	// In TUI mode, '--no-ui' makes no sense.
	if f := cmd.Flags().Lookup("no-ui"); f != nil {
		f.Hidden = true
	}
	return cmd
}
