package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mungerd/rembobine/internal/cli"
	"github.com/mungerd/rembobine/internal/encoder"
	"github.com/mungerd/rembobine/internal/model"
	"github.com/mungerd/rembobine/internal/util/media"
	"github.com/mungerd/rembobine/internal/util/quality"
)

func newPlanCmd() *cobra.Command {
	var flags cli.EncodeFlags
	cmd := &cobra.Command{
		Use:           "plan <input> [output]",
		Short:         "Show the mencoder command without running it",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := cli.Resolve(args, flags)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			s := settingsFrom(cmd)
			// plan does not require mencoder to be installed.
			return printPlan(cmd.OutOrStdout(), s.Mencoder, opts)
		},
	}
	flags.Bind(cmd.Flags())
	return cmd
}

// printPlan outputs the encode that run would launch.
func printPlan(w io.Writer, binary string, opts model.Options) error {
	opts = opts.WithOutput(media.OutputPath(opts.InputPath, opts.OutputPath))
	if media.SamePath(opts.InputPath, opts.OutputPath) {
		return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("%w: output %q would overwrite the input", model.ErrInvalidOption, opts.OutputPath)}
	}
	spec, err := encoder.BuildEncodeCommand(binary, opts)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}

	resolution := string(opts.Resolution)
	if aspect := opts.Resolution.Aspect(); aspect != "" {
		resolution += " (" + aspect + ")"
	}
	filters := strings.Join(encoder.Filters(opts), ",")
	if filters == "" {
		filters = "none"
	}

	fmt.Fprintln(w, "Encode plan:")
	fmt.Fprintf(w, "- Input:       %s\n", opts.InputPath)
	fmt.Fprintf(w, "- Output:      %s\n", opts.OutputPath)
	fmt.Fprintf(w, "- Resolution:  %s\n", resolution)
	fmt.Fprintf(w, "- Rotation:    %s\n", opts.Rotation)
	fmt.Fprintf(w, "- Quality:     %d (crf %s)\n", opts.Quality, quality.FormatCRF(quality.CRF(opts.Quality)))
	fmt.Fprintf(w, "- Filters:     %s\n", filters)
	fmt.Fprintf(w, "- Command:     %s\n", spec.String())
	return nil
}
