package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mungerd/rembobine/internal/cli"
	"github.com/mungerd/rembobine/internal/config"
	"github.com/mungerd/rembobine/internal/dirs"
	"github.com/mungerd/rembobine/internal/encoder"
	"github.com/mungerd/rembobine/internal/job"
	"github.com/mungerd/rembobine/internal/progress"
	"github.com/mungerd/rembobine/internal/ui"
	"github.com/mungerd/rembobine/internal/util"
	"github.com/mungerd/rembobine/internal/util/deps"
	"github.com/mungerd/rembobine/internal/util/format"
)

type runMode struct {
	ForceTUI bool
}

type runFlags struct {
	encode cli.EncodeFlags
	noUI   bool
	strict bool
}

func (f *runFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	f.encode.Bind(fs)
	fs.BoolVar(&f.noUI, "no-ui", false, "Disable TUI; use a plain progress bar")
	fs.BoolVar(&f.strict, "strict-exit", false, "Treat a non-zero encoder exit status as a failure")
}

func newRunCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:           "run <input> [output]",
		Short:         "Probe and encode a video",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd, args, flags, runMode{})
		},
	}
	flags.bind(cmd)
	return cmd
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var errLocked = errors.New("another rembobine encode is already running")

// acquireLock takes the single-encode lock in the state dir.
func acquireLock() (*flock.Flock, error) {
	path, err := dirs.LockPath()
	if err != nil {
		return nil, err
	}
	if err := dirs.EnsureAll(); err != nil {
		return nil, err
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, errLocked
	}
	return lock, nil
}

// newController builds a controller from the effective settings.
func newController(s config.Settings, bins encoder.Binaries, logger *slog.Logger) (*job.Controller, error) {
	cs, err := job.LookupCharset(s.Charset)
	if err != nil {
		return nil, err
	}
	return job.NewController(
		job.WithRunner(util.NewDefaultRunner(logger)),
		job.WithLogger(logger),
		job.WithBinaries(bins),
		job.WithGracePeriod(s.GracePeriod),
		job.WithCharset(cs),
		job.WithStrictExit(s.StrictExit),
		job.WithChunkSize(s.ChunkSize),
		job.WithVerbose(s.Verbose),
	), nil
}

// findBinaries resolves mencoder and mplayer from settings or PATH.
func findBinaries(s config.Settings) (encoder.Binaries, error) {
	enc, err := deps.FindEncoder(s.Mencoder)
	if err != nil {
		return encoder.Binaries{}, &ExitError{Code: ExitMissingDep, Err: err}
	}
	prb, err := deps.FindProbe(s.Mplayer)
	if err != nil {
		return encoder.Binaries{}, &ExitError{Code: ExitMissingDep, Err: err}
	}
	return encoder.Binaries{Encoder: enc, Probe: prb}, nil
}

func runEncode(cmd *cobra.Command, args []string, flags runFlags, mode runMode) error {
	opts, err := cli.Resolve(args, flags.encode)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	s := settingsFrom(cmd)

	bins, err := findBinaries(s)
	if err != nil {
		return err
	}

	useTUI := mode.ForceTUI || (!flags.noUI && isTerminal())
	logger, closer, err := newLogger(s, useTUI)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	defer closer.Close()

	ctrl, err := newController(s, bins, logger)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}

	lock, err := acquireLock()
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	defer func() { _ = lock.Unlock() }()

	ctx := cmd.Context()
	if useTUI {
		res, err := ui.Run(ctx, ctrl, opts)
		if err != nil {
			return exitFor(err)
		}
		return resultError(res)
	}

	out := cmd.OutOrStdout()
	info, err := ctrl.SelectInput(ctx, opts.InputPath)
	switch {
	case errors.Is(err, job.ErrProbeFailed):
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	case err != nil:
		return exitFor(err)
	case info != nil:
		fmt.Fprintf(out, "Input: %s (%s)\n", opts.InputPath, info.Summary())
	}

	rep := newBarReporter(cmd.ErrOrStderr())
	h, err := ctrl.StartEncode(ctx, opts, opts.OutputPath, rep)
	if err != nil {
		return exitFor(err)
	}
	res := h.Wait()
	if res.State == progress.StateCompleted {
		fmt.Fprintf(out, "Saved: %s (%s)\n", res.OutputPath, format.HumanizeBytes(res.Bytes))
	}
	return resultError(res)
}
