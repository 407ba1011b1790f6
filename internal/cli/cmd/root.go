package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mungerd/rembobine/internal/config"
	"github.com/mungerd/rembobine/internal/dirs"
	"github.com/mungerd/rembobine/internal/job"
	"github.com/mungerd/rembobine/internal/logging"
	"github.com/mungerd/rembobine/internal/model"
	"github.com/mungerd/rembobine/internal/progress"
)

const (
	ExitOK             = 0
	ExitCLIError       = 1
	ExitMissingDep     = 2
	ExitLaunchError    = 3
	ExitTranscodeError = 4
	ExitCancelled      = 5
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

type ctxKey string

const settingsKey ctxKey = "settings"

func newRootCmd() *cobra.Command {
	var flags runFlags
	root := &cobra.Command{
		Use:   "rembobine [input [output]]",
		Short: "Convert a video with mencoder",
		Long: "rembobine converts a video to AVI (x264 video, mp3 audio) with mencoder, " +
			"probing the input with mplayer first and showing encode progress as it goes.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.RangeArgs(1, 2),
		PersistentPreRunE: loadSettings,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Same behavior as `rembobine run`.
			return runEncode(cmd, args, flags, runMode{})
		},
	}

	pf := root.PersistentFlags()
	pf.String("mencoder", "", "Path to mencoder")
	pf.String("mplayer", "", "Path to mplayer (used to probe the input)")
	pf.BoolP("verbose", "v", false, "Log encoder stderr at debug level")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("log-format", "console", "Log format: console, json")
	pf.Duration("grace-period", job.DefaultGracePeriod, "Time between SIGTERM and kill when cancelling (0 kills at once)")
	pf.String("charset", "", "Character set of the encoder output (e.g. latin1); empty means UTF-8")
	pf.Int("chunk-size", job.DefaultChunkSize, "Bytes read from the encoder per read")

	// Run flags also live on root, so `rembobine <input>` works.
	flags.bind(root)

	root.AddCommand(newRunCmd())
	root.AddCommand(newTuiCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newPlanCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	return root.ExecuteContext(ctx)
}

func loadSettings(cmd *cobra.Command, _ []string) error {
	if err := config.Init(cmd.Root()); err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	config.BindFlag(cmd, "strict-exit", "strict_exit")
	s, err := config.Load()
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	cmd.SetContext(context.WithValue(cmd.Context(), settingsKey, s))
	return nil
}

func settingsFrom(cmd *cobra.Command) config.Settings {
	if s, ok := cmd.Context().Value(settingsKey).(config.Settings); ok {
		return s
	}
	s, _ := config.Load()
	return s
}

// newLogger builds the command logger. When toFile is set, logs go to the
// state dir log file so they do not corrupt the TUI.
func newLogger(s config.Settings, toFile bool) (*slog.Logger, io.Closer, error) {
	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if toFile {
		path, err := dirs.LogPath()
		if err != nil {
			return nil, nil, err
		}
		f, err := logging.OpenFile(path)
		if err != nil {
			return nil, nil, err
		}
		out, closer = f, f
	}
	logger, err := logging.New(logging.Options{Level: s.LogLevel, Format: s.LogFormat, Output: out})
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	return logger, closer, nil
}

// exitCodeFor maps a finished job to a process exit code.
func exitCodeFor(r progress.Result) int {
	switch r.State {
	case progress.StateCompleted:
		return ExitOK
	case progress.StateCancelled:
		return ExitCancelled
	}
	if errors.Is(r.Err, job.ErrLaunchFailed) {
		return ExitLaunchError
	}
	return ExitTranscodeError
}

// resultError turns a non-successful result into an ExitError.
func resultError(r progress.Result) error {
	code := exitCodeFor(r)
	if code == ExitOK {
		return nil
	}
	err := r.Err
	if err == nil && r.State == progress.StateCancelled {
		err = errors.New("encode cancelled")
	}
	return &ExitError{Code: code, Err: err}
}

// exitFor maps controller errors returned before a job exists.
func exitFor(err error) error {
	var ee *ExitError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ee):
		return ee
	case errors.Is(err, job.ErrLaunchFailed):
		return &ExitError{Code: ExitLaunchError, Err: err}
	case errors.Is(err, job.ErrProbeFailed):
		return &ExitError{Code: ExitTranscodeError, Err: err}
	case errors.Is(err, model.ErrInvalidOption), errors.Is(err, job.ErrBusy):
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	return &ExitError{Code: ExitCLIError, Err: err}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
