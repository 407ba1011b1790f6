// Package job drives a single mencoder encode: it probes the selected input,
// launches the encoder, streams its progress and handles cancellation.
package job

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/mungerd/rembobine/internal/encoder"
	"github.com/mungerd/rembobine/internal/model"
	"github.com/mungerd/rembobine/internal/probe"
	"github.com/mungerd/rembobine/internal/progress"
	"github.com/mungerd/rembobine/internal/util"
	"github.com/mungerd/rembobine/internal/util/media"
)

var (
	// ErrLaunchFailed means the external process could not be started.
	ErrLaunchFailed = errors.New("launch failed")
	// ErrProbeFailed means no metadata could be obtained for the input.
	// The selection itself remains usable.
	ErrProbeFailed = errors.New("probe failed")
	// ErrStreamRead means reading the encoder output failed mid-job.
	ErrStreamRead = errors.New("encoder output read failed")
	// ErrExitStatus is reported for a non-zero encoder exit in strict mode.
	ErrExitStatus = errors.New("encoder exited with non-zero status")
	// ErrBusy means an encode is already running on this controller.
	ErrBusy = errors.New("an encode is already running")
)

const (
	DefaultGracePeriod = 5 * time.Second
	DefaultChunkSize   = 80
)

// Controller owns the lifecycle of one input and at most one encode.
// It is safe for concurrent use.
type Controller struct {
	runner     util.CmdRunner
	logger     *slog.Logger
	bins       encoder.Binaries
	grace      time.Duration
	charset    encoding.Encoding
	strictExit bool
	chunkSize  int
	verbose    bool

	mu     sync.Mutex
	state  progress.State
	input  string
	info   probe.MediaInfo
	active *Handle
	last   *Handle
}

// Option configures a Controller.
type Option func(*Controller)

// WithRunner injects a custom command runner (useful for testing).
func WithRunner(r util.CmdRunner) Option {
	return func(c *Controller) {
		c.runner = r
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithBinaries sets the encoder and probe binaries. Empty fields use the defaults.
func WithBinaries(b encoder.Binaries) Option {
	return func(c *Controller) {
		c.bins = b
	}
}

// WithGracePeriod sets how long a cancelled encoder may take to exit after
// SIGTERM before it is killed. Zero kills immediately.
func WithGracePeriod(d time.Duration) Option {
	return func(c *Controller) {
		c.grace = d
	}
}

// WithCharset decodes encoder output from enc before parsing. Nil means UTF-8.
func WithCharset(enc encoding.Encoding) Option {
	return func(c *Controller) {
		c.charset = enc
	}
}

// WithStrictExit makes a non-zero encoder exit a failure instead of a completion.
func WithStrictExit(strict bool) Option {
	return func(c *Controller) {
		c.strictExit = strict
	}
}

// WithChunkSize sets the read size used on encoder output.
func WithChunkSize(n int) Option {
	return func(c *Controller) {
		c.chunkSize = n
	}
}

// WithVerbose forwards encoder stderr to debug logs instead of discarding it.
func WithVerbose(v bool) Option {
	return func(c *Controller) {
		c.verbose = v
	}
}

// NewController constructs an idle Controller, applying defaults for
// anything not configured.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		grace:     DefaultGracePeriod,
		chunkSize: DefaultChunkSize,
		state:     progress.StateIdle,
	}
	for _, o := range opts {
		o(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.runner == nil {
		c.runner = util.NewDefaultRunner(c.logger)
	}
	if c.chunkSize <= 0 {
		c.chunkSize = DefaultChunkSize
	}
	if c.grace < 0 {
		c.grace = 0
	}
	c.bins = c.bins.WithDefaults()
	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() progress.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Input returns the selected input path, or "".
func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// MediaInfo returns the metadata of the selected input, or nil when the
// probe failed or nothing is selected.
func (c *Controller) MediaInfo() probe.MediaInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.info
}

// Active returns the running encode, or nil.
func (c *Controller) Active() *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Last returns the most recently finished encode, or nil.
func (c *Controller) Last() *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// SelectInput records path as the input and probes it synchronously.
// A probe failure is returned wrapped in ErrProbeFailed together with nil
// metadata; the controller still moves to Ready so an encode can start.
func (c *Controller) SelectInput(ctx context.Context, path string) (probe.MediaInfo, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: input path is required", model.ErrInvalidOption)
	}

	c.mu.Lock()
	if c.active != nil {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.state = progress.StateProbing
	c.input = path
	c.info = nil
	c.mu.Unlock()

	log := c.logger.With(slog.String("input", path))

	info, err := c.probe(ctx, log, path)

	c.mu.Lock()
	c.state = progress.StateReady
	c.info = info
	c.mu.Unlock()

	if err != nil {
		log.Warn("probe failed", slog.Any("error", err))
		return nil, err
	}
	log.Info("input selected", slog.String("summary", info.Summary()))
	return info, nil
}

func (c *Controller) probe(ctx context.Context, log *slog.Logger, path string) (probe.MediaInfo, error) {
	in, err := probe.Classify(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProbeFailed, err)
	}
	if !in.IsVideo() {
		log.Warn("input does not look like a video", slog.String("kind", string(in.Kind)), slog.String("mime", in.MIME))
	}

	info, err := probe.Identify(ctx, c.runner, c.bins.Probe, path)
	if err != nil {
		if errors.Is(err, util.ErrStart) {
			return nil, fmt.Errorf("%w: %w: %w", ErrProbeFailed, ErrLaunchFailed, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrProbeFailed, err)
	}
	return info, nil
}

// StartEncode launches the encoder for opts. outputPath overrides
// opts.OutputPath when set; with neither, the output defaults to the input
// path plus ".avi". Events and the final result go to rep from a dedicated
// goroutine. Cancelling ctx cancels the encode.
func (c *Controller) StartEncode(ctx context.Context, opts model.Options, outputPath string, rep progress.Reporter) (*Handle, error) {
	if rep == nil {
		rep = progress.Nop
	}
	opts = opts.WithOutput(media.OutputPath(opts.InputPath, firstNonEmpty(outputPath, opts.OutputPath)))
	if media.SamePath(opts.InputPath, opts.OutputPath) {
		return nil, fmt.Errorf("%w: output %q would overwrite the input", model.ErrInvalidOption, opts.OutputPath)
	}
	spec, err := encoder.BuildEncodeCommand(c.bins.Encoder, opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		return nil, ErrBusy
	}

	id := uuid.NewString()
	log := c.logger.With(slog.String("job_id", id))
	if c.verbose {
		spec.StderrLine = func(line string) {
			log.Debug("encoder stderr", slog.String("line", line))
		}
	}

	if err := util.EnsureDir(filepath.Dir(opts.OutputPath)); err != nil {
		c.state = progress.StateFailed
		return nil, fmt.Errorf("%w: create output directory: %w", ErrLaunchFailed, err)
	}

	log.Info("launching encoder", slog.String("cmd", spec.String()))
	proc, err := c.runner.Start(spec)
	if err != nil {
		c.state = progress.StateFailed
		log.Error("encoder launch failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", ErrLaunchFailed, err)
	}

	h := &Handle{
		ID:        id,
		Spec:      spec,
		Options:   opts,
		StartedAt: time.Now(),
		proc:      proc,
		grace:     c.grace,
		logger:    log,
		done:      make(chan struct{}),
	}
	c.active = h
	c.input = opts.InputPath
	c.state = progress.StateEncoding

	go c.readLoop(h, rep)
	if ctx != nil && ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				h.Cancel()
			case <-h.done:
			}
		}()
	}
	return h, nil
}

// Cancel cancels h, or the active encode when h is nil. It never blocks and
// is a no-op when there is nothing to cancel.
func (c *Controller) Cancel(h *Handle) {
	if h == nil {
		h = c.Active()
	}
	if h != nil {
		h.Cancel()
	}
}

// Reset returns a controller that is not encoding to Idle, forgetting the
// selected input.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		return ErrBusy
	}
	c.state = progress.StateIdle
	c.input = ""
	c.info = nil
	return nil
}

// readLoop owns the encoder's stdout until EOF, then reaps the process and
// publishes the result.
func (c *Controller) readLoop(h *Handle, rep progress.Reporter) {
	var r io.Reader = h.proc.Stdout()
	if c.charset != nil {
		r = transform.NewReader(r, c.charset.NewDecoder())
	}
	parser := encoder.NewProgressParser(h.ID)
	buf := make([]byte, c.chunkSize)

	var readErr error
	for {
		n, err := r.Read(buf)
		if n > 0 {
			for _, ev := range parser.Feed(buf[:n]) {
				h.setLast(ev)
				rep.Update(ev)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			readErr = err
			break
		}
	}
	if readErr != nil && !h.Cancelled() {
		h.logger.Error("reading encoder output", slog.Any("error", readErr))
		if err := h.proc.Kill(); err != nil {
			h.logger.Warn("kill encoder", slog.Any("error", err))
		}
		// Unblock a writer still holding the pipe.
		_, _ = io.Copy(io.Discard, h.proc.Stdout())
	}

	code, waitErr := h.proc.Wait()
	res := progress.Result{
		JobID:      h.ID,
		ExitCode:   code,
		OutputPath: h.Options.OutputPath,
		Bytes:      util.FileSize(h.Options.OutputPath),
	}
	switch {
	case h.Cancelled():
		res.State = progress.StateCancelled
	case readErr != nil:
		res.State = progress.StateFailed
		res.Err = fmt.Errorf("%w: %w", ErrStreamRead, readErr)
	case c.strictExit && code != 0:
		res.State = progress.StateFailed
		res.Err = fmt.Errorf("%w: exit code %d", ErrExitStatus, code)
	default:
		res.State = progress.StateCompleted
	}

	attrs := []any{
		slog.String("state", string(res.State)),
		slog.Int("exit_code", code),
		slog.String("output", res.OutputPath),
		slog.Int64("bytes", res.Bytes),
		slog.Duration("elapsed", time.Since(h.StartedAt).Round(time.Millisecond)),
	}
	if waitErr != nil && code != 0 {
		attrs = append(attrs, slog.Any("wait_error", waitErr))
	}
	if res.Err != nil {
		h.logger.Error("encode finished", append(attrs, slog.Any("error", res.Err))...)
	} else {
		h.logger.Info("encode finished", attrs...)
	}

	h.result = res
	c.mu.Lock()
	c.state = res.State
	c.active = nil
	c.last = h
	c.mu.Unlock()

	rep.Result(res)
	close(h.done)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
