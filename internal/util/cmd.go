package util

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// ErrStart is wrapped by runner errors when the process could not be
// started at all (missing binary, permission denied).
var ErrStart = errors.New("start process")

// CmdSpec describes a subprocess to run. Args are passed to the process as a
// discrete vector; nothing is ever interpreted by a shell.
type CmdSpec struct {
	Path string   // Binary path
	Args []string // Arguments
	Env  []string // Optional environment variables (KEY=VALUE). If nil, inherit.
	Dir  string   // Working directory; empty = inherit.

	StderrLine    func(string) // Called for each stderr line (if non-nil); otherwise stderr is discarded
	CaptureStdout bool         // Buffer stdout into CmdResult (Run only)
}

// String renders the command line with shell-style quoting, for logs only.
func (s CmdSpec) String() string {
	return shellQuote(s.Path, s.Args)
}

// Argv returns the full argument vector including the binary.
func (s CmdSpec) Argv() []string {
	argv := make([]string, 0, len(s.Args)+1)
	argv = append(argv, s.Path)
	return append(argv, s.Args...)
}

// CmdResult contains captured output and exit status.
type CmdResult struct {
	Stdout []byte
	Code   int
	Err    error
}

// Process is a started subprocess whose stdout is streamed by the caller.
type Process interface {
	// Stdout is the read side of the process's standard output. It must be
	// drained before Wait is called.
	Stdout() io.Reader
	// Terminate asks the process to exit (SIGTERM where supported).
	Terminate() error
	// Kill forcefully stops the process.
	Kill() error
	// Wait reaps the process and returns its exit code.
	Wait() (int, error)
	Pid() int
}

// CmdRunner runs subprocesses. Tests substitute fakes.
type CmdRunner interface {
	// Run executes the command to completion.
	Run(ctx context.Context, spec CmdSpec) (CmdResult, error)
	// Start launches the command and returns immediately with its stdout pipe.
	Start(spec CmdSpec) (Process, error)
}

type defaultRunner struct {
	logger *slog.Logger
}

// NewDefaultRunner returns a CmdRunner backed by os/exec.
func NewDefaultRunner(logger *slog.Logger) CmdRunner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return defaultRunner{logger: logger}
}

// Run executes the command and captures stdout. Stderr lines are handed to
// StderrLine when set and discarded otherwise.
// On non-zero exit, returns an error describing the exit code, while also
// populating CmdResult.Code and the captured stdout.
func (r defaultRunner) Run(ctx context.Context, spec CmdSpec) (CmdResult, error) {
	var stdoutBuf bytes.Buffer

	cmd := exec.CommandContext(ctx, spec.Path, spec.Args...)
	configure(cmd, spec)
	cmd.Stdout = &stdoutBuf

	var stderrPipe io.ReadCloser
	if spec.StderrLine != nil {
		p, err := cmd.StderrPipe()
		if err != nil {
			return CmdResult{Code: -1, Err: err}, err
		}
		stderrPipe = p
	}

	r.logger.Debug("exec", slog.String("cmd", spec.String()))

	if err := cmd.Start(); err != nil {
		return CmdResult{Code: -1, Err: err}, fmt.Errorf("%w: %w", ErrStart, err)
	}

	var wg sync.WaitGroup
	if stderrPipe != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			scanLines(stderrPipe, spec.StderrLine)
		}()
	}
	// Stderr must be drained before Wait closes the pipe.
	wg.Wait()
	waitErr := cmd.Wait()

	code := exitCode(waitErr)
	res := CmdResult{
		Code: code,
		Err:  waitErr,
	}
	if spec.CaptureStdout {
		res.Stdout = stdoutBuf.Bytes()
	}

	if waitErr != nil {
		return res, fmt.Errorf("command failed (exit %d): %w", code, waitErr)
	}
	return res, nil
}

// Start launches the command with a stdout pipe for streaming reads.
func (r defaultRunner) Start(spec CmdSpec) (Process, error) {
	cmd := exec.Command(spec.Path, spec.Args...)
	configure(cmd, spec)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	var stderrPipe io.ReadCloser
	if spec.StderrLine != nil {
		if stderrPipe, err = cmd.StderrPipe(); err != nil {
			return nil, err
		}
	}

	r.logger.Debug("exec", slog.String("cmd", spec.String()))

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStart, err)
	}

	p := &execProcess{cmd: cmd, stdout: stdout}
	if stderrPipe != nil {
		p.stderrDone = make(chan struct{})
		go func() {
			defer close(p.stderrDone)
			scanLines(stderrPipe, spec.StderrLine)
		}()
	}
	return p, nil
}

type execProcess struct {
	cmd        *exec.Cmd
	stdout     io.Reader
	stderrDone chan struct{}
}

func (p *execProcess) Stdout() io.Reader { return p.stdout }

func (p *execProcess) Kill() error {
	err := p.cmd.Process.Kill()
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

func (p *execProcess) Terminate() error {
	err := terminate(p.cmd.Process)
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

func (p *execProcess) Wait() (int, error) {
	if p.stderrDone != nil {
		<-p.stderrDone
	}
	err := p.cmd.Wait()
	return exitCode(err), err
}

func (p *execProcess) Pid() int { return p.cmd.Process.Pid }

func configure(cmd *exec.Cmd, spec CmdSpec) {
	if spec.Dir != "" {
		cmd.Dir = spec.Dir
	}
	if spec.Env != nil {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
}

func scanLines(r io.Reader, fn func(string)) {
	sc := bufio.NewScanner(r)
	const maxCapacity = 1024 * 1024 // 1 MB
	buf := make([]byte, 0, 64*1024)
	sc.Buffer(buf, maxCapacity)
	for sc.Scan() {
		fn(sc.Text())
	}
	// Keep draining so the child never blocks on a full stderr pipe.
	_, _ = io.Copy(io.Discard, r)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// shellQuote returns a printable shell-like command string for logging.
func shellQuote(path string, args []string) string {
	b := &strings.Builder{}
	b.WriteString(quote(path))
	for _, a := range args {
		b.WriteByte(' ')
		b.WriteString(quote(a))
	}
	return b.String()
}

func quote(s string) string {
	if s == "" {
		return "''"
	}
	// Simple quoting: wrap in single quotes and escape existing single quotes.
	if strings.ContainsAny(s, " \t\n\"'\\$`(){}[]*&;|<>?!") {
		return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
	}
	return s
}
