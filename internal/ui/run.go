package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mungerd/rembobine/internal/job"
	"github.com/mungerd/rembobine/internal/model"
	"github.com/mungerd/rembobine/internal/progress"
)

// Run probes opts.InputPath, encodes it and shows progress until the job ends.
// It returns the job's result; an error means no encode ran to a terminal state.
func Run(ctx context.Context, ctrl *job.Controller, opts model.Options) (progress.Result, error) {
	m := NewModel(ctx, ctrl, opts)
	defer m.cancel()

	prog := tea.NewProgram(m, tea.WithContext(ctx))
	final, runErr := prog.Run()

	fm, ok := final.(Model)
	if !ok {
		fm = m
	}
	if r, done := fm.Result(); done {
		return r, nil
	}
	// The program ended before the job did; make sure it does not outlive us.
	if fm.handle != nil {
		fm.handle.Cancel()
		return fm.handle.Wait(), nil
	}
	if h := ctrl.Active(); h != nil {
		h.Cancel()
		return h.Wait(), nil
	}
	if fm.err != nil {
		return progress.Result{}, fm.err
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return progress.Result{}, runErr
	}
	return progress.Result{State: progress.StateCancelled, ExitCode: -1}, nil
}
