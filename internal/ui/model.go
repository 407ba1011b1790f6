package ui

import (
	"context"
	"errors"

	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mungerd/rembobine/internal/job"
	"github.com/mungerd/rembobine/internal/model"
	"github.com/mungerd/rembobine/internal/progress"
)

// Model is the bubbletea model for a single encode.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	ctrl *job.Controller
	opts model.Options

	// Job
	stage      progress.State
	summary    string
	probeErr   error
	handle     *job.Handle
	event      progress.Event
	hasEvent   bool
	result     *progress.Result
	err        error
	cancelling bool

	// UI
	width   int
	styles  Styles
	spinner spinner.Model
	bar     bubblesprogress.Model

	// Internal event channel used by reporter to feed tea messages
	eventCh chan tea.Msg
}

func NewModel(ctx context.Context, ctrl *job.Controller, opts model.Options) Model {
	c, cancel := context.WithCancel(ctx)
	sty := defaultStyles()

	sp := spinner.New()
	sp.Style = sty.Spinner

	return Model{
		ctx:     c,
		cancel:  cancel,
		ctrl:    ctrl,
		opts:    opts,
		stage:   progress.StateIdle,
		styles:  sty,
		spinner: sp,
		bar: bubblesprogress.New(
			bubblesprogress.WithDefaultGradient(),
			bubblesprogress.WithWidth(40),
		),
		eventCh: make(chan tea.Msg, 64),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenEventsCmd(), m.probeCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.handle != nil && m.result == nil {
				// Wait for the cancelled job to report before quitting.
				m.cancelling = true
				m.handle.Cancel()
				return m, nil
			}
			m.cancel()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 20; w > 10 && w < 80 {
			m.bar.Width = w
		}

	case probedMsg:
		m.stage = progress.StateReady
		m.probeErr = msg.Err
		if msg.Info != nil {
			m.summary = msg.Info.Summary()
		}
		return m, m.startCmd()

	case jobStartMsg:
		if msg.Err != nil {
			m.stage = progress.StateFailed
			m.err = msg.Err
			return m, tea.Quit
		}
		m.stage = progress.StateEncoding
		m.handle = msg.Handle

	case jobUpdateMsg:
		m.event = msg.E
		m.hasEvent = true

	case jobResultMsg:
		r := msg.R
		m.result = &r
		m.stage = r.State
		m.err = r.Err
		return m, tea.Quit

	case allDoneMsg:
		return m, tea.Quit
	}

	var cmds []tea.Cmd
	var c tea.Cmd
	m.spinner, c = m.spinner.Update(msg)
	if c != nil {
		cmds = append(cmds, c)
	}
	// Keep listening for events
	cmds = append(cmds, m.listenEventsCmd())
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	return m.viewHeader() + "\n\n" + m.viewJob() + "\n"
}

// Result returns the final job result, if the encode finished.
func (m Model) Result() (progress.Result, bool) {
	if m.result == nil {
		return progress.Result{}, false
	}
	return *m.result, true
}

// Err returns the error that ended the session, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) listenEventsCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return allDoneMsg{}
		case msg := <-m.eventCh:
			return msg
		}
	}
}

func (m Model) probeCmd() tea.Cmd {
	return func() tea.Msg {
		info, err := m.ctrl.SelectInput(m.ctx, m.opts.InputPath)
		if err != nil && !errors.Is(err, job.ErrProbeFailed) {
			return jobStartMsg{Err: err}
		}
		return probedMsg{Info: info, Err: err}
	}
}

func (m Model) startCmd() tea.Cmd {
	return func() tea.Msg {
		h, err := m.ctrl.StartEncode(m.ctx, m.opts, m.opts.OutputPath, teaReporter{ctx: m.ctx, ch: m.eventCh})
		return jobStartMsg{Handle: h, Err: err}
	}
}
