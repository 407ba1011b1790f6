package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mungerd/rembobine/internal/progress"
)

// teaReporter feeds controller callbacks into the program's event channel.
type teaReporter struct {
	ctx context.Context
	ch  chan tea.Msg
}

func (r teaReporter) Update(e progress.Event) {
	// Progress is advisory; drop it rather than stall the read loop.
	select {
	case r.ch <- jobUpdateMsg{E: e}:
	default:
	}
}

func (r teaReporter) Result(res progress.Result) {
	select {
	case r.ch <- jobResultMsg{R: res}:
	case <-r.ctx.Done():
	}
}
