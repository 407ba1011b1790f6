package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mungerd/rembobine/internal/progress"
	"github.com/mungerd/rembobine/internal/util/format"
)

func (m Model) viewHeader() string {
	title := m.styles.Title.Render("rembobine")
	hint := "q: quit"
	if m.handle != nil && m.result == nil {
		hint = "q: cancel"
	}
	sub := m.styles.Subtitle.Render(fmt.Sprintf("%s • %s", truncate(filepath.Base(m.opts.InputPath), 48), hint))
	return title + "\n" + sub
}

func (m Model) stageStyle() string {
	st := m.styles.JobInfo
	switch m.stage {
	case progress.StateProbing, progress.StateReady:
		st = m.styles.StageProbe
	case progress.StateEncoding:
		st = m.styles.StageEnc
	case progress.StateCompleted:
		st = m.styles.Success
	case progress.StateCancelled:
		st = m.styles.Warning
	case progress.StateFailed:
		st = m.styles.Error
	}
	label := string(m.stage)
	if m.cancelling && m.result == nil {
		label = "cancelling"
	}
	return st.Render(label)
}

func (m Model) viewJob() string {
	var b strings.Builder

	line1 := m.stageStyle()
	if m.summary != "" {
		line1 += "  " + m.styles.JobTitle.Render(m.summary)
	}
	b.WriteString(line1)
	b.WriteString("\n")

	switch {
	case m.hasEvent:
		b.WriteString(m.bar.ViewAs(m.event.Fraction))
		b.WriteString(" ")
		b.WriteString(format.ProgressLabel(m.event))
	case m.result != nil && m.result.State == progress.StateCompleted:
		b.WriteString(m.styles.Success.Render("✓ done"))
	case m.err != nil:
		b.WriteString(m.styles.Error.Render("✗ " + m.err.Error()))
	default:
		b.WriteString(m.styles.Spinner.Render(m.spinner.View()) + " " + m.styles.Faint.Render("waiting"))
	}
	b.WriteString("\n")

	if m.hasEvent {
		b.WriteString(m.styles.JobInfo.Render("elapsed " + format.Minutes(m.event.ElapsedMinutes)))
		b.WriteString("\n")
	}
	if m.probeErr != nil {
		b.WriteString(m.styles.Warning.Render("probe: " + m.probeErr.Error()))
		b.WriteString("\n")
	}
	if m.result != nil {
		b.WriteString(m.viewSummary())
	}
	return m.styles.Box.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) viewSummary() string {
	r := m.result
	switch r.State {
	case progress.StateCompleted:
		return m.styles.Success.Render(fmt.Sprintf("→ %s (%s)", r.OutputPath, format.HumanizeBytes(r.Bytes)))
	case progress.StateCancelled:
		return m.styles.Warning.Render("cancelled")
	}
	return ""
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
