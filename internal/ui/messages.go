package ui

import (
	"github.com/mungerd/rembobine/internal/job"
	"github.com/mungerd/rembobine/internal/probe"
	"github.com/mungerd/rembobine/internal/progress"
)

type probedMsg struct {
	Info probe.MediaInfo
	Err  error
}

type jobStartMsg struct {
	Handle *job.Handle
	Err    error
}

type jobUpdateMsg struct {
	E progress.Event
}

type jobResultMsg struct {
	R progress.Result
}

type allDoneMsg struct{}
