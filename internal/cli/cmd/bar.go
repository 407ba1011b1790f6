package cmd

import (
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/mungerd/rembobine/internal/progress"
	"github.com/mungerd/rembobine/internal/util/format"
)

// barReporter renders job progress as a plain terminal progress bar.
type barReporter struct {
	bar *progressbar.ProgressBar
}

func newBarReporter(w io.Writer) *barReporter {
	return &barReporter{
		bar: progressbar.NewOptions(100,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("encoding"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(w, "\n") }),
		),
	}
}

func (r *barReporter) Update(e progress.Event) {
	r.bar.Describe(format.ProgressLabel(e))
	_ = r.bar.Set(e.Percent())
}

func (r *barReporter) Result(res progress.Result) {
	if res.State == progress.StateCompleted {
		_ = r.bar.Finish()
		return
	}
	_ = r.bar.Clear()
}
