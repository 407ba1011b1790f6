package encoder

import (
	"bytes"
	"regexp"
	"strconv"

	"github.com/mungerd/rembobine/internal/progress"
	"github.com/mungerd/rembobine/internal/util/quality"
)

// mencoder rewrites a single status line using '\r', e.g.
//
//	Pos:  12.3s    308f (12%) 45.10fps Trem:   1min   5mb  A-V:0.000 [1083:128]
var statusPattern = regexp.MustCompile(`\(\s*(\d+)\s*%\).*\s+([0-9]+)min\s.*\s+([0-9]+)mb\s`)

// maxPending bounds the unterminated line kept between chunks.
const maxPending = 4096

// ProgressParser turns mencoder stdout chunks into progress events.
// Chunks may be split anywhere; only the newest status line matters.
// A ProgressParser is not safe for concurrent use.
type ProgressParser struct {
	JobID string

	pending []byte
	last    progress.Event
	emitted bool
}

// NewProgressParser returns a parser tagging events with jobID.
func NewProgressParser(jobID string) *ProgressParser {
	return &ProgressParser{JobID: jobID}
}

// Feed consumes the next chunk of output and returns the events it produced.
// Consecutive identical events are collapsed, so the result does not depend
// on where chunk boundaries fall.
func (p *ProgressParser) Feed(chunk []byte) []progress.Event {
	if len(chunk) == 0 {
		return nil
	}
	p.pending = append(p.pending, chunk...)

	var events []progress.Event
	if last := bytes.LastIndexByte(p.pending, '\r'); last >= 0 {
		// The record closed by the last '\r'; the '\r' itself is kept so
		// the trailing whitespace in the pattern can match it.
		start := bytes.LastIndexByte(p.pending[:last], '\r') + 1
		if ev, ok := p.match(p.pending[start : last+1]); ok {
			events = append(events, ev)
		}
		p.pending = append(p.pending[:0], p.pending[last+1:]...)
	}

	if len(p.pending) > maxPending {
		p.pending = append(p.pending[:0], p.pending[len(p.pending)-maxPending:]...)
	}

	if ev, ok := p.match(p.pending); ok {
		events = append(events, ev)
	}
	return events
}

// Reset clears buffered text and duplicate tracking.
func (p *ProgressParser) Reset() {
	p.pending = p.pending[:0]
	p.emitted = false
	p.last = progress.Event{}
}

// Pending returns the currently buffered, unterminated text.
func (p *ProgressParser) Pending() string {
	return string(p.pending)
}

func (p *ProgressParser) match(line []byte) (progress.Event, bool) {
	m := statusPattern.FindSubmatch(line)
	if m == nil {
		return progress.Event{}, false
	}
	pct, err1 := strconv.Atoi(string(m[1]))
	mins, err2 := strconv.Atoi(string(m[2]))
	mb, err3 := strconv.Atoi(string(m[3]))
	if err1 != nil || err2 != nil || err3 != nil {
		return progress.Event{}, false
	}
	ev := progress.Event{
		JobID:          p.JobID,
		Fraction:       float64(quality.Clamp(pct, 0, 100)) / 100.0,
		ElapsedMinutes: mins,
		OutputSizeMB:   mb,
	}
	if p.emitted && ev == p.last {
		return progress.Event{}, false
	}
	p.last = ev
	p.emitted = true
	return ev, true
}

// ParseStatusLine extracts a progress event from one complete status line.
func ParseStatusLine(line string) (progress.Event, bool) {
	var p ProgressParser
	return p.match([]byte(line + "\r"))
}
