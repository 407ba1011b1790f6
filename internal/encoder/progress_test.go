package encoder

import (
	"reflect"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/mungerd/rembobine/internal/progress"
)

const sampleRecord = "Pos: ...(  42%) 3min  15mb\r"

func feedAll(p *ProgressParser, chunks ...string) []progress.Event {
	var out []progress.Event
	for _, c := range chunks {
		out = append(out, p.Feed([]byte(c))...)
	}
	return out
}

func TestProgressParser_SingleRecord(t *testing.T) {
	want := []progress.Event{{JobID: "job1", Fraction: 0.42, ElapsedMinutes: 3, OutputSizeMB: 15}}

	got := feedAll(NewProgressParser("job1"), sampleRecord)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("single chunk events = %s, want %s", spew.Sdump(got), spew.Sdump(want))
	}
}

func TestProgressParser_ChunkBoundaryIndependence(t *testing.T) {
	want := feedAll(NewProgressParser("job1"), sampleRecord)

	for i := 1; i < len(sampleRecord); i++ {
		got := feedAll(NewProgressParser("job1"), sampleRecord[:i], sampleRecord[i:])
		if !reflect.DeepEqual(got, want) {
			t.Errorf("split at %d (%q | %q): events = %v, want %v", i, sampleRecord[:i], sampleRecord[i:], got, want)
		}
	}

	for i := 1; i < len(sampleRecord); i++ {
		for j := i + 1; j < len(sampleRecord); j++ {
			got := feedAll(NewProgressParser("job1"), sampleRecord[:i], sampleRecord[i:j], sampleRecord[j:])
			if !reflect.DeepEqual(got, want) {
				t.Errorf("split at %d,%d: events = %v, want %v", i, j, got, want)
			}
		}
	}

	bytewise := make([]string, 0, len(sampleRecord))
	for i := 0; i < len(sampleRecord); i++ {
		bytewise = append(bytewise, sampleRecord[i:i+1])
	}
	if got := feedAll(NewProgressParser("job1"), bytewise...); !reflect.DeepEqual(got, want) {
		t.Errorf("byte-by-byte events = %v, want %v", got, want)
	}
}

func TestProgressParser_RealisticStream(t *testing.T) {
	records := []string{
		"Pos:   0.4s     10f ( 1%)  0.00fps Trem:   0min   0mb  A-V:0.000 [0:0]\r",
		"Pos:  12.3s    308f (12%) 45.10fps Trem:   1min   5mb  A-V:0.001 [1083:128]\r",
		"Pos:  51.0s   1275f (50%) 44.82fps Trem:   1min  21mb  A-V:0.002 [1101:128]\r",
		"Pos: 102.1s   2552f (100%) 44.90fps Trem:   0min  42mb  A-V:0.000 [1099:128]\r",
	}
	stream := "MEncoder 1.4 (C) 2000-2019 MPlayer Team\nsuccess: format: 0\n" + strings.Join(records, "")

	wantFinal := progress.Event{Fraction: 1, ElapsedMinutes: 0, OutputSizeMB: 42}

	// Fixed 80-byte reads, as mencoder output is usually consumed.
	var chunks []string
	for i := 0; i < len(stream); i += 80 {
		end := i + 80
		if end > len(stream) {
			end = len(stream)
		}
		chunks = append(chunks, stream[i:end])
	}
	got := feedAll(NewProgressParser(""), chunks...)
	if len(got) == 0 {
		t.Fatal("no events from realistic stream")
	}
	if got[len(got)-1] != wantFinal {
		t.Errorf("final event = %+v, want %+v", got[len(got)-1], wantFinal)
	}

	// One record per read yields every record exactly once.
	perRecord := feedAll(NewProgressParser(""), append([]string{"MEncoder header\n"}, records...)...)
	want := []progress.Event{
		{Fraction: 0.01, ElapsedMinutes: 0, OutputSizeMB: 0},
		{Fraction: 0.12, ElapsedMinutes: 1, OutputSizeMB: 5},
		{Fraction: 0.50, ElapsedMinutes: 1, OutputSizeMB: 21},
		wantFinal,
	}
	if !reflect.DeepEqual(perRecord, want) {
		t.Errorf("per-record events = %s, want %s", spew.Sdump(perRecord), spew.Sdump(want))
	}

	// Byte-wise feeding sees every record too, each exactly once.
	var bytewise []progress.Event
	p := NewProgressParser("")
	for i := 0; i < len(stream); i++ {
		bytewise = append(bytewise, p.Feed([]byte{stream[i]})...)
	}
	if !reflect.DeepEqual(bytewise, want) {
		t.Errorf("byte-wise events = %s, want %s", spew.Sdump(bytewise), spew.Sdump(want))
	}
}

func TestProgressParser_NoMatch(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
	}{
		{name: "empty", chunks: []string{""}},
		{name: "banner only", chunks: []string{"MEncoder 1.4-9.3.0 (C) 2000-2019 MPlayer Team\n"}},
		{name: "missing mb", chunks: []string{"Pos: (  42%) 3min  15\r"}},
		{name: "missing percent sign", chunks: []string{"Pos: (  42) 3min  15mb \r"}},
		{name: "no whitespace after mb yet", chunks: []string{"Pos: (  42%) 3min  15mb"}},
		{name: "record discarded by later rewind", chunks: []string{"Pos: (  42%) 3min  15m", "\rFlushing video frames.\r"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := feedAll(NewProgressParser(""), tt.chunks...); len(got) != 0 {
				t.Errorf("events = %v, want none", got)
			}
		})
	}
}

func TestProgressParser_DiscardsUpToLastCarriageReturn(t *testing.T) {
	p := NewProgressParser("")
	p.Feed([]byte("old status\rolder\rnew partial"))
	if got := p.Pending(); got != "new partial" {
		t.Errorf("Pending() = %q, want %q", got, "new partial")
	}
	p.Feed([]byte("\r"))
	if got := p.Pending(); got != "" {
		t.Errorf("Pending() after rewind = %q, want empty", got)
	}
}

func TestProgressParser_DuplicateSuppression(t *testing.T) {
	p := NewProgressParser("")
	got := feedAll(p, sampleRecord, sampleRecord, sampleRecord)
	if len(got) != 1 {
		t.Errorf("repeated identical records produced %d events, want 1", len(got))
	}

	// A regression is still reported.
	got = feedAll(p, "Pos: (  40%) 3min  14mb\r")
	if len(got) != 1 || got[0].Fraction != 0.40 {
		t.Errorf("regressed record events = %v", got)
	}

	p.Reset()
	if got := feedAll(p, sampleRecord); len(got) != 1 {
		t.Errorf("after Reset() events = %v, want one", got)
	}
}

func TestProgressParser_BoundedBuffer(t *testing.T) {
	p := NewProgressParser("")
	noise := strings.Repeat("x", 1000)
	for i := 0; i < 20; i++ {
		p.Feed([]byte(noise))
	}
	if n := len(p.Pending()); n > maxPending {
		t.Errorf("Pending() length = %d, want <= %d", n, maxPending)
	}

	// The buffer still works after truncation.
	if got := feedAll(p, sampleRecord); len(got) != 1 {
		t.Errorf("events after truncation = %v, want one", got)
	}
}

func TestParseStatusLine(t *testing.T) {
	tests := []struct {
		line   string
		want   progress.Event
		wantOk bool
	}{
		{
			line:   "Pos:  12.3s    308f (12%) 45.10fps Trem:   1min   5mb  A-V:0.001 [1083:128]",
			want:   progress.Event{Fraction: 0.12, ElapsedMinutes: 1, OutputSizeMB: 5},
			wantOk: true,
		},
		{
			line:   "Pos: (  42%) 3min  15mb",
			want:   progress.Event{Fraction: 0.42, ElapsedMinutes: 3, OutputSizeMB: 15},
			wantOk: true,
		},
		{line: "Skipping frame!", wantOk: false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ParseStatusLine(tt.line)
			if ok != tt.wantOk {
				t.Fatalf("ParseStatusLine() ok = %v, want %v", ok, tt.wantOk)
			}
			if ok && got != tt.want {
				t.Errorf("ParseStatusLine() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
