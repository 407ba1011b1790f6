package format

import (
	"testing"

	"github.com/mungerd/rembobine/internal/progress"
)

func TestHumanizeBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{name: "zero bytes", bytes: 0, want: "0 B"},
		{name: "single byte", bytes: 1, want: "1 B"},
		{name: "under 1KB", bytes: 1023, want: "1023 B"},
		{name: "exactly 1KB", bytes: 1024, want: "1.0 KB"},
		{name: "1.5 KB", bytes: 1536, want: "1.5 KB"},
		{name: "exactly 1MB", bytes: 1024 * 1024, want: "1.0 MB"},
		{name: "50 MB", bytes: 50 * 1024 * 1024, want: "50.0 MB"},
		{name: "exactly 1GB", bytes: 1024 * 1024 * 1024, want: "1.0 GB"},
		{name: "1.5 GB", bytes: 1536 * 1024 * 1024, want: "1.5 GB"},
		{name: "exactly 1TB", bytes: 1024 * 1024 * 1024 * 1024, want: "1.0 TB"},
		{name: "large value", bytes: 5 * 1024 * 1024 * 1024, want: "5.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HumanizeBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("HumanizeBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}
func TestProgressLabel(t *testing.T) {
	tests := []struct {
		name string
		ev   progress.Event
		want string
	}{
		{name: "start", ev: progress.Event{}, want: "0 %  (0 MB)"},
		{name: "midway", ev: progress.Event{Fraction: 0.42, ElapsedMinutes: 3, OutputSizeMB: 15}, want: "42 %  (15 MB)"},
		{name: "float noise rounds", ev: progress.Event{Fraction: 0.29, OutputSizeMB: 7}, want: "29 %  (7 MB)"},
		{name: "done", ev: progress.Event{Fraction: 1, OutputSizeMB: 420}, want: "100 %  (420 MB)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProgressLabel(tt.ev); got != tt.want {
				t.Errorf("ProgressLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMinutes(t *testing.T) {
	if got := Minutes(12); got != "12 min" {
		t.Errorf("Minutes(12) = %q", got)
	}
}
