package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantErr   bool
		wantDebug bool
		check     func(t *testing.T, out string)
	}{
		{
			name: "console default",
			opts: Options{},
			check: func(t *testing.T, out string) {
				if !strings.Contains(out, "msg=hello") || !strings.Contains(out, "job_id=abc") {
					t.Errorf("console output = %q", out)
				}
			},
		},
		{
			name: "json",
			opts: Options{Format: "json", Level: "info"},
			check: func(t *testing.T, out string) {
				var rec map[string]any
				if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &rec); err != nil {
					t.Fatalf("output is not JSON: %v (%q)", err, out)
				}
				if rec["level"] != "info" || rec["msg"] != "hello" || rec["job_id"] != "abc" {
					t.Errorf("record = %v", rec)
				}
				if _, ok := rec["ts"]; !ok {
					t.Errorf("record missing ts: %v", rec)
				}
			},
		},
		{name: "debug level", opts: Options{Level: "DEBUG"}, wantDebug: true},
		{name: "bad format", opts: Options{Format: "xml"}, wantErr: true},
		{name: "bad level", opts: Options{Level: "loud"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.opts.Output = &buf
			logger, err := New(tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Fatal("New() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			logger.Debug("quiet")
			logger.Info("hello", slog.String("job_id", "abc"))

			out := buf.String()
			if got := strings.Contains(out, "quiet"); got != tt.wantDebug {
				t.Errorf("debug line present = %v, want %v", got, tt.wantDebug)
			}
			if tt.check != nil {
				lines := strings.Split(strings.TrimSpace(out), "\n")
				tt.check(t, lines[len(lines)-1])
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{" Warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "rembobine.log")
	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error: %v", err)
	}
	logger, err := New(Options{Output: f})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("to file")
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file = %q", data)
	}
}

func TestDiscard(t *testing.T) {
	Discard().Info("nothing")
}
