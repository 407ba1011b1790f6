package probe

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mungerd/rembobine/internal/util"
)

type fakeRunner struct {
	res  util.CmdResult
	err  error
	seen []util.CmdSpec
}

func (f *fakeRunner) Run(_ context.Context, spec util.CmdSpec) (util.CmdResult, error) {
	f.seen = append(f.seen, spec)
	return f.res, f.err
}

func (f *fakeRunner) Start(util.CmdSpec) (util.Process, error) {
	return nil, errors.New("not supported")
}

func TestIdentify(t *testing.T) {
	r := &fakeRunner{res: util.CmdResult{Stdout: []byte("MPlayer banner\nID_VIDEO_CODEC=ffh264\nID_VIDEO_WIDTH=640\n")}}

	got, err := Identify(context.Background(), r, "", "/videos/clip.mov")
	if err != nil {
		t.Fatalf("Identify() error: %v", err)
	}
	want := MediaInfo{"VIDEO_CODEC": "ffh264", "VIDEO_WIDTH": "640"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Identify() = %v, want %v", got, want)
	}

	if len(r.seen) != 1 {
		t.Fatalf("runner called %d times, want 1", len(r.seen))
	}
	wantArgv := []string{"mplayer", "-frames", "0", "-vo", "null", "-ao", "null", "-identify", "/videos/clip.mov"}
	if argv := r.seen[0].Argv(); !reflect.DeepEqual(argv, wantArgv) {
		t.Errorf("argv = %q, want %q", argv, wantArgv)
	}
}

func TestIdentifyFailure(t *testing.T) {
	exitErr := errors.New("exit status 1")
	r := &fakeRunner{res: util.CmdResult{Code: 1, Stdout: []byte("ID_VIDEO_CODEC=x\n")}, err: exitErr}

	got, err := Identify(context.Background(), r, "/opt/bin/mplayer", "broken.bin")
	if !errors.Is(err, exitErr) {
		t.Fatalf("Identify() err = %v, want wrapped %v", err, exitErr)
	}
	if got != nil {
		t.Errorf("Identify() info = %v, want nil", got)
	}
}
