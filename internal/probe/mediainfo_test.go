package probe

import (
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestParseMediaInfo(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want MediaInfo
	}{
		{
			name: "keys with garbage line",
			raw:  "ID_VIDEO_CODEC=h264\nID_AUDIO_CODEC=mp3\ngarbage line\nID_VIDEO_WIDTH=1920\n",
			want: MediaInfo{"VIDEO_CODEC": "h264", "AUDIO_CODEC": "mp3", "VIDEO_WIDTH": "1920"},
		},
		{
			name: "crlf line endings",
			raw:  "ID_DEMUXER=mov\r\nID_LENGTH=12.50\r\n",
			want: MediaInfo{"DEMUXER": "mov", "LENGTH": "12.50"},
		},
		{
			name: "later duplicate wins",
			raw:  "ID_VIDEO_FPS=25.000\nID_VIDEO_FPS=29.970\n",
			want: MediaInfo{"VIDEO_FPS": "29.970"},
		},
		{
			name: "empty value and equals in value",
			raw:  "ID_CLIP_INFO_VALUE0=\nID_FILENAME=a=b.mov\n",
			want: MediaInfo{"CLIP_INFO_VALUE0": "", "FILENAME": "a=b.mov"},
		},
		{
			name: "prefix must start the line",
			raw:  " ID_VIDEO_CODEC=h264\nxID_AUDIO_CODEC=mp3\nID_=x\n",
			want: MediaInfo{},
		},
		{
			name: "empty output",
			raw:  "",
			want: MediaInfo{},
		},
		{
			name: "binary noise",
			raw:  "\x00\xff\xfe\nID_VIDEO_HEIGHT=1080",
			want: MediaInfo{"VIDEO_HEIGHT": "1080"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMediaInfo([]byte(tt.raw))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseMediaInfo() = %s, want %s", spew.Sdump(got), spew.Sdump(tt.want))
			}
		})
	}
}

func TestMediaInfoGet(t *testing.T) {
	m := MediaInfo{"VIDEO_CODEC": "h264"}
	if v, ok := m.Get(KeyVideoCodec); !ok || v != "h264" {
		t.Errorf("Get(VIDEO_CODEC) = %q, %v", v, ok)
	}
	if _, ok := m.Get(KeyAudioCodec); ok {
		t.Error("Get(AUDIO_CODEC) should be absent")
	}
	var none MediaInfo
	if _, ok := none.Get(KeyVideoCodec); ok {
		t.Error("nil MediaInfo should have no keys")
	}
}

func TestMediaInfoSummary(t *testing.T) {
	tests := []struct {
		name string
		info MediaInfo
		want string
	}{
		{
			name: "complete",
			info: MediaInfo{"VIDEO_CODEC": "ffh264", "AUDIO_CODEC": "ffaac", "VIDEO_WIDTH": "1920", "VIDEO_HEIGHT": "1080", "VIDEO_FPS": "29.970"},
			want: "ffh264/ffaac, 1920x1080, 29.970 fps",
		},
		{
			name: "no audio",
			info: MediaInfo{"VIDEO_CODEC": "ffh264", "VIDEO_WIDTH": "640", "VIDEO_HEIGHT": "480", "VIDEO_FPS": "25.000"},
			want: "ffh264/?, 640x480, 25.000 fps",
		},
		{
			name: "empty values count as missing",
			info: MediaInfo{"VIDEO_CODEC": ""},
			want: "?/?, ?x?, ? fps",
		},
		{
			name: "nil",
			info: nil,
			want: "?/?, ?x?, ? fps",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.Summary(); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMediaInfoKeys(t *testing.T) {
	m := MediaInfo{"LENGTH": "1", "AUDIO_CODEC": "mp3", "VIDEO_CODEC": "h264"}
	want := []string{"AUDIO_CODEC", "LENGTH", "VIDEO_CODEC"}
	if got := m.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestMediaInfoDecode(t *testing.T) {
	m := ParseMediaInfo([]byte(`ID_VIDEO_FORMAT=H264
ID_VIDEO_BITRATE=0
ID_VIDEO_WIDTH=1280
ID_VIDEO_HEIGHT=720
ID_VIDEO_FPS=29.970
ID_AUDIO_CODEC=ffaac
ID_AUDIO_BITRATE=128000
ID_AUDIO_RATE=44100
ID_AUDIO_NCH=2
ID_LENGTH=61.50
ID_DEMUXER=lavfpref
ID_VIDEO_CODEC=ffh264
`))
	got, err := m.Decode()
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	want := Info{
		VideoCodec:    "ffh264",
		VideoFormat:   "H264",
		Width:         1280,
		Height:        720,
		FPS:           29.970,
		AudioCodec:    "ffaac",
		AudioBitrate:  128000,
		AudioRate:     44100,
		AudioChannels: 2,
		Length:        61.5,
		Demuxer:       "lavfpref",
	}
	if got != want {
		t.Errorf("Decode() = %s, want %s", spew.Sdump(got), spew.Sdump(want))
	}
	if d := got.Duration().Seconds(); d != 61.5 {
		t.Errorf("Duration() = %vs, want 61.5s", d)
	}
	if !got.HasVideo() {
		t.Error("HasVideo() = false")
	}
}

func TestMediaInfoDecodeMissingAndInvalid(t *testing.T) {
	got, err := MediaInfo{"AUDIO_CODEC": "mp3"}.Decode()
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got.Width != 0 || got.HasVideo() {
		t.Errorf("Decode() = %+v, want no video fields", got)
	}

	if _, err := (MediaInfo(nil)).Decode(); err != nil {
		t.Errorf("nil Decode() error: %v", err)
	}

	if _, err := (MediaInfo{"VIDEO_WIDTH": "wide"}).Decode(); err == nil {
		t.Error("Decode() with non-numeric width should fail")
	}
}
