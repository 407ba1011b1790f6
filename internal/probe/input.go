package probe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/h2non/filetype"
)

// Kind is the coarse classification of an input file.
type Kind string

const (
	KindVideo   Kind = "video"
	KindAudio   Kind = "audio"
	KindOther   Kind = "other"
	KindUnknown Kind = "unknown"
)

// Input describes what an input file looks like before probing.
type Input struct {
	Path string
	Kind Kind
	MIME string // empty when unknown
	Size int64
}

// IsVideo reports whether the input looks like a video container.
func (in Input) IsVideo() bool { return in.Kind == KindVideo }

// videoExtensions maps extensions to MIME types for containers the magic
// byte matcher does not recognise.
var videoExtensions = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".qt":   "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".flv":  "video/x-flv",
	".wmv":  "video/x-ms-wmv",
	".asf":  "video/x-ms-asf",
	".mpg":  "video/mpeg",
	".mpeg": "video/mpeg",
	".vob":  "video/mpeg",
	".ts":   "video/mp2t",
	".m2ts": "video/mp2t",
	".ogv":  "video/ogg",
	".3gp":  "video/3gpp",
	".dv":   "video/x-dv",
	".rm":   "application/vnd.rn-realmedia",
}

// Classify inspects path by magic bytes and falls back to its extension.
// It fails only when the file cannot be read.
func Classify(path string) (Input, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Input{}, err
	}
	if st.IsDir() {
		return Input{}, fmt.Errorf("%s: is a directory", path)
	}
	in := Input{Path: path, Kind: KindUnknown, Size: st.Size()}

	kind, err := filetype.MatchFile(path)
	if err != nil && !errors.Is(err, filetype.ErrEmptyBuffer) {
		return Input{}, err
	}
	if err == nil && kind != filetype.Unknown {
		in.MIME = kind.MIME.Value
		switch kind.MIME.Type {
		case "video":
			in.Kind = KindVideo
		case "audio":
			in.Kind = KindAudio
		default:
			in.Kind = KindOther
		}
		if in.Kind == KindVideo {
			return in, nil
		}
	}

	if mime, ok := videoExtensions[strings.ToLower(filepath.Ext(path))]; ok && in.Kind == KindUnknown {
		in.Kind = KindVideo
		in.MIME = mime
	}
	return in, nil
}

// VideoExtensions returns the extensions recognised as video, sorted.
func VideoExtensions() []string {
	exts := make([]string, 0, len(videoExtensions))
	for ext := range videoExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
