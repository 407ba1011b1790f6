// Package probe runs the mplayer identification pass and parses its
// ID_KEY=VALUE output into media metadata.
package probe

import (
	"regexp"
	"sort"
	"strings"
)

// Well-known keys, with the ID_ prefix already stripped.
const (
	KeyVideoCodec   = "VIDEO_CODEC"
	KeyVideoFormat  = "VIDEO_FORMAT"
	KeyVideoWidth   = "VIDEO_WIDTH"
	KeyVideoHeight  = "VIDEO_HEIGHT"
	KeyVideoFPS     = "VIDEO_FPS"
	KeyVideoBitrate = "VIDEO_BITRATE"
	KeyAudioCodec   = "AUDIO_CODEC"
	KeyAudioBitrate = "AUDIO_BITRATE"
	KeyAudioRate    = "AUDIO_RATE"
	KeyAudioNCh     = "AUDIO_NCH"
	KeyLength       = "LENGTH"
	KeyDemuxer      = "DEMUXER"
)

// Missing is shown in place of an absent field.
const Missing = "?"

var idPattern = regexp.MustCompile(`^ID_([^=]+)=(.*)`)

// MediaInfo maps probe keys (without the ID_ prefix) to raw values.
// A nil MediaInfo means no metadata is available.
type MediaInfo map[string]string

// ParseMediaInfo extracts every ID_KEY=VALUE line from raw probe output.
// Other lines are ignored; a later duplicate key overwrites an earlier one.
func ParseMediaInfo(raw []byte) MediaInfo {
	info := MediaInfo{}
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSuffix(line, "\r")
		m := idPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		info[m[1]] = m[2]
	}
	return info
}

// Get returns the value for key and whether it was present.
func (m MediaInfo) Get(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m[key]
	return v, ok
}

// Value returns the value for key, or Missing.
func (m MediaInfo) Value(key string) string {
	if v, ok := m.Get(key); ok && v != "" {
		return v
	}
	return Missing
}

// Keys returns the present keys in sorted order.
func (m MediaInfo) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Summary renders "VIDEO_CODEC/AUDIO_CODEC, WxH, FPS fps".
func (m MediaInfo) Summary() string {
	return m.Value(KeyVideoCodec) + "/" + m.Value(KeyAudioCodec) + ", " +
		m.Value(KeyVideoWidth) + "x" + m.Value(KeyVideoHeight) + ", " +
		m.Value(KeyVideoFPS) + " fps"
}
