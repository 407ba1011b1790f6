package probe

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Info is a typed view of the fields rembobine displays.
type Info struct {
	VideoCodec    string  `mapstructure:"VIDEO_CODEC" json:"video_codec" yaml:"video_codec"`
	VideoFormat   string  `mapstructure:"VIDEO_FORMAT" json:"video_format,omitempty" yaml:"video_format,omitempty"`
	Width         int     `mapstructure:"VIDEO_WIDTH" json:"width" yaml:"width"`
	Height        int     `mapstructure:"VIDEO_HEIGHT" json:"height" yaml:"height"`
	FPS           float64 `mapstructure:"VIDEO_FPS" json:"fps" yaml:"fps"`
	VideoBitrate  int     `mapstructure:"VIDEO_BITRATE" json:"video_bitrate" yaml:"video_bitrate"`
	AudioCodec    string  `mapstructure:"AUDIO_CODEC" json:"audio_codec" yaml:"audio_codec"`
	AudioBitrate  int     `mapstructure:"AUDIO_BITRATE" json:"audio_bitrate" yaml:"audio_bitrate"`
	AudioRate     int     `mapstructure:"AUDIO_RATE" json:"audio_rate" yaml:"audio_rate"`
	AudioChannels int     `mapstructure:"AUDIO_NCH" json:"audio_channels" yaml:"audio_channels"`
	Length        float64 `mapstructure:"LENGTH" json:"length_seconds" yaml:"length_seconds"`
	Demuxer       string  `mapstructure:"DEMUXER" json:"demuxer,omitempty" yaml:"demuxer,omitempty"`
}

// Decode converts m into an Info. Missing keys leave zero values; a value
// that cannot be converted to its field type is an error.
func (m MediaInfo) Decode() (Info, error) {
	var info Info
	if m == nil {
		return info, nil
	}
	decoder, setupErr := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &info,
	})
	if setupErr != nil {
		return Info{}, setupErr
	}
	if err := decoder.Decode(map[string]string(m)); err != nil {
		return Info{}, fmt.Errorf("decode media info: %w", err)
	}
	return info, nil
}

// Duration returns Length as a time.Duration.
func (i Info) Duration() time.Duration {
	return time.Duration(i.Length * float64(time.Second))
}

// HasVideo reports whether the probe found a video stream.
func (i Info) HasVideo() bool {
	return i.VideoCodec != "" || i.VideoFormat != "" || i.Width > 0
}
