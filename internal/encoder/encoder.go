// Package encoder builds mencoder/mplayer invocations and parses mencoder's
// status output.
package encoder

// Default binaries looked up in PATH when none is configured.
const (
	DefaultEncoder = "mencoder"
	DefaultProbe   = "mplayer"
)

// Fixed codec choices. They are not user-configurable.
const (
	AudioCodec  = "mp3lame"
	VideoCodec  = "x264"
	QualityFlag = "-x264encopts"
)

// Binaries names the external tools used for a job.
type Binaries struct {
	Encoder string
	Probe   string
}

// WithDefaults fills empty fields with the default binary names.
func (b Binaries) WithDefaults() Binaries {
	if b.Encoder == "" {
		b.Encoder = DefaultEncoder
	}
	if b.Probe == "" {
		b.Probe = DefaultProbe
	}
	return b
}
