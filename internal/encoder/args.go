package encoder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mungerd/rembobine/internal/model"
	"github.com/mungerd/rembobine/internal/util"
	"github.com/mungerd/rembobine/internal/util/quality"
)

// BuildEncodeCommand constructs the mencoder invocation for o.
// The only failure is an invalid o (model.ErrInvalidOption).
func BuildEncodeCommand(binary string, o model.Options) (util.CmdSpec, error) {
	if err := o.Validate(); err != nil {
		return util.CmdSpec{}, err
	}
	if strings.TrimSpace(o.OutputPath) == "" {
		return util.CmdSpec{}, fmt.Errorf("%w: output path is required", model.ErrInvalidOption)
	}
	if binary == "" {
		binary = DefaultEncoder
	}

	args := []string{
		argPath(o.InputPath),
		"-o", argPath(o.OutputPath),
		"-oac", AudioCodec,
		"-ovc", VideoCodec,
		QualityFlag, QualitySubopts(o.Quality),
	}
	if filters := Filters(o); len(filters) > 0 {
		args = append(args, "-vf", strings.Join(filters, ","))
	}

	return util.CmdSpec{Path: binary, Args: args}, nil
}

// QualitySubopts renders the x264 suboption string for a quality percentage.
func QualitySubopts(percent int) string {
	return "crf=" + quality.FormatCRF(quality.CRF(percent)) + ":threads=auto"
}

// Filters returns the ordered video filter chain for o: scale first, then rotate.
func Filters(o model.Options) []string {
	var filters []string
	if w, h, ok := o.Resolution.Size(); ok {
		filters = append(filters, "scale="+strconv.Itoa(w)+":"+strconv.Itoa(h))
	}
	if code := o.Rotation.Code(); code != "" {
		filters = append(filters, "rotate="+code)
	}
	return filters
}

// BuildProbeCommand constructs the mplayer identification invocation.
// Zero frames and null sinks keep the probe from rendering anything.
func BuildProbeCommand(binary, inputPath string) util.CmdSpec {
	if binary == "" {
		binary = DefaultProbe
	}
	return util.CmdSpec{
		Path: binary,
		Args: []string{
			"-frames", "0",
			"-vo", "null",
			"-ao", "null",
			"-identify",
			argPath(inputPath),
		},
		CaptureStdout: true,
	}
}

// argPath keeps a path that starts with '-' from being read as a flag.
func argPath(p string) string {
	if strings.HasPrefix(p, "-") {
		return "./" + p
	}
	return p
}
