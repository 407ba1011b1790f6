package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidOption is returned when user-supplied options are rejected before
// any process is launched.
var ErrInvalidOption = errors.New("invalid option")

// DefaultQuality is the quality dial position used when none is given.
const DefaultQuality = 75

// Resolution is a named output size.
type Resolution string

const (
	ResOriginal Resolution = "original"
	Res1080p    Resolution = "1080p"
	Res720p     Resolution = "720p"
	Res480p     Resolution = "480p"
	ResLarge    Resolution = "large"
	ResMedium   Resolution = "medium"
	ResSmall    Resolution = "small"
	ResTiny     Resolution = "tiny"
)

type frameSize struct {
	w, h   int
	aspect string
}

var resolutionSizes = map[Resolution]frameSize{
	ResOriginal: {},
	Res1080p:    {1920, 1080, "16:9"},
	Res720p:     {1280, 720, "16:9"},
	Res480p:     {854, 480, "16:9"},
	ResLarge:    {1024, 768, "4:3"},
	ResMedium:   {800, 600, "4:3"},
	ResSmall:    {640, 480, "4:3"},
	ResTiny:     {320, 240, "4:3"},
}

// Resolutions lists every supported resolution in display order.
func Resolutions() []Resolution {
	return []Resolution{ResOriginal, Res1080p, Res720p, Res480p, ResLarge, ResMedium, ResSmall, ResTiny}
}

// Size returns the target frame size. ok is false for ResOriginal (no scaling).
func (r Resolution) Size() (w, h int, ok bool) {
	fs, known := resolutionSizes[r]
	if !known || fs.w == 0 {
		return 0, 0, false
	}
	return fs.w, fs.h, true
}

// Aspect returns the display aspect label ("16:9", "4:3"), or "" for original.
func (r Resolution) Aspect() string {
	return resolutionSizes[r].aspect
}

// Valid reports whether r is one of the known resolutions.
func (r Resolution) Valid() bool {
	_, ok := resolutionSizes[r]
	return ok
}

// ParseResolution parses a user-facing resolution name (case-insensitive).
// "ipod" is accepted as an alias for tiny, and "" means original.
func ParseResolution(s string) (Resolution, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "":
		return ResOriginal, nil
	case "ipod":
		return ResTiny, nil
	}
	r := Resolution(v)
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown resolution %q (valid: %s)", ErrInvalidOption, s, joinResolutions())
	}
	return r, nil
}

func joinResolutions() string {
	names := make([]string, 0, len(resolutionSizes))
	for _, r := range Resolutions() {
		names = append(names, string(r))
	}
	return strings.Join(names, "|")
}

// Rotation is a quarter-turn applied to the output.
type Rotation string

const (
	RotateNone  Rotation = "none"
	RotateRight Rotation = "right"
	RotateLeft  Rotation = "left"
)

// Code returns the encoder's rotate filter code, or "" for RotateNone.
func (r Rotation) Code() string {
	switch r {
	case RotateRight:
		return "1"
	case RotateLeft:
		return "2"
	default:
		return ""
	}
}

// Valid reports whether r is a known rotation.
func (r Rotation) Valid() bool {
	switch r {
	case RotateNone, RotateRight, RotateLeft:
		return true
	}
	return false
}

// ParseRotation parses a user-facing rotation name (case-insensitive).
func ParseRotation(s string) (Rotation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "0":
		return RotateNone, nil
	case "right", "90", "cw":
		return RotateRight, nil
	case "left", "-90", "270", "ccw":
		return RotateLeft, nil
	}
	return "", fmt.Errorf("%w: unknown rotation %q (valid: none|right|left)", ErrInvalidOption, s)
}

// Options describes one encode. Build it with NewOptions; treat it as immutable.
type Options struct {
	InputPath  string
	OutputPath string
	Resolution Resolution
	Rotation   Rotation
	Quality    int // 0 (smallest file) .. 100 (best quality)
}

// NewOptions validates and returns an Options value.
func NewOptions(input, output string, res Resolution, rot Rotation, quality int) (Options, error) {
	if res == "" {
		res = ResOriginal
	}
	if rot == "" {
		rot = RotateNone
	}
	o := Options{
		InputPath:  input,
		OutputPath: output,
		Resolution: res,
		Rotation:   rot,
		Quality:    quality,
	}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// Validate checks the invariants of o.
func (o Options) Validate() error {
	if strings.TrimSpace(o.InputPath) == "" {
		return fmt.Errorf("%w: input path is required", ErrInvalidOption)
	}
	if o.Quality < 0 || o.Quality > 100 {
		return fmt.Errorf("%w: quality %d out of range [0,100]", ErrInvalidOption, o.Quality)
	}
	if !o.Resolution.Valid() {
		return fmt.Errorf("%w: unknown resolution %q", ErrInvalidOption, o.Resolution)
	}
	if !o.Rotation.Valid() {
		return fmt.Errorf("%w: unknown rotation %q", ErrInvalidOption, o.Rotation)
	}
	return nil
}

// WithOutput returns a copy of o writing to path.
func (o Options) WithOutput(path string) Options {
	o.OutputPath = path
	return o
}
