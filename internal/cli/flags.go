// Package cli turns command-line input into encode options.
package cli

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/mungerd/rembobine/internal/model"
)

// EncodeFlags are the per-encode flags shared by run, tui and plan.
type EncodeFlags struct {
	Resolution string
	Rotation   string
	Quality    int
}

// Bind registers the encode flags on fs.
func (f *EncodeFlags) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&f.Resolution, "resolution", "r", string(model.ResOriginal), "Output resolution: original, 1080p, 720p, 480p, large, medium, small, tiny (ipod)")
	fs.StringVar(&f.Rotation, "rotation", string(model.RotateNone), "Rotation: none, right (90° clockwise), left (90° counter-clockwise)")
	fs.IntVarP(&f.Quality, "quality", "q", model.DefaultQuality, "Quality from 0 (smallest) to 100 (best)")
}

// Resolve builds validated Options from positional arguments
// ([input [output]]) and the encode flags. The output may stay empty; the
// controller then derives it from the input.
func Resolve(args []string, f EncodeFlags) (model.Options, error) {
	if len(args) == 0 {
		return model.Options{}, fmt.Errorf("%w: an input file is required", model.ErrInvalidOption)
	}
	if len(args) > 2 {
		return model.Options{}, fmt.Errorf("%w: expected [input [output]], got %d arguments", model.ErrInvalidOption, len(args))
	}
	input := args[0]
	var output string
	if len(args) > 1 {
		output = args[1]
	}

	res, err := model.ParseResolution(f.Resolution)
	if err != nil {
		return model.Options{}, err
	}
	rot, err := model.ParseRotation(f.Rotation)
	if err != nil {
		return model.Options{}, err
	}
	return model.NewOptions(input, output, res, rot, f.Quality)
}
