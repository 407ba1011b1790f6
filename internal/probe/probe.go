package probe

import (
	"context"
	"fmt"

	"github.com/mungerd/rembobine/internal/encoder"
	"github.com/mungerd/rembobine/internal/util"
)

// Identify runs the probe binary on path and parses its output.
// Launch failures and non-zero exits are returned as errors with a nil
// MediaInfo.
func Identify(ctx context.Context, runner util.CmdRunner, binary, path string) (MediaInfo, error) {
	spec := encoder.BuildProbeCommand(binary, path)
	res, err := runner.Run(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", spec.Path, err)
	}
	return ParseMediaInfo(res.Stdout), nil
}
