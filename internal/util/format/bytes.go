package format

import (
	"strconv"

	"github.com/mungerd/rembobine/internal/progress"
)

// HumanizeBytes converts a byte count into a human-readable string (e.g., "1.5 MB").
func HumanizeBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	// Use a fixed buffer to avoid allocation
	var buf [20]byte
	frac := float64(b) / float64(div)
	s := strconv.AppendFloat(buf[:0], frac, 'f', 1, 64)
	suffix := []string{"KB", "MB", "GB", "TB"}[exp]
	return string(s) + " " + suffix
}

// ProgressLabel renders an event the way the progress bar shows it: "42 %  (15 MB)".
func ProgressLabel(e progress.Event) string {
	return strconv.Itoa(e.Percent()) + " %  (" + strconv.Itoa(e.OutputSizeMB) + " MB)"
}

// Minutes renders an elapsed minute count ("0 min", "12 min").
func Minutes(m int) string {
	return strconv.Itoa(m) + " min"
}
