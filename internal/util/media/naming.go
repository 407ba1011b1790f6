// Package media holds output naming rules.
package media

import (
	"path/filepath"
	"strings"
)

// DefaultExtension is appended to the input path when no output is requested.
const DefaultExtension = ".avi"

// OutputPath returns requested when set, otherwise the input path with
// DefaultExtension appended ("clip.mov" becomes "clip.mov.avi").
func OutputPath(input, requested string) string {
	if strings.TrimSpace(requested) != "" {
		return requested
	}
	return input + DefaultExtension
}

// SamePath reports whether a and b resolve to the same location.
func SamePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
