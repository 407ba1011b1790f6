// Package deps locates the external tools rembobine drives.
package deps

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ErrNotFound is returned when a required tool cannot be located.
var ErrNotFound = errors.New("tool not found")

// Find returns the path to a tool. A non-empty custom path is tried as a
// file first and then looked up in PATH; otherwise name is looked up.
func Find(name, custom string) (string, error) {
	if custom != "" {
		if st, err := os.Stat(custom); err == nil && !st.IsDir() {
			return custom, nil
		}
		if p, err := exec.LookPath(custom); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("%w: could not find %s at %q", ErrNotFound, name, custom)
	}
	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("%w: could not find %s in PATH. Please install %s.", ErrNotFound, name, name)
}

// FindEncoder returns the path to mencoder (or the configured override).
func FindEncoder(custom string) (string, error) {
	return Find("mencoder", custom)
}

// FindProbe returns the path to mplayer (or the configured override).
func FindProbe(custom string) (string, error) {
	return Find("mplayer", custom)
}
