//go:build !unix

package util

import "os"

// Windows has no SIGTERM; Kill is the only way to stop the child.
func terminate(p *os.Process) error {
	return p.Kill()
}
