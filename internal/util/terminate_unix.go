//go:build unix

package util

import (
	"os"

	"golang.org/x/sys/unix"
)

func terminate(p *os.Process) error {
	return p.Signal(unix.SIGTERM)
}
