//go:build !windows

package crypto

import (
	"errors"

	"golang.org/x/sys/unix"
)

var errEmptyRegion = errors.New("empty memory region")

// lockMemory keeps b out of swap.
func lockMemory(b []byte) error {
	if len(b) == 0 {
		return errEmptyRegion
	}
	return unix.Mlock(b)
}

func unlockMemory(b []byte) {
	if len(b) > 0 {
		_ = unix.Munlock(b)
	}
}
