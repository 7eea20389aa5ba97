//go:build windows

package crypto

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/windows"
)

var errEmptyRegion = errors.New("empty memory region")

// lockMemory keeps b in the working set.
func lockMemory(b []byte) error {
	if len(b) == 0 {
		return errEmptyRegion
	}
	return windows.VirtualLock(uintptr(unsafe.Pointer(unsafe.SliceData(b))), uintptr(len(b)))
}

func unlockMemory(b []byte) {
	if len(b) > 0 {
		_ = windows.VirtualUnlock(uintptr(unsafe.Pointer(unsafe.SliceData(b))), uintptr(len(b)))
	}
}
