//go:build linux

package osrand

import (
	"golang.org/x/sys/unix"
)

func (osKernel) GetRandom(p []byte) (int, error) {
	return unix.Getrandom(p, 0)
}
