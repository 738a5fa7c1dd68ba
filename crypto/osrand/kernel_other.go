//go:build !linux

package osrand

import (
	"syscall"
)

// getrandom(2) is Linux specific. Everywhere else the probe sees ENOSYS and
// the device path is used.
func (osKernel) GetRandom([]byte) (int, error) {
	return 0, syscall.ENOSYS
}
