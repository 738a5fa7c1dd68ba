package osrand

import (
	"io"
	"os"
	"syscall"
)

const (
	// DefaultBlockingDevice blocks until the entropy pool is seeded.
	DefaultBlockingDevice = "/dev/random"
	// DefaultDevice never blocks and serves every fallback read.
	DefaultDevice = "/dev/urandom"
)

// Kernel is the narrow set of kernel facilities a System consumes.
type Kernel interface {
	// GetRandom issues getrandom(2) with flags 0 and returns the number of
	// bytes written.
	GetRandom(p []byte) (int, error)

	// Open opens a character device for reading.
	Open(name string) (io.ReadCloser, error)
}

// NewKernel returns the Kernel of the running operating system.
func NewKernel() Kernel {
	return osKernel{}
}

type osKernel struct{}

func (osKernel) Open(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

// noSyscallKernel reports getrandom(2) as missing so the device path is
// always taken.
type noSyscallKernel struct {
	Kernel
}

func (noSyscallKernel) GetRandom([]byte) (int, error) {
	return 0, syscall.ENOSYS
}
