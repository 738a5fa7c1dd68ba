package osrand

import (
	"syscall"

	"github.com/pkg/errors"
)

// Available reports whether the kernel supports getrandom(2). The first call
// probes the kernel; concurrent first callers wait for that probe and every
// later call returns the cached answer.
func (s *System) Available() bool {
	return s.available()
}

// probeAvailability issues a zero-length getrandom(2). Only ENOSYS rules the
// syscall out; any other error (EFAULT on some architectures, EPERM under a
// seccomp filter) still counts as available.
func (s *System) probeAvailability() bool {
	var empty [0]byte
	_, err := s.kernel.GetRandom(empty[:])
	available := err == nil || !errors.Is(err, syscall.ENOSYS)

	if available {
		s.metrics.SyscallAvailable.Set(1)
	} else {
		s.metrics.SyscallAvailable.Set(0)
	}
	s.logger.Info("Probed getrandom(2)", "available", available, "err", err)
	return available
}
