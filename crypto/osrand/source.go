package osrand

import (
	"io"

	"github.com/pkg/errors"
)

const (
	sourceGetRandom = "getrandom"
	sourceDevice    = "device"
)

// source is what a Reader resolves to: either getrandom(2) or an open device.
type source interface {
	fill(p []byte) error
}

type syscallSource struct {
	kernel Kernel
}

// fill succeeds only if the syscall reports exactly len(p) bytes written.
func (s syscallSource) fill(p []byte) error {
	n, err := s.kernel.GetRandom(p)
	if err != nil {
		return errors.Wrap(err, "getrandom")
	}
	if n != len(p) {
		return errors.Errorf("getrandom: wrote %d of %d bytes", n, len(p))
	}
	return nil
}

type deviceSource struct {
	name string
	dev  io.ReadCloser
}

func openDevice(k Kernel, name string) (*deviceSource, error) {
	dev, err := k.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", name)
	}
	return &deviceSource{name: name, dev: dev}, nil
}

// fill requires the device to produce len(p) bytes; an early EOF fails the
// fill.
func (s *deviceSource) fill(p []byte) error {
	if _, err := io.ReadFull(s.dev, p); err != nil {
		return errors.Wrapf(err, "read %s", s.name)
	}
	return nil
}

func closeDevice(dev io.Closer) {
	dev.Close()
}
