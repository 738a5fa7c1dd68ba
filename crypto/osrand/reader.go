package osrand

import (
	"io"
	"runtime"
)

// Reader fills buffers from a source chosen on its first use and kept for its
// whole life: getrandom(2) when the kernel has it, an open handle on the
// non-blocking device otherwise. A Reader is not safe for concurrent use.
type Reader struct {
	sys *System
	src source

	// closes the device handle of a Reader dropped without Close
	cleanup runtime.Cleanup
}

var _ io.ReadCloser = (*Reader)(nil)

// Fill fills p completely with random bytes. An empty p always succeeds
// without touching the kernel. Any failure is reported as ErrUnknown; a
// failed source resolution is retried on the next call.
func (r *Reader) Fill(p []byte) error {
	if len(p) == 0 {
		return nil
	}

	src, err := r.source()
	if err != nil {
		return r.sys.fail(err)
	}
	if err := src.fill(p); err != nil {
		return r.sys.fail(stageError{stage: stageFill, err: err})
	}
	r.sys.metrics.BytesFilled.Add(float64(len(p)))
	return nil
}

// Read implements io.Reader. It either fills p completely or returns
// ErrUnknown.
func (r *Reader) Read(p []byte) (int, error) {
	if err := r.Fill(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close releases the device handle, if any. The next Fill resolves a source
// again.
func (r *Reader) Close() error {
	d, ok := r.src.(*deviceSource)
	r.src = nil
	if !ok {
		return nil
	}
	r.cleanup.Stop()
	return d.dev.Close()
}

// source returns the cached source, resolving it on first use.
func (r *Reader) source() (source, error) {
	if r.src != nil {
		return r.src, nil
	}
	src, err := r.sys.resolve()
	if err != nil {
		return nil, err
	}
	if d, ok := src.(*deviceSource); ok {
		r.cleanup = runtime.AddCleanup(r, closeDevice, io.Closer(d.dev))
	}
	r.src = src
	return src, nil
}
