/*
Package osrand fills buffers with cryptographically secure random bytes taken
straight from the Linux kernel.

Two kernel interfaces are supported. getrandom(2) is preferred and is used
whenever a zero-length probe call shows the kernel implements it. Older
kernels fall back to /dev/urandom, which is only opened after a one-byte
blocking read from /dev/random has confirmed that the entropy pool was seeded.

The probe and the readiness read are process-wide and happen at most once per
System (the readiness read may be repeated by goroutines racing at startup
unless strict readiness is enabled). The choice between the syscall and an
open device handle is made once per Reader and then reused for every fill.
Readers are not safe for concurrent use: a goroutine that wants a dedicated
handle calls NewReader, everyone else goes through System.Fill, which borrows
a Reader from a per-P pool.

All failures are reported as ErrUnknown. The underlying cause is logged and
counted in the failures metric before it is discarded.

	buf := make([]byte, 32)
	if err := osrand.Fill(buf); err != nil {
		return err
	}
*/
package osrand
