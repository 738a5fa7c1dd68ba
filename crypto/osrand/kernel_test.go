package osrand_test

import (
	"fmt"
	"io"
	"io/fs"
	"sync"
	"syscall"

	"github.com/cometbft/osrand/crypto/osrand"
)

var errNoSys error = syscall.ENOSYS

const (
	syscallByte = 0xA5
	deviceByte  = 0x5A
)

// fakeKernel records every kernel interaction in order so tests can check
// what was touched and when.
type fakeKernel struct {
	mtx    sync.Mutex
	events []string
	opens  map[string]int

	getRandomErr error
	short        int
	openErr      map[string]error
	// bytes a device yields before EOF, unlimited when negative
	deviceLimit int
}

var _ osrand.Kernel = (*fakeKernel)(nil)

func newFakeKernel() *fakeKernel {
	return &fakeKernel{
		opens:       make(map[string]int),
		openErr:     make(map[string]error),
		deviceLimit: -1,
	}
}

// newNoSysKernel behaves like a kernel older than getrandom(2).
func newNoSysKernel() *fakeKernel {
	k := newFakeKernel()
	k.getRandomErr = errNoSys
	return k
}

func (k *fakeKernel) record(format string, args ...interface{}) {
	k.mtx.Lock()
	defer k.mtx.Unlock()
	k.events = append(k.events, fmt.Sprintf(format, args...))
}

func (k *fakeKernel) Events() []string {
	k.mtx.Lock()
	defer k.mtx.Unlock()
	return append([]string(nil), k.events...)
}

func (k *fakeKernel) Opens(name string) int {
	k.mtx.Lock()
	defer k.mtx.Unlock()
	return k.opens[name]
}

func (k *fakeKernel) Count(event string) int {
	n := 0
	for _, ev := range k.Events() {
		if ev == event {
			n++
		}
	}
	return n
}

func (k *fakeKernel) SetOpenErr(name string, err error) {
	k.mtx.Lock()
	defer k.mtx.Unlock()
	if err == nil {
		delete(k.openErr, name)
		return
	}
	k.openErr[name] = err
}

func (k *fakeKernel) SetGetRandomErr(err error) {
	k.mtx.Lock()
	defer k.mtx.Unlock()
	k.getRandomErr = err
}

func (k *fakeKernel) GetRandom(p []byte) (int, error) {
	k.record("getrandom %d", len(p))

	k.mtx.Lock()
	err, short := k.getRandomErr, k.short
	k.mtx.Unlock()

	if err != nil {
		return -1, err
	}
	n := len(p) - short
	if n < 0 {
		n = 0
	}
	for i := 0; i < n; i++ {
		p[i] = syscallByte
	}
	return n, nil
}

func (k *fakeKernel) Open(name string) (io.ReadCloser, error) {
	k.record("open %s", name)

	k.mtx.Lock()
	k.opens[name]++
	err, limit := k.openErr[name], k.deviceLimit
	k.mtx.Unlock()

	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return &fakeDevice{k: k, name: name, remaining: limit}, nil
}

type fakeDevice struct {
	k         *fakeKernel
	name      string
	remaining int
}

func (d *fakeDevice) Read(p []byte) (int, error) {
	d.k.record("read %s %d", d.name, len(p))
	n := len(p)
	if d.remaining >= 0 {
		if d.remaining == 0 {
			return 0, io.EOF
		}
		if n > d.remaining {
			n = d.remaining
		}
		d.remaining -= n
	}
	for i := 0; i < n; i++ {
		p[i] = deviceByte
	}
	return n, nil
}

func (d *fakeDevice) Close() error {
	d.k.record("close %s", d.name)
	return nil
}
