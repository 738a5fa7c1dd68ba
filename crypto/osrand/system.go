package osrand

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/cometbft/osrand/config"
	"github.com/cometbft/osrand/libs/log"
	cmtsync "github.com/cometbft/osrand/libs/sync"
)

// System holds the process-wide state shared by every Reader created from
// it: the getrandom(2) availability flag and the entropy pool readiness flag.
// Both are written once and never change afterwards.
type System struct {
	kernel  Kernel
	logger  log.Logger
	metrics *Metrics

	blockingDevice  string
	device          string
	strictReadiness bool
	disableSyscall  bool

	available func() bool

	ready        atomic.Bool
	readinessMtx cmtsync.Mutex

	readers sync.Pool
}

var _ io.Reader = (*System)(nil)

// Option sets an optional parameter on the System.
type Option func(*System)

// WithKernel replaces the kernel facilities, mostly for tests.
func WithKernel(k Kernel) Option {
	return func(s *System) { s.kernel = k }
}

// WithLogger sets the logger failures and source decisions are reported to.
func WithLogger(l log.Logger) Option {
	return func(s *System) { s.logger = l }
}

// WithMetrics sets the metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *System) { s.metrics = m }
}

// WithDevicePaths overrides the blocking and non-blocking devices.
func WithDevicePaths(blocking, nonBlocking string) Option {
	return func(s *System) {
		s.blockingDevice = blocking
		s.device = nonBlocking
	}
}

// WithStrictReadiness serialises the readiness read so it runs exactly once.
// Without it, goroutines racing on a fresh System may each perform it.
func WithStrictReadiness(strict bool) Option {
	return func(s *System) { s.strictReadiness = strict }
}

// WithSyscallDisabled makes the System behave as if the kernel lacked
// getrandom(2).
func WithSyscallDisabled(disabled bool) Option {
	return func(s *System) { s.disableSyscall = disabled }
}

// NewSystem returns a System with fresh process-wide state.
func NewSystem(options ...Option) *System {
	s := &System{
		kernel:         NewKernel(),
		logger:         log.NewNopLogger(),
		metrics:        NopMetrics(),
		blockingDevice: DefaultBlockingDevice,
		device:         DefaultDevice,
	}
	for _, option := range options {
		option(s)
	}
	if s.disableSyscall {
		s.kernel = noSyscallKernel{s.kernel}
	}
	s.available = sync.OnceValue(s.probeAvailability)
	s.readers.New = func() interface{} { return s.NewReader() }
	return s
}

// NewSystemFromConfig returns a System configured from the [rand] section.
// Further options are applied after the config.
func NewSystemFromConfig(cfg *config.RandConfig, options ...Option) *System {
	return NewSystem(append([]Option{
		WithDevicePaths(cfg.BlockingDevice, cfg.Device),
		WithStrictReadiness(cfg.StrictReadiness),
		WithSyscallDisabled(cfg.DisableSyscall),
	}, options...)...)
}

// NewReader returns a Reader that resolves its source on first use. The
// Reader must not be shared between goroutines.
func (s *System) NewReader() *Reader {
	return &Reader{sys: s}
}

// Fill fills p completely with random bytes using a pooled Reader. It is safe
// for concurrent use.
func (s *System) Fill(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	r := s.readers.Get().(*Reader)
	defer s.readers.Put(r)
	return r.Fill(p)
}

// Read implements io.Reader. It either fills p completely or returns
// ErrUnknown.
func (s *System) Read(p []byte) (int, error) {
	if err := s.Fill(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// resolve picks the source a new Reader will use for its whole life.
func (s *System) resolve() (source, error) {
	if s.Available() {
		s.metrics.Resolutions.With("source", sourceGetRandom).Add(1)
		s.logger.Debug("Resolved random source", "source", sourceGetRandom)
		return syscallSource{kernel: s.kernel}, nil
	}

	if err := s.awaitReadiness(); err != nil {
		return nil, stageError{stage: stageReadiness, err: err}
	}

	src, err := openDevice(s.kernel, s.device)
	if err != nil {
		return nil, stageError{stage: stageOpen, err: err}
	}
	s.metrics.Resolutions.With("source", sourceDevice).Add(1)
	s.logger.Debug("Resolved random source", "source", sourceDevice, "device", s.device)
	return src, nil
}

// fail records err and collapses it to ErrUnknown.
func (s *System) fail(err error) error {
	stage := stageOf(err)
	s.metrics.Failures.With("stage", stage).Add(1)
	s.logger.Error("Failed to fill buffer with random bytes", "stage", stage, "err", err)
	return ErrUnknown
}

//-----------------------------------------------------------------------------

var defaultSystem atomic.Pointer[System]

func init() {
	defaultSystem.Store(NewSystem())
}

// Default returns the System used by the package-level functions.
func Default() *System {
	return defaultSystem.Load()
}

// SetDefault replaces the System used by the package-level functions. It is
// meant to be called once at startup; Readers created from the previous
// System keep using it. A nil s restores a fresh System over the running
// kernel.
func SetDefault(s *System) {
	if s == nil {
		s = NewSystem()
	}
	defaultSystem.Store(s)
}

// Fill fills p completely with random bytes from the default System.
func Fill(p []byte) error {
	return Default().Fill(p)
}

// Read is a helper that reads from the default System. On return,
// n == len(p) if and only if err == nil.
func Read(p []byte) (int, error) {
	return Default().Read(p)
}

// Available reports whether the default System uses getrandom(2).
func Available() bool {
	return Default().Available()
}

// Ready reports whether the default System has confirmed the entropy pool was
// seeded.
func Ready() bool {
	return Default().Ready()
}
