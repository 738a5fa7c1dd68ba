package osrand

import (
	"io"
	"time"

	"github.com/pkg/errors"
)

// Ready reports whether a blocking read has confirmed that the kernel entropy
// pool was seeded. Once true it stays true.
func (s *System) Ready() bool {
	return s.ready.Load()
}

// awaitReadiness reads one byte from the blocking device unless readiness was
// already recorded. The read may block for as long as the kernel needs to
// seed its pool.
func (s *System) awaitReadiness() error {
	if s.ready.Load() {
		return nil
	}

	if s.strictReadiness {
		s.readinessMtx.Lock()
		defer s.readinessMtx.Unlock()
		if s.ready.Load() {
			return nil
		}
	}

	start := time.Now()
	dev, err := s.kernel.Open(s.blockingDevice)
	if err != nil {
		return errors.Wrapf(err, "open %s", s.blockingDevice)
	}
	defer dev.Close()

	var one [1]byte
	if _, err := io.ReadFull(dev, one[:]); err != nil {
		return errors.Wrapf(err, "read %s", s.blockingDevice)
	}

	waited := time.Since(start)
	s.metrics.ReadinessWaitSeconds.Observe(waited.Seconds())
	s.ready.Store(true)
	s.logger.Info("Entropy pool is seeded", "device", s.blockingDevice, "waited", waited)
	return nil
}
