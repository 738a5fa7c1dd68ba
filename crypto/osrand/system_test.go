package osrand_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cometbft/osrand/config"
	"github.com/cometbft/osrand/crypto/osrand"
)

func TestSystemFillPooled(t *testing.T) {
	k := newNoSysKernel()
	s := osrand.NewSystem(osrand.WithKernel(k))

	const fills = 50
	for i := 0; i < fills; i++ {
		buf := make([]byte, 24)
		require.NoError(t, s.Fill(buf))
		require.Equal(t, bytes.Repeat([]byte{deviceByte}, 24), buf)
	}

	// the pool may drop Readers at any time, so only bound the opens
	opens := k.Opens("/dev/urandom")
	assert.GreaterOrEqual(t, opens, 1)
	assert.LessOrEqual(t, opens, fills)
	assert.Equal(t, 1, k.Count("getrandom 0"))
}

func TestSystemFillConcurrent(t *testing.T) {
	k := newFakeKernel()
	s := osrand.NewSystem(osrand.WithKernel(k))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				assert.NoError(t, s.Fill(make([]byte, 16)))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, k.Count("getrandom 0"))
	assert.Equal(t, 320, k.Count("getrandom 16"))
}

func TestSystemFillEmpty(t *testing.T) {
	k := newFakeKernel()
	s := osrand.NewSystem(osrand.WithKernel(k))

	require.NoError(t, s.Fill(nil))
	n, err := s.Read(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, k.Events())
}

func TestSystemRead(t *testing.T) {
	k := newFakeKernel()
	s := osrand.NewSystem(osrand.WithKernel(k))

	buf := make([]byte, 10)
	n, err := s.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	k.SetGetRandomErr(errNoSys)
	n, err = s.Read(buf)
	assert.Zero(t, n)
	assert.Equal(t, osrand.ErrUnknown, err)
}

func TestNewSystemFromConfig(t *testing.T) {
	cfg := config.DefaultRandConfig()
	cfg.DisableSyscall = true
	cfg.StrictReadiness = true
	cfg.BlockingDevice = "/tmp/random"
	cfg.Device = "/tmp/urandom"

	k := newFakeKernel()
	s := osrand.NewSystemFromConfig(cfg, osrand.WithKernel(k))

	assert.False(t, s.Available())
	require.NoError(t, s.Fill(make([]byte, 4)))
	assert.Equal(t, 1, k.Opens("/tmp/random"))
	assert.Equal(t, 1, k.Opens("/tmp/urandom"))
	assert.Zero(t, k.Count("getrandom 0"))
}

func TestDefaultSystem(t *testing.T) {
	prev := osrand.Default()
	t.Cleanup(func() { osrand.SetDefault(prev) })

	k := newFakeKernel()
	osrand.SetDefault(osrand.NewSystem(osrand.WithKernel(k)))

	buf := make([]byte, 12)
	require.NoError(t, osrand.Fill(buf))
	assert.Equal(t, bytes.Repeat([]byte{syscallByte}, 12), buf)

	n, err := osrand.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	assert.True(t, osrand.Available())
	assert.False(t, osrand.Ready())

	osrand.SetDefault(nil)
	assert.NotNil(t, osrand.Default())
	assert.NotSame(t, prev, osrand.Default())
}
