//go:build linux

package osrand_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cometbft/osrand/crypto/osrand"
)

func TestKernelGetRandom(t *testing.T) {
	s := osrand.NewSystem()
	if !s.Available() {
		t.Skip("kernel without getrandom(2)")
	}

	r := s.NewReader()
	defer r.Close()

	a, b := make([]byte, 64), make([]byte, 64)
	require.NoError(t, r.Fill(a))
	require.NoError(t, r.Fill(b))
	assert.NotEqual(t, make([]byte, 64), a)
	assert.False(t, bytes.Equal(a, b))
	assert.False(t, s.Ready())
}

func TestKernelDevices(t *testing.T) {
	for _, dev := range []string{osrand.DefaultBlockingDevice, osrand.DefaultDevice} {
		f, err := os.Open(dev)
		if err != nil {
			t.Skipf("cannot open %s: %v", dev, err)
		}
		f.Close()
	}

	s := osrand.NewSystem(osrand.WithSyscallDisabled(true))
	r := s.NewReader()
	defer r.Close()

	buf := make([]byte, 4096)
	require.NoError(t, r.Fill(buf))
	assert.NotEqual(t, make([]byte, 4096), buf)
	assert.True(t, s.Ready())
}
