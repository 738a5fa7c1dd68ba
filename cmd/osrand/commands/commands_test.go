package commands

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfg "github.com/cometbft/osrand/config"
	"github.com/cometbft/osrand/crypto/osrand"
	"github.com/cometbft/osrand/version"
)

func init() {
	RootCmd.AddCommand(InitFilesCmd, FillCmd, ProbeCmd, UUIDCmd, ServeCmd, VersionCmd)
}

// run executes the root command with args against a fresh home directory
// and returns what was written to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runIn(t, t.TempDir(), args...)
}

func runIn(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()

	prev := osrand.Default()
	t.Cleanup(func() { osrand.SetDefault(prev) })
	resetFlags(RootCmd)

	var stdout, stderr bytes.Buffer
	RootCmd.SetOut(&stdout)
	RootCmd.SetErr(&stderr)
	RootCmd.SetArgs(append(args, "--home", home, "--log_level", "none"))
	err := RootCmd.Execute()
	return stdout.String(), err
}

// resetFlags puts every flag back to its default; cobra keeps parsed values
// between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version.OSRandSemVer+"\n", out)
}

func TestFillCmd(t *testing.T) {
	out, err := run(t, "fill", "--bytes", "16", "--count", "3", "--workers", "2", "--format", "hex")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		b, err := hex.DecodeString(line)
		require.NoError(t, err)
		assert.Len(t, b, 16)
	}
}

func TestFillCmdRaw(t *testing.T) {
	out, err := run(t, "fill", "--bytes", "40", "--count", "1", "--workers", "1", "--format", "raw")
	require.NoError(t, err)
	assert.Len(t, out, 40)
}

func TestFillCmdBadFormat(t *testing.T) {
	_, err := run(t, "fill", "--format", "octal")
	require.Error(t, err)
}

func TestFillCmdDeviceMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-device")
	_, err := run(t, "fill", "--format", "hex", "--rand.disable_syscall", "--rand.blocking_device", missing)
	require.Equal(t, osrand.ErrUnknown, errors.Cause(err))
}

func TestProbeCmd(t *testing.T) {
	out, err := run(t, "probe")
	require.NoError(t, err)
	assert.Contains(t, out, "getrandom_available:")
	assert.Contains(t, out, "fill: ok")
}

func TestUUIDCmd(t *testing.T) {
	out, err := run(t, "uuid", "--count", "4")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	for _, line := range lines {
		id, err := uuid.Parse(line)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), id.Version())
	}
}

func TestInitCmd(t *testing.T) {
	home := t.TempDir()
	_, err := runIn(t, home, "init")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(home, cfg.DefaultConfigDir, cfg.DefaultConfigFileName))
	require.NoError(t, err)
}

func TestParseConfigReadsFile(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, cfg.EnsureRoot(home))

	conf := cfg.DefaultConfig()
	conf.Rand.StrictReadiness = true
	conf.Rand.Device = "/tmp/urandom"
	require.NoError(t, cfg.WriteConfigFile(filepath.Join(home, cfg.DefaultConfigDir, cfg.DefaultConfigFileName), conf))

	resetFlags(RootCmd)
	require.NoError(t, ProbeCmd.ParseFlags([]string{"--home", home}))
	parsed, err := ParseConfig(ProbeCmd)
	require.NoError(t, err)
	assert.Equal(t, home, parsed.RootDir)
	assert.True(t, parsed.Rand.StrictReadiness)
	assert.Equal(t, "/tmp/urandom", parsed.Rand.Device)
	assert.Equal(t, cfg.DefaultBlockingDevice, parsed.Rand.BlockingDevice)
}
