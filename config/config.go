package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	// DefaultLogLevel defines a default log level as INFO.
	DefaultLogLevel = "info"

	// LogFormatPlain is a format for colored text
	LogFormatPlain = "plain"

	DefaultConfigDir      = "config"
	DefaultConfigFileName = "config.toml"

	// DefaultBlockingDevice is only read once, to confirm the entropy pool
	// has been seeded.
	DefaultBlockingDevice = "/dev/random"
	// DefaultDevice serves every fallback read.
	DefaultDevice = "/dev/urandom"

	// MaxServeBytes caps the size of a single /random response.
	MaxServeBytes = 4096
)

var (
	DefaultOSRandDir = ".osrand"

	defaultConfigFilePath = filepath.Join(DefaultConfigDir, DefaultConfigFileName)
)

// Config defines the top level configuration for the osrand CLI and server.
type Config struct {
	// Top level options use an anonymous struct
	BaseConfig `mapstructure:",squash"`

	// Options for the kernel random source
	Rand *RandConfig `mapstructure:"rand"`

	// Options for the HTTP server and metrics
	Instrumentation *InstrumentationConfig `mapstructure:"instrumentation"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseConfig:      DefaultBaseConfig(),
		Rand:            DefaultRandConfig(),
		Instrumentation: DefaultInstrumentationConfig(),
	}
}

// TestConfig returns a configuration that can be used for testing. It never
// touches the syscall so the device paths can be pointed at plain files.
func TestConfig() *Config {
	cfg := DefaultConfig()
	cfg.Rand.DisableSyscall = true
	cfg.Instrumentation.Prometheus = false
	return cfg
}

// SetRoot sets the RootDir for all Config structs.
func (cfg *Config) SetRoot(root string) *Config {
	cfg.BaseConfig.RootDir = root
	return cfg
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *Config) ValidateBasic() error {
	if err := cfg.BaseConfig.ValidateBasic(); err != nil {
		return err
	}
	if err := cfg.Rand.ValidateBasic(); err != nil {
		return errors.Wrap(err, "error in [rand] section")
	}
	if err := cfg.Instrumentation.ValidateBasic(); err != nil {
		return errors.Wrap(err, "error in [instrumentation] section")
	}
	return nil
}

//-----------------------------------------------------------------------------
// BaseConfig

// BaseConfig defines the base configuration for osrand.
type BaseConfig struct {
	// The root directory for all data.
	// This should be set in viper so it can unmarshal into this struct
	RootDir string `mapstructure:"home"`

	// Output level for logging
	LogLevel string `mapstructure:"log_level"`

	// Output format: 'plain' (colored text) or 'json'
	LogFormat string `mapstructure:"log_format"`
}

// DefaultBaseConfig returns a default base configuration.
func DefaultBaseConfig() BaseConfig {
	return BaseConfig{
		LogLevel:  DefaultLogLevel,
		LogFormat: LogFormatPlain,
	}
}

// ConfigFile returns the full path to the config.toml file.
func (cfg BaseConfig) ConfigFile() string {
	return rootify(defaultConfigFilePath, cfg.RootDir)
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg BaseConfig) ValidateBasic() error {
	switch cfg.LogFormat {
	case LogFormatPlain, "json":
	default:
		return errors.New("unknown log_format (must be 'plain' or 'json')")
	}
	return nil
}

//-----------------------------------------------------------------------------
// RandConfig

// RandConfig selects the kernel interfaces the random source uses.
type RandConfig struct {
	// Device read once with a blocking single-byte read before the fallback
	// device is first opened.
	BlockingDevice string `mapstructure:"blocking_device"`

	// Non-blocking device used for every fallback read.
	Device string `mapstructure:"device"`

	// Serialise the blocking readiness read so exactly one goroutine
	// performs it.
	StrictReadiness bool `mapstructure:"strict_readiness"`

	// Treat getrandom(2) as missing and always use the device.
	DisableSyscall bool `mapstructure:"disable_syscall"`
}

// DefaultRandConfig returns the kernel defaults.
func DefaultRandConfig() *RandConfig {
	return &RandConfig{
		BlockingDevice:  DefaultBlockingDevice,
		Device:          DefaultDevice,
		StrictReadiness: false,
		DisableSyscall:  false,
	}
}

// ValidateBasic performs basic validation.
func (cfg *RandConfig) ValidateBasic() error {
	if cfg.BlockingDevice == "" {
		return errors.New("blocking_device can't be empty")
	}
	if cfg.Device == "" {
		return errors.New("device can't be empty")
	}
	return nil
}

//-----------------------------------------------------------------------------
// InstrumentationConfig

// InstrumentationConfig defines the configuration for metrics reporting and
// the HTTP endpoint serving random bytes.
type InstrumentationConfig struct {
	// When true, Prometheus metrics are served under /metrics on
	// PrometheusListenAddr.
	Prometheus bool `mapstructure:"prometheus"`

	// Address to listen for the HTTP server.
	PrometheusListenAddr string `mapstructure:"prometheus_listen_addr"`

	// Instrumentation namespace.
	Namespace string `mapstructure:"namespace"`

	// Origins allowed to issue cross-domain requests to /random.
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`

	// Upper bound on the bytes query parameter of /random.
	MaxServeBytes int `mapstructure:"max_serve_bytes"`
}

// DefaultInstrumentationConfig returns a default configuration for metrics
// reporting.
func DefaultInstrumentationConfig() *InstrumentationConfig {
	return &InstrumentationConfig{
		Prometheus:           false,
		PrometheusListenAddr: ":26660",
		Namespace:            "osrand",
		CORSAllowedOrigins:   []string{},
		MaxServeBytes:        MaxServeBytes,
	}
}

// ValidateBasic performs basic validation (checking param bounds, etc.) and
// returns an error if any check fails.
func (cfg *InstrumentationConfig) ValidateBasic() error {
	if cfg.MaxServeBytes <= 0 {
		return errors.New("max_serve_bytes must be positive")
	}
	if cfg.Namespace == "" {
		return errors.New("namespace can't be empty")
	}
	return nil
}

//-----------------------------------------------------------------------------
// Utils

// helper function to make config creation independent of root dir
func rootify(path, root string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// DefaultHome returns $HOME/.osrand, falling back to the working directory
// when the home directory cannot be resolved.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultOSRandDir
	}
	return filepath.Join(home, DefaultOSRandDir)
}
