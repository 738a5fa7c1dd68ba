package config

import (
	"bytes"
	"os"
	"path/filepath"
	"text/template"

	"github.com/pkg/errors"
)

// DefaultDirPerm is the default permissions used when creating directories.
const DefaultDirPerm = 0o700

var configTemplate *template.Template

func init() {
	var err error
	if configTemplate, err = template.New("configFileTemplate").Parse(defaultConfigTemplate); err != nil {
		panic(err)
	}
}

/****** these are for production settings ***********/

// EnsureRoot creates the root and config directories if they don't exist,
// and writes the default config file if one is missing.
func EnsureRoot(rootDir string) error {
	if err := os.MkdirAll(filepath.Join(rootDir, DefaultConfigDir), DefaultDirPerm); err != nil {
		return errors.Wrapf(err, "could not create directory %q", rootDir)
	}

	configFilePath := filepath.Join(rootDir, defaultConfigFilePath)

	// Write default config file if missing.
	if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
		return WriteConfigFile(configFilePath, DefaultConfig())
	}
	return nil
}

// WriteConfigFile renders config using the template and writes it to
// configFilePath.
func WriteConfigFile(configFilePath string, config *Config) error {
	var buffer bytes.Buffer

	if err := configTemplate.Execute(&buffer, config); err != nil {
		return errors.Wrap(err, "render config template")
	}

	return errors.Wrapf(os.WriteFile(configFilePath, buffer.Bytes(), 0o644), "write %s", configFilePath)
}

// Note: any changes to the comments/variables/mapstructure
// must be reflected in the appropriate struct in config/config.go
const defaultConfigTemplate = `# This is a TOML config file.
# For more information, see https://github.com/toml-lang/toml

# NOTE: Any path below can be absolute (e.g. "/var/myawesomeapp/data") or
# relative to the home directory (e.g. "data"). The home directory is
# "$HOME/.osrand" by default, but could be changed via $OSRAND_HOME env variable
# or --home cmd flag.

#######################################################################
###                   Main Base Config Options                      ###
#######################################################################

# Output level for logging, including package level options
log_level = "{{ .BaseConfig.LogLevel }}"

# Output format: 'plain' (colored text) or 'json'
log_format = "{{ .BaseConfig.LogFormat }}"

#######################################################################
###                 Kernel Random Source Options                    ###
#######################################################################
[rand]

# Device read once, one byte, before the fallback device is first used.
# The read blocks until the kernel entropy pool has been seeded.
blocking_device = "{{ .Rand.BlockingDevice }}"

# Non-blocking device serving every fallback read on kernels without
# getrandom(2).
device = "{{ .Rand.Device }}"

# Serialise the readiness read so that exactly one goroutine performs it.
# When false, goroutines racing at startup may each perform the read.
strict_readiness = {{ .Rand.StrictReadiness }}

# Never call getrandom(2); always use the devices above.
disable_syscall = {{ .Rand.DisableSyscall }}

#######################################################################
###                  Instrumentation Config Options                 ###
#######################################################################
[instrumentation]

# When true, Prometheus metrics are served under /metrics on
# PrometheusListenAddr.
# Check out the documentation for the list of available metrics.
prometheus = {{ .Instrumentation.Prometheus }}

# Address to listen for the HTTP server (/metrics and /random).
prometheus_listen_addr = "{{ .Instrumentation.PrometheusListenAddr }}"

# Instrumentation namespace
namespace = "{{ .Instrumentation.Namespace }}"

# A list of origins a cross-domain request to /random can be executed from.
cors_allowed_origins = [{{ range $i, $o := .Instrumentation.CORSAllowedOrigins }}{{ if $i }}, {{ end }}"{{ $o }}"{{ end }}]

# Maximum number of bytes a single /random request may ask for.
max_serve_bytes = {{ .Instrumentation.MaxServeBytes }}
`
