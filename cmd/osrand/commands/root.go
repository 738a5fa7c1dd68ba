package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cfg "github.com/cometbft/osrand/config"
	"github.com/cometbft/osrand/crypto/osrand"
	"github.com/cometbft/osrand/libs/log"
)

const (
	// HomeFlag is the flag (and viper key) holding the root directory.
	HomeFlag = "home"

	envPrefix = "OSRAND"
)

var (
	config = cfg.DefaultConfig()
	logger = log.NewTMLogger(log.NewSyncWriter(os.Stderr))
)

func init() {
	registerFlagsRootCmd(RootCmd)
}

func registerFlagsRootCmd(cmd *cobra.Command) {
	cmd.PersistentFlags().String(HomeFlag, cfg.DefaultHome(), "directory for config")
	cmd.PersistentFlags().String("log_level", config.LogLevel, "log level (debug, info, error, none)")
	cmd.PersistentFlags().String("log_format", config.LogFormat, "log format (plain, json)")

	cmd.PersistentFlags().String("rand.blocking_device", config.Rand.BlockingDevice,
		"device read once to confirm the entropy pool is seeded")
	cmd.PersistentFlags().String("rand.device", config.Rand.Device,
		"non-blocking device used when getrandom(2) is missing")
	cmd.PersistentFlags().Bool("rand.strict_readiness", config.Rand.StrictReadiness,
		"serialise the readiness read so it runs exactly once")
	cmd.PersistentFlags().Bool("rand.disable_syscall", config.Rand.DisableSyscall,
		"never call getrandom(2), always read the devices")
}

// ParseConfig retrieves the default environment configuration, sets up the
// root and ensures that the root exists
func ParseConfig(cmd *cobra.Command) (*cfg.Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, errors.Wrap(err, "bind flags")
	}

	home := v.GetString(HomeFlag)
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(filepath.Join(home, cfg.DefaultConfigDir))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}

	conf := cfg.DefaultConfig()
	if err := v.Unmarshal(conf); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	conf.SetRoot(home)

	if err := conf.ValidateBasic(); err != nil {
		return nil, errors.Wrap(err, "error in config file")
	}
	return conf, nil
}

// RootCmd is the root command for osrand.
var RootCmd = &cobra.Command{
	Use:           "osrand",
	Short:         "Random bytes straight from the kernel",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		if cmd.Name() == VersionCmd.Name() {
			return nil
		}

		config, err = ParseConfig(cmd)
		if err != nil {
			return err
		}

		if config.LogFormat == "json" {
			logger = log.NewTMJSONLogger(log.NewSyncWriter(cmd.ErrOrStderr()))
		} else {
			logger = log.NewTMLogger(log.NewSyncWriter(cmd.ErrOrStderr()))
		}

		option, err := log.AllowLevel(config.LogLevel)
		if err != nil {
			return err
		}
		logger = log.NewFilter(logger, option).With("module", "main")
		return nil
	},
}

// newSystem builds the random source from the [rand] section and installs it
// as the process default.
func newSystem(options ...osrand.Option) *osrand.System {
	sys := osrand.NewSystemFromConfig(config.Rand,
		append([]osrand.Option{osrand.WithLogger(logger.With("module", "osrand"))}, options...)...)
	osrand.SetDefault(sys)
	return sys
}
