package commands

import (
	"github.com/spf13/cobra"

	cfg "github.com/cometbft/osrand/config"
)

// InitFilesCmd writes a default config file under --home.
var InitFilesCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the osrand home directory",
	RunE:  initFiles,
}

func initFiles(cmd *cobra.Command, args []string) error {
	if err := cfg.EnsureRoot(config.RootDir); err != nil {
		return err
	}
	logger.Info("Initialized home directory", "config", config.ConfigFile())
	return nil
}
