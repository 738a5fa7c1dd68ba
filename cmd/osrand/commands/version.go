package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cometbft/osrand/version"
)

// VersionCmd ...
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version info",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.OSRandSemVer)
	},
}
