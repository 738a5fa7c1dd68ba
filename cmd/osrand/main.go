package main

import (
	"os"

	"github.com/cometbft/osrand/cmd/osrand/commands"
)

func main() {
	rootCmd := commands.RootCmd
	rootCmd.AddCommand(
		commands.InitFilesCmd,
		commands.FillCmd,
		commands.ProbeCmd,
		commands.UUIDCmd,
		commands.ServeCmd,
		commands.VersionCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
