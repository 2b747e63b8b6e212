package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const GITPLIT_VERSION = "0.1.0"

// Displays the version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Displays the version of gitplit being run",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(fOut, "gitplit version %s\n", GITPLIT_VERSION)
		return err
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
