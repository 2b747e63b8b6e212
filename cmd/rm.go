package cmd

import (
	"github.com/spf13/cobra"
)

// Unstages a file, or stages its removal
var rmCmd = &cobra.Command{
	Use:   "rm [file]",
	Short: "Unstages a file, and stages its removal if the head commit tracks it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return rm(args)
	},
}

func init() {
	RootCmd.AddCommand(rmCmd)
}

func rm(args []string) error {
	if err := argCount(args, 1); err != nil {
		return err
	}
	r, err := openRepo()
	if err != nil {
		return err
	}
	return r.Remove(args[0])
}
