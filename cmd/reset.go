package cmd

import (
	"github.com/spf13/cobra"
)

// Moves the current branch to a commit
var resetCmd = &cobra.Command{
	Use:   "reset [commit id]",
	Short: "Checks out every file of a commit and moves the current branch to it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return reset(args)
	},
}

func init() {
	RootCmd.AddCommand(resetCmd)
}

func reset(args []string) error {
	if err := argCount(args, 1); err != nil {
		return err
	}
	r, err := openRepo()
	if err != nil {
		return err
	}
	res, err := r.Reset(args[0])
	if err != nil {
		return err
	}
	return printWarnings(res.Warnings)
}
