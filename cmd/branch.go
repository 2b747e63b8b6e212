package cmd

import (
	"github.com/spf13/cobra"
)

var branchCmdDelete bool

// branchCmd creates or deletes a branch
var branchCmd = &cobra.Command{
	Use:   "branch [name]",
	Short: "Creates a branch at the head commit, or deletes one with -d",
	RunE: func(cmd *cobra.Command, args []string) error {
		return branch(args)
	},
}

func init() {
	RootCmd.AddCommand(branchCmd)
	branchCmd.Flags().BoolVarP(&branchCmdDelete, "delete", "d", false, "Delete the named branch")
}

func branch(args []string) error {
	if err := argCount(args, 1); err != nil {
		return err
	}
	r, err := openRepo()
	if err != nil {
		return err
	}
	if branchCmdDelete {
		return r.DeleteBranch(args[0])
	}
	return r.CreateBranch(args[0])
}
