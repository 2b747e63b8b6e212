package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gitplit/gitplit/repo"
)

// Creates a new repository in the current directory
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Creates a new repository in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return initRepo(args)
	},
}

func init() {
	RootCmd.AddCommand(initCmd)
}

func initRepo(args []string) error {
	if err := argCount(args, 0); err != nil {
		return err
	}
	d, err := workDir()
	if err != nil {
		return err
	}
	_, err = repo.Init(appFs, d, repoOptions())
	return err
}
