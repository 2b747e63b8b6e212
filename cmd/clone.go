package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gitplit/gitplit/repo"
)

// Copies a repository into another directory
var cloneCmd = &cobra.Command{
	Use:   "clone [repo path] [dir path]",
	Short: "Copies the repository of the current directory, or of repo path, into dir path",
	RunE: func(cmd *cobra.Command, args []string) error {
		return clone(args)
	},
}

func init() {
	RootCmd.AddCommand(cloneCmd)
}

func clone(args []string) error {
	if err := argCount(args, 1, 2); err != nil {
		return err
	}
	src, err := workDir()
	if err != nil {
		return err
	}
	dst := args[0]
	if len(args) == 2 {
		src, dst = args[0], args[1]
	}
	return repo.Clone(appFs, src, dst, repoOptions())
}
