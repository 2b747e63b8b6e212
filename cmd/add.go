package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Stages a file for the next commit
var addCmd = &cobra.Command{
	Use:   "add [file]",
	Short: "Stages a file for the next commit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return add(args)
	},
}

func init() {
	RootCmd.AddCommand(addCmd)
}

func add(args []string) error {
	if err := argCount(args, 1); err != nil {
		return err
	}
	r, err := openRepo()
	if err != nil {
		return err
	}
	staged, err := r.Add(args[0])
	if err != nil {
		return err
	}
	if !staged {
		_, err = fmt.Fprintln(fOut, "The file is already tracked and has no changes.")
	}
	return err
}
