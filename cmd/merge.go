package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Merges a branch into the current one
var mergeCmd = &cobra.Command{
	Use:   "merge [branch]",
	Short: "Merges the head of a branch into the current branch",
	RunE: func(cmd *cobra.Command, args []string) error {
		return merge(args)
	},
}

func init() {
	RootCmd.AddCommand(mergeCmd)
}

func merge(args []string) error {
	if err := argCount(args, 1); err != nil {
		return err
	}
	r, err := openRepo()
	if err != nil {
		return err
	}
	res, err := r.Merge(args[0])
	if err != nil {
		return err
	}

	if res.Ancestor {
		_, err = fmt.Fprintln(fOut, "Provided branch is an ancestor of the current branch.")
		return err
	}
	if res.FastForward {
		if _, err = fmt.Fprintln(fOut, "Current branch fast-forwarded."); err != nil {
			return err
		}
	}
	if err = printWarnings(res.Warnings); err != nil {
		return err
	}
	if res.Conflicted {
		_, err = fmt.Fprintln(fOut, "Encountered a merge conflict.")
	}
	return err
}
