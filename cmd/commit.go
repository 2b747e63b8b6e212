package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

// Records the staged changes as a new commit
var commitCmd = &cobra.Command{
	Use:   "commit [message]",
	Short: "Records the staged changes as a new commit on the current branch",
	RunE: func(cmd *cobra.Command, args []string) error {
		return commit(args)
	},
}

func init() {
	RootCmd.AddCommand(commitCmd)
}

func commit(args []string) error {
	r, err := openRepo()
	if err != nil {
		return err
	}

	// Unquoted messages arrive as several arguments
	id, err := r.Commit(strings.Join(args, " "))
	if err != nil {
		return err
	}
	logger.Debug("commit created", "commit", id)
	return nil
}
