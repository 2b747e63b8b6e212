package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitplit/gitplit/object"
	"github.com/gitplit/gitplit/repo"
)

// Displays the history of the current branch
var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Displays the commit history from the head commit back to the initial commit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return logHistory(args)
	},
}

func init() {
	RootCmd.AddCommand(logCmd)
}

func logHistory(args []string) error {
	if err := argCount(args, 0); err != nil {
		return err
	}
	r, err := openRepo()
	if err != nil {
		return err
	}
	entries, err := r.Log()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if _, err = fmt.Fprint(fOut, createCommitText(e)); err != nil {
			return err
		}
	}
	return nil
}

// Creates the user visible commit text for a commit.
func createCommitText(e repo.LogEntry) string {
	c := e.Commit
	s := "===\n"
	s += fmt.Sprintf("commit %s\n", e.ID)
	if c.IsMerge() {
		s += fmt.Sprintf("Merge: %s %s\n", object.Short(c.Parent), object.Short(c.SecondParent))
	}
	s += fmt.Sprintf("Date: %s\n", c.Timestamp)
	s += fmt.Sprintf("%s\n\n", c.Message)
	return s
}
