package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitplit/gitplit/errdefs"
)

// Lists the commits carrying a message
var findCmd = &cobra.Command{
	Use:   "find [message]",
	Short: "Prints the id of every commit with exactly the given message",
	RunE: func(cmd *cobra.Command, args []string) error {
		return find(args)
	},
}

func init() {
	RootCmd.AddCommand(findCmd)
}

func find(args []string) error {
	if len(args) == 0 {
		return errdefs.InvalidArgument("Invalid number of arguments.")
	}
	r, err := openRepo()
	if err != nil {
		return err
	}
	ids, err := r.Find(strings.Join(args, " "))
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err = fmt.Fprintln(fOut, id); err != nil {
			return err
		}
	}
	return nil
}
