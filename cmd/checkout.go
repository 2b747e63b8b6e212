package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gitplit/gitplit/errdefs"
)

// Restores files, or switches branches
var checkoutCmd = &cobra.Command{
	Use:   "checkout [branch] | -- [file] | [commit id] -- [file]",
	Short: "Restores a file from the head commit or a given commit, or switches to a branch",
	RunE: func(cmd *cobra.Command, args []string) error {
		return checkout(args, cmd.ArgsLenAtDash())
	},
}

func init() {
	RootCmd.AddCommand(checkoutCmd)
}

// checkout runs one of the three checkout forms. dash is the number of
// arguments before "--", or -1 if there was none.
func checkout(args []string, dash int) error {
	switch {
	case dash < 0 && len(args) == 1:
		r, err := openRepo()
		if err != nil {
			return err
		}
		res, err := r.CheckoutBranch(args[0])
		if err != nil {
			return err
		}
		return printWarnings(res.Warnings)

	case dash == 0 && len(args) == 1:
		r, err := openRepo()
		if err != nil {
			return err
		}
		return r.CheckoutFile(args[0], "")

	case dash == 1 && len(args) == 2:
		r, err := openRepo()
		if err != nil {
			return err
		}
		return r.CheckoutFile(args[1], args[0])

	case dash < 0 || len(args) > 2:
		return errdefs.InvalidArgument("Invalid number of arguments.")
	}
	return errdefs.InvalidArgument("Incorrect operands.")
}
