package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/term"

	"github.com/gitplit/gitplit/config"
	"github.com/gitplit/gitplit/errdefs"
	"github.com/gitplit/gitplit/repo"
)

var (
	// Where user facing output goes
	fOut = io.Writer(os.Stdout)

	appFs = afero.NewOsFs()
)

const (
	colorGreen = "\x1b[32m"
	colorReset = "\x1b[0m"
)

// workDir returns the directory gitplit operates on, which is always the
// current one
func workDir() (string, error) {
	d, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "finding the current directory")
	}
	return d, nil
}

func repoOptions() repo.Options {
	o := cfg.RepoOptions()
	o.Logger = logger
	return o
}

// openRepo opens the repository in the current directory
func openRepo() (*repo.Repository, error) {
	d, err := workDir()
	if err != nil {
		return nil, err
	}
	return repo.Open(appFs, d, repoOptions())
}

// argCount fails with a usage error unless exactly one of the given counts matches
func argCount(args []string, counts ...int) error {
	for _, n := range counts {
		if len(args) == n {
			return nil
		}
	}
	return errdefs.InvalidArgument("Invalid number of arguments.")
}

func printWarnings(warnings []string) error {
	for _, w := range warnings {
		if _, err := fmt.Fprintln(fOut, w); err != nil {
			return err
		}
	}
	return nil
}

// useColor reports whether output may contain terminal colour codes
func useColor() bool {
	switch cfg.Output.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := fOut.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func highlight(s string) string {
	if !useColor() {
		return s
	}
	return colorGreen + s + colorReset
}
