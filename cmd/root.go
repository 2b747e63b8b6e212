package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"github.com/gitplit/gitplit/config"
	"github.com/gitplit/gitplit/errdefs"
)

var (
	cfgFile   string
	verbose   bool
	cfg       = config.Default()
	logger    = slog.New(slog.NewTextHandler(io.Discard, nil))
	numFormat *message.Printer
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "gitplit",
	Short: "A small local version control system",
	Long: `gitplit is a local version control system in the spirit of git.

It keeps every commit of the files you add in a hidden repository directory
next to them, with branches, merges and resets between those commits.`,
	Args:          cobra.ArbitraryArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errdefs.InvalidArgument("Please enter a command.")
		}
		return errdefs.InvalidArgument("No command with that name exists.")
	},
}

// Execute adds all child commands to the root command & sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
//
// Usage and repository state errors are reported like any other output. Only
// integrity and unexpected errors make the process exit non-zero.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(fOut, err)
		if !errdefs.IsUsage(err) && !errdefs.IsRepositoryState(err) {
			os.Exit(1)
		}
	}
}

func init() {
	// Add support for pretty printing numbers
	numFormat = message.NewPrinter(message.MatchLanguage("en"))

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.gitplit/config.toml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log what each command does to stderr")

	RootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errdefs.InvalidArgument("Incorrect operands.")
	})
}

// loadConfig reads the config file and sets up the diagnostic logger
func loadConfig() error {
	c, err := config.Load(appFs, cfgFile)
	if err != nil {
		return err
	}
	cfg = c

	level := slog.LevelWarn
	if verbose || cfg.Output.Verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if cfg.File != "" {
		logger.Debug("loaded config", "file", cfg.File)
	}
	return nil
}
