// Package main provides the clay command, which drives Colab notebooks
// from the terminal through a signed-in browser profile.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/clay/pkg/config"
	"github.com/entrhq/clay/pkg/logging"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// cli holds the persistent flags and the per-invocation state shared by
// every command.
type cli struct {
	engine     string
	profileDir string
	headless   bool
	url        string
	configPath string
	verbose    bool

	log *logging.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{log: logging.Nop()}

	root := &cobra.Command{
		Use:           "clay",
		Short:         "Drive Colab notebooks from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.log.Close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.engine, "engine", "", "browser engine: auto, chromium or firefox (default from config)")
	flags.StringVar(&c.profileDir, "profile-dir", "", "base directory of the browser profiles (default from config)")
	flags.BoolVar(&c.headless, "headless", true, "run the browser without a window")
	flags.StringVar(&c.url, "url", "", "notebook URL to open (default: the Colab start page)")
	flags.StringVar(&c.configPath, "config", "", "config file (default ~/.clay/config.json)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "debug logging, mirrored to stderr")

	root.AddCommand(
		c.loginCmd(),
		c.newCmd(),
		c.nameCmd(),
		c.cellsCmd(),
		c.runCmd(),
		c.setTextCmd(),
		c.outputCmd(),
		c.fieldsCmd(),
		c.setCmd(),
		c.restartCmd(),
		c.execCmd(),
		c.watchCmd(),
		c.configCmd(),
		versionCmd(),
	)
	return root
}

// setup loads the config and opens the log.
func (c *cli) setup() error {
	logging.SetVerbose(c.verbose)
	c.log = logging.MustLogger("cli")

	if err := config.Initialize(c.configPath); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	c.log.Debugf("session %s, log %s", c.log.SessionID(), c.log.LogPath())
	return nil
}

// colorOutput reports whether w is a terminal that takes ANSI styling.
func colorOutput(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "clay v%s\n", version)
		},
	}
}
