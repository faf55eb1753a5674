package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/entrhq/clay/pkg/colab"
	"github.com/entrhq/clay/pkg/google"
	"github.com/entrhq/clay/pkg/script"
	"github.com/spf13/cobra"
)

func (c *cli) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign the browser profile in to a Google account",
		Long: "Opens a browser window on the Google sign-in page using the profile " +
			"directory. Sign in, then close the window.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engines, err := c.engines()
			if err != nil {
				return err
			}
			// auto signs in the first engine
			engine := engines[0]

			rt := google.NewRuntime()
			rt.SetVerbose(c.verbose)
			defer rt.Stop()
			if err := rt.Initialize(engine); err != nil {
				return err
			}

			opts := c.driverOptions(cmd)
			opts.Engine = engine
			fmt.Fprintf(cmd.OutOrStdout(), "Sign in with the %s window, then close it.\n", engine)
			if err := google.Login(cmd.Context(), rt, opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in (%s, profile %s).\n", engine, opts.ProfileDir)
			return nil
		},
	}
}

func (c *cli) execCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec <script.yaml>",
		Short: "Run a notebook script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := script.Load(args[0])
			if err != nil {
				return err
			}
			return c.withNotebook(cmd, func(ctx context.Context, nb *colab.Notebook) error {
				return script.NewRunner(script.Colab(nb), cmd.OutOrStdout(), c.log).Run(ctx, s)
			})
		},
	}
}

func (c *cli) watchCmd() *cobra.Command {
	var index int
	var run bool
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Copy a file into a cell every time it is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			err := c.withNotebook(cmd, func(ctx context.Context, nb *colab.Notebook) error {
				return script.Watch(ctx, args[0], script.DefaultDebounce, c.log, func(content []byte) {
					if err := c.syncCell(ctx, nb, index, string(content), run, out); err != nil {
						fmt.Fprintf(errOut, "cell %d: %v\n", index, err)
					}
				})
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().IntVar(&index, "cell", 0, "cell to update")
	cmd.Flags().BoolVar(&run, "run", false, "run the cell after each update")
	return cmd
}

func (c *cli) syncCell(ctx context.Context, nb *colab.Notebook, index int, text string, run bool, out io.Writer) error {
	cell, err := nb.Cell(index)
	if err != nil {
		return err
	}
	if _, err := cell.SetText(ctx, text); err != nil {
		return err
	}
	c.log.Infof("updated cell %d", index)
	if !run {
		return nil
	}
	if err := cell.Run(ctx); err != nil {
		return err
	}
	return streamTo(ctx, cell, out)
}
