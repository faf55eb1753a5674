package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/entrhq/clay/pkg/colab"
	"github.com/entrhq/clay/pkg/render"
	"github.com/entrhq/clay/pkg/script"
	"github.com/spf13/cobra"
)

func (c *cli) newCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new [name]",
		Short: "Create a notebook and print its name and URL",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withNotebook(cmd, func(ctx context.Context, nb *colab.Notebook) error {
				name, err := nb.Create()
				if err != nil {
					return err
				}
				if len(args) == 1 {
					if name, err = nb.SetName(args[0]); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", name, nb.URL())
				return nil
			})
		},
	}
}

func (c *cli) nameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "name [new-name]",
		Short: "Print or change the notebook name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withNotebook(cmd, func(ctx context.Context, nb *colab.Notebook) error {
				var name string
				var err error
				if len(args) == 1 {
					name, err = nb.SetName(args[0])
				} else {
					name, err = nb.Name()
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
				return nil
			})
		},
	}
}

func (c *cli) cellsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cells",
		Short: "Print every cell with its output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			r := render.New(colorOutput(out))
			return c.withNotebook(cmd, func(ctx context.Context, nb *colab.Notebook) error {
				cells, err := nb.Cells()
				if err != nil {
					return err
				}
				for _, cell := range cells {
					text, err := cell.Text()
					if err != nil {
						return err
					}
					output, err := cell.Output()
					if err != nil {
						c.log.Warnf("cell %d output: %v", cell.Index(), err)
					}
					fmt.Fprintln(out, r.Cell(cell.Index(), text, output))
				}
				return nil
			})
		},
	}
}

func (c *cli) runCmd() *cobra.Command {
	var noStream bool
	cmd := &cobra.Command{
		Use:   "run <index>",
		Short: "Run a cell and stream its output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withCell(cmd, args[0], func(ctx context.Context, cell *colab.Cell) error {
				if err := cell.Run(ctx); err != nil {
					return err
				}
				if noStream {
					return nil
				}
				return streamTo(ctx, cell, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().BoolVar(&noStream, "no-stream", false, "start the cell and return without waiting")
	return cmd
}

func streamTo(ctx context.Context, cell *colab.Cell, w io.Writer) error {
	return cell.Stream(ctx, func(chunk string) error {
		_, err := io.WriteString(w, chunk)
		return err
	})
}

func (c *cli) setTextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-text <index> <file|->",
		Short: "Replace a cell's source with a file or stdin",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readSource(args[1], cmd.InOrStdin())
			if err != nil {
				return err
			}
			return c.withCell(cmd, args[0], func(ctx context.Context, cell *colab.Cell) error {
				got, err := cell.SetText(ctx, text)
				if err != nil {
					return err
				}
				if got != text {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: cell holds different text:\n%s\n", got)
				}
				return nil
			})
		},
	}
}

func (c *cli) outputCmd() *cobra.Command {
	var copyOutput, images bool
	cmd := &cobra.Command{
		Use:   "output <index>",
		Short: "Print a cell's output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return c.withCell(cmd, args[0], func(ctx context.Context, cell *colab.Cell) error {
				if images {
					srcs, err := cell.Images()
					if err != nil {
						return err
					}
					for _, src := range srcs {
						fmt.Fprintln(out, src)
					}
					return nil
				}

				output, err := cell.Output()
				if err != nil {
					return err
				}
				if copyOutput {
					if err := clipboard.WriteAll(output); err != nil {
						return fmt.Errorf("failed to copy output: %w", err)
					}
					c.log.Infof("copied %d bytes of output", len(output))
				}
				fmt.Fprintln(out, output)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&copyOutput, "copy", false, "also copy the output to the clipboard")
	cmd.Flags().BoolVar(&images, "images", false, "print the src of every image instead of the text")
	return cmd
}

func (c *cli) fieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields <index>",
		Short: "List a cell's form fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			r := render.New(colorOutput(out))
			return c.withCell(cmd, args[0], func(ctx context.Context, cell *colab.Cell) error {
				fields, err := cell.Fields()
				if err != nil {
					return err
				}
				for _, f := range fields {
					name, err := f.Name()
					if err != nil {
						return err
					}
					value, err := f.Value()
					if err != nil {
						return err
					}
					fmt.Fprintln(out, r.Field(name, string(f.Kind()), value))
					if of, ok := f.(colab.OptionField); ok {
						if options, err := of.Options(); err == nil {
							fmt.Fprintf(out, "  options: %s\n", strings.Join(options, ", "))
						}
					}
				}
				return nil
			})
		},
	}
}

func (c *cli) setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <index> <pattern>=<value>...",
		Short: "Set form fields whose names match glob patterns",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			assignments := make(script.Assignments, 0, len(args)-1)
			for _, arg := range args[1:] {
				a, err := script.ParseAssignment(arg)
				if err != nil {
					return err
				}
				assignments = append(assignments, a)
			}

			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return c.withNotebook(cmd, func(ctx context.Context, nb *colab.Notebook) error {
				cell, err := script.Colab(nb).Cell(index)
				if err != nil {
					return err
				}
				return script.SetFields(ctx, cell, assignments)
			})
		},
	}
}

func (c *cli) restartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Restart the notebook runtime",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withNotebook(cmd, func(ctx context.Context, nb *colab.Notebook) error {
				return nb.Restart(ctx)
			})
		},
	}
}

// parseIndex parses a cell index; negative values count from the end.
func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid cell index %q", s)
	}
	return i, nil
}

// readSource reads a file, or stdin for "-".
func readSource(path string, stdin io.Reader) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read source: %w", err)
	}
	return string(data), nil
}
