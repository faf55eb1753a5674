package main

import (
	"encoding/json"
	"fmt"

	"github.com/entrhq/clay/pkg/config"
	"github.com/spf13/cobra"
)

func (c *cli) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, section := range config.Global().GetSections() {
				data, err := json.MarshalIndent(section.Data(), "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "# %s: %s\n%s: %s\n", section.Title(), section.Description(), section.ID(), data)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := config.Global()
			if err := manager.SaveAll(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			if fs, ok := manager.Store().(*config.FileStore); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", fs.Path())
			}
			return nil
		},
	})
	return cmd
}
