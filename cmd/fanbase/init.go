package main

import (
	"fmt"
	"os"

	"github.com/fanbase/fanbase/internal/infrastructure/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file and create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}

			if !config.Exists(cwd) {
				data, err := yaml.Marshal(config.Default())
				if err != nil {
					return fmt.Errorf("marshaling default config: %w", err)
				}
				if err := os.WriteFile(config.ConfigFilePath(cwd), data, 0o644); err != nil {
					return fmt.Errorf("writing config file: %w", err)
				}
				fmt.Printf("Wrote %s\n", config.ConfigFilePath(cwd))
			}

			// withDeps ensures the schema as part of wiring
			return withDeps(cmd.Context(), func(d *Deps) error {
				fmt.Printf("Database ready at %s\n", d.Store.Path())
				return nil
			})
		},
	}
}
