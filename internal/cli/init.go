package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperjump/findword/internal/config"
)

func newInitCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Long:  "Write a config file with default values to the --config path.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", configPath)
			}
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			if err := config.Save(configPath, cfg); err != nil {
				return err
			}
			fmt.Printf("Wrote config to %s\n", configPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}
