package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docqa/internal/config"
)

var initForce bool

var initConfigCmd = &cobra.Command{
	Use:   "init-config [path]",
	Short: "Write the default configuration",
	Long: `Writes the built-in configuration to path (default ./docqa.yaml).
A path ending in .toml is written as TOML.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInitConfig,
}

func init() {
	initConfigCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing file")
	rootCmd.AddCommand(initConfigCmd)
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := config.Save(path, config.Default()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	cmd.Printf("Wrote %s\n", path)
	return nil
}
