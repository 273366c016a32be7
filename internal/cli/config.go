package cli

import (
	"github.com/spf13/cobra"

	"github.com/ksyq12/spabuild/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Long: `Show the configuration after defaults are applied and paths are resolved.

Examples:
  spabuild config
  spabuild config --json
  spabuild config validate`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration for errors",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

func init() {
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if jsonOutput {
		return output.JSON(cfg)
	}

	source := cfg.File
	if source == "" {
		source = "defaults (no spabuild.yaml found)"
	}
	output.Print("# root: %s", cfg.Root)
	output.Print("# source: %s", source)
	return output.YAML(cfg)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	result := newSuccessResult("validate", cfg.Root)
	source := "defaults"
	if cfg.File != "" {
		result.Files = []string{cfg.File}
		source = relPath(cfg.Root, cfg.File)
	}
	return outputResult(result, "Configuration is valid (%s)", source)
}
