package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ksyq12/spabuild/internal/logger"
)

var (
	jsonOutput bool
	verbose    bool
	configPath string
	version    = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "spabuild",
	Short: "Build and serve React single-page apps",
	Long: `spabuild bundles a React single-page app for production and serves it
during development.

The dev server rebuilds on change and forwards API requests to a backend
through configurable proxy rules. Production builds write hashed assets
and copy the static host's routing-rules file into the output directory.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	// Initialize logger based on verbose flag (parsed by cobra)
	cobra.OnInitialize(func() {
		logger.Init(verbose)
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging for debugging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file or project directory (default: nearest spabuild.yaml)")
}
