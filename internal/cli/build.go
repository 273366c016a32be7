package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ksyq12/spabuild/internal/bundler"
	"github.com/ksyq12/spabuild/internal/config"
	"github.com/ksyq12/spabuild/internal/hook"
	"github.com/ksyq12/spabuild/internal/output"
)

var (
	buildOutDir    string
	buildSourcemap string
	buildMode      string
	buildNoMinify  bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Bundle the app for production",
	Long: `Bundle the app into the output directory.

The entry module is bundled with hashed file names under assets/, files
from the public directory are copied as-is, and index.html is rewritten to
load the bundle. After a successful build the routing-rules file (for
example _redirects) is copied into the output directory when present.

Examples:
  spabuild build
  spabuild build --out-dir build --sourcemap external
  spabuild build --json`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutDir, "out-dir", "o", "", "Output directory (default from config)")
	buildCmd.Flags().StringVar(&buildSourcemap, "sourcemap", "", "Sourcemap mode (none, inline, linked, external)")
	buildCmd.Flags().StringVar(&buildMode, "mode", "", "Build mode (production, development)")
	buildCmd.Flags().BoolVar(&buildNoMinify, "no-minify", false, "Disable minification")
	rootCmd.AddCommand(buildCmd)
}

// BuildReport is the JSON form of a build.
type BuildReport struct {
	Success  bool                 `json:"success"`
	OutDir   string               `json:"out_dir"`
	Entry    string               `json:"entry"`
	CSS      []string             `json:"css,omitempty"`
	Files    []bundler.OutputFile `json:"files"`
	Size     int64                `json:"size"`
	Duration string               `json:"duration"`
	Warnings []string             `json:"warnings,omitempty"`
	Notices  []notice             `json:"notices,omitempty"`
}

func buildOptions() []config.Option {
	var opts []config.Option
	if buildOutDir != "" {
		opts = append(opts, config.WithOutDir(buildOutDir))
	}
	if buildSourcemap != "" {
		opts = append(opts, config.WithSourcemap(buildSourcemap))
	}
	if buildMode != "" {
		opts = append(opts, config.WithMode(buildMode))
	}
	if buildNoMinify {
		opts = append(opts, config.WithMinify(false))
	}
	return opts
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(buildOptions()...)
	if err != nil {
		return err
	}

	var reporter hook.Reporter = hook.OutputReporter{}
	collector := &noticeCollector{}
	if jsonOutput {
		reporter = collector
	}

	b, err := deps.BundlerFactory.Create(cfg, bundler.Options{RunHooks: true, Reporter: reporter})
	if err != nil {
		return fmt.Errorf("failed to set up bundler: %w", err)
	}

	ctx, stop := commandContext(cmd)
	defer stop()

	if !jsonOutput {
		output.Info("Building %s (%s)...", cfg.Build.Entry, cfg.Build.Mode)
	}
	res, err := b.Build(ctx)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	if jsonOutput {
		return output.JSON(BuildReport{
			Success:  true,
			OutDir:   res.OutDir,
			Entry:    res.Entry,
			CSS:      res.CSS,
			Files:    res.Files,
			Size:     res.TotalSize(),
			Duration: res.Duration.String(),
			Warnings: res.Warnings,
			Notices:  collector.notices,
		})
	}

	displayBuild(cfg, res)
	return nil
}

func displayBuild(cfg *config.Config, res *bundler.Result) {
	for _, w := range res.Warnings {
		output.Warn("%s", w)
	}

	rows := make([][]string, 0, len(res.Files))
	for _, f := range res.Files {
		rows = append(rows, []string{f.Path, output.Bytes(f.Size)})
	}
	output.Print("")
	output.Table([]string{"FILE", "SIZE"}, rows)
	output.Print("")
	output.Success("Built %d files (%s) into %s in %s",
		len(res.Files), output.Bytes(res.TotalSize()), relPath(cfg.Root, res.OutDir), output.Duration(res.Duration))
}
