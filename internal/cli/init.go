package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/ksyq12/spabuild/internal/config"
	"github.com/ksyq12/spabuild/internal/input"
	"github.com/ksyq12/spabuild/internal/output"
	"github.com/ksyq12/spabuild/internal/template"
)

var (
	initName        string
	initPort        int
	initProxyPrefix string
	initProxyTarget string
	initAlias       string
	initSourceDir   string
	initRedirectAPI bool
	initForce       bool
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Create a new project",
	Long: `Create spabuild.yaml, index.html, a React entry module and a _redirects
file in the given directory (default: current directory).

Existing files are kept unless you confirm overwriting them or pass --force.

Examples:
  spabuild init
  spabuild init admin --proxy-target http://localhost:9000
  spabuild init --src-dir app
  spabuild init --redirect-api --proxy-target https://api.example.com
  spabuild init --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "Project name (default: directory name)")
	initCmd.Flags().IntVar(&initPort, "port", config.DefaultPort, "Dev server port")
	initCmd.Flags().StringVar(&initProxyPrefix, "proxy-prefix", config.DefaultProxyPrefix, "Path prefix forwarded to the backend")
	initCmd.Flags().StringVar(&initProxyTarget, "proxy-target", config.DefaultProxyTarget, "Backend for proxied requests")
	initCmd.Flags().StringVar(&initAlias, "alias", config.DefaultAlias, "Import alias for the source directory")
	initCmd.Flags().StringVar(&initSourceDir, "src-dir", config.DefaultSourceDir, "Source directory")
	initCmd.Flags().BoolVar(&initRedirectAPI, "redirect-api", false, "Also forward the proxy prefix to the backend in _redirects")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing files without asking")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	name := initName
	if name == "" {
		name = filepath.Base(root)
	}
	files, err := template.Scaffold(template.Data{
		Name:        name,
		Port:        initPort,
		ProxyPrefix: initProxyPrefix,
		ProxyTarget: initProxyTarget,
		Alias:       initAlias,
		SourceDir:   initSourceDir,
		RedirectAPI: initRedirectAPI,
	})
	if err != nil {
		return err
	}

	result := newSuccessResult("init", root)
	var skipped []string
	for _, f := range files {
		dst := filepath.Join(root, filepath.FromSlash(f.Path))
		if _, err := os.Stat(dst); err == nil && !initForce {
			ok, err := confirmOverwrite(f.Path)
			if err != nil {
				return err
			}
			if !ok {
				skipped = append(skipped, f.Path)
				continue
			}
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", f.Path, err)
		}
		if err := renameio.WriteFile(dst, f.Content, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
		result.Files = append(result.Files, f.Path)
	}

	if jsonOutput {
		if len(skipped) > 0 {
			result.Message = fmt.Sprintf("kept %d existing files", len(skipped))
		}
		return output.JSON(result)
	}
	for _, p := range result.Files {
		output.Success("Created %s", p)
	}
	for _, p := range skipped {
		output.Warn("Kept existing %s", p)
	}
	output.Print("")
	output.Info("Next: npm install react react-dom && spabuild dev")
	return nil
}

func confirmOverwrite(path string) (bool, error) {
	if jsonOutput {
		return false, nil
	}
	return input.Confirm(deps.StdinReader, os.Stdout, fmt.Sprintf("%s exists. Overwrite?", path), false)
}
