package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ksyq12/spabuild/internal/bundler"
	"github.com/ksyq12/spabuild/internal/config"
	"github.com/ksyq12/spabuild/internal/devserver"
	"github.com/ksyq12/spabuild/internal/output"
)

var (
	devPort       int
	devHost       string
	devStrictPort bool
)

var devCmd = &cobra.Command{
	Use:     "dev",
	Aliases: []string{"serve"},
	Short:   "Start the development server",
	Long: `Start the development server.

The app is rebuilt whenever a source file changes. Requests under a proxy
prefix (by default /api) are forwarded to the backend; every other path
that names no file is answered with index.html.

Examples:
  spabuild dev
  spabuild dev --port 3000
  spabuild dev --host 0.0.0.0 --strict-port`,
	Args: cobra.NoArgs,
	RunE: runDev,
}

func init() {
	devCmd.Flags().IntVarP(&devPort, "port", "p", 0, "Port to listen on (default from config)")
	devCmd.Flags().StringVar(&devHost, "host", "", "Host to bind (default from config)")
	devCmd.Flags().BoolVar(&devStrictPort, "strict-port", false, "Fail if the port is in use")
	rootCmd.AddCommand(devCmd)
}

func devOptions() []config.Option {
	var opts []config.Option
	if devPort != 0 {
		opts = append(opts, config.WithPort(devPort))
	}
	if devHost != "" {
		opts = append(opts, config.WithHost(devHost))
	}
	if devStrictPort {
		opts = append(opts, config.WithStrictPort(true))
	}
	return opts
}

func runDev(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(devOptions()...)
	if err != nil {
		return err
	}

	srv, err := deps.ServerFactory.Create(cfg, devserver.Options{OnRebuild: reportRebuild})
	if err != nil {
		return fmt.Errorf("failed to set up dev server: %w", err)
	}
	if err := srv.Listen(); err != nil {
		return err
	}

	if jsonOutput {
		if err := output.JSON(map[string]interface{}{"url": srv.URL(), "proxy": cfg.ProxyByLength()}); err != nil {
			return err
		}
	} else {
		printDevBanner(cfg, srv.URL())
	}

	ctx, stop := commandContext(cmd)
	defer stop()
	return srv.Start(ctx)
}

func printDevBanner(cfg *config.Config, url string) {
	lines := [][2]string{{"Local", url}}
	for _, rule := range cfg.ProxyByLength() {
		origin := ""
		if rule.ChangeOrigin {
			origin = " (change origin)"
		}
		lines = append(lines, [2]string{"Proxy", rule.String() + origin})
	}
	output.Banner("spabuild "+version+" dev server", lines)
}

// RebuildEvent is the JSON form of a dev rebuild. With --json each
// rebuild is printed as its own document after the server document.
type RebuildEvent struct {
	Event    string   `json:"event"`
	Success  bool     `json:"success"`
	Entry    string   `json:"entry,omitempty"`
	Duration string   `json:"duration,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func reportRebuild(res *bundler.Result, err error) {
	if jsonOutput {
		ev := RebuildEvent{Event: "rebuild", Success: err == nil}
		if err != nil {
			ev.Error = err.Error()
		} else {
			ev.Entry, ev.Duration, ev.Warnings = res.Entry, res.Duration.String(), res.Warnings
		}
		_ = output.JSON(ev)
		return
	}
	if err != nil {
		output.Error("Build failed:\n%s", indent(err.Error()))
		return
	}
	for _, w := range res.Warnings {
		output.Warn("%s", w)
	}
	output.Success("Built %s in %s", res.Entry, output.Duration(res.Duration))
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "\n  ")
}
