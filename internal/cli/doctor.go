package cli

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ksyq12/spabuild/internal/config"
	"github.com/ksyq12/spabuild/internal/executor"
	"github.com/ksyq12/spabuild/internal/output"
	"github.com/ksyq12/spabuild/internal/plugin"
	"github.com/ksyq12/spabuild/internal/project"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the environment and project for problems",
	Long: `Run diagnostic checks on the environment and the current project.

Checks:
  - Node.js and npm installation
  - Configuration file validity and extensions
  - Entry module, index.html and routing-rules file
  - Alias targets and a writable output directory
  - React installed in node_modules
  - Dev server port and proxy targets

Examples:
  spabuild doctor
  spabuild doctor --json`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

const dialTimeout = time.Second

// Check statuses.
const (
	statusSuccess = "success"
	statusWarning = "warning"
	statusError   = "error"
)

// CheckResult represents a single diagnostic check result
type CheckResult struct {
	Status  string `json:"status"` // "success", "warning", "error"
	Message string `json:"message"`
}

// DoctorReport contains all diagnostic results
type DoctorReport struct {
	Platform    string        `json:"platform"`
	Environment []CheckResult `json:"environment"`
	Project     []CheckResult `json:"project"`
	Server      []CheckResult `json:"server"`
}

// HasErrors reports whether any check failed.
func (r *DoctorReport) HasErrors() bool {
	for _, group := range [][]CheckResult{r.Environment, r.Project, r.Server} {
		for _, c := range group {
			if c.Status == statusError {
				return true
			}
		}
	}
	return false
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx, stop := commandContext(cmd)
	defer stop()

	report := &DoctorReport{Platform: project.Platform()}
	report.Environment = checkEnvironment(ctx, deps.Executor)

	cfg, err := deps.ConfigLoader.Load(configPath)
	if err != nil {
		report.Project = []CheckResult{{Status: statusError, Message: fmt.Sprintf("Config could not be loaded: %v", err)}}
	} else {
		report.Project = checkProject(cfg)
		report.Server = checkServer(cfg, deps.Dialer)
	}

	if jsonOutput {
		return output.JSON(report)
	}

	displayDoctorResults(report)
	return nil
}

func checkEnvironment(ctx context.Context, exec executor.CommandExecutor) []CheckResult {
	results := []CheckResult{}

	tools := []struct {
		name     string
		binary   string
		optional bool
	}{
		{"Node.js", "node", false},
		{"npm", "npm", true},
	}
	for _, tool := range tools {
		if v := executor.Version(ctx, exec, tool.binary); v != "" {
			results = append(results, CheckResult{
				Status:  statusSuccess,
				Message: fmt.Sprintf("%s installed (%s)", tool.name, v),
			})
			continue
		}
		status, suffix := statusError, ""
		if tool.optional {
			status, suffix = statusWarning, " (optional)"
		}
		results = append(results, CheckResult{
			Status:  status,
			Message: fmt.Sprintf("%s not installed%s", tool.name, suffix),
		})
	}
	return results
}

func checkProject(cfg *config.Config) []CheckResult {
	results := []CheckResult{}
	add := func(status, format string, args ...interface{}) {
		results = append(results, CheckResult{Status: status, Message: fmt.Sprintf(format, args...)})
	}

	if cfg.File != "" {
		add(statusSuccess, "Config file found (%s)", cfg.File)
	} else {
		add(statusWarning, "No %s in %s, using defaults", config.FileName, cfg.Root)
	}
	if err := cfg.Validate(); err != nil {
		add(statusError, "Config invalid: %v", err)
		return results
	}
	add(statusSuccess, "Config valid")

	for _, spec := range cfg.Extensions {
		if _, ok := plugin.Get(spec.Name); !ok {
			add(statusError, "Unknown extension %q (available: %v)", spec.Name, plugin.Available())
		}
	}

	if pathExists(cfg.EntryPath()) {
		add(statusSuccess, "Entry module exists (%s)", cfg.Build.Entry)
	} else {
		add(statusError, "Entry module missing (%s)", cfg.Build.Entry)
	}
	if pathExists(cfg.IndexHTMLPath()) {
		add(statusSuccess, "HTML template exists (%s)", cfg.Build.IndexHTML)
	} else {
		add(statusWarning, "HTML template missing (%s), a minimal one will be generated", cfg.Build.IndexHTML)
	}

	if cfg.HasExtension(config.ExtensionCopyRoutingRules) {
		if pathExists(cfg.RoutingRulesPath()) {
			add(statusSuccess, "Routing rules file exists (%s)", cfg.RoutingRules)
		} else {
			add(statusWarning, "Routing rules file missing (%s), builds will not copy it", cfg.RoutingRules)
		}
	}

	for _, a := range cfg.Aliases {
		if pathExists(a.Replacement) {
			add(statusSuccess, "Alias %s resolves to %s", a.Find, relPath(cfg.Root, a.Replacement))
		} else {
			add(statusWarning, "Alias %s points to missing %s", a.Find, a.Replacement)
		}
	}

	if err := checkWritable(filepath.Dir(cfg.OutDirPath())); err != nil {
		add(statusError, "Output directory %s is not writable: %v", cfg.Build.OutDir, err)
	} else {
		add(statusSuccess, "Output directory %s is writable", cfg.Build.OutDir)
	}

	info, err := project.Detect(cfg.Root)
	if err != nil {
		add(statusError, "package.json unreadable: %v", err)
		return results
	}
	if !info.HasPackage {
		add(statusWarning, "No package.json in %s", cfg.Root)
	}
	if cfg.HasExtension(config.ExtensionReact) {
		switch {
		case info.InstalledReact:
			add(statusSuccess, "React installed (%s)", reactVersion(info))
		case info.ReactVersion != "":
			add(statusError, "React %s declared but not installed, run npm install", info.ReactVersion)
		default:
			add(statusError, "React not installed, run npm install react react-dom")
		}
	}
	return results
}

func reactVersion(info *project.Info) string {
	if info.ReactVersion != "" {
		return info.ReactVersion
	}
	return "version unknown"
}

func checkServer(cfg *config.Config, dialer Dialer) []CheckResult {
	results := []CheckResult{}

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	if conn, err := dialer.DialTimeout("tcp", addr, dialTimeout); err == nil {
		_ = conn.Close()
		status, suffix := statusWarning, ", the next free port will be used"
		if cfg.Server.Strict {
			status, suffix = statusError, " and strict_port is set"
		}
		results = append(results, CheckResult{
			Status:  status,
			Message: fmt.Sprintf("Port %d is in use%s", cfg.Server.Port, suffix),
		})
	} else {
		results = append(results, CheckResult{
			Status:  statusSuccess,
			Message: fmt.Sprintf("Port %d is free", cfg.Server.Port),
		})
	}

	for _, rule := range cfg.ProxyByLength() {
		target, err := proxyDialAddr(rule.Target)
		if err != nil {
			results = append(results, CheckResult{Status: statusError, Message: fmt.Sprintf("Proxy %s: %v", rule.Prefix, err)})
			continue
		}
		conn, err := dialer.DialTimeout("tcp", target, dialTimeout)
		if err != nil {
			results = append(results, CheckResult{
				Status:  statusWarning,
				Message: fmt.Sprintf("Proxy %s unreachable (is the backend running?)", rule),
			})
			continue
		}
		_ = conn.Close()
		results = append(results, CheckResult{
			Status:  statusSuccess,
			Message: fmt.Sprintf("Proxy %s reachable", rule),
		})
	}
	return results
}

// proxyDialAddr returns host:port for a proxy target URL.
func proxyDialAddr(target string) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	if u.Port() != "" {
		return u.Host, nil
	}
	port := "80"
	if u.Scheme == "https" {
		port = "443"
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}

func displayDoctorResults(report *DoctorReport) {
	output.Print("Checking environment (%s)...", report.Platform)
	for _, check := range report.Environment {
		displayCheck(check)
	}
	output.Print("")

	output.Print("Checking project...")
	for _, check := range report.Project {
		displayCheck(check)
	}
	output.Print("")

	if len(report.Server) > 0 {
		output.Print("Checking dev server...")
		for _, check := range report.Server {
			displayCheck(check)
		}
		output.Print("")
	}

	if report.HasErrors() {
		output.Error("Problems found")
	} else {
		output.Success("No problems found")
	}
}

func displayCheck(check CheckResult) {
	switch check.Status {
	case statusSuccess:
		output.Success("%s", check.Message)
	case statusWarning:
		output.Warn("%s", check.Message)
	case statusError:
		output.Error("%s", check.Message)
	}
}

// checkWritable creates and removes a temp file in dir.
func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".spabuild-doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
