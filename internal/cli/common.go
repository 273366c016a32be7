package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ksyq12/spabuild/internal/config"
	"github.com/ksyq12/spabuild/internal/output"
)

// loadConfig loads and validates the project config
func loadConfig(opts ...config.Option) (*config.Config, error) {
	cfg, err := deps.ConfigLoader.Load(configPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// commandContext returns a context cancelled on SIGINT or SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := context.Background()
	if cmd != nil && cmd.Context() != nil {
		parent = cmd.Context()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// outputResult handles JSON or human-readable output
func outputResult(data interface{}, successMsg string, args ...interface{}) error {
	if jsonOutput {
		return output.JSON(data)
	}
	output.Success(successMsg, args...)
	return nil
}

// relPath shows p relative to root when it is inside it.
func relPath(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return p
	}
	return rel
}

// CommandResult represents a common result structure for CLI commands
type CommandResult struct {
	Success bool     `json:"success"`
	Action  string   `json:"action"`
	Root    string   `json:"root,omitempty"`
	Files   []string `json:"files,omitempty"`
	Message string   `json:"message,omitempty"`
}

// newSuccessResult creates a success result
func newSuccessResult(action, root string) CommandResult {
	return CommandResult{
		Success: true,
		Action:  action,
		Root:    root,
	}
}

// notice is a hook message kept for JSON output.
type notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// noticeCollector is a hook.Reporter that records messages instead of
// printing them, so JSON output stays a single document.
type noticeCollector struct {
	notices []notice
}

func (c *noticeCollector) Success(format string, args ...interface{}) {
	c.notices = append(c.notices, notice{Level: "success", Message: fmt.Sprintf(format, args...)})
}

func (c *noticeCollector) Warn(format string, args ...interface{}) {
	c.notices = append(c.notices, notice{Level: "warning", Message: fmt.Sprintf(format, args...)})
}
