// Package executor runs external tools such as node and npm.
package executor

import (
	"context"
	"os/exec"
	"regexp"
	"time"
)

// DefaultTimeout bounds a single command.
const DefaultTimeout = 10 * time.Second

// CommandExecutor is an interface for executing system commands
type CommandExecutor interface {
	// Execute runs a command with the given name and arguments
	Execute(ctx context.Context, name string, args ...string) ([]byte, error)

	// LookPath searches for an executable in the directories named by the PATH
	LookPath(file string) (string, error)
}

// SystemExecutor implements CommandExecutor using os/exec
type SystemExecutor struct {
	Timeout time.Duration
}

// NewSystemExecutor creates a new SystemExecutor
func NewSystemExecutor() *SystemExecutor {
	return &SystemExecutor{Timeout: DefaultTimeout}
}

// Execute runs a command and returns combined output. The command is
// killed when ctx is done or the timeout passes.
func (e *SystemExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// LookPath searches for an executable
func (e *SystemExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

var versionPattern = regexp.MustCompile(`v?(\d+\.\d+\.\d+)`)

// Version runs `name --version` and extracts the first semantic version
// from its output. It returns "" when the tool is missing or prints none.
func Version(ctx context.Context, e CommandExecutor, name string) string {
	if _, err := e.LookPath(name); err != nil {
		return ""
	}
	out, err := e.Execute(ctx, name, "--version")
	if err != nil {
		return ""
	}
	if m := versionPattern.FindSubmatch(out); m != nil {
		return string(m[1])
	}
	return ""
}

// MockExecutor is a mock implementation for testing
type MockExecutor struct {
	ExecuteFunc  func(name string, args ...string) ([]byte, error)
	LookPathFunc func(file string) (string, error)
	Calls        []CommandCall
}

// CommandCall records a command execution for verification
type CommandCall struct {
	Name string
	Args []string
}

// Execute calls the mock function
func (m *MockExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.Calls = append(m.Calls, CommandCall{Name: name, Args: args})
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(name, args...)
	}
	return []byte(""), nil
}

// LookPath calls the mock function
func (m *MockExecutor) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}
