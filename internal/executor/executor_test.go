package executor

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSystemExecutor_Execute(t *testing.T) {
	exec := NewSystemExecutor()

	t.Run("echo command", func(t *testing.T) {
		output, err := exec.Execute(context.Background(), "echo", "hello")
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if string(output) != "hello\n" {
			t.Errorf("expected 'hello\\n', got '%s'", string(output))
		}
	})

	t.Run("nonexistent command", func(t *testing.T) {
		_, err := exec.Execute(context.Background(), "nonexistent-command-xyz-12345")
		if err == nil {
			t.Error("expected error for nonexistent command")
		}
	})

	t.Run("timeout", func(t *testing.T) {
		slow := &SystemExecutor{Timeout: 50 * time.Millisecond}
		start := time.Now()
		if _, err := slow.Execute(context.Background(), "sleep", "5"); err == nil {
			t.Error("expected error for timed out command")
		}
		if time.Since(start) > 3*time.Second {
			t.Error("command was not killed on timeout")
		}
	})
}

func TestSystemExecutor_LookPath(t *testing.T) {
	exec := NewSystemExecutor()

	path, err := exec.LookPath("sh")
	if err != nil {
		t.Fatalf("LookPath failed: %v", err)
	}
	if path == "" {
		t.Error("expected non-empty path")
	}

	if _, err := exec.LookPath("nonexistent-command-xyz-12345"); err == nil {
		t.Error("expected error for nonexistent command")
	}
}

func TestVersion(t *testing.T) {
	tests := []struct {
		name string
		mock *MockExecutor
		want string
	}{
		{
			name: "node style",
			mock: &MockExecutor{ExecuteFunc: func(string, ...string) ([]byte, error) {
				return []byte("v20.11.1\n"), nil
			}},
			want: "20.11.1",
		},
		{
			name: "npm style",
			mock: &MockExecutor{ExecuteFunc: func(string, ...string) ([]byte, error) {
				return []byte("10.2.4\n"), nil
			}},
			want: "10.2.4",
		},
		{
			name: "not installed",
			mock: &MockExecutor{LookPathFunc: func(string) (string, error) {
				return "", errors.New("not found")
			}},
			want: "",
		},
		{
			name: "command fails",
			mock: &MockExecutor{ExecuteFunc: func(string, ...string) ([]byte, error) {
				return nil, errors.New("exit status 1")
			}},
			want: "",
		},
		{
			name: "no version in output",
			mock: &MockExecutor{ExecuteFunc: func(string, ...string) ([]byte, error) {
				return []byte("unknown"), nil
			}},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Version(context.Background(), tt.mock, "node"); got != tt.want {
				t.Errorf("Version() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMockExecutor(t *testing.T) {
	mock := &MockExecutor{}
	output, err := mock.Execute(context.Background(), "node", "--version")
	if err != nil || string(output) != "" {
		t.Errorf("unexpected default result: %q %v", output, err)
	}
	if len(mock.Calls) != 1 || mock.Calls[0].Name != "node" || mock.Calls[0].Args[0] != "--version" {
		t.Errorf("call not recorded: %+v", mock.Calls)
	}
	if path, _ := mock.LookPath("npm"); path != "/usr/bin/npm" {
		t.Errorf("unexpected default path %q", path)
	}
}
