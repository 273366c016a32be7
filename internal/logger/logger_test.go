package logger

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestInit(t *testing.T) {
	// Test non-verbose (default)
	Init(false)
	if GetLevel() != LevelWarn {
		t.Errorf("Init(false) should set level to LevelWarn, got %v", GetLevel())
	}

	// Test verbose
	Init(true)
	if GetLevel() != LevelDebug {
		t.Errorf("Init(true) should set level to LevelDebug, got %v", GetLevel())
	}

	// Reset
	Init(false)
}

func TestSetLevel(t *testing.T) {
	tests := []Level{LevelDebug, LevelInfo, LevelWarn, LevelError}

	for _, level := range tests {
		t.Run(level.String(), func(t *testing.T) {
			SetLevel(level)
			if GetLevel() != level {
				t.Errorf("SetLevel(%v) failed, got %v", level, GetLevel())
			}
		})
	}

	// Reset
	SetLevel(LevelWarn)
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if tt.level.String() != tt.expected {
				t.Errorf("Level(%d).String() = %v, want %v", tt.level, tt.level.String(), tt.expected)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)

	tests := []struct {
		name       string
		level      Level
		logFunc    func(string, ...interface{})
		shouldShow bool
	}{
		{"debug at debug level", LevelDebug, Debug, true},
		{"info at debug level", LevelDebug, Info, true},
		{"warn at debug level", LevelDebug, Warn, true},
		{"error at debug level", LevelDebug, Error, true},
		{"debug at info level", LevelInfo, Debug, false},
		{"info at info level", LevelInfo, Info, true},
		{"debug at warn level", LevelWarn, Debug, false},
		{"info at warn level", LevelWarn, Info, false},
		{"warn at warn level", LevelWarn, Warn, true},
		{"error at warn level", LevelWarn, Error, true},
		{"debug at error level", LevelError, Debug, false},
		{"warn at error level", LevelError, Warn, false},
		{"error at error level", LevelError, Error, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			SetLevel(tt.level)

			tt.logFunc("test message")

			hasOutput := buf.Len() > 0
			if hasOutput != tt.shouldShow {
				t.Errorf("got output=%v, want output=%v", hasOutput, tt.shouldShow)
			}
		})
	}

	// Reset
	SetLevel(LevelWarn)
}

// capture routes log output to a buffer at level until the test ends.
func capture(t *testing.T, level Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(level)
	t.Cleanup(func() {
		SetOutput(nil)
		SetLevel(LevelWarn)
	})
	return &buf
}

func TestLogFormatting(t *testing.T) {
	buf := capture(t, LevelDebug)

	Debug("rebuilt %d files in %s", 4, "38ms")
	line := strings.TrimSpace(buf.String())

	if !strings.HasPrefix(line, "[DEBUG] ") {
		t.Errorf("Missing [DEBUG] prefix: %s", line)
	}
	if !strings.HasSuffix(line, " rebuilt 4 files in 38ms") {
		t.Errorf("Message not at end: %s", line)
	}
	// [DEBUG] 2006-01-02 15:04:05 msg
	if fields := strings.Fields(line); len(fields) < 3 || len(fields[1]) != 10 || len(fields[2]) != 8 {
		t.Errorf("Timestamp not in date time form: %s", line)
	}
}

func TestLogFields(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]interface{}
		want   string
	}{
		{
			name:   "single field",
			fields: map[string]interface{}{"entry": "src/main.jsx"},
			want:   "build started entry=src/main.jsx",
		},
		{
			name:   "sorted by key",
			fields: map[string]interface{}{"took": "38ms", "files": 4, "out": "dist"},
			want:   "build started files=4 out=dist took=38ms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, LevelDebug)
			DebugFields("build started", tt.fields)
			if got := strings.TrimSpace(buf.String()); !strings.HasSuffix(got, tt.want) {
				t.Errorf("got %q, want suffix %q", got, tt.want)
			}
		})
	}
}

func TestLogError(t *testing.T) {
	buf := capture(t, LevelError)

	LogError(nil, "should not log")
	if buf.Len() > 0 {
		t.Error("LogError with nil should not produce output")
	}

	LogError(fmt.Errorf("address already in use"), "dev server stopped")
	output := buf.String()
	if !strings.HasPrefix(output, "[ERROR]") {
		t.Errorf("LogError should produce ERROR level: %s", output)
	}
	if !strings.Contains(output, "dev server stopped: address already in use") {
		t.Errorf("LogError should join message and error: %s", output)
	}
}

func TestConcurrentLogging(t *testing.T) {
	buf := capture(t, LevelDebug)

	// The watcher, server and bundler log from their own goroutines.
	components := []*Component{For("bundler"), For("devserver"), For("watch")}
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			log := components[n%len(components)]
			log.Debug("event %d", n)
			log.Info("request %d", n)
			Debug("global %d", n)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 300 {
		t.Errorf("Expected 300 log lines, got %d", len(lines))
	}
	for i, line := range lines {
		if !strings.HasPrefix(line, "[DEBUG]") && !strings.HasPrefix(line, "[INFO]") {
			t.Errorf("Line %d may be corrupted: %s", i, line)
		}
	}
}

func TestEmptyFields(t *testing.T) {
	buf := capture(t, LevelDebug)

	DebugFields("watching src", nil)
	output := buf.String()

	if !strings.Contains(output, "watching src") {
		t.Errorf("Message should be present: %s", output)
	}

	if !strings.HasSuffix(output, "watching src\n") {
		t.Errorf("Should not have a fields separator: %q", output)
	}
}

func TestAllLogFunctions(t *testing.T) {
	buf := capture(t, LevelDebug)

	// Test all basic log functions
	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")

	output := buf.String()
	if !strings.Contains(output, "[DEBUG]") {
		t.Error("Missing DEBUG output")
	}
	if !strings.Contains(output, "[INFO]") {
		t.Error("Missing INFO output")
	}
	if !strings.Contains(output, "[WARN]") {
		t.Error("Missing WARN output")
	}
	if !strings.Contains(output, "[ERROR]") {
		t.Error("Missing ERROR output")
	}

	// Test all field log functions
	buf.Reset()
	InfoFields("info", map[string]interface{}{"test": 1})
	WarnFields("warn", map[string]interface{}{"test": 2})
	ErrorFields("error", map[string]interface{}{"test": 3})

	output = buf.String()
	if !strings.Contains(output, "[INFO]") || !strings.Contains(output, "test=1") {
		t.Error("InfoFields output incorrect")
	}
	if !strings.Contains(output, "[WARN]") || !strings.Contains(output, "test=2") {
		t.Error("WarnFields output incorrect")
	}
	if !strings.Contains(output, "[ERROR]") || !strings.Contains(output, "test=3") {
		t.Error("ErrorFields output incorrect")
	}
}

func TestComponentLogger(t *testing.T) {
	buf := capture(t, LevelDebug)

	log := For("devserver")
	if log.Name() != "devserver" {
		t.Errorf("Name() = %q, want devserver", log.Name())
	}

	log.Info("listening on %s", "localhost:5174")
	output := buf.String()
	if !strings.HasPrefix(output, "[INFO]") {
		t.Errorf("Missing [INFO] prefix: %s", output)
	}
	if !strings.HasSuffix(strings.TrimSpace(output), "devserver: listening on localhost:5174") {
		t.Errorf("Component prefix missing: %s", output)
	}

	buf.Reset()
	log.WarnFields("upstream failed", map[string]interface{}{"prefix": "/api", "status": 502})
	output = buf.String()
	if !strings.Contains(output, "devserver: upstream failed prefix=/api status=502") {
		t.Errorf("Component fields output incorrect: %s", output)
	}
}

func TestComponentLoggerRespectsLevel(t *testing.T) {
	buf := capture(t, LevelWarn)

	log := For("bundler")
	log.Debug("hidden")
	log.Info("hidden")
	log.DebugFields("hidden", nil)
	log.InfoFields("hidden", nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn level, got %q", buf.String())
	}

	log.Error("shown")
	if !strings.Contains(buf.String(), "[ERROR]") {
		t.Errorf("expected error line, got %q", buf.String())
	}
}

func TestEnabled(t *testing.T) {
	SetLevel(LevelInfo)
	defer SetLevel(LevelWarn)

	if Enabled(LevelDebug) {
		t.Error("Enabled(LevelDebug) should be false at info level")
	}
	if !Enabled(LevelInfo) || !Enabled(LevelError) {
		t.Error("Enabled() should be true at or above the current level")
	}
}
