package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
)

func init() {
	// Disable color for tests
	color.NoColor = true
}

// captureStdout captures everything printed during f.
func captureStdout(f func()) string {
	old := color.Output
	var buf bytes.Buffer
	color.Output = &buf
	defer func() { color.Output = old }()

	f()
	return buf.String()
}

func TestJSON(t *testing.T) {
	t.Run("map", func(t *testing.T) {
		data := map[string]interface{}{
			"entry":  "assets/main-4F2A.js",
			"status": "ok",
		}

		output := captureStdout(func() {
			_ = JSON(data)
		})

		var result map[string]interface{}
		if err := json.Unmarshal([]byte(output), &result); err != nil {
			t.Fatalf("JSON output is invalid: %v", err)
		}
		if result["entry"] != "assets/main-4F2A.js" {
			t.Errorf("expected entry assets/main-4F2A.js, got %v", result["entry"])
		}
	})

	t.Run("struct", func(t *testing.T) {
		type file struct {
			Path string `json:"path"`
			Size int64  `json:"size"`
		}

		output := captureStdout(func() {
			_ = JSON(file{Path: "index.html", Size: 412})
		})

		var result file
		if err := json.Unmarshal([]byte(output), &result); err != nil {
			t.Fatalf("JSON output is invalid: %v", err)
		}
		if result.Path != "index.html" || result.Size != 412 {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("indented", func(t *testing.T) {
		output := captureStdout(func() {
			_ = JSON(map[string]int{"files": 3})
		})
		if !strings.Contains(output, "\n  \"files\": 3") {
			t.Errorf("expected two-space indent, got %q", output)
		}
	})

	t.Run("empty object", func(t *testing.T) {
		output := captureStdout(func() {
			_ = JSON(map[string]interface{}{})
		})
		if !strings.Contains(output, "{}") {
			t.Errorf("expected empty object, got %s", output)
		}
	})
}

func TestYAML(t *testing.T) {
	type rule struct {
		Prefix string `yaml:"prefix"`
		Target string `yaml:"target"`
	}
	output := captureStdout(func() {
		_ = YAML(map[string][]rule{"proxy": {{Prefix: "/api", Target: "http://localhost:8888"}}})
	})

	want := "proxy:\n  - prefix: /api\n    target: http://localhost:8888\n"
	if output != want {
		t.Errorf("YAML() = %q, want %q", output, want)
	}
}

func TestTable(t *testing.T) {
	t.Run("basic table", func(t *testing.T) {
		output := captureStdout(func() {
			Table([]string{"FILE", "SIZE"}, [][]string{
				{"assets/main-4F2A.js", "142.10 kB"},
				{"index.html", "412 B"},
			})
		})

		for _, want := range []string{"FILE", "SIZE", "assets/main-4F2A.js", "412 B"} {
			if !strings.Contains(output, want) {
				t.Errorf("output should contain %q:\n%s", want, output)
			}
		}
	})

	t.Run("empty headers", func(t *testing.T) {
		output := captureStdout(func() {
			Table([]string{}, [][]string{{"data"}})
		})
		if output != "" {
			t.Errorf("expected no output for empty headers, got %s", output)
		}
	})

	t.Run("empty rows", func(t *testing.T) {
		output := captureStdout(func() {
			Table([]string{"COL1", "COL2"}, nil)
		})
		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) != 2 {
			t.Errorf("expected 2 lines (header + separator), got %d", len(lines))
		}
	})

	t.Run("uneven columns", func(t *testing.T) {
		output := captureStdout(func() {
			Table([]string{"COL1", "COL2", "COL3"}, [][]string{
				{"a", "b"},
				{"x", "y", "z", "w"},
			})
		})
		if strings.Contains(output, "w") {
			t.Error("extra cells should be dropped")
		}
	})

	t.Run("column alignment", func(t *testing.T) {
		output := captureStdout(func() {
			Table([]string{"FILE", "SIZE"}, [][]string{{"assets/vendor.js", "1 B"}})
		})
		lines := strings.Split(strings.TrimSpace(output), "\n")
		if strings.Index(lines[0], "SIZE") != strings.Index(lines[2], "1 B") {
			t.Errorf("columns not aligned:\n%s", output)
		}
	})
}

func TestBanner(t *testing.T) {
	output := captureStdout(func() {
		Banner("spabuild dev server", [][2]string{
			{"Local", "http://localhost:5174/"},
			{"Proxy", "/api -> http://localhost:8888"},
		})
	})

	for _, want := range []string{"spabuild dev server", "Local:", "http://localhost:5174/", "/api -> http://localhost:8888"} {
		if !strings.Contains(output, want) {
			t.Errorf("banner should contain %q:\n%s", want, output)
		}
	}
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name   string
		print  func()
		symbol string
		text   string
	}{
		{"success", func() { Success("Built in %s", "120ms") }, "✓", "Built in 120ms"},
		{"error", func() { Error("Failed: %s", "connection refused") }, "✗", "Failed: connection refused"},
		{"warn", func() { Warn("Found %d warnings", 2) }, "!", "Found 2 warnings"},
		{"info", func() { Info("Building %s...", "src/main.jsx") }, "→", "Building src/main.jsx..."},
		{"print", func() { Print("plain %s", "message") }, "", "plain message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureStdout(tt.print)
			if !strings.Contains(output, tt.text) {
				t.Errorf("expected %q in %q", tt.text, output)
			}
			if tt.symbol != "" && !strings.HasPrefix(output, tt.symbol) {
				t.Errorf("expected %q prefix in %q", tt.symbol, output)
			}
		})
	}
}

func TestBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{999, "999 B"},
		{1000, "1.00 kB"},
		{142100, "142.10 kB"},
		{2500000, "2.50 MB"},
	}
	for _, tt := range tests {
		if got := Bytes(tt.n); got != tt.want {
			t.Errorf("Bytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Microsecond, "500µs"},
		{38 * time.Millisecond, "38ms"},
		{1500 * time.Millisecond, "1.50s"},
	}
	for _, tt := range tests {
		if got := Duration(tt.d); got != tt.want {
			t.Errorf("Duration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
