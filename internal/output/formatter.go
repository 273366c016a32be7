// Package output prints user-facing results to stdout.
//
// Messages carry a colored marker (✓ ✗ ! →). With --json the CLI prints
// a single JSON document through JSON instead.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	dimColor     = color.New(color.Faint)
	boldColor    = color.New(color.Bold)
)

// stdout follows color.Output so tests can capture both at once.
func stdout() io.Writer {
	return color.Output
}

// JSON outputs data as indented JSON.
func JSON(data interface{}) error {
	encoder := json.NewEncoder(stdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// YAML outputs data as YAML with two-space indentation.
func YAML(data interface{}) error {
	encoder := yaml.NewEncoder(stdout())
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// Table outputs rows under headers with padded columns.
func Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	line := func(cells []string) string {
		out := make([]string, len(headers))
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			out[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		return strings.TrimRight(strings.Join(out, "  "), " ")
	}

	w := stdout()
	fmt.Fprintln(w, line(headers))
	sep := make([]string, len(headers))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	fmt.Fprintln(w, strings.Join(sep, "  "))
	for _, row := range rows {
		fmt.Fprintln(w, line(row))
	}
}

// Banner prints a title followed by aligned label/value lines, as used
// for the dev-server start message.
func Banner(title string, lines [][2]string) {
	w := stdout()
	fmt.Fprintln(w)
	_, _ = boldColor.Fprintf(w, "  %s\n", title)
	fmt.Fprintln(w)

	width := 0
	for _, l := range lines {
		if len(l[0]) > width {
			width = len(l[0])
		}
	}
	for _, l := range lines {
		_, _ = dimColor.Fprintf(w, "  %-*s  ", width+1, l[0]+":")
		fmt.Fprintln(w, l[1])
	}
	fmt.Fprintln(w)
}

// Success prints a success message.
func Success(format string, args ...interface{}) {
	_, _ = successColor.Fprintf(stdout(), "✓ "+format+"\n", args...)
}

// Error prints an error message.
func Error(format string, args ...interface{}) {
	_, _ = errorColor.Fprintf(stdout(), "✗ "+format+"\n", args...)
}

// Warn prints a warning message.
func Warn(format string, args ...interface{}) {
	_, _ = warnColor.Fprintf(stdout(), "! "+format+"\n", args...)
}

// Info prints an info message.
func Info(format string, args ...interface{}) {
	_, _ = infoColor.Fprintf(stdout(), "→ "+format+"\n", args...)
}

// Print prints a plain message.
func Print(format string, args ...interface{}) {
	fmt.Fprintf(stdout(), format+"\n", args...)
}

// Bytes formats a size the way build summaries show it.
func Bytes(n int64) string {
	const unit = 1000
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "kMGT"[exp])
}

// Duration formats an elapsed time for humans.
func Duration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}
