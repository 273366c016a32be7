// Package hook runs auxiliary steps after a build has written its output.
//
// Hooks are best-effort: a hook reports problems as warnings and never
// fails the build that invoked it. The bundler calls OnBuildComplete once
// per successful build, after every output file is on disk.
package hook

import (
	"context"

	"github.com/ksyq12/spabuild/internal/output"
)

// BuildInfo describes a finished build.
type BuildInfo struct {
	Root   string   // absolute project root
	OutDir string   // absolute output directory
	Files  []string // output files relative to OutDir
}

// Hook is invoked once after a build completes. Outcomes the user
// should see go to r.
type Hook interface {
	Name() string
	OnBuildComplete(ctx context.Context, info BuildInfo, r Reporter)
}

// Reporter receives the user-facing outcome of a hook.
type Reporter interface {
	Success(format string, args ...interface{})
	Warn(format string, args ...interface{})
}

// OutputReporter reports through the colored CLI output.
type OutputReporter struct{}

// Success prints a success line.
func (OutputReporter) Success(format string, args ...interface{}) {
	output.Success(format, args...)
}

// Warn prints a warning line.
func (OutputReporter) Warn(format string, args ...interface{}) {
	output.Warn(format, args...)
}

// RunAll invokes each hook in order. A panicking hook is reported and
// does not stop the remaining hooks.
func RunAll(ctx context.Context, hooks []Hook, info BuildInfo, r Reporter) {
	if r == nil {
		r = OutputReporter{}
	}
	for _, h := range hooks {
		runOne(ctx, h, info, r)
	}
}

func runOne(ctx context.Context, h Hook, info BuildInfo, r Reporter) {
	defer func() {
		if p := recover(); p != nil {
			r.Warn("hook %s panicked: %v", h.Name(), p)
		}
	}()
	h.OnBuildComplete(ctx, info, r)
}
