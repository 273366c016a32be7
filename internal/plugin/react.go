package plugin

import (
	"fmt"
	"strconv"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/ksyq12/spabuild/internal/config"
)

// React runtimes.
const (
	RuntimeAutomatic = "automatic"
	RuntimeClassic   = "classic"
)

// React integrates the React JSX transform into bundling.
type React struct {
	runtime      string
	importSource string
	mode         string
}

func newReact(cfg *config.Config, spec config.ExtensionSpec) (Extension, error) {
	r := &React{
		runtime:      spec.Option("runtime", RuntimeAutomatic),
		importSource: spec.Option("import_source", "react"),
		mode:         cfg.Build.Mode,
	}
	if r.runtime != RuntimeAutomatic && r.runtime != RuntimeClassic {
		return nil, fmt.Errorf("invalid runtime %q (valid: %s, %s)", r.runtime, RuntimeAutomatic, RuntimeClassic)
	}
	return r, nil
}

// Name returns the extension name.
func (r *React) Name() string {
	return config.ExtensionReact
}

// Plugin returns an esbuild plugin that configures JSX handling.
func (r *React) Plugin() api.Plugin {
	return api.Plugin{
		Name:  config.ExtensionReact,
		Setup: r.setup,
	}
}

func (r *React) setup(build api.PluginBuild) {
	opts := build.InitialOptions

	switch r.runtime {
	case RuntimeClassic:
		opts.JSX = api.JSXTransform
		opts.JSXFactory = "React.createElement"
		opts.JSXFragment = "React.Fragment"
	default:
		opts.JSX = api.JSXAutomatic
		opts.JSXImportSource = r.importSource
		opts.JSXDev = r.mode == config.ModeDevelopment
	}

	// .js files in React projects routinely contain JSX
	if opts.Loader == nil {
		opts.Loader = make(map[string]api.Loader)
	}
	for _, ext := range []string{".js", ".jsx"} {
		if _, set := opts.Loader[ext]; !set {
			opts.Loader[ext] = api.LoaderJSX
		}
	}

	if opts.Define == nil {
		opts.Define = make(map[string]string)
	}
	if _, set := opts.Define["process.env.NODE_ENV"]; !set {
		opts.Define["process.env.NODE_ENV"] = strconv.Quote(r.mode)
	}
}
