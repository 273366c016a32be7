package plugin

import (
	"sort"
	"sync"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/ksyq12/spabuild/internal/config"
	"github.com/ksyq12/spabuild/internal/errors"
	"github.com/ksyq12/spabuild/internal/hook"
)

// Extension is an entry of the record's extension list.
type Extension interface {
	// Name returns the extension name as written in spabuild.yaml
	Name() string
}

// ESBuildPlugin is an extension that contributes to bundling.
type ESBuildPlugin interface {
	Extension

	// Plugin returns the esbuild plugin for one build
	Plugin() api.Plugin
}

// Factory creates an extension from the record and its spec entry.
type Factory func(cfg *config.Config, spec config.ExtensionSpec) (Extension, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds an extension factory under name, replacing any previous one.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// Unregister removes name from the registry.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, name)
}

// Get returns the factory registered under name.
func Get(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// Available returns all registered extension names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromConfig creates the record's extensions in configured order.
func FromConfig(cfg *config.Config) ([]Extension, error) {
	exts := make([]Extension, 0, len(cfg.Extensions))
	for _, spec := range cfg.Extensions {
		f, ok := Get(spec.Name)
		if !ok {
			return nil, errors.UnknownExtension(spec.Name)
		}
		ext, err := f(cfg, spec)
		if err != nil {
			return nil, errors.WrapSubject(errors.ErrCodeExtension, spec.Name, err)
		}
		exts = append(exts, ext)
	}
	return exts, nil
}

// ESBuildPlugins returns the alias plugin followed by the plugins of
// every extension that bundles, in order.
func ESBuildPlugins(cfg *config.Config, exts []Extension) []api.Plugin {
	plugins := []api.Plugin{Alias(cfg)}
	for _, ext := range exts {
		if p, ok := ext.(ESBuildPlugin); ok {
			plugins = append(plugins, p.Plugin())
		}
	}
	return plugins
}

// Hooks returns the extensions that run after a build, in order.
func Hooks(exts []Extension) []hook.Hook {
	var hooks []hook.Hook
	for _, ext := range exts {
		if h, ok := ext.(hook.Hook); ok {
			hooks = append(hooks, h)
		}
	}
	return hooks
}

func init() {
	Register(config.ExtensionReact, newReact)
	Register(config.ExtensionCopyRoutingRules, newCopyRoutingRules)
}
