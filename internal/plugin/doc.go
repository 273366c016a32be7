// Package plugin provides the extensions a spabuild project can enable
// and the esbuild plugins that implement them.
//
// An extension is identified by name in spabuild.yaml and created from
// the Configuration Record by a registered Factory. What an extension can
// do depends on the capabilities it implements:
//
//   - ESBuildPlugin: contributes an esbuild plugin to every bundle
//     (the "react" extension configures the JSX automatic runtime)
//   - hook.Hook: runs once after a build has written its output
//     (the "copy-routing-rules" extension copies _redirects into dist)
//
// The alias table is not an extension; Alias builds the esbuild resolver
// plugin for it and the bundler always installs it first.
//
// # Basic Usage
//
//	exts, err := plugin.FromConfig(cfg)
//	if err != nil {
//	    return err
//	}
//	plugins := plugin.ESBuildPlugins(cfg, exts)
//	hooks := plugin.Hooks(exts)
//
// # Registering Extensions
//
//	plugin.Register("my-extension", func(cfg *config.Config, spec config.ExtensionSpec) (plugin.Extension, error) {
//	    return &myExtension{}, nil
//	})
//
// # Testing
//
// MockExtension records Setup and OnBuildComplete calls and can be
// registered under any name.
package plugin
