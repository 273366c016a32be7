package plugin

import (
	"fmt"
	"regexp"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/ksyq12/spabuild/internal/config"
	"github.com/ksyq12/spabuild/internal/logger"
)

// AliasPluginName is the esbuild plugin name of the alias resolver.
const AliasPluginName = "alias"

// Alias returns an esbuild plugin that rewrites imports through the
// record's alias table. Rewritten paths are resolved again by esbuild so
// extension and index-file lookup still apply.
func Alias(cfg *config.Config) api.Plugin {
	return api.Plugin{
		Name: AliasPluginName,
		Setup: func(build api.PluginBuild) {
			if len(cfg.Aliases) == 0 {
				return
			}
			log := logger.For(AliasPluginName)
			build.OnResolve(api.OnResolveOptions{Filter: aliasFilter(cfg.Aliases)},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					target, ok := cfg.ResolveAlias(args.Path)
					if !ok {
						return api.OnResolveResult{}, nil
					}
					res := build.Resolve(target, api.ResolveOptions{
						Importer:   args.Importer,
						ResolveDir: args.ResolveDir,
						Kind:       args.Kind,
					})
					if len(res.Errors) > 0 {
						return api.OnResolveResult{Errors: res.Errors}, nil
					}
					log.Debug("%s -> %s", args.Path, res.Path)
					return api.OnResolveResult{
						Path:      res.Path,
						Namespace: res.Namespace,
						External:  res.External,
						Suffix:    res.Suffix,
					}, nil
				})
		},
	}
}

// aliasFilter matches any import equal to an alias key or under it.
func aliasFilter(aliases []config.Alias) string {
	pattern := ""
	for i, a := range aliases {
		if i > 0 {
			pattern += "|"
		}
		pattern += regexp.QuoteMeta(a.Find)
	}
	return fmt.Sprintf(`^(?:%s)(?:/|$)`, pattern)
}
