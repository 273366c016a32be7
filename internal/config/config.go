package config

import (
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ksyq12/spabuild/internal/errors"
	"github.com/ksyq12/spabuild/internal/logger"
)

// FileName is the config file looked up in the project root.
const FileName = "spabuild.yaml"

// Built-in extension names.
const (
	ExtensionReact            = "react"
	ExtensionCopyRoutingRules = "copy-routing-rules"
)

// Defaults for a new project.
const (
	DefaultPort         = 5174
	DefaultHost         = "localhost"
	DefaultProxyPrefix  = "/api"
	DefaultProxyTarget  = "http://localhost:8888"
	DefaultAlias        = "@"
	DefaultSourceDir    = "src"
	DefaultRoutingRules = "_redirects"
)

// Config is the Configuration Record. It is read-only after construction.
type Config struct {
	// Root is the absolute project root: the directory of the config file.
	Root         string          `yaml:"-" json:"root"`
	Extensions   []ExtensionSpec `yaml:"extensions" json:"extensions"`
	Aliases      []Alias         `yaml:"alias" json:"alias"`
	Server       ServerSettings  `yaml:"server" json:"server"`
	Build        BuildSettings   `yaml:"build" json:"build"`
	RoutingRules string          `yaml:"routing_rules" json:"routing_rules"`

	// File is the config file the record was loaded from, empty for defaults.
	File string `yaml:"-" json:"file,omitempty"`
}

// Option adjusts a record while it is being constructed.
type Option func(*Config)

// WithPort overrides the dev-server port.
func WithPort(port int) Option {
	return func(c *Config) { c.Server.Port = port }
}

// WithHost overrides the dev-server host.
func WithHost(host string) Option {
	return func(c *Config) { c.Server.Host = host }
}

// WithStrictPort makes a busy dev-server port fatal.
func WithStrictPort(strict bool) Option {
	return func(c *Config) { c.Server.Strict = strict }
}

// WithOutDir overrides the build output directory.
func WithOutDir(dir string) Option {
	return func(c *Config) { c.Build.OutDir = dir }
}

// WithMinify overrides minification.
func WithMinify(minify bool) Option {
	return func(c *Config) { c.Build.Minify = minify }
}

// WithSourcemap overrides the sourcemap mode.
func WithSourcemap(mode string) Option {
	return func(c *Config) { c.Build.Sourcemap = mode }
}

// WithMode overrides the build mode.
func WithMode(mode string) Option {
	return func(c *Config) { c.Build.Mode = mode }
}

// Default returns the record for a project rooted at root.
// root should be absolute; it is made absolute if it is not.
func Default(root string, opts ...Option) *Config {
	root = absRoot(root)
	cfg := defaults(root)
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.normalize()
	return cfg
}

func defaults(root string) *Config {
	return &Config{
		Root: root,
		Extensions: []ExtensionSpec{
			{Name: ExtensionReact},
			{Name: ExtensionCopyRoutingRules},
		},
		Aliases: []Alias{
			{Find: DefaultAlias, Replacement: filepath.Join(root, DefaultSourceDir)},
		},
		Server: ServerSettings{
			Host: DefaultHost,
			Port: DefaultPort,
			Proxy: []ProxyRule{
				{Prefix: DefaultProxyPrefix, Target: DefaultProxyTarget, ChangeOrigin: true},
			},
		},
		Build: BuildSettings{
			Entry:       "src/main.jsx",
			OutDir:      "dist",
			PublicDir:   "public",
			IndexHTML:   "index.html",
			CacheDir:    ".spabuild",
			Mode:        ModeProduction,
			Minify:      true,
			Sourcemap:   SourcemapNone,
			Target:      "es2020",
			EmptyOutDir: true,
		},
		RoutingRules: DefaultRoutingRules,
	}
}

// Load reads the config file at path. Fields absent from the file keep
// their defaults; relative paths resolve against the file's directory.
func Load(path string, opts ...Option) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, "failed to resolve config path", err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound(abs)
		}
		return nil, errors.Wrap(errors.ErrCodeConfig, "failed to read config", err)
	}

	cfg := defaults(filepath.Dir(abs))
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, "failed to parse config", err)
	}
	cfg.File = abs

	for _, opt := range opts {
		opt(cfg)
	}
	cfg.normalize()

	logger.For("config").DebugFields("loaded", map[string]interface{}{
		"file":       abs,
		"extensions": len(cfg.Extensions),
		"aliases":    len(cfg.Aliases),
		"proxies":    len(cfg.Server.Proxy),
	})
	return cfg, nil
}

// LoadDir loads dir/spabuild.yaml, or returns Default(dir) when the
// directory has no config file.
func LoadDir(dir string, opts ...Option) (*Config, error) {
	path := filepath.Join(absRoot(dir), FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.For("config").Debug("no %s in %s, using defaults", FileName, dir)
		return Default(dir, opts...), nil
	}
	return Load(path, opts...)
}

// normalize resolves relative paths against Root and drops duplicate
// alias keys and proxy prefixes (first registered wins).
func (c *Config) normalize() {
	log := logger.For("config")

	seenAlias := make(map[string]bool, len(c.Aliases))
	aliases := make([]Alias, 0, len(c.Aliases))
	for _, a := range c.Aliases {
		if seenAlias[a.Find] {
			log.Warn("duplicate alias %q ignored (first definition wins)", a.Find)
			continue
		}
		seenAlias[a.Find] = true
		if a.Replacement != "" && !filepath.IsAbs(a.Replacement) {
			a.Replacement = filepath.Join(c.Root, a.Replacement)
		}
		a.Replacement = filepath.Clean(a.Replacement)
		aliases = append(aliases, a)
	}
	c.Aliases = aliases

	seenPrefix := make(map[string]bool, len(c.Server.Proxy))
	rules := make([]ProxyRule, 0, len(c.Server.Proxy))
	for _, r := range c.Server.Proxy {
		if seenPrefix[r.Prefix] {
			log.Warn("duplicate proxy prefix %q ignored (first definition wins)", r.Prefix)
			continue
		}
		seenPrefix[r.Prefix] = true
		rules = append(rules, r)
	}
	c.Server.Proxy = rules
}

// Validate checks the record for values the bundler or dev server cannot use.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.Validationf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return errors.Validation("server.host cannot be empty")
	}
	for _, r := range c.Server.Proxy {
		if err := validateProxyRule(r); err != nil {
			return err
		}
	}
	for _, a := range c.Aliases {
		if a.Find == "" {
			return errors.Validation("alias find cannot be empty")
		}
		if a.Replacement == "" || a.Replacement == "." {
			return errors.Validationf("alias %q has no replacement", a.Find)
		}
	}
	for _, e := range c.Extensions {
		if e.Name == "" {
			return errors.Validation("extension name cannot be empty")
		}
	}
	if c.Build.Entry == "" {
		return errors.Validation("build.entry cannot be empty")
	}
	if c.Build.OutDir == "" {
		return errors.Validation("build.out_dir cannot be empty")
	}
	if c.OutDirPath() == c.Root {
		return errors.Validation("build.out_dir cannot be the project root")
	}
	if !IsValidSourcemap(c.Build.Sourcemap) {
		return errors.Validationf("invalid sourcemap %q. Valid values: %s", c.Build.Sourcemap, strings.Join(ValidSourcemaps(), ", "))
	}
	if !IsValidTarget(c.Build.Target) {
		return errors.Validationf("invalid target %q. Valid values: %s", c.Build.Target, strings.Join(ValidTargets(), ", "))
	}
	if c.Build.Mode != ModeProduction && c.Build.Mode != ModeDevelopment {
		return errors.Validationf("invalid mode %q", c.Build.Mode)
	}
	if c.RoutingRules != "" && filepath.Base(c.RoutingRules) != c.RoutingRules {
		return errors.Validationf("routing_rules must be a file name, got %q", c.RoutingRules)
	}
	return nil
}

func validateProxyRule(r ProxyRule) error {
	if !strings.HasPrefix(r.Prefix, "/") {
		return errors.Validationf("proxy prefix %q must start with /", r.Prefix)
	}
	u, err := url.Parse(r.Target)
	if err != nil {
		return errors.WrapSubject(errors.ErrCodeValidation, r.Prefix, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Validationf("proxy target for %s must be an absolute http(s) URL, got %q", r.Prefix, r.Target)
	}
	return nil
}

// Path resolves a project-relative path against Root.
func (c *Config) Path(rel string) string {
	if rel == "" {
		return ""
	}
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(c.Root, rel)
}

// EntryPath returns the absolute entry module path.
func (c *Config) EntryPath() string { return c.Path(c.Build.Entry) }

// OutDirPath returns the absolute output directory.
func (c *Config) OutDirPath() string { return c.Path(c.Build.OutDir) }

// PublicDirPath returns the absolute public directory.
func (c *Config) PublicDirPath() string { return c.Path(c.Build.PublicDir) }

// IndexHTMLPath returns the absolute path of the HTML template.
func (c *Config) IndexHTMLPath() string { return c.Path(c.Build.IndexHTML) }

// CacheDirPath returns the absolute cache directory.
func (c *Config) CacheDirPath() string { return c.Path(c.Build.CacheDir) }

// RoutingRulesPath returns the absolute path of the routing-rules source file.
func (c *Config) RoutingRulesPath() string { return c.Path(c.RoutingRules) }

// ResolveAlias rewrites importPath through the alias table. An alias
// matches the exact key or the key followed by "/". The first matching
// alias in table order wins.
func (c *Config) ResolveAlias(importPath string) (string, bool) {
	for _, a := range c.Aliases {
		if importPath == a.Find {
			return a.Replacement, true
		}
		if strings.HasPrefix(importPath, a.Find+"/") {
			return filepath.Join(a.Replacement, filepath.FromSlash(importPath[len(a.Find)+1:])), true
		}
	}
	return "", false
}

// MatchProxy returns the proxy rule for a request path. The longest
// matching prefix wins; matching is a plain string prefix test.
func (c *Config) MatchProxy(path string) (*ProxyRule, bool) {
	var best *ProxyRule
	for i := range c.Server.Proxy {
		r := &c.Server.Proxy[i]
		if !strings.HasPrefix(path, r.Prefix) {
			continue
		}
		if best == nil || len(r.Prefix) > len(best.Prefix) {
			best = r
		}
	}
	return best, best != nil
}

// ProxyByLength returns the proxy rules ordered longest prefix first.
// Rules of equal length keep their configured order.
func (c *Config) ProxyByLength() []ProxyRule {
	rules := append([]ProxyRule(nil), c.Server.Proxy...)
	sort.SliceStable(rules, func(i, j int) bool {
		return len(rules[i].Prefix) > len(rules[j].Prefix)
	})
	return rules
}

// HasExtension reports whether the named extension is enabled.
func (c *Config) HasExtension(name string) bool {
	for _, e := range c.Extensions {
		if e.Name == name {
			return true
		}
	}
	return false
}

// ForDev returns a copy of the record adjusted for the dev server: an
// unminified development build with inline sourcemaps written to the
// cache directory.
func (c *Config) ForDev() *Config {
	dev := c.clone()
	dev.Build.Mode = ModeDevelopment
	dev.Build.Minify = false
	dev.Build.Sourcemap = SourcemapInline
	dev.Build.OutDir = filepath.Join(c.Build.CacheDir, "dev")
	dev.Build.EmptyOutDir = true
	return dev
}

func (c *Config) clone() *Config {
	out := *c
	out.Extensions = make([]ExtensionSpec, len(c.Extensions))
	for i, e := range c.Extensions {
		out.Extensions[i] = ExtensionSpec{Name: e.Name}
		if e.Options != nil {
			out.Extensions[i].Options = make(map[string]string, len(e.Options))
			for k, v := range e.Options {
				out.Extensions[i].Options[k] = v
			}
		}
	}
	out.Aliases = append([]Alias(nil), c.Aliases...)
	out.Server.Proxy = append([]ProxyRule(nil), c.Server.Proxy...)
	return &out
}

func absRoot(root string) string {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return filepath.Clean(root)
	}
	return abs
}
