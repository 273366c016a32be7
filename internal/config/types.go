package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ExtensionSpec names an extension to enable, in order.
type ExtensionSpec struct {
	Name    string            `yaml:"name" json:"name"`
	Options map[string]string `yaml:"options,omitempty" json:"options,omitempty"`
}

// UnmarshalYAML accepts either a bare name or a mapping with name/options.
func (e *ExtensionSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		e.Name = node.Value
		e.Options = nil
		return nil
	}
	type plain ExtensionSpec
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*e = ExtensionSpec(p)
	return nil
}

// Option returns the named option or def when it is unset.
func (e ExtensionSpec) Option(key, def string) string {
	if v, ok := e.Options[key]; ok && v != "" {
		return v
	}
	return def
}

// Alias maps an import prefix to a directory.
// Replacement is absolute once the record is loaded.
type Alias struct {
	Find        string `yaml:"find" json:"find"`
	Replacement string `yaml:"replacement" json:"replacement"`
}

// ProxyRule forwards dev-server requests whose path starts with Prefix.
type ProxyRule struct {
	Prefix string `yaml:"prefix" json:"prefix"`
	Target string `yaml:"target" json:"target"`
	// ChangeOrigin rewrites the outbound Host header to the target host.
	ChangeOrigin bool `yaml:"change_origin" json:"change_origin"`
}

func (r ProxyRule) String() string {
	return fmt.Sprintf("%s -> %s", r.Prefix, r.Target)
}

// ServerSettings configures the development server.
type ServerSettings struct {
	Host  string      `yaml:"host" json:"host"`
	Port  int         `yaml:"port" json:"port"`
	Proxy []ProxyRule `yaml:"proxy" json:"proxy"`
	// Strict fails instead of trying the next free port.
	Strict bool `yaml:"strict_port" json:"strict_port"`
}

// Addr returns host:port.
func (s ServerSettings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Sourcemap modes.
const (
	SourcemapNone     = "none"
	SourcemapInline   = "inline"
	SourcemapLinked   = "linked"
	SourcemapExternal = "external"
)

// ValidTargets returns the accepted build targets. An empty target means es2020.
func ValidTargets() []string {
	return []string{"es6", "es2015", "es2016", "es2017", "es2018", "es2019", "es2020", "es2021", "es2022", "esnext"}
}

// IsValidTarget reports whether t names a supported build target.
func IsValidTarget(t string) bool {
	if t == "" {
		return true
	}
	for _, valid := range ValidTargets() {
		if strings.EqualFold(t, valid) {
			return true
		}
	}
	return false
}

// Modes.
const (
	ModeProduction  = "production"
	ModeDevelopment = "development"
)

// BuildSettings configures bundling. Paths are relative to the project root.
type BuildSettings struct {
	Entry       string `yaml:"entry" json:"entry"`
	OutDir      string `yaml:"out_dir" json:"out_dir"`
	PublicDir   string `yaml:"public_dir" json:"public_dir"`
	IndexHTML   string `yaml:"index_html" json:"index_html"`
	CacheDir    string `yaml:"cache_dir" json:"cache_dir"`
	Mode        string `yaml:"mode" json:"mode"`
	Minify      bool   `yaml:"minify" json:"minify"`
	Sourcemap   string `yaml:"sourcemap" json:"sourcemap"`
	Target      string `yaml:"target" json:"target"`
	EmptyOutDir bool   `yaml:"empty_out_dir" json:"empty_out_dir"`
}

// ValidSourcemaps returns all accepted sourcemap modes.
func ValidSourcemaps() []string {
	return []string{SourcemapNone, SourcemapInline, SourcemapLinked, SourcemapExternal}
}

// IsValidSourcemap checks if the given sourcemap mode is valid.
func IsValidSourcemap(s string) bool {
	for _, valid := range ValidSourcemaps() {
		if s == valid {
			return true
		}
	}
	return false
}
