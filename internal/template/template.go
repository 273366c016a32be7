package template

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/ksyq12/spabuild/internal/config"
)

// Data contains data for rendering templates.
type Data struct {
	Name        string
	Port        int
	ProxyPrefix string
	ProxyTarget string
	Alias       string
	SourceDir   string
	RedirectAPI bool
}

// File is one rendered starter file.
type File struct {
	Path    string // slash-separated, relative to the project root
	Content []byte
}

// withDefaults fills empty fields from the config defaults.
func (d Data) withDefaults() Data {
	if d.Name == "" {
		d.Name = "app"
	}
	if d.Port == 0 {
		d.Port = config.DefaultPort
	}
	if d.ProxyPrefix == "" {
		d.ProxyPrefix = config.DefaultProxyPrefix
	}
	if d.ProxyTarget == "" {
		d.ProxyTarget = config.DefaultProxyTarget
	}
	if d.Alias == "" {
		d.Alias = config.DefaultAlias
	}
	if d.SourceDir == "" {
		d.SourceDir = config.DefaultSourceDir
	}
	return d
}

var funcMap = template.FuncMap{
	"replace": strings.ReplaceAll,
	"quote":   strconv.Quote,
}

// Render renders the named template, e.g. "spabuild.yaml".
func Render(name string, data Data) ([]byte, error) {
	tmplPath := path.Join(scaffoldRoot, name+".tmpl")
	content, err := fs.ReadFile(scaffoldFS, tmplPath)
	if err != nil {
		return nil, fmt.Errorf("template not found: %s", name)
	}

	tmpl, err := template.New(name).Funcs(funcMap).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data.withDefaults()); err != nil {
		return nil, fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Available returns the names of all templates, sorted.
func Available() []string {
	var names []string
	_ = fs.WalkDir(scaffoldFS, scaffoldRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(p, ".tmpl") {
			return err
		}
		names = append(names, strings.TrimSuffix(strings.TrimPrefix(p, scaffoldRoot+"/"), ".tmpl"))
		return nil
	})
	sort.Strings(names)
	return names
}

// Scaffold renders every template into the files of a new project.
// Templates under src/ follow data.SourceDir.
func Scaffold(data Data) ([]File, error) {
	data = data.withDefaults()
	var files []File
	for _, name := range Available() {
		content, err := Render(name, data)
		if err != nil {
			return nil, err
		}
		p := name
		if rest, ok := strings.CutPrefix(name, config.DefaultSourceDir+"/"); ok {
			p = path.Join(data.SourceDir, rest)
		}
		files = append(files, File{Path: p, Content: content})
	}
	return files, nil
}
