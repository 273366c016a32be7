package bundler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/ksyq12/spabuild/internal/config"
	"github.com/ksyq12/spabuild/internal/errors"
	"github.com/ksyq12/spabuild/internal/hook"
	"github.com/ksyq12/spabuild/internal/logger"
	"github.com/ksyq12/spabuild/internal/plugin"
)

// assetsDir holds hashed bundle output inside the output directory.
const assetsDir = "assets"

// Options control what a Bundler does besides bundling.
type Options struct {
	// RunHooks invokes post-build hooks after each successful build.
	RunHooks bool
	// Reporter receives hook outcomes; nil uses the CLI output.
	Reporter hook.Reporter
}

// OutputFile is a file written by a build.
type OutputFile struct {
	Path string `json:"path"` // relative to the output directory
	Size int64  `json:"size"`
}

// Result describes a successful build.
type Result struct {
	OutDir   string        `json:"out_dir"`
	Entry    string        `json:"entry"` // bundled entry, relative to OutDir
	CSS      []string      `json:"css,omitempty"`
	Files    []OutputFile  `json:"files"`
	Warnings []string      `json:"warnings,omitempty"`
	Duration time.Duration `json:"duration"`
	Hooks    int           `json:"hooks"`
}

// TotalSize returns the summed size of all output files.
func (r *Result) TotalSize() int64 {
	var total int64
	for _, f := range r.Files {
		total += f.Size
	}
	return total
}

// Bundler builds one project.
type Bundler struct {
	cfg    *config.Config
	exts   []plugin.Extension
	opts   Options
	target api.Target
	log    *logger.Component

	mu sync.Mutex
}

// New creates a Bundler for cfg with the given extensions.
func New(cfg *config.Config, exts []plugin.Extension, opts Options) (*Bundler, error) {
	target, err := parseTarget(cfg.Build.Target)
	if err != nil {
		return nil, err
	}
	if opts.Reporter == nil {
		opts.Reporter = hook.OutputReporter{}
	}
	return &Bundler{
		cfg:    cfg,
		exts:   exts,
		opts:   opts,
		target: target,
		log:    logger.For("bundler"),
	}, nil
}

// Config returns the record the bundler builds.
func (b *Bundler) Config() *config.Config {
	return b.cfg
}

// Build bundles the project and writes the output directory.
func (b *Bundler) Build(ctx context.Context) (*Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	entry := b.cfg.EntryPath()
	if _, err := os.Stat(entry); err != nil {
		return nil, errors.WrapSubject(errors.ErrCodeNotFound, b.cfg.Build.Entry, err)
	}

	b.log.InfoFields("bundling", map[string]interface{}{
		"entry":  b.cfg.Build.Entry,
		"mode":   b.cfg.Build.Mode,
		"minify": b.cfg.Build.Minify,
	})
	built := api.Build(b.buildOptions())
	if len(built.Errors) > 0 {
		return nil, &errors.BuildError{
			Code:    errors.ErrCodeBundle,
			Message: "bundle failed",
			Err:     fmt.Errorf("%s", formatMessages(built.Errors, api.ErrorMessage)),
		}
	}

	outDir := b.cfg.OutDirPath()
	if b.cfg.Build.EmptyOutDir {
		if err := emptyDir(b.cfg.Root, outDir); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to create output directory", err)
	}

	res := &Result{OutDir: outDir}
	for _, f := range built.OutputFiles {
		rel, err := filepath.Rel(outDir, f.Path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, "output outside out dir", err)
		}
		if err := writeFile(f.Path, f.Contents); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, OutputFile{Path: filepath.ToSlash(rel), Size: int64(len(f.Contents))})
	}

	public, err := copyDir(b.cfg.PublicDirPath(), outDir)
	if err != nil {
		return nil, err
	}
	res.Files = append(res.Files, public...)

	res.Entry, res.CSS = entryOutputs(built.Metafile, b.cfg, outDir)
	if res.Entry == "" {
		return nil, errors.Wrap(errors.ErrCodeBundle, "bundle produced no entry output", nil)
	}

	index, err := b.writeIndex(res)
	if err != nil {
		return nil, err
	}
	res.Files = append(res.Files, index)
	sort.Slice(res.Files, func(i, j int) bool { return res.Files[i].Path < res.Files[j].Path })

	res.Warnings = formatMessagesList(built.Warnings, api.WarningMessage)
	res.Duration = time.Since(start)

	if b.opts.RunHooks {
		hooks := plugin.Hooks(b.exts)
		hook.RunAll(ctx, hooks, b.buildInfo(res), b.opts.Reporter)
		res.Hooks = len(hooks)
	}

	b.log.InfoFields("built", map[string]interface{}{
		"files": len(res.Files),
		"took":  res.Duration.Round(time.Millisecond),
	})
	return res, nil
}

func (b *Bundler) buildInfo(res *Result) hook.BuildInfo {
	files := make([]string, len(res.Files))
	for i, f := range res.Files {
		files[i] = f.Path
	}
	return hook.BuildInfo{Root: b.cfg.Root, OutDir: res.OutDir, Files: files}
}

func (b *Bundler) buildOptions() api.BuildOptions {
	minify := b.cfg.Build.Minify
	return api.BuildOptions{
		EntryPoints:       []string{b.cfg.EntryPath()},
		Bundle:            true,
		Write:             false,
		Metafile:          true,
		Outdir:            b.cfg.OutDirPath(),
		EntryNames:        assetsDir + "/[name]-[hash]",
		ChunkNames:        assetsDir + "/[name]-[hash]",
		AssetNames:        assetsDir + "/[name]-[hash]",
		PublicPath:        "/",
		Format:            api.FormatESModule,
		Splitting:         true,
		Platform:          api.PlatformBrowser,
		Target:            b.target,
		MinifyWhitespace:  minify,
		MinifyIdentifiers: minify,
		MinifySyntax:      minify,
		Sourcemap:         sourcemap(b.cfg.Build.Sourcemap),
		AbsWorkingDir:     b.cfg.Root,
		Loader:            assetLoaders(),
		Plugins:           plugin.ESBuildPlugins(b.cfg, b.exts),
		LogLevel:          api.LogLevelSilent,
	}
}

func assetLoaders() map[string]api.Loader {
	loaders := map[string]api.Loader{".json": api.LoaderJSON}
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".avif", ".ico", ".svg", ".woff", ".woff2", ".ttf", ".eot"} {
		loaders[ext] = api.LoaderFile
	}
	return loaders
}

func sourcemap(mode string) api.SourceMap {
	switch mode {
	case config.SourcemapInline:
		return api.SourceMapInline
	case config.SourcemapLinked:
		return api.SourceMapLinked
	case config.SourcemapExternal:
		return api.SourceMapExternal
	default:
		return api.SourceMapNone
	}
}

func parseTarget(t string) (api.Target, error) {
	switch strings.ToLower(t) {
	case "", "es2020":
		return api.ES2020, nil
	case "es2015", "es6":
		return api.ES2015, nil
	case "es2016":
		return api.ES2016, nil
	case "es2017":
		return api.ES2017, nil
	case "es2018":
		return api.ES2018, nil
	case "es2019":
		return api.ES2019, nil
	case "es2021":
		return api.ES2021, nil
	case "es2022":
		return api.ES2022, nil
	case "esnext":
		return api.ESNext, nil
	}
	return api.DefaultTarget, errors.Validationf("unsupported build target %q", t)
}

// metafile is the subset of esbuild's metafile the bundler reads.
type metafile struct {
	Outputs map[string]struct {
		EntryPoint string `json:"entryPoint"`
		CSSBundle  string `json:"cssBundle"`
	} `json:"outputs"`
}

// entryOutputs finds the bundled entry and its stylesheets, relative to outDir.
func entryOutputs(meta string, cfg *config.Config, outDir string) (string, []string) {
	var m metafile
	if err := json.Unmarshal([]byte(meta), &m); err != nil {
		return "", nil
	}

	entryRel, _ := filepath.Rel(cfg.Root, cfg.EntryPath())
	entryRel = filepath.ToSlash(entryRel)

	rel := func(p string) string {
		r, err := filepath.Rel(outDir, filepath.Join(cfg.Root, filepath.FromSlash(p)))
		if err != nil {
			return ""
		}
		return filepath.ToSlash(r)
	}

	var entry, cssBundle string
	for out, o := range m.Outputs {
		if o.EntryPoint == "" || strings.HasSuffix(out, ".css") {
			continue
		}
		if entry == "" || o.EntryPoint == entryRel {
			entry, cssBundle = out, o.CSSBundle
		}
	}
	if entry == "" {
		return "", nil
	}

	var css []string
	if cssBundle != "" {
		css = append(css, rel(cssBundle))
	} else {
		// older metafiles lack cssBundle; an app has a single entry, so
		// every emitted stylesheet belongs to it
		for out := range m.Outputs {
			if strings.HasSuffix(out, ".css") {
				css = append(css, rel(out))
			}
		}
		sort.Strings(css)
	}
	return rel(entry), css
}

func formatMessagesList(msgs []api.Message, kind api.MessageKind) []string {
	if len(msgs) == 0 {
		return nil
	}
	formatted := api.FormatMessages(msgs, api.FormatMessagesOptions{Kind: kind})
	out := make([]string, len(formatted))
	for i, f := range formatted {
		out[i] = strings.TrimRight(f, "\n")
	}
	return out
}

func formatMessages(msgs []api.Message, kind api.MessageKind) string {
	return strings.Join(formatMessagesList(msgs, kind), "\n")
}
