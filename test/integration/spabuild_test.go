//go:build integration

package integration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ksyq12/spabuild/internal/bundler"
	"github.com/ksyq12/spabuild/internal/config"
	"github.com/ksyq12/spabuild/internal/devserver"
	"github.com/ksyq12/spabuild/internal/plugin"
	"github.com/ksyq12/spabuild/internal/template"
)

// reactStubs stand in for the react packages so projects bundle offline.
var reactStubs = map[string]string{
	"node_modules/react/package.json":       `{"name":"react","version":"18.2.0","main":"index.js"}`,
	"node_modules/react/index.js":           `export const StrictMode = "StrictMode"; export function useState(v) { return [v, () => {}]; } export function useEffect(f) { f(); }`,
	"node_modules/react/jsx-runtime.js":     `export function jsx(type, props) { return { type, props }; } export const jsxs = jsx; export const Fragment = "Fragment";`,
	"node_modules/react/jsx-dev-runtime.js": `export function jsxDEV(type, props) { return { type, props }; } export const Fragment = "Fragment";`,
	"node_modules/react-dom/package.json":   `{"name":"react-dom","version":"18.2.0"}`,
	"node_modules/react-dom/client.js":      `export function createRoot() { return { render() {} }; }`,
}

type recordingReporter struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingReporter) Success(format string, args ...interface{}) {
	r.record("success: " + fmt.Sprintf(format, args...))
}

func (r *recordingReporter) Warn(format string, args ...interface{}) {
	r.record("warn: " + fmt.Sprintf(format, args...))
}

func (r *recordingReporter) record(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

// setupProject scaffolds a new project the way `spabuild init` does.
func setupProject(t *testing.T, data template.Data) string {
	t.Helper()
	root := t.TempDir()

	files, err := template.Scaffold(data)
	if err != nil {
		t.Fatalf("Scaffold failed: %v", err)
	}
	for _, f := range files {
		writeFile(t, filepath.Join(root, filepath.FromSlash(f.Path)), string(f.Content))
	}
	for name, content := range reactStubs {
		writeFile(t, filepath.Join(root, filepath.FromSlash(name)), content)
	}
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func newBundler(t *testing.T, cfg *config.Config, opts bundler.Options) *bundler.Bundler {
	t.Helper()
	exts, err := plugin.FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}
	b, err := bundler.New(cfg, exts, opts)
	if err != nil {
		t.Fatalf("bundler.New failed: %v", err)
	}
	return b
}

func TestProductionBuildIntegration(t *testing.T) {
	root := setupProject(t, template.Data{Name: "admin"})

	cfg, err := config.LoadDir(root)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("scaffolded config invalid: %v", err)
	}

	rep := &recordingReporter{}
	res, err := newBundler(t, cfg, bundler.Options{RunHooks: true, Reporter: rep}).Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	dist := filepath.Join(root, "dist")

	t.Run("Bundle resolves alias and JSX", func(t *testing.T) {
		js, err := os.ReadFile(filepath.Join(dist, filepath.FromSlash(res.Entry)))
		if err != nil {
			t.Fatalf("Failed to read bundle: %v", err)
		}
		for _, want := range []string{"/api/health", "API: "} {
			if !strings.Contains(string(js), want) {
				t.Errorf("bundle missing %q", want)
			}
		}
	})

	t.Run("Index loads the bundle", func(t *testing.T) {
		html, err := os.ReadFile(filepath.Join(dist, "index.html"))
		if err != nil {
			t.Fatalf("Failed to read index.html: %v", err)
		}
		if !strings.Contains(string(html), "/"+res.Entry) {
			t.Errorf("index.html does not reference %s:\n%s", res.Entry, html)
		}
		if strings.Contains(string(html), "/src/main.jsx") {
			t.Error("index.html still references the source entry")
		}
	})

	t.Run("Routing rules copied", func(t *testing.T) {
		src, _ := os.ReadFile(filepath.Join(root, config.DefaultRoutingRules))
		got, err := os.ReadFile(filepath.Join(dist, config.DefaultRoutingRules))
		if err != nil {
			t.Fatalf("routing rules not copied: %v", err)
		}
		if string(got) != string(src) {
			t.Errorf("copied rules = %q, want %q", got, src)
		}
		if len(rep.messages) != 1 || !strings.HasPrefix(rep.messages[0], "success: ") {
			t.Errorf("reporter messages = %v", rep.messages)
		}
	})

	t.Run("Rebuild without routing rules", func(t *testing.T) {
		if err := os.Remove(filepath.Join(root, config.DefaultRoutingRules)); err != nil {
			t.Fatal(err)
		}
		if _, err := newBundler(t, cfg, bundler.Options{RunHooks: true, Reporter: rep}).Build(context.Background()); err != nil {
			t.Fatalf("Build failed without routing rules: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dist, config.DefaultRoutingRules)); !os.IsNotExist(err) {
			t.Error("stale routing rules left in output")
		}
	})
}

func TestDevServerIntegration(t *testing.T) {
	var (
		mu        sync.Mutex
		seenHosts []string
	)
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seenHosts = append(seenHosts, r.Host)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"path":"`+r.URL.Path+`"}`)
	}))
	defer backend.Close()

	root := setupProject(t, template.Data{Name: "admin", ProxyTarget: backend.URL})
	cfg, err := config.LoadDir(root, config.WithHost("127.0.0.1"), config.WithPort(0))
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	dev := cfg.ForDev()

	s, err := devserver.New(dev, newBundler(t, dev, bundler.Options{}), devserver.Options{Debounce: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("devserver.New failed: %v", err)
	}
	if err := s.Listen(); err != nil {
		t.Fatalf("Listen failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(ctx) }()
	defer func() {
		cancel()
		if err := <-errCh; err != nil {
			t.Errorf("Start returned %v", err)
		}
	}()

	base := "http://" + s.Addr()
	client := &http.Client{Timeout: 5 * time.Second}
	defer client.CloseIdleConnections()

	get := func(path string) (*http.Response, string) {
		t.Helper()
		resp, err := client.Get(base + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp, string(body)
	}

	t.Run("Client routes fall back to index", func(t *testing.T) {
		deadline := time.Now().Add(10 * time.Second)
		for {
			resp, body := get("/settings/profile")
			if resp.StatusCode == http.StatusOK {
				if !strings.Contains(body, `<div id="root">`) {
					t.Errorf("unexpected fallback body: %s", body)
				}
				return
			}
			if time.Now().After(deadline) {
				t.Fatalf("no build output after 10s, last status %d", resp.StatusCode)
			}
			time.Sleep(20 * time.Millisecond)
		}
	})

	t.Run("API requests proxied with target host", func(t *testing.T) {
		resp, body := get("/api/health")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if body != `{"path":"/api/health"}` {
			t.Errorf("body = %s", body)
		}

		target, _ := url.Parse(backend.URL)
		mu.Lock()
		defer mu.Unlock()
		if len(seenHosts) == 0 || seenHosts[len(seenHosts)-1] != target.Host {
			t.Errorf("backend saw hosts %v, want %s", seenHosts, target.Host)
		}
	})

	t.Run("Dev build stays out of dist", func(t *testing.T) {
		if _, err := os.Stat(filepath.Join(root, "dist")); !os.IsNotExist(err) {
			t.Error("dev server wrote into dist")
		}
	})
}
