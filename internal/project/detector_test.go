package project

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ksyq12/spabuild/internal/config"
)

func touch(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFindRoot(t *testing.T) {
	t.Run("config file wins over package.json", func(t *testing.T) {
		root := t.TempDir()
		touch(t, filepath.Join(root, config.FileName), "")
		touch(t, filepath.Join(root, "packages", "admin", PackageJSON), "{}")
		start := filepath.Join(root, "packages", "admin", "src")
		if err := os.MkdirAll(start, 0755); err != nil {
			t.Fatal(err)
		}

		got, err := FindRoot(start)
		if err != nil {
			t.Fatal(err)
		}
		if got != root {
			t.Errorf("FindRoot = %s, want %s", got, root)
		}
	})

	t.Run("nearest package.json", func(t *testing.T) {
		root := t.TempDir()
		touch(t, filepath.Join(root, PackageJSON), "{}")
		start := filepath.Join(root, "src", "components")
		if err := os.MkdirAll(start, 0755); err != nil {
			t.Fatal(err)
		}

		got, err := FindRoot(start)
		if err != nil {
			t.Fatal(err)
		}
		if got != root {
			t.Errorf("FindRoot = %s, want %s", got, root)
		}
	})

	t.Run("nothing found", func(t *testing.T) {
		start := t.TempDir()
		got, err := FindRoot(start)
		if err != nil {
			t.Fatal(err)
		}
		if got != start {
			t.Errorf("FindRoot = %s, want start dir %s", got, start)
		}
	})
}

func TestDetect(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, config.FileName), "")
	touch(t, filepath.Join(root, PackageJSON), `{
  "name": "admin-dashboard",
  "dependencies": {"react": "^18.2.0", "react-dom": "^18.2.0"},
  "devDependencies": {"eslint": "^8.0.0"}
}`)
	touch(t, filepath.Join(root, "node_modules", "react", PackageJSON), `{"name":"react"}`)

	info, err := Detect(root)
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "admin-dashboard" || !info.HasPackage || !info.HasModules || !info.InstalledReact {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.ReactVersion != "^18.2.0" {
		t.Errorf("ReactVersion = %q", info.ReactVersion)
	}
	if info.Dependencies["eslint"] != "^8.0.0" {
		t.Error("devDependencies should be included")
	}
	if info.ConfigFile != filepath.Join(root, config.FileName) {
		t.Errorf("ConfigFile = %q", info.ConfigFile)
	}
}

func TestDetect_EmptyDir(t *testing.T) {
	info, err := Detect(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if info.HasPackage || info.HasModules || info.InstalledReact || info.ConfigFile != "" {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestDetect_MalformedPackageJSON(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, PackageJSON), `{"name": `)
	if _, err := Detect(root); err == nil {
		t.Error("expected error for malformed package.json")
	}
}

func TestPathExists(t *testing.T) {
	if !pathExists(t.TempDir()) {
		t.Error("temp dir should exist")
	}
	if pathExists("/this/path/should/definitely/not/exist/anywhere") {
		t.Error("non-existent path should return false")
	}
}

func TestPlatform(t *testing.T) {
	p := Platform()
	if !strings.Contains(p, runtime.GOOS) || !strings.Contains(p, runtime.GOARCH) {
		t.Errorf("Platform() = %q", p)
	}
}
