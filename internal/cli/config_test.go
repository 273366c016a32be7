package cli

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ksyq12/spabuild/internal/config"
	spaerrors "github.com/ksyq12/spabuild/internal/errors"
)

func TestRunConfigShow(t *testing.T) {
	t.Run("yaml with defaults", func(t *testing.T) {
		NewTestHelper(t, config.Default("/project"))

		var err error
		out := captureStdout(t, func() {
			err = runConfigShow(nil, nil)
		})
		if err != nil {
			t.Fatalf("runConfigShow() error = %v", err)
		}
		for _, want := range []string{
			"# root: /project",
			"# source: defaults",
			"port: 5174",
			"prefix: /api",
			"target: http://localhost:8888",
			"change_origin: true",
			"find: '@'",
			"routing_rules: _redirects",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		NewTestHelper(t, config.Default("/project"))
		jsonOutput = true

		var err error
		out := captureStdout(t, func() {
			err = runConfigShow(nil, nil)
		})
		if err != nil {
			t.Fatalf("runConfigShow() error = %v", err)
		}
		var got config.Config
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out)
		}
		if got.Root != "/project" || got.Server.Port != config.DefaultPort {
			t.Errorf("unexpected config: %+v", got)
		}
	})

	t.Run("load error", func(t *testing.T) {
		h := NewTestHelper(t, nil)
		h.MockConfig.LoadErr = spaerrors.ErrConfigInvalid

		err := runConfigShow(nil, nil)
		if !errors.Is(err, spaerrors.ErrConfigInvalid) {
			t.Errorf("runConfigShow() error = %v", err)
		}
	})
}

func TestRunConfigValidate(t *testing.T) {
	t.Run("valid from file", func(t *testing.T) {
		cfg := config.Default("/project")
		cfg.File = "/project/spabuild.yaml"
		NewTestHelper(t, cfg)

		var err error
		out := captureStdout(t, func() {
			err = runConfigValidate(nil, nil)
		})
		if err != nil {
			t.Fatalf("runConfigValidate() error = %v", err)
		}
		if !strings.Contains(out, "Configuration is valid (spabuild.yaml)") {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("valid defaults", func(t *testing.T) {
		NewTestHelper(t, config.Default("/project"))

		out := captureStdout(t, func() {
			if err := runConfigValidate(nil, nil); err != nil {
				t.Fatal(err)
			}
		})
		if !strings.Contains(out, "Configuration is valid (defaults)") {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("invalid proxy target", func(t *testing.T) {
		cfg := config.Default("/project")
		cfg.Server.Proxy = []config.ProxyRule{{Prefix: "/api", Target: "localhost:8888"}}
		NewTestHelper(t, cfg)

		err := runConfigValidate(nil, nil)
		if !errors.Is(err, spaerrors.ErrValidation) {
			t.Errorf("runConfigValidate() error = %v, want ErrValidation", err)
		}
	})
}
