package plugin

import (
	"context"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/ksyq12/spabuild/internal/config"
	"github.com/ksyq12/spabuild/internal/hook"
)

// MockExtension is a test double that bundles and hooks.
type MockExtension struct {
	name string

	// Function mocks - set these to customize behavior
	SetupFunc           func(build api.PluginBuild)
	OnBuildCompleteFunc func(ctx context.Context, info hook.BuildInfo, r hook.Reporter)

	// Call tracking - check these to verify interactions
	SetupCalls           int
	OnBuildCompleteCalls []hook.BuildInfo
}

// NewMockExtension creates a MockExtension with no-op behavior.
func NewMockExtension(name string) *MockExtension {
	return &MockExtension{
		name:                 name,
		OnBuildCompleteCalls: make([]hook.BuildInfo, 0),
	}
}

// Factory returns a Factory that always yields m.
func (m *MockExtension) Factory() Factory {
	return func(*config.Config, config.ExtensionSpec) (Extension, error) {
		return m, nil
	}
}

// Name returns the extension name
func (m *MockExtension) Name() string {
	return m.name
}

// Plugin records setup calls and invokes the mock function if set
func (m *MockExtension) Plugin() api.Plugin {
	return api.Plugin{
		Name: m.name,
		Setup: func(build api.PluginBuild) {
			m.SetupCalls++
			if m.SetupFunc != nil {
				m.SetupFunc(build)
			}
		},
	}
}

// OnBuildComplete records the call and invokes the mock function if set
func (m *MockExtension) OnBuildComplete(ctx context.Context, info hook.BuildInfo, r hook.Reporter) {
	m.OnBuildCompleteCalls = append(m.OnBuildCompleteCalls, info)
	if m.OnBuildCompleteFunc != nil {
		m.OnBuildCompleteFunc(ctx, info, r)
	}
}

// Reset clears all call tracking
func (m *MockExtension) Reset() {
	m.SetupCalls = 0
	m.OnBuildCompleteCalls = make([]hook.BuildInfo, 0)
}
