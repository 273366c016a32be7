package cli

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/ksyq12/spabuild/internal/bundler"
	"github.com/ksyq12/spabuild/internal/config"
	"github.com/ksyq12/spabuild/internal/devserver"
	"github.com/ksyq12/spabuild/internal/executor"
	"github.com/ksyq12/spabuild/internal/input"
)

// MockConfigLoader is a test double for ConfigLoader
type MockConfigLoader struct {
	Cfg       *config.Config
	LoadErr   error
	LoadCalls int
	Paths     []string
}

// Load applies opts to a copy of Cfg so that each call sees fresh overrides.
func (m *MockConfigLoader) Load(path string, opts ...config.Option) (*config.Config, error) {
	m.LoadCalls++
	m.Paths = append(m.Paths, path)
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Cfg == nil {
		m.Cfg = config.Default("/project")
	}
	cfg := *m.Cfg
	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg, nil
}

// MockBuilder is a test double for Builder
type MockBuilder struct {
	Result     *bundler.Result
	Err        error
	BuildCalls int
}

func (m *MockBuilder) Build(ctx context.Context) (*bundler.Result, error) {
	m.BuildCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Result == nil {
		return &bundler.Result{OutDir: "/project/dist", Entry: "assets/main-ABC123.js"}, nil
	}
	return m.Result, nil
}

// MockBundlerFactory is a test double for BundlerFactory
type MockBundlerFactory struct {
	Builder *MockBuilder
	Err     error
	Configs []*config.Config
	Options []bundler.Options
}

func (m *MockBundlerFactory) Create(cfg *config.Config, opts bundler.Options) (Builder, error) {
	m.Configs = append(m.Configs, cfg)
	m.Options = append(m.Options, opts)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Builder == nil {
		m.Builder = &MockBuilder{}
	}
	return m.Builder, nil
}

// MockDevServer is a test double for DevServer
type MockDevServer struct {
	Addr       string
	ListenErr  error
	StartErr   error
	StartFunc  func(ctx context.Context) error
	StartCalls int
}

func (m *MockDevServer) Listen() error {
	return m.ListenErr
}

func (m *MockDevServer) URL() string {
	if m.Addr == "" {
		return "http://localhost:5174"
	}
	return "http://" + m.Addr
}

func (m *MockDevServer) Start(ctx context.Context) error {
	m.StartCalls++
	if m.StartFunc != nil {
		return m.StartFunc(ctx)
	}
	return m.StartErr
}

// MockServerFactory is a test double for ServerFactory
type MockServerFactory struct {
	Server  *MockDevServer
	Err     error
	Configs []*config.Config
	Options []devserver.Options
}

func (m *MockServerFactory) Create(cfg *config.Config, opts devserver.Options) (DevServer, error) {
	m.Configs = append(m.Configs, cfg)
	m.Options = append(m.Options, opts)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Server == nil {
		m.Server = &MockDevServer{}
	}
	return m.Server, nil
}

// MockDialer is a test double for Dialer. Addresses listed in Open
// accept connections; every other dial fails.
type MockDialer struct {
	Open  map[string]bool
	Calls []string
}

func (m *MockDialer) DialTimeout(network, address string, timeout time.Duration) (net.Conn, error) {
	m.Calls = append(m.Calls, address)
	if !m.Open[address] {
		return nil, errors.New("connection refused")
	}
	client, server := net.Pipe()
	_ = server.Close()
	return client, nil
}

// MockDependenciesBuilder helps create mock dependencies for tests
type MockDependenciesBuilder struct {
	deps *Dependencies
}

// NewMockDeps creates a new MockDependenciesBuilder with sensible defaults
func NewMockDeps() *MockDependenciesBuilder {
	return &MockDependenciesBuilder{
		deps: &Dependencies{
			ConfigLoader:   &MockConfigLoader{Cfg: config.Default("/project")},
			BundlerFactory: &MockBundlerFactory{},
			ServerFactory:  &MockServerFactory{},
			Executor:       &executor.MockExecutor{},
			Dialer:         &MockDialer{},
			StdinReader:    input.NewStringReader("y\n"),
		},
	}
}

// WithConfig sets the config for the mock
func (b *MockDependenciesBuilder) WithConfig(cfg *config.Config) *MockDependenciesBuilder {
	b.deps.ConfigLoader = &MockConfigLoader{Cfg: cfg}
	return b
}

// WithConfigLoader sets a custom config loader
func (b *MockDependenciesBuilder) WithConfigLoader(loader ConfigLoader) *MockDependenciesBuilder {
	b.deps.ConfigLoader = loader
	return b
}

// WithBundlerFactory sets a custom bundler factory
func (b *MockDependenciesBuilder) WithBundlerFactory(factory BundlerFactory) *MockDependenciesBuilder {
	b.deps.BundlerFactory = factory
	return b
}

// WithBuilder sets the builder handed out by the bundler factory
func (b *MockDependenciesBuilder) WithBuilder(builder *MockBuilder) *MockDependenciesBuilder {
	b.deps.BundlerFactory = &MockBundlerFactory{Builder: builder}
	return b
}

// WithServerFactory sets a custom server factory
func (b *MockDependenciesBuilder) WithServerFactory(factory ServerFactory) *MockDependenciesBuilder {
	b.deps.ServerFactory = factory
	return b
}

// WithExecutor sets the command executor
func (b *MockDependenciesBuilder) WithExecutor(e executor.CommandExecutor) *MockDependenciesBuilder {
	b.deps.Executor = e
	return b
}

// WithOpenAddrs makes the mock dialer accept connections to addrs
func (b *MockDependenciesBuilder) WithOpenAddrs(addrs ...string) *MockDependenciesBuilder {
	open := make(map[string]bool, len(addrs))
	for _, a := range addrs {
		open[a] = true
	}
	b.deps.Dialer = &MockDialer{Open: open}
	return b
}

// WithStdinInput sets the stdin input for the mock
func (b *MockDependenciesBuilder) WithStdinInput(inputs ...string) *MockDependenciesBuilder {
	b.deps.StdinReader = input.NewStringReader(inputs...)
	return b
}

// Build returns the configured Dependencies
func (b *MockDependenciesBuilder) Build() *Dependencies {
	return b.deps
}

// TestHelper provides utilities for CLI tests
type TestHelper struct {
	T interface {
		Helper()
		Cleanup(func())
	}
	OldDeps    *Dependencies
	MockConfig *MockConfigLoader
	Bundlers   *MockBundlerFactory
	Servers    *MockServerFactory
}

// NewTestHelper installs mock dependencies around cfg and resets the
// command flags; both are restored when the test ends.
func NewTestHelper(t interface {
	Helper()
	Cleanup(func())
}, cfg *config.Config) *TestHelper {
	t.Helper()

	helper := &TestHelper{
		T:          t,
		OldDeps:    deps,
		MockConfig: &MockConfigLoader{Cfg: cfg},
		Bundlers:   &MockBundlerFactory{},
		Servers:    &MockServerFactory{},
	}

	deps = NewMockDeps().
		WithConfigLoader(helper.MockConfig).
		WithBundlerFactory(helper.Bundlers).
		WithServerFactory(helper.Servers).
		Build()

	oldFlags := saveFlags()
	t.Cleanup(func() {
		deps = helper.OldDeps
		oldFlags.restore()
	})

	return helper
}

// SetStdinInput sets the stdin input
func (h *TestHelper) SetStdinInput(inputs ...string) {
	deps.StdinReader = input.NewStringReader(inputs...)
}

// flagState is a snapshot of the package-level flag variables.
type flagState struct {
	jsonOutput      bool
	verbose         bool
	configPath      string
	buildOutDir     string
	buildSourcemap  string
	buildMode       string
	buildNoMinify   bool
	devPort         int
	devHost         string
	devStrictPort   bool
	initName        string
	initProxyPrefix string
	initProxyTarget string
	initAlias       string
	initSourceDir   string
	initRedirectAPI bool
	initPort        int
	initForce       bool
}

func saveFlags() flagState {
	return flagState{
		jsonOutput: jsonOutput, verbose: verbose, configPath: configPath,
		buildOutDir: buildOutDir, buildSourcemap: buildSourcemap, buildMode: buildMode, buildNoMinify: buildNoMinify,
		devPort: devPort, devHost: devHost, devStrictPort: devStrictPort,
		initName: initName, initProxyPrefix: initProxyPrefix, initProxyTarget: initProxyTarget,
		initAlias: initAlias, initSourceDir: initSourceDir, initRedirectAPI: initRedirectAPI,
		initPort: initPort, initForce: initForce,
	}
}

func (s flagState) restore() {
	jsonOutput, verbose, configPath = s.jsonOutput, s.verbose, s.configPath
	buildOutDir, buildSourcemap, buildMode, buildNoMinify = s.buildOutDir, s.buildSourcemap, s.buildMode, s.buildNoMinify
	devPort, devHost, devStrictPort = s.devPort, s.devHost, s.devStrictPort
	initName, initProxyPrefix, initProxyTarget = s.initName, s.initProxyPrefix, s.initProxyTarget
	initAlias, initSourceDir, initRedirectAPI = s.initAlias, s.initSourceDir, s.initRedirectAPI
	initPort, initForce = s.initPort, s.initForce
}
