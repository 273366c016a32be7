package cli

import (
	"context"
	"net"
	"os"
	"time"

	"github.com/ksyq12/spabuild/internal/bundler"
	"github.com/ksyq12/spabuild/internal/config"
	"github.com/ksyq12/spabuild/internal/devserver"
	"github.com/ksyq12/spabuild/internal/executor"
	"github.com/ksyq12/spabuild/internal/input"
	"github.com/ksyq12/spabuild/internal/plugin"
	"github.com/ksyq12/spabuild/internal/project"
)

// Dependencies aggregates all CLI external dependencies for testability
type Dependencies struct {
	ConfigLoader   ConfigLoader
	BundlerFactory BundlerFactory
	ServerFactory  ServerFactory
	Executor       executor.CommandExecutor
	Dialer         Dialer
	StdinReader    StdinReader
}

// ConfigLoader locates and loads the project config
type ConfigLoader interface {
	// Load reads path, which may be a config file, a project directory or
	// empty for the nearest project above the working directory.
	Load(path string, opts ...config.Option) (*config.Config, error)
}

// Builder runs production builds
type Builder interface {
	Build(ctx context.Context) (*bundler.Result, error)
}

// BundlerFactory creates builders
type BundlerFactory interface {
	Create(cfg *config.Config, opts bundler.Options) (Builder, error)
}

// DevServer is a running development server
type DevServer interface {
	Listen() error
	URL() string
	Start(ctx context.Context) error
}

// ServerFactory creates dev servers
type ServerFactory interface {
	Create(cfg *config.Config, opts devserver.Options) (DevServer, error)
}

// Dialer opens network connections for reachability checks
type Dialer interface {
	DialTimeout(network, address string, timeout time.Duration) (net.Conn, error)
}

// StdinReader reads answers to prompts
type StdinReader = input.Reader

// Package-level dependencies (can be overridden for testing)
var deps = &Dependencies{
	ConfigLoader:   &realConfigLoader{},
	BundlerFactory: &realBundlerFactory{},
	ServerFactory:  &realServerFactory{},
	Executor:       executor.NewSystemExecutor(),
	Dialer:         &realDialer{},
	StdinReader:    input.NewStdinReader(),
}

// SetDeps replaces the package dependencies (for testing)
func SetDeps(d *Dependencies) {
	deps = d
}

// GetDeps returns the current dependencies (for testing)
func GetDeps() *Dependencies {
	return deps
}

// Real implementations that delegate to existing functions

type realConfigLoader struct{}

func (r *realConfigLoader) Load(path string, opts ...config.Option) (*config.Config, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root, err := project.FindRoot(wd)
		if err != nil {
			return nil, err
		}
		return config.LoadDir(root, opts...)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return config.LoadDir(path, opts...)
	}
	return config.Load(path, opts...)
}

type realBundlerFactory struct{}

func (r *realBundlerFactory) Create(cfg *config.Config, opts bundler.Options) (Builder, error) {
	exts, err := plugin.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return bundler.New(cfg, exts, opts)
}

type realServerFactory struct{}

// Create builds the dev variant of cfg and a server around it. Hooks do
// not run on dev rebuilds.
func (r *realServerFactory) Create(cfg *config.Config, opts devserver.Options) (DevServer, error) {
	dev := cfg.ForDev()
	exts, err := plugin.FromConfig(dev)
	if err != nil {
		return nil, err
	}
	b, err := bundler.New(dev, exts, bundler.Options{})
	if err != nil {
		return nil, err
	}
	return devserver.New(dev, b, opts)
}

type realDialer struct{}

func (r *realDialer) DialTimeout(network, address string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout(network, address, timeout)
}
