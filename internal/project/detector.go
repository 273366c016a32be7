// Package project locates a project on disk and reports what it contains.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ksyq12/spabuild/internal/config"
	"github.com/ksyq12/spabuild/internal/errors"
)

// PackageJSON is the file marking a JavaScript project root.
const PackageJSON = "package.json"

// FindRoot walks up from start to the nearest directory containing
// spabuild.yaml. Failing that it returns the nearest directory with a
// package.json, and failing both it returns start itself.
func FindRoot(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "failed to resolve directory", err)
	}

	packageRoot := ""
	for dir := abs; ; dir = filepath.Dir(dir) {
		if pathExists(filepath.Join(dir, config.FileName)) {
			return dir, nil
		}
		if packageRoot == "" && pathExists(filepath.Join(dir, PackageJSON)) {
			packageRoot = dir
		}
		if filepath.Dir(dir) == dir {
			break
		}
	}
	if packageRoot != "" {
		return packageRoot, nil
	}
	return abs, nil
}

// Info describes what a project directory contains.
type Info struct {
	Root           string            `json:"root"`
	ConfigFile     string            `json:"config_file,omitempty"`
	Name           string            `json:"name,omitempty"`
	HasPackage     bool              `json:"has_package_json"`
	HasModules     bool              `json:"has_node_modules"`
	Dependencies   map[string]string `json:"dependencies,omitempty"`
	ReactVersion   string            `json:"react_version,omitempty"`
	InstalledReact bool              `json:"installed_react"`
}

type packageJSON struct {
	Name            string            `json:"name"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Detect inspects root. A malformed package.json is an error; a missing
// one is not.
func Detect(root string) (*Info, error) {
	info := &Info{Root: root}
	if p := filepath.Join(root, config.FileName); pathExists(p) {
		info.ConfigFile = p
	}
	info.HasModules = pathExists(filepath.Join(root, "node_modules"))
	info.InstalledReact = pathExists(filepath.Join(root, "node_modules", "react", PackageJSON))

	data, err := os.ReadFile(filepath.Join(root, PackageJSON))
	if os.IsNotExist(err) {
		return info, nil
	}
	if err != nil {
		return nil, errors.WrapSubject(errors.ErrCodeInternal, PackageJSON, err)
	}
	info.HasPackage = true

	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, errors.WrapSubject(errors.ErrCodeConfig, PackageJSON, err)
	}
	info.Name = pkg.Name
	info.Dependencies = make(map[string]string, len(pkg.Dependencies)+len(pkg.DevDependencies))
	for k, v := range pkg.DevDependencies {
		info.Dependencies[k] = v
	}
	for k, v := range pkg.Dependencies {
		info.Dependencies[k] = v
	}
	info.ReactVersion = info.Dependencies["react"]
	return info, nil
}

// pathExists checks if a path exists on the filesystem.
func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Platform returns a string describing the current platform.
func Platform() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}
