package main

import (
	"github.com/ksyq12/spabuild/internal/cli"
	_ "github.com/ksyq12/spabuild/internal/plugin" // Register extensions
)

// version is set by goreleaser via ldflags
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.Execute()
}
