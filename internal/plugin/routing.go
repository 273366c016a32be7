package plugin

import (
	"fmt"

	"github.com/ksyq12/spabuild/internal/config"
	"github.com/ksyq12/spabuild/internal/hook"
)

// CopyRoutingRules copies the static host's routing-rules file into the
// output directory after each build.
type CopyRoutingRules struct {
	*hook.CopyFile
}

func newCopyRoutingRules(cfg *config.Config, spec config.ExtensionSpec) (Extension, error) {
	source := spec.Option("source", cfg.RoutingRules)
	if source == "" {
		return nil, fmt.Errorf("no routing rules file configured")
	}
	return &CopyRoutingRules{
		CopyFile: hook.NewCopyFile(config.ExtensionCopyRoutingRules, source),
	}, nil
}
