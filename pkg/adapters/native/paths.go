package native

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/hostbridge/pkg/ports"
)

var _ ports.HostPaths = (*Paths)(nil)

// Paths resolves OS paths for an application.
type Paths struct {
	appName   string
	configDir func() (string, error)
}

// NewPaths creates Paths for appName, which names the directory under the user config dir.
func NewPaths(appName string) *Paths {
	return &Paths{appName: appName, configDir: os.UserConfigDir}
}

func (p *Paths) Join(segments ...string) string {
	return filepath.Join(segments...)
}

// AppDataDir returns <user config dir>/<app name>. The directory is not created.
func (p *Paths) AppDataDir() (string, error) {
	base, err := p.configDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(base, p.appName), nil
}
