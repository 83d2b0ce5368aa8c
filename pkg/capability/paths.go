package capability

import (
	"context"
	"strings"

	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/ports"
)

// Paths joins path segments and locates the application data directory.
type Paths interface {
	Join(ctx context.Context, segments ...string) (string, error)
	AppDataDir(ctx context.Context) (string, error)
}

type nativePaths struct {
	host ports.HostPaths
}

func (p *nativePaths) Join(_ context.Context, segments ...string) (string, error) {
	if p.host == nil {
		return "", domain.NewUnsupportedError(CapPaths)
	}
	return p.host.Join(segments...), nil
}

func (p *nativePaths) AppDataDir(_ context.Context) (string, error) {
	if p.host == nil {
		return "", domain.NewUnsupportedError(CapPaths)
	}
	return p.host.AppDataDir()
}

type fallbackPaths struct {
	placeholder string
}

func (p *fallbackPaths) Join(_ context.Context, segments ...string) (string, error) {
	return JoinSlash(segments...), nil
}

func (p *fallbackPaths) AppDataDir(context.Context) (string, error) {
	return p.placeholder, nil
}

// JoinSlash joins segments with "/". The first segment keeps its leading slash and loses
// trailing ones; later segments lose both. Empty results are dropped.
//
//	JoinSlash()                   == ""
//	JoinSlash("a/", "/b/", "c/")  == "a/b/c"
//	JoinSlash("/a", "")           == "/a"
func JoinSlash(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for i, s := range segments {
		if i == 0 {
			s = strings.TrimRight(s, "/")
		} else {
			s = strings.Trim(s, "/")
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}
