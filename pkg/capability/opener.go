package capability

import (
	"context"

	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/ports"
)

// Fallback window parameters: a new tab that cannot reach back into this page.
const (
	newTabTarget   = "_blank"
	newTabFeatures = "noopener,noreferrer"
)

// Opener hands a URL or local path to an external application.
type Opener interface {
	OpenURL(ctx context.Context, url string) error
	OpenPath(ctx context.Context, path string) error
}

type nativeOpener struct {
	shell ports.ShellOpener
}

func (o *nativeOpener) OpenURL(ctx context.Context, url string) error {
	return o.open(ctx, url)
}

func (o *nativeOpener) OpenPath(ctx context.Context, path string) error {
	return o.open(ctx, path)
}

func (o *nativeOpener) open(ctx context.Context, target string) error {
	if o.shell == nil {
		return domain.NewUnsupportedError(CapOpen)
	}
	return o.shell.Open(ctx, target)
}

type fallbackOpener struct {
	window ports.Window
}

func (o *fallbackOpener) OpenURL(_ context.Context, url string) error {
	return o.open(url)
}

func (o *fallbackOpener) OpenPath(_ context.Context, path string) error {
	return o.open(path)
}

func (o *fallbackOpener) open(target string) error {
	if o.window == nil {
		return domain.NewUnsupportedError(CapOpen)
	}
	return o.window.Open(target, newTabTarget, newTabFeatures)
}
