package capability

import (
	"context"

	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/ports"
)

// Updater checks for a newer release and restarts the application.
type Updater interface {
	// Check returns nil when no update is available.
	Check(ctx context.Context) (*domain.Update, error)
	Relaunch(ctx context.Context) error
}

type nativeUpdater struct {
	source  ports.UpdateSource
	process ports.Relauncher
}

func (u *nativeUpdater) Check(ctx context.Context) (*domain.Update, error) {
	if u.source == nil {
		return nil, domain.NewUnsupportedError(CapUpdate)
	}
	return u.source.Check(ctx)
}

func (u *nativeUpdater) Relaunch(ctx context.Context) error {
	if u.process == nil {
		return domain.NewUnsupportedError(CapRelaunch)
	}
	return u.process.Relaunch(ctx)
}

// fallbackUpdater never finds updates: the page is always served at the current version.
type fallbackUpdater struct {
	window ports.Window
}

func (u *fallbackUpdater) Check(context.Context) (*domain.Update, error) {
	return nil, nil
}

func (u *fallbackUpdater) Relaunch(context.Context) error {
	if u.window == nil {
		return domain.NewUnsupportedError(CapRelaunch)
	}
	return u.window.Reload()
}
