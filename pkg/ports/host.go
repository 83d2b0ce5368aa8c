package ports

import (
	"context"
	"net/http"

	"github.com/aretw0/hostbridge/pkg/domain"
)

// HostPaths resolves paths the way the native host does.
type HostPaths interface {
	Join(segments ...string) string
	AppDataDir() (string, error)
}

// HostFetcher performs outbound requests through the host, outside page-level restrictions.
// *http.Client satisfies it.
type HostFetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// ShellOpener opens a URL or a local path with the user's default application.
type ShellOpener interface {
	Open(ctx context.Context, target string) error
}

// FileSystem is the host file I/O.
type FileSystem interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte) error
	MkdirAll(ctx context.Context, path string) error
}

// DialogHost shows native file dialogs.
// A dismissed open dialog returns (nil, nil); a dismissed save dialog returns ("", nil).
type DialogHost interface {
	OpenDialog(ctx context.Context, opts domain.DialogOptions) ([]string, error)
	SaveDialog(ctx context.Context, opts domain.SaveDialogOptions) (string, error)
}

// UpdateSource queries for a newer release. It returns nil when up to date.
type UpdateSource interface {
	Check(ctx context.Context) (*domain.Update, error)
}

// Relauncher restarts the application process.
type Relauncher interface {
	Relaunch(ctx context.Context) error
}

// Host groups the native collaborators. Any field may be nil when the host lacks
// that capability; facades then report it as unsupported.
type Host struct {
	Paths   HostPaths
	Fetcher HostFetcher
	Shell   ShellOpener
	FS      FileSystem
	Dialogs DialogHost
	Updates UpdateSource
	Process Relauncher
}
