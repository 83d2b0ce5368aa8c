package capability

import (
	"context"

	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/ports"
)

// Files is host file I/O. It has no networked equivalent.
type Files interface {
	ReadTextFile(ctx context.Context, path string) (string, error)
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteTextFile(ctx context.Context, path, contents string) error
	WriteFile(ctx context.Context, path string, data []byte) error
	MkdirAll(ctx context.Context, path string) error
}

type nativeFiles struct {
	fs ports.FileSystem
}

func (f *nativeFiles) ReadTextFile(ctx context.Context, path string) (string, error) {
	b, err := f.ReadFile(ctx, path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (f *nativeFiles) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if f.fs == nil {
		return nil, domain.NewUnsupportedError(CapReadFile)
	}
	return f.fs.ReadFile(ctx, path)
}

func (f *nativeFiles) WriteTextFile(ctx context.Context, path, contents string) error {
	return f.WriteFile(ctx, path, []byte(contents))
}

func (f *nativeFiles) WriteFile(ctx context.Context, path string, data []byte) error {
	if f.fs == nil {
		return domain.NewUnsupportedError(CapWrite)
	}
	return f.fs.WriteFile(ctx, path, data)
}

func (f *nativeFiles) MkdirAll(ctx context.Context, path string) error {
	if f.fs == nil {
		return domain.NewUnsupportedError(CapMkdir)
	}
	return f.fs.MkdirAll(ctx, path)
}

type fallbackFiles struct{}

func (fallbackFiles) ReadTextFile(context.Context, string) (string, error) {
	return "", domain.NewUnsupportedError(CapReadFile)
}

func (fallbackFiles) ReadFile(context.Context, string) ([]byte, error) {
	return nil, domain.NewUnsupportedError(CapReadFile)
}

func (fallbackFiles) WriteTextFile(context.Context, string, string) error {
	return domain.NewUnsupportedError(CapWrite)
}

func (fallbackFiles) WriteFile(context.Context, string, []byte) error {
	return domain.NewUnsupportedError(CapWrite)
}

func (fallbackFiles) MkdirAll(context.Context, string) error {
	return domain.NewUnsupportedError(CapMkdir)
}
