package native

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/hostbridge/pkg/ports"
)

var _ ports.FileSystem = (*FS)(nil)

// FS is local file I/O. Paths are used as given.
type FS struct {
	filePerm os.FileMode
	dirPerm  os.FileMode
}

// NewFS creates an FS writing files 0644 and directories 0755.
func NewFS() *FS {
	return &FS{filePerm: 0o644, dirPerm: 0o755}
}

func (f *FS) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func (f *FS) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, f.filePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (f *FS) MkdirAll(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(path, f.dirPerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}
