package capability

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/ports"
)

// Dialogs shows open and save file pickers. Dismissal is not an error: Open returns
// (nil, nil) and Save returns ("", nil).
type Dialogs interface {
	Open(ctx context.Context, opts domain.DialogOptions) ([]string, error)
	Save(ctx context.Context, opts domain.SaveDialogOptions) (string, error)
}

type nativeDialogs struct {
	host ports.DialogHost
}

func (d *nativeDialogs) Open(ctx context.Context, opts domain.DialogOptions) ([]string, error) {
	if d.host == nil {
		return nil, domain.NewUnsupportedError(CapDialog)
	}
	return d.host.OpenDialog(ctx, opts)
}

func (d *nativeDialogs) Save(ctx context.Context, opts domain.SaveDialogOptions) (string, error) {
	if d.host == nil {
		return "", domain.NewUnsupportedError(CapDialog)
	}
	return d.host.SaveDialog(ctx, opts)
}

type fallbackDialogs struct {
	window ports.Window
	settle time.Duration
	logger *slog.Logger
}

// Open shows a hidden file input and returns the chosen file names (never full paths).
//
// The page gets no cancel event, so dismissal is inferred: once the window regains focus
// a settle timer starts, and if no selection has arrived when it fires the dialog is
// treated as cancelled. A selection that arrives after focus but before the timer still
// wins. This is a heuristic and can misfire under slow event delivery.
func (d *fallbackDialogs) Open(ctx context.Context, opts domain.DialogOptions) ([]string, error) {
	if d.window == nil {
		return nil, domain.NewUnsupportedError(CapDialog)
	}

	prompt, err := d.window.PromptFiles(ports.FileInput{
		Accept:    AcceptPattern(opts.Filters),
		Multiple:  opts.Multiple,
		Directory: opts.Directory,
	})
	if err != nil {
		return nil, err
	}
	defer prompt.Close()

	var (
		selected = prompt.Selected()
		focused  = prompt.Focused()
		settled  <-chan time.Time
	)
	for {
		select {
		case names, ok := <-selected:
			if !ok || len(names) == 0 {
				return nil, nil
			}
			return names, nil

		case <-focused:
			focused = nil
			timer := time.NewTimer(d.settle)
			defer timer.Stop()
			settled = timer.C

		case <-settled:
			d.logger.Debug("File dialog treated as cancelled", "settle", d.settle)
			return nil, nil

		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Save has no page equivalent; callers should offer a download instead.
func (d *fallbackDialogs) Save(context.Context, domain.SaveDialogOptions) (string, error) {
	return "", nil
}

// AcceptPattern translates dialog filters into a file input accept attribute:
// every extension dot-prefixed, comma separated. Wildcards are skipped.
func AcceptPattern(filters []domain.DialogFilter) string {
	var exts []string
	for _, f := range filters {
		for _, ext := range f.Extensions {
			ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
			if ext == "" || ext == "*" {
				continue
			}
			exts = append(exts, "."+ext)
		}
	}
	return strings.Join(exts, ",")
}
