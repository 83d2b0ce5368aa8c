package native

import (
	"context"
	"errors"
	"strings"

	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/ports"
)

var _ ports.DialogHost = (*Dialogs)(nil)

// Dialogs shows file pickers through the "dialog" launcher, which speaks zenity's
// command line. Exit status 1 means the user dismissed the dialog.
type Dialogs struct {
	runner *Runner
}

// NewDialogs creates dialogs backed by runner.
func NewDialogs(runner *Runner) *Dialogs {
	return &Dialogs{runner: runner}
}

const pathSeparator = "\n"

func (d *Dialogs) OpenDialog(ctx context.Context, opts domain.DialogOptions) ([]string, error) {
	args := []string{"--file-selection"}
	if opts.Multiple {
		args = append(args, "--multiple", "--separator="+pathSeparator)
	}
	if opts.Directory {
		args = append(args, "--directory")
	}
	args = append(args, commonArgs(opts.Title, opts.DefaultPath, opts.Filters)...)

	out, err := d.runner.Run(ctx, LauncherDialog, args...)
	if err != nil {
		if cancelled(err) {
			return nil, nil
		}
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, pathSeparator), nil
}

func (d *Dialogs) SaveDialog(ctx context.Context, opts domain.SaveDialogOptions) (string, error) {
	args := append([]string{"--file-selection", "--save", "--confirm-overwrite"},
		commonArgs(opts.Title, opts.DefaultPath, opts.Filters)...)

	out, err := d.runner.Run(ctx, LauncherDialog, args...)
	if err != nil {
		if cancelled(err) {
			return "", nil
		}
		return "", err
	}
	return out, nil
}

// commonArgs renders the title, default path and filter flags shared by both dialogs.
func commonArgs(title, defaultPath string, filters []domain.DialogFilter) []string {
	var args []string
	if title != "" {
		args = append(args, "--title="+title)
	}
	if defaultPath != "" {
		args = append(args, "--filename="+defaultPath)
	}
	for _, f := range filters {
		patterns := make([]string, 0, len(f.Extensions))
		for _, ext := range f.Extensions {
			patterns = append(patterns, "*."+strings.TrimPrefix(ext, "."))
		}
		if len(patterns) == 0 {
			continue
		}
		name := f.Name
		if name == "" {
			name = strings.Join(patterns, " ")
		}
		args = append(args, "--file-filter="+name+" | "+strings.Join(patterns, " "))
	}
	return args
}

func cancelled(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Code == 1
}
