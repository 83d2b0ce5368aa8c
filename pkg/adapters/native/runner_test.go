package native

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Run(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	runner := NewRunner()
	runner.Register("echo_args", "sh", "-c", `echo "$@"`, "sh")

	t.Run("Appends extra args", func(t *testing.T) {
		out, err := runner.Run(context.Background(), "echo_args", "hello", "world")
		require.NoError(t, err)
		assert.Equal(t, "hello world", out)
	})

	t.Run("Fails for unregistered launcher", func(t *testing.T) {
		_, err := runner.Run(context.Background(), "hacker_script")
		assert.ErrorIs(t, err, ErrLauncherNotRegistered)
	})

	t.Run("Reports exit status", func(t *testing.T) {
		runner.Register("fail", "sh", "-c", "echo oops >&2; exit 3")
		_, err := runner.Run(context.Background(), "fail")
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 3, exitErr.Code)
		assert.Equal(t, "oops", exitErr.Stderr)
	})
}

func TestDefaultLaunchers(t *testing.T) {
	assert.Equal(t, "xdg-open", DefaultLaunchers("linux")[LauncherOpen].Command)
	assert.Equal(t, "open", DefaultLaunchers("darwin")[LauncherOpen].Command)
	win := DefaultLaunchers("windows")[LauncherOpen]
	assert.Equal(t, "rundll32", win.Command)
	assert.Equal(t, []string{"url.dll,FileProtocolHandler"}, win.Args)
	assert.Equal(t, "zenity", DefaultLaunchers("linux")[LauncherDialog].Command)
}

func TestShell_OpenPassesTarget(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	dir := t.TempDir()
	runner := NewRunner(WithBaseDir(dir))
	// Record the target instead of launching a browser.
	runner.Register(LauncherOpen, "sh", "-c", `printf %s "$1" > opened.txt`, "sh")

	require.NoError(t, NewShell(runner).Open(context.Background(), "https://example.com/?q=a b"))

	data, err := NewFS().ReadFile(context.Background(), dir+"/opened.txt")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/?q=a b", string(data))

	assert.Error(t, NewShell(runner).Open(context.Background(), ""))
}

func TestDialogs(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	ctx := context.Background()

	t.Run("Splits multiple selection", func(t *testing.T) {
		runner := NewRunner()
		runner.Register(LauncherDialog, "sh", "-c", `printf '/a/1.csv\n/a/2.csv'`)
		names, err := NewDialogs(runner).OpenDialog(ctx, domainOpts(true))
		require.NoError(t, err)
		assert.Equal(t, []string{"/a/1.csv", "/a/2.csv"}, names)
	})

	t.Run("Exit 1 is cancel", func(t *testing.T) {
		runner := NewRunner()
		runner.Register(LauncherDialog, "sh", "-c", "exit 1")
		names, err := NewDialogs(runner).OpenDialog(ctx, domainOpts(false))
		require.NoError(t, err)
		assert.Nil(t, names)

		path, err := NewDialogs(runner).SaveDialog(ctx, saveOpts())
		require.NoError(t, err)
		assert.Equal(t, "", path)
	})

	t.Run("Other failures surface", func(t *testing.T) {
		runner := NewRunner()
		runner.Register(LauncherDialog, "sh", "-c", "exit 5")
		_, err := NewDialogs(runner).OpenDialog(ctx, domainOpts(false))
		assert.Error(t, err)
	})
}
