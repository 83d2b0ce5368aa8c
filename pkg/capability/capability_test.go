package capability_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/hostbridge/internal/logging"
	"github.com/aretw0/hostbridge/pkg/capability"
	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/env"
	"github.com/aretw0/hostbridge/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func networkedSet(w ports.Window, opts ...capability.Option) *capability.Set {
	opts = append([]capability.Option{capability.WithLogger(logging.NewNop())}, opts...)
	return capability.New(env.Networked(), ports.Host{}, w, opts...)
}

func TestJoinSlash(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"a/", "/b/", "c/"}, "a/b/c"},
		{[]string{"/a", ""}, "/a"},
		{[]string{"", "a", "", "b"}, "a/b"},
		{[]string{"/root//", "//x//"}, "/root/x"},
		{[]string{"single"}, "single"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, capability.JoinSlash(tt.in...), "JoinSlash(%q)", tt.in)
	}
}

func TestFallbackPaths(t *testing.T) {
	ctx := context.Background()
	set := networkedSet(nil)

	joined, err := set.Paths.Join(ctx, "a/", "/b/", "c/")
	require.NoError(t, err)
	assert.Equal(t, "a/b/c", joined)

	empty, err := set.Paths.Join(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", empty)

	dir, err := set.Paths.AppDataDir(ctx)
	require.NoError(t, err)
	assert.Equal(t, capability.DefaultAppDataPlaceholder, dir)

	custom := networkedSet(nil, capability.WithAppDataPlaceholder("/data"))
	dir, err = custom.Paths.AppDataDir(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/data", dir)
}

func TestNativePaths_DelegatesToHost(t *testing.T) {
	set := capability.New(env.Embedded(), ports.Host{Paths: fakePaths{}}, nil)

	joined, err := set.Paths.Join(context.Background(), "C:", "Users")
	require.NoError(t, err)
	assert.Equal(t, `C:\Users`, joined)

	dir, err := set.Paths.AppDataDir(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/home/u/.config/app", dir)
}

func TestFallbackFiles_AreUnsupported(t *testing.T) {
	ctx := context.Background()
	files := networkedSet(&fakeWindow{}).Files

	_, err := files.ReadTextFile(ctx, "a.txt")
	assert.True(t, domain.IsUnsupported(err))
	_, err = files.ReadFile(ctx, "a.bin")
	assert.ErrorIs(t, err, domain.ErrUnsupportedCapability)
	assert.ErrorIs(t, files.WriteTextFile(ctx, "a.txt", "x"), domain.ErrUnsupportedCapability)
	assert.ErrorIs(t, files.WriteFile(ctx, "a.bin", []byte{1}), domain.ErrUnsupportedCapability)

	err = files.MkdirAll(ctx, "dir")
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.KindUnsupported, de.Kind)
	assert.Equal(t, capability.CapMkdir, de.Capability)
	assert.NotErrorIs(t, err, domain.ErrCommand)
}

func TestNativeFiles_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fs := &fakeFS{}
	files := capability.New(env.Embedded(), ports.Host{FS: fs}, nil).Files

	require.NoError(t, files.MkdirAll(ctx, "/tmp/app"))
	require.NoError(t, files.WriteTextFile(ctx, "/tmp/app/a.txt", "hello"))
	got, err := files.ReadTextFile(ctx, "/tmp/app/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.Equal(t, []string{"/tmp/app"}, fs.dirs)
}

func TestNative_MissingCollaboratorIsUnsupported(t *testing.T) {
	ctx := context.Background()
	set := capability.New(env.Embedded(), ports.Host{}, nil)

	_, err := set.Paths.Join(ctx, "a")
	assert.True(t, domain.IsUnsupported(err))
	_, err = set.Files.ReadFile(ctx, "x")
	assert.True(t, domain.IsUnsupported(err))
	assert.True(t, domain.IsUnsupported(set.Opener.OpenURL(ctx, "https://example.com")))
	_, err = set.Dialogs.Open(ctx, domain.DialogOptions{})
	assert.True(t, domain.IsUnsupported(err))
	_, err = set.Updater.Check(ctx)
	assert.True(t, domain.IsUnsupported(err))
	assert.True(t, domain.IsUnsupported(set.Updater.Relaunch(ctx)))

	req := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	_, err = set.Fetch.Fetch(req)
	assert.True(t, domain.IsUnsupported(err))
}

func TestFallbackOpener_NewTabWithoutOpener(t *testing.T) {
	w := &fakeWindow{}
	set := networkedSet(w)

	require.NoError(t, set.Opener.OpenURL(context.Background(), "https://example.com"))
	require.NoError(t, set.Opener.OpenPath(context.Background(), "/files/report.pdf"))

	require.Len(t, w.opens, 2)
	assert.Equal(t, "https://example.com", w.opens[0].url)
	assert.Equal(t, "_blank", w.opens[0].target)
	assert.Equal(t, "noopener,noreferrer", w.opens[0].features)
	assert.Equal(t, "/files/report.pdf", w.opens[1].url)
}

func TestNativeOpener_UsesShell(t *testing.T) {
	shell := &fakeShell{}
	set := capability.New(env.Embedded(), ports.Host{Shell: shell}, nil)

	require.NoError(t, set.Opener.OpenPath(context.Background(), "/tmp/report.pdf"))
	assert.Equal(t, []string{"/tmp/report.pdf"}, shell.targets)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "page")
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := networkedSet(nil, capability.WithHTTPClient(srv.Client())).Fetch.Fetch(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "page", string(body))

	var seen string
	host := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		seen = r.URL.String()
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("host"))}, nil
	})
	resp, err = capability.New(env.Embedded(), ports.Host{Fetcher: host}, nil).Fetch.Fetch(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, srv.URL, seen)
}

func TestUpdater(t *testing.T) {
	ctx := context.Background()

	w := &fakeWindow{}
	set := networkedSet(w)
	u, err := set.Updater.Check(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)
	require.NoError(t, set.Updater.Relaunch(ctx))
	assert.Equal(t, 1, w.reloads)

	proc := &fakeRelauncher{}
	want := &domain.Update{Version: "1.2.0", CurrentVersion: "1.1.0"}
	native := capability.New(env.Embedded(), ports.Host{Updates: fakeUpdates{want}, Process: proc}, nil)
	u, err = native.Updater.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, u)
	require.NoError(t, native.Updater.Relaunch(ctx))
	assert.Equal(t, 1, proc.calls)
}
