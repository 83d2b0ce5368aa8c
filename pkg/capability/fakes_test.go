package capability_test

import (
	"context"
	"net/http"
	"sync"

	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/ports"
)

type opened struct {
	url, target, features string
}

type fakeWindow struct {
	mu      sync.Mutex
	opens   []opened
	reloads int
	inputs  []ports.FileInput
	prompt  *fakePrompt
}

func (w *fakeWindow) Open(url, target, features string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.opens = append(w.opens, opened{url, target, features})
	return nil
}

func (w *fakeWindow) Reload() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reloads++
	return nil
}

func (w *fakeWindow) PromptFiles(input ports.FileInput) (ports.FilePrompt, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.inputs = append(w.inputs, input)
	if w.prompt == nil {
		w.prompt = newFakePrompt()
	}
	return w.prompt, nil
}

type fakePrompt struct {
	selected chan []string
	focused  chan struct{}
	closed   chan struct{}
	once     sync.Once
}

func newFakePrompt() *fakePrompt {
	return &fakePrompt{
		selected: make(chan []string, 1),
		focused:  make(chan struct{}, 1),
		closed:   make(chan struct{}),
	}
}

func (p *fakePrompt) Selected() <-chan []string { return p.selected }
func (p *fakePrompt) Focused() <-chan struct{}  { return p.focused }
func (p *fakePrompt) Close()                    { p.once.Do(func() { close(p.closed) }) }

type fakePaths struct{}

func (fakePaths) Join(segments ...string) string {
	out := ""
	for i, s := range segments {
		if i > 0 {
			out += `\`
		}
		out += s
	}
	return out
}

func (fakePaths) AppDataDir() (string, error) { return "/home/u/.config/app", nil }

type fakeFS struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  []string
}

func (f *fakeFS) ReadFile(_ context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.files[path], nil
}

func (f *fakeFS) WriteFile(_ context.Context, path string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.files == nil {
		f.files = map[string][]byte{}
	}
	f.files[path] = data
	return nil
}

func (f *fakeFS) MkdirAll(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirs = append(f.dirs, path)
	return nil
}

type fakeShell struct{ targets []string }

func (s *fakeShell) Open(_ context.Context, target string) error {
	s.targets = append(s.targets, target)
	return nil
}

type fakeDialogHost struct{ lastOpen domain.DialogOptions }

func (d *fakeDialogHost) OpenDialog(_ context.Context, opts domain.DialogOptions) ([]string, error) {
	d.lastOpen = opts
	return []string{"/abs/report.csv"}, nil
}

func (d *fakeDialogHost) SaveDialog(context.Context, domain.SaveDialogOptions) (string, error) {
	return "/abs/out.csv", nil
}

type fakeUpdates struct{ update *domain.Update }

func (u fakeUpdates) Check(context.Context) (*domain.Update, error) { return u.update, nil }

type fakeRelauncher struct{ calls int }

func (r *fakeRelauncher) Relaunch(context.Context) error {
	r.calls++
	return nil
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }
