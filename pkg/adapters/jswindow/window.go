//go:build js && wasm

package jswindow

import (
	"errors"
	"sync"
	"syscall/js"

	"github.com/aretw0/hostbridge/pkg/ports"
)

var _ ports.Window = (*Window)(nil)

// Window wraps the global window object.
type Window struct {
	win js.Value
	doc js.Value
}

// New returns a Window bound to the page's global window.
func New() *Window {
	win := js.Global().Get("window")
	return &Window{win: win, doc: win.Get("document")}
}

// Open never reports a blocked popup: with noopener, window.open returns null either way.
func (w *Window) Open(url, target, features string) error {
	w.win.Call("open", url, target, features)
	return nil
}

func (w *Window) Reload() error {
	w.win.Get("location").Call("reload")
	return nil
}

// PromptFiles appends a hidden <input type=file>, clicks it and listens for the change
// event on the input and the focus event on the window.
func (w *Window) PromptFiles(in ports.FileInput) (ports.FilePrompt, error) {
	body := w.doc.Get("body")
	if body.IsNull() || body.IsUndefined() {
		return nil, errors.New("document has no body")
	}

	input := w.doc.Call("createElement", "input")
	input.Set("type", "file")
	input.Get("style").Set("display", "none")
	if in.Accept != "" {
		input.Set("accept", in.Accept)
	}
	input.Set("multiple", in.Multiple)
	if in.Directory {
		input.Set("webkitdirectory", true)
	}

	p := &prompt{
		win:      w.win,
		input:    input,
		selected: make(chan []string, 1),
		focused:  make(chan struct{}, 1),
	}

	p.onChange = js.FuncOf(func(js.Value, []js.Value) any {
		files := input.Get("files")
		n := files.Get("length").Int()
		names := make([]string, 0, n)
		for i := range n {
			names = append(names, files.Index(i).Get("name").String())
		}
		select {
		case p.selected <- names:
		default:
		}
		return nil
	})
	p.onFocus = js.FuncOf(func(js.Value, []js.Value) any {
		select {
		case p.focused <- struct{}{}:
		default:
		}
		return nil
	})

	input.Call("addEventListener", "change", p.onChange)
	w.win.Call("addEventListener", "focus", p.onFocus, map[string]any{"once": true})
	body.Call("appendChild", input)
	input.Call("click")
	return p, nil
}

type prompt struct {
	win      js.Value
	input    js.Value
	selected chan []string
	focused  chan struct{}
	onChange js.Func
	onFocus  js.Func
	once     sync.Once
}

func (p *prompt) Selected() <-chan []string { return p.selected }
func (p *prompt) Focused() <-chan struct{}  { return p.focused }

func (p *prompt) Close() {
	p.once.Do(func() {
		p.input.Call("removeEventListener", "change", p.onChange)
		p.win.Call("removeEventListener", "focus", p.onFocus)
		p.input.Call("remove")
		p.onChange.Release()
		p.onFocus.Release()
	})
}
