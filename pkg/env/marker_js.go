//go:build js && wasm

package env

import "syscall/js"

// MarkerGlobal is the window property the native shell injects into pages it hosts.
const MarkerGlobal = "__HOSTBRIDGE_IPC__"

func markerPresent() bool {
	win := js.Global().Get("window")
	if win.IsUndefined() || win.IsNull() {
		return false
	}
	marker := win.Get(MarkerGlobal)
	return !marker.IsUndefined() && !marker.IsNull()
}
