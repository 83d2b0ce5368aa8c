// Package jswindow implements ports.Window on top of the browser's window object.
// It is only built for GOOS=js GOARCH=wasm.
package jswindow
