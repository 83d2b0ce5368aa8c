//go:build !(js && wasm)

package env

import "os"

func markerPresent() bool {
	return FromLookup(os.LookupEnv).IsEmbedded()
}
