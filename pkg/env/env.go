// Package env resolves which execution context the process is running in.
//
// The answer is computed once per process and never changes afterwards, so it is
// read without synchronization by every component that receives a Descriptor.
package env

import "sync"

// MarkerEnv is the environment variable the native host sets on the processes it embeds.
const MarkerEnv = "HOSTBRIDGE_IPC"

// Descriptor is the immutable environment fact.
type Descriptor struct {
	embedded bool
}

// Embedded returns a descriptor for the embedded-host context.
func Embedded() Descriptor { return Descriptor{embedded: true} }

// Networked returns a descriptor for the networked context.
func Networked() Descriptor { return Descriptor{} }

// IsEmbedded reports whether the process runs inside the native host.
func (d Descriptor) IsEmbedded() bool { return d.embedded }

func (d Descriptor) String() string {
	if d.embedded {
		return "embedded"
	}
	return "networked"
}

var detected = sync.OnceValue(func() Descriptor {
	return Descriptor{embedded: markerPresent()}
})

// Detect returns the environment of the current process. The marker is tested on the
// first call only; absence of the marker is the networked case, not an error.
func Detect() Descriptor {
	return detected()
}

// FromLookup derives a descriptor from an environment lookup function such as os.LookupEnv.
func FromLookup(lookup func(string) (string, bool)) Descriptor {
	v, ok := lookup(MarkerEnv)
	return Descriptor{embedded: ok && v != ""}
}
