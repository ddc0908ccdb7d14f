package registry

import "sync/atomic"

// Handle publishes the current Registry snapshot to readers. Reload builds
// a fresh Registry off to the side and swaps it in atomically; in-flight
// readers keep the snapshot they already loaded. Install is single-writer
// by contract, reads are unbounded and lock-free.
type Handle struct {
	current atomic.Pointer[Registry]
}

// NewHandle creates a handle publishing the given initial snapshot.
func NewHandle(r *Registry) *Handle {
	h := &Handle{}
	h.current.Store(r)
	return h
}

// Snapshot returns the currently published Registry. Callers should hold on
// to the returned pointer for the duration of one logical operation so all
// lookups within it see the same dataset.
func (h *Handle) Snapshot() *Registry {
	return h.current.Load()
}

// Swap publishes a new snapshot and returns the previous one.
func (h *Handle) Swap(r *Registry) *Registry {
	return h.current.Swap(r)
}
