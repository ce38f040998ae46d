package carousel

import (
	"sort"
	"sync"
)

// Handle is whatever the presentation layer uses to refer to a slide or
// bullet element.
type Handle = any

type registration struct {
	token  uint64
	handle Handle
}

// Registry maps ordinals to element handles. Slides and bullets register
// at mount and deregister at unmount.
type Registry struct {
	mu        sync.RWMutex
	items     map[int]registration
	nextToken uint64
}

func newRegistry() *Registry {
	return &Registry{items: make(map[int]registration)}
}

// Register stores h under ordinal, replacing any previous handle, and
// returns the function that removes it again. A stale unregister left
// over from a replaced handle does nothing.
func (r *Registry) Register(ordinal int, h Handle) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextToken++
	token := r.nextToken
	r.items[ordinal] = registration{token: token, handle: h}

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if cur, ok := r.items[ordinal]; ok && cur.token == token {
			delete(r.items, ordinal)
		}
	}
}

// Get returns the handle registered at ordinal.
func (r *Registry) Get(ordinal int) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.items[ordinal]
	return reg.handle, ok
}

// Len returns the number of registered handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Ordinals returns the registered ordinals in ascending order.
func (r *Registry) Ordinals() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ords := make([]int, 0, len(r.items))
	for ord := range r.items {
		ords = append(ords, ord)
	}
	sort.Ints(ords)
	return ords
}

// Ordered returns the handles sorted by ordinal.
func (r *Registry) Ordered() []Handle {
	ords := r.Ordinals()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Handle, 0, len(ords))
	for _, ord := range ords {
		if reg, ok := r.items[ord]; ok {
			out = append(out, reg.handle)
		}
	}
	return out
}
