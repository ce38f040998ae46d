// Package binding provides observable value cells that a widget can
// either own or delegate to a caller-supplied cell.
//
// A widget that accepts an optional external Cell uses Bind at
// construction: when the caller passes a cell, that cell stores the
// value and the widget reacts to it as a subscriber; otherwise a
// private Value is created. Writes of an unchanged value are dropped,
// which is what stops write-through and its echo from looping.
package binding

import "sync"

// Cell is an observable value.
type Cell[T comparable] interface {
	Get() T
	Set(v T)
	Subscribe(fn func(T)) (unsubscribe func())
}

// Value is the in-memory Cell implementation.
type Value[T comparable] struct {
	mu     sync.RWMutex
	v      T
	subs   map[uint64]func(T)
	nextID uint64
}

// NewValue creates a cell holding initial.
func NewValue[T comparable](initial T) *Value[T] {
	return &Value[T]{
		v:    initial,
		subs: make(map[uint64]func(T)),
	}
}

// Get returns the current value.
func (c *Value[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v
}

// Set stores v and notifies subscribers if it differs from the current
// value. Subscribers run on the caller's goroutine after the cell lock
// has been released, so they may read or write the cell again.
func (c *Value[T]) Set(v T) {
	c.mu.Lock()
	if c.v == v {
		c.mu.Unlock()
		return
	}
	c.v = v
	subs := make([]func(T), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
}

// Subscribe registers fn for future changes.
func (c *Value[T]) Subscribe(fn func(T)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.subs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// Bind returns external when it is non-nil, otherwise a new Value seeded
// with initial. The boolean reports whether the result is external.
func Bind[T comparable](external Cell[T], initial T) (Cell[T], bool) {
	if external != nil {
		return external, true
	}
	return NewValue(initial), false
}
