// Package rxstoretest records store streams for assertions in tests.
package rxstoretest

import (
	"sync"

	"github.com/jask/manttest/internal/rxstore"
)

// Recorder collects every value an observable emits.
type Recorder[T any] struct {
	mu    sync.Mutex
	items []T
}

// Record subscribes to src for as long as src lives.
func Record[T any](src rxstore.Observable[T]) *Recorder[T] {
	r := &Recorder[T]{}
	src.Subscribe(func(v T) {
		r.mu.Lock()
		r.items = append(r.items, v)
		r.mu.Unlock()
	})
	return r
}

// Items returns a copy of everything recorded so far.
func (r *Recorder[T]) Items() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.items...)
}

func (r *Recorder[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Types lists the tags of recorded actions, optionally only those in ns.
func Types(actions []rxstore.Action, ns ...rxstore.Namespace) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		if len(ns) > 0 && !owned(a.Type(), ns) {
			continue
		}
		out = append(out, a.Type())
	}
	return out
}

// Filter keeps actions tagged inside ns.
func Filter(actions []rxstore.Action, ns rxstore.Namespace) []rxstore.Action {
	var out []rxstore.Action
	for _, a := range actions {
		if ns.Owns(a.Type()) {
			out = append(out, a)
		}
	}
	return out
}

func owned(tag string, ns []rxstore.Namespace) bool {
	for _, n := range ns {
		if n.Owns(tag) {
			return true
		}
	}
	return false
}
