package rxstore

import (
	"sync"
	"sync/atomic"
)

// Switch follows the inner stream projected from the latest outer value.
//
// Each outer emission bumps a generation token, drops the previous inner
// subscription and subscribes to project(v). on receives every inner item
// together with a liveness check; live reports false once a newer outer value has
// arrived, so work that finishes late can be discarded instead of acted on.
func Switch[O, I any](outer Observable[O], project func(O) Observable[I], on func(item I, live func() bool)) Subscription {
	sw := &switcher[I]{}
	outerSub := outer.Subscribe(func(v O) {
		sw.next(project(v), on)
	})
	return SubscriptionFunc(func() {
		outerSub.Unsubscribe()
		sw.stop()
	})
}

type switcher[I any] struct {
	gen atomic.Uint64

	mu      sync.Mutex
	inner   Subscription
	stopped bool
}

func (sw *switcher[I]) next(src Observable[I], on func(I, func() bool)) {
	token := sw.gen.Add(1)
	live := func() bool { return sw.gen.Load() == token }

	sw.mu.Lock()
	if sw.stopped {
		sw.mu.Unlock()
		return
	}
	prev := sw.inner
	sw.inner = nil
	sw.mu.Unlock()
	if prev != nil {
		prev.Unsubscribe()
	}
	if src == nil {
		return
	}

	sub := src.Subscribe(func(item I) {
		if live() {
			on(item, live)
		}
	})

	sw.mu.Lock()
	if sw.stopped || !live() {
		sw.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	sw.inner = sub
	sw.mu.Unlock()
}

func (sw *switcher[I]) stop() {
	sw.gen.Add(1)
	sw.mu.Lock()
	sw.stopped = true
	inner := sw.inner
	sw.inner = nil
	sw.mu.Unlock()
	if inner != nil {
		inner.Unsubscribe()
	}
}
