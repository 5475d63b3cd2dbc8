package rxstore

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Sink receives what an effect produces.
type Sink interface {
	// Emit dispatches batch on the store as one contiguous unit.
	Emit(batch ...Action)
	// Fail stops the effect. Nothing it emits afterwards reaches the store.
	Fail(err error)
}

// Effect observes a running store and reports follow-up actions to sink.
// The returned subscription is released when the effect fails or the store closes.
type Effect[S any] func(store *Store[S], sink Sink) Subscription

type effectRun[S any] struct {
	store *Store[S]
	index int

	mu     sync.Mutex
	sub    Subscription
	failed bool
}

func (s *Store[S]) start(index int, eff Effect[S]) {
	if eff == nil {
		return
	}
	run := &effectRun[S]{store: s, index: index}
	s.mu.Lock()
	s.running = append(s.running, run)
	s.mu.Unlock()

	sub := eff(s, run)

	run.mu.Lock()
	if run.failed {
		run.mu.Unlock()
		if sub != nil {
			sub.Unsubscribe()
		}
		return
	}
	run.sub = sub
	run.mu.Unlock()
}

func (r *effectRun[S]) Emit(batch ...Action) {
	r.mu.Lock()
	failed := r.failed
	r.mu.Unlock()
	if failed {
		release(batch)
		return
	}
	r.store.Dispatch(batch...)
}

func (r *effectRun[S]) Fail(err error) {
	if err == nil {
		err = fmt.Errorf("effect %d failed", r.index)
	}
	if !r.stop() {
		return
	}
	r.store.log.Warn("effect stopped", zap.Int("effect", r.index), zap.Error(err))
	r.store.mu.Lock()
	hooks := r.store.onFailed
	r.store.mu.Unlock()
	for _, fn := range hooks {
		fn(err)
	}
}

// stop reports whether this call was the one that stopped the run.
func (r *effectRun[S]) stop() bool {
	r.mu.Lock()
	if r.failed {
		r.mu.Unlock()
		return false
	}
	r.failed = true
	sub := r.sub
	r.sub = nil
	r.mu.Unlock()
	if sub != nil {
		sub.Unsubscribe()
	}
	return true
}

func release(batch []Action) {
	for _, a := range batch {
		if r, ok := a.(Releaser); ok {
			r.Release()
		}
	}
}

func safeBuild[S any](build func(*Store[S], Action) ([]Action, error), store *Store[S], a Action) (batch []Action, err error) {
	defer func() {
		if r := recover(); r != nil {
			batch, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return build(store, a)
}

// SwitchEffect follows the child stream project picks from the latest state.
// For every child action accepted by match it calls build and emits the
// resulting batch, unless the state moved on while build ran, in which case
// the batch is released and dropped. A build error or panic fails the effect,
// which leaves that reaction disabled for the life of the store.
func SwitchEffect[S any](project func(S) Observable[Action], match func(Action) bool, build func(*Store[S], Action) ([]Action, error)) Effect[S] {
	return func(store *Store[S], sink Sink) Subscription {
		return Switch(store.States(), project, func(a Action, live func() bool) {
			if !match(a) {
				return
			}
			batch, err := safeBuild(build, store, a)
			if err != nil {
				release(batch)
				sink.Fail(fmt.Errorf("%s: %w", a.Type(), err))
				return
			}
			if !live() {
				store.Logger().Debug("stale effect batch dropped", zap.String("trigger", a.Type()))
				release(batch)
				return
			}
			sink.Emit(batch...)
		})
	}
}
