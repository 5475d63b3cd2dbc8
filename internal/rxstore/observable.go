package rxstore

import (
	"sync"
	"sync/atomic"
)

// Subscription stops delivery to one subscriber.
type Subscription interface {
	Unsubscribe()
}

// SubscriptionFunc adapts a function to Subscription.
type SubscriptionFunc func()

func (f SubscriptionFunc) Unsubscribe() {
	if f != nil {
		f()
	}
}

// Subscriptions unsubscribes every member in order.
type Subscriptions []Subscription

func (s Subscriptions) Unsubscribe() {
	for _, sub := range s {
		if sub != nil {
			sub.Unsubscribe()
		}
	}
}

// Observable is a push stream.
type Observable[T any] interface {
	Subscribe(fn func(T)) Subscription
}

type subscriber[T any] struct {
	fn     func(T)
	active atomic.Bool
}

// Subject is a synchronous multicast stream. Subscribers are called in
// subscription order on the emitting goroutine. Unsubscribing takes effect
// immediately, including for an emission already in progress.
type Subject[T any] struct {
	mu     sync.Mutex
	subs   []*subscriber[T]
	closed bool
}

func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

func (s *Subject[T]) Subscribe(fn func(T)) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || fn == nil {
		return SubscriptionFunc(nil)
	}
	sub := &subscriber[T]{fn: fn}
	sub.active.Store(true)
	s.subs = append(s.subs, sub)
	return SubscriptionFunc(func() { s.remove(sub) })
}

func (s *Subject[T]) remove(sub *subscriber[T]) {
	sub.active.Store(false)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.subs {
		if cur == sub {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// Emit delivers v to the subscribers registered when Emit started.
func (s *Subject[T]) Emit(v T) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	snapshot := append([]*subscriber[T](nil), s.subs...)
	s.mu.Unlock()
	for _, sub := range snapshot {
		if sub.active.Load() {
			sub.fn(v)
		}
	}
}

func (s *Subject[T]) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Len returns the number of live subscribers.
func (s *Subject[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close drops every subscriber; later emissions and subscriptions are ignored.
func (s *Subject[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		sub.active.Store(false)
	}
	s.subs = nil
	s.closed = true
}

// Value is a Subject that remembers its latest value, replays it to new
// subscribers and suppresses emissions equal to the value it already holds.
type Value[T any] struct {
	subject *Subject[T]
	equal   func(a, b T) bool

	mu  sync.Mutex
	cur T
}

func NewValue[T any](initial T, equal func(a, b T) bool) *Value[T] {
	return &Value[T]{subject: NewSubject[T](), equal: equal, cur: initial}
}

func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cur
}

// Set stores next and emits it unless it equals the current value.
func (v *Value[T]) Set(next T) bool {
	v.mu.Lock()
	if v.equal != nil && v.equal(v.cur, next) {
		v.mu.Unlock()
		return false
	}
	v.cur = next
	v.mu.Unlock()
	v.subject.Emit(next)
	return true
}

func (v *Value[T]) Subscribe(fn func(T)) Subscription {
	sub := v.subject.Subscribe(fn)
	if fn != nil && !v.subject.Closed() {
		fn(v.Get())
	}
	return sub
}

func (v *Value[T]) Close() {
	v.subject.Close()
}

type empty[T any] struct{}

func (empty[T]) Subscribe(func(T)) Subscription { return SubscriptionFunc(nil) }

// Empty never emits.
func Empty[T any]() Observable[T] {
	return empty[T]{}
}
