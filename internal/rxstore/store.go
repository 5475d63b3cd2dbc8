package rxstore

import (
	"sync"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Option configures a Store.
type Option[S any] func(*options[S])

type options[S any] struct {
	name     string
	logger   *zap.Logger
	equal    func(a, b S) bool
	effects  []Effect[S]
	tunnels  []func(S) Observable[Action]
	onFailed []func(error)
}

// WithName labels the store in logs.
func WithName[S any](name string) Option[S] {
	return func(o *options[S]) { o.name = name }
}

func WithLogger[S any](logger *zap.Logger) Option[S] {
	return func(o *options[S]) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEqual replaces the cmp.Equal based deduplication of States.
func WithEqual[S any](equal func(a, b S) bool) Option[S] {
	return func(o *options[S]) {
		if equal != nil {
			o.equal = equal
		}
	}
}

// WithEffects registers effects; they start, in order, once the store is built.
func WithEffects[S any](effects ...Effect[S]) Option[S] {
	return func(o *options[S]) { o.effects = append(o.effects, effects...) }
}

// WithTunnel forwards every action of the stream project picks from the
// latest state onto Actions. Forwarded actions are never reduced.
func WithTunnel[S any](project func(S) Observable[Action]) Option[S] {
	return func(o *options[S]) {
		if project != nil {
			o.tunnels = append(o.tunnels, project)
		}
	}
}

// OnEffectError is called when an effect fails and is stopped.
func OnEffectError[S any](fn func(error)) Option[S] {
	return func(o *options[S]) {
		if fn != nil {
			o.onFailed = append(o.onFailed, fn)
		}
	}
}

type queued struct {
	action  Action
	forward bool
}

// Store holds one state cell and serializes every change to it.
type Store[S any] struct {
	id      uuid.UUID
	name    string
	log     *zap.Logger
	reducer Reducer[S]

	states  *Value[S]
	actions *Subject[Action]

	mu       sync.Mutex
	queue    []queued
	draining bool
	closed   bool
	running  []*effectRun[S]
	tunnels  Subscriptions
	onClose  []func()
	onFailed []func(error)
}

// New builds a running store.
func New[S any](reducer Reducer[S], init S, opts ...Option[S]) *Store[S] {
	o := options[S]{
		name:   "store",
		logger: zap.NewNop(),
		equal:  func(a, b S) bool { return cmp.Equal(a, b) },
	}
	for _, opt := range opts {
		opt(&o)
	}
	if reducer == nil {
		reducer = ReduceTransitions[S]
	}
	id := uuid.New()
	s := &Store[S]{
		id:       id,
		name:     o.name,
		log:      o.logger.With(zap.String("store", o.name), zap.String("store_id", id.String())),
		reducer:  reducer,
		states:   NewValue(init, o.equal),
		actions:  NewSubject[Action](),
		onFailed: o.onFailed,
	}
	for _, project := range o.tunnels {
		s.tunnels = append(s.tunnels, Switch(Observable[S](s.states), project, func(a Action, live func() bool) {
			s.forward(a)
		}))
	}
	for i, eff := range o.effects {
		s.start(i, eff)
	}
	return s
}

func (s *Store[S]) ID() uuid.UUID       { return s.id }
func (s *Store[S]) Name() string        { return s.name }
func (s *Store[S]) Logger() *zap.Logger { return s.log }

// State returns the latest folded state.
func (s *Store[S]) State() S {
	return s.states.Get()
}

// States replays the current state to each new subscriber, then emits every
// distinct state produced by the reducer.
func (s *Store[S]) States() Observable[S] {
	return s.states
}

// Actions emits every dispatched and tunneled action in processing order.
func (s *Store[S]) Actions() Observable[Action] {
	return s.actions
}

// Dispatch enqueues actions as one contiguous batch and drains the queue
// unless another call is already draining it. Nil actions are skipped.
func (s *Store[S]) Dispatch(actions ...Action) {
	batch := make([]queued, 0, len(actions))
	for _, a := range actions {
		if a != nil {
			batch = append(batch, queued{action: a})
		}
	}
	s.enqueue(batch)
}

func (s *Store[S]) forward(a Action) {
	if a == nil {
		return
	}
	s.enqueue([]queued{{action: a, forward: true}})
}

func (s *Store[S]) enqueue(batch []queued) {
	if len(batch) == 0 {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, batch...)
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()
	s.drain()
}

func (s *Store[S]) drain() {
	for {
		s.mu.Lock()
		if s.closed || len(s.queue) == 0 {
			s.queue = nil
			s.draining = false
			s.mu.Unlock()
			return
		}
		item := s.queue[0]
		s.queue[0] = queued{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		if item.forward {
			s.actions.Emit(item.action)
			continue
		}
		next := s.reducer(s.states.Get(), item.action)
		s.log.Debug("dispatch", zap.String("action", item.action.Type()))
		s.actions.Emit(item.action)
		s.states.Set(next)
	}
}

// OnClose registers fn to run when the store is closed.
func (s *Store[S]) OnClose(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClose = append(s.onClose, fn)
}

// Closed reports whether Close has been called.
func (s *Store[S]) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close stops effects and tunnels, completes both streams and runs OnClose
// hooks. It is safe to call more than once and from inside a subscriber.
func (s *Store[S]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	running := s.running
	s.running = nil
	tunnels := s.tunnels
	s.tunnels = nil
	hooks := s.onClose
	s.onClose = nil
	s.mu.Unlock()

	for _, run := range running {
		run.stop()
	}
	tunnels.Unsubscribe()
	s.actions.Close()
	s.states.Close()
	for _, fn := range hooks {
		fn()
	}
	s.log.Debug("store closed")
}
