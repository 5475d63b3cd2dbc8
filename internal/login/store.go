// Package login holds the store backing the Login area: the credential form,
// one in-flight authentication attempt, and the LOGIN_COMPLETED event that
// tells the main store to switch areas.
package login

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jask/manttest/internal/rxstore"
)

// Service authenticates a username/password pair.
type Service interface {
	Login(ctx context.Context, username, password string) (Session, error)
}

// Session is what a successful login yields.
type Session struct {
	UserID    string
	Username  string
	Token     string
	ExpiresAt time.Time
}

type State struct {
	Username   string
	Password   string
	Submitting bool
	Session    *Session
	Error      string
}

// ErrNoService is reported when a login is attempted without a Service.
var ErrNoService = errors.New("login service unavailable")

const defaultTimeout = 5 * time.Second

type Option func(*config)

type config struct {
	logger  *zap.Logger
	timeout time.Duration
	initial State
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout bounds each authentication attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithUsername pre-fills the form.
func WithUsername(name string) Option {
	return func(c *config) { c.initial.Username = name }
}

// Store is a running Login area.
type Store struct {
	*rxstore.Store[State]

	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group
}

// New builds a Login store. Nothing is sent to svc until Submit is dispatched,
// so a nil svc is accepted; attempts then fail with ErrNoService.
func New(svc Service, opts ...Option) *Store {
	cfg := config{logger: zap.NewNop(), timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{ctx: ctx, cancel: cancel}
	s.group.SetLimit(1)
	s.Store = rxstore.New(rxstore.ReduceTransitions[State], cfg.initial,
		rxstore.WithName[State]("login"),
		rxstore.WithLogger[State](cfg.logger),
		rxstore.WithEffects(s.submitEffect(svc, cfg.timeout)))
	s.OnClose(cancel)
	return s
}

// Constructor builds a Login store. extra options apply after the bound ones.
type Constructor func(extra ...Option) *Store

// Factory returns a constructor bound to svc and opts.
func Factory(svc Service, opts ...Option) Constructor {
	return func(extra ...Option) *Store {
		all := append(append([]Option(nil), opts...), extra...)
		return New(svc, all...)
	}
}

func (s *Store) submitEffect(svc Service, timeout time.Duration) rxstore.Effect[State] {
	return func(store *rxstore.Store[State], sink rxstore.Sink) rxstore.Subscription {
		return store.Actions().Subscribe(func(a rxstore.Action) {
			if a.Type() != SubmitType {
				return
			}
			st := store.State()
			if svc == nil {
				sink.Emit(Failed{Reason: ErrNoService.Error()})
				return
			}
			started := s.group.TryGo(func() error {
				ctx, cancel := context.WithTimeout(s.ctx, timeout)
				defer cancel()
				session, err := svc.Login(ctx, st.Username, st.Password)
				if s.ctx.Err() != nil {
					return nil
				}
				if err != nil {
					store.Logger().Info("login failed", zap.String("username", st.Username), zap.Error(err))
					sink.Emit(Failed{Reason: err.Error()})
					return nil
				}
				store.Logger().Info("login completed", zap.String("username", session.Username))
				sink.Emit(Completed{Session: session})
				return nil
			})
			if !started {
				store.Logger().Debug("login already in flight")
			}
		})
	}
}

// Wait blocks until the running authentication attempt, if any, has finished.
func (s *Store) Wait() {
	_ = s.group.Wait()
}
