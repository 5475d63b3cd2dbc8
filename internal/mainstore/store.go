package mainstore

import (
	"go.uber.org/zap"

	"github.com/jask/manttest/internal/app"
	"github.com/jask/manttest/internal/login"
	"github.com/jask/manttest/internal/rxstore"
)

// Services are the dependencies of a main store. Login is bound into the one
// Login constructor that builds both the default Login store and every Login
// store created on log out.
type Services struct {
	Login        login.Service
	Logger       *zap.Logger
	LoginOptions []login.Option
	AppOptions   []app.Option
}

// Store is a running main store.
type Store struct {
	*rxstore.Store[MainState]
}

// Option configures one store built by the constructor Define returns.
type Option func(*storeConfig)

type storeConfig struct {
	init     *MainState
	onFailed []func(error)
}

// WithInit replaces the default initial state.
func WithInit(s MainState) Option {
	return func(c *storeConfig) { c.init = &s }
}

// OnEffectError observes effects that fail and stop.
func OnEffectError(fn func(error)) Option {
	return func(c *storeConfig) {
		if fn != nil {
			c.onFailed = append(c.onFailed, fn)
		}
	}
}

// Define returns the main store constructor for svcs.
func Define(svcs Services) func(opts ...Option) *Store {
	logger := svcs.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	newLogin := login.Factory(svcs.Login, append([]login.Option{login.WithLogger(logger.Named("login"))}, svcs.LoginOptions...)...)
	newApp := app.Factory(append([]app.Option{app.WithLogger(logger.Named("app"))}, svcs.AppOptions...)...)

	return func(opts ...Option) *Store {
		var cfg storeConfig
		for _, opt := range opts {
			opt(&cfg)
		}
		var initial MainState
		if cfg.init != nil {
			initial = *cfg.init
		} else {
			initial = startState(newLogin)
		}

		storeOpts := []rxstore.Option[MainState]{
			rxstore.WithName[MainState]("main"),
			rxstore.WithLogger[MainState](logger.Named("main")),
			rxstore.WithEqual(MainState.Equal),
			rxstore.WithTunnel(activeActions),
			rxstore.WithEffects(
				LoginCompletedEffects(newApp),
				LogOutEffects(newLogin),
				releaseChildren,
			),
		}
		for _, fn := range cfg.onFailed {
			storeOpts = append(storeOpts, rxstore.OnEffectError[MainState](fn))
		}
		return &Store{Store: rxstore.New(Reduce, initial, storeOpts...)}
	}
}
