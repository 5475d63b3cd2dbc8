// Package app holds the store backing the App area shown after login.
package app

import (
	"go.uber.org/zap"

	"github.com/jask/manttest/internal/app/title"
	"github.com/jask/manttest/internal/rxstore"
)

const Namespace rxstore.Namespace = "MantTest.App/"

const SelectSectionType = string(Namespace) + "SELECT_SECTION"

const DefaultHeading = "MantTest"

var Sections = []string{"overview", "activity", "settings"}

type State struct {
	Title   title.State
	Section string
	// User is who signed in, when known.
	User string
}

type SelectSection struct{ Name string }

func (SelectSection) Type() string { return SelectSectionType }
func (a SelectSection) Apply(s State) State {
	if s.Section == a.Name || !knownSection(a.Name) {
		return s
	}
	s.Section = a.Name
	return s
}

func knownSection(name string) bool {
	for _, sec := range Sections {
		if sec == name {
			return true
		}
	}
	return false
}

// Reduce folds App actions and the title bar's actions.
func Reduce(s State, a rxstore.Action) State {
	if t, ok := a.(rxstore.Transition[title.State]); ok {
		next := t.Apply(s.Title)
		if next == s.Title {
			return s
		}
		s.Title = next
		return s
	}
	return rxstore.ReduceTransitions(s, a)
}

type Option func(*config)

type config struct {
	logger  *zap.Logger
	heading string
	user    string
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithHeading(text string) Option {
	return func(c *config) {
		if text != "" {
			c.heading = text
		}
	}
}

func WithUser(name string) Option {
	return func(c *config) { c.user = name }
}

type Store struct {
	*rxstore.Store[State]
}

func New(opts ...Option) *Store {
	cfg := config{logger: zap.NewNop(), heading: DefaultHeading}
	for _, opt := range opts {
		opt(&cfg)
	}
	initial := State{Title: title.State{Heading: cfg.heading}, Section: Sections[0], User: cfg.user}
	return &Store{Store: rxstore.New(Reduce, initial,
		rxstore.WithName[State]("app"),
		rxstore.WithLogger[State](cfg.logger))}
}

// Constructor builds an App store. extra options apply after the bound ones.
type Constructor func(extra ...Option) *Store

// Factory returns a constructor bound to opts.
func Factory(opts ...Option) Constructor {
	return func(extra ...Option) *Store {
		all := append(append([]Option(nil), opts...), extra...)
		return New(all...)
	}
}
