// Package mainstore decides which of the two areas, Login or App, is active
// and owns the child store backing each one.
//
// The only control flow lives in two effects: when the Login store reports
// LOGIN_COMPLETED an App store is created, the view switches to App and the
// Login store is destroyed; when the App title reports LOG_OUT a fresh Login
// store is created and the view switches back. The App store is left in
// place on log out.
package mainstore

import (
	"fmt"

	"github.com/jask/manttest/internal/app"
	"github.com/jask/manttest/internal/login"
)

// ViewMode selects the area being presented.
type ViewMode int

const (
	ViewLogin ViewMode = iota
	ViewApp
)

func (m ViewMode) String() string {
	switch m {
	case ViewLogin:
		return "login"
	case ViewApp:
		return "app"
	default:
		return fmt.Sprintf("ViewMode(%d)", int(m))
	}
}

// MainState is replaced, never mutated. Both child references may be set
// while a transition batch is being applied.
type MainState struct {
	ViewMode   ViewMode
	LoginStore *login.Store
	AppStore   *app.Store
}

// Equal compares field identity, so a transition that returns its input is
// never seen as a change.
func (s MainState) Equal(o MainState) bool {
	return s == o
}

// DefaultMainState starts in the Login area with a fresh Login store.
func DefaultMainState(svc login.Service, opts ...login.Option) MainState {
	return startState(login.Factory(svc, opts...))
}

func startState(newLogin login.Constructor) MainState {
	return MainState{
		ViewMode:   ViewLogin,
		LoginStore: newLogin(),
	}
}
