package mainstore

import (
	"github.com/jask/manttest/internal/app"
	"github.com/jask/manttest/internal/login"
	"github.com/jask/manttest/internal/rxstore"
)

const Namespace rxstore.Namespace = "MantTest.Main/"

const (
	SetViewModeType  = string(Namespace) + "SET_VIEW_MODE"
	CreateLoginType  = string(Namespace) + "CREATE_LOGIN"
	CreateAppType    = string(Namespace) + "CREATE_APP"
	DestroyLoginType = string(Namespace) + "DESTROY_LOGIN"
	DestroyAppType   = string(Namespace) + "DESTROY_APP"
)

// Every transition below returns its input untouched when its guard fails.

type SetViewMode struct{ Mode ViewMode }

func (SetViewMode) Type() string { return SetViewModeType }
func (a SetViewMode) Apply(s MainState) MainState {
	if s.ViewMode == a.Mode {
		return s
	}
	s.ViewMode = a.Mode
	return s
}

type CreateLogin struct{ Store *login.Store }

func (CreateLogin) Type() string { return CreateLoginType }
func (a CreateLogin) Apply(s MainState) MainState {
	if s.LoginStore != nil {
		return s
	}
	s.LoginStore = a.Store
	return s
}

// Release closes the carried store when the action is dropped undispatched.
func (a CreateLogin) Release() {
	if a.Store != nil {
		a.Store.Close()
	}
}

type CreateApp struct{ Store *app.Store }

func (CreateApp) Type() string { return CreateAppType }
func (a CreateApp) Apply(s MainState) MainState {
	if s.AppStore != nil {
		return s
	}
	s.AppStore = a.Store
	return s
}

func (a CreateApp) Release() {
	if a.Store != nil {
		a.Store.Close()
	}
}

type DestroyLogin struct{}

func (DestroyLogin) Type() string { return DestroyLoginType }
func (DestroyLogin) Apply(s MainState) MainState {
	if s.LoginStore == nil {
		return s
	}
	s.LoginStore = nil
	return s
}

type DestroyApp struct{}

func (DestroyApp) Type() string { return DestroyAppType }
func (DestroyApp) Apply(s MainState) MainState {
	if s.AppStore == nil {
		return s
	}
	s.AppStore = nil
	return s
}

// Reduce is the main store reducer. Actions from other namespaces are no-ops.
func Reduce(s MainState, a rxstore.Action) MainState {
	return rxstore.ReduceTransitions(s, a)
}
