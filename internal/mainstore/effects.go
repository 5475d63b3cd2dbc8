package mainstore

import (
	"go.uber.org/zap"

	"github.com/jask/manttest/internal/app"
	"github.com/jask/manttest/internal/app/title"
	"github.com/jask/manttest/internal/login"
	"github.com/jask/manttest/internal/rxstore"
)

func loginActions(s MainState) rxstore.Observable[rxstore.Action] {
	if s.LoginStore == nil {
		return rxstore.Empty[rxstore.Action]()
	}
	return s.LoginStore.Actions()
}

func appActions(s MainState) rxstore.Observable[rxstore.Action] {
	if s.AppStore == nil {
		return rxstore.Empty[rxstore.Action]()
	}
	return s.AppStore.Actions()
}

// activeActions picks the child selected by ViewMode.
func activeActions(s MainState) rxstore.Observable[rxstore.Action] {
	switch s.ViewMode {
	case ViewLogin:
		return loginActions(s)
	case ViewApp:
		return appActions(s)
	default:
		return rxstore.Empty[rxstore.Action]()
	}
}

// LoginCompletedEffects answers LOGIN_COMPLETED on the current Login store
// with CreateApp, SetViewMode(App), DestroyLogin. The App store is built with
// newApp when the event arrives and knows the signed-in user.
func LoginCompletedEffects(newApp app.Constructor) rxstore.Effect[MainState] {
	if newApp == nil {
		newApp = app.Factory()
	}
	return rxstore.SwitchEffect(loginActions, rxstore.Is(login.LoginCompletedType),
		func(store *rxstore.Store[MainState], a rxstore.Action) ([]rxstore.Action, error) {
			var extra []app.Option
			if c, ok := a.(login.Completed); ok && c.Session.Username != "" {
				extra = append(extra, app.WithUser(c.Session.Username))
			}
			appStore := newApp(extra...)
			store.Logger().Info("login completed, switching to app", zap.String("app_store", appStore.ID().String()))
			return []rxstore.Action{
				CreateApp{Store: appStore},
				SetViewMode{Mode: ViewApp},
				DestroyLogin{},
			}, nil
		})
}

// LogOutEffects answers the App title's LOG_OUT with CreateLogin and
// SetViewMode(Login). The Login store is built with newLogin, pre-filled with
// the user who just left. It does not destroy the App store.
func LogOutEffects(newLogin login.Constructor) rxstore.Effect[MainState] {
	if newLogin == nil {
		newLogin = login.Factory(nil)
	}
	return rxstore.SwitchEffect(appActions, rxstore.Is(title.LogOutType),
		func(store *rxstore.Store[MainState], _ rxstore.Action) ([]rxstore.Action, error) {
			var extra []login.Option
			if s := store.State(); s.AppStore != nil {
				if user := s.AppStore.State().User; user != "" {
					extra = append(extra, login.WithUsername(user))
				}
			}
			loginStore := newLogin(extra...)
			store.Logger().Info("log out, switching to login", zap.String("login_store", loginStore.ID().String()))
			return []rxstore.Action{
				CreateLogin{Store: loginStore},
				SetViewMode{Mode: ViewLogin},
			}, nil
		})
}

// releaseChildren closes a child store once no state references it any
// more, closes a created child the reducer refused, and closes whatever is
// still referenced when the main store closes.
func releaseChildren(store *rxstore.Store[MainState], _ rxstore.Sink) rxstore.Subscription {
	prev := store.State()
	store.OnClose(func() {
		last := store.State()
		if last.LoginStore != nil {
			last.LoginStore.Close()
		}
		if last.AppStore != nil {
			last.AppStore.Close()
		}
	})
	// Actions are emitted before the state they produced is published, so
	// State here is still the one the action was reduced against.
	refused := store.Actions().Subscribe(func(a rxstore.Action) {
		cur := store.State()
		switch c := a.(type) {
		case CreateLogin:
			if c.Store != nil && cur.LoginStore != nil && cur.LoginStore != c.Store {
				store.Logger().Debug("refused login store released", zap.String("login_store", c.Store.ID().String()))
				c.Release()
			}
		case CreateApp:
			if c.Store != nil && cur.AppStore != nil && cur.AppStore != c.Store {
				store.Logger().Debug("refused app store released", zap.String("app_store", c.Store.ID().String()))
				c.Release()
			}
		}
	})
	dropped := store.States().Subscribe(func(s MainState) {
		if prev.LoginStore != nil && prev.LoginStore != s.LoginStore {
			store.Logger().Debug("login store released", zap.String("login_store", prev.LoginStore.ID().String()))
			prev.LoginStore.Close()
		}
		if prev.AppStore != nil && prev.AppStore != s.AppStore {
			store.Logger().Debug("app store released", zap.String("app_store", prev.AppStore.ID().String()))
			prev.AppStore.Close()
		}
		prev = s
	})
	return rxstore.Subscriptions{refused, dropped}
}
