package main

import (
	"go.uber.org/zap"

	"github.com/jask/manttest/internal/app"
	"github.com/jask/manttest/internal/app/title"
	"github.com/jask/manttest/internal/login"
	"github.com/jask/manttest/internal/mainstore"
	"github.com/jask/manttest/internal/prefs"
	"github.com/jask/manttest/internal/rxstore"
	"github.com/jask/manttest/internal/service"
)

// resumeSession opens the App area for a remembered token that still
// validates. ok is false when the user has to sign in.
func resumeSession(auth *service.AuthService, sess prefs.Session, log *zap.Logger, opts ...app.Option) (mainstore.MainState, bool) {
	if sess.Token == "" {
		return mainstore.MainState{}, false
	}
	claims, err := auth.Validate(sess.Token)
	if err != nil {
		log.Info("remembered session rejected", zap.Error(err))
		return mainstore.MainState{}, false
	}
	log.Info("resuming session", zap.String("username", claims.Username))
	opts = append(opts[:len(opts):len(opts)], app.WithUser(claims.Username))
	return mainstore.MainState{
		ViewMode: mainstore.ViewApp,
		AppStore: app.New(opts...),
	}, true
}

// trackSession remembers who signed in and forgets their token on log out.
func trackSession(store *mainstore.Store, log *zap.Logger) rxstore.Subscription {
	return store.Actions().Subscribe(func(a rxstore.Action) {
		switch a := a.(type) {
		case login.Completed:
			if err := prefs.RememberLogin(a.Session.Username, a.Session.Token); err != nil {
				log.Warn("save session prefs", zap.Error(err))
			}
		case title.LogOut:
			if err := prefs.ForgetToken(); err != nil {
				log.Warn("forget session token", zap.Error(err))
			}
		}
	})
}
