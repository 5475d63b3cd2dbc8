package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jask/manttest/internal/app"
	"github.com/jask/manttest/internal/app/title"
	"github.com/jask/manttest/internal/database"
	"github.com/jask/manttest/internal/database/repository"
	"github.com/jask/manttest/internal/login"
	"github.com/jask/manttest/internal/mainstore"
	"github.com/jask/manttest/internal/prefs"
	"github.com/jask/manttest/internal/service"
)

func newAuth(t *testing.T) *service.AuthService {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrationsWithDB(db))

	auth, err := service.NewAuthService(repository.NewUserRepo(db), []byte("0123456789abcdef0123456789abcdef"), time.Hour)
	require.NoError(t, err)
	auth.Cost = bcrypt.MinCost
	_, err = auth.Register(context.Background(), "ada", "lovelace")
	require.NoError(t, err)
	return auth
}

func TestResumeSession(t *testing.T) {
	auth := newAuth(t)
	sess, err := auth.Login(context.Background(), "ada", "lovelace")
	require.NoError(t, err)

	s, ok := resumeSession(auth, prefs.Session{LastUsername: "ada", Token: sess.Token}, zap.NewNop(), app.WithHeading("Ops"))
	require.True(t, ok)
	t.Cleanup(s.AppStore.Close)
	require.Equal(t, mainstore.ViewApp, s.ViewMode)
	require.Nil(t, s.LoginStore)
	require.Equal(t, "ada", s.AppStore.State().User)
	require.Equal(t, "Ops", s.AppStore.State().Title.Heading)

	for _, token := range []string{"", "not-a-token", sess.Token + "x"} {
		_, ok := resumeSession(auth, prefs.Session{Token: token}, zap.NewNop())
		require.False(t, ok, "token %q", token)
	}
}

func TestTrackSessionRemembersAndForgets(t *testing.T) {
	isolate(t)
	auth := newAuth(t)
	store := mainstore.Define(mainstore.Services{Login: auth})()
	defer store.Close()
	tracked := trackSession(store, zap.NewNop())
	defer tracked.Unsubscribe()

	loginStore := store.State().LoginStore
	loginStore.Dispatch(login.SetUsername{Value: "ada"}, login.SetPassword{Value: "lovelace"}, login.Submit{})
	loginStore.Wait()
	require.Equal(t, mainstore.ViewApp, store.State().ViewMode)

	saved, err := prefs.LoadSession()
	require.NoError(t, err)
	require.Equal(t, "ada", saved.LastUsername)
	resumed, ok := resumeSession(auth, saved, zap.NewNop())
	require.True(t, ok, "the remembered token resumes the session")
	resumed.AppStore.Close()

	store.State().AppStore.Dispatch(title.LogOut{})

	saved, err = prefs.LoadSession()
	require.NoError(t, err)
	require.Equal(t, prefs.Session{LastUsername: "ada"}, saved)
}
