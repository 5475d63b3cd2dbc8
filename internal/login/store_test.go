package login_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jask/manttest/internal/login"
	"github.com/jask/manttest/internal/rxstore/rxstoretest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeService struct {
	calls   int
	gate    chan struct{}
	session login.Session
	err     error
}

func (f *fakeService) Login(ctx context.Context, username, password string) (login.Session, error) {
	f.calls++
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return login.Session{}, ctx.Err()
		}
	}
	if f.err != nil {
		return login.Session{}, f.err
	}
	s := f.session
	s.Username = username
	return s, nil
}

func TestFormActionsAreIdempotent(t *testing.T) {
	s := login.State{Username: "ada"}
	require.Equal(t, s, login.SetUsername{Value: "ada"}.Apply(s))

	next := login.SetPassword{Value: "pw"}.Apply(login.State{Error: "old"})
	require.Equal(t, login.State{Password: "pw"}, next)

	busy := login.State{Submitting: true, Username: "ada"}
	require.Equal(t, busy, login.Submit{}.Apply(busy))
}

func TestSubmitCompletes(t *testing.T) {
	svc := &fakeService{session: login.Session{Token: "tok"}}
	store := login.New(svc, login.WithUsername("ada"))
	defer store.Close()
	actions := rxstoretest.Record(store.Actions())

	store.Dispatch(login.SetPassword{Value: "secret"}, login.Submit{})
	store.Wait()

	st := store.State()
	require.False(t, st.Submitting)
	require.NotNil(t, st.Session)
	require.Equal(t, "ada", st.Session.Username)
	require.Equal(t, "tok", st.Session.Token)
	require.Empty(t, st.Password)
	require.Equal(t, []string{login.SetPasswordType, login.SubmitType, login.LoginCompletedType},
		rxstoretest.Types(actions.Items()))
}

func TestSubmitFails(t *testing.T) {
	svc := &fakeService{err: errors.New("invalid credentials")}
	store := login.New(svc)
	defer store.Close()

	store.Dispatch(login.SetUsername{Value: "ada"}, login.Submit{})
	store.Wait()

	st := store.State()
	require.Nil(t, st.Session)
	require.Equal(t, "invalid credentials", st.Error)
	require.False(t, st.Submitting)
}

func TestSubmitWithoutServiceFails(t *testing.T) {
	store := login.New(nil)
	defer store.Close()

	store.Dispatch(login.Submit{})

	require.Equal(t, login.ErrNoService.Error(), store.State().Error)
}

func TestOnlyOneAttemptInFlight(t *testing.T) {
	svc := &fakeService{gate: make(chan struct{})}
	store := login.New(svc, login.WithTimeout(time.Second))
	defer store.Close()

	store.Dispatch(login.Submit{})
	store.Dispatch(login.Submit{})
	close(svc.gate)
	store.Wait()

	require.Equal(t, 1, svc.calls)
	require.NotNil(t, store.State().Session)
}

func TestCloseCancelsAttempt(t *testing.T) {
	svc := &fakeService{gate: make(chan struct{})}
	store := login.New(svc)
	actions := rxstoretest.Record(store.Actions())

	store.Dispatch(login.Submit{})
	store.Close()
	store.Wait()

	require.Equal(t, []string{login.SubmitType}, rxstoretest.Types(actions.Items()))
}

func TestFactoryBindsService(t *testing.T) {
	svc := &fakeService{}
	newLogin := login.Factory(svc, login.WithUsername("ada"))

	first := newLogin()
	defer first.Close()
	second := newLogin(login.WithUsername("grace"))
	defer second.Close()
	require.Equal(t, "ada", first.State().Username)
	require.Equal(t, "grace", second.State().Username)

	second.Dispatch(login.SetPassword{Value: "pw"}, login.Submit{})
	second.Wait()
	require.Equal(t, 1, svc.calls)
}
