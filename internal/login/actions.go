package login

import "github.com/jask/manttest/internal/rxstore"

const Namespace rxstore.Namespace = "MantTest.Login/"

const (
	SetUsernameType    = string(Namespace) + "SET_USERNAME"
	SetPasswordType    = string(Namespace) + "SET_PASSWORD"
	SubmitType         = string(Namespace) + "SUBMIT"
	LoginCompletedType = string(Namespace) + "LOGIN_COMPLETED"
	LoginFailedType    = string(Namespace) + "LOGIN_FAILED"
)

type SetUsername struct{ Value string }

func (SetUsername) Type() string { return SetUsernameType }
func (a SetUsername) Apply(s State) State {
	if s.Username == a.Value {
		return s
	}
	s.Username = a.Value
	s.Error = ""
	return s
}

type SetPassword struct{ Value string }

func (SetPassword) Type() string { return SetPasswordType }
func (a SetPassword) Apply(s State) State {
	if s.Password == a.Value {
		return s
	}
	s.Password = a.Value
	s.Error = ""
	return s
}

// Submit starts an authentication attempt unless one is already running.
type Submit struct{}

func (Submit) Type() string { return SubmitType }
func (Submit) Apply(s State) State {
	if s.Submitting {
		return s
	}
	s.Submitting = true
	s.Error = ""
	return s
}

// Completed is the "login completed" event the main store reacts to.
type Completed struct{ Session Session }

func (Completed) Type() string { return LoginCompletedType }
func (a Completed) Apply(s State) State {
	session := a.Session
	s.Session = &session
	s.Submitting = false
	s.Password = ""
	s.Error = ""
	return s
}

type Failed struct{ Reason string }

func (Failed) Type() string { return LoginFailedType }
func (a Failed) Apply(s State) State {
	s.Submitting = false
	s.Password = ""
	s.Error = a.Reason
	return s
}
