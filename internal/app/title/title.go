// Package title is the App area's title bar. Its LogOut event is what the
// main store listens for to hand control back to the Login area.
package title

import "github.com/jask/manttest/internal/rxstore"

const Namespace rxstore.Namespace = "MantTest.App.Title/"

const (
	SetHeadingType = string(Namespace) + "SET_HEADING"
	LogOutType     = string(Namespace) + "LOG_OUT"
)

type State struct {
	Heading string
}

type SetHeading struct{ Text string }

func (SetHeading) Type() string { return SetHeadingType }
func (a SetHeading) Apply(s State) State {
	if s.Heading == a.Text {
		return s
	}
	s.Heading = a.Text
	return s
}

// LogOut carries no state change of its own.
type LogOut struct{}

func (LogOut) Type() string        { return LogOutType }
func (LogOut) Apply(s State) State { return s }
