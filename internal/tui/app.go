package tui

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/manttest/internal/app"
	"github.com/jask/manttest/internal/app/title"
	"github.com/jask/manttest/internal/login"
	"github.com/jask/manttest/internal/mainstore"
	"github.com/jask/manttest/internal/rxstore"
)

// App renders whichever area the main store selects and turns keys into
// actions on that area's store.
type App struct {
	store *mainstore.Store
	sub   rxstore.Subscription

	mu      sync.Mutex // guards changes against close
	changes chan struct{}
	closed  bool

	focus field
	width int
}

type field int

const (
	fieldUsername field = iota
	fieldPassword
)

// storeChangedMsg is sent when the main store saw an action that did not come
// from a key press, such as an authentication result arriving.
type storeChangedMsg struct{}

// New subscribes to store. Call Close once the program exits.
func New(store *mainstore.Store) *App {
	a := &App{store: store, changes: make(chan struct{}, 1)}
	a.sub = store.Actions().Subscribe(func(rxstore.Action) {
		a.mu.Lock()
		defer a.mu.Unlock()
		if a.closed {
			return
		}
		select {
		case a.changes <- struct{}{}:
		default:
		}
	})
	a.resetFocus()
	return a
}

// resetFocus starts on the password when the username is already filled in.
func (a *App) resetFocus() {
	a.focus = fieldUsername
	if s := a.store.State(); s.LoginStore != nil && s.LoginStore.State().Username != "" {
		a.focus = fieldPassword
	}
}

// Close stops listening to the store and releases a pending wait. It does
// not close the store.
func (a *App) Close() {
	if a.sub != nil {
		a.sub.Unsubscribe()
		a.sub = nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.closed {
		a.closed = true
		close(a.changes)
	}
}

func (a *App) Init() tea.Cmd {
	return a.waitForChange()
}

func (a *App) waitForChange() tea.Cmd {
	changes := a.changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = m.Width
	case storeChangedMsg:
		return a, a.waitForChange()
	case tea.KeyMsg:
		if m.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		s := a.store.State()
		switch s.ViewMode {
		case mainstore.ViewLogin:
			if s.LoginStore != nil {
				return a.handleLoginKey(s.LoginStore, m)
			}
		case mainstore.ViewApp:
			if s.AppStore != nil {
				return a.handleAppKey(s.AppStore, m)
			}
		}
		if m.String() == "q" {
			return a, tea.Quit
		}
	}
	return a, nil
}

func (a *App) handleLoginKey(store *login.Store, m tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := store.State()
	switch m.Type {
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		if a.focus == fieldUsername {
			a.focus = fieldPassword
		} else {
			a.focus = fieldUsername
		}
	case tea.KeyEnter:
		if a.focus == fieldUsername && st.Password == "" {
			a.focus = fieldPassword
			return a, nil
		}
		store.Dispatch(login.Submit{})
	case tea.KeyBackspace:
		a.edit(store, st, func(v string) string {
			if v == "" {
				return v
			}
			_, size := utf8.DecodeLastRuneInString(v)
			return v[:len(v)-size]
		})
	case tea.KeyEsc:
		a.edit(store, st, func(string) string { return "" })
	case tea.KeyRunes, tea.KeySpace:
		typed := string(m.Runes)
		if m.Type == tea.KeySpace {
			typed = " "
		}
		a.edit(store, st, func(v string) string { return v + typed })
	}
	return a, nil
}

func (a *App) edit(store *login.Store, st login.State, fn func(string) string) {
	if a.focus == fieldUsername {
		store.Dispatch(login.SetUsername{Value: fn(st.Username)})
		return
	}
	store.Dispatch(login.SetPassword{Value: fn(st.Password)})
}

func (a *App) handleAppKey(store *app.Store, m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := m.String(); key {
	case "q":
		return a, tea.Quit
	case "ctrl+x", "L":
		store.Dispatch(title.LogOut{})
		a.resetFocus()
	case "tab":
		store.Dispatch(app.SelectSection{Name: nextSection(store.State().Section)})
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(app.Sections) {
				store.Dispatch(app.SelectSection{Name: app.Sections[i]})
			}
		}
	}
	return a, nil
}

func nextSection(current string) string {
	for i, name := range app.Sections {
		if name == current {
			return app.Sections[(i+1)%len(app.Sections)]
		}
	}
	return app.Sections[0]
}

// styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	tabStyle     = lipgloss.NewStyle().Padding(0, 1)
	activeTab    = tabStyle.Bold(true).Reverse(true)
	frameStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headerStyle  = lipgloss.NewStyle().Bold(true)
	sessionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func (a *App) View() string {
	s := a.store.State()
	var body string
	switch {
	case s.ViewMode == mainstore.ViewLogin && s.LoginStore != nil:
		body = a.renderLogin(s.LoginStore.State())
	case s.ViewMode == mainstore.ViewApp && s.AppStore != nil:
		body = a.renderApp(s.AppStore.State())
	default:
		body = mutedStyle.Render(fmt.Sprintf("nothing to show in %s view", s.ViewMode)) + "\n[q] Quit"
	}
	if a.width > 0 {
		return frameStyle.Width(a.width - 2).Render(body)
	}
	return frameStyle.Render(body)
}

func (a *App) renderLogin(st login.State) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sign in"))
	b.WriteString("\n\n")
	b.WriteString(a.renderField("Username", st.Username, a.focus == fieldUsername))
	b.WriteString("\n")
	b.WriteString(a.renderField("Password", strings.Repeat("*", utf8.RuneCountInString(st.Password)), a.focus == fieldPassword))
	b.WriteString("\n\n")
	switch {
	case st.Submitting:
		b.WriteString(mutedStyle.Render("signing in..."))
	case st.Error != "":
		b.WriteString(errorStyle.Render("error: " + st.Error))
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("[tab] Switch field  [enter] Sign in  [esc] Clear  [ctrl+c] Quit"))
	return b.String()
}

func (a *App) renderField(label, value string, focused bool) string {
	cursor := " "
	if focused {
		cursor = "_"
		label = focusStyle.Render(label)
	}
	return fmt.Sprintf("%-10s %s%s", label+":", value, cursor)
}

func (a *App) renderApp(st app.State) string {
	var b strings.Builder
	header := headerStyle.Render(st.Title.Heading)
	if st.User != "" {
		header += "  " + sessionStyle.Render("signed in as "+st.User)
	}
	b.WriteString(header)
	b.WriteString("\n\n")

	tabs := make([]string, 0, len(app.Sections))
	for i, name := range app.Sections {
		label := fmt.Sprintf("%d %s", i+1, name)
		if name == st.Section {
			tabs = append(tabs, activeTab.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render(st.Section))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("[1-3/tab] Section  [ctrl+x] Log out  [q] Quit"))
	return b.String()
}
