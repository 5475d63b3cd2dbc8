// Package prefs keeps small per-user shell preferences outside the database.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

const sessionFile = "session.json"

// Session is what the shell remembers between runs. Token is the signed
// session of the last user still signed in.
type Session struct {
	LastUsername string `json:"last_username,omitempty"`
	Token        string `json:"token,omitempty"`
}

func sessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "manttest")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionFile), nil
}

func SaveSession(s Session) error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadSession returns the zero Session when nothing was saved yet.
func LoadSession() (Session, error) {
	path, err := sessionPath()
	if err != nil {
		return Session{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, nil
		}
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// RememberLogin records name as the last user to sign in, with the token that
// lets the next run skip the login screen.
func RememberLogin(name, token string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	s, err := LoadSession()
	if err != nil {
		s = Session{}
	}
	if s.LastUsername == name && s.Token == token {
		return nil
	}
	s.LastUsername, s.Token = name, token
	return SaveSession(s)
}

// ForgetToken drops the remembered token and keeps the username.
func ForgetToken() error {
	s, err := LoadSession()
	if err != nil {
		s = Session{}
	}
	if s.Token == "" && err == nil {
		return nil
	}
	s.Token = ""
	return SaveSession(s)
}
