package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Session remembers the logged-in user between command invocations.
type Session struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// LoadSession reads the session file at path. A missing file yields an
// empty session.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Session{}, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", path, err)
	}
	return &s, nil
}

// Save writes the session to path, readable by the owner only.
func (s *Session) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// LoggedIn reports whether the session holds a user.
func (s *Session) LoggedIn() bool {
	return s.UserID > 0
}
