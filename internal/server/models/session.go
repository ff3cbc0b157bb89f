package models

import "time"

// Session is the verified identity carried by a bearer token. It is rebuilt
// from the token on every request and never persisted.
type Session struct {
	AccountID AccountID
	IssuedAt  time.Time
	NotBefore time.Time
	ExpiresAt time.Time
}

// ValidAt reports whether t falls inside [NotBefore, ExpiresAt).
func (s Session) ValidAt(t time.Time) bool {
	return !t.Before(s.NotBefore) && t.Before(s.ExpiresAt)
}
