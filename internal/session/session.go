// Package session holds the authenticated identity for each browser.
// The store is explicit state handed to every component that needs it,
// never ambient: consumers read it per request and never cache a copy
// across requests.
package session

import (
	"context"
	"errors"

	"weather-console/internal/models"
)

// ErrNotFound is returned by Get when no session exists for the ID.
var ErrNotFound = errors.New("session not found")

// ErrIncompleteSession is returned by Put when a token is written
// without its user record. The two always travel together.
var ErrIncompleteSession = errors.New("session must carry both user and token")

// Session is one browser's authenticated identity: the server-owned
// user record and the bearer token proving it.
type Session struct {
	User  *models.UserRecord
	Token string
}

// Authenticated reports whether the session carries a token. By the
// store invariant a token implies a user record.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// Store persists sessions keyed by the browser cookie ID. User and
// token are written together and cleared together. Writers are the
// auth flow (Put on success) and any client observing an authorization
// failure (Clear).
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, id string, s *Session) error
	Clear(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}
