// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
)

// SessionHeader carries the session token issued at login.
const SessionHeader = "X-Session-Token"

type ctxKey int

const userIDKey ctxKey = 0

var errNoSession = errors.New("no session")

// SessionLookup resolves a session token into a user ID.
type SessionLookup interface {
	Lookup(ctx context.Context, token string) (int64, error)
}

// WithSession attaches the caller's user ID to the request context when
// the request carries a valid session token. Requests without one pass
// through anonymously.
func WithSession(sessions SessionLookup, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if userID, err := resolve(sessions, r); err == nil {
			r = r.WithContext(ContextWithUserID(r.Context(), userID))
		}
		next(w, r)
	}
}

// RequireUser rejects requests without a valid session with 401.
func RequireUser(sessions SessionLookup, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := resolve(sessions, r)
		if err != nil {
			if !errors.Is(err, errNoSession) {
				slog.Debug("session rejected", "error", err)
			}
			ErrorResponse(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		next(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
	}
}

// ContextWithUserID returns a copy of ctx carrying userID.
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the authenticated user ID, or 0 for anonymous requests.
func UserID(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

func resolve(sessions SessionLookup, r *http.Request) (int64, error) {
	token := r.Header.Get(SessionHeader)
	if token == "" {
		return 0, errNoSession
	}
	return sessions.Lookup(r.Context(), token)
}
