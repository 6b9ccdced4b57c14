// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/updoot/middleware"
	"github.com/danielhkuo/updoot/session"
	"github.com/danielhkuo/updoot/testutil"
)

// withUser attaches a resolved session to the request, as RequireUser would.
func withUser(r *http.Request, userID int64) *http.Request {
	return r.WithContext(middleware.ContextWithUserID(r.Context(), userID))
}

func setupSessions(t *testing.T) *session.Store {
	t.Helper()
	client, _ := testutil.SetupTestRedis(t)
	return session.NewStoreFromClient(client, time.Hour)
}

func serve(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, r)
	return w
}

// recordingSender keeps every reset link instead of delivering it.
type recordingSender struct {
	mu    sync.Mutex
	links map[string]string
}

func (s *recordingSender) SendResetLink(_ context.Context, email, link string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.links == nil {
		s.links = make(map[string]string)
	}
	s.links[email] = link
	return nil
}

func (s *recordingSender) link(t *testing.T, email string) string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[email]
	require.True(t, ok, "no reset link sent to %s", email)
	return link
}
