// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/updoot/ledger"
	"github.com/danielhkuo/updoot/metrics"
	"github.com/danielhkuo/updoot/middleware"
	"github.com/danielhkuo/updoot/models"
	"github.com/danielhkuo/updoot/session"
	"github.com/danielhkuo/updoot/testutil"
)

func setupRouter(t *testing.T) (*http.ServeMux, Dependencies) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	client, _ := testutil.SetupTestRedis(t)

	reg := prometheus.NewRegistry()
	deps := Dependencies{
		DB:       conn,
		Sessions: session.NewStoreFromClient(client, time.Hour),
		Ledger:   ledger.New(ledger.NewSQLStore(conn), ledger.WithMetrics(metrics.NewVoteMetrics(reg))),
		Gatherer: reg,
	}
	return NewRouter(deps, testutil.GetTestConfig()), deps
}

func do(mux *http.ServeMux, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := setupRouter(t)

	w := do(mux, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux, _ := setupRouter(t)

	w := do(mux, httptest.NewRequest("GET", "/", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	assert.Equal(t, "updoot API v1", w.Body.String())

	w = do(mux, httptest.NewRequest("GET", "/nope", nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestAuthenticatedRoutesRequireSession(t *testing.T) {
	mux, _ := setupRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/users/logout"},
		{"POST", "/posts"},
		{"PUT", "/posts/1"},
		{"DELETE", "/posts/1"},
		{"POST", "/posts/1/vote"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := do(mux, testutil.MakeRequest(tc.method, tc.path, nil, nil))
			testutil.AssertStatus(t, w, http.StatusUnauthorized)

			w = do(mux, testutil.MakeRequest(tc.method, tc.path, nil, map[string]string{
				middleware.SessionHeader: "not-a-real-token",
			}))
			testutil.AssertStatus(t, w, http.StatusUnauthorized)
		})
	}
}

func TestPublicRoutes(t *testing.T) {
	mux, _ := setupRouter(t)

	testCases := []struct {
		method         string
		path           string
		expectedStatus int
	}{
		{"GET", "/posts", http.StatusOK},
		{"GET", "/posts/1", http.StatusNotFound},
		{"GET", "/users/me", http.StatusOK},
		{"POST", "/users/login", http.StatusBadRequest},
		{"POST", "/users/register", http.StatusBadRequest},
		{"POST", "/users/forgot-password", http.StatusBadRequest},
		{"POST", "/users/change-password", http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := do(mux, testutil.MakeRequest(tc.method, tc.path, nil, nil))
			testutil.AssertStatus(t, w, tc.expectedStatus)
		})
	}
}

// TestVotingFlow drives a full session through the router: register, post,
// vote, list and read back the metrics.
func TestVotingFlow(t *testing.T) {
	mux, deps := setupRouter(t)

	w := do(mux, testutil.MakeRequest("POST", "/users/register", models.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret1",
	}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var user models.UserResponse
	testutil.AssertJSON(t, w, &user)
	require.NotEmpty(t, user.SessionToken)
	headers := map[string]string{middleware.SessionHeader: user.SessionToken}

	w = do(mux, testutil.MakeRequest("POST", "/posts", models.PostInput{Title: "Hello", Text: "World"}, headers))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var post models.PostView
	testutil.AssertJSON(t, w, &post)
	votePath := "/posts/" + strconv.FormatInt(post.ID, 10) + "/vote"

	w = do(mux, testutil.MakeRequest("POST", votePath, models.VoteRequest{Value: 1}, headers))
	testutil.AssertStatus(t, w, http.StatusOK)
	assert.JSONEq(t, `{"voteWasRegistered":true,"amountChanged":1,"newVoteStatus":1}`, w.Body.String())

	w = do(mux, testutil.MakeRequest("GET", "/posts", nil, headers))
	testutil.AssertStatus(t, w, http.StatusOK)

	var page models.PostsResponse
	testutil.AssertJSON(t, w, &page)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, 1, page.Posts[0].Points)
	require.NotNil(t, page.Posts[0].VoteStatus)
	assert.Equal(t, 1, *page.Posts[0].VoteStatus)

	// Anonymous callers see the score but no vote status
	w = do(mux, testutil.MakeRequest("GET", "/posts", nil, nil))
	testutil.AssertJSON(t, w, &page)
	require.Len(t, page.Posts, 1)
	assert.Nil(t, page.Posts[0].VoteStatus)

	assert.Equal(t, 1, testutil.PostPoints(t, deps.DB, post.ID))

	w = do(mux, httptest.NewRequest("GET", "/metrics", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	assert.True(t, strings.Contains(w.Body.String(), `updoot_ledger_transitions_total{action="insert"} 1`), w.Body.String())

	// Logging out invalidates the token
	w = do(mux, testutil.MakeRequest("POST", "/users/logout", nil, headers))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = do(mux, testutil.MakeRequest("POST", votePath, models.VoteRequest{Value: 1}, headers))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestMetricsDisabled(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	client, _ := testutil.SetupTestRedis(t)

	mux := NewRouter(Dependencies{
		DB:       conn,
		Sessions: session.NewStoreFromClient(client, time.Hour),
		Ledger:   ledger.New(ledger.NewSQLStore(conn)),
	}, testutil.GetTestConfig())

	w := do(mux, httptest.NewRequest("GET", "/metrics", nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
