// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/updoot/cliparse"
	"github.com/danielhkuo/updoot/handlers"
	"github.com/danielhkuo/updoot/ledger"
	"github.com/danielhkuo/updoot/middleware"
	"github.com/danielhkuo/updoot/session"
)

// Dependencies are the long-lived services the handlers share.
type Dependencies struct {
	DB       *sqlx.DB
	Sessions *session.Store
	Ledger   *ledger.Ledger
	Sender   handlers.ResetLinkSender
	Gatherer prometheus.Gatherer // served on /metrics when set
}

func NewRouter(deps Dependencies, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	sender := deps.Sender
	if sender == nil {
		sender = handlers.LogSender{}
	}

	// Initialize handlers
	userHandler := handlers.NewUserHandler(deps.DB, deps.Sessions, sender, cfg)
	postHandler := handlers.NewPostHandler(deps.DB)
	votingHandler := handlers.NewVotingHandler(deps.Ledger)

	// anon resolves the session if present; authed rejects requests without one
	anon := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithSession(deps.Sessions, middleware.WithLogging(h))
	}
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireUser(deps.Sessions, middleware.WithLogging(h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if deps.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	// Accounts
	mux.HandleFunc("POST /users/register", anon(userHandler.Register))
	mux.HandleFunc("POST /users/login", anon(userHandler.Login))
	mux.HandleFunc("POST /users/logout", authed(userHandler.Logout))
	mux.HandleFunc("GET /users/me", anon(userHandler.Me))
	mux.HandleFunc("POST /users/forgot-password", anon(userHandler.ForgotPassword))
	mux.HandleFunc("POST /users/change-password", anon(userHandler.ChangePassword))

	// Posts
	mux.HandleFunc("GET /posts", anon(postHandler.ListPosts))
	mux.HandleFunc("GET /posts/{id}", anon(postHandler.GetPost))
	mux.HandleFunc("POST /posts", authed(postHandler.CreatePost))
	mux.HandleFunc("PUT /posts/{id}", authed(postHandler.UpdatePost))
	mux.HandleFunc("DELETE /posts/{id}", authed(postHandler.DeletePost))

	// Voting
	mux.HandleFunc("POST /posts/{id}/vote", authed(votingHandler.Vote))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("updoot API v1"))
	})

	return mux
}
