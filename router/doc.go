// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the updoot API.

NewRouter wires the handlers to their services and returns a ready mux:

	mux := router.NewRouter(router.Dependencies{
		DB:       conn,
		Sessions: sessions,
		Ledger:   l,
		Gatherer: reg,
	}, cfg)

# Endpoints

Health and metrics:

	GET /health
	GET /metrics  (only when a Gatherer is supplied)

Accounts:

	POST /users/register        - Create account, returns session token
	POST /users/login           - Returns session token
	POST /users/logout          - Requires session
	GET  /users/me              - Current user or null
	POST /users/forgot-password - Sends a reset link
	POST /users/change-password - Consumes a reset token

Posts:

	GET    /posts?first=&after= - Newest first, cursor paginated
	GET    /posts/{id}
	POST   /posts               - Requires session
	PUT    /posts/{id}          - Creator only
	DELETE /posts/{id}          - Creator only

Voting:

	POST /posts/{id}/vote       - {"value": 1 | -1}, requires session

Sessions are read from the X-Session-Token header. Public routes resolve
the session when present so responses can include the caller's own vote.
*/
package router
