// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /posts", middleware.WithLogging(handler))

Logs one line per request with method, path, remote, status, user_id and
duration_ms.

# Sessions

RequireUser resolves the X-Session-Token header into a user ID and rejects
the request with 401 when it is missing or unknown. WithSession does the
same lookup but lets anonymous requests through. Handlers read the caller
with UserID:

	mux.HandleFunc("POST /posts/{id}/vote",
		middleware.WithLogging(middleware.RequireUser(sessions, h.Vote)))

	userID := middleware.UserID(r.Context()) // 0 when anonymous

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.PostInput
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Checks X-Forwarded-For, then X-Real-IP, then RemoteAddr.
*/
package middleware
