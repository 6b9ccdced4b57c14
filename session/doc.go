// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package session stores login sessions and password reset tokens in Redis.
// Clients send the session token in the X-Session-Token header.
package session
