// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the updoot API server.

updoot is a link-aggregator backend: users register, submit posts and vote
them up or down. Every post's points always equal the sum of the votes
recorded against it.

# Starting the Server

The server reads environment variables (optionally from a .env file) or
CLI flags:

	DATABASE_URL=postgres://... REDIS_URL=redis://localhost:6379/0 go run .

Or with flags:

	go run . -p 4000 -d "postgres://..." -redis "redis://..."

For local development SQLite works too:

	go run . -t sqlite -d "file:updoot.db"

# Configuration

Required settings:

  - DATABASE_URL (-d): database connection string

Optional settings:

  - PORT (-p): server port (default: 4000)
  - DATABASE_TYPE (-t): postgres or sqlite (default: postgres)
  - REDIS_URL (-redis): session store (default: redis://localhost:6379/0)
  - SESSION_TTL (-session-ttl): session lifetime (default: 8760h)
  - KAFKA_BROKERS (-kafka): comma separated; vote events are published when set
  - KAFKA_TOPIC (-kafka-topic): default post-votes
  - APP_URL (-app-url): base of password reset links

# Architecture

  - ledger: vote transitions and the transactional vote operation
  - handlers: HTTP request handlers (users, posts, voting)
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, sessions, JSON helpers
  - session: Redis-backed sessions and reset tokens
  - events: Kafka vote event publisher
  - metrics: Prometheus ledger metrics
  - models: request/response types
  - auth: password hashing and input validation
  - db: connections, schema and error classification
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
