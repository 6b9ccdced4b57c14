// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens database connections, creates the schema and normalizes
driver errors.

# Connections

Open accepts either PostgreSQL (lib/pq) or SQLite (modernc.org/sqlite):

	conn, err := db.Open(db.DriverPostgres, "postgres://...")
	conn, err := db.Open(db.DriverSQLite, ":memory:")

Queries throughout the application use ? placeholders and are rebound with
conn.Rebind before execution.

# Schema Creation

CreateSchema initializes all required tables for the connected dialect:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - app_user: registered accounts (email unique)
  - post: submitted links with the denormalized points total
  - vote: one row per (user_id, post_id), value -1 or 1

# Relationships

	app_user 1──* post
	app_user 1──* vote
	post     1──* vote

All foreign keys use ON DELETE CASCADE.

# Errors

CastErr maps driver errors onto ErrNotFound, ErrConflict and ErrTransient
so callers can use errors.Is regardless of the backing database.
*/
package db
