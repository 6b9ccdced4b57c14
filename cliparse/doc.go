// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags and Environment Variables

	-p            PORT           Server port (default 4000)
	-d            DATABASE_URL   Database URL (required)
	-t            DATABASE_TYPE  postgres or sqlite (default postgres)
	-redis        REDIS_URL      Session store (default redis://localhost:6379/0)
	-session-ttl  SESSION_TTL    Session lifetime (default 8760h)
	-kafka        KAFKA_BROKERS  Comma separated brokers (optional)
	-kafka-topic  KAFKA_TOPIC    Vote event topic (default post-votes)
	-app-url      APP_URL        Frontend URL for reset links (default http://localhost:3000)

CLI flags take precedence over environment variables. main loads a .env
file into the environment before calling ParseFlags.

# Validation

ParseFlags returns an error if DATABASE_URL is missing, PORT is not a
number, the database type is unknown or the session TTL does not parse.
*/
package cliparse
