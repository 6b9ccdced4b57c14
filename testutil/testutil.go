// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/updoot/auth"
	"github.com/danielhkuo/updoot/cliparse"
	"github.com/danielhkuo/updoot/db"
)

// PostgresEnv names the environment variable holding a PostgreSQL URL.
// When it is unset tests run against an in-memory SQLite database.
const PostgresEnv = "UPDOOT_TEST_POSTGRES"

// TestPassword is the plain text password of every fixture user.
const TestPassword = "hunter22"

var (
	hashOnce     sync.Once
	testPassHash string
)

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	driver, url := db.DriverSQLite, ":memory:"
	if pgURL := os.Getenv(PostgresEnv); pgURL != "" {
		driver, url = db.DriverPostgres, pgURL
	}

	conn, err := db.Open(driver, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// Clean up tables before each test
	if err := db.DropSchema(conn); err != nil {
		t.Fatalf("Failed to clean database: %v", err)
	}
	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestRedis starts an in-process Redis server and returns a client
// connected to it. Both are shut down when the test ends.
func SetupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return client, mr
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         4000,
		DatabaseURL:  ":memory:",
		DatabaseType: db.DriverSQLite,
		SessionTTL:   time.Hour,
		KafkaTopic:   "post-votes",
		AppURL:       "http://localhost:3000",
	}
}

// CreateTestUser inserts a user whose password is TestPassword and returns
// its ID. The email is derived from the username.
func CreateTestUser(t *testing.T, conn *sqlx.DB, username string) int64 {
	t.Helper()

	hashOnce.Do(func() {
		h, err := auth.HashPassword(TestPassword)
		if err != nil {
			panic(err)
		}
		testPassHash = h
	})

	now := time.Now().UTC()
	var id int64
	err := conn.Get(&id, conn.Rebind(`
		INSERT INTO app_user (username, email, password, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`), username, username+"@example.com", testPassHash, now, now)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return id
}

// CreateTestPost inserts a post with zero points and returns its ID.
func CreateTestPost(t *testing.T, conn *sqlx.DB, creatorID int64, title string) int64 {
	t.Helper()
	return CreateTestPostAt(t, conn, creatorID, title, time.Now().UTC())
}

// CreateTestPostAt inserts a post with an explicit creation time, for
// pagination tests.
func CreateTestPostAt(t *testing.T, conn *sqlx.DB, creatorID int64, title string, createdAt time.Time) int64 {
	t.Helper()

	createdAt = createdAt.UTC().Truncate(time.Microsecond)
	var id int64
	err := conn.Get(&id, conn.Rebind(`
		INSERT INTO post (title, text, points, creator_id, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?, ?)
		RETURNING id
	`), title, "Text of "+title, creatorID, createdAt, createdAt)
	if err != nil {
		t.Fatalf("Failed to create test post: %v", err)
	}

	return id
}

// SetTestVote writes a ledger row and adjusts the post score to match,
// bypassing the ledger.
func SetTestVote(t *testing.T, conn *sqlx.DB, userID, postID int64, value int) {
	t.Helper()

	_, err := conn.Exec(conn.Rebind(`INSERT INTO vote (user_id, post_id, value) VALUES (?, ?, ?)`), userID, postID, value)
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
	_, err = conn.Exec(conn.Rebind(`UPDATE post SET points = points + ? WHERE id = ?`), value, postID)
	if err != nil {
		t.Fatalf("Failed to update test post points: %v", err)
	}
}

// PostPoints returns the stored score of a post.
func PostPoints(t *testing.T, conn *sqlx.DB, postID int64) int {
	t.Helper()

	var points int
	if err := conn.Get(&points, conn.Rebind(`SELECT points FROM post WHERE id = ?`), postID); err != nil {
		t.Fatalf("Failed to read post points: %v", err)
	}
	return points
}

// LedgerSum returns the sum of all vote values recorded for a post.
func LedgerSum(t *testing.T, conn *sqlx.DB, postID int64) int {
	t.Helper()

	var sum int
	if err := conn.Get(&sum, conn.Rebind(`SELECT COALESCE(SUM(value), 0) FROM vote WHERE post_id = ?`), postID); err != nil {
		t.Fatalf("Failed to sum votes: %v", err)
	}
	return sum
}

// VoteValue returns the ledger value for (userID, postID), or 0 if the user
// has no vote on the post.
func VoteValue(t *testing.T, conn *sqlx.DB, userID, postID int64) int {
	t.Helper()

	var values []int
	err := conn.Select(&values, conn.Rebind(`SELECT value FROM vote WHERE user_id = ? AND post_id = ?`), userID, postID)
	if err != nil {
		t.Fatalf("Failed to read vote: %v", err)
	}
	if len(values) == 0 {
		return 0
	}
	return values[0]
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
