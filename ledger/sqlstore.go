// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/updoot/db"
)

// SQLStore keeps the ledger in the vote table and the score in post.points.
type SQLStore struct {
	db *sqlx.DB

	// lockClause is appended to the ledger read so that concurrent votes on
	// the same (user, post) pair wait for each other. SQLite has no row
	// locks; its single connection already serializes writers.
	lockClause string
}

func NewSQLStore(conn *sqlx.DB) *SQLStore {
	s := &SQLStore{db: conn}
	if conn.DriverName() == db.DriverPostgres {
		s.lockClause = " FOR UPDATE"
	}
	return s
}

// InTx begins a transaction, runs fn and commits. The deferred rollback
// releases the connection on every path, including panics; after a
// successful commit it is a no-op.
func (s *SQLStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", db.CastErr(err))
	}
	defer tx.Rollback()

	if err := fn(&sqlTx{tx: tx, lockClause: s.lockClause}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", db.CastErr(err))
	}
	return nil
}

type sqlTx struct {
	tx         *sqlx.Tx
	lockClause string
}

func (t *sqlTx) GetVote(ctx context.Context, userID, postID int64) (Direction, error) {
	var value int
	err := t.tx.GetContext(ctx, &value, t.tx.Rebind(`
		SELECT value FROM vote WHERE user_id = ? AND post_id = ?`+t.lockClause),
		userID, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return None, nil
	}
	if err != nil {
		return None, fmt.Errorf("failed to read vote: %w", db.CastErr(err))
	}
	return Direction(value), nil
}

func (t *sqlTx) InsertVote(ctx context.Context, userID, postID int64, value Direction) error {
	_, err := t.tx.ExecContext(ctx, t.tx.Rebind(`
		INSERT INTO vote (user_id, post_id, value) VALUES (?, ?, ?)
	`), userID, postID, int(value))
	if err != nil {
		return fmt.Errorf("failed to insert vote: %w", db.CastErr(err))
	}
	return nil
}

func (t *sqlTx) UpdateVote(ctx context.Context, userID, postID int64, value Direction) error {
	res, err := t.tx.ExecContext(ctx, t.tx.Rebind(`
		UPDATE vote SET value = ? WHERE user_id = ? AND post_id = ?
	`), int(value), userID, postID)
	if err != nil {
		return fmt.Errorf("failed to update vote: %w", db.CastErr(err))
	}
	return expectOneRow(res, "vote")
}

func (t *sqlTx) DeleteVote(ctx context.Context, userID, postID int64) error {
	res, err := t.tx.ExecContext(ctx, t.tx.Rebind(`
		DELETE FROM vote WHERE user_id = ? AND post_id = ?
	`), userID, postID)
	if err != nil {
		return fmt.Errorf("failed to delete vote: %w", db.CastErr(err))
	}
	return expectOneRow(res, "vote")
}

func (t *sqlTx) IncrementScore(ctx context.Context, postID int64, delta int) error {
	res, err := t.tx.ExecContext(ctx, t.tx.Rebind(`
		UPDATE post SET points = points + ? WHERE id = ?
	`), delta, postID)
	if err != nil {
		return fmt.Errorf("failed to update points: %w", db.CastErr(err))
	}
	return expectOneRow(res, "post")
}

func expectOneRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("%s: %w", what, db.ErrNotFound)
	}
	return nil
}
