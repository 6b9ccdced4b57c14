// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import "context"

// Store runs ledger work inside a single transaction. fn's changes are
// committed when it returns nil and rolled back otherwise.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of ledger and score operations available inside a
// transaction.
type Tx interface {
	// GetVote returns None when the user has not voted on the post.
	GetVote(ctx context.Context, userID, postID int64) (Direction, error)
	InsertVote(ctx context.Context, userID, postID int64, value Direction) error
	UpdateVote(ctx context.Context, userID, postID int64, value Direction) error
	DeleteVote(ctx context.Context, userID, postID int64) error
	// IncrementScore adds delta to the post's points in place.
	IncrementScore(ctx context.Context, postID int64, delta int) error
}
