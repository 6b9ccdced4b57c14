// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"time"
)

// VoteEvent is emitted after a vote transaction commits.
type VoteEvent struct {
	UserID    int64     `json:"user_id"`
	PostID    int64     `json:"post_id"`
	Action    string    `json:"action"`
	Delta     int       `json:"delta"`
	Status    *int      `json:"status"` // nil when the vote was undone
	Timestamp time.Time `json:"timestamp"`
}

type Publisher interface {
	Publish(ctx context.Context, event VoteEvent) error
	Close() error
}

// Discard drops every event. Used when no brokers are configured.
type Discard struct{}

func (Discard) Publish(context.Context, VoteEvent) error { return nil }
func (Discard) Close() error                            { return nil }
