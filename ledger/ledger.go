// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/updoot/events"
	"github.com/danielhkuo/updoot/metrics"
)

var ErrUnauthenticated = errors.New("not authenticated")

// Caller identifies who is voting. The zero value is an anonymous caller.
type Caller struct {
	UserID int64
}

// Result is returned to the API layer. A failed vote yields the zero
// Result: not registered, no delta, no status.
type Result struct {
	Registered bool
	Delta      int
	Status     Direction
}

// Ledger records votes and keeps post scores in step with them.
type Ledger struct {
	store     Store
	publisher events.Publisher
	metrics   *metrics.VoteMetrics
	now       func() time.Time
}

type Option func(*Ledger)

// WithPublisher emits a VoteEvent after every committed vote.
func WithPublisher(p events.Publisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

func WithMetrics(m *metrics.VoteMetrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

func New(store Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:     store,
		publisher: events.Discard{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Vote applies the caller's requested direction to postID.
//
// The ledger read, the ledger write and the score increment run in one
// transaction. On any store error the transaction is rolled back, nothing
// is retried and the zero Result is returned together with the error.
func (l *Ledger) Vote(ctx context.Context, caller Caller, postID int64, requested Direction) (Result, error) {
	if caller.UserID == 0 {
		return Result{}, ErrUnauthenticated
	}
	if !requested.Valid() {
		return Result{}, ErrInvalidDirection
	}

	start := l.now()
	var tr Transition
	err := l.store.InTx(ctx, func(tx Tx) error {
		current, err := tx.GetVote(ctx, caller.UserID, postID)
		if err != nil {
			return err
		}

		tr = Next(current, requested)
		switch tr.Action {
		case ActionInsert:
			err = tx.InsertVote(ctx, caller.UserID, postID, requested)
		case ActionUpdate:
			err = tx.UpdateVote(ctx, caller.UserID, postID, requested)
		case ActionDelete:
			err = tx.DeleteVote(ctx, caller.UserID, postID)
		}
		if err != nil {
			return err
		}

		return tx.IncrementScore(ctx, postID, tr.Delta)
	})
	took := l.now().Sub(start)

	if err != nil {
		l.metrics.RolledBack(took)
		slog.Warn("vote rolled back",
			"user_id", caller.UserID,
			"post_id", postID,
			"requested", requested.String(),
			"error", err,
		)
		return Result{}, fmt.Errorf("vote on post %d: %w", postID, err)
	}

	l.metrics.Committed(tr.Action.String(), took)
	l.publish(ctx, caller, postID, tr)

	return Result{Registered: true, Delta: tr.Delta, Status: tr.Status}, nil
}

// publish is best effort: the vote is already committed.
func (l *Ledger) publish(ctx context.Context, caller Caller, postID int64, tr Transition) {
	event := events.VoteEvent{
		UserID:    caller.UserID,
		PostID:    postID,
		Action:    tr.Action.String(),
		Delta:     tr.Delta,
		Timestamp: l.now().UTC(),
	}
	if tr.Status != None {
		status := int(tr.Status)
		event.Status = &status
	}

	if err := l.publisher.Publish(ctx, event); err != nil {
		slog.Warn("failed to publish vote event", "post_id", postID, "error", err)
	}
}
