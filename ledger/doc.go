// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger records one vote per user per post and keeps each post's
points equal to the sum of its votes.

# Transitions

Next maps the caller's current vote and the requested direction onto a
ledger action and a score delta:

	current  requested  action  delta  status
	none     up         insert  +1     up
	none     down       insert  -1     down
	up       up         delete  -1     none   (undo)
	down     down       delete  +1     none   (undo)
	up       down       update  -2     down   (flip)
	down     up         update  +2     up     (flip)

Voting the same direction twice is an undo, never a no-op.

# Transactions

Ledger.Vote reads the current vote, applies the action and increments the
post score inside a single Store.InTx call:

	l := ledger.New(ledger.NewSQLStore(conn),
		ledger.WithMetrics(m),
		ledger.WithPublisher(p),
	)
	res, err := l.Vote(ctx, ledger.Caller{UserID: uid}, postID, ledger.Up)

The score is incremented in place (points = points + delta), so votes by
different users on the same post never lose each other's deltas. On
PostgreSQL the ledger row is read FOR UPDATE, serializing votes on the
same (user, post) pair. Any store error rolls the transaction back and
Vote returns the zero Result with the error; nothing is retried.
*/
package ledger
