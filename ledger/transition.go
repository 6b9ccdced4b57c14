// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"errors"
	"strconv"
)

var ErrInvalidDirection = errors.New("vote value must be 1 or -1")

// Direction is a vote value. None is only ever a current state; a request
// is always Up or Down.
type Direction int

const (
	Down Direction = -1
	None Direction = 0
	Up   Direction = 1
)

// ParseDirection converts an API vote value into a Direction.
func ParseDirection(v int) (Direction, error) {
	switch Direction(v) {
	case Up, Down:
		return Direction(v), nil
	}
	return None, ErrInvalidDirection
}

func (d Direction) Valid() bool {
	return d == Up || d == Down
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case None:
		return "none"
	}
	return "Direction(" + strconv.Itoa(int(d)) + ")"
}

// Action is the change applied to the ledger row of a (user, post) pair.
type Action int

const (
	ActionInsert Action = iota + 1
	ActionUpdate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionInsert:
		return "insert"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	}
	return "Action(" + strconv.Itoa(int(a)) + ")"
}

// Transition describes what a vote request does to the ledger and to the
// post score. Status is None when the request undid an existing vote.
type Transition struct {
	Action Action
	Delta  int
	Status Direction
}

// Next computes the transition for a requested direction given the
// caller's current vote. Re-submitting the direction already held undoes
// the vote.
func Next(current, requested Direction) Transition {
	switch current {
	case None:
		return Transition{Action: ActionInsert, Delta: int(requested), Status: requested}
	case requested:
		return Transition{Action: ActionDelete, Delta: -int(requested), Status: None}
	default:
		return Transition{Action: ActionUpdate, Delta: 2 * int(requested), Status: requested}
	}
}
