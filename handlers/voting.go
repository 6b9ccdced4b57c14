// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"github.com/danielhkuo/updoot/db"
	"github.com/danielhkuo/updoot/ledger"
	"github.com/danielhkuo/updoot/middleware"
	"github.com/danielhkuo/updoot/models"
)

type VotingHandler struct {
	ledger *ledger.Ledger
}

func NewVotingHandler(l *ledger.Ledger) *VotingHandler {
	return &VotingHandler{ledger: l}
}

// Vote handles POST /posts/{id}/vote
// Voting the caller's current direction again removes the vote.
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	dir, err := ledger.ParseDirection(req.Value)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	caller := ledger.Caller{UserID: middleware.UserID(r.Context())}
	res, err := h.ledger.Vote(r.Context(), caller, postID, dir)
	switch {
	case errors.Is(err, ledger.ErrUnauthenticated):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "not authenticated")
		return
	case errors.Is(err, db.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Post not found")
		return
	}

	// Any other failure was rolled back and is reported as an unregistered
	// vote; the ledger has already logged it.
	middleware.JSONResponse(w, http.StatusOK, voteResult(res))
}

// newVoteStatus is null for failed votes and for undos.
func voteResult(res ledger.Result) models.VoteResult {
	out := models.VoteResult{
		VoteWasRegistered: res.Registered,
		AmountChanged:     res.Delta,
	}
	if res.Registered && res.Status != ledger.None {
		status := int(res.Status)
		out.NewVoteStatus = &status
	}
	return out
}
