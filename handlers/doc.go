// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the updoot API.

# Handler Types

  - UserHandler: registration, login, sessions and password reset
  - PostHandler: post listing and creator-only edits
  - VotingHandler: thin adapter over ledger.Ledger

Handlers read the caller from the request context (see middleware.UserID)
and never look at session tokens themselves, except Logout.

# Voting

	POST /posts/{id}/vote  {"value": 1}

returns

	{"voteWasRegistered": true, "amountChanged": 1, "newVoteStatus": 1}

Repeating a vote removes it (newVoteStatus null). A vote that fails inside
the ledger transaction is reported as
{"voteWasRegistered": false, "amountChanged": 0, "newVoteStatus": null}
with status 200; unknown posts get 404 and bad values 400.

# Listing

ListPosts pages newest first. Cursors are the created_at of a post in Unix
microseconds; pass page_info.end_cursor as ?after= to fetch the next page.
Page size defaults to 20 and is capped at 50.

# Password Reset

ForgotPassword stores a single-use token in Redis and hands the link to a
ResetLinkSender. LogSender only logs it.
*/
package handlers
