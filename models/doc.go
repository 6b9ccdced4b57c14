// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegisterRequest: username, email, password
  - LoginRequest: email, password
  - ForgotPasswordRequest: email
  - ChangePasswordRequest: token, new_password
  - PostInput: title, text
  - VoteRequest: value (1 or -1)

# Response Types

Types for JSON responses:

  - UserResponse: errors or user, plus session_token
  - PostsResponse: posts, page_info
  - VoteResult: voteWasRegistered, amountChanged, newVoteStatus
  - DeletePostResponse: deleted
  - ValidationResponse: errors (post input)
  - OKResponse: ok
  - ErrorResponse: error, message

# Domain Types

  - User: account (password hash never serialized)
  - Post: submitted post with its points total
  - PostView: post plus snippet, creator name and the caller's vote

# Constants

Input limits:

	MinUsernameLength = 3
	MinPasswordLength = 6

Listing:

	MaxPageSize   = 50
	SnippetLength = 50
*/
package models
