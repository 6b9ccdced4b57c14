package models

import "time"

// Input limits
const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

// Listing constants
const (
	MaxPageSize     = 50
	DefaultPageSize = 20
	SnippetLength   = 50
)

// Request types

type RegisterRequest struct {
	Username string `json:"username" validate:"min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ChangePasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type PostInput struct {
	Title string `json:"title" validate:"required,max=300"`
	Text  string `json:"text" validate:"required,max=40000"`
}

// 1 = upvote, -1 = downvote
type VoteRequest struct {
	Value int `json:"value"`
}

// Response types

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Either Errors or User is set. SessionToken is only returned by
// register, login and change-password.
type UserResponse struct {
	Errors       []FieldError `json:"errors,omitempty"`
	User         *User        `json:"user"`
	SessionToken string       `json:"session_token,omitempty"`
}

type ValidationResponse struct {
	Errors []FieldError `json:"errors"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type DeletePostResponse struct {
	Deleted bool `json:"deleted"`
}

type PageInfo struct {
	HasNextPage     bool   `json:"has_next_page"`
	HasPreviousPage bool   `json:"has_previous_page"`
	StartCursor     string `json:"start_cursor"`
	EndCursor       string `json:"end_cursor"`
}

type PostsResponse struct {
	Posts    []PostView `json:"posts"`
	PageInfo PageInfo   `json:"page_info"`
}

// Field names are camelCase for compatibility with existing clients
type VoteResult struct {
	VoteWasRegistered bool `json:"voteWasRegistered"`
	AmountChanged     int  `json:"amountChanged"`
	NewVoteStatus     *int `json:"newVoteStatus"`
}

// Domain types

type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"` // Never expose in JSON
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Post struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Text      string    `json:"text" db:"text"`
	Points    int       `json:"points" db:"points"`
	CreatorID int64     `json:"creator_id" db:"creator_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PostView is a post as listed to a particular caller.
type PostView struct {
	Post
	TextSnippet string `json:"text_snippet" db:"-"`
	Creator     string `json:"creator" db:"creator"`
	VoteStatus  *int   `json:"vote_status" db:"vote_status"` // nil when anonymous or not voted
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
