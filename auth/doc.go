// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing, token generation and input
validation.

# Passwords

Passwords are hashed with argon2id and stored in the PHC string format:

	hash, err := auth.HashPassword(password)
	err = auth.VerifyPassword(hash, attempt) // ErrPasswordInvalid on mismatch

VerifyPassword reads the cost parameters from the stored hash.

# Tokens

GenerateToken returns a random UUIDv4 string. It is used for session
tokens and password reset tokens, both of which live in Redis (see
package session).

# Validation

Request structs in package models carry go-playground/validator tags.
ValidateRegister, ValidatePost and ValidatePassword turn violations into
[]models.FieldError keyed by JSON field name:

	if errs := auth.ValidateRegister(req); errs != nil {
		// {"field": "username", "message": "Length must be greater than 2"}
	}
*/
package auth
