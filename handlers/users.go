// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/updoot/auth"
	"github.com/danielhkuo/updoot/cliparse"
	"github.com/danielhkuo/updoot/db"
	"github.com/danielhkuo/updoot/middleware"
	"github.com/danielhkuo/updoot/models"
	"github.com/danielhkuo/updoot/session"
)

type UserHandler struct {
	db       *sqlx.DB
	sessions *session.Store
	sender   ResetLinkSender
	cfg      cliparse.Config
}

func NewUserHandler(db *sqlx.DB, sessions *session.Store, sender ResetLinkSender, cfg cliparse.Config) *UserHandler {
	return &UserHandler{db: db, sessions: sessions, sender: sender, cfg: cfg}
}

// Register handles POST /users/register
// Creates the account and logs the new user in
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = normalizeEmail(req.Email)

	if errs := auth.ValidateRegister(req); errs != nil {
		middleware.JSONResponse(w, http.StatusBadRequest, models.UserResponse{Errors: errs})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	now := time.Now().UTC()
	var user models.User
	err = h.db.GetContext(r.Context(), &user, h.db.Rebind(`
		INSERT INTO app_user (username, email, password, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, username, email, password, created_at, updated_at
	`), req.Username, req.Email, hash, now, now)

	if err != nil {
		if errors.Is(db.CastErr(err), db.ErrConflict) {
			middleware.JSONResponse(w, http.StatusConflict, models.UserResponse{
				Errors: []models.FieldError{{Field: "email", Message: "email already taken"}},
			})
			return
		}
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	token, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to create session", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	slog.Info("user registered", "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.UserResponse{
		User:         &user,
		SessionToken: token,
	})
}

// Login handles POST /users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user, err := h.userByEmail(r.Context(), normalizeEmail(req.Email))
	if errors.Is(err, db.ErrNotFound) {
		middleware.JSONResponse(w, http.StatusUnauthorized, models.UserResponse{
			Errors: []models.FieldError{{Field: "email", Message: "Email not found"}},
		})
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.VerifyPassword(user.Password, req.Password); err != nil {
		if !errors.Is(err, auth.ErrPasswordInvalid) {
			slog.Error("stored password hash unreadable", "error", err, "user_id", user.ID)
		}
		middleware.JSONResponse(w, http.StatusUnauthorized, models.UserResponse{
			Errors: []models.FieldError{{Field: "password", Message: "Incorrect password"}},
		})
		return
	}

	token, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to create session", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.UserResponse{
		User:         &user,
		SessionToken: token,
	})
}

// Logout handles POST /users/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(middleware.SessionHeader)
	if err := h.sessions.Destroy(r.Context(), token); err != nil {
		slog.Warn("failed to destroy session", "error", err)
		middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: false})
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// Me handles GET /users/me
// Returns the logged in user, or a null user for anonymous callers
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == 0 {
		middleware.JSONResponse(w, http.StatusOK, models.UserResponse{})
		return
	}

	user, err := h.userByID(r.Context(), userID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.JSONResponse(w, http.StatusOK, models.UserResponse{})
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.UserResponse{User: &user})
}

// ForgotPassword handles POST /users/forgot-password
// Always reports success so the endpoint cannot be used to probe emails
func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email := normalizeEmail(req.Email)
	user, err := h.userByEmail(r.Context(), email)
	if errors.Is(err, db.ErrNotFound) {
		middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	token, err := h.sessions.CreateResetToken(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to store reset token", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	link := h.cfg.AppURL + "/change-password/" + token
	if err := h.sender.SendResetLink(r.Context(), email, link); err != nil {
		slog.Error("failed to send reset link", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// ChangePassword handles POST /users/change-password
// Consumes a reset token, sets the new password and logs the user in
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if fe := auth.ValidatePassword(req.NewPassword, "new_password"); fe != nil {
		middleware.JSONResponse(w, http.StatusBadRequest, models.UserResponse{Errors: []models.FieldError{*fe}})
		return
	}

	userID, err := h.sessions.ResetTokenUser(r.Context(), req.Token)
	if errors.Is(err, session.ErrNoSession) {
		middleware.JSONResponse(w, http.StatusBadRequest, models.UserResponse{
			Errors: []models.FieldError{{Field: "token", Message: "Token expired"}},
		})
		return
	}
	if err != nil {
		slog.Error("failed to read reset token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	var user models.User
	err = h.db.GetContext(r.Context(), &user, h.db.Rebind(`
		UPDATE app_user SET password = ?, updated_at = ?
		WHERE id = ?
		RETURNING id, username, email, password, created_at, updated_at
	`), hash, time.Now().UTC(), userID)

	if errors.Is(db.CastErr(err), db.ErrNotFound) {
		middleware.JSONResponse(w, http.StatusBadRequest, models.UserResponse{
			Errors: []models.FieldError{{Field: "token", Message: "User no longer exists"}},
		})
		return
	}
	if err != nil {
		slog.Error("failed to update password", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	if err := h.sessions.DeleteResetToken(r.Context(), req.Token); err != nil {
		slog.Warn("failed to delete reset token", "error", err, "user_id", userID)
	}

	token, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to create session", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	slog.Info("password changed", "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusOK, models.UserResponse{
		User:         &user,
		SessionToken: token,
	})
}

func (h *UserHandler) userByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := h.db.GetContext(ctx, &user, h.db.Rebind(`
		SELECT id, username, email, password, created_at, updated_at
		FROM app_user WHERE email = ?
	`), email)
	return user, db.CastErr(err)
}

func (h *UserHandler) userByID(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	err := h.db.GetContext(ctx, &user, h.db.Rebind(`
		SELECT id, username, email, password, created_at, updated_at
		FROM app_user WHERE id = ?
	`), id)
	return user, db.CastErr(err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
