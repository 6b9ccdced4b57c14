// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/updoot/auth"
	"github.com/danielhkuo/updoot/db"
	"github.com/danielhkuo/updoot/middleware"
	"github.com/danielhkuo/updoot/models"
)

var errInvalidID = errors.New("invalid post id")

// Every post query selects the same view: the post, its creator's name and
// the caller's own vote (NULL for anonymous callers, since no user has ID 0).
const postViewSelect = `
	SELECT p.id, p.title, p.text, p.points, p.creator_id, p.created_at, p.updated_at,
	       u.username AS creator, v.value AS vote_status
	FROM post p
	JOIN app_user u ON u.id = p.creator_id
	LEFT JOIN vote v ON v.post_id = p.id AND v.user_id = ?
`

type PostHandler struct {
	db *sqlx.DB
}

func NewPostHandler(db *sqlx.DB) *PostHandler {
	return &PostHandler{db: db}
}

// ListPosts handles GET /posts?first=N&after=CURSOR
// Newest first. The cursor is the created_at of the last post seen, in
// Unix microseconds.
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	limit := models.DefaultPageSize
	if v := r.URL.Query().Get("first"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "first must be a positive integer")
			return
		}
		limit = min(n, models.MaxPageSize)
	}

	userID := middleware.UserID(r.Context())
	query := postViewSelect
	args := []interface{}{userID}

	after := r.URL.Query().Get("after")
	if after != "" {
		micros, err := strconv.ParseInt(after, 10, 64)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "invalid cursor")
			return
		}
		query += ` WHERE p.created_at < ?`
		args = append(args, time.UnixMicro(micros).UTC())
	}

	// Fetch one extra row to learn whether another page exists
	query += ` ORDER BY p.created_at DESC, p.id DESC LIMIT ?`
	args = append(args, limit+1)

	var posts []models.PostView
	if err := h.db.SelectContext(r.Context(), &posts, h.db.Rebind(query), args...); err != nil {
		slog.Error("failed to list posts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	hasNext := len(posts) > limit
	if hasNext {
		posts = posts[:limit]
	}

	resp := models.PostsResponse{
		Posts: make([]models.PostView, 0, len(posts)),
		PageInfo: models.PageInfo{
			HasNextPage:     hasNext,
			HasPreviousPage: after != "",
		},
	}
	for _, p := range posts {
		p.TextSnippet = snippet(p.Text)
		resp.Posts = append(resp.Posts, p)
	}
	if len(resp.Posts) > 0 {
		resp.PageInfo.StartCursor = cursor(resp.Posts[0].CreatedAt)
		resp.PageInfo.EndCursor = cursor(resp.Posts[len(resp.Posts)-1].CreatedAt)
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetPost handles GET /posts/{id}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.postView(r.Context(), postID, middleware.UserID(r.Context()))
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		slog.Error("failed to query post", "error", err, "post_id", postID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, post)
}

// CreatePost handles POST /posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var in models.PostInput
	if err := middleware.ParseJSONBody(r, &in); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	in.Title = strings.TrimSpace(in.Title)

	if errs := auth.ValidatePost(in); errs != nil {
		middleware.JSONResponse(w, http.StatusBadRequest, models.ValidationResponse{Errors: errs})
		return
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	var postID int64
	err := h.db.GetContext(r.Context(), &postID, h.db.Rebind(`
		INSERT INTO post (title, text, points, creator_id, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?, ?)
		RETURNING id
	`), in.Title, in.Text, userID, now, now)

	if err != nil {
		if errors.Is(db.CastErr(err), db.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		slog.Error("failed to insert post", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create post")
		return
	}

	post, err := h.postView(r.Context(), postID, userID)
	if err != nil {
		slog.Error("failed to load created post", "error", err, "post_id", postID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("post created", "post_id", postID, "user_id", userID)

	middleware.JSONResponse(w, http.StatusCreated, post)
}

// UpdatePost handles PUT /posts/{id}
// Only the creator may edit a post; anyone else gets 404.
func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	postID, err := pathID(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var in models.PostInput
	if err := middleware.ParseJSONBody(r, &in); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	in.Title = strings.TrimSpace(in.Title)

	if errs := auth.ValidatePost(in); errs != nil {
		middleware.JSONResponse(w, http.StatusBadRequest, models.ValidationResponse{Errors: errs})
		return
	}

	res, err := h.db.ExecContext(r.Context(), h.db.Rebind(`
		UPDATE post SET title = ?, text = ?, updated_at = ?
		WHERE id = ? AND creator_id = ?
	`), in.Title, in.Text, time.Now().UTC().Truncate(time.Microsecond), postID, userID)
	if err != nil {
		slog.Error("failed to update post", "error", err, "post_id", postID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update post")
		return
	}

	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Post not found")
		return
	}

	post, err := h.postView(r.Context(), postID, userID)
	if err != nil {
		slog.Error("failed to load updated post", "error", err, "post_id", postID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, post)
}

// DeletePost handles DELETE /posts/{id}
// Votes on the post go with it (ON DELETE CASCADE).
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	postID, err := pathID(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.db.ExecContext(r.Context(), h.db.Rebind(`
		DELETE FROM post WHERE id = ? AND creator_id = ?
	`), postID, userID)
	if err != nil {
		slog.Error("failed to delete post", "error", err, "post_id", postID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	n, _ := res.RowsAffected()
	if n > 0 {
		slog.Info("post deleted", "post_id", postID, "user_id", userID)
	}

	middleware.JSONResponse(w, http.StatusOK, models.DeletePostResponse{Deleted: n > 0})
}

func (h *PostHandler) postView(ctx context.Context, postID, userID int64) (models.PostView, error) {
	var post models.PostView
	err := h.db.GetContext(ctx, &post, h.db.Rebind(postViewSelect+` WHERE p.id = ?`), userID, postID)
	if err != nil {
		return post, db.CastErr(err)
	}
	post.TextSnippet = snippet(post.Text)
	return post, nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errInvalidID
	}
	return id, nil
}

func cursor(t time.Time) string {
	return strconv.FormatInt(t.UnixMicro(), 10)
}

// snippet cuts text to SnippetLength runes.
func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= models.SnippetLength {
		return text
	}
	return string(runes[:models.SnippetLength])
}
