// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/updoot/models"
	"github.com/danielhkuo/updoot/testutil"
)

func listPosts(t *testing.T, h *PostHandler, query string, userID int64) models.PostsResponse {
	t.Helper()
	req := testutil.MakeRequest("GET", "/posts"+query, nil, nil)
	if userID != 0 {
		req = withUser(req, userID)
	}
	w := serve(h.ListPosts, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.PostsResponse
	testutil.AssertJSON(t, w, &resp)
	return resp
}

func titles(posts []models.PostView) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Title)
	}
	return out
}

func TestCreatePost(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := NewPostHandler(conn)
	aliceID := testutil.CreateTestUser(t, conn, "alice")

	req := withUser(testutil.MakeRequest("POST", "/posts", models.PostInput{
		Title: "  Hello  ",
		Text:  "First post",
	}, nil), aliceID)
	w := serve(h.CreatePost, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var post models.PostView
	testutil.AssertJSON(t, w, &post)
	assert.NotZero(t, post.ID)
	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, "First post", post.Text)
	assert.Equal(t, 0, post.Points)
	assert.Equal(t, aliceID, post.CreatorID)
	assert.Equal(t, "alice", post.Creator)
	assert.Nil(t, post.VoteStatus)
	assert.Equal(t, 0, testutil.PostPoints(t, conn, post.ID))
}

func TestCreatePost_Validation(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := NewPostHandler(conn)
	aliceID := testutil.CreateTestUser(t, conn, "alice")

	tests := []struct {
		name  string
		input models.PostInput
		field string
	}{
		{"missing title", models.PostInput{Title: "   ", Text: "body"}, "title"},
		{"missing text", models.PostInput{Title: "title"}, "text"},
		{"title too long", models.PostInput{Title: strings.Repeat("a", 301), Text: "body"}, "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withUser(testutil.MakeRequest("POST", "/posts", tt.input, nil), aliceID)
			w := serve(h.CreatePost, req)
			testutil.AssertStatus(t, w, http.StatusBadRequest)

			var resp models.ValidationResponse
			testutil.AssertJSON(t, w, &resp)
			require.Len(t, resp.Errors, 1)
			assert.Equal(t, tt.field, resp.Errors[0].Field)
		})
	}
}

func TestListPosts_Pagination(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := NewPostHandler(conn)
	aliceID := testutil.CreateTestUser(t, conn, "alice")

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		testutil.CreateTestPostAt(t, conn, aliceID, fmt.Sprintf("post %d", i), base.Add(time.Duration(i)*time.Minute))
	}

	page := listPosts(t, h, "?first=2", 0)
	assert.Equal(t, []string{"post 4", "post 3"}, titles(page.Posts))
	assert.True(t, page.PageInfo.HasNextPage)
	assert.False(t, page.PageInfo.HasPreviousPage)
	assert.Equal(t, strconv.FormatInt(base.Add(4*time.Minute).UnixMicro(), 10), page.PageInfo.StartCursor)
	assert.Equal(t, strconv.FormatInt(base.Add(3*time.Minute).UnixMicro(), 10), page.PageInfo.EndCursor)

	page = listPosts(t, h, "?first=2&after="+page.PageInfo.EndCursor, 0)
	assert.Equal(t, []string{"post 2", "post 1"}, titles(page.Posts))
	assert.True(t, page.PageInfo.HasNextPage)
	assert.True(t, page.PageInfo.HasPreviousPage)

	page = listPosts(t, h, "?first=2&after="+page.PageInfo.EndCursor, 0)
	assert.Equal(t, []string{"post 0"}, titles(page.Posts))
	assert.False(t, page.PageInfo.HasNextPage)

	page = listPosts(t, h, "?after="+page.PageInfo.EndCursor, 0)
	assert.Empty(t, page.Posts)
	assert.Empty(t, page.PageInfo.EndCursor)
}

func TestListPosts_PageSizeCapped(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := NewPostHandler(conn)
	aliceID := testutil.CreateTestUser(t, conn, "alice")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < models.MaxPageSize+5; i++ {
		testutil.CreateTestPostAt(t, conn, aliceID, fmt.Sprintf("post %d", i), base.Add(time.Duration(i)*time.Second))
	}

	page := listPosts(t, h, "?first=1000", 0)
	assert.Len(t, page.Posts, models.MaxPageSize)
	assert.True(t, page.PageInfo.HasNextPage)

	page = listPosts(t, h, "", 0)
	assert.Len(t, page.Posts, models.DefaultPageSize)
}

func TestListPosts_BadParams(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := NewPostHandler(conn)

	for _, query := range []string{"?first=0", "?first=-3", "?first=abc", "?after=yesterday"} {
		t.Run(query, func(t *testing.T) {
			w := serve(h.ListPosts, testutil.MakeRequest("GET", "/posts"+query, nil, nil))
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestListPosts_VoteStatusAndSnippet(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := NewPostHandler(conn)
	aliceID := testutil.CreateTestUser(t, conn, "alice")
	bobID := testutil.CreateTestUser(t, conn, "bob")

	postID := testutil.CreateTestPost(t, conn, aliceID, "Voted on")
	testutil.SetTestVote(t, conn, bobID, postID, -1)

	long := strings.Repeat("é", models.SnippetLength+20)
	_, err := conn.Exec(conn.Rebind(`UPDATE post SET text = ? WHERE id = ?`), long, postID)
	require.NoError(t, err)

	page := listPosts(t, h, "", bobID)
	require.Len(t, page.Posts, 1)
	post := page.Posts[0]
	require.NotNil(t, post.VoteStatus)
	assert.Equal(t, -1, *post.VoteStatus)
	assert.Equal(t, -1, post.Points)
	assert.Equal(t, "alice", post.Creator)
	assert.Equal(t, strings.Repeat("é", models.SnippetLength), post.TextSnippet)
	assert.Equal(t, long, post.Text)

	page = listPosts(t, h, "", aliceID)
	require.Len(t, page.Posts, 1)
	assert.Nil(t, page.Posts[0].VoteStatus)

	page = listPosts(t, h, "", 0)
	require.Len(t, page.Posts, 1)
	assert.Nil(t, page.Posts[0].VoteStatus)
}

func TestGetPost(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := NewPostHandler(conn)
	aliceID := testutil.CreateTestUser(t, conn, "alice")
	postID := testutil.CreateTestPost(t, conn, aliceID, "Findable")
	testutil.SetTestVote(t, conn, aliceID, postID, 1)

	tests := []struct {
		name           string
		id             string
		expectedStatus int
	}{
		{"found", strconv.FormatInt(postID, 10), http.StatusOK},
		{"missing", strconv.FormatInt(postID+1, 10), http.StatusNotFound},
		{"not a number", "abc", http.StatusBadRequest},
		{"zero", "0", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/posts/"+tt.id, nil, nil)
			req.SetPathValue("id", tt.id)
			w := serve(h.GetPost, withUser(req, aliceID))
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusOK {
				var post models.PostView
				testutil.AssertJSON(t, w, &post)
				assert.Equal(t, "Findable", post.Title)
				assert.Equal(t, 1, post.Points)
				require.NotNil(t, post.VoteStatus)
				assert.Equal(t, 1, *post.VoteStatus)
			}
		})
	}
}

func TestUpdatePost(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := NewPostHandler(conn)
	aliceID := testutil.CreateTestUser(t, conn, "alice")
	bobID := testutil.CreateTestUser(t, conn, "bob")
	postID := testutil.CreateTestPost(t, conn, aliceID, "Original")
	id := strconv.FormatInt(postID, 10)

	update := func(userID int64, in models.PostInput) *models.PostView {
		req := testutil.MakeRequest("PUT", "/posts/"+id, in, nil)
		req.SetPathValue("id", id)
		w := serve(h.UpdatePost, withUser(req, userID))
		if w.Code != http.StatusOK {
			return nil
		}
		var post models.PostView
		testutil.AssertJSON(t, w, &post)
		return &post
	}

	// Someone else's post looks missing
	assert.Nil(t, update(bobID, models.PostInput{Title: "Hijacked", Text: "nope"}))

	post := update(aliceID, models.PostInput{Title: "Edited", Text: "new text"})
	require.NotNil(t, post)
	assert.Equal(t, "Edited", post.Title)
	assert.Equal(t, "new text", post.Text)
	assert.False(t, post.UpdatedAt.Before(post.CreatedAt))

	req := testutil.MakeRequest("PUT", "/posts/"+id, models.PostInput{Title: "Hijacked", Text: "nope"}, nil)
	req.SetPathValue("id", id)
	w := serve(h.UpdatePost, withUser(req, bobID))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestDeletePost(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := NewPostHandler(conn)
	aliceID := testutil.CreateTestUser(t, conn, "alice")
	bobID := testutil.CreateTestUser(t, conn, "bob")
	postID := testutil.CreateTestPost(t, conn, aliceID, "Doomed")
	testutil.SetTestVote(t, conn, bobID, postID, 1)
	id := strconv.FormatInt(postID, 10)

	del := func(userID int64) models.DeletePostResponse {
		req := testutil.MakeRequest("DELETE", "/posts/"+id, nil, nil)
		req.SetPathValue("id", id)
		w := serve(h.DeletePost, withUser(req, userID))
		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.DeletePostResponse
		testutil.AssertJSON(t, w, &resp)
		return resp
	}

	assert.False(t, del(bobID).Deleted)
	assert.Equal(t, 1, testutil.VoteValue(t, conn, bobID, postID))

	assert.True(t, del(aliceID).Deleted)
	assert.Equal(t, 0, testutil.VoteValue(t, conn, bobID, postID))

	assert.False(t, del(aliceID).Deleted)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "", snippet(""))
	assert.Equal(t, "short", snippet("short"))
	assert.Equal(t, strings.Repeat("x", models.SnippetLength), snippet(strings.Repeat("x", models.SnippetLength+1)))
}
