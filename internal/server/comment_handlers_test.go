package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentThread(t *testing.T) {
	s, app, _ := setupTestServer(t)
	author := createTestUser(t, s, "author", true)
	reader := createTestUser(t, s, "reader", true)
	blog := createTestBlog(t, s, author.ID, "Discussed", true)
	token := authToken(t, s, reader)

	commentsURL := fmt.Sprintf("/api/blogs/%d/comments", blog.ID)

	// Top-level comment.
	req := jsonRequest(http.MethodPost, commentsURL, map[string]any{"content": "Great read"})
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	parentID := uint(body["response"].(map[string]any)["id"].(float64))

	// One level of replies is allowed.
	req = jsonRequest(http.MethodPost, commentsURL, map[string]any{
		"content":           "Agreed",
		"parent_comment_id": parentID,
	})
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body = decodeBody(t, resp)
	replyID := uint(body["response"].(map[string]any)["id"].(float64))

	// Replying to a reply is rejected.
	req = jsonRequest(http.MethodPost, commentsURL, map[string]any{
		"content":           "Nested",
		"parent_comment_id": replyID,
	})
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	// Listing returns the top-level comment with its reply nested.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, commentsURL, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	comments := body["response"].([]any)
	require.Len(t, comments, 1)
	replies := comments[0].(map[string]any)["replies"].([]any)
	assert.Len(t, replies, 1)

	// Count includes replies.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, commentsURL+"/count", nil))
	require.NoError(t, err)
	body = decodeBody(t, resp)
	assert.EqualValues(t, 2, body["response"].(float64))
}

func TestCommentValidation(t *testing.T) {
	s, app, _ := setupTestServer(t)
	author := createTestUser(t, s, "author", true)
	reader := createTestUser(t, s, "reader", true)
	blog := createTestBlog(t, s, author.ID, "Strict", true)
	other := createTestBlog(t, s, author.ID, "Other", true)
	token := authToken(t, s, reader)

	foreign := &models.Comment{Content: "elsewhere", UserID: author.ID, BlogID: other.ID}
	require.NoError(t, s.db.Create(foreign).Error)

	commentsURL := fmt.Sprintf("/api/blogs/%d/comments", blog.ID)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"Empty content", map[string]any{"content": ""}},
		{"Cross-blog parent", map[string]any{
			"content":           "hi",
			"parent_comment_id": foreign.ID,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonRequest(http.MethodPost, commentsURL, tt.body)
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestCommentOnDraftMaskedAsNotFound(t *testing.T) {
	s, app, _ := setupTestServer(t)
	author := createTestUser(t, s, "author", true)
	reader := createTestUser(t, s, "reader", true)
	draft := createTestBlog(t, s, author.ID, "Hidden", false)

	req := jsonRequest(http.MethodPost,
		fmt.Sprintf("/api/blogs/%d/comments", draft.ID),
		map[string]any{"content": "sneaky"})
	req.Header.Set("Authorization", "Bearer "+authToken(t, s, reader))
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCommentCountOnDraftMaskedAsNotFound(t *testing.T) {
	s, app, _ := setupTestServer(t)
	author := createTestUser(t, s, "author", true)
	reader := createTestUser(t, s, "reader", true)
	draft := createTestBlog(t, s, author.ID, "Hidden", false)

	comment := &models.Comment{Content: "note to self", UserID: author.ID, BlogID: draft.ID}
	require.NoError(t, s.db.Create(comment).Error)

	url := fmt.Sprintf("/api/blogs/%d/comments/count", draft.ID)

	// Anonymous caller must not learn the draft exists.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, url, nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Neither must another authenticated user.
	req := httptest.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+authToken(t, s, reader))
	resp, err = app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The author still sees the count.
	req = httptest.NewRequest(http.MethodGet, url, nil)
	req.Header.Set("Authorization", "Bearer "+authToken(t, s, author))
	resp, err = app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["response"])
}

func TestUpdateAndDeleteCommentOwnership(t *testing.T) {
	s, app, _ := setupTestServer(t)
	author := createTestUser(t, s, "author", true)
	commenter := createTestUser(t, s, "commenter", true)
	stranger := createTestUser(t, s, "stranger", true)
	admin := createTestAdmin(t, s, "moderator")
	blog := createTestBlog(t, s, author.ID, "Moderated", true)

	comment := &models.Comment{Content: "original", UserID: commenter.ID, BlogID: blog.ID}
	require.NoError(t, s.db.Create(comment).Error)

	url := fmt.Sprintf("/api/blogs/%d/comments/%d", blog.ID, comment.ID)

	// Stranger cannot edit.
	req := jsonRequest(http.MethodPut, url, map[string]any{"content": "hijacked"})
	req.Header.Set("Authorization", "Bearer "+authToken(t, s, stranger))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	// Owner edits.
	req = jsonRequest(http.MethodPut, url, map[string]any{"content": "revised"})
	req.Header.Set("Authorization", "Bearer "+authToken(t, s, commenter))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "revised", body["response"].(map[string]any)["content"])

	// Admin deletes someone else's comment.
	req = httptest.NewRequest(http.MethodDelete, url, nil)
	req.Header.Set("Authorization", "Bearer "+authToken(t, s, admin))
	resp, err = app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
