package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCommentLabelsSentiment(t *testing.T) {
	_, app := setupTestServer(t)
	creator := registerUser(t, app, "creator", "creator")
	viewer := registerUser(t, app, "viewer", "consumer")
	id := uploadPhoto(t, app, creator, "Sunset", nil)

	path := fmt.Sprintf("/comment/%d", id)

	resp, body := doJSON(t, app, http.MethodPost, path, viewer,
		map[string]string{"text": "I love this, what a wonderful and beautiful shot!"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "positive", body["sentiment"])

	resp, body = doJSON(t, app, http.MethodPost, path, viewer,
		map[string]string{"text": "The photo shows a building on a street."})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "neutral", body["sentiment"])

	resp, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/photo/%d", id), viewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	comments, _ := body["comments"].([]any)
	assert.Len(t, comments, 2)
}

func TestCreateCommentRejectedPersistsNothing(t *testing.T) {
	_, app := setupTestServer(t)
	creator := registerUser(t, app, "creator", "creator")
	viewer := registerUser(t, app, "viewer", "consumer")
	id := uploadPhoto(t, app, creator, "Sunset", nil)

	resp, body := doJSON(t, app, http.MethodPost, fmt.Sprintf("/comment/%d", id), viewer,
		map[string]string{"text": "I hate this, it is horrible, disgusting and awful."})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	resp, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/photo/%d", id), viewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	comments, _ := body["comments"].([]any)
	assert.Empty(t, comments)
}

func TestCreateCommentValidation(t *testing.T) {
	_, app := setupTestServer(t)
	viewer := registerUser(t, app, "viewer", "consumer")

	resp, _ := doJSON(t, app, http.MethodPost, "/comment/999", viewer,
		map[string]string{"text": "nice"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/comment/abc", viewer,
		map[string]string{"text": "nice"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}
