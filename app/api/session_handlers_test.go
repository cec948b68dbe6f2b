package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSessionInitialState(t *testing.T) {
	env := setupTestEnv(t, 0)

	w := env.request(t, http.MethodGet, "/api/session", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "no_client", body["state"])
	assert.Nil(t, body["client"])
	assert.Nil(t, body["feed"])
}

func TestNavigateClient(t *testing.T) {
	env := setupTestEnv(t, 0)
	env.seedClient(t, "Acme Corporation")

	w := env.request(t, http.MethodPost, "/api/session/client/1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "client_selected", body["state"])

	client := body["client"].(map[string]any)
	assert.Equal(t, "Acme Corporation", client["name"])

	// Navigating resets the form to the new-feed state
	draft := body["draft"].(map[string]any)
	assert.Equal(t, float64(0), draft["feedId"])
	assert.Equal(t, "", draft["username"])
}

func TestNavigateUnknownClient(t *testing.T) {
	env := setupTestEnv(t, 0)

	w := env.request(t, http.MethodPost, "/api/session/client/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClearSession(t *testing.T) {
	env := setupTestEnv(t, 0)
	env.seedClient(t, "Acme Corporation")
	env.request(t, http.MethodPost, "/api/session/client/1", nil)

	w := env.request(t, http.MethodDelete, "/api/session/client", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "no_client", body["state"])
}

func TestSelectFeedLoadsDraft(t *testing.T) {
	env := setupTestEnv(t, 0)
	client := env.seedClient(t, "Acme Corporation")
	env.seedFeed(t, client.ID, "acme_official")
	env.request(t, http.MethodPost, "/api/session/client/1", nil)

	w := env.request(t, http.MethodPost, "/api/session/feed/1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "feed_selected", body["state"])

	draft := body["draft"].(map[string]any)
	assert.Equal(t, float64(1), draft["feedId"])
	assert.Equal(t, "acme_official", draft["username"])
}

func TestSelectFeedOfOtherClient(t *testing.T) {
	env := setupTestEnv(t, 0)
	env.seedClient(t, "Acme Corporation")
	other := env.seedClient(t, "Bloom Studio")
	env.seedFeed(t, other.ID, "bloomstudio")

	env.request(t, http.MethodPost, "/api/session/client/1", nil)

	w := env.request(t, http.MethodPost, "/api/session/feed/1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestNewFeedResetsDraft(t *testing.T) {
	env := setupTestEnv(t, 0)
	client := env.seedClient(t, "Acme Corporation")
	env.seedFeed(t, client.ID, "acme_official")
	env.request(t, http.MethodPost, "/api/session/client/1", nil)
	env.request(t, http.MethodPost, "/api/session/feed/1", nil)

	w := env.request(t, http.MethodDelete, "/api/session/feed", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "client_selected", body["state"])

	draft := body["draft"].(map[string]any)
	assert.Equal(t, float64(0), draft["feedId"])
	assert.Equal(t, "", draft["username"])
}

func TestUpdateFormMergesPartialEdits(t *testing.T) {
	env := setupTestEnv(t, 0)

	w := env.request(t, http.MethodPut, "/api/session/form", map[string]any{
		"username": "acme_official",
		"settings": map[string]any{"layout": "carousel", "columns": 4},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	draft := body["draft"].(map[string]any)
	assert.Equal(t, "acme_official", draft["username"])

	settings := draft["settings"].(map[string]any)
	assert.Equal(t, "carousel", settings["layout"])
	assert.Equal(t, float64(4), settings["columns"])
	// Untouched fields keep their values
	assert.Equal(t, float64(6), settings["postsCount"])
}

func TestUpdateFormRejectsBadValue(t *testing.T) {
	env := setupTestEnv(t, 0)

	w := env.request(t, http.MethodPut, "/api/session/form", map[string]any{
		"settings": map[string]any{"columns": "four"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "columns", body["field"])
}

func TestSaveFormCreatesFeed(t *testing.T) {
	env := setupTestEnv(t, 0)
	env.seedClient(t, "Acme Corporation")
	env.request(t, http.MethodPost, "/api/session/client/1", nil)
	env.request(t, http.MethodPut, "/api/session/form", map[string]any{"username": "acme_official"})

	w := env.request(t, http.MethodPost, "/api/session/save", nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, float64(1), body["clientId"])
	assert.Contains(t, body["embedCode"], `data-username="acme_official"`)
}

func TestSaveFormUpdatesExistingFeed(t *testing.T) {
	env := setupTestEnv(t, 0)
	client := env.seedClient(t, "Acme Corporation")
	env.seedFeed(t, client.ID, "acme_official")
	env.request(t, http.MethodPost, "/api/session/client/1", nil)
	env.request(t, http.MethodPost, "/api/session/feed/1", nil)
	env.request(t, http.MethodPut, "/api/session/form", map[string]any{
		"settings": map[string]any{"layout": "list"},
	})

	w := env.request(t, http.MethodPost, "/api/session/save", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["id"])

	settings := body["settings"].(map[string]any)
	assert.Equal(t, "list", settings["layout"])
}

func TestSaveFormValidationErrors(t *testing.T) {
	env := setupTestEnv(t, 0)
	env.seedClient(t, "Acme Corporation")

	// No client selected yet
	env.request(t, http.MethodPut, "/api/session/form", map[string]any{"username": "acme_official"})
	w := env.request(t, http.MethodPost, "/api/session/save", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "client", decodeBody(t, w)["field"])

	// Client selected but username blank
	env.request(t, http.MethodPost, "/api/session/client/1", nil)
	w = env.request(t, http.MethodPost, "/api/session/save", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "username", decodeBody(t, w)["field"])
}

func TestSaveAdoptsFeedIntoSession(t *testing.T) {
	env := setupTestEnv(t, 0)
	env.seedClient(t, "Acme Corporation")
	env.request(t, http.MethodPost, "/api/session/client/1", nil)
	env.request(t, http.MethodPut, "/api/session/form", map[string]any{"username": "acme_official"})
	env.request(t, http.MethodPost, "/api/session/save", nil)

	w := env.request(t, http.MethodGet, "/api/session", nil)
	body := decodeBody(t, w)
	assert.Equal(t, "feed_selected", body["state"])

	feed := body["feed"].(map[string]any)
	assert.Equal(t, float64(1), feed["id"])

	// Stored record carries the rendered embed code
	stored, err := env.feedRepo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.EmbedCode)
}
