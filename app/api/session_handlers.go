package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feedframe/feedframe/app/database"
	"github.com/feedframe/feedframe/app/form"
)

// The session endpoints drive the console's server-side state: the selection
// machine and the configuration form. There is one session per process,
// matching the single-dashboard deployment model.

func (h *Handler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessionResponse())
}

// NavigateClient resolves a client id from the navigation path. A stale
// completion (user picked something else while the fetch was in flight) is
// silently dropped by the machine.
func (h *Handler) NavigateClient(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	if err := h.machine.Navigate(c.Request.Context(), id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		slog.Error("Navigation error", "client_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load client"})
		return
	}

	h.configForm.Initialize(nil)
	c.JSON(http.StatusOK, h.sessionResponse())
}

func (h *Handler) ClearSession(c *gin.Context) {
	h.machine.NavigateRoot()
	h.configForm.Initialize(nil)
	c.JSON(http.StatusOK, h.sessionResponse())
}

// SelectFeed makes a stored feed the active feed and reinitializes the form
// from its stored settings.
func (h *Handler) SelectFeed(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	feed, err := h.feedRepo.Get(c.Request.Context(), id)
	if err != nil {
		h.writeStoreError(c, "get_feed", err, "Feed not found")
		return
	}

	if err := h.machine.SelectFeed(feed); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	h.configForm.Initialize(feed)
	c.JSON(http.StatusOK, h.sessionResponse())
}

// NewFeed clears the feed selection so the form resets to defaults.
func (h *Handler) NewFeed(c *gin.Context) {
	h.machine.NewFeed()
	h.configForm.Initialize(nil)
	c.JSON(http.StatusOK, h.sessionResponse())
}

func (h *Handler) UpdateForm(c *gin.Context) {
	var req formUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Username != nil {
		h.configForm.SetUsername(*req.Username)
	}
	for key, value := range req.Settings {
		if err := h.configForm.SetSetting(key, value); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": key})
			return
		}
	}
	for key, value := range req.APISettings {
		if err := h.configForm.SetAPISetting(key, value); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": key})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"draft": h.configForm.Draft()})
}

func (h *Handler) SaveForm(c *gin.Context) {
	creating := h.configForm.Draft().FeedID == 0

	saved, err := h.configForm.Save(c.Request.Context())
	if err != nil {
		var validationErr *form.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": validationErr.Message,
				"field": validationErr.Field,
			})
			return
		}
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Feed not found"})
			return
		}
		slog.Error("Feed save error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save feed"})
		return
	}

	status := http.StatusOK
	if creating {
		status = http.StatusCreated
	}
	c.JSON(status, saved)
}

func (h *Handler) sessionResponse() sessionResponse {
	snapshot := h.machine.Snapshot()
	return sessionResponse{
		State:  snapshot.State.String(),
		Client: snapshot.Client,
		Feed:   snapshot.Feed,
		Draft:  h.configForm.Draft(),
	}
}
