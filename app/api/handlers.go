package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"

	"github.com/feedframe/feedframe/app/cfg"
	"github.com/feedframe/feedframe/app/database"
	"github.com/feedframe/feedframe/app/embed"
	"github.com/feedframe/feedframe/app/form"
	"github.com/feedframe/feedframe/app/posts"
	"github.com/feedframe/feedframe/app/selection"
	"github.com/feedframe/feedframe/app/tasks"
)

func NewHandler(clientRepo database.ClientRepository, feedRepo database.FeedRepository,
	generator *posts.Generator, previewCache *posts.Cache, machine *selection.Machine,
	configForm *form.Form, scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		clientRepo:   clientRepo,
		feedRepo:     feedRepo,
		generator:    generator,
		previewCache: previewCache,
		machine:      machine,
		configForm:   configForm,
		scheduler:    scheduler,
		validate:     validator.New(),
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if clients, err := h.clientRepo.List(c.Request.Context()); err == nil {
		health["clients"] = len(clients)
	}
	if feeds, err := h.feedRepo.List(c.Request.Context()); err == nil {
		health["feeds"] = len(feeds)
	}
	health["cached_previews"] = h.previewCache.Len()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) ListClients(c *gin.Context) {
	clients, err := h.clientRepo.List(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "list_clients", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if search := c.Query("search"); search != "" {
		folder := cases.Fold()
		needle := folder.String(search)

		filtered := make([]database.Client, 0, len(clients))
		for _, client := range clients {
			if strings.Contains(folder.String(client.Name), needle) {
				filtered = append(filtered, client)
			}
		}
		clients = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"clients": clients,
		"total":   len(clients),
	})
}

func (h *Handler) CreateClient(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := h.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Client name is required", "details": err.Error()})
		return
	}

	client, err := h.clientRepo.Create(c.Request.Context(), req.Name)
	if err != nil {
		slog.Error("Database error", "operation", "create_client", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	slog.Info("Client created", "client_id", client.ID, "name", client.Name)
	c.JSON(http.StatusCreated, client)
}

func (h *Handler) GetClient(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	client, err := h.clientRepo.Get(c.Request.Context(), id)
	if err != nil {
		h.writeStoreError(c, "get_client", err, "Client not found")
		return
	}

	c.JSON(http.StatusOK, client)
}

func (h *Handler) UpdateClient(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := h.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Client name is required", "details": err.Error()})
		return
	}

	client, err := h.clientRepo.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		h.writeStoreError(c, "update_client", err, "Client not found")
		return
	}

	c.JSON(http.StatusOK, client)
}

// DeleteClient removes a client and its feeds. The store itself does not
// cascade, so the dependent feeds are deleted explicitly here; anything
// bypassing this handler can leave orphans behind.
func (h *Handler) DeleteClient(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	feeds, err := h.feedRepo.ListByClient(ctx, id)
	if err != nil {
		slog.Error("Database error", "operation", "list_client_feeds", "client_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := h.clientRepo.Delete(ctx, id); err != nil {
		h.writeStoreError(c, "delete_client", err, "Client not found")
		return
	}

	deletedFeeds := 0
	for _, feed := range feeds {
		if err := h.feedRepo.Delete(ctx, feed.ID); err != nil {
			slog.Warn("Failed to delete client feed", "feed_id", feed.ID, "error", err)
			continue
		}
		h.machine.FeedDeleted(feed.ID)
		deletedFeeds++
	}

	snapshot := h.machine.Snapshot()
	if snapshot.Client != nil && snapshot.Client.ID == id {
		h.machine.NavigateRoot()
		h.configForm.Initialize(nil)
	}

	slog.Info("Client deleted", "client_id", id, "deleted_feeds", deletedFeeds)
	c.JSON(http.StatusOK, gin.H{
		"message":       "Client deleted",
		"deleted_feeds": deletedFeeds,
	})
}

func (h *Handler) ListClientFeeds(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if _, err := h.clientRepo.Get(ctx, id); err != nil {
		h.writeStoreError(c, "get_client", err, "Client not found")
		return
	}

	feeds, err := h.feedRepo.ListByClient(ctx, id)
	if err != nil {
		slog.Error("Database error", "operation", "list_client_feeds", "client_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"feeds": feeds,
		"total": len(feeds),
	})
}

func (h *Handler) GetFeed(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	feed, err := h.feedRepo.Get(c.Request.Context(), id)
	if err != nil {
		h.writeStoreError(c, "get_feed", err, "Feed not found")
		return
	}

	c.JSON(http.StatusOK, feed)
}

// UpdateFeed is the direct CRUD path. The embed code is never taken from the
// request; it is recomputed from the submitted username and settings.
func (h *Handler) UpdateFeed(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	var req feedUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if err := h.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username is required", "details": err.Error()})
		return
	}
	if !database.ValidLayout(req.Settings.Layout) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid layout: " + req.Settings.Layout})
		return
	}

	ctx := c.Request.Context()

	existing, err := h.feedRepo.Get(ctx, id)
	if err != nil {
		h.writeStoreError(c, "get_feed", err, "Feed not found")
		return
	}

	updated := database.Feed{
		ClientID:    existing.ClientID,
		Username:    req.Username,
		Settings:    req.Settings,
		APISettings: req.APISettings,
		EmbedCode:   embed.Render(req.Username, req.Settings),
	}

	feed, err := h.feedRepo.Update(ctx, id, updated)
	if err != nil {
		h.writeStoreError(c, "update_feed", err, "Feed not found")
		return
	}

	snapshot := h.machine.Snapshot()
	if snapshot.Feed != nil && snapshot.Feed.ID == feed.ID {
		h.machine.AdoptSaved(feed)
		h.configForm.Initialize(feed)
	}

	c.JSON(http.StatusOK, feed)
}

func (h *Handler) DeleteFeed(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	if err := h.feedRepo.Delete(c.Request.Context(), id); err != nil {
		h.writeStoreError(c, "delete_feed", err, "Feed not found")
		return
	}

	h.machine.FeedDeleted(id)
	snapshot := h.machine.Snapshot()
	if snapshot.Feed == nil {
		h.configForm.Initialize(nil)
	}

	slog.Info("Feed deleted", "feed_id", id)
	c.JSON(http.StatusOK, gin.H{"message": "Feed deleted"})
}

func (h *Handler) GetFeedEmbed(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	feed, err := h.feedRepo.Get(c.Request.Context(), id)
	if err != nil {
		h.writeStoreError(c, "get_feed", err, "Feed not found")
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, feed.EmbedCode)
}

func (h *Handler) GetPosts(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing username parameter"})
		return
	}

	count := cfg.Get().PreviewPostCount
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid count parameter"})
			return
		}
		count = parsed
	}
	if count < 1 {
		count = 1
	}
	if count > 12 {
		count = 12
	}

	if cached, ok := h.previewCache.Get(username); ok && len(cached) >= count {
		c.JSON(http.StatusOK, gin.H{
			"posts":  cached[:count],
			"total":  count,
			"cached": true,
		})
		return
	}

	result, err := h.generator.Fetch(c.Request.Context(), username, count)
	if err != nil {
		if errors.Is(err, posts.ErrUnavailable) {
			slog.Warn("Post generation failed", "username", username, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch posts for @" + username})
			return
		}
		slog.Error("Post generation error", "username", username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Post generation error"})
		return
	}

	h.previewCache.Set(username, result)

	c.JSON(http.StatusOK, gin.H{
		"posts":  result,
		"total":  len(result),
		"cached": false,
	})
}

func (h *Handler) idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id parameter"})
		return 0, false
	}
	return id, true
}

func (h *Handler) writeStoreError(c *gin.Context, operation string, err error, notFoundMsg string) {
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
		return
	}
	slog.Error("Database error", "operation", operation, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
}
