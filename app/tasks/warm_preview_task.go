package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/feedframe/feedframe/app/posts"
)

// WarmPreviewTask generates synthetic posts for a username ahead of the
// preview request, so the panel renders from cache after a selection or
// save. The generator's injected failure makes retries genuinely useful
// here.
type WarmPreviewTask struct {
	Task
	Username  string
	Count     int
	generator *posts.Generator
	cache     *posts.Cache
}

func NewWarmPreviewTask(username string, count int, generator *posts.Generator,
	cache *posts.Cache) *WarmPreviewTask {
	return &WarmPreviewTask{
		Task:      NewTask(TaskTypeWarmPreview, username),
		Username:  username,
		Count:     count,
		generator: generator,
		cache:     cache,
	}
}

func (t *WarmPreviewTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result, err := t.generator.Fetch(ctx, t.Username, t.Count)
	if err != nil {
		return fmt.Errorf("failed to warm preview: %w", err)
	}

	t.cache.Set(t.Username, result)

	slog.Info("Task completed",
		"type", "WarmPreview",
		"username", t.Username,
		"posts", len(result),
		"duration", t.GetDuration())

	return nil
}
