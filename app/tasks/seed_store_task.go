package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/feedframe/feedframe/app/database"
	"github.com/feedframe/feedframe/app/embed"
	"github.com/feedframe/feedframe/app/fixtures"
)

// SeedStoreTask loads client fixtures into the store. Embed codes are
// computed during seeding so every stored feed satisfies the
// embedCode == Render(username, settings) invariant from the start.
type SeedStoreTask struct {
	Task
	FixturesDir string
	clientRepo  database.ClientRepository
	feedRepo    database.FeedRepository
}

func NewSeedStoreTask(fixturesDir string, clientRepo database.ClientRepository,
	feedRepo database.FeedRepository) *SeedStoreTask {
	return &SeedStoreTask{
		Task:        NewTask(TaskTypeSeedStore, fixturesDir),
		FixturesDir: fixturesDir,
		clientRepo:  clientRepo,
		feedRepo:    feedRepo,
	}
}

func (t *SeedStoreTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	loader := fixtures.NewLoader(t.FixturesDir)
	clientFixtures, err := loader.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load fixtures: %w", err)
	}

	seededClients := 0
	seededFeeds := 0
	for _, fixture := range clientFixtures {
		client, err := t.clientRepo.Create(ctx, fixture.Name)
		if err != nil {
			return fmt.Errorf("failed to seed client %q: %w", fixture.Name, err)
		}
		seededClients++

		for _, feedFixture := range fixture.Feeds {
			feed := database.Feed{
				ClientID:    client.ID,
				Username:    feedFixture.Username,
				Settings:    feedFixture.Settings,
				APISettings: feedFixture.APISettings,
				EmbedCode:   embed.Render(feedFixture.Username, feedFixture.Settings),
			}
			if _, err := t.feedRepo.Create(ctx, feed); err != nil {
				return fmt.Errorf("failed to seed feed %q: %w", feedFixture.Username, err)
			}
			seededFeeds++
		}
	}

	slog.Info("Task completed",
		"type", "SeedStore",
		"clients", seededClients,
		"feeds", seededFeeds,
		"duration", t.GetDuration())

	return nil
}
