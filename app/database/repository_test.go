package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func TestClientRepositorySQLite(t *testing.T) {
	db := setupTestDB(t)
	repo := NewClientRepository(db)
	ctx := context.Background()

	first, err := repo.Create(ctx, "Acme Corporation")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first.ID != 1 {
		t.Errorf("Expected first id 1, got %d", first.ID)
	}

	second, err := repo.Create(ctx, "Bloom Studio")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if second.ID != 2 {
		t.Errorf("Expected second id 2, got %d", second.ID)
	}

	updated, err := repo.Update(ctx, first.ID, "Acme Inc")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "Acme Inc" {
		t.Errorf("Expected updated name, got %s", updated.Name)
	}

	clients, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(clients) != 2 {
		t.Fatalf("Expected 2 clients, got %d", len(clients))
	}

	// Deleting the highest id re-issues it on the next create
	if err := repo.Delete(ctx, second.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	replacement, err := repo.Create(ctx, "Replacement")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if replacement.ID != 2 {
		t.Errorf("Expected re-issued id 2, got %d", replacement.ID)
	}

	if _, err := repo.Get(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestFeedRepositorySQLite(t *testing.T) {
	db := setupTestDB(t)
	clientRepo := NewClientRepository(db)
	feedRepo := NewFeedRepository(db)
	ctx := context.Background()

	client, err := clientRepo.Create(ctx, "Acme Corporation")
	if err != nil {
		t.Fatalf("Create client failed: %v", err)
	}

	settings := DefaultSettings()
	settings.Layout = LayoutCarousel

	created, err := feedRepo.Create(ctx, Feed{
		ClientID:  client.ID,
		Username:  "acme_official",
		Settings:  settings,
		EmbedCode: "<div></div>",
	})
	if err != nil {
		t.Fatalf("Create feed failed: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("Expected feed id 1, got %d", created.ID)
	}

	fetched, err := feedRepo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched.Settings.Layout != LayoutCarousel {
		t.Errorf("Expected carousel layout round-tripped, got %s", fetched.Settings.Layout)
	}
	if fetched.EmbedCode != "<div></div>" {
		t.Errorf("Expected embed code round-tripped, got %q", fetched.EmbedCode)
	}
	if !fetched.Settings.ShowCaptions {
		t.Error("Expected show captions round-tripped")
	}

	fetched.Username = "acme_updated"
	updated, err := feedRepo.Update(ctx, created.ID, *fetched)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Username != "acme_updated" {
		t.Errorf("Expected updated username, got %s", updated.Username)
	}

	byClient, err := feedRepo.ListByClient(ctx, client.ID)
	if err != nil {
		t.Fatalf("ListByClient failed: %v", err)
	}
	if len(byClient) != 1 {
		t.Errorf("Expected 1 feed for client, got %d", len(byClient))
	}

	if err := feedRepo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := feedRepo.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}
