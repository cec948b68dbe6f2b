package fixtures

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/feedframe/feedframe/app/database"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture file: %v", err)
	}
}

func TestLoadAllMissingDirectory(t *testing.T) {
	loader := NewLoader("/nonexistent/fixtures")

	clients, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("Expected missing directory to load as empty, got %v", err)
	}
	if clients != nil {
		t.Errorf("Expected nil fixtures, got %d", len(clients))
	}
}

func TestLoadAllSortedByFilename(t *testing.T) {
	dir := t.TempDir()

	writeFixture(t, dir, "b-second.yml", `name: "Second Client"`)
	writeFixture(t, dir, "a-first.yml", `name: "First Client"`)

	loader := NewLoader(dir)
	clients, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	if len(clients) != 2 {
		t.Fatalf("Expected 2 fixtures, got %d", len(clients))
	}
	if clients[0].Name != "First Client" || clients[1].Name != "Second Client" {
		t.Errorf("Expected fixtures sorted by filename, got %s, %s", clients[0].Name, clients[1].Name)
	}
}

func TestLoadAllAppliesDefaults(t *testing.T) {
	dir := t.TempDir()

	writeFixture(t, dir, "client.yml", `
name: "Acme Corporation"
feeds:
  - username: "acme_official"
`)

	loader := NewLoader(dir)
	clients, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	settings := clients[0].Feeds[0].Settings
	if settings.Layout != database.LayoutGrid {
		t.Errorf("Expected default layout grid, got %s", settings.Layout)
	}
	if settings.PostsCount != 6 {
		t.Errorf("Expected default posts count 6, got %d", settings.PostsCount)
	}
	if settings.Columns != 3 {
		t.Errorf("Expected default columns 3, got %d", settings.Columns)
	}
}

func TestLoadAllZeroSpacingPreserved(t *testing.T) {
	dir := t.TempDir()

	writeFixture(t, dir, "client.yml", `
name: "Bloom Studio"
feeds:
  - username: "bloomstudio"
    settings:
      layout: carousel
      posts_count: 8
      spacing: 0
      border_radius: 0
`)

	loader := NewLoader(dir)
	clients, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	settings := clients[0].Feeds[0].Settings
	if settings.Spacing != 0 || settings.BorderRadius != 0 {
		t.Errorf("Expected zero spacing and radius preserved, got %d and %d",
			settings.Spacing, settings.BorderRadius)
	}
	if settings.Layout != database.LayoutCarousel {
		t.Errorf("Expected carousel layout, got %s", settings.Layout)
	}
}

func TestLoadAllValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing client name", `feeds: []`},
		{"missing username", `
name: "Client"
feeds:
  - settings:
      layout: grid
`},
		{"invalid layout", `
name: "Client"
feeds:
  - username: "user"
    settings:
      layout: masonry
`},
		{"posts count out of range", `
name: "Client"
feeds:
  - username: "user"
    settings:
      posts_count: 13
`},
		{"columns out of range", `
name: "Client"
feeds:
  - username: "user"
    settings:
      columns: 5
`},
		{"spacing out of range", `
name: "Client"
feeds:
  - username: "user"
    settings:
      spacing: 51
`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFixture(t, dir, "client.yml", tc.content)

			if _, err := NewLoader(dir).LoadAll(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadAllInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "broken.yml", "name: [unclosed")

	if _, err := NewLoader(dir).LoadAll(); err == nil {
		t.Error("Expected parse error for malformed YAML")
	}
}
