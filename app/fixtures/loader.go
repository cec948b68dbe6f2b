package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/feedframe/feedframe/app/database"
)

// Loader reads client seed files used by the in-memory storage backend.
type Loader struct {
	fixturesDir string
}

func NewLoader(fixturesDir string) *Loader {
	return &Loader{fixturesDir: fixturesDir}
}

// LoadAll loads every YAML fixture file from the fixtures directory, sorted
// by filename so seeded ids are stable across restarts.
func (l *Loader) LoadAll() ([]ClientFixture, error) {
	if _, err := os.Stat(l.fixturesDir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(l.fixturesDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}

	yamlFiles, err := filepath.Glob(filepath.Join(l.fixturesDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}
	files = append(files, yamlFiles...)
	sort.Strings(files)

	var clients []ClientFixture
	for _, file := range files {
		fixture, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		if err := l.validate(fixture); err != nil {
			return nil, fmt.Errorf("invalid fixture %s: %w", file, err)
		}

		clients = append(clients, *fixture)
	}

	return clients, nil
}

func (l *Loader) loadFile(path string) (*ClientFixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var fixture ClientFixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i := range fixture.Feeds {
		l.setDefaults(&fixture.Feeds[i].Settings)
	}

	return &fixture, nil
}

// setDefaults fills unset settings fields. Spacing and border radius are left
// alone: zero is a valid value for both.
func (l *Loader) setDefaults(settings *database.Settings) {
	defaults := database.DefaultSettings()

	if settings.Layout == "" {
		settings.Layout = defaults.Layout
	}
	if settings.PostsCount == 0 {
		settings.PostsCount = defaults.PostsCount
	}
	if settings.Columns == 0 {
		settings.Columns = defaults.Columns
	}
}

func (l *Loader) validate(fixture *ClientFixture) error {
	if fixture.Name == "" {
		return fmt.Errorf("client name is required")
	}

	for i, feed := range fixture.Feeds {
		if feed.Username == "" {
			return fmt.Errorf("feed at index %d: username is required", i)
		}
		if !database.ValidLayout(feed.Settings.Layout) {
			return fmt.Errorf("feed at index %d: invalid layout: %s", i, feed.Settings.Layout)
		}
		if feed.Settings.PostsCount < 1 || feed.Settings.PostsCount > 12 {
			return fmt.Errorf("feed at index %d: posts count must be between 1 and 12", i)
		}
		if feed.Settings.Columns < 1 || feed.Settings.Columns > 4 {
			return fmt.Errorf("feed at index %d: columns must be between 1 and 4", i)
		}
		if feed.Settings.Spacing < 0 || feed.Settings.Spacing > 50 {
			return fmt.Errorf("feed at index %d: spacing must be between 0 and 50", i)
		}
		if feed.Settings.BorderRadius < 0 || feed.Settings.BorderRadius > 50 {
			return fmt.Errorf("feed at index %d: border radius must be between 0 and 50", i)
		}
	}

	return nil
}
