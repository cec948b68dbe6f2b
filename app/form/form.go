// Package form owns the in-progress feed configuration: the draft settings
// and username being edited, validation before save, and the write-through
// to the store. The embed code is recomputed from the draft on every save so
// it can never drift from the stored username and settings.
package form

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/feedframe/feedframe/app/database"
	"github.com/feedframe/feedframe/app/embed"
	"github.com/feedframe/feedframe/app/selection"
)

// ValidationError blocks a save before any store call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// Draft is a copy of the form's current editing state.
type Draft struct {
	FeedID      int                  `json:"feedId"`
	Username    string               `json:"username"`
	Settings    database.Settings    `json:"settings"`
	APISettings database.APISettings `json:"apiSettings"`
}

type Form struct {
	feeds   database.FeedRepository
	machine *selection.Machine

	mu       sync.Mutex
	feedID   int // 0 means no feed chosen, save creates
	username string
	settings database.Settings
	api      database.APISettings
}

func New(feeds database.FeedRepository, machine *selection.Machine) *Form {
	return &Form{
		feeds:    feeds,
		machine:  machine,
		settings: database.DefaultSettings(),
	}
}

// Initialize loads the draft from a stored feed, or resets it to defaults
// when feed is nil (the "new feed" state).
func (f *Form) Initialize(feed *database.Feed) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if feed == nil {
		f.feedID = 0
		f.username = ""
		f.settings = database.DefaultSettings()
		f.api = database.APISettings{}
		return
	}

	f.feedID = feed.ID
	f.username = feed.Username
	f.settings = feed.Settings
	f.api = feed.APISettings
}

func (f *Form) SetUsername(username string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.username = username
}

// SetSetting merges one settings field into the draft. There is no
// cross-field validation at edit time: columns may be edited while the
// layout is not grid, and the value is simply unused until it is.
func (f *Form) SetSetting(key string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch key {
	case "layout":
		layout, ok := value.(string)
		if !ok {
			return fmt.Errorf("layout must be a string")
		}
		f.settings.Layout = layout
	case "postsCount":
		return setInt(&f.settings.PostsCount, key, value)
	case "columns":
		return setInt(&f.settings.Columns, key, value)
	case "spacing":
		return setInt(&f.settings.Spacing, key, value)
	case "borderRadius":
		return setInt(&f.settings.BorderRadius, key, value)
	case "showCaptions":
		return setBool(&f.settings.ShowCaptions, key, value)
	default:
		return fmt.Errorf("unknown setting: %s", key)
	}

	return nil
}

// SetAPISetting merges one Instagram API credential field into the draft.
func (f *Form) SetAPISetting(key string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch key {
	case "accessToken":
		return setString(&f.api.AccessToken, key, value)
	case "appId":
		return setString(&f.api.AppID, key, value)
	case "appSecret":
		return setString(&f.api.AppSecret, key, value)
	case "useRealApi":
		return setBool(&f.api.UseRealAPI, key, value)
	default:
		return fmt.Errorf("unknown API setting: %s", key)
	}
}

func (f *Form) Draft() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()

	return Draft{
		FeedID:      f.feedID,
		Username:    f.username,
		Settings:    f.settings,
		APISettings: f.api,
	}
}

// Save validates the draft, recomputes the embed code, and writes through to
// the store: an update when a feed is active, a create otherwise. The saved
// feed is adopted as the active selection. Validation failures never reach
// the store; store failures leave the draft untouched.
func (f *Form) Save(ctx context.Context) (*database.Feed, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	username := strings.TrimSpace(f.username)
	if username == "" {
		return nil, &ValidationError{Field: "username", Message: "please enter an Instagram username"}
	}

	snapshot := f.machine.Snapshot()
	if snapshot.Client == nil {
		return nil, &ValidationError{Field: "client", Message: "please select a client first"}
	}

	if f.api.UseRealAPI {
		if strings.TrimSpace(f.api.AccessToken) == "" {
			return nil, &ValidationError{Field: "accessToken", Message: "please enter an Instagram access token"}
		}
		if strings.TrimSpace(f.api.AppID) == "" {
			return nil, &ValidationError{Field: "appId", Message: "please enter an Instagram app ID"}
		}
	}

	feed := database.Feed{
		ClientID:    snapshot.Client.ID,
		Username:    username,
		Settings:    f.settings,
		APISettings: f.api,
		EmbedCode:   embed.Render(username, f.settings),
	}

	var saved *database.Feed
	var err error
	if f.feedID != 0 {
		saved, err = f.feeds.Update(ctx, f.feedID, feed)
	} else {
		saved, err = f.feeds.Create(ctx, feed)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save feed: %w", err)
	}

	f.feedID = saved.ID
	f.username = saved.Username
	f.settings = saved.Settings
	f.api = saved.APISettings

	f.machine.AdoptSaved(saved)
	slog.Info("Feed saved", "feed_id", saved.ID, "client_id", saved.ClientID, "username", saved.Username)

	return saved, nil
}

func setInt(dst *int, key string, value any) error {
	switch v := value.(type) {
	case int:
		*dst = v
	case float64: // JSON numbers decode as float64
		*dst = int(v)
	default:
		return fmt.Errorf("%s must be a number", key)
	}
	return nil
}

func setBool(dst *bool, key string, value any) error {
	v, ok := value.(bool)
	if !ok {
		return fmt.Errorf("%s must be a boolean", key)
	}
	*dst = v
	return nil
}

func setString(dst *string, key string, value any) error {
	v, ok := value.(string)
	if !ok {
		return fmt.Errorf("%s must be a string", key)
	}
	*dst = v
	return nil
}
