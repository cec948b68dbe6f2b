package database

import (
	"time"
)

const (
	LayoutGrid     = "grid"
	LayoutCarousel = "carousel"
	LayoutList     = "list"
)

// ValidLayout reports whether s is one of the supported layout names.
func ValidLayout(s string) bool {
	return s == LayoutGrid || s == LayoutCarousel || s == LayoutList
}

// Settings holds the appearance parameters of a feed widget. Columns and
// Spacing are meaningful only under the grid layout; other layouts ignore
// them but the stored values are preserved across layout switches.
type Settings struct {
	Layout       string `json:"layout" yaml:"layout"`
	PostsCount   int    `json:"postsCount" yaml:"posts_count"`
	Columns      int    `json:"columns" yaml:"columns"`
	Spacing      int    `json:"spacing" yaml:"spacing"`
	BorderRadius int    `json:"borderRadius" yaml:"border_radius"`
	ShowCaptions bool   `json:"showCaptions" yaml:"show_captions"`
}

// DefaultSettings returns the settings a new, unsaved feed starts from.
func DefaultSettings() Settings {
	return Settings{
		Layout:       LayoutGrid,
		PostsCount:   6,
		Columns:      3,
		Spacing:      16,
		BorderRadius: 8,
		ShowCaptions: true,
	}
}

// APISettings holds optional Instagram Basic Display API credentials.
// Posts are always synthesized regardless, but credentials are validated
// and stored so a live integration can be switched on per feed.
type APISettings struct {
	AccessToken string `json:"accessToken" yaml:"access_token"`
	AppID       string `json:"appId" yaml:"app_id"`
	AppSecret   string `json:"appSecret" yaml:"app_secret"`
	UseRealAPI  bool   `json:"useRealApi" yaml:"use_real_api"`
}

// Client represents a client record
type Client struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Feed represents a configured embed widget bound to one Instagram username
type Feed struct {
	ID          int         `json:"id"`
	ClientID    int         `json:"clientId"`
	Username    string      `json:"username"`
	Settings    Settings    `json:"settings"`
	APISettings APISettings `json:"apiSettings"`
	EmbedCode   string      `json:"embedCode"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
