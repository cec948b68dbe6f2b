package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	Storage     string `long:"storage" env:"STORAGE" default:"memory" choice:"memory" choice:"sqlite" description:"Storage backend"`
	DBPath      string `long:"db-path" env:"DB_PATH" default:"./feedframe.db" description:"SQLite database file (sqlite storage only)"`
	FixturesDir string `long:"fixtures-dir" env:"FIXTURES_DIR" default:"./fixtures" description:"Directory containing client fixture files (memory storage only)"`

	// Application configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl      string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://console.feedframe.com)"`
	WorkerCount  int    `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background workers for seed and preview tasks"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Preview configuration
	PreviewFailureRate float64 `long:"preview-failure-rate" env:"PREVIEW_FAILURE_RATE" default:"0.02" description:"Injected failure probability for synthetic post generation"`
	PreviewPostCount   int     `long:"preview-post-count" env:"PREVIEW_POST_COUNT" default:"9" description:"Default number of posts per preview request"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Storage:            raw.Storage,
		DBPath:             raw.DBPath,
		FixturesDir:        raw.FixturesDir,
		Port:               raw.Port,
		BaseUrl:            raw.BaseUrl,
		WorkerCount:        raw.WorkerCount,
		APIAccessKey:       raw.APIAccessKey,
		PreviewFailureRate: raw.PreviewFailureRate,
		PreviewPostCount:   raw.PreviewPostCount,
		Timezone:           raw.Timezone,
		Debug:              raw.Debug,
		Version:            GetVersion(),
	}

	if cfg.PreviewFailureRate < 0 || cfg.PreviewFailureRate >= 1 {
		return nil, fmt.Errorf("preview failure rate must be in [0, 1), got %v", cfg.PreviewFailureRate)
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
