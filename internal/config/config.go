package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

var ErrInvalidDuration = errors.New("duration must be positive")

type Config struct {
	Env          string // Env is the current environment: local, dev, prod.
	URLsFile     string // URLsFile is the tracked-URL list, one URL per line.
	ResultsFile  string // ResultsFile is the CSV results log. Empty disables it.
	StoragePath  string // StoragePath is the sqlite file with last known prices. Empty disables it.
	SettingsFile string // SettingsFile holds alert settings and the check interval.
	Fetch        Fetch
	// CheckInterval is used until the settings file overrides it.
	CheckInterval time.Duration
}

type Fetch struct {
	Timeout   time.Duration // Timeout bounds one product page request.
	Delay     time.Duration // Delay is the pause between consecutive requests.
	UserAgent string
}

// Load reads the configuration from APT_* environment variables.
func Load() (*Config, error) {
	// Automatically binds environment variables to config keys
	viper.SetEnvPrefix("APT")
	viper.AllowEmptyEnv(true)
	viper.AutomaticEnv()

	// optional args
	viper.SetDefault("ENV", "production")
	viper.SetDefault("URLS_FILE", "tracked_products.txt")
	viper.SetDefault("RESULTS_FILE", "price_history.csv")
	viper.SetDefault("STORAGE_PATH", "tracker.db")
	viper.SetDefault("SETTINGS_FILE", "settings.json")
	viper.SetDefault("FETCH_TIMEOUT", "15s")
	viper.SetDefault("REQUEST_DELAY", "2s")
	viper.SetDefault("CHECK_INTERVAL", "24h")
	viper.SetDefault("USER_AGENT", "")

	cfg := &Config{
		Env:          viper.GetString("ENV"),
		URLsFile:     viper.GetString("URLS_FILE"),
		ResultsFile:  viper.GetString("RESULTS_FILE"),
		StoragePath:  viper.GetString("STORAGE_PATH"),
		SettingsFile: viper.GetString("SETTINGS_FILE"),
		Fetch: Fetch{
			Timeout:   viper.GetDuration("FETCH_TIMEOUT"),
			Delay:     viper.GetDuration("REQUEST_DELAY"),
			UserAgent: viper.GetString("USER_AGENT"),
		},
		CheckInterval: viper.GetDuration("CHECK_INTERVAL"),
	}

	if cfg.URLsFile == "" {
		return nil, errors.New("APT_URLS_FILE must not be empty")
	}

	for name, d := range map[string]time.Duration{
		"APT_FETCH_TIMEOUT":  cfg.Fetch.Timeout,
		"APT_REQUEST_DELAY":  cfg.Fetch.Delay,
		"APT_CHECK_INTERVAL": cfg.CheckInterval,
	} {
		if d <= 0 {
			return nil, fmt.Errorf("error getting %s: %w", name, ErrInvalidDuration)
		}
	}

	return cfg, nil
}

// MustLoad is like Load but panics on an invalid configuration.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}

	return cfg
}
