package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/Houeta/price-tracker/internal/models"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	keyEnabled       = "alerts.enabled"
	keyRecipient     = "alerts.recipient"
	keySMTPHost      = "alerts.smtp.host"
	keySMTPPort      = "alerts.smtp.port"
	keySMTPUsername  = "alerts.smtp.username"
	keySMTPPassword  = "alerts.smtp.password"
	keyTelegramToken = "alerts.telegram.token"
	keyTelegramChat  = "alerts.telegram.chat_id"
	keyThresholdKind = "alerts.threshold.kind"
	keyThresholdVal  = "alerts.threshold.value"
	keyCheckInterval = "check_interval"
)

var settingsKeys = []string{
	keyEnabled, keyRecipient, keySMTPHost, keySMTPPort, keySMTPUsername, keySMTPPassword,
	keyTelegramToken, keyTelegramChat, keyThresholdKind, keyThresholdVal, keyCheckInterval,
}

// Settings is the part of the configuration the user edits from the menu.
type Settings struct {
	Alerts        models.AlertConfig
	CheckInterval time.Duration

	// env holds the keys whose loaded value came from the environment.
	env map[string]envOverride
}

// envOverride remembers what the file held under a key overridden by the environment.
type envOverride struct {
	loaded any // loaded is the environment value in its written form.
	file   any
	inFile bool
}

// FromEnv reports whether key was supplied by an APT_* variable at load time.
func (s Settings) FromEnv(key string) bool {
	_, ok := s.env[key]
	return ok
}

// values returns s in the form written to the settings file.
func (s Settings) values() map[string]any {
	return map[string]any{
		keyEnabled:       s.Alerts.Enabled,
		keyRecipient:     s.Alerts.Recipient,
		keySMTPHost:      s.Alerts.SMTP.Host,
		keySMTPPort:      s.Alerts.SMTP.Port,
		keySMTPUsername:  s.Alerts.SMTP.Username,
		keySMTPPassword:  s.Alerts.SMTP.Password,
		keyTelegramToken: s.Alerts.Telegram.Token,
		keyTelegramChat:  s.Alerts.Telegram.ChatID,
		keyThresholdKind: string(s.Alerts.Threshold.Kind),
		keyThresholdVal:  s.Alerts.Threshold.Value.String(),
		keyCheckInterval: s.CheckInterval.String(),
	}
}

func envName(key string) string {
	return "APT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// DefaultSettings returns disabled alerts with a 10% threshold.
func DefaultSettings(interval time.Duration) Settings {
	return Settings{
		Alerts: models.AlertConfig{
			SMTP:      models.SMTP{Port: 587},
			Threshold: models.Threshold{Kind: models.ThresholdPercent, Value: decimal.NewFromInt(10)},
		},
		CheckInterval: interval,
	}
}

// LoadSettings reads the settings file at path. A missing file yields the defaults.
// APT_ALERTS_* and APT_CHECK_INTERVAL variables override file values.
func LoadSettings(fsys afero.Fs, path string, defaultInterval time.Duration) (Settings, error) {
	const opn = "config.LoadSettings"

	def := DefaultSettings(defaultInterval)

	v := viper.New()
	v.SetFs(fsys)
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix("APT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault(keyEnabled, def.Alerts.Enabled)
	v.SetDefault(keySMTPPort, def.Alerts.SMTP.Port)
	v.SetDefault(keyThresholdKind, string(def.Alerts.Threshold.Kind))
	v.SetDefault(keyThresholdVal, def.Alerts.Threshold.Value.String())
	v.SetDefault(keyCheckInterval, def.CheckInterval.String())

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return def, fmt.Errorf("%s: failed to read %s: %w", opn, path, err)
	}

	env := make(map[string]envOverride)
	for _, key := range settingsKeys {
		if _, ok := os.LookupEnv(envName(key)); ok {
			env[key] = envOverride{file: v.Get(key), inFile: v.InConfig(key)}
		}
	}

	v.AutomaticEnv()

	threshold, err := decimal.NewFromString(v.GetString(keyThresholdVal))
	if err != nil {
		return def, fmt.Errorf("%s: %w: invalid threshold value: %w", opn, models.ErrConfig, err)
	}

	interval, err := time.ParseDuration(v.GetString(keyCheckInterval))
	if err != nil || interval <= 0 {
		return def, fmt.Errorf("%s: %w: invalid check interval %q", opn, models.ErrConfig, v.GetString(keyCheckInterval))
	}

	loaded := Settings{
		Alerts: models.AlertConfig{
			Enabled:   v.GetBool(keyEnabled),
			Recipient: v.GetString(keyRecipient),
			SMTP: models.SMTP{
				Host:     v.GetString(keySMTPHost),
				Port:     v.GetInt(keySMTPPort),
				Username: v.GetString(keySMTPUsername),
				Password: v.GetString(keySMTPPassword),
			},
			Telegram: models.Telegram{
				Token:  v.GetString(keyTelegramToken),
				ChatID: v.GetInt64(keyTelegramChat),
			},
			Threshold: models.Threshold{
				Kind:  models.ThresholdKind(v.GetString(keyThresholdKind)),
				Value: threshold,
			},
		},
		CheckInterval: interval,
	}

	values := loaded.values()
	for key, override := range env {
		override.loaded = values[key]
		env[key] = override
	}
	loaded.env = env

	return loaded, nil
}

// SaveSettings writes s to path as JSON, replacing the previous file. A value that still
// equals what the environment supplied at load time is written as the file had it.
func SaveSettings(fsys afero.Fs, path string, s Settings) error {
	const opn = "config.SaveSettings"

	v := viper.New()
	v.SetFs(fsys)
	v.SetConfigType("json")
	v.SetConfigPermissions(0o600)

	for key, value := range s.values() {
		if override, ok := s.env[key]; ok && fmt.Sprint(value) == fmt.Sprint(override.loaded) {
			if !override.inFile {
				continue
			}
			value = override.file
		}
		v.Set(key, value)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("%s: failed to write %s: %w", opn, path, err)
	}

	return nil
}
