package services

import (
	"fmt"
	"strconv"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
	"github.com/custodia-labs/lispmeta/internal/core/ports/driven"
	"github.com/custodia-labs/lispmeta/internal/core/ports/driving"
	"github.com/custodia-labs/lispmeta/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyMaxFileSize     = "import.max_file_size"
	keyScanMode        = "import.scan_mode"
	keyFirstMatch      = "import.first_match"
	keyFallbackCharset = "import.fallback_charset"
	keyWorkers         = "index.workers"
	keyRatePerSecond   = "index.rate_per_second"
	keyLogLevel        = "log.level"
)

// settingsKeys lists every key Set accepts, in display order.
var settingsKeys = []string{
	keyMaxFileSize,
	keyScanMode,
	keyFirstMatch,
	keyFallbackCharset,
	keyWorkers,
	keyRatePerSecond,
	keyLogLevel,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
// Missing or invalid stored values fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Import: domain.ImportSettings{
			MaxFileSize:     s.getInt64(keyMaxFileSize, defaults.Import.MaxFileSize),
			ScanMode:        s.getScanMode(defaults.Import.ScanMode),
			FirstMatchWins:  s.getBool(keyFirstMatch, defaults.Import.FirstMatchWins),
			FallbackCharset: s.getString(keyFallbackCharset, defaults.Import.FallbackCharset),
		},
		Index: domain.IndexSettings{
			Workers:       s.getInt(keyWorkers, defaults.Index.Workers),
			RatePerSecond: s.getFloat(keyRatePerSecond, defaults.Index.RatePerSecond),
		},
		Log: domain.LogSettings{
			Level: s.getLogLevel(defaults.Log.Level),
		},
	}

	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if _, err := logger.LevelFromName(settings.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	err := s.configStore.SetAll(map[string]any{
		keyMaxFileSize:     settings.Import.MaxFileSize,
		keyScanMode:        settings.Import.ScanMode.String(),
		keyFirstMatch:      settings.Import.FirstMatchWins,
		keyFallbackCharset: settings.Import.FallbackCharset,
		keyWorkers:         settings.Index.Workers,
		keyRatePerSecond:   settings.Index.RatePerSecond,
		keyLogLevel:        settings.Log.Level,
	})
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	return nil
}

// Set parses value for a single settings key and persists it.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case keyMaxFileSize:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
		}
		settings.Import.MaxFileSize = n
	case keyScanMode:
		settings.Import.ScanMode = domain.ScanMode(value)
	case keyFirstMatch:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
		}
		settings.Import.FirstMatchWins = b
	case keyFallbackCharset:
		settings.Import.FallbackCharset = value
	case keyWorkers:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
		}
		settings.Index.Workers = n
	case keyRatePerSecond:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
		}
		settings.Index.RatePerSecond = f
	case keyLogLevel:
		settings.Log.Level = value
	default:
		return fmt.Errorf("%w: unknown settings key %q", domain.ErrInvalidInput, key)
	}

	return s.Save(settings)
}

// Keys returns the settings keys accepted by Set.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingsKeys))
	copy(keys, settingsKeys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetString(key)
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt64(key string, defaultVal int64) int64 {
	val := s.configStore.GetInt64(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	val := s.configStore.GetFloat(key)
	if val < 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getScanMode(defaultVal domain.ScanMode) domain.ScanMode {
	mode := domain.ScanMode(s.configStore.GetString(keyScanMode))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getLogLevel(defaultVal string) string {
	val := s.configStore.GetString(keyLogLevel)
	if val == "" {
		return defaultVal
	}
	if _, err := logger.LevelFromName(val); err != nil {
		return defaultVal
	}
	return val
}
