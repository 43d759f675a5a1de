package manager

import (
	"fmt"
	"time"

	"github.com/Maximus-Ay/GoLocal/internal/models"
	"github.com/Maximus-Ay/GoLocal/internal/storage"
)

const settingsConfigKey = "application_settings"

// SettingsManager interface defines the contract for settings management
type SettingsManager interface {
	LoadSettings() (*models.ApplicationSettings, error)
	SaveSettings(settings *models.ApplicationSettings) error
	GetDefaultSettings() *models.ApplicationSettings
}

// SettingsManagerImpl implements the SettingsManager interface
type SettingsManagerImpl struct {
	db storage.Database
}

// NewSettingsManager creates a new settings manager
func NewSettingsManager(db storage.Database) *SettingsManagerImpl {
	return &SettingsManagerImpl{
		db: db,
	}
}

// LoadSettings loads application settings from the database
func (sm *SettingsManagerImpl) LoadSettings() (*models.ApplicationSettings, error) {
	settingsJSON, err := sm.db.GetConfig(settingsConfigKey)
	if err != nil {
		// Settings that were never saved fall back to defaults; they are
		// persisted the first time the user changes them
		return models.DefaultApplicationSettings(), nil
	}

	settings := &models.ApplicationSettings{}
	if err := settings.FromJSON(settingsJSON); err != nil {
		return nil, fmt.Errorf("failed to parse settings from database: %w", err)
	}

	return settings, nil
}

// SaveSettings saves application settings to the database
func (sm *SettingsManagerImpl) SaveSettings(settings *models.ApplicationSettings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("settings validation failed: %w", err)
	}

	settings.LastUpdated = time.Now()

	settingsJSON, err := settings.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}

	if err := sm.db.SaveConfig(settingsConfigKey, settingsJSON); err != nil {
		return fmt.Errorf("failed to save settings to database: %w", err)
	}

	return nil
}

// GetDefaultSettings returns the default application settings
func (sm *SettingsManagerImpl) GetDefaultSettings() *models.ApplicationSettings {
	return models.DefaultApplicationSettings()
}
