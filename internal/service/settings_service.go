package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/finance-dashboard/internal/apperrors"
	"github.com/ndewijer/finance-dashboard/internal/model"
	"github.com/ndewijer/finance-dashboard/internal/validation"
)

// SettingsStore persists the dashboard settings.
type SettingsStore interface {
	Load(ctx context.Context) (model.Settings, error)
	Save(ctx context.Context, settings model.Settings) error
}

// SettingsService owns the last loaded settings value and writes through to the
// store only when a new value differs from it.
type SettingsService struct {
	store  SettingsStore
	logger logrus.FieldLogger

	mu     sync.Mutex
	loaded model.Settings
}

// NewSettingsService loads the stored settings. Any load failure (missing file,
// unreadable file, malformed JSON) falls back to model.DefaultSettings.
func NewSettingsService(ctx context.Context, store SettingsStore, logger logrus.FieldLogger) *SettingsService {
	s := &SettingsService{store: store, logger: logger}
	s.loaded = s.load(ctx)
	return s
}

func (s *SettingsService) load(ctx context.Context) model.Settings {
	settings, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrSettingsNotFound) {
			s.logger.Info("no saved settings, using defaults")
		} else {
			s.logger.WithError(err).Warn("failed to load settings, using defaults")
		}
		return model.DefaultSettings()
	}
	return settings
}

// Current returns a copy of the last loaded or saved settings.
func (s *SettingsService) Current() model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded.Clone()
}

// Sync persists next if it differs from the last loaded value.
// Returns whether a write happened. Validation and save failures are returned.
func (s *SettingsService) Sync(ctx context.Context, next model.Settings) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if next.Equal(s.loaded) {
		return false, nil
	}
	if err := validation.ValidateSettings(next); err != nil {
		return false, fmt.Errorf("%w: %w", apperrors.ErrInvalidSettings, err)
	}
	if err := s.store.Save(ctx, next); err != nil {
		return false, err
	}

	s.loaded = next.Clone()
	s.logger.Info("settings saved")
	return true, nil
}
