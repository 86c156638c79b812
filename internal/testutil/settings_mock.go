package testutil

import (
	"context"
	"sync"

	"github.com/ndewijer/finance-dashboard/internal/apperrors"
	"github.com/ndewijer/finance-dashboard/internal/model"
)

// MemorySettingsStore keeps settings in memory and counts saves.
type MemorySettingsStore struct {
	mu        sync.Mutex
	settings  *model.Settings
	LoadError error
	SaveError error
	Saves     int
}

// NewMemorySettingsStore creates a store, optionally pre-populated.
func NewMemorySettingsStore(initial *model.Settings) *MemorySettingsStore {
	s := &MemorySettingsStore{}
	if initial != nil {
		c := initial.Clone()
		s.settings = &c
	}
	return s
}

// Load returns the stored settings or apperrors.ErrSettingsNotFound.
func (s *MemorySettingsStore) Load(_ context.Context) (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadError != nil {
		return model.Settings{}, s.LoadError
	}
	if s.settings == nil {
		return model.Settings{}, apperrors.ErrSettingsNotFound
	}
	return s.settings.Clone(), nil
}

// Save stores a copy of settings.
func (s *MemorySettingsStore) Save(_ context.Context, settings model.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveError != nil {
		return s.SaveError
	}
	c := settings.Clone()
	s.settings = &c
	s.Saves++
	return nil
}
