package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ndewijer/finance-dashboard/internal/apperrors"
	"github.com/ndewijer/finance-dashboard/internal/model"
)

// FileSettingsRepository stores settings in a single JSON file that is overwritten
// wholesale on every save.
type FileSettingsRepository struct {
	path string
}

// NewFileSettingsRepository creates a repository backed by the file at path.
func NewFileSettingsRepository(path string) *FileSettingsRepository {
	return &FileSettingsRepository{path: path}
}

// Path returns the settings file location.
func (r *FileSettingsRepository) Path() string {
	return r.path
}

// Load reads and decodes the settings file.
// Returns apperrors.ErrSettingsNotFound when the file does not exist.
func (r *FileSettingsRepository) Load(_ context.Context) (model.Settings, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.Settings{}, fmt.Errorf("%w: %s", apperrors.ErrSettingsNotFound, r.path)
		}
		return model.Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}
	return DecodeSettings(data)
}

// UpdatedAt returns the modification time of the settings file.
// Returns apperrors.ErrSettingsNotFound when the file does not exist.
func (r *FileSettingsRepository) UpdatedAt(_ context.Context) (time.Time, error) {
	info, err := os.Stat(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, fmt.Errorf("%w: %s", apperrors.ErrSettingsNotFound, r.path)
		}
		return time.Time{}, fmt.Errorf("failed to stat settings file: %w", err)
	}
	return info.ModTime().UTC(), nil
}

// Save writes settings to a temporary file and renames it over the target.
func (r *FileSettingsRepository) Save(_ context.Context, settings model.Settings) error {
	data, err := EncodeSettings(settings)
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrFailedToSaveSettings, err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrFailedToSaveSettings, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", apperrors.ErrFailedToSaveSettings, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrFailedToSaveSettings, err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrFailedToSaveSettings, err)
	}
	return nil
}
