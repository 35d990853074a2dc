package usecase

import (
	"context"
	"errors"
	"sync"

	domain "github.com/webdroid21/component-pulse-sub000/internal/entity"
)

var ErrSettingsNotFound = errors.New("settings not found")

// Settings keeps the store settings document cached in memory so the
// checkout menus (delivery options, payment methods) can be read without
// a database round trip. Admin updates write through and refresh the
// cached copy.
type Settings struct {
	repo SettingsRepo

	mu      sync.RWMutex
	current domain.StoreSettings
}

func NewSettings(repo SettingsRepo) *Settings {
	return &Settings{repo: repo, current: domain.DefaultSettings()}
}

// Load reads the persisted document, falling back to defaults when none
// has been saved yet.
func (s *Settings) Load(ctx context.Context) error {
	doc, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrSettingsNotFound) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	s.current = *doc
	s.mu.Unlock()
	return nil
}

// Current returns the last-loaded settings.
func (s *Settings) Current() domain.StoreSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update persists the new document and refreshes the cached copy.
func (s *Settings) Update(ctx context.Context, in domain.StoreSettings) error {
	if err := s.repo.Update(ctx, &in); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = in
	s.mu.Unlock()
	return nil
}
