package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/yeremiapane/paradise-cafe/models"
	"github.com/yeremiapane/paradise-cafe/store"
)

// SettingsEditor mirrors the settings singleton. Until a value exists the defaults apply.
type SettingsEditor struct {
	doc     *store.Document[models.RestaurantSettings]
	monitor *WriteMonitor

	writeMu sync.Mutex

	mu      sync.RWMutex
	current models.RestaurantSettings
	version int64
	started bool
	unsub   func()

	ready     chan struct{}
	readyOnce sync.Once
}

func NewSettingsEditor(gw *store.Gateway, monitor *WriteMonitor) *SettingsEditor {
	return &SettingsEditor{
		doc:     store.NewDocument[models.RestaurantSettings](gw, models.CollectionSettings),
		monitor: monitor,
		current: models.DefaultSettings(),
		ready:   make(chan struct{}),
	}
}

func (s *SettingsEditor) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	unsub, err := s.doc.Subscribe(ctx, s.apply)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", s.doc.Name(), err)
	}

	s.mu.Lock()
	s.unsub = unsub
	s.mu.Unlock()
	return nil
}

func (s *SettingsEditor) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
}

func (s *SettingsEditor) apply(doc *models.RestaurantSettings, version int64) {
	s.writeMu.Lock()
	s.mu.Lock()
	if version >= s.version {
		s.version = version
		if doc != nil {
			s.current = *doc
		} else {
			s.current = models.DefaultSettings()
		}
	}
	s.mu.Unlock()
	s.writeMu.Unlock()

	s.readyOnce.Do(func() { close(s.ready) })
}

func (s *SettingsEditor) WaitReady(ctx context.Context) error {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return ErrNotStarted
	}

	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Current returns the last saved or received settings.
func (s *SettingsEditor) Current() models.RestaurantSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Draft starts an edit buffer from the current settings. Edits stay local until saved.
func (s *SettingsEditor) Draft() *SettingsDraft {
	return &SettingsDraft{Settings: s.Current()}
}

// Save replaces the stored settings wholesale.
func (s *SettingsEditor) Save(ctx context.Context, settings models.RestaurantSettings) error {
	if err := s.WaitReady(ctx); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.current = settings
	s.mu.Unlock()

	version, err := s.doc.Replace(ctx, settings)
	s.monitor.Record(s.doc.Name(), err)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if version > s.version {
		s.version = version
	}
	s.mu.Unlock()
	return nil
}

type SettingsDraft struct {
	Settings models.RestaurantSettings
}

// Set edits one field of the buffer by its JSON name.
func (d *SettingsDraft) Set(field, value string) error {
	switch field {
	case "days":
		d.Settings.Days = value
	case "hours":
		d.Settings.Hours = value
	case "logoUrl":
		d.Settings.LogoURL = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}
