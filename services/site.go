package services

import (
	"context"
	"errors"

	"github.com/yeremiapane/paradise-cafe/store"
	"github.com/yeremiapane/paradise-cafe/view"
)

// Site bundles one editor per collection over a shared gateway.
type Site struct {
	Gateway   *store.Gateway
	Monitor   *WriteMonitor
	Menu      *MenuEditor
	Banners   *BannerEditor
	Offers    *OfferEditor
	MenuPages *MenuPageEditor
	Settings  *SettingsEditor
}

type lifecycle interface {
	Start(ctx context.Context) error
	WaitReady(ctx context.Context) error
	Close()
}

func NewSite(gw *store.Gateway) *Site {
	monitor := NewWriteMonitor()
	return &Site{
		Gateway:   gw,
		Monitor:   monitor,
		Menu:      NewMenuEditor(gw, monitor),
		Banners:   NewBannerEditor(gw, monitor),
		Offers:    NewOfferEditor(gw, monitor),
		MenuPages: NewMenuPageEditor(gw, monitor),
		Settings:  NewSettingsEditor(gw, monitor),
	}
}

func (s *Site) parts() []lifecycle {
	return []lifecycle{s.Menu, s.Banners, s.Offers, s.MenuPages, s.Settings}
}

// Start subscribes every editor.
func (s *Site) Start(ctx context.Context) error {
	for _, p := range s.parts() {
		if err := p.Start(ctx); err != nil {
			s.Close()
			return err
		}
	}
	return nil
}

// WaitReady blocks until every editor received its first snapshot.
func (s *Site) WaitReady(ctx context.Context) error {
	var errs []error
	for _, p := range s.parts() {
		if err := p.WaitReady(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Site) Close() {
	for _, p := range s.parts() {
		p.Close()
	}
}

// State returns the mirrored value of every collection.
func (s *Site) State() view.State {
	return view.State{
		MenuItems: s.Menu.Snapshot(),
		Banners:   s.Banners.Snapshot(),
		Offers:    s.Offers.Snapshot(),
		MenuPages: s.MenuPages.Snapshot(),
		Settings:  s.Settings.Current(),
	}
}
