// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package services

import (
	"context"
	"os"

	"github.com/tomtom215/foodgram/internal/logging"
)

// Reloader re-reads its configuration in place. Satisfied by *authz.Enforcer.
type Reloader interface {
	Reload() error
}

// ReloadService calls Reload each time a signal arrives on trigger.
// A failed reload keeps the previous state and is logged.
type ReloadService struct {
	reloader Reloader
	trigger  <-chan os.Signal
	name     string
}

// NewReloadService creates a reload service. main passes a channel
// registered with signal.Notify for SIGHUP.
func NewReloadService(name string, reloader Reloader, trigger <-chan os.Signal) *ReloadService {
	return &ReloadService{reloader: reloader, trigger: trigger, name: name}
}

// Serve implements suture.Service.
func (s *ReloadService) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig := <-s.trigger:
			if err := s.reloader.Reload(); err != nil {
				logging.Error().Err(err).Str("service", s.name).Str("signal", sig.String()).Msg("Reload failed, keeping previous state")
				continue
			}
			logging.Info().Str("service", s.name).Str("signal", sig.String()).Msg("Reloaded")
		}
	}
}

// String names the service in supervisor logs.
func (s *ReloadService) String() string {
	return s.name
}
