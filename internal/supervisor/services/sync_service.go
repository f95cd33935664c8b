// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package services

import (
	"context"
	"fmt"
)

// StartStopper is the lifecycle of *sync.InsightsSyncer. Start returns once
// the schedule loop is running; Stop waits for it to exit.
type StartStopper interface {
	Start(ctx context.Context) error
	Stop() error
}

// SyncService runs the insights sync job under supervision.
//
// Example:
//
//	syncer := sync.NewInsightsSyncer(instagram, sheets, responseCache, cfg.Sync)
//	tree.AddSyncService(services.NewSyncService(syncer))
type SyncService struct {
	syncer StartStopper
	name   string
}

// NewSyncService wraps syncer.
func NewSyncService(syncer StartStopper) *SyncService {
	return &SyncService{
		syncer: syncer,
		name:   "instagram-sync",
	}
}

// Serve implements suture.Service. A failed Start is returned so suture
// retries it with backoff.
func (s *SyncService) Serve(ctx context.Context) error {
	if err := s.syncer.Start(ctx); err != nil {
		return fmt.Errorf("insights sync start failed: %w", err)
	}

	<-ctx.Done()

	if err := s.syncer.Stop(); err != nil {
		return fmt.Errorf("insights sync stop failed: %w", err)
	}
	return ctx.Err()
}

func (s *SyncService) String() string {
	return s.name
}
