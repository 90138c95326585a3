package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abrezinsky/plateplay/internal/logger"
)

// Scheduler exports the store to its destinations on an interval.
type Scheduler struct {
	log          logger.Logger
	store        Store
	destinations []Destination
	interval     time.Duration
}

// NewScheduler creates a scheduler that exports from the store to the given
// destinations at the specified interval.
func NewScheduler(log logger.Logger, s Store, destinations []Destination, interval time.Duration) *Scheduler {
	return &Scheduler{
		log:          log,
		store:        s,
		destinations: destinations,
		interval:     interval,
	}
}

// Run exports once immediately and then on every tick until ctx is cancelled.
// Failed exports are logged and retried on the next tick.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("backup interval must be positive, got %s", s.interval)
	}
	s.log.Info("Backup scheduler started", "interval", s.interval.String(), "destinations", len(s.destinations))

	if err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
		s.log.Error("Backup failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
				s.log.Error("Backup failed", "error", err)
			}
		}
	}
}

// RunOnce exports and writes to every destination. A failing destination does
// not stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	var buf bytes.Buffer
	if err := ExportJSONL(ctx, s.store, &buf); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	data := buf.Bytes()

	var errs []error
	for _, dest := range s.destinations {
		if err := dest.Write(ctx, data); err != nil {
			s.log.Warn("Backup destination failed", "destination", dest.String(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", dest, err))
		}
	}

	s.log.Info("Backup completed", "destinations", len(s.destinations), "bytes", len(data))
	return errors.Join(errs...)
}
