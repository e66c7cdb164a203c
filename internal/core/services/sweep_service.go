package services

import (
	"context"
	"errors"
	"log"

	"github.com/robfig/cron/v3"

	"markethub/internal/core/domain"
	"markethub/internal/core/state"
)

var errNothingToSweep = errors.New("nothing to sweep")

// SweepService runs the periodic lockout sweep: roughly once a minute
// it drops every expired lock and, when anything was dropped, resets
// the attempt counters.
type SweepService struct {
	container *state.Container
	lockouts  *LockoutTracker
	cron      *cron.Cron
}

// NewSweepService creates a new sweep service
func NewSweepService(container *state.Container, lockouts *LockoutTracker) *SweepService {
	return &SweepService{
		container: container,
		lockouts:  lockouts,
		cron:      cron.New(),
	}
}

// Start schedules the sweep and launches the cron runner.
func (s *SweepService) Start() {
	s.cron.AddFunc("@every 1m", s.RunOnce)
	s.cron.Start()
	log.Println("🚀 Lockout sweeper started (every 1m)")
}

// Stop stops the cron runner, waiting for a running sweep to finish.
func (s *SweepService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Lockout sweeper stopped")
}

// RunOnce performs a single sweep. The document is only persisted when
// a lock actually expired.
func (s *SweepService) RunOnce() {
	err := s.container.Update(context.Background(), func(st *domain.State) error {
		if !s.lockouts.Sweep(st) {
			return errNothingToSweep
		}
		return nil
	})
	if err == nil {
		log.Println("🧹 Expired lockouts swept")
	} else if !errors.Is(err, errNothingToSweep) {
		log.Printf("❌ Lockout sweep error: %v", err)
	}
}
