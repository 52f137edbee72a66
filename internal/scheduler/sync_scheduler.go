package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/salgsflyt/salgsflyt-backend/internal/app/repository"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/service"
	"github.com/salgsflyt/salgsflyt-backend/pkg/logger"
)

const (
	// Bedrifter eldre enn dette avstemmes på nytt mot Enhetsregisteret
	staleAfter = 30 * 24 * time.Hour

	// Per natt, for å ikke hamre på BRREG
	maxPerRun = 200
)

// SyncScheduler re-syncs stale businesses against the registry every night
type SyncScheduler struct {
	cron            *cron.Cron
	businessRepo    repository.BusinessRepository
	businessService service.BusinessService
}

func NewSyncScheduler(businessRepo repository.BusinessRepository, businessService service.BusinessService) *SyncScheduler {
	return &SyncScheduler{
		cron:            cron.New(),
		businessRepo:    businessRepo,
		businessService: businessService,
	}
}

// Start schedules the nightly run
func (s *SyncScheduler) Start() error {
	// Kl. 03:00 hver natt, utenfor arbeidstid
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		s.RunOnce(context.Background())
	})

	if err != nil {
		logger.Error("Failed to add cron job for registry sync", err)
		return err
	}

	s.cron.Start()
	logger.Info("Registry sync scheduler started (daily at 03:00)", nil)

	return nil
}

// RunOnce performs one sweep over stale businesses. Exported so the
// sweep can be triggered outside the cron schedule.
func (s *SyncScheduler) RunOnce(ctx context.Context) {
	logger.Info("Starting scheduled registry sync", nil)

	cutoff := time.Now().Add(-staleAfter)
	stale, err := s.businessRepo.FindStale(cutoff, maxPerRun)
	if err != nil {
		logger.Error("Failed to list stale businesses", err)
		return
	}

	synced := 0
	failed := 0
	for _, business := range stale {
		if _, err := s.businessService.SyncWithRegistry(ctx, business.WorkspaceID, business.ID); err != nil {
			// Én feilet bedrift stopper ikke resten av runden
			failed++
			logger.Warn("Registry sync failed for business", map[string]interface{}{
				"business_id": business.ID,
				"error":       err.Error(),
			})
			continue
		}
		synced++
	}

	logger.Info("Scheduled registry sync finished", map[string]interface{}{
		"candidates": len(stale),
		"synced":     synced,
		"failed":     failed,
	})
}

// Stop halts the scheduler
func (s *SyncScheduler) Stop() {
	logger.Info("Stopping registry sync scheduler...", nil)
	s.cron.Stop()
	logger.Info("Registry sync scheduler stopped", nil)
}
