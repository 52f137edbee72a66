package service

import (
	"sync"
	"time"

	"github.com/salgsflyt/salgsflyt-backend/internal/app/repository"
	"github.com/salgsflyt/salgsflyt-backend/pkg/logger"
)

// DashboardSummary er aggregatene forsiden viser
type DashboardSummary struct {
	StageCounts    []repository.StageCount `json:"stage_counts"`
	StageValues    []repository.StageValue `json:"stage_values"`
	TasksDueWeek   int64                   `json:"tasks_due_week"`
	RecentlySynced int64                   `json:"recently_synced"`
	SnapshotCount  int64                   `json:"snapshot_count"`
}

type DashboardService interface {
	Summary(workspaceID uint) (*DashboardSummary, error)
}

type dashboardService struct {
	businessRepo repository.BusinessRepository
	taskRepo     repository.TaskRepository
	brregRepo    repository.BrregRepository
}

func NewDashboardService(
	businessRepo repository.BusinessRepository,
	taskRepo repository.TaskRepository,
	brregRepo repository.BrregRepository,
) DashboardService {
	return &dashboardService{
		businessRepo: businessRepo,
		taskRepo:     taskRepo,
		brregRepo:    brregRepo,
	}
}

// Summary kjører de uavhengige aggregatspørringene parallelt.
// Den første feilen vinner; delresultater forkastes.
func (s *dashboardService) Summary(workspaceID uint) (*DashboardSummary, error) {
	summary := &DashboardSummary{}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	wg.Add(5)
	go func() {
		defer wg.Done()
		counts, err := s.businessRepo.CountByStage(workspaceID)
		if err != nil {
			fail(err)
			return
		}
		summary.StageCounts = counts
	}()
	go func() {
		defer wg.Done()
		values, err := s.businessRepo.SumPotentialByStage(workspaceID)
		if err != nil {
			fail(err)
			return
		}
		summary.StageValues = values
	}()
	go func() {
		defer wg.Done()
		due, err := s.taskRepo.CountDue(workspaceID, time.Now().AddDate(0, 0, 7))
		if err != nil {
			fail(err)
			return
		}
		summary.TasksDueWeek = due
	}()
	go func() {
		defer wg.Done()
		synced, err := s.businessRepo.CountRecentlySynced(workspaceID, time.Now().AddDate(0, 0, -30))
		if err != nil {
			fail(err)
			return
		}
		summary.RecentlySynced = synced
	}()
	go func() {
		defer wg.Done()
		total, err := s.brregRepo.Count()
		if err != nil {
			fail(err)
			return
		}
		summary.SnapshotCount = total
	}()
	wg.Wait()

	if firstErr != nil {
		logger.Error("Dashboard aggregation failed", firstErr, map[string]interface{}{
			"workspace_id": workspaceID,
		})
		return nil, firstErr
	}
	return summary, nil
}
