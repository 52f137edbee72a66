package service

import (
	"errors"

	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/repository"
	"gorm.io/gorm"
)

type ActivityService interface {
	AddNote(workspaceID, businessID uint, content, actor string) (*model.Activity, error)
	ListByBusiness(workspaceID, businessID uint, limit int) ([]model.Activity, error)
}

type activityService struct {
	activityRepo repository.ActivityRepository
	businessRepo repository.BusinessRepository
}

func NewActivityService(
	activityRepo repository.ActivityRepository,
	businessRepo repository.BusinessRepository,
) ActivityService {
	return &activityService{activityRepo: activityRepo, businessRepo: businessRepo}
}

func (s *activityService) AddNote(workspaceID, businessID uint, content, actor string) (*model.Activity, error) {
	if _, err := s.businessRepo.FindByID(workspaceID, businessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	activity := &model.Activity{
		WorkspaceID: workspaceID,
		BusinessID:  businessID,
		Type:        model.ActivityNote,
		Content:     content,
		Actor:       actor,
	}
	if err := s.activityRepo.Create(activity); err != nil {
		return nil, err
	}
	return activity, nil
}

func (s *activityService) ListByBusiness(workspaceID, businessID uint, limit int) ([]model.Activity, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.activityRepo.FindByBusiness(workspaceID, businessID, limit)
}
