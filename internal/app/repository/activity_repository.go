package repository

import (
	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/pkg/logger"
	"gorm.io/gorm"
)

type ActivityRepository interface {
	Create(activity *model.Activity) error
	FindByBusiness(workspaceID, businessID uint, limit int) ([]model.Activity, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(activity *model.Activity) error {
	if err := r.db.Create(activity).Error; err != nil {
		logger.Error("Failed to create activity", err, map[string]interface{}{
			"business_id": activity.BusinessID,
			"type":        activity.Type,
		})
		return err
	}
	return nil
}

func (r *activityRepository) FindByBusiness(workspaceID, businessID uint, limit int) ([]model.Activity, error) {
	query := r.db.
		Where("workspace_id = ? AND business_id = ?", workspaceID, businessID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var activities []model.Activity
	if err := query.Find(&activities).Error; err != nil {
		logger.Error("Failed to find activities", err, map[string]interface{}{
			"business_id": businessID,
		})
		return nil, err
	}
	return activities, nil
}
