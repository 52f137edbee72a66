package repository

import (
	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/pkg/logger"
	"gorm.io/gorm"
)

type SavedSearchRepository interface {
	Create(search *model.SavedSearch) error
	FindByID(workspaceID, id uint) (*model.SavedSearch, error)
	FindAll(workspaceID uint) ([]model.SavedSearch, error)
	Delete(workspaceID, id uint) error
}

type savedSearchRepository struct {
	db *gorm.DB
}

func NewSavedSearchRepository(db *gorm.DB) SavedSearchRepository {
	return &savedSearchRepository{db: db}
}

func (r *savedSearchRepository) Create(search *model.SavedSearch) error {
	if err := r.db.Create(search).Error; err != nil {
		logger.Error("Failed to create saved search", err, map[string]interface{}{
			"workspace_id": search.WorkspaceID,
			"name":         search.Name,
		})
		return err
	}
	return nil
}

func (r *savedSearchRepository) FindByID(workspaceID, id uint) (*model.SavedSearch, error) {
	var search model.SavedSearch
	if err := r.db.Where("workspace_id = ?", workspaceID).First(&search, id).Error; err != nil {
		return nil, err
	}
	return &search, nil
}

func (r *savedSearchRepository) FindAll(workspaceID uint) ([]model.SavedSearch, error) {
	var searches []model.SavedSearch
	if err := r.db.
		Where("workspace_id = ?", workspaceID).
		Order("created_at DESC").
		Find(&searches).Error; err != nil {
		logger.Error("Failed to list saved searches", err, map[string]interface{}{
			"workspace_id": workspaceID,
		})
		return nil, err
	}
	return searches, nil
}

func (r *savedSearchRepository) Delete(workspaceID, id uint) error {
	result := r.db.Where("workspace_id = ?", workspaceID).Delete(&model.SavedSearch{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
