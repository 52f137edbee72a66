package repository

import (
	"time"

	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/pkg/logger"
	"gorm.io/gorm"
)

type WorkspaceRepository interface {
	Create(workspace *model.Workspace) error
	FindByID(id uint) (*model.Workspace, error)
	CreateAPIKey(key *model.WorkspaceAPIKey) error
	FindAPIKey(key string) (*model.WorkspaceAPIKey, error)
	TouchAPIKey(id uint, at time.Time) error
	RevokeAPIKey(workspaceID, keyID uint) error
	ListAPIKeys(workspaceID uint) ([]model.WorkspaceAPIKey, error)
}

type workspaceRepository struct {
	db *gorm.DB
}

func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &workspaceRepository{db: db}
}

func (r *workspaceRepository) Create(workspace *model.Workspace) error {
	if err := r.db.Create(workspace).Error; err != nil {
		logger.Error("Failed to create workspace", err, map[string]interface{}{
			"name": workspace.Name,
		})
		return err
	}
	return nil
}

func (r *workspaceRepository) FindByID(id uint) (*model.Workspace, error) {
	var workspace model.Workspace
	if err := r.db.First(&workspace, id).Error; err != nil {
		return nil, err
	}
	return &workspace, nil
}

func (r *workspaceRepository) CreateAPIKey(key *model.WorkspaceAPIKey) error {
	logger.Debug("Creating workspace API key", map[string]interface{}{
		"workspace_id": key.WorkspaceID,
		"label":        key.Label,
	})

	if err := r.db.Create(key).Error; err != nil {
		logger.Error("Failed to create workspace API key", err, map[string]interface{}{
			"workspace_id": key.WorkspaceID,
		})
		return err
	}
	return nil
}

func (r *workspaceRepository) FindAPIKey(key string) (*model.WorkspaceAPIKey, error) {
	var apiKey model.WorkspaceAPIKey
	if err := r.db.Where("key = ?", key).First(&apiKey).Error; err != nil {
		return nil, err
	}
	return &apiKey, nil
}

func (r *workspaceRepository) TouchAPIKey(id uint, at time.Time) error {
	return r.db.Model(&model.WorkspaceAPIKey{}).
		Where("id = ?", id).
		Update("last_used_at", at).Error
}

// RevokeAPIKey deaktiverer en nøkkel. Arbeidsområdet er en del av
// nøkkelen her; en nøkkel kan aldri tilbakekalles på tvers av tenanter.
func (r *workspaceRepository) RevokeAPIKey(workspaceID, keyID uint) error {
	result := r.db.Model(&model.WorkspaceAPIKey{}).
		Where("workspace_id = ? AND id = ?", workspaceID, keyID).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *workspaceRepository) ListAPIKeys(workspaceID uint) ([]model.WorkspaceAPIKey, error) {
	var keys []model.WorkspaceAPIKey
	if err := r.db.Where("workspace_id = ?", workspaceID).
		Order("created_at DESC").
		Find(&keys).Error; err != nil {
		logger.Error("Failed to list workspace API keys", err, map[string]interface{}{
			"workspace_id": workspaceID,
		})
		return nil, err
	}
	return keys, nil
}
