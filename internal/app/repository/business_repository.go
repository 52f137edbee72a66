package repository

import (
	"time"

	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/pkg/logger"
	"gorm.io/gorm"
)

type BusinessFilter struct {
	Stage  *model.BusinessStage
	Status *model.BusinessStatus
	Search string
	Limit  int
	Offset int
}

type StageCount struct {
	Stage model.BusinessStage
	Count int64
}

type StageValue struct {
	Stage model.BusinessStage
	Total float64
}

type BusinessRepository interface {
	Create(business *model.Business) error
	Update(business *model.Business) error
	UpdateFields(id uint, fields map[string]interface{}) error
	Delete(workspaceID, id uint) error
	FindByID(workspaceID, id uint) (*model.Business, error)
	FindByOrgNumber(workspaceID uint, orgNumber string) (*model.Business, error)
	FindByExternalID(workspaceID uint, externalID string) (*model.Business, error)
	FindAll(workspaceID uint, filter BusinessFilter) ([]model.Business, error)
	CountByStage(workspaceID uint) ([]StageCount, error)
	SumPotentialByStage(workspaceID uint) ([]StageValue, error)
	FindStale(olderThan time.Time, limit int) ([]model.Business, error)
	CountRecentlySynced(workspaceID uint, since time.Time) (int64, error)
}

type businessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) Create(business *model.Business) error {
	logger.Debug("Creating business in database", map[string]interface{}{
		"name":         business.Name,
		"workspace_id": business.WorkspaceID,
		"org_number":   business.OrgNumber,
	})

	if err := r.db.Create(business).Error; err != nil {
		logger.Error("Failed to create business in database", err, map[string]interface{}{
			"name":         business.Name,
			"workspace_id": business.WorkspaceID,
		})
		return err
	}

	logger.Debug("Business created in database", map[string]interface{}{
		"business_id": business.ID,
		"name":        business.Name,
	})
	return nil
}

func (r *businessRepository) Update(business *model.Business) error {
	if err := r.db.Save(business).Error; err != nil {
		logger.Error("Failed to update business in database", err, map[string]interface{}{
			"business_id": business.ID,
		})
		return err
	}
	return nil
}

// UpdateFields skriver bare de angitte kolonnene; brukes av avstemmingen
// slik at brukereide felter aldri berøres
func (r *businessRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.Model(&model.Business{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		logger.Error("Failed to update business fields", err, map[string]interface{}{
			"business_id": id,
		})
		return err
	}
	return nil
}

func (r *businessRepository) Delete(workspaceID, id uint) error {
	result := r.db.Where("workspace_id = ?", workspaceID).Delete(&model.Business{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete business from database", result.Error, map[string]interface{}{
			"business_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *businessRepository) FindByID(workspaceID, id uint) (*model.Business, error) {
	var business model.Business
	if err := r.db.Where("workspace_id = ?", workspaceID).First(&business, id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) FindByOrgNumber(workspaceID uint, orgNumber string) (*model.Business, error) {
	var business model.Business
	if err := r.db.
		Where("workspace_id = ? AND org_number = ?", workspaceID, orgNumber).
		First(&business).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) FindByExternalID(workspaceID uint, externalID string) (*model.Business, error) {
	var business model.Business
	if err := r.db.
		Where("workspace_id = ? AND external_id = ?", workspaceID, externalID).
		First(&business).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) FindAll(workspaceID uint, filter BusinessFilter) ([]model.Business, error) {
	query := r.db.Model(&model.Business{}).Where("workspace_id = ?", workspaceID)

	if filter.Stage != nil {
		query = query.Where("stage = ?", *filter.Stage)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR contact_person LIKE ?", like, like)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var businesses []model.Business
	if err := query.Order("updated_at DESC").Find(&businesses).Error; err != nil {
		logger.Error("Failed to find businesses", err, map[string]interface{}{
			"workspace_id": workspaceID,
		})
		return nil, err
	}
	return businesses, nil
}

func (r *businessRepository) CountByStage(workspaceID uint) ([]StageCount, error) {
	var counts []StageCount
	if err := r.db.Model(&model.Business{}).
		Select("stage, COUNT(*) as count").
		Where("workspace_id = ?", workspaceID).
		Group("stage").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *businessRepository) SumPotentialByStage(workspaceID uint) ([]StageValue, error) {
	var values []StageValue
	if err := r.db.Model(&model.Business{}).
		Select("stage, COALESCE(SUM(potential_value), 0) as total").
		Where("workspace_id = ?", workspaceID).
		Group("stage").
		Scan(&values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

// FindStale finner bedrifter med orgnr som ikke er avstemt siden olderThan,
// på tvers av arbeidsområder. Brukes av den nattlige synkroniseringen.
func (r *businessRepository) FindStale(olderThan time.Time, limit int) ([]model.Business, error) {
	var businesses []model.Business
	query := r.db.
		Where("org_number IS NOT NULL").
		Where("brreg_updated_at IS NULL OR brreg_updated_at < ?", olderThan).
		Order("brreg_updated_at ASC NULLS FIRST")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&businesses).Error; err != nil {
		logger.Error("Failed to find stale businesses", err)
		return nil, err
	}
	return businesses, nil
}

func (r *businessRepository) CountRecentlySynced(workspaceID uint, since time.Time) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Business{}).
		Where("workspace_id = ? AND brreg_updated_at >= ?", workspaceID, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
