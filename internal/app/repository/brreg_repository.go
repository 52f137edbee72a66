package repository

import (
	"errors"

	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/pkg/logger"
	"gorm.io/gorm"
)

type SnapshotFilter struct {
	Search          string
	Municipality    string
	City            string
	LegalForm       string
	IndustrySection string
	NacePrefix      string
	VATRegistered   *bool
	HasEmployees    *bool
}

type SnapshotPage struct {
	Items       []model.BrregBusiness `json:"items"`
	Total       int64                 `json:"total"`
	TotalPages  int                   `json:"total_pages"`
	CurrentPage int                   `json:"current_page"`
}

type BrregRepository interface {
	Create(snapshot *model.BrregBusiness) error
	ExistsByOrgNumber(orgNumber string) (bool, error)
	FindByOrgNumber(orgNumber string) (*model.BrregBusiness, error)
	Search(filter SnapshotFilter, page, limit int) (*SnapshotPage, error)
	Count() (int64, error)
}

type brregRepository struct {
	db *gorm.DB
}

func NewBrregRepository(db *gorm.DB) BrregRepository {
	return &brregRepository{db: db}
}

func (r *brregRepository) Create(snapshot *model.BrregBusiness) error {
	if err := r.db.Create(snapshot).Error; err != nil {
		logger.Error("Failed to create registry snapshot row", err, map[string]interface{}{
			"org_number": snapshot.OrgNumber,
		})
		return err
	}
	return nil
}

func (r *brregRepository) ExistsByOrgNumber(orgNumber string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.BrregBusiness{}).
		Where("org_number = ?", orgNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *brregRepository) FindByOrgNumber(orgNumber string) (*model.BrregBusiness, error) {
	var snapshot model.BrregBusiness
	if err := r.db.Where("org_number = ?", orgNumber).First(&snapshot).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *brregRepository) Search(filter SnapshotFilter, page, limit int) (*SnapshotPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	query := r.db.Model(&model.BrregBusiness{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR org_number LIKE ?", like, like)
	}
	if filter.Municipality != "" {
		query = query.Where("municipality = ?", filter.Municipality)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.LegalForm != "" {
		query = query.Where("legal_form = ?", filter.LegalForm)
	}
	if filter.IndustrySection != "" {
		query = query.Where("industry_section = ?", filter.IndustrySection)
	}
	if filter.NacePrefix != "" {
		query = query.Where("industry_code1 LIKE ?", filter.NacePrefix+"%")
	}
	if filter.VATRegistered != nil {
		query = query.Where("vat_registered = ?", *filter.VATRegistered)
	}
	if filter.HasEmployees != nil {
		if *filter.HasEmployees {
			query = query.Where("employee_count > 0")
		} else {
			query = query.Where("employee_count IS NULL OR employee_count = 0")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count registry snapshot rows", err)
		return nil, err
	}

	var items []model.BrregBusiness
	if err := query.
		Order("name ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&items).Error; err != nil {
		logger.Error("Failed to search registry snapshot", err)
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}

	return &SnapshotPage{
		Items:       items,
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}

func (r *brregRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.BrregBusiness{}).Count(&count).Error
	return count, err
}

// IsNotFound reports whether err means the snapshot row does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
