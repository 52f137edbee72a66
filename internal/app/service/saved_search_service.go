package service

import (
	"errors"

	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/repository"
	"github.com/salgsflyt/salgsflyt-backend/pkg/brreg"
	"gorm.io/gorm"
)

var ErrSavedSearchNotFound = errors.New("saved search not found")

type SavedSearchService interface {
	Create(workspaceID uint, search *model.SavedSearch) error
	List(workspaceID uint) ([]model.SavedSearch, error)
	Delete(workspaceID, id uint) error
	ToFilters(workspaceID, id uint) (*brreg.SearchFilters, error)
}

type savedSearchService struct {
	savedSearchRepo repository.SavedSearchRepository
}

func NewSavedSearchService(savedSearchRepo repository.SavedSearchRepository) SavedSearchService {
	return &savedSearchService{savedSearchRepo: savedSearchRepo}
}

func (s *savedSearchService) Create(workspaceID uint, search *model.SavedSearch) error {
	search.WorkspaceID = workspaceID
	return s.savedSearchRepo.Create(search)
}

func (s *savedSearchService) List(workspaceID uint) ([]model.SavedSearch, error) {
	return s.savedSearchRepo.FindAll(workspaceID)
}

func (s *savedSearchService) Delete(workspaceID, id uint) error {
	if err := s.savedSearchRepo.Delete(workspaceID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSavedSearchNotFound
		}
		return err
	}
	return nil
}

// ToFilters gjør et lagret søk om til registerfiltre for en ny kjøring.
// Registeret tar bare én organisasjonsform og én NACE-kode per kall, så
// første element brukes.
func (s *savedSearchService) ToFilters(workspaceID, id uint) (*brreg.SearchFilters, error) {
	search, err := s.savedSearchRepo.FindByID(workspaceID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSavedSearchNotFound
		}
		return nil, err
	}

	filters := &brreg.SearchFilters{
		Query:         search.Query,
		Municipality:  search.Municipality,
		VATRegistered: search.VATRegistered,
		HasEmployees:  search.HasEmployees,
	}
	if len(search.LegalForms) > 0 {
		filters.LegalForm = search.LegalForms[0]
	}
	if len(search.NacePrefixes) > 0 {
		filters.IndustryCode = search.NacePrefixes[0]
	}
	return filters, nil
}
