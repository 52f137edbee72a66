package service

import (
	"context"
	"errors"
	"strings"

	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/repository"
	"github.com/salgsflyt/salgsflyt-backend/pkg/brreg"
	"github.com/salgsflyt/salgsflyt-backend/pkg/logger"
	"github.com/salgsflyt/salgsflyt-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrQueryTooShort = errors.New("search query too short")
	ErrUnitNotFound  = errors.New("unit not found in registry")
)

type BrregService interface {
	Lookup(ctx context.Context, orgNumber string) (*brreg.Unit, error)
	SearchByName(ctx context.Context, query string, limit int) ([]brreg.SearchResult, error)
	Search(ctx context.Context, filters brreg.SearchFilters, page, limit int) (*brreg.SearchPage, error)
	ImportSearchResults(ctx context.Context, filters brreg.SearchFilters, page, limit int) (int, error)
	SearchSnapshots(filter repository.SnapshotFilter, page, limit int) (*repository.SnapshotPage, error)
	GetSnapshot(orgNumber string) (*model.BrregBusiness, error)
}

type brregService struct {
	client    *brreg.Client
	brregRepo repository.BrregRepository
}

func NewBrregService(client *brreg.Client, brregRepo repository.BrregRepository) BrregService {
	return &brregService{client: client, brregRepo: brregRepo}
}

// Lookup henter én enhet direkte fra registeret
func (s *brregService) Lookup(ctx context.Context, orgNumber string) (*brreg.Unit, error) {
	normalized := util.NormalizeOrgNumber(orgNumber)
	if !util.IsValidOrgNumber(normalized) {
		return nil, ErrInvalidOrgNumber
	}
	unit, err := s.client.GetUnit(ctx, normalized)
	if err != nil {
		return nil, ErrRegistryUnavailable
	}
	if unit == nil {
		return nil, ErrUnitNotFound
	}
	return unit, nil
}

// SearchByName søker på navn. Er registeret nede, kommer en tom liste
// tilbake i stedet for en feil.
func (s *brregService) SearchByName(ctx context.Context, query string, limit int) ([]brreg.SearchResult, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, ErrQueryTooShort
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.client.SearchByName(ctx, query, limit), nil
}

func (s *brregService) Search(ctx context.Context, filters brreg.SearchFilters, page, limit int) (*brreg.SearchPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.client.Search(ctx, filters, page, limit), nil
}

// ImportSearchResults lagrer hele søkesiden som registerutdrag, slik at
// treffene kan konverteres til leads uten nye oppslag. Eksisterende orgnr
// hoppes over.
func (s *brregService) ImportSearchResults(ctx context.Context, filters brreg.SearchFilters, page, limit int) (int, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	units, err := s.client.GetUnitsForSearch(ctx, filters, page, limit)
	if err != nil {
		return 0, ErrRegistryUnavailable
	}

	created := 0
	for _, unit := range units {
		exists, err := s.brregRepo.ExistsByOrgNumber(unit.OrgNumber)
		if err != nil {
			logger.Error("Snapshot existence check failed", err, map[string]interface{}{
				"org_number": unit.OrgNumber,
			})
			continue
		}
		if exists {
			continue
		}
		snapshot := UnitToSnapshot(unit)
		if err := s.brregRepo.Create(snapshot); err != nil {
			logger.Error("Failed to persist snapshot", err, map[string]interface{}{
				"org_number": unit.OrgNumber,
			})
			continue
		}
		created++
	}

	logger.Info("Search results imported", map[string]interface{}{
		"fetched": len(units),
		"created": created,
	})
	return created, nil
}

func (s *brregService) SearchSnapshots(filter repository.SnapshotFilter, page, limit int) (*repository.SnapshotPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.brregRepo.Search(filter, page, limit)
}

func (s *brregService) GetSnapshot(orgNumber string) (*model.BrregBusiness, error) {
	normalized := util.NormalizeOrgNumber(orgNumber)
	if !util.IsValidOrgNumber(normalized) {
		return nil, ErrInvalidOrgNumber
	}
	snapshot, err := s.brregRepo.FindByOrgNumber(normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	return snapshot, nil
}

// UnitToSnapshot mapper et registeroppslag til utdrags-skjemaet,
// med næringsseksjon avledet fra primær NACE-kode
func UnitToSnapshot(unit *brreg.Unit) *model.BrregBusiness {
	snapshot := &model.BrregBusiness{
		OrgNumber: unit.OrgNumber,
		Name:      unit.Name,
	}
	copyStrPtr(&snapshot.LegalForm, strOrNil(unit.LegalForm))
	copyStrPtr(&snapshot.IndustryCode1, strOrNil(unit.IndustryCode))
	copyStrPtr(&snapshot.IndustryDesc1, strOrNil(unit.IndustryDesc))
	copyStrPtr(&snapshot.IndustryCode2, strOrNil(unit.IndustryCode2))
	copyStrPtr(&snapshot.IndustryDesc2, strOrNil(unit.IndustryDesc2))
	copyStrPtr(&snapshot.IndustryCode3, strOrNil(unit.IndustryCode3))
	copyStrPtr(&snapshot.IndustryDesc3, strOrNil(unit.IndustryDesc3))
	copyStrPtr(&snapshot.Address, strOrNil(unit.Address))
	copyStrPtr(&snapshot.PostalCode, strOrNil(unit.PostalCode))
	copyStrPtr(&snapshot.City, strOrNil(unit.City))
	copyStrPtr(&snapshot.Municipality, strOrNil(unit.Municipality))
	copyStrPtr(&snapshot.Country, strOrNil(unit.Country))
	copyStrPtr(&snapshot.Website, strOrNil(unit.Website))

	if section, name := util.NaceSectionWithName(unit.IndustryCode); section != "" {
		snapshot.IndustrySection = &section
		snapshot.IndustrySectionName = &name
	}

	if unit.Employees != nil {
		v := *unit.Employees
		snapshot.EmployeeCount = &v
		has := true
		snapshot.HasEmployeeCount = &has
	}
	copyBoolPtr(&snapshot.VATRegistered, unit.VATRegistered)
	copyBoolPtr(&snapshot.IsBankrupt, unit.Bankrupt)
	copyBoolPtr(&snapshot.IsWindingUp, unit.WindingUp)
	if unit.EstablishedDate != nil {
		v := *unit.EstablishedDate
		snapshot.EstablishedDate = &v
	}
	if unit.RegisteredDate != nil {
		v := *unit.RegisteredDate
		snapshot.RegisteredDate = &v
	}
	return snapshot
}

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
