package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/repository"
	"github.com/salgsflyt/salgsflyt-backend/pkg/brreg"
	"github.com/salgsflyt/salgsflyt-backend/pkg/logger"
	"github.com/salgsflyt/salgsflyt-backend/pkg/util"
	"gorm.io/gorm"
)

// LeadSubmission er payloaden fra et eksternt system via lead-API-et
type LeadSubmission struct {
	Name           string   `json:"name" binding:"required"`
	Email          string   `json:"email" binding:"required,email"`
	Phone          string   `json:"phone" binding:"required"`
	OrgNumber      string   `json:"orgNumber"`
	ContactPerson  string   `json:"contactPerson"`
	Website        string   `json:"website"`
	Address        string   `json:"address"`
	PostalCode     string   `json:"postalCode"`
	City           string   `json:"city"`
	Country        string   `json:"country"`
	Industry       string   `json:"industry"`
	Notes          string   `json:"notes"`
	PotentialValue *float64 `json:"potensiellVerdi"`
	SourceSystem   string   `json:"sourceSystem"`
	ExternalID     string   `json:"externalId"`
}

// LeadResult er det API-kontrakten lover tilbake
type LeadResult struct {
	ID         uint   `json:"id"`
	ExternalID string `json:"externalId,omitempty"`
	IsNew      bool   `json:"isNew"`
}

type LeadService interface {
	Submit(ctx context.Context, workspaceID uint, submission *LeadSubmission) (*LeadResult, error)
}

type leadService struct {
	businessRepo repository.BusinessRepository
	activityRepo repository.ActivityRepository
	client       *brreg.Client
}

func NewLeadService(
	businessRepo repository.BusinessRepository,
	activityRepo repository.ActivityRepository,
	client *brreg.Client,
) LeadService {
	return &leadService{
		businessRepo: businessRepo,
		activityRepo: activityRepo,
		client:       client,
	}
}

// Submit lagrer leaden umiddelbart med innsendte data, uavhengig av om
// registeret er tilgjengelig. Beriking mot registeret skjer etterpå som
// ren bonus: feil der logges og svelges, og ruller aldri tilbake leaden.
func (s *leadService) Submit(ctx context.Context, workspaceID uint, submission *LeadSubmission) (*LeadResult, error) {
	var orgNumber *string
	if submission.OrgNumber != "" {
		normalized := util.NormalizeOrgNumber(submission.OrgNumber)
		if !util.IsValidOrgNumber(normalized) {
			return nil, ErrInvalidOrgNumber
		}
		orgNumber = &normalized
	}

	// Gjeninnsending av samme lead skal ikke gi en ny rad
	if existing := s.findExisting(workspaceID, submission.ExternalID, orgNumber); existing != nil {
		logger.Info("Lead already exists", map[string]interface{}{
			"workspace_id": workspaceID,
			"business_id":  existing.ID,
		})
		result := &LeadResult{ID: existing.ID, IsNew: false}
		if existing.ExternalID != nil {
			result.ExternalID = *existing.ExternalID
		}
		return result, nil
	}

	business := &model.Business{
		WorkspaceID:   workspaceID,
		OrgNumber:     orgNumber,
		Name:          submission.Name,
		Stage:         model.StageLead,
		Status:        model.StatusActive,
		ContactPerson: submission.ContactPerson,
		Email:         submission.Email,
		Phone:         submission.Phone,
		Notes:         submission.Notes,
		Industry:      submission.Industry,
	}
	if submission.PotentialValue != nil {
		business.PotentialValue = submission.PotentialValue
	}
	setIfEmpty(&business.Website, submission.Website)
	setIfEmpty(&business.Address, submission.Address)
	setIfEmpty(&business.PostalCode, submission.PostalCode)
	setIfEmpty(&business.City, submission.City)
	setIfEmpty(&business.Country, submission.Country)
	if submission.ExternalID != "" {
		v := submission.ExternalID
		business.ExternalID = &v
	}
	if submission.SourceSystem != "" {
		v := submission.SourceSystem
		business.SourceSystem = &v
	}

	if err := s.businessRepo.Create(business); err != nil {
		logger.Error("Failed to persist inbound lead", err, map[string]interface{}{
			"workspace_id": workspaceID,
			"name":         submission.Name,
		})
		return nil, err
	}

	if submission.SourceSystem != "" {
		activity := &model.Activity{
			WorkspaceID: workspaceID,
			BusinessID:  business.ID,
			Type:        model.ActivityAPILead,
			Content:     fmt.Sprintf("Mottatt via API fra %s", submission.SourceSystem),
			Actor:       "api",
		}
		if err := s.activityRepo.Create(activity); err != nil {
			logger.Warn("Failed to record lead source activity", map[string]interface{}{
				"business_id": business.ID,
			})
		}
	}

	// Best-effort beriking etter at leaden er trygt lagret
	if orgNumber != nil {
		s.enrich(ctx, business, *orgNumber)
	}

	logger.Info("Inbound lead created", map[string]interface{}{
		"workspace_id": workspaceID,
		"business_id":  business.ID,
		"source":       submission.SourceSystem,
	})

	result := &LeadResult{ID: business.ID, IsNew: true}
	if business.ExternalID != nil {
		result.ExternalID = *business.ExternalID
	}
	return result, nil
}

func (s *leadService) findExisting(workspaceID uint, externalID string, orgNumber *string) *model.Business {
	if externalID != "" {
		existing, err := s.businessRepo.FindByExternalID(workspaceID, externalID)
		if err == nil && existing != nil {
			return existing
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("External ID lookup failed", map[string]interface{}{
				"workspace_id": workspaceID,
			})
		}
	}
	if orgNumber != nil {
		existing, err := s.businessRepo.FindByOrgNumber(workspaceID, *orgNumber)
		if err == nil && existing != nil {
			return existing
		}
	}
	return nil
}

// enrich henter registerdata og fletter inn. Feil logges og svelges.
func (s *leadService) enrich(ctx context.Context, business *model.Business, orgNumber string) {
	unit, err := s.client.GetUnit(ctx, orgNumber)
	if err != nil {
		logger.Warn("Lead enrichment fetch failed", map[string]interface{}{
			"business_id": business.ID,
			"org_number":  orgNumber,
		})
		return
	}
	if unit == nil {
		logger.Info("Lead enrichment: org number not in registry", map[string]interface{}{
			"business_id": business.ID,
			"org_number":  orgNumber,
		})
		return
	}

	updates := MergeRegistryData(business, unit, time.Now())
	if err := s.businessRepo.UpdateFields(business.ID, updates); err != nil {
		logger.Warn("Lead enrichment update failed", map[string]interface{}{
			"business_id": business.ID,
		})
	}
}
