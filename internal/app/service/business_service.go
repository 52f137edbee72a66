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

var (
	ErrBusinessNotFound   = errors.New("business not found")
	ErrInvalidStage       = errors.New("invalid pipeline stage")
	ErrInvalidOrgNumber   = errors.New("invalid organization number")
	ErrRegistryUnavailable = errors.New("registry unavailable")
	ErrSnapshotNotFound   = errors.New("registry snapshot not found")
)

// CreateOutcome er resultatet av opprett-fra-orgnr: nøyaktig ett av tre utfall
type CreateOutcome struct {
	Created   bool            `json:"created"`
	Duplicate bool            `json:"duplicate"`
	NotFound  bool            `json:"not_found"`
	Business  *model.Business `json:"business,omitempty"`
}

// StageChangeEvent publiseres til arbeidsområdets websocket-kanal
type StageChangeEvent struct {
	Type       string              `json:"type"`
	BusinessID uint                `json:"business_id"`
	Name       string              `json:"name"`
	From       model.BusinessStage `json:"from"`
	To         model.BusinessStage `json:"to"`
}

// PipelineNotifier pushes pipeline events to connected clients.
// Implemented by the websocket hub; a nil notifier disables pushing.
type PipelineNotifier interface {
	BroadcastToWorkspace(workspaceID uint, event interface{})
}

type BusinessService interface {
	Create(workspaceID uint, business *model.Business) error
	GetByID(workspaceID, id uint) (*model.Business, error)
	List(workspaceID uint, filter repository.BusinessFilter) ([]model.Business, error)
	Update(workspaceID, id uint, updates map[string]interface{}) (*model.Business, error)
	Delete(workspaceID, id uint) error
	UpdateStage(workspaceID, id uint, stage model.BusinessStage, actor string) (*model.Business, error)
	CreateFromOrgNumber(ctx context.Context, workspaceID uint, orgNumber string) (*CreateOutcome, error)
	SyncWithRegistry(ctx context.Context, workspaceID, id uint) (*model.Business, error)
	ConvertSnapshotToLead(workspaceID uint, orgNumber string) (*CreateOutcome, error)
}

type businessService struct {
	businessRepo repository.BusinessRepository
	activityRepo repository.ActivityRepository
	brregRepo    repository.BrregRepository
	client       *brreg.Client
	notifier     PipelineNotifier
}

func NewBusinessService(
	businessRepo repository.BusinessRepository,
	activityRepo repository.ActivityRepository,
	brregRepo repository.BrregRepository,
	client *brreg.Client,
	notifier PipelineNotifier,
) BusinessService {
	return &businessService{
		businessRepo: businessRepo,
		activityRepo: activityRepo,
		brregRepo:    brregRepo,
		client:       client,
		notifier:     notifier,
	}
}

func (s *businessService) Create(workspaceID uint, business *model.Business) error {
	business.WorkspaceID = workspaceID
	if business.Stage == "" {
		business.Stage = model.StageLead
	}
	if !model.ValidStage(business.Stage) {
		return ErrInvalidStage
	}
	if business.Status == "" {
		business.Status = model.StatusActive
	}
	if business.OrgNumber != nil {
		normalized := util.NormalizeOrgNumber(*business.OrgNumber)
		if !util.IsValidOrgNumber(normalized) {
			return ErrInvalidOrgNumber
		}
		business.OrgNumber = &normalized
	}
	return s.businessRepo.Create(business)
}

func (s *businessService) GetByID(workspaceID, id uint) (*model.Business, error) {
	business, err := s.businessRepo.FindByID(workspaceID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}
	return business, nil
}

func (s *businessService) List(workspaceID uint, filter repository.BusinessFilter) ([]model.Business, error) {
	return s.businessRepo.FindAll(workspaceID, filter)
}

func (s *businessService) Update(workspaceID, id uint, updates map[string]interface{}) (*model.Business, error) {
	business, err := s.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	if stage, ok := updates["stage"]; ok {
		if !model.ValidStage(model.BusinessStage(fmt.Sprint(stage))) {
			return nil, ErrInvalidStage
		}
	}
	if err := s.businessRepo.UpdateFields(business.ID, updates); err != nil {
		return nil, err
	}
	return s.GetByID(workspaceID, id)
}

func (s *businessService) Delete(workspaceID, id uint) error {
	if err := s.businessRepo.Delete(workspaceID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBusinessNotFound
		}
		return err
	}
	return nil
}

// UpdateStage flytter bedriften i pipelinen, logger en aktivitet og
// varsler arbeidsområdets tilkoblede klienter
func (s *businessService) UpdateStage(workspaceID, id uint, stage model.BusinessStage, actor string) (*model.Business, error) {
	if !model.ValidStage(stage) {
		return nil, ErrInvalidStage
	}

	business, err := s.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	from := business.Stage
	if from == stage {
		return business, nil
	}

	if err := s.businessRepo.UpdateFields(business.ID, map[string]interface{}{"stage": stage}); err != nil {
		return nil, err
	}
	business.Stage = stage

	activity := &model.Activity{
		WorkspaceID: workspaceID,
		BusinessID:  business.ID,
		Type:        model.ActivityStageChange,
		Content:     fmt.Sprintf("Flyttet fra %s til %s", from, stage),
		Actor:       actor,
	}
	if err := s.activityRepo.Create(activity); err != nil {
		logger.Warn("Failed to record stage change activity", map[string]interface{}{
			"business_id": business.ID,
		})
	}

	if s.notifier != nil {
		s.notifier.BroadcastToWorkspace(workspaceID, StageChangeEvent{
			Type:       "stage_changed",
			BusinessID: business.ID,
			Name:       business.Name,
			From:       from,
			To:         stage,
		})
	}

	logger.Info("Business stage updated", map[string]interface{}{
		"workspace_id": workspaceID,
		"business_id":  business.ID,
		"from":         from,
		"to":           stage,
	})

	return business, nil
}

// CreateFromOrgNumber oppretter en lead fra et organisasjonsnummer.
// Rett-frem tre-utfalls-funksjon: duplikat, ikke funnet, eller opprettet.
// Ingen deltilstand lagres; feiler lagringen etter et vellykket oppslag,
// forkastes oppslaget og hele operasjonen feiler.
func (s *businessService) CreateFromOrgNumber(ctx context.Context, workspaceID uint, orgNumber string) (*CreateOutcome, error) {
	normalized := util.NormalizeOrgNumber(orgNumber)
	if !util.IsValidOrgNumber(normalized) {
		return nil, ErrInvalidOrgNumber
	}

	// Tidlig exit ved duplikat; unik-indeksen tar eventuelle kappløp
	existing, err := s.businessRepo.FindByOrgNumber(workspaceID, normalized)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return &CreateOutcome{Duplicate: true, Business: existing}, nil
	}

	unit, err := s.client.GetUnit(ctx, normalized)
	if err != nil {
		logger.Error("Registry fetch failed", err, map[string]interface{}{
			"org_number": normalized,
		})
		return nil, ErrRegistryUnavailable
	}
	if unit == nil {
		return &CreateOutcome{NotFound: true}, nil
	}

	business := &model.Business{
		WorkspaceID: workspaceID,
		OrgNumber:   &normalized,
		Name:        fmt.Sprintf("Bedrift %s", normalized), // erstattes av registernavnet
		Stage:       model.StageLead,
		Status:      model.StatusActive,
	}
	ApplyRegistryData(business, unit, time.Now())

	if err := s.businessRepo.Create(business); err != nil {
		// Kappløp: en annen forespørsel rakk å opprette samme orgnr.
		// Indeksen avviste oss; hent raden som vant.
		if winner, findErr := s.businessRepo.FindByOrgNumber(workspaceID, normalized); findErr == nil && winner != nil {
			return &CreateOutcome{Duplicate: true, Business: winner}, nil
		}
		return nil, err
	}

	logger.Info("Business created from org number", map[string]interface{}{
		"workspace_id": workspaceID,
		"business_id":  business.ID,
		"org_number":   normalized,
	})

	return &CreateOutcome{Created: true, Business: business}, nil
}

// SyncWithRegistry henter ferske registerdata og anvender flettepolitikken
func (s *businessService) SyncWithRegistry(ctx context.Context, workspaceID, id uint) (*model.Business, error) {
	business, err := s.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	if business.OrgNumber == nil {
		return nil, ErrInvalidOrgNumber
	}

	unit, err := s.client.GetUnit(ctx, *business.OrgNumber)
	if err != nil {
		return nil, ErrRegistryUnavailable
	}

	updates := MergeRegistryData(business, unit, time.Now())
	if err := s.businessRepo.UpdateFields(business.ID, updates); err != nil {
		return nil, err
	}

	activity := &model.Activity{
		WorkspaceID: workspaceID,
		BusinessID:  business.ID,
		Type:        model.ActivitySync,
		Content:     "Avstemt mot Enhetsregisteret",
		Actor:       "system",
	}
	if err := s.activityRepo.Create(activity); err != nil {
		logger.Warn("Failed to record sync activity", map[string]interface{}{
			"business_id": business.ID,
		})
	}

	return s.GetByID(workspaceID, id)
}

// ConvertSnapshotToLead oppretter en lead fra et lokalt registerutdrag,
// uten nettverkskall
func (s *businessService) ConvertSnapshotToLead(workspaceID uint, orgNumber string) (*CreateOutcome, error) {
	normalized := util.NormalizeOrgNumber(orgNumber)
	if !util.IsValidOrgNumber(normalized) {
		return nil, ErrInvalidOrgNumber
	}

	existing, err := s.businessRepo.FindByOrgNumber(workspaceID, normalized)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return &CreateOutcome{Duplicate: true, Business: existing}, nil
	}

	snapshot, err := s.brregRepo.FindByOrgNumber(normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}

	business := snapshotToBusiness(workspaceID, snapshot)
	if err := s.businessRepo.Create(business); err != nil {
		return nil, err
	}

	logger.Info("Snapshot converted to lead", map[string]interface{}{
		"workspace_id": workspaceID,
		"business_id":  business.ID,
		"org_number":   normalized,
	})

	return &CreateOutcome{Created: true, Business: business}, nil
}

func snapshotToBusiness(workspaceID uint, snapshot *model.BrregBusiness) *model.Business {
	now := time.Now()
	orgnr := snapshot.OrgNumber
	business := &model.Business{
		WorkspaceID:    workspaceID,
		OrgNumber:      &orgnr,
		Name:           snapshot.Name,
		Stage:          model.StageLead,
		Status:         model.StatusActive,
		BrregUpdatedAt: &now,
		BrregOrgNumber: &orgnr,
	}
	copyStrPtr(&business.LegalForm, snapshot.LegalForm)
	copyStrPtr(&business.Address, snapshot.Address)
	copyStrPtr(&business.PostalCode, snapshot.PostalCode)
	copyStrPtr(&business.City, snapshot.City)
	copyStrPtr(&business.Country, snapshot.Country)
	copyStrPtr(&business.Website, snapshot.Website)
	copyStrPtr(&business.IndustryCode, snapshot.IndustryCode1)
	copyStrPtr(&business.IndustryDesc, snapshot.IndustryDesc1)
	if snapshot.EmployeeCount != nil && (snapshot.HasEmployeeCount == nil || *snapshot.HasEmployeeCount) {
		v := *snapshot.EmployeeCount
		business.EmployeeCount = &v
	}
	copyBoolPtr(&business.VATRegistered, snapshot.VATRegistered)
	copyBoolPtr(&business.IsBankrupt, snapshot.IsBankrupt)
	copyBoolPtr(&business.IsWindingUp, snapshot.IsWindingUp)
	if snapshot.EstablishedDate != nil {
		v := *snapshot.EstablishedDate
		business.EstablishedDate = &v
	}
	return business
}

func copyStrPtr(dst **string, src *string) {
	if src == nil || *src == "" {
		return
	}
	v := *src
	*dst = &v
}

func copyBoolPtr(dst **bool, src *bool) {
	if src == nil {
		return
	}
	v := *src
	*dst = &v
}
