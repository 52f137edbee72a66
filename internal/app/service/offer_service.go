package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/internal/app/repository"
	"github.com/salgsflyt/salgsflyt-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOfferNotFound      = errors.New("offer not found")
	ErrInvalidOfferStatus = errors.New("invalid offer status")
	ErrOfferWithoutItems  = errors.New("offer must have at least one item")
)

type OfferService interface {
	Create(workspaceID, businessID uint, title string, validUntil *time.Time, items []model.OfferItem) (*model.Offer, error)
	GetByID(workspaceID, id uint) (*model.Offer, error)
	ListByBusiness(workspaceID, businessID uint) ([]model.Offer, error)
	ReplaceItems(workspaceID, id uint, items []model.OfferItem) (*model.Offer, error)
	UpdateStatus(workspaceID, id uint, status model.OfferStatus, actor string) (*model.Offer, error)
	Delete(workspaceID, id uint) error
	Attach(workspaceID, offerID uint, fileName, fileURL, key string) (*model.OfferAttachment, error)
}

type offerService struct {
	offerRepo    repository.OfferRepository
	businessRepo repository.BusinessRepository
	activityRepo repository.ActivityRepository
}

func NewOfferService(
	offerRepo repository.OfferRepository,
	businessRepo repository.BusinessRepository,
	activityRepo repository.ActivityRepository,
) OfferService {
	return &offerService{
		offerRepo:    offerRepo,
		businessRepo: businessRepo,
		activityRepo: activityRepo,
	}
}

func (s *offerService) Create(workspaceID, businessID uint, title string, validUntil *time.Time, items []model.OfferItem) (*model.Offer, error) {
	if len(items) == 0 {
		return nil, ErrOfferWithoutItems
	}
	// Tilbudet må høre til en bedrift i samme arbeidsområde
	business, err := s.businessRepo.FindByID(workspaceID, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	offer := &model.Offer{
		WorkspaceID: workspaceID,
		BusinessID:  business.ID,
		Title:       title,
		Status:      model.OfferDraft,
		ValidUntil:  validUntil,
		Items:       items,
	}
	if err := s.offerRepo.CreateWithItems(offer); err != nil {
		return nil, err
	}

	logger.Info("Offer created", map[string]interface{}{
		"workspace_id": workspaceID,
		"business_id":  business.ID,
		"offer_id":     offer.ID,
		"total":        offer.Total,
	})
	return offer, nil
}

func (s *offerService) GetByID(workspaceID, id uint) (*model.Offer, error) {
	offer, err := s.offerRepo.FindByID(workspaceID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	return offer, nil
}

func (s *offerService) ListByBusiness(workspaceID, businessID uint) ([]model.Offer, error) {
	return s.offerRepo.FindByBusiness(workspaceID, businessID)
}

func (s *offerService) ReplaceItems(workspaceID, id uint, items []model.OfferItem) (*model.Offer, error) {
	if len(items) == 0 {
		return nil, ErrOfferWithoutItems
	}
	offer, err := s.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	if err := s.offerRepo.ReplaceItems(offer, items); err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *offerService) UpdateStatus(workspaceID, id uint, status model.OfferStatus, actor string) (*model.Offer, error) {
	if !model.ValidOfferStatus(status) {
		return nil, ErrInvalidOfferStatus
	}
	offer, err := s.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	if offer.Status == status {
		return offer, nil
	}
	if err := s.offerRepo.UpdateStatus(workspaceID, id, status); err != nil {
		return nil, err
	}
	offer.Status = status

	activity := &model.Activity{
		WorkspaceID: workspaceID,
		BusinessID:  offer.BusinessID,
		Type:        model.ActivityNote,
		Content:     fmt.Sprintf("Tilbud «%s» satt til %s", offer.Title, status),
		Actor:       actor,
	}
	if err := s.activityRepo.Create(activity); err != nil {
		logger.Warn("Failed to record offer status activity", map[string]interface{}{
			"offer_id": offer.ID,
		})
	}
	return offer, nil
}

func (s *offerService) Delete(workspaceID, id uint) error {
	if err := s.offerRepo.Delete(workspaceID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOfferNotFound
		}
		return err
	}
	return nil
}

func (s *offerService) Attach(workspaceID, offerID uint, fileName, fileURL, key string) (*model.OfferAttachment, error) {
	offer, err := s.GetByID(workspaceID, offerID)
	if err != nil {
		return nil, err
	}
	attachment := &model.OfferAttachment{
		OfferID:  offer.ID,
		FileName: fileName,
		FileURL:  fileURL,
		Key:      key,
	}
	if err := s.offerRepo.AddAttachment(attachment); err != nil {
		return nil, err
	}
	return attachment, nil
}
