package repository

import (
	"github.com/salgsflyt/salgsflyt-backend/internal/app/model"
	"github.com/salgsflyt/salgsflyt-backend/pkg/logger"
	"gorm.io/gorm"
)

type OfferRepository interface {
	CreateWithItems(offer *model.Offer) error
	ReplaceItems(offer *model.Offer, items []model.OfferItem) error
	UpdateStatus(workspaceID, id uint, status model.OfferStatus) error
	Delete(workspaceID, id uint) error
	FindByID(workspaceID, id uint) (*model.Offer, error)
	FindByBusiness(workspaceID, businessID uint) ([]model.Offer, error)
	AddAttachment(attachment *model.OfferAttachment) error
}

type offerRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

// CreateWithItems skriver tilbudet og linjene i én transaksjon,
// slik at totalen aldri kan avvike fra linjene
func (r *offerRepository) CreateWithItems(offer *model.Offer) error {
	offer.Total = sumItems(offer.Items)

	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(offer).Error
	})
	if err != nil {
		logger.Error("Failed to create offer", err, map[string]interface{}{
			"business_id": offer.BusinessID,
			"title":       offer.Title,
		})
	}
	return err
}

// ReplaceItems bytter ut alle linjene og oppdaterer totalen atomisk
func (r *offerRepository) ReplaceItems(offer *model.Offer, items []model.OfferItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("offer_id = ?", offer.ID).Delete(&model.OfferItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = 0
			items[i].OfferID = offer.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		offer.Items = items
		offer.Total = sumItems(items)
		return tx.Model(&model.Offer{}).
			Where("id = ?", offer.ID).
			Update("total", offer.Total).Error
	})
}

func (r *offerRepository) UpdateStatus(workspaceID, id uint, status model.OfferStatus) error {
	result := r.db.Model(&model.Offer{}).
		Where("workspace_id = ? AND id = ?", workspaceID, id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *offerRepository) Delete(workspaceID, id uint) error {
	result := r.db.Where("workspace_id = ?", workspaceID).Delete(&model.Offer{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *offerRepository) FindByID(workspaceID, id uint) (*model.Offer, error) {
	var offer model.Offer
	if err := r.db.
		Preload("Items").
		Preload("Attachments").
		Where("workspace_id = ?", workspaceID).
		First(&offer, id).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *offerRepository) FindByBusiness(workspaceID, businessID uint) ([]model.Offer, error) {
	var offers []model.Offer
	if err := r.db.
		Preload("Items").
		Where("workspace_id = ? AND business_id = ?", workspaceID, businessID).
		Order("created_at DESC").
		Find(&offers).Error; err != nil {
		logger.Error("Failed to find offers", err, map[string]interface{}{
			"business_id": businessID,
		})
		return nil, err
	}
	return offers, nil
}

func (r *offerRepository) AddAttachment(attachment *model.OfferAttachment) error {
	if err := r.db.Create(attachment).Error; err != nil {
		logger.Error("Failed to add offer attachment", err, map[string]interface{}{
			"offer_id": attachment.OfferID,
		})
		return err
	}
	return nil
}

func sumItems(items []model.OfferItem) float64 {
	var total float64
	for i := range items {
		total += items[i].LineTotal()
	}
	return total
}
