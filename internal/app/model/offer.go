package model

import (
	"time"

	"gorm.io/gorm"
)

type OfferStatus string

const (
	OfferDraft    OfferStatus = "draft"
	OfferSent     OfferStatus = "sent"
	OfferAccepted OfferStatus = "accepted"
	OfferRejected OfferStatus = "rejected"
)

// ValidOfferStatus reports whether s is a known offer status
func ValidOfferStatus(s OfferStatus) bool {
	switch s {
	case OfferDraft, OfferSent, OfferAccepted, OfferRejected:
		return true
	}
	return false
}

// Offer er et tilbud til en bedrift, med linjer og eventuelle vedlegg i S3.
type Offer struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	WorkspaceID uint           `gorm:"not null;index" json:"workspace_id"`
	BusinessID  uint           `gorm:"not null;index" json:"business_id"`
	Title       string         `gorm:"not null" json:"title"`
	Status      OfferStatus    `gorm:"type:varchar(10);default:'draft';index" json:"status"`
	ValidUntil  *time.Time     `json:"valid_until,omitempty"`
	Total       float64        `json:"total"` // summeres fra linjene ved lagring
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Items       []OfferItem       `gorm:"foreignKey:OfferID" json:"items,omitempty"`
	Attachments []OfferAttachment `gorm:"foreignKey:OfferID" json:"attachments,omitempty"`

	Workspace Workspace `gorm:"foreignKey:WorkspaceID" json:"-"`
	Business  Business  `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Offer) TableName() string {
	return "offers"
}

// OfferItem er én tilbudslinje
type OfferItem struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	OfferID     uint    `gorm:"not null;index" json:"offer_id"`
	Description string  `gorm:"not null" json:"description"`
	Quantity    float64 `gorm:"default:1" json:"quantity"`
	UnitPrice   float64 `json:"unit_price"` // NOK eks. mva

	Offer Offer `gorm:"foreignKey:OfferID;constraint:OnDelete:CASCADE" json:"-"`
}

func (OfferItem) TableName() string {
	return "offer_items"
}

// LineTotal beregner linjesummen
func (i *OfferItem) LineTotal() float64 {
	return i.Quantity * i.UnitPrice
}

// OfferAttachment peker på en fil i S3 (lastes opp via presignert URL)
type OfferAttachment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OfferID   uint      `gorm:"not null;index" json:"offer_id"`
	FileName  string    `gorm:"not null" json:"file_name"`
	FileURL   string    `gorm:"not null" json:"file_url"`
	Key       string    `gorm:"not null" json:"key"` // S3-objektnøkkel
	CreatedAt time.Time `json:"created_at"`

	Offer Offer `gorm:"foreignKey:OfferID;constraint:OnDelete:CASCADE" json:"-"`
}

func (OfferAttachment) TableName() string {
	return "offer_attachments"
}
