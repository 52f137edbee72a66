package model

import (
	"time"

	"github.com/lib/pq"
)

// SavedSearch er et lagret registersøk i et arbeidsområde, slik at
// gjentatte prospekteringssøk kan kjøres på nytt med ett klikk.
type SavedSearch struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	WorkspaceID uint   `gorm:"not null;index" json:"workspace_id"`
	Name        string `gorm:"not null" json:"name"`

	Query         string         `json:"query"` // fritekst/navnesøk
	Municipality  string         `json:"municipality"`
	LegalForms    pq.StringArray `gorm:"type:text[];default:'{}';not null" json:"legal_forms"`   // f.eks. ["AS","ENK"]
	NacePrefixes  pq.StringArray `gorm:"type:text[];default:'{}';not null" json:"nace_prefixes"` // f.eks. ["62","63"]
	VATRegistered *bool          `json:"vat_registered"`
	HasEmployees  *bool          `json:"has_employees"`

	CreatedAt time.Time `json:"created_at"`

	Workspace Workspace `gorm:"foreignKey:WorkspaceID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SavedSearch) TableName() string {
	return "saved_searches"
}
