package model

import (
	"time"

	"gorm.io/gorm"
)

type BusinessStage string // pipeline-steg

const (
	StageLead      BusinessStage = "lead"
	StageProspect  BusinessStage = "prospect"
	StageQualified BusinessStage = "qualified"
	StageCustomer  BusinessStage = "customer"
	StageChurned   BusinessStage = "churned"
)

// ValidStage reports whether s is one of the five pipeline stages.
// Steget er en flat enum - alle overganger er tillatt.
func ValidStage(s BusinessStage) bool {
	switch s {
	case StageLead, StageProspect, StageQualified, StageCustomer, StageChurned:
		return true
	}
	return false
}

type BusinessStatus string

const (
	StatusActive   BusinessStatus = "active"
	StatusInactive BusinessStatus = "inactive"
)

// Business er en bedrift som følges gjennom salgspipelinen.
// Registeravledede felter fylles opportunistisk fra Enhetsregisteret og er
// nullable; brukereide felter røres aldri av synkronisering.
type Business struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	WorkspaceID uint           `gorm:"not null;uniqueIndex:idx_businesses_workspace_orgnr" json:"workspace_id"`

	// Orgnr er unikt per arbeidsområde når det er satt. Unik-indeksen er
	// selve garantien; applikasjonens duplikatsjekk er bare en tidlig exit.
	OrgNumber *string `gorm:"type:varchar(9);uniqueIndex:idx_businesses_workspace_orgnr" json:"org_number"`

	Name   string         `gorm:"not null" json:"name"`
	Stage  BusinessStage  `gorm:"type:varchar(20);default:'lead';index" json:"stage"`
	Status BusinessStatus `gorm:"type:varchar(20);default:'active'" json:"status"`

	// Brukereide felter
	ContactPerson  string   `json:"contact_person"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Notes          string   `gorm:"type:text" json:"notes"`
	Industry       string   `json:"industry"`                        // fritekst, brukersatt
	PotentialValue *float64 `json:"potential_value"`                 // potensiell verdi (NOK)
	Revenue        *float64 `json:"revenue"`                         // omsetning (NOK)

	// Registeravledede felter (nullable, fylles ved avstemming)
	LegalForm        *string    `json:"legal_form"`
	Address          *string    `json:"address"`
	PostalCode       *string    `json:"postal_code"`
	City             *string    `json:"city"`
	Country          *string    `json:"country"`
	Website          *string    `json:"website"`
	IndustryCode     *string    `json:"industry_code"`       // NACE-kode
	IndustryDesc     *string    `json:"industry_desc"`
	EmployeeCount    *int       `json:"employee_count"`
	VATRegistered    *bool      `json:"vat_registered"`
	EstablishedDate  *time.Time `json:"established_date"`
	IsBankrupt       *bool      `json:"is_bankrupt"`
	IsWindingUp      *bool      `json:"is_winding_up"`
	BrregUpdatedAt   *time.Time `json:"brreg_updated_at"`    // siste avstemming
	BrregOrgNumber   *string    `gorm:"type:varchar(9)" json:"brreg_org_number"` // orgnr som faktisk ble avstemt

	// Ekstern sporing (lead-API)
	ExternalID   *string `gorm:"index" json:"external_id,omitempty"`
	SourceSystem *string `json:"source_system,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Workspace  Workspace  `gorm:"foreignKey:WorkspaceID" json:"-"`
	Tasks      []Task     `gorm:"foreignKey:BusinessID" json:"tasks,omitempty"`
	Activities []Activity `gorm:"foreignKey:BusinessID" json:"activities,omitempty"`
	Offers     []Offer    `gorm:"foreignKey:BusinessID" json:"offers,omitempty"`
}

func (Business) TableName() string {
	return "businesses"
}
