package model

import "time"

// BrregBusiness er en arbeidsområde-uavhengig kopi av Enhetsregisteret,
// fylt av bulk-import eller live søk. Rader skrives én gang per orgnr og
// oppdateres aldri; re-import hopper over eksisterende orgnr.
type BrregBusiness struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	OrgNumber string `gorm:"type:varchar(9);uniqueIndex;not null" json:"org_number"`

	Name      string  `gorm:"not null;index" json:"name"`
	LegalForm *string `json:"legal_form"`

	// Inntil tre NACE-koder fra registeret
	IndustryCode1 *string `json:"industry_code1"`
	IndustryDesc1 *string `json:"industry_desc1"`
	IndustryCode2 *string `json:"industry_code2"`
	IndustryDesc2 *string `json:"industry_desc2"`
	IndustryCode3 *string `json:"industry_code3"`
	IndustryDesc3 *string `json:"industry_desc3"`

	// Avledet næringsseksjon (A-U) fra primær NACE-kode
	IndustrySection     *string `gorm:"type:varchar(1);index" json:"industry_section"`
	IndustrySectionName *string `json:"industry_section_name"`

	// Forretningsadresse og postadresse kan avvike
	Address          *string `json:"address"`
	PostalCode       *string `json:"postal_code"`
	City             *string `gorm:"index" json:"city"`
	Municipality     *string `gorm:"index" json:"municipality"`
	Country          *string `json:"country"`
	PostalAddress    *string `json:"postal_address"`
	PostalPostalCode *string `json:"postal_postal_code"`
	PostalCity       *string `json:"postal_city"`

	EmployeeCount       *int  `json:"employee_count"`
	HasEmployeeCount    *bool `json:"has_employee_count"`
	VATRegistered       *bool `json:"vat_registered"`
	IsBankrupt          *bool `json:"is_bankrupt"`
	IsWindingUp         *bool `json:"is_winding_up"`

	EstablishedDate *time.Time `json:"established_date"`
	RegisteredDate  *time.Time `json:"registered_date"`

	Website *string `json:"website"`

	CreatedAt time.Time `json:"created_at"`
}

func (BrregBusiness) TableName() string {
	return "brreg_businesses"
}
