package model

import "time"

type ActivityType string

const (
	ActivityNote        ActivityType = "note"         // manuell notat
	ActivityStageChange ActivityType = "stage_change" // flyttet i pipelinen
	ActivityImport      ActivityType = "import"       // opprettet via import/konvertering
	ActivityAPILead     ActivityType = "api_lead"     // mottatt via lead-API
	ActivitySync        ActivityType = "sync"         // avstemt mot Enhetsregisteret
)

// Activity er revisjonssporet for en bedrift: notater, stegendringer,
// API-innsendinger og synkroniseringer.
type Activity struct {
	ID          uint         `gorm:"primarykey" json:"id"`
	WorkspaceID uint         `gorm:"not null;index" json:"workspace_id"`
	BusinessID  uint         `gorm:"not null;index" json:"business_id"`
	Type        ActivityType `gorm:"type:varchar(20);not null" json:"type"`
	Content     string       `gorm:"type:text;not null" json:"content"`
	Actor       string       `json:"actor"` // bruker-e-post eller kildesystem
	CreatedAt   time.Time    `json:"created_at"`

	Workspace Workspace `gorm:"foreignKey:WorkspaceID" json:"-"`
	Business  Business  `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Activity) TableName() string {
	return "activities"
}
