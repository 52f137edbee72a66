package model

import (
	"time"

	"gorm.io/gorm"
)

// Workspace er multi-tenancy-grensen: alle bedrifter, oppgaver, tilbud og
// aktiviteter hører til nøyaktig ett arbeidsområde.
type Workspace struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"not null" json:"name"` // Navn på arbeidsområdet
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	APIKeys []WorkspaceAPIKey `gorm:"foreignKey:WorkspaceID" json:"api_keys,omitempty"`
	Users   []User            `gorm:"foreignKey:WorkspaceID" json:"users,omitempty"`
}

func (Workspace) TableName() string {
	return "workspaces"
}

// WorkspaceAPIKey gir eksterne systemer tilgang til lead-API-et.
// Nøkkelen sendes i X-API-Key-headeren og peker ut arbeidsområdet.
type WorkspaceAPIKey struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	WorkspaceID uint       `gorm:"not null;index" json:"workspace_id"`
	Key         string     `gorm:"uniqueIndex;not null" json:"key"`   // UUID-basert nøkkel
	Label       string     `gorm:"not null" json:"label"`             // Hvem/hva nøkkelen er utstedt til
	Active      bool       `gorm:"default:true;not null" json:"active"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`

	Workspace Workspace `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (WorkspaceAPIKey) TableName() string {
	return "workspace_api_keys"
}
