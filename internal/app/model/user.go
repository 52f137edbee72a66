package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // brukerrolle

const (
	RoleUser  UserRole = "user"  // vanlig bruker
	RoleAdmin UserRole = "admin" // administrator for arbeidsområdet
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	WorkspaceID  uint           `gorm:"not null;index" json:"workspace_id"`          // arbeidsområdet brukeren tilhører
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`           // e-post
	PasswordHash string         `gorm:"not null" json:"-"`                           // passordhash
	Name         string         `gorm:"not null" json:"name"`                        // fullt navn
	Role         UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"` // rolle
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Workspace Workspace `gorm:"foreignKey:WorkspaceID" json:"-"`
}

func (User) TableName() string {
	return "users"
}
