package model

import (
	"time"

	"gorm.io/gorm"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// ValidPriority reports whether p is a known task priority
func ValidPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task er en oppgave i arbeidsområdet, eventuelt knyttet til en bedrift.
type Task struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	WorkspaceID uint           `gorm:"not null;index" json:"workspace_id"`
	BusinessID  *uint          `gorm:"index" json:"business_id,omitempty"` // valgfri kobling til bedrift
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	Done        bool           `gorm:"default:false;index" json:"done"`
	Priority    TaskPriority   `gorm:"type:varchar(10);default:'medium'" json:"priority"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Workspace Workspace `gorm:"foreignKey:WorkspaceID" json:"-"`
	Business  *Business `gorm:"foreignKey:BusinessID" json:"-"`
}

func (Task) TableName() string {
	return "tasks"
}
