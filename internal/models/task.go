package models

import (
	"time"

	"gorm.io/gorm"
)

// Task is a unit of work inside a project
type Task struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `gorm:"default:Pendiente" json:"status"`
	Priority    string     `gorm:"default:Media" json:"priority"` // Alta, Media, Baja
	DueDate     *time.Time `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at"`

	ProjectID  *uint `json:"project_id"`
	AssigneeID *uint `json:"assignee_id"`

	// Relationships
	Project     *Project    `json:"project,omitempty"`
	Assignee    *Personnel  `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	TimeEntries []TimeEntry `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE;" json:"time_entries,omitempty"`
}
