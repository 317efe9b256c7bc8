package models

import (
	"time"

	"gorm.io/gorm"
)

// Project statuses
const (
	ProjectActive   = "Activo"
	ProjectPaused   = "En Pausa"
	ProjectFinished = "Finalizado"
)

// Project groups tasks delivered for a client
type Project struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string     `gorm:"not null" json:"name"`
	Description string     `json:"description"`
	Status      string     `gorm:"default:Activo" json:"status"`
	Budget      float64    `json:"budget"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`

	ClientID *uint   `json:"client_id"`
	Client   *Client `json:"client,omitempty"`
	Tasks    []Task  `json:"tasks,omitempty"`
}

// ValidProjectStatus reports whether s is a known project status
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectActive, ProjectPaused, ProjectFinished:
		return true
	}
	return false
}
