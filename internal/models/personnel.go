package models

import (
	"time"

	"gorm.io/gorm"
)

// Personnel is a member of the agency staff
type Personnel struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name       string  `gorm:"not null" json:"name"`
	Email      *string `gorm:"uniqueIndex" json:"email"`
	Position   string  `json:"position"`
	HourlyRate float64 `json:"hourly_rate"`
	Active     bool    `gorm:"default:true" json:"active"`
}

// TableName keeps the plural form gorm would not infer
func (Personnel) TableName() string {
	return "personnel"
}

// EmailAddress returns the email or "" when none is set
func (p Personnel) EmailAddress() string {
	if p.Email == nil {
		return ""
	}
	return *p.Email
}
