package models

import (
	"time"

	"gorm.io/gorm"
)

// Billing account statuses
const (
	BillingPending = "Pendiente"
	BillingPaid    = "Pagada"
	BillingOverdue = "Vencida"
)

// BillingAccount is an amount owed by a client
type BillingAccount struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ClientID uint       `gorm:"not null;index" json:"client_id"`
	Concept  string     `gorm:"not null" json:"concept"`
	Amount   float64    `json:"amount"`
	Currency string     `gorm:"default:COP" json:"currency"`
	Status   string     `gorm:"default:Pendiente" json:"status"`
	IssuedAt time.Time  `json:"issued_at"`
	DueDate  *time.Time `json:"due_date"`
	PaidAt   *time.Time `json:"paid_at"`

	Client *Client `json:"client,omitempty"`
}
