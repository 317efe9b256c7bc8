package models

import "time"

// Roles stored on users
const (
	RoleAdmin        = "admin"
	RoleCollaborator = "colaborador"
)

// User mirrors an identity from the auth provider together with its role
type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email    string    `json:"email"`
	Role     string    `gorm:"not null;default:colaborador" json:"role"`
	SyncedAt time.Time `json:"synced_at"`
}
