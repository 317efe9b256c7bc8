package db

import (
	"context"

	"gorm.io/gorm/clause"

	apperrors "github.com/agencia-digital/agencia/internal/errors"
	"github.com/agencia-digital/agencia/internal/models"
)

// UserStore persists synced identities; it satisfies auth.UserStore
type UserStore struct{}

// UpsertUser inserts the user or refreshes its email, role and sync time
func (UserStore) UpsertUser(ctx context.Context, user models.User) error {
	err := DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "role", "synced_at", "updated_at"}),
	}).Create(&user).Error
	if err != nil {
		return apperrors.NewDatabaseError("upsert user", err)
	}
	return nil
}

// GetUser loads one user by auth id
func GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "user", id, "get user")
	}
	return &user, nil
}

// GetUsers lists synced users
func GetUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := DB.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, apperrors.NewDatabaseError("list users", err)
	}
	return users, nil
}
