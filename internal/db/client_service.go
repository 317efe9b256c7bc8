package db

import (
	"context"
	"strings"

	apperrors "github.com/agencia-digital/agencia/internal/errors"
	"github.com/agencia-digital/agencia/internal/models"
	"github.com/agencia-digital/agencia/internal/search"
)

// ClientRequest holds the editable fields of a client
type ClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Notes   string `json:"notes"`
}

func (r ClientRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return apperrors.NewValidationError("client name cannot be empty", nil)
	}
	if r.Email != "" && !strings.Contains(r.Email, "@") {
		return apperrors.NewInvalidInputError("email", r.Email, "must be an email address")
	}
	return nil
}

// CreateClient inserts a new client
func CreateClient(ctx context.Context, req ClientRequest) (*models.Client, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	client := models.Client{
		Name:    strings.TrimSpace(req.Name),
		Company: req.Company,
		Email:   req.Email,
		Phone:   req.Phone,
		Notes:   req.Notes,
	}
	if err := DB.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, apperrors.NewDatabaseError("create client", err)
	}
	return &client, nil
}

// GetClients lists clients whose name, company or email contains query
func GetClients(ctx context.Context, query string) ([]models.Client, error) {
	var clients []models.Client
	if err := DB.WithContext(ctx).Order("name ASC").Find(&clients).Error; err != nil {
		return nil, apperrors.NewDatabaseError("list clients", err)
	}
	return search.Filter(clients, query, func(c models.Client) []string {
		return []string{c.Name, c.Company, c.Email}
	}), nil
}

// GetClientByID loads a client with its projects
func GetClientByID(ctx context.Context, id uint) (*models.Client, error) {
	return getByID[models.Client](ctx, "client", id, "Projects")
}

// UpdateClient replaces the editable fields of a client
func UpdateClient(ctx context.Context, id uint, req ClientRequest) (*models.Client, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	client, err := getByID[models.Client](ctx, "client", id)
	if err != nil {
		return nil, err
	}
	client.Name = strings.TrimSpace(req.Name)
	client.Company = req.Company
	client.Email = req.Email
	client.Phone = req.Phone
	client.Notes = req.Notes
	if err := DB.WithContext(ctx).Save(client).Error; err != nil {
		return nil, apperrors.NewDatabaseError("update client", err)
	}
	return client, nil
}

// DeleteClient removes a client
func DeleteClient(ctx context.Context, id uint) error {
	return deleteByID[models.Client](ctx, "client", id)
}
