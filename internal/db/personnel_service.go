package db

import (
	"context"
	"strings"

	apperrors "github.com/agencia-digital/agencia/internal/errors"
	"github.com/agencia-digital/agencia/internal/models"
	"github.com/agencia-digital/agencia/internal/search"
)

// PersonnelRequest holds the editable fields of a staff member
type PersonnelRequest struct {
	Name       string  `json:"name" binding:"required"`
	Email      string  `json:"email"`
	Position   string  `json:"position"`
	HourlyRate float64 `json:"hourly_rate"`
	Active     *bool   `json:"active"`
}

func (r *PersonnelRequest) validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	if r.Name == "" {
		return apperrors.NewValidationError("personnel name cannot be empty", nil)
	}
	if r.Email != "" && !strings.Contains(r.Email, "@") {
		return apperrors.NewInvalidInputError("email", r.Email, "must be an email address")
	}
	if r.HourlyRate < 0 {
		return apperrors.NewInvalidInputError("hourly_rate", r.HourlyRate, "cannot be negative")
	}
	return nil
}

// optionalEmail stores a blank email as NULL so the unique index allows many
func optionalEmail(email string) *string {
	if email == "" {
		return nil
	}
	return &email
}

// CreatePersonnel inserts a staff member, active unless stated otherwise
func CreatePersonnel(ctx context.Context, req PersonnelRequest) (*models.Personnel, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	p := models.Personnel{
		Name:       req.Name,
		Email:      optionalEmail(req.Email),
		Position:   req.Position,
		HourlyRate: req.HourlyRate,
		Active:     true,
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	// gorm leaves a false bool with a default out of the INSERT and reads the
	// default back, so inactive is written after the row exists
	if err := DB.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, apperrors.NewDatabaseError("create personnel", err)
	}
	if !active {
		if err := DB.WithContext(ctx).Model(&p).Update("active", false).Error; err != nil {
			return nil, apperrors.NewDatabaseError("create personnel", err)
		}
		p.Active = false
	}
	return &p, nil
}

// GetPersonnel lists staff, optionally only active members
func GetPersonnel(ctx context.Context, query string, activeOnly bool) ([]models.Personnel, error) {
	q := DB.WithContext(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var staff []models.Personnel
	if err := q.Find(&staff).Error; err != nil {
		return nil, apperrors.NewDatabaseError("list personnel", err)
	}
	return search.Filter(staff, query, func(p models.Personnel) []string {
		return []string{p.Name, p.EmailAddress(), p.Position}
	}), nil
}

// GetPersonnelByID loads one staff member
func GetPersonnelByID(ctx context.Context, id uint) (*models.Personnel, error) {
	return getByID[models.Personnel](ctx, "personnel", id)
}

// UpdatePersonnel replaces the editable fields of a staff member
func UpdatePersonnel(ctx context.Context, id uint, req PersonnelRequest) (*models.Personnel, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	p, err := getByID[models.Personnel](ctx, "personnel", id)
	if err != nil {
		return nil, err
	}
	p.Name = req.Name
	p.Email = optionalEmail(req.Email)
	p.Position = req.Position
	p.HourlyRate = req.HourlyRate
	if req.Active != nil {
		p.Active = *req.Active
	}
	if err := DB.WithContext(ctx).Save(p).Error; err != nil {
		return nil, apperrors.NewDatabaseError("update personnel", err)
	}
	return p, nil
}

// DeletePersonnel removes a staff member
func DeletePersonnel(ctx context.Context, id uint) error {
	return deleteByID[models.Personnel](ctx, "personnel", id)
}
