package db

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/agencia-digital/agencia/internal/errors"
	"github.com/agencia-digital/agencia/internal/models"
	"github.com/agencia-digital/agencia/internal/search"
)

// ProjectRequest holds the editable fields of a project
type ProjectRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Budget      float64    `json:"budget"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	ClientID    *uint      `json:"client_id"`
}

func (r *ProjectRequest) normalize(ctx context.Context) error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return apperrors.NewValidationError("project name cannot be empty", nil)
	}
	if r.Status == "" {
		r.Status = models.ProjectActive
	}
	if !models.ValidProjectStatus(r.Status) {
		return apperrors.NewInvalidInputError("status", r.Status, "use Activo, En Pausa or Finalizado")
	}
	if r.Budget < 0 {
		return apperrors.NewInvalidInputError("budget", r.Budget, "cannot be negative")
	}
	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return apperrors.NewValidationError("project end date is before its start date", nil)
	}
	if r.ClientID != nil {
		ok, err := exists[models.Client](ctx, *r.ClientID)
		if err != nil {
			return apperrors.NewDatabaseError("check client", err)
		}
		if !ok {
			return apperrors.NewNotFoundError("client", *r.ClientID)
		}
	}
	return nil
}

// CreateProject inserts a new project
func CreateProject(ctx context.Context, req ProjectRequest) (*models.Project, error) {
	if err := req.normalize(ctx); err != nil {
		return nil, err
	}
	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Budget:      req.Budget,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		ClientID:    req.ClientID,
	}
	if err := DB.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, apperrors.NewDatabaseError("create project", err)
	}
	return &project, nil
}

// ProjectQueryOptions narrows GetProjects
type ProjectQueryOptions struct {
	ClientID *uint
	Status   string
	Query    string
}

// GetProjects lists projects with their client
func GetProjects(ctx context.Context, opts ProjectQueryOptions) ([]models.Project, error) {
	q := DB.WithContext(ctx).Preload("Client").Order("name ASC")
	if opts.ClientID != nil {
		q = q.Where("client_id = ?", *opts.ClientID)
	}
	if opts.Status != "" {
		q = q.Where("status = ?", opts.Status)
	}

	var projects []models.Project
	if err := q.Find(&projects).Error; err != nil {
		return nil, apperrors.NewDatabaseError("list projects", err)
	}
	return search.Filter(projects, opts.Query, func(p models.Project) []string {
		fields := []string{p.Name, p.Description, p.Status}
		if p.Client != nil {
			fields = append(fields, p.Client.Name)
		}
		return fields
	}), nil
}

// GetProjectByID loads a project with its client and tasks
func GetProjectByID(ctx context.Context, id uint) (*models.Project, error) {
	return getByID[models.Project](ctx, "project", id, "Client", "Tasks")
}

// UpdateProject replaces the editable fields of a project
func UpdateProject(ctx context.Context, id uint, req ProjectRequest) (*models.Project, error) {
	if err := req.normalize(ctx); err != nil {
		return nil, err
	}
	project, err := getByID[models.Project](ctx, "project", id)
	if err != nil {
		return nil, err
	}
	project.Name = req.Name
	project.Description = req.Description
	project.Status = req.Status
	project.Budget = req.Budget
	project.StartDate = req.StartDate
	project.EndDate = req.EndDate
	project.ClientID = req.ClientID
	if err := DB.WithContext(ctx).Save(project).Error; err != nil {
		return nil, apperrors.NewDatabaseError("update project", err)
	}
	return project, nil
}

// DeleteProject removes a project
func DeleteProject(ctx context.Context, id uint) error {
	return deleteByID[models.Project](ctx, "project", id)
}
