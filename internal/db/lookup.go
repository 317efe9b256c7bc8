package db

import (
	"context"
	"strconv"
	"strings"

	apperrors "github.com/agencia-digital/agencia/internal/errors"
	"github.com/agencia-digital/agencia/internal/models"
)

// FindProject resolves a project from its id or its name, ignoring case
func FindProject(ctx context.Context, ref string) (*models.Project, error) {
	return findByRef[models.Project](ctx, "project", ref)
}

// FindPersonnel resolves a team member from their id, name or email
func FindPersonnel(ctx context.Context, ref string) (*models.Personnel, error) {
	return findByRef[models.Personnel](ctx, "personnel", ref, "email")
}

// FindClient resolves a client from its id or its name
func FindClient(ctx context.Context, ref string) (*models.Client, error) {
	return findByRef[models.Client](ctx, "client", ref)
}

func findByRef[T any](ctx context.Context, resource, ref string, extra ...string) (*T, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, apperrors.NewInvalidInputError(resource, ref, "cannot be empty")
	}
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		return getByID[T](ctx, resource, uint(id))
	}

	// names written as-is or with dashes for spaces, as in "@tienda-online"
	names := []string{strings.ToLower(ref), strings.ToLower(strings.ReplaceAll(ref, "-", " "))}
	cond := "LOWER(name) IN ?"
	args := []interface{}{names}
	for _, col := range extra {
		cond += " OR LOWER(" + col + ") = ?"
		args = append(args, strings.ToLower(ref))
	}
	q := DB.WithContext(ctx).Where(cond, args...)

	var row T
	if err := q.Order("id ASC").First(&row).Error; err != nil {
		return nil, translate(err, resource, ref, "find "+resource)
	}
	return &row, nil
}
