package auth

import (
	apperrors "github.com/agencia-digital/agencia/internal/errors"
	"github.com/agencia-digital/agencia/internal/models"
)

// Resource names a gated area of the application
type Resource string

const (
	ResourceClients   Resource = "clients"
	ResourceProjects  Resource = "projects"
	ResourceTasks     Resource = "tasks"
	ResourceTime      Resource = "time_entries"
	ResourcePersonnel Resource = "personnel"
	ResourceBilling   Resource = "billing"
	ResourceUsers     Resource = "users"
	ResourceDashboard Resource = "dashboard"
)

type access struct {
	read, write bool
}

var collaboratorAccess = map[Resource]access{
	ResourceClients:   {read: true},
	ResourceProjects:  {read: true},
	ResourceTasks:     {read: true, write: true},
	ResourceTime:      {read: true, write: true},
	ResourceDashboard: {read: true},
}

// Allow reports whether role may read, or write when write is set, resource.
// Admins may do everything.
func Allow(role string, resource Resource, write bool) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleCollaborator:
		a := collaboratorAccess[resource]
		if write {
			return a.write
		}
		return a.read
	}
	return false
}

// Authorize returns a permission error when user may not access resource
func Authorize(user models.User, resource Resource, write bool) error {
	if Allow(user.Role, resource, write) {
		return nil
	}
	op := "read"
	if write {
		op = "write"
	}
	return apperrors.NewPermissionError(op, string(resource)).WithContext("user_id", user.ID)
}
