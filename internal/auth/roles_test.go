package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/agencia-digital/agencia/internal/errors"
	"github.com/agencia-digital/agencia/internal/models"
)

func TestAllow(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		resource Resource
		write    bool
		want     bool
	}{
		{"admin writes billing", models.RoleAdmin, ResourceBilling, true, true},
		{"admin manages users", models.RoleAdmin, ResourceUsers, true, true},
		{"collaborator reads clients", models.RoleCollaborator, ResourceClients, false, true},
		{"collaborator cannot write clients", models.RoleCollaborator, ResourceClients, true, false},
		{"collaborator reads projects", models.RoleCollaborator, ResourceProjects, false, true},
		{"collaborator writes tasks", models.RoleCollaborator, ResourceTasks, true, true},
		{"collaborator writes time", models.RoleCollaborator, ResourceTime, true, true},
		{"collaborator cannot read personnel", models.RoleCollaborator, ResourcePersonnel, false, false},
		{"collaborator cannot read billing", models.RoleCollaborator, ResourceBilling, false, false},
		{"collaborator cannot read users", models.RoleCollaborator, ResourceUsers, false, false},
		{"unknown role", "guest", ResourceTasks, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allow(tt.role, tt.resource, tt.write))
		})
	}
}

func TestAuthorize(t *testing.T) {
	err := Authorize(models.User{ID: "luis", Role: models.RoleCollaborator}, ResourceBilling, true)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypePermission))

	assert.NoError(t, Authorize(models.User{ID: "ana", Role: models.RoleAdmin}, ResourceBilling, true))
}

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"admin", models.RoleAdmin, true},
		{" ADMIN ", models.RoleAdmin, true},
		{"Colaborador", models.RoleCollaborator, true},
		{"collaborator", models.RoleCollaborator, true},
		{"root", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeRole(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}
