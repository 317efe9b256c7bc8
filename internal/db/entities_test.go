package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agencia-digital/agencia/internal/errors"
	"github.com/agencia-digital/agencia/internal/models"
)

func TestClientCRUD(t *testing.T) {
	ctx, _ := setupTestDB(t)

	client, err := CreateClient(ctx, ClientRequest{Name: " Café del Valle ", Company: "CDV SAS", Email: "hola@cdv.co"})
	require.NoError(t, err)
	assert.Equal(t, "Café del Valle", client.Name)

	_, err = CreateClient(ctx, ClientRequest{Name: "Bad", Email: "not-an-email"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))

	found, err := GetClients(ctx, "cdv")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	updated, err := UpdateClient(ctx, client.ID, ClientRequest{Name: "Café del Valle", Phone: "3001234567"})
	require.NoError(t, err)
	assert.Equal(t, "3001234567", updated.Phone)

	require.NoError(t, DeleteClient(ctx, client.ID))
	_, err = GetClientByID(ctx, client.ID)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestProjectRequiresExistingClient(t *testing.T) {
	ctx, _ := setupTestDB(t)

	missing := uint(7)
	_, err := CreateProject(ctx, ProjectRequest{Name: "App", ClientID: &missing})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

	client, err := CreateClient(ctx, ClientRequest{Name: "Agro SAS"})
	require.NoError(t, err)
	project, err := CreateProject(ctx, ProjectRequest{Name: "App", ClientID: &client.ID})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectActive, project.Status)

	_, err = CreateProject(ctx, ProjectRequest{Name: "App", Status: "Cancelado"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))

	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)
	_, err = CreateProject(ctx, ProjectRequest{Name: "Bad dates", StartDate: &start, EndDate: &end})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))

	projects, err := GetProjects(ctx, ProjectQueryOptions{Query: "agro"})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Agro SAS", projects[0].Client.Name)
}

func TestPersonnelActiveFlag(t *testing.T) {
	ctx, _ := setupTestDB(t)

	inactive := false
	carlos, err := CreatePersonnel(ctx, PersonnelRequest{Name: "Carlos", Email: "carlos@agencia.co", Active: &inactive})
	require.NoError(t, err)
	assert.False(t, carlos.Active)

	stored, err := GetPersonnelByID(ctx, carlos.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
	_, err = CreatePersonnel(ctx, PersonnelRequest{Name: "Diana", Email: "diana@agencia.co", Position: "Diseñadora"})
	require.NoError(t, err)

	all, err := GetPersonnel(ctx, "", false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := GetPersonnel(ctx, "", true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Diana", active[0].Name)

	_, err = CreatePersonnel(ctx, PersonnelRequest{Name: "Neg", HourlyRate: -1})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
}

func TestBillingLifecycle(t *testing.T) {
	ctx, clock := setupTestDB(t)

	client, err := CreateClient(ctx, ClientRequest{Name: "Tienda Sol"})
	require.NoError(t, err)

	due := clock.now.AddDate(0, 0, 5)
	account, err := CreateBillingAccount(ctx, BillingRequest{ClientID: client.ID, Concept: "Desarrollo web", Amount: 1500000, DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, "COP", account.Currency)
	assert.Equal(t, models.BillingPending, account.Status)

	_, err = CreateBillingAccount(ctx, BillingRequest{ClientID: client.ID, Concept: "x", Amount: 0})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))

	changed, err := MarkOverdueBilling(ctx)
	require.NoError(t, err)
	assert.Zero(t, changed)

	clock.Advance(6 * 24 * time.Hour)
	changed, err = MarkOverdueBilling(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	paid, err := MarkBillingPaid(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillingPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)

	_, err = MarkBillingPaid(ctx, account.ID)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConflict))
}

func TestUserUpsert(t *testing.T) {
	ctx, clock := setupTestDB(t)
	store := UserStore{}

	require.NoError(t, store.UpsertUser(ctx, models.User{ID: "u-1", Email: "a@agencia.co", Role: models.RoleCollaborator, SyncedAt: clock.now}))
	require.NoError(t, store.UpsertUser(ctx, models.User{ID: "u-1", Email: "a@agencia.co", Role: models.RoleAdmin, SyncedAt: clock.now}))

	users, err := GetUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, models.RoleAdmin, users[0].Role)

	_, err = GetUser(ctx, "ghost")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestDashboard(t *testing.T) {
	ctx, clock := setupTestDB(t)

	_, err := CreateClient(ctx, ClientRequest{Name: "Cliente"})
	require.NoError(t, err)
	_, err = CreateProject(ctx, ProjectRequest{Name: "Proyecto"})
	require.NoError(t, err)

	urgent, err := CreateTask(ctx, TaskRequest{Title: "urgent", Priority: "Alta", DueDate: datePtr(clock.now)})
	require.NoError(t, err)
	_, err = CreateTask(ctx, TaskRequest{Title: "later", Priority: "Baja"})
	require.NoError(t, err)

	_, err = StartTimer(ctx, urgent.ID)
	require.NoError(t, err)
	clock.Advance(30 * time.Minute)

	d, err := GetDashboard(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.Clients)
	assert.Equal(t, int64(1), d.ActiveProjects)
	assert.Equal(t, int64(1), d.TasksByStatus[models.StatusInProgress])
	assert.Equal(t, int64(1), d.TasksByStatus[models.StatusPending])
	require.Len(t, d.TopTasks, 1)
	assert.Equal(t, "urgent", d.TopTasks[0].Title)
	assert.Equal(t, 1, d.Running)
	assert.Equal(t, "00:30:00", d.TrackedToday)
}

func TestPersonnelWithoutEmail(t *testing.T) {
	ctx, _ := setupTestDB(t)

	first, err := CreatePersonnel(ctx, PersonnelRequest{Name: "Mateo"})
	require.NoError(t, err)
	assert.Nil(t, first.Email)
	_, err = CreatePersonnel(ctx, PersonnelRequest{Name: "Sara", Email: "  "})
	require.NoError(t, err)

	_, err = CreatePersonnel(ctx, PersonnelRequest{Name: "Paula", Email: "paula@agencia.co"})
	require.NoError(t, err)
	_, err = CreatePersonnel(ctx, PersonnelRequest{Name: "Paula B", Email: "paula@agencia.co"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeDatabase))

	staff, err := GetPersonnel(ctx, "", false)
	require.NoError(t, err)
	assert.Len(t, staff, 3)
	assert.Equal(t, "", staff[0].EmailAddress())
}

func TestFindByReference(t *testing.T) {
	ctx, _ := setupTestDB(t)

	project, err := CreateProject(ctx, ProjectRequest{Name: "Tienda Online"})
	require.NoError(t, err)
	person, err := CreatePersonnel(ctx, PersonnelRequest{Name: "Diana", Email: "diana@agencia.co"})
	require.NoError(t, err)

	tests := []struct {
		name string
		ref  string
	}{
		{"by id", "1"},
		{"exact name", "Tienda Online"},
		{"case insensitive", "tienda online"},
		{"dashed", "tienda-online"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := FindProject(ctx, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, project.ID, found.ID)
		})
	}

	found, err := FindPersonnel(ctx, "DIANA@agencia.co")
	require.NoError(t, err)
	assert.Equal(t, person.ID, found.ID)

	_, err = FindProject(ctx, "inexistente")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
	_, err = FindClient(ctx, " ")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
}
