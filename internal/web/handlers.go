package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agencia-digital/agencia/internal/db"
	apperrors "github.com/agencia-digital/agencia/internal/errors"
	"github.com/agencia-digital/agencia/internal/models"
	"github.com/agencia-digital/agencia/internal/parser"
)

func (s *Server) handleMe(c *gin.Context) {
	ok(c, http.StatusOK, currentUser(c))
}

func (s *Server) handleDashboard(c *gin.Context) {
	top, valid := intQuery(c, "top", 5)
	if !valid {
		return
	}
	d, err := db.GetDashboard(c.Request.Context(), top)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, d)
}

// Clients

func (s *Server) handleListClients(c *gin.Context) {
	clients, err := db.GetClients(c.Request.Context(), c.Query("q"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, clients)
}

func (s *Server) handleGetClient(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	client, err := db.GetClientByID(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, client)
}

func (s *Server) handleCreateClient(c *gin.Context) {
	var req db.ClientRequest
	if !bindJSON(c, &req) {
		return
	}
	client, err := db.CreateClient(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusCreated, client)
}

func (s *Server) handleUpdateClient(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	var req db.ClientRequest
	if !bindJSON(c, &req) {
		return
	}
	client, err := db.UpdateClient(c.Request.Context(), id, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, client)
}

func (s *Server) handleDeleteClient(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	if err := db.DeleteClient(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Projects

func (s *Server) handleListProjects(c *gin.Context) {
	clientID, valid := optionalUint(c, "client_id")
	if !valid {
		return
	}
	projects, err := db.GetProjects(c.Request.Context(), db.ProjectQueryOptions{
		ClientID: clientID,
		Status:   c.Query("status"),
		Query:    c.Query("q"),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, projects)
}

func (s *Server) handleGetProject(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	project, err := db.GetProjectByID(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, project)
}

func (s *Server) handleCreateProject(c *gin.Context) {
	var req db.ProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	project, err := db.CreateProject(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusCreated, project)
}

func (s *Server) handleUpdateProject(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	var req db.ProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	project, err := db.UpdateProject(c.Request.Context(), id, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, project)
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	if err := db.DeleteProject(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Tasks

func (s *Server) handleListTasks(c *gin.Context) {
	projectID, valid := optionalUint(c, "project_id")
	if !valid {
		return
	}
	assigneeID, valid := optionalUint(c, "assignee_id")
	if !valid {
		return
	}
	limit, valid := intQuery(c, "limit", 0)
	if !valid {
		return
	}

	opts := db.TaskQueryOptions{
		Status:         c.Query("status"),
		ProjectID:      projectID,
		AssigneeID:     assigneeID,
		Priority:       c.Query("priority"),
		SortByPriority: c.Query("sort") == "priority",
		Limit:          limit,
	}

	var (
		tasks []db.ScoredTask
		err   error
	)
	if q := c.Query("q"); q != "" {
		tasks, err = db.SearchTasks(c.Request.Context(), q, opts)
	} else {
		tasks, err = db.GetTasks(c.Request.Context(), opts)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, tasks)
}

func (s *Server) handleGetTask(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	task, err := db.GetTaskByID(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{
		"task":    task,
		"score":   db.ScoreTask(*task),
		"tracked": db.TrackedTime(*task).Milliseconds(),
	})
}

// taskBody is the wire form of a task. due_date takes the same forms as the
// CLI: yyyy-mm-dd, dd/mm/yyyy, relative offsets, or a full RFC 3339 time.
type taskBody struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
	ProjectID   *uint  `json:"project_id"`
	AssigneeID  *uint  `json:"assignee_id"`
}

func (b taskBody) request(now time.Time) (db.TaskRequest, error) {
	req := db.TaskRequest{
		Title:       b.Title,
		Description: b.Description,
		Priority:    b.Priority,
		ProjectID:   b.ProjectID,
		AssigneeID:  b.AssigneeID,
	}
	if b.DueDate == "" {
		return req, nil
	}
	if t, err := time.Parse(time.RFC3339, b.DueDate); err == nil {
		req.DueDate = &t
		return req, nil
	}
	due, err := parser.ParseDueDate(b.DueDate, now)
	if err != nil {
		return req, apperrors.NewInvalidInputError("due_date", b.DueDate, err.Error())
	}
	req.DueDate = due
	return req, nil
}

func bindTask(c *gin.Context) (db.TaskRequest, bool) {
	var body taskBody
	if !bindJSON(c, &body) {
		return db.TaskRequest{}, false
	}
	req, err := body.request(db.Clock.Now())
	if err != nil {
		abortWithError(c, err)
		return req, false
	}
	return req, true
}

func (s *Server) handleCreateTask(c *gin.Context) {
	req, valid := bindTask(c)
	if !valid {
		return
	}
	task, err := db.CreateTask(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	req, valid := bindTask(c)
	if !valid {
		return
	}
	task, err := db.UpdateTask(c.Request.Context(), id, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	if err := db.DeleteTask(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) handleSetTaskStatus(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := models.ParseTaskStatus(req.Status)
	if err != nil {
		abortWithError(c, apperrors.NewInvalidInputError("status", req.Status, err.Error()))
		return
	}
	task, err := db.SetTaskStatus(c.Request.Context(), id, status)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, task)
}

// Time entries

func (s *Server) handleListTime(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	sw, err := db.Stopwatch(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{
		"entries":  sw.Entries(),
		"tracking": sw.Tracking(),
		"elapsed":  sw.Tick().Milliseconds(),
		"total":    sw.Total().Milliseconds(),
	})
}

func (s *Server) handleStartTimer(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	entry, err := db.StartTimer(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusCreated, entry)
}

type stopRequest struct {
	Notes string `json:"notes"`
}

func (s *Server) handleStopTimer(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	var req stopRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	entry, err := db.StopTimer(c.Request.Context(), id, req.Notes)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, entry)
}

// Personnel

func (s *Server) handleListPersonnel(c *gin.Context) {
	people, err := db.GetPersonnel(c.Request.Context(), c.Query("q"), c.Query("active") == "true")
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, people)
}

func (s *Server) handleGetPersonnel(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	person, err := db.GetPersonnelByID(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, person)
}

func (s *Server) handleCreatePersonnel(c *gin.Context) {
	var req db.PersonnelRequest
	if !bindJSON(c, &req) {
		return
	}
	person, err := db.CreatePersonnel(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusCreated, person)
}

func (s *Server) handleUpdatePersonnel(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	var req db.PersonnelRequest
	if !bindJSON(c, &req) {
		return
	}
	person, err := db.UpdatePersonnel(c.Request.Context(), id, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, person)
}

func (s *Server) handleDeletePersonnel(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	if err := db.DeletePersonnel(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Billing

func (s *Server) handleListBilling(c *gin.Context) {
	clientID, valid := optionalUint(c, "client_id")
	if !valid {
		return
	}
	accounts, err := db.GetBillingAccounts(c.Request.Context(), db.BillingQueryOptions{
		ClientID: clientID,
		Status:   c.Query("status"),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, accounts)
}

func (s *Server) handleGetBilling(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	account, err := db.GetBillingAccountByID(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, account)
}

func (s *Server) handleCreateBilling(c *gin.Context) {
	var req db.BillingRequest
	if !bindJSON(c, &req) {
		return
	}
	account, err := db.CreateBillingAccount(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusCreated, account)
}

func (s *Server) handlePayBilling(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	account, err := db.MarkBillingPaid(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, account)
}

func (s *Server) handleDeleteBilling(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	if err := db.DeleteBillingAccount(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Users

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := db.GetUsers(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	ok(c, http.StatusOK, users)
}
