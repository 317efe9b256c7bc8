package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agencia-digital/agencia/internal/auth"
)

// Server is the agencia HTTP API
type Server struct {
	syncer *auth.Syncer
	router *gin.Engine
}

// NewServer creates the API server. Every /api route resolves the caller
// through syncer before running.
func NewServer(syncer *auth.Syncer) *Server {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	s := &Server{
		syncer: syncer,
		router: router,
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api", s.authenticate)
	{
		api.GET("/me", s.handleMe)
		api.GET("/dashboard", s.require(auth.ResourceDashboard, false), s.handleDashboard)

		clients := api.Group("/clients")
		clients.GET("", s.require(auth.ResourceClients, false), s.handleListClients)
		clients.GET("/:id", s.require(auth.ResourceClients, false), s.handleGetClient)
		clients.POST("", s.require(auth.ResourceClients, true), s.handleCreateClient)
		clients.PUT("/:id", s.require(auth.ResourceClients, true), s.handleUpdateClient)
		clients.DELETE("/:id", s.require(auth.ResourceClients, true), s.handleDeleteClient)

		projects := api.Group("/projects")
		projects.GET("", s.require(auth.ResourceProjects, false), s.handleListProjects)
		projects.GET("/:id", s.require(auth.ResourceProjects, false), s.handleGetProject)
		projects.POST("", s.require(auth.ResourceProjects, true), s.handleCreateProject)
		projects.PUT("/:id", s.require(auth.ResourceProjects, true), s.handleUpdateProject)
		projects.DELETE("/:id", s.require(auth.ResourceProjects, true), s.handleDeleteProject)

		tasks := api.Group("/tasks")
		tasks.GET("", s.require(auth.ResourceTasks, false), s.handleListTasks)
		tasks.GET("/:id", s.require(auth.ResourceTasks, false), s.handleGetTask)
		tasks.POST("", s.require(auth.ResourceTasks, true), s.handleCreateTask)
		tasks.PUT("/:id", s.require(auth.ResourceTasks, true), s.handleUpdateTask)
		tasks.DELETE("/:id", s.require(auth.ResourceTasks, true), s.handleDeleteTask)
		tasks.PUT("/:id/status", s.require(auth.ResourceTasks, true), s.handleSetTaskStatus)
		tasks.GET("/:id/time", s.require(auth.ResourceTime, false), s.handleListTime)
		tasks.POST("/:id/time/start", s.require(auth.ResourceTime, true), s.handleStartTimer)
		tasks.POST("/:id/time/stop", s.require(auth.ResourceTime, true), s.handleStopTimer)

		personnel := api.Group("/personnel")
		personnel.GET("", s.require(auth.ResourcePersonnel, false), s.handleListPersonnel)
		personnel.GET("/:id", s.require(auth.ResourcePersonnel, false), s.handleGetPersonnel)
		personnel.POST("", s.require(auth.ResourcePersonnel, true), s.handleCreatePersonnel)
		personnel.PUT("/:id", s.require(auth.ResourcePersonnel, true), s.handleUpdatePersonnel)
		personnel.DELETE("/:id", s.require(auth.ResourcePersonnel, true), s.handleDeletePersonnel)

		billing := api.Group("/billing")
		billing.GET("", s.require(auth.ResourceBilling, false), s.handleListBilling)
		billing.GET("/:id", s.require(auth.ResourceBilling, false), s.handleGetBilling)
		billing.POST("", s.require(auth.ResourceBilling, true), s.handleCreateBilling)
		billing.POST("/:id/pay", s.require(auth.ResourceBilling, true), s.handlePayBilling)
		billing.DELETE("/:id", s.require(auth.ResourceBilling, true), s.handleDeleteBilling)

		api.GET("/users", s.require(auth.ResourceUsers, false), s.handleListUsers)
	}

	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		slog.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
