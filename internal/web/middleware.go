package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agencia-digital/agencia/internal/auth"
	apperrors "github.com/agencia-digital/agencia/internal/errors"
	"github.com/agencia-digital/agencia/internal/models"
)

const (
	userHeader = "X-User-ID"
	userKey    = "user"
)

func (s *Server) authenticate(c *gin.Context) {
	user, err := s.syncer.Resolve(c.Request.Context(), c.GetHeader(userHeader))
	if err != nil {
		if apperrors.IsErrorType(err, apperrors.ErrorTypePermission) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   apperrors.GetUserMessage(err),
			})
			return
		}
		abortWithError(c, err)
		return
	}
	c.Set(userKey, user)
	c.Next()
}

func (s *Server) require(resource auth.Resource, write bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.Authorize(currentUser(c), resource, write); err != nil {
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) models.User {
	if v, ok := c.Get(userKey); ok {
		if user, ok := v.(models.User); ok {
			return user
		}
	}
	return models.User{}
}

// statusFor maps an error to its HTTP status
func statusFor(err error) int {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case apperrors.ErrorTypeValidation, apperrors.ErrorTypeInvalidInput:
		return http.StatusBadRequest
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypePermission:
		return http.StatusForbidden
	case apperrors.ErrorTypeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	if apperrors.ShouldLogError(err) {
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	body := gin.H{
		"success": false,
		"error":   apperrors.GetUserMessage(err),
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		body["code"] = appErr.Code
	}
	c.AbortWithStatusJSON(statusFor(err), body)
}

// idParam parses the :id path segment, replying 400 when it is not a number
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		abortWithError(c, apperrors.NewInvalidInputError("id", c.Param("id"), "must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}

// optionalUint parses a numeric query parameter
func optionalUint(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		abortWithError(c, apperrors.NewInvalidInputError(name, raw, "must be a positive integer"))
		return nil, false
	}
	id := uint(v)
	return &id, true
}

// intQuery reads a non-negative integer query parameter
func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		abortWithError(c, apperrors.NewInvalidInputError(name, raw, "must be a non-negative number"))
		return 0, false
	}
	return n, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithError(c, apperrors.NewValidationError("invalid request body: "+err.Error(), err))
		return false
	}
	return true
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}
