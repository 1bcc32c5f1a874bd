// Package render writes API responses.
package render

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"glamup.com/app/internal/http/middleware"
	"glamup.com/app/internal/shared/apperr"
	"glamup.com/app/internal/shared/validation"
)

func JSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func OK(c *gin.Context, v any) { JSON(c, http.StatusOK, v) }

func Created(c *gin.Context, v any) { JSON(c, http.StatusCreated, v) }

func NoContent(c *gin.Context) { c.Status(http.StatusNoContent) }

// BindJSON binds and validates the body into dst. On failure it records an
// invalid-input error with per-field messages and returns false.
func BindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) {
		middleware.Fail(c, apperr.InvalidErr("Request body is required.", nil))
		return false
	}
	middleware.Fail(c, apperr.InvalidErr("Please correct the highlighted fields.", validation.FromBindError(err, dst)))
	return false
}

// DecodeJSON binds the body into dst but leaves rule checking to the service
// layer, which owns the user-facing messages. Only malformed bodies fail.
func DecodeJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	var ve validator.ValidationErrors
	if err == nil || errors.As(err, &ve) {
		return true
	}
	middleware.Fail(c, apperr.InvalidErr("Request body is invalid.", nil))
	return false
}
