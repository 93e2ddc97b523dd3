// Package respond is the single place HTTP responses are rendered.
//
// Every failure, whether raised by the authentication middleware, an
// ownership check or a handler, goes through Error so status codes and body
// shapes stay consistent.
package respond

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/userservice/errors"
)

// Now is the clock used for error timestamps.
var Now = func() time.Time { return time.Now().UTC() }

// Error renders err. AppErrors carry their own status; validation failures
// are rendered as a list of {field, message}; anything else becomes a generic
// 500 that does not expose the underlying error.
func Error(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	if len(appErr.Fields) > 0 {
		c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.Fields)
		return
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse(Now()))
}

// OK sends a 200 response with body.
func OK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}

// Created sends a 201 response with a Location header.
func Created(c *gin.Context, location string, body any) {
	if location != "" {
		c.Header("Location", location)
	}
	c.JSON(http.StatusCreated, body)
}

// NoContent sends a 204 with no body.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
