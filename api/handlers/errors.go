package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"example.com/furnish/services/serial/internal/service"
)

// ErrorResponse defines the structure of an error response
type ErrorResponse struct {
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Serials []string `json:"serials,omitempty"`
}

// WriteError maps service errors to HTTP responses. Validation errors carry
// the full offender list through so the caller can render all of them.
func WriteError(c *gin.Context, log *logrus.Logger, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		serials := make([]string, 0, len(verr.Malformed)+len(verr.Duplicates)+len(verr.Existing))
		serials = append(serials, verr.Malformed...)
		serials = append(serials, verr.Duplicates...)
		serials = append(serials, verr.Existing...)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: verr.Error(),
			Code:    "VALIDATION_ERROR",
			Serials: serials,
		})
		return
	}

	var terr *service.InvalidTransitionError
	if errors.As(err, &terr) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: terr.Error(),
			Code:    "INVALID_TRANSITION",
		})
		return
	}

	var rerr *service.InvalidReferenceError
	if errors.As(err, &rerr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: rerr.Error(),
			Code:    "INVALID_REFERENCE",
		})
		return
	}

	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Serial unit not found",
			Code:    "NOT_FOUND",
		})
		return
	}

	if errors.Is(err, service.ErrConflict) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Unit was modified concurrently, refetch and retry",
			Code:    "CONFLICT",
		})
		return
	}

	log.WithError(err).Error("Unhandled error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Message: "Internal server error",
		Code:    "INTERNAL_ERROR",
	})
}
