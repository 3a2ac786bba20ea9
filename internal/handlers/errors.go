package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/crumbs/internal/helpers"
	"github.com/joshua-takyi/crumbs/internal/models"
)

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch models.KindOf(err) {
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindUnauthenticated:
		return http.StatusUnauthorized
	case models.KindForbidden:
		return http.StatusForbidden
	case models.KindDuplicateVote, models.KindDuplicateReview:
		return http.StatusConflict
	case models.KindValidation:
		return http.StatusBadRequest
	case models.KindRejected:
		return http.StatusUnprocessableEntity
	case models.KindTransport:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func publicMessage(err error) string {
	var e *models.Error
	if errors.As(err, &e) {
		if e.Kind == models.KindValidation && e.Err != nil {
			return e.Message + ": " + e.Err.Error()
		}
		return e.Message
	}
	return "internal server error"
}

// respondError writes the error response. Failures and expected
// business-rule rejections are also attached to the context so ErrorHandler
// logs them at the matching level.
func respondError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError || models.IsExpected(err) {
		_ = c.Error(err)
	}
	c.JSON(status, helpers.KindResponse(string(models.KindOf(err)), publicMessage(err)))
}
