package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/crumbs/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{models.NotFound("location"), http.StatusNotFound},
		{models.ErrUnauthenticated, http.StatusUnauthorized},
		{models.Forbidden("nope"), http.StatusForbidden},
		{models.ErrDuplicateVote, http.StatusConflict},
		{fmt.Errorf("upvote: %w", models.ErrDuplicateReview), http.StatusConflict},
		{models.Invalid("bad"), http.StatusBadRequest},
		{models.Rejected("rude"), http.StatusUnprocessableEntity},
		{models.Transport("db", errors.New("dial")), http.StatusBadGateway},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

func TestPublicMessageHidesInternals(t *testing.T) {
	assert.Equal(t, "db", publicMessage(models.Transport("db", errors.New("dial tcp 10.0.0.1"))))
	assert.Equal(t, "internal server error", publicMessage(errors.New("secret")))
	assert.Equal(t, "review not found", publicMessage(models.NotFound("review")))
}

func TestRespondErrorAttachesLoggedKinds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err      error
		attached bool
	}{
		{models.ErrDuplicateVote, true},
		{models.ErrUnauthenticated, true},
		{models.Transport("db", errors.New("dial")), true},
		{models.NotFound("review"), false},
		{models.Invalid("bad"), false},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, tc.err)
		assert.Equal(t, StatusFor(tc.err), w.Code)
		assert.Equal(t, tc.attached, len(c.Errors) == 1, tc.err.Error())
	}
}
