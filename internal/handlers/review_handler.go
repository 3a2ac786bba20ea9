package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/crumbs/internal/helpers"
	"github.com/joshua-takyi/crumbs/internal/middleware"
	"github.com/joshua-takyi/crumbs/internal/models"
	"github.com/joshua-takyi/crumbs/internal/search"
	"github.com/joshua-takyi/crumbs/internal/services"
)

func ListLocationReviews(rs *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sortKey := search.ReviewSort(c.DefaultQuery("sort", string(search.ReviewsNewest)))
		reviews, err := rs.ListLocationReviews(c.Request.Context(), c.Param("id"), sortKey)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(reviews, ""))
	}
}

func ListUserReviews(rs *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviews, err := rs.ListUserReviews(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(reviews, ""))
	}
}

func CreateReview(rs *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.ReviewInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		review, err := rs.SubmitReview(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"), &in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, helpers.SuccessResponse(review, "Review posted"))
	}
}

func DeleteReview(rs *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := rs.DeleteReview(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(nil, "Review deleted"))
	}
}

func UpvoteReview(rs *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		review, err := rs.UpvoteReview(c.Request.Context(), middleware.CurrentPrincipal(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(review, "Upvoted"))
	}
}
