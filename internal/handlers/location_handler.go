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

const defaultPageSize = 20

func ListLocations(ls *services.LocationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q search.Query
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid query parameters: "+err.Error()))
			return
		}
		if q.Limit == 0 {
			q.Limit = defaultPageSize
		}

		locations, total, err := ls.ListLocations(c.Request.Context(), q)
		if err != nil {
			respondError(c, err)
			return
		}

		page := (q.Offset / q.Limit) + 1
		c.JSON(http.StatusOK, helpers.PaginatedResponse(locations, page, q.Limit, total))
	}
}

func GetLocation(ls *services.LocationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		detail, err := ls.GetLocationDetail(c.Request.Context(), c.Param("id"), middleware.CurrentPrincipal(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(detail, ""))
	}
}

func SuggestLocation(ls *services.LocationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.LocationSuggestion
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		loc, err := ls.SuggestLocation(c.Request.Context(), &in, middleware.CurrentPrincipal(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, helpers.SuccessResponse(loc, "Thanks! Your suggestion will be reviewed."))
	}
}

func ListSchools(ls *services.LocationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, helpers.SuccessResponse(ls.ListSchools(c.Query("q")), ""))
	}
}
