package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shortly/internal/response"
	"shortly/internal/service"
)

type AnalyticsHandler struct {
	clicks *service.ClickService
}

func NewAnalyticsHandler(clicks *service.ClickService) *AnalyticsHandler {
	return &AnalyticsHandler{
		clicks: clicks,
	}
}

// Stats godoc
//
//	@Summary	Click statistics for a URL
//	@Tags		analytics
//	@Produce	json
//	@Param		shortCode	path		string	true	"Short code"
//	@Param		days		query		int		false	"Window in days (default 30)"
//	@Success	200			{object}	response.SuccessResponse{data=response.StatsResponse}
//	@Failure	404			{object}	response.ErrorResponse
//	@Router		/api/v1/urls/{shortCode}/stats [get]
func (h *AnalyticsHandler) Stats(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	stats, err := h.clicks.Stats(c.Param("shortCode"), days)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, response.Fail("URL not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Fail("Internal server error"))
		return
	}

	c.JSON(http.StatusOK, response.OK(response.StatsResponse{
		TotalClicks:  stats.TotalClicks,
		ClicksByDay:  stats.ClicksByDay,
		TopReferrers: stats.TopReferrers,
		TopCountries: stats.TopCountries,
	}))
}

// Clicks godoc
//
//	@Summary	Raw click history for a URL
//	@Tags		analytics
//	@Produce	json
//	@Param		shortCode	path		string	true	"Short code"
//	@Param		limit		query		int		false	"Page size (default 100)"
//	@Param		offset		query		int		false	"Offset"
//	@Success	200			{object}	response.SuccessResponse
//	@Failure	404			{object}	response.ErrorResponse
//	@Router		/api/v1/urls/{shortCode}/clicks [get]
func (h *AnalyticsHandler) Clicks(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	clicks, total, err := h.clicks.History(c.Param("shortCode"), limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, response.Fail("URL not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Fail("Internal server error"))
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse{
		Success: true,
		Data:    clicks,
		Pagination: response.OffsetPagination{
			Limit:  limit,
			Offset: offset,
			Total:  total,
		},
	})
}

// Recent godoc
//
//	@Summary	Most recent clicks across all URLs
//	@Tags		analytics
//	@Produce	json
//	@Param		limit	query		int	false	"Number of clicks (default 10)"
//	@Success	200		{object}	response.SuccessResponse
//	@Router		/api/v1/analytics/recent [get]
func (h *AnalyticsHandler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	activity, err := h.clicks.Recent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Fail("Internal server error"))
		return
	}

	c.JSON(http.StatusOK, response.OK(activity))
}
