package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shortly/config"
	"shortly/internal/response"
	"shortly/internal/service"
)

type URLHandler struct {
	urls   *service.URLService
	clicks *service.ClickService
	cfg    *config.Config
}

func NewURLHandler(urls *service.URLService, clicks *service.ClickService, cfg *config.Config) *URLHandler {
	return &URLHandler{
		urls:   urls,
		clicks: clicks,
		cfg:    cfg,
	}
}

type CreateURLRequest struct {
	URL         string `json:"url" binding:"required"`
	CustomAlias string `json:"customAlias"`
	ExpiresIn   *int64 `json:"expiresIn" binding:"omitempty,gt=0"`
}

type UpdateURLRequest struct {
	Active *bool `json:"active"`
}

// Create godoc
//
//	@Summary		Shorten a URL
//	@Description	Creates a short code for the given URL, optionally with a custom alias and expiry in seconds
//	@Tags			urls
//	@Accept			json
//	@Produce		json
//	@Param			url	body		CreateURLRequest	true	"URL to shorten"
//	@Success		201	{object}	response.SuccessResponse{data=response.URLCreatedResponse}
//	@Failure		400	{object}	response.ErrorResponse
//	@Failure		500	{object}	response.ErrorResponse
//	@Router			/api/v1/urls [post]
func (h *URLHandler) Create(c *gin.Context) {
	var req CreateURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail(bindErrorMessage(err)))
		return
	}

	var userID *uuid.UUID
	if id, ok := currentUserID(c); ok {
		userID = &id
	}

	u, err := h.urls.Create(req.URL, req.CustomAlias, req.ExpiresIn, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidURL):
			c.JSON(http.StatusBadRequest, response.Fail("Invalid URL: only http and https targets are accepted"))
		case errors.Is(err, service.ErrInvalidAlias):
			c.JSON(http.StatusBadRequest, response.Fail("Invalid custom alias format"))
		case errors.Is(err, service.ErrAliasTaken):
			c.JSON(http.StatusBadRequest, response.Fail("Custom alias already taken"))
		default:
			c.JSON(http.StatusInternalServerError, response.Fail("Internal server error"))
		}
		return
	}

	c.JSON(http.StatusCreated, response.SuccessResponse{
		Success: true,
		Data: response.URLCreatedResponse{
			ShortCode:   u.ShortCode,
			ShortURL:    h.shortURL(u.ShortCode),
			OriginalURL: u.OriginalURL,
			CreatedAt:   u.CreatedAt,
			ExpiresAt:   u.ExpiresAt,
		},
		Message: "URL shortened successfully",
	})
}

// Redirect godoc
//
//	@Summary		Redirect to the original URL
//	@Tags			urls
//	@Produce		json
//	@Param			shortCode	path	string	true	"Short code"
//	@Success		301
//	@Failure		404	{object}	response.ErrorResponse
//	@Router			/{shortCode} [get]
func (h *URLHandler) Redirect(c *gin.Context) {
	code := c.Param("shortCode")

	u, err := h.urls.Resolve(code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExpired):
			c.JSON(http.StatusNotFound, response.Fail("URL has expired"))
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, response.Fail("URL not found"))
		default:
			c.JSON(http.StatusInternalServerError, response.Fail("Internal server error"))
		}
		return
	}

	ip := c.ClientIP()
	userAgent := c.Request.UserAgent()
	referrer := c.Request.Referer()

	// Analytics must never delay or fail the redirect.
	go h.clicks.Record(u.ID, ip, userAgent, referrer)

	c.Redirect(http.StatusMovedPermanently, u.OriginalURL)
}

// Get godoc
//
//	@Summary	URL details with aggregate click count
//	@Tags		urls
//	@Produce	json
//	@Param		shortCode	path		string	true	"Short code"
//	@Success	200			{object}	response.SuccessResponse{data=response.URLDetailsResponse}
//	@Failure	404			{object}	response.ErrorResponse
//	@Router		/api/v1/urls/{shortCode} [get]
func (h *URLHandler) Get(c *gin.Context) {
	code := c.Param("shortCode")

	stats, err := h.urls.Details(code)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, response.Fail("URL not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Fail("Internal server error"))
		return
	}

	c.JSON(http.StatusOK, response.OK(response.URLDetailsResponse{
		ShortCode:   stats.ShortCode,
		ShortURL:    h.shortURL(stats.ShortCode),
		OriginalURL: stats.OriginalURL,
		CreatedAt:   stats.CreatedAt,
		ExpiresAt:   stats.ExpiresAt,
		IsActive:    stats.Active,
		TotalClicks: stats.TotalClicks,
		LastClicked: stats.LastClicked,
	}))
}

// List godoc
//
//	@Summary	List the caller's URLs
//	@Security	BearerAuth
//	@Tags		urls
//	@Produce	json
//	@Param		page	query		int	false	"Page number"
//	@Param		limit	query		int	false	"Page size"
//	@Success	200		{object}	response.SuccessResponse{data=[]response.URLListItem}
//	@Failure	401		{object}	response.ErrorResponse
//	@Router		/api/v1/urls [get]
func (h *URLHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Fail("Authentication required"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	urls, total, err := h.urls.ListForUser(userID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Fail("Internal server error"))
		return
	}

	items := make([]response.URLListItem, 0, len(urls))
	for _, u := range urls {
		items = append(items, response.URLListItem{
			ShortCode:   u.ShortCode,
			ShortURL:    h.shortURL(u.ShortCode),
			OriginalURL: u.OriginalURL,
			CreatedAt:   u.CreatedAt,
			ExpiresAt:   u.ExpiresAt,
			IsActive:    u.Active,
		})
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	c.JSON(http.StatusOK, response.SuccessResponse{
		Success: true,
		Data:    items,
		Pagination: response.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int((total + int64(limit) - 1) / int64(limit)),
		},
	})
}

// Update godoc
//
//	@Summary	Update mutable fields of a URL
//	@Security	BearerAuth
//	@Tags		urls
//	@Accept		json
//	@Produce	json
//	@Param		shortCode	path		string				true	"Short code"
//	@Param		url			body		UpdateURLRequest	true	"Fields to update"
//	@Success	200			{object}	response.SuccessResponse{data=response.URLUpdatedResponse}
//	@Failure	403			{object}	response.ErrorResponse
//	@Failure	404			{object}	response.ErrorResponse
//	@Router		/api/v1/urls/{shortCode} [put]
func (h *URLHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Fail("Authentication required"))
		return
	}

	var req UpdateURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail(bindErrorMessage(err)))
		return
	}

	u, err := h.urls.Update(c.Param("shortCode"), userID, req.Active)
	if err != nil {
		h.writeModifyError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse{
		Success: true,
		Data: response.URLUpdatedResponse{
			ShortCode: u.ShortCode,
			IsActive:  u.Active,
		},
		Message: "URL updated successfully",
	})
}

// Delete godoc
//
//	@Summary	Soft-delete a URL
//	@Security	BearerAuth
//	@Tags		urls
//	@Produce	json
//	@Param		shortCode	path		string	true	"Short code"
//	@Success	200			{object}	response.SuccessResponse
//	@Failure	403			{object}	response.ErrorResponse
//	@Failure	404			{object}	response.ErrorResponse
//	@Router		/api/v1/urls/{shortCode} [delete]
func (h *URLHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Fail("Authentication required"))
		return
	}

	if err := h.urls.Delete(c.Param("shortCode"), userID); err != nil {
		h.writeModifyError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse{
		Success: true,
		Message: "URL deleted successfully",
	})
}

func (h *URLHandler) writeModifyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Fail("URL not found"))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, response.Fail("You don't have permission to modify this URL"))
	default:
		c.JSON(http.StatusInternalServerError, response.Fail("Internal server error"))
	}
}

func (h *URLHandler) shortURL(code string) string {
	return strings.TrimRight(h.cfg.BaseURL, "/") + "/" + code
}
