package response

import (
	"time"

	"shortly/internal/repository"
)

// Every success body wraps its payload under "data"; every error body is
// {"success":false,"error":"..."}.

type SuccessResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination interface{} `json:"pagination,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func OK(data interface{}) SuccessResponse {
	return SuccessResponse{Success: true, Data: data}
}

func Fail(msg string) ErrorResponse {
	return ErrorResponse{Success: false, Error: msg}
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type OffsetPagination struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}

type URLCreatedResponse struct {
	ShortCode   string     `json:"shortCode"`
	ShortURL    string     `json:"shortUrl"`
	OriginalURL string     `json:"originalUrl"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

type URLDetailsResponse struct {
	ShortCode   string     `json:"shortCode"`
	ShortURL    string     `json:"shortUrl"`
	OriginalURL string     `json:"originalUrl"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	IsActive    bool       `json:"isActive"`
	TotalClicks int64      `json:"totalClicks"`
	LastClicked *time.Time `json:"lastClicked,omitempty"`
}

type URLListItem struct {
	ShortCode   string     `json:"shortCode"`
	ShortURL    string     `json:"shortUrl"`
	OriginalURL string     `json:"originalUrl"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	IsActive    bool       `json:"isActive"`
}

type URLUpdatedResponse struct {
	ShortCode string `json:"shortCode"`
	IsActive  bool   `json:"isActive"`
}

type StatsResponse struct {
	TotalClicks  int64                      `json:"totalClicks"`
	ClicksByDay  []repository.DayCount      `json:"clicksByDay"`
	TopReferrers []repository.ReferrerCount `json:"topReferrers"`
	TopCountries []repository.CountryCount  `json:"topCountries"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}
