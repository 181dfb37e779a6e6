package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shortly/internal/response"
	"shortly/internal/service"
)

type AuthHandler struct {
	users *service.UserService
}

func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{
		users: users,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register godoc
//
//	@Summary		Register a new user
//	@Description	Creates an account and returns a bearer token
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			user	body		RegisterRequest	true	"Credentials"
//	@Success		201		{object}	response.SuccessResponse{data=response.AuthResponse}
//	@Failure		400		{object}	response.ErrorResponse
//	@Failure		500		{object}	response.ErrorResponse
//	@Router			/api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail(bindErrorMessage(err)))
		return
	}

	user, token, err := h.users.Register(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			c.JSON(http.StatusBadRequest, response.Fail("Email already registered"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Fail("Internal server error"))
		return
	}

	c.JSON(http.StatusCreated, response.SuccessResponse{
		Success: true,
		Data: response.AuthResponse{
			User: response.UserResponse{
				ID:        user.ID.String(),
				Email:     user.Email,
				CreatedAt: user.CreatedAt,
			},
			Token: token,
		},
		Message: "User registered successfully",
	})
}

// Login godoc
//
//	@Summary	Log in
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		user	body		LoginRequest	true	"Credentials"
//	@Success	200		{object}	response.SuccessResponse{data=response.AuthResponse}
//	@Failure	400		{object}	response.ErrorResponse
//	@Failure	401		{object}	response.ErrorResponse
//	@Router		/api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Fail(bindErrorMessage(err)))
		return
	}

	user, token, err := h.users.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, response.Fail("Invalid email or password"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Fail("Internal server error"))
		return
	}

	c.JSON(http.StatusOK, response.SuccessResponse{
		Success: true,
		Data: response.AuthResponse{
			User: response.UserResponse{
				ID:        user.ID.String(),
				Email:     user.Email,
				CreatedAt: user.CreatedAt,
			},
			Token: token,
		},
		Message: "Login successful",
	})
}

// Me godoc
//
//	@Summary	Current user identity
//	@Security	BearerAuth
//	@Tags		auth
//	@Produce	json
//	@Success	200	{object}	response.SuccessResponse{data=response.UserResponse}
//	@Failure	401	{object}	response.ErrorResponse
//	@Router		/api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Fail("Authentication required"))
		return
	}

	user, err := h.users.Current(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Fail("User not found"))
		return
	}

	c.JSON(http.StatusOK, response.OK(response.UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}))
}
