package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fuelbuddy/fuelbuddy-api/internal/dto"
	apierrors "github.com/fuelbuddy/fuelbuddy-api/internal/errors"
	"github.com/fuelbuddy/fuelbuddy-api/internal/models"
	"github.com/fuelbuddy/fuelbuddy-api/internal/repository"
)

type UserHandler struct {
	users repository.UserRepository
}

func NewUserHandler(users repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// CreateUser registers a user. The ID is caller-supplied because it
// originates from the external identity provider.
func (h *UserHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		ID    string `json:"id" binding:"required"`
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"required,email"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if _, err := h.users.FindByEmail(req.Email); err == nil {
		apierrors.Conflict(c, "User with this email already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		apierrors.InternalError(c, "Failed to create user")
		return
	}

	if _, err := h.users.FindByID(req.ID); err == nil {
		apierrors.Conflict(c, "User already registered")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		apierrors.InternalError(c, "Failed to create user")
		return
	}

	user := models.User{
		ID:    req.ID,
		Name:  req.Name,
		Email: req.Email,
	}

	if err := h.users.Create(&user); err != nil {
		apierrors.InternalError(c, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(user))
}

// ListUsers returns all users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// GetUser returns a user by ID
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.users.FindByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "User not found")
		} else {
			apierrors.InternalError(c, "Failed to fetch user")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// GetUserByEmail returns a user by exact email match
func (h *UserHandler) GetUserByEmail(c *gin.Context) {
	user, err := h.users.FindByEmail(c.Param("email"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "User not found")
		} else {
			apierrors.InternalError(c, "Failed to fetch user")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
