package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"hiring-engine/internal/apperrors"
	"hiring-engine/internal/middleware"
	"hiring-engine/internal/models"
	"hiring-engine/internal/repositories"
	"hiring-engine/internal/services"
)

type AuthHandler struct {
	userRepo repositories.UserRepository
	tokens   services.TokenService
}

func NewAuthHandler(userRepo repositories.UserRepository, tokens services.TokenService) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// HandleRegister handles POST /api/auth/register
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if _, err := h.userRepo.FindByEmail(req.Email); err == nil {
		return &apperrors.Error{
			Status:  fiber.StatusConflict,
			Message: "Email is already registered",
		}
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return apperrors.Persistence("Failed to register user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Persistence("Failed to register user", err)
	}

	role := models.RoleUser
	if req.Role != "" {
		role = models.UserRole(req.Role)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := h.userRepo.Create(user); err != nil {
		return apperrors.Persistence("Failed to register user", err)
	}

	token, err := h.tokens.GenerateToken(user.ID)
	if err != nil {
		return apperrors.Persistence("Failed to issue token", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// HandleLogin handles POST /api/auth/login
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.userRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.Auth("Invalid email or password")
		}
		return apperrors.Persistence("Failed to log in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return apperrors.Auth("Invalid email or password")
	}

	if !user.IsActive {
		return apperrors.Auth("User account is deactivated")
	}

	token, err := h.tokens.GenerateToken(user.ID)
	if err != nil {
		return apperrors.Persistence("Failed to issue token", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// HandleMe handles GET /api/auth/me
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return apperrors.Auth("No authentication token, access denied")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}
