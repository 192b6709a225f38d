package handlers

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hiring-engine/internal/apperrors"
	"hiring-engine/internal/models"
	"hiring-engine/internal/repositories"
)

var validate = validator.New()

// parseBody decodes and validates a JSON request body.
func parseBody(c *fiber.Ctx, dest interface{}) error {
	if err := c.BodyParser(dest); err != nil {
		return apperrors.Validation("Invalid request payload")
	}
	if err := validate.Struct(dest); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return apperrors.Validation("Invalid field: " + fieldErrs[0].Field())
		}
		return apperrors.Validation("Invalid request payload")
	}
	return nil
}

// parseIDParam parses the :id path parameter.
func parseIDParam(c *fiber.Ctx, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperrors.Validation("Invalid " + what + " ID format")
	}
	return id, nil
}

// parsePagination reads the uniform page/limit query parameters.
func parsePagination(c *fiber.Ctx) models.Pagination {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(models.DefaultPageLimit)))
	return models.Pagination{Page: page, Limit: limit}.Normalize()
}

// notFoundOr maps a repository error to the 404 taxonomy entry, or wraps
// it as a persistence failure.
func notFoundOr(err error, notFoundMessage, failureMessage string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound(notFoundMessage)
	}
	return apperrors.Persistence(failureMessage, err)
}

// ownerID returns the requester's user id, or nil on unauthenticated
// routes.
func ownerID(user *models.User) *uuid.UUID {
	if user == nil {
		return nil
	}
	id := user.ID
	return &id
}
