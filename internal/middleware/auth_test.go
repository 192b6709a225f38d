package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiring-engine/internal/apperrors"
	"hiring-engine/internal/config"
	"hiring-engine/internal/models"
	"hiring-engine/internal/repositories"
	"hiring-engine/internal/services"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUserRepo) Create(*models.User) error { return nil }
func (f *fakeUserRepo) FindByID(id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}
func (f *fakeUserRepo) FindByEmail(string) (*models.User, error) {
	return nil, repositories.ErrNotFound
}

func newAuthTestApp(t *testing.T, user *models.User) (*fiber.App, services.TokenService) {
	t.Helper()

	tokens, err := services.NewTokenService(config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})
	require.NoError(t, err)

	users := &fakeUserRepo{users: map[uuid.UUID]*models.User{}}
	if user != nil {
		users.users[user.ID] = user
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			appErr := apperrors.From(err)
			return c.Status(appErr.Status).JSON(fiber.Map{"success": false, "error": appErr.Message})
		},
	})

	app.Get("/protected", AuthRequired(tokens, users), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"email": CurrentUser(c).Email})
	})
	app.Get("/recruiter", AuthRequired(tokens, users), RequireRecruiter(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/admin", AuthRequired(tokens, users), RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app, tokens
}

func authGet(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set(fiber.HeaderAuthorization, authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthRequiredMissingHeader(t *testing.T) {
	app, _ := newAuthTestApp(t, nil)

	resp := authGet(t, app, "/protected", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequiredMalformedHeader(t *testing.T) {
	app, _ := newAuthTestApp(t, nil)

	for _, header := range []string{"Bearer", "Basic abc123", "Bearer too many parts"} {
		resp := authGet(t, app, "/protected", header)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "header %q", header)
	}
}

func TestAuthRequiredInvalidToken(t *testing.T) {
	app, _ := newAuthTestApp(t, nil)

	resp := authGet(t, app, "/protected", "Bearer not.a.jwt")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequiredUnknownUser(t *testing.T) {
	app, tokens := newAuthTestApp(t, nil)

	token, err := tokens.GenerateToken(uuid.New())
	require.NoError(t, err)

	resp := authGet(t, app, "/protected", "Bearer "+token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequiredValidToken(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "ada@example.com", Role: models.RoleUser, IsActive: true}
	app, tokens := newAuthTestApp(t, user)

	token, err := tokens.GenerateToken(user.ID)
	require.NoError(t, err)

	resp := authGet(t, app, "/protected", "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthRequiredDeactivatedUser(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "gone@example.com", Role: models.RoleUser, IsActive: false}
	app, tokens := newAuthTestApp(t, user)

	token, err := tokens.GenerateToken(user.ID)
	require.NoError(t, err)

	resp := authGet(t, app, "/protected", "Bearer "+token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRecruiter(t *testing.T) {
	tests := []struct {
		role models.UserRole
		want int
	}{
		{models.RoleUser, fiber.StatusForbidden},
		{models.RoleRecruiter, fiber.StatusOK},
		{models.RoleAdmin, fiber.StatusOK},
	}

	for _, tt := range tests {
		user := &models.User{ID: uuid.New(), Email: "r@example.com", Role: tt.role, IsActive: true}
		app, tokens := newAuthTestApp(t, user)

		token, err := tokens.GenerateToken(user.ID)
		require.NoError(t, err)

		resp := authGet(t, app, "/recruiter", "Bearer "+token)
		assert.Equal(t, tt.want, resp.StatusCode, "role %s", tt.role)
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		role models.UserRole
		want int
	}{
		{models.RoleUser, fiber.StatusForbidden},
		{models.RoleRecruiter, fiber.StatusForbidden},
		{models.RoleAdmin, fiber.StatusOK},
	}

	for _, tt := range tests {
		user := &models.User{ID: uuid.New(), Email: "a@example.com", Role: tt.role, IsActive: true}
		app, tokens := newAuthTestApp(t, user)

		token, err := tokens.GenerateToken(user.ID)
		require.NoError(t, err)

		resp := authGet(t, app, "/admin", "Bearer "+token)
		assert.Equal(t, tt.want, resp.StatusCode, "role %s", tt.role)
	}
}
