package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiring-engine/internal/apperrors"
	"hiring-engine/internal/models"
	"hiring-engine/internal/repositories"
	"hiring-engine/internal/services"
)

type fakeMatcher struct {
	match *models.MatchResult
	err   error
}

func (f *fakeMatcher) MatchCandidates(context.Context, uuid.UUID, uuid.UUID) (*models.MatchResult, error) {
	return f.match, f.err
}

type fakeMatchRepo struct {
	matches []models.MatchResult
	byID    *models.MatchResult
	err     error
	updated *models.MatchResult
}

func (f *fakeMatchRepo) Upsert(*models.MatchResult) (bool, error) { return false, nil }
func (f *fakeMatchRepo) FindByID(uuid.UUID) (*models.MatchResult, error) {
	if f.byID == nil {
		return nil, repositories.ErrNotFound
	}
	return f.byID, nil
}
func (f *fakeMatchRepo) FindByPair(uuid.UUID, uuid.UUID) (*models.MatchResult, error) {
	return nil, repositories.ErrNotFound
}
func (f *fakeMatchRepo) List(repositories.MatchFilter, models.Pagination) ([]models.MatchResult, int64, error) {
	return f.matches, int64(len(f.matches)), f.err
}
func (f *fakeMatchRepo) ListByJob(uuid.UUID) ([]models.MatchResult, error) {
	return f.matches, f.err
}
func (f *fakeMatchRepo) Update(match *models.MatchResult) error {
	f.updated = match
	return nil
}
func (f *fakeMatchRepo) Delete(uuid.UUID) error { return f.err }

func newHandlerTestApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			appErr := apperrors.From(err)
			return c.Status(appErr.Status).JSON(fiber.Map{"success": false, "error": appErr.Message})
		},
	})
}

func postJSONRequest(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope
}

func TestHandleMatch(t *testing.T) {
	match := &models.MatchResult{
		ID:                 uuid.New(),
		FitScore:           91,
		MatchDetails:       models.MatchDetails{MatchedSkills: []string{"Go"}},
		GapAnalysis:        models.GapAnalysis{Recommendations: []string{"Learn SQL"}},
		InterviewQuestions: []models.InterviewQuestion{{Question: "Why Go?"}},
	}
	handler := NewMatchHandler(&fakeMatcher{match: match}, &fakeMatchRepo{})

	app := newHandlerTestApp()
	app.Post("/api/match", handler.HandleMatch)

	resp := postJSONRequest(t, app, "/api/match", models.MatchRequest{
		ResumeID:         uuid.NewString(),
		JobDescriptionID: uuid.NewString(),
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, match.ID.String(), envelope["matchId"])

	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, 91.0, data["fitScore"])
}

func TestHandleMatchMissingIDs(t *testing.T) {
	handler := NewMatchHandler(&fakeMatcher{}, &fakeMatchRepo{})

	app := newHandlerTestApp()
	app.Post("/api/match", handler.HandleMatch)

	resp := postJSONRequest(t, app, "/api/match", models.MatchRequest{ResumeID: uuid.NewString()})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "Resume ID and Job Description ID are required", envelope["error"])
}

func TestHandleMatchInvalidUUID(t *testing.T) {
	handler := NewMatchHandler(&fakeMatcher{}, &fakeMatchRepo{})

	app := newHandlerTestApp()
	app.Post("/api/match", handler.HandleMatch)

	resp := postJSONRequest(t, app, "/api/match", models.MatchRequest{
		ResumeID:         "not-a-uuid",
		JobDescriptionID: uuid.NewString(),
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleMatchUnknownPair(t *testing.T) {
	handler := NewMatchHandler(&fakeMatcher{err: repositories.ErrNotFound}, &fakeMatchRepo{})

	app := newHandlerTestApp()
	app.Post("/api/match", handler.HandleMatch)

	resp := postJSONRequest(t, app, "/api/match", models.MatchRequest{
		ResumeID:         uuid.NewString(),
		JobDescriptionID: uuid.NewString(),
	})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, "Resume or Job Description not found", envelope["error"])
}

func TestHandleMatchUpstreamFailure(t *testing.T) {
	upstream := &services.UpstreamCallError{Endpoint: "/match", StatusCode: 503, Message: "overloaded"}
	handler := NewMatchHandler(&fakeMatcher{err: upstream}, &fakeMatchRepo{})

	app := newHandlerTestApp()
	app.Post("/api/match", handler.HandleMatch)

	resp := postJSONRequest(t, app, "/api/match", models.MatchRequest{
		ResumeID:         uuid.NewString(),
		JobDescriptionID: uuid.NewString(),
	})
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.Equal(t, "Failed to match candidates", envelope["error"])
}

func TestHandleUpdateMatchRejectsBadStatus(t *testing.T) {
	existing := &models.MatchResult{ID: uuid.New(), Status: models.MatchStatusNew}
	repo := &fakeMatchRepo{byID: existing}
	handler := NewMatchHandler(&fakeMatcher{}, repo)

	app := newHandlerTestApp()
	app.Put("/api/matches/:id", handler.HandleUpdateMatch)

	status := models.MatchStatus("archived")
	body, err := json.Marshal(models.UpdateMatchRequest{Status: &status})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/matches/"+existing.ID.String(), bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, repo.updated)
}

func TestHandleUpdateMatchStatus(t *testing.T) {
	existing := &models.MatchResult{ID: uuid.New(), Status: models.MatchStatusNew}
	repo := &fakeMatchRepo{byID: existing}
	handler := NewMatchHandler(&fakeMatcher{}, repo)

	app := newHandlerTestApp()
	app.Put("/api/matches/:id", handler.HandleUpdateMatch)

	status := models.MatchStatusShortlisted
	body, err := json.Marshal(models.UpdateMatchRequest{Status: &status})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/matches/"+existing.ID.String(), bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, repo.updated)
	assert.Equal(t, models.MatchStatusShortlisted, repo.updated.Status)
}
