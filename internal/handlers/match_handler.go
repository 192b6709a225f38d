package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hiring-engine/internal/apperrors"
	"hiring-engine/internal/models"
	"hiring-engine/internal/repositories"
	"hiring-engine/internal/services"
)

type MatchHandler struct {
	matcher   services.MatcherService
	matchRepo repositories.MatchResultRepository
}

func NewMatchHandler(matcher services.MatcherService, matchRepo repositories.MatchResultRepository) *MatchHandler {
	return &MatchHandler{
		matcher:   matcher,
		matchRepo: matchRepo,
	}
}

// HandleMatch handles POST /api/match: one orchestration run for the
// given (resume, job) pair.
func (h *MatchHandler) HandleMatch(c *fiber.Ctx) error {
	var req models.MatchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("Invalid request payload")
	}
	if req.ResumeID == "" || req.JobDescriptionID == "" {
		return apperrors.Validation("Resume ID and Job Description ID are required")
	}

	resumeID, err := uuid.Parse(req.ResumeID)
	if err != nil {
		return apperrors.Validation("Invalid resume ID format")
	}
	jdID, err := uuid.Parse(req.JobDescriptionID)
	if err != nil {
		return apperrors.Validation("Invalid job description ID format")
	}

	match, err := h.matcher.MatchCandidates(c.Context(), resumeID, jdID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("Resume or Job Description not found")
		}
		var upstreamErr *services.UpstreamCallError
		if errors.As(err, &upstreamErr) {
			return apperrors.Upstream("Failed to match candidates", err)
		}
		return apperrors.Persistence("Failed to match candidates", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"matchId": match.ID,
		"data": models.MatchData{
			FitScore:           match.FitScore,
			MatchDetails:       match.MatchDetails,
			GapAnalysis:        match.GapAnalysis,
			InterviewQuestions: match.InterviewQuestions,
		},
	})
}

// HandleGetMatches handles GET /api/matches
func (h *MatchHandler) HandleGetMatches(c *fiber.Ctx) error {
	var filter repositories.MatchFilter

	if raw := c.Query("resumeId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperrors.Validation("Invalid resume ID format")
		}
		filter.ResumeID = &id
	}
	if raw := c.Query("jobDescriptionId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperrors.Validation("Invalid job description ID format")
		}
		filter.JobDescriptionID = &id
	}
	if raw := c.Query("minScore"); raw != "" {
		minScore, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return apperrors.Validation("Invalid minScore value")
		}
		filter.MinScore = &minScore
	}
	filter.Status = models.MatchStatus(c.Query("status"))
	page := parsePagination(c)

	matches, total, err := h.matchRepo.List(filter, page)
	if err != nil {
		return apperrors.Persistence("Failed to fetch matches", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   total,
		"page":    page.Page,
		"limit":   page.Limit,
		"matches": matches,
	})
}

// HandleGetMatch handles GET /api/matches/:id
func (h *MatchHandler) HandleGetMatch(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "match")
	if err != nil {
		return err
	}

	match, err := h.matchRepo.FindByID(id)
	if err != nil {
		return notFoundOr(err, "Match not found", "Failed to fetch match")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    match,
	})
}

// HandleUpdateMatch handles PUT /api/matches/:id: the recruiter workflow
// fields (status, notes, feedback).
func (h *MatchHandler) HandleUpdateMatch(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "match")
	if err != nil {
		return err
	}

	var req models.UpdateMatchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("Invalid request payload")
	}

	match, err := h.matchRepo.FindByID(id)
	if err != nil {
		return notFoundOr(err, "Match not found", "Failed to fetch match")
	}

	if req.Status != nil {
		if !models.ValidMatchStatus(*req.Status) {
			return apperrors.Validation("Invalid match status")
		}
		match.Status = *req.Status
	}
	if req.RecruiterNotes != nil {
		match.RecruiterNotes = *req.RecruiterNotes
	}
	if req.Feedback != nil {
		if req.Feedback.RecruiterRating < 0 || req.Feedback.RecruiterRating > 5 {
			return apperrors.Validation("Recruiter rating must be between 1 and 5")
		}
		match.Feedback = *req.Feedback
	}

	if err := h.matchRepo.Update(match); err != nil {
		return apperrors.Persistence("Failed to update match", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    match,
	})
}

// HandleDeleteMatch handles DELETE /api/matches/:id
func (h *MatchHandler) HandleDeleteMatch(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "match")
	if err != nil {
		return err
	}

	if err := h.matchRepo.Delete(id); err != nil {
		return notFoundOr(err, "Match not found", "Failed to delete match")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Match deleted successfully",
	})
}
