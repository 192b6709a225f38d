package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"hiring-engine/internal/apperrors"
	"hiring-engine/internal/middleware"
	"hiring-engine/internal/models"
	"hiring-engine/internal/repositories"
)

type DashboardHandler struct {
	dashboardRepo repositories.DashboardRepository
	jdRepo        repositories.JobDescriptionRepository
	matchRepo     repositories.MatchResultRepository
}

func NewDashboardHandler(
	dashboardRepo repositories.DashboardRepository,
	jdRepo repositories.JobDescriptionRepository,
	matchRepo repositories.MatchResultRepository,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardRepo: dashboardRepo,
		jdRepo:        jdRepo,
		matchRepo:     matchRepo,
	}
}

// ScoreDistribution partitions fit scores into disjoint buckets:
// excellent >=80, 60<=good<80, 40<=fair<60, poor<40.
type ScoreDistribution struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Fair      int `json:"fair"`
	Poor      int `json:"poor"`
}

// BucketScores computes the score distribution over a set of matches.
func BucketScores(matches []models.MatchResult) ScoreDistribution {
	var dist ScoreDistribution
	for _, m := range matches {
		switch {
		case m.FitScore >= 80:
			dist.Excellent++
		case m.FitScore >= 60:
			dist.Good++
		case m.FitScore >= 40:
			dist.Fair++
		default:
			dist.Poor++
		}
	}
	return dist
}

// HandleGetDashboard handles GET /api/dashboard
func (h *DashboardHandler) HandleGetDashboard(c *fiber.Ctx) error {
	userID := ownerID(middleware.CurrentUser(c))

	totalResumes, err := h.dashboardRepo.CountResumes(userID)
	if err != nil {
		return apperrors.Persistence("Failed to fetch dashboard data", err)
	}
	totalJDs, err := h.dashboardRepo.CountJobDescriptions(userID, "")
	if err != nil {
		return apperrors.Persistence("Failed to fetch dashboard data", err)
	}
	activeJDs, err := h.dashboardRepo.CountJobDescriptions(userID, models.JDStatusActive)
	if err != nil {
		return apperrors.Persistence("Failed to fetch dashboard data", err)
	}
	totalMatches, err := h.dashboardRepo.CountMatches()
	if err != nil {
		return apperrors.Persistence("Failed to fetch dashboard data", err)
	}

	recentMatches, err := h.dashboardRepo.RecentMatches(10)
	if err != nil {
		return apperrors.Persistence("Failed to fetch dashboard data", err)
	}
	topCandidates, err := h.dashboardRepo.TopCandidates(20)
	if err != nil {
		return apperrors.Persistence("Failed to fetch dashboard data", err)
	}
	statusDistribution, err := h.dashboardRepo.StatusDistribution()
	if err != nil {
		return apperrors.Persistence("Failed to fetch dashboard data", err)
	}
	scoreStats, err := h.dashboardRepo.FitScoreStats()
	if err != nil {
		return apperrors.Persistence("Failed to fetch dashboard data", err)
	}
	skillsDemand, err := h.dashboardRepo.SkillsDemand(10)
	if err != nil {
		return apperrors.Persistence("Failed to fetch dashboard data", err)
	}
	recentActivity, err := h.dashboardRepo.ActivityTimeline(7)
	if err != nil {
		return apperrors.Persistence("Failed to fetch dashboard data", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats": fiber.Map{
			"totalResumes": totalResumes,
			"totalJDs":     totalJDs,
			"totalMatches": totalMatches,
			"activeJDs":    activeJDs,
		},
		"recentMatches":      recentMatches,
		"topCandidates":      topCandidates,
		"statusDistribution": statusDistribution,
		"avgFitScore":        scoreStats,
		"skillsDemand":       skillsDemand,
		"recentActivity":     recentActivity,
	})
}

// HandleGetJobAnalytics handles GET /api/dashboard/job/:id
func (h *DashboardHandler) HandleGetJobAnalytics(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "job description")
	if err != nil {
		return err
	}

	jd, err := h.jdRepo.FindByID(id)
	if err != nil {
		return notFoundOr(err, "Job description not found", "Failed to fetch job analytics")
	}

	matches, err := h.matchRepo.ListByJob(id)
	if err != nil {
		return apperrors.Persistence("Failed to fetch job analytics", err)
	}

	totalApplicants := len(matches)
	var avgFitScore float64
	if totalApplicants > 0 {
		var sum float64
		for _, m := range matches {
			sum += m.FitScore
		}
		avgFitScore = sum / float64(totalApplicants)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"job":     jd,
		"analytics": fiber.Map{
			"totalApplicants":   totalApplicants,
			"avgFitScore":       fmt.Sprintf("%.2f", avgFitScore),
			"scoreDistribution": BucketScores(matches),
			"matches":           matches,
		},
	})
}
