package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hiring-engine/internal/models"
)

type StatusCount struct {
	Status models.MatchStatus `json:"status"`
	Count  int64              `json:"count"`
}

type ScoreStats struct {
	AvgScore float64 `json:"avgScore"`
	MaxScore float64 `json:"maxScore"`
	MinScore float64 `json:"minScore"`
}

type SkillDemand struct {
	Skill string `json:"skill"`
	Count int64  `json:"count"`
}

type ActivityBucket struct {
	Day      string  `json:"day"`
	Count    int64   `json:"count"`
	AvgScore float64 `json:"avgScore"`
}

// DashboardRepository serves the read-only reporting queries. Pure query
// composition, no mutation.
type DashboardRepository interface {
	CountResumes(userID *uuid.UUID) (int64, error)
	CountJobDescriptions(userID *uuid.UUID, status models.JDStatus) (int64, error)
	CountMatches() (int64, error)
	RecentMatches(limit int) ([]models.MatchResult, error)
	TopCandidates(limit int) ([]models.MatchResult, error)
	StatusDistribution() ([]StatusCount, error)
	FitScoreStats() (*ScoreStats, error)
	SkillsDemand(limit int) ([]SkillDemand, error)
	ActivityTimeline(days int) ([]ActivityBucket, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

// CountResumes implements DashboardRepository.
func (r *dashboardRepository) CountResumes(userID *uuid.UUID) (int64, error) {
	query := r.db.Model(&models.Resume{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count resumes: %w", err)
	}
	return count, nil
}

// CountJobDescriptions implements DashboardRepository.
func (r *dashboardRepository) CountJobDescriptions(userID *uuid.UUID, status models.JDStatus) (int64, error) {
	query := r.db.Model(&models.JobDescription{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count job descriptions: %w", err)
	}
	return count, nil
}

// CountMatches implements DashboardRepository.
func (r *dashboardRepository) CountMatches() (int64, error) {
	var count int64
	if err := r.db.Model(&models.MatchResult{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

// RecentMatches implements DashboardRepository.
func (r *dashboardRepository) RecentMatches(limit int) ([]models.MatchResult, error) {
	var matches []models.MatchResult
	err := r.db.
		Preload("Resume", func(db *gorm.DB) *gorm.DB {
			return db.Omit("extracted_text")
		}).
		Preload("JobDescription").
		Order("created_at DESC").
		Limit(limit).
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent matches: %w", err)
	}
	return matches, nil
}

// TopCandidates implements DashboardRepository.
func (r *dashboardRepository) TopCandidates(limit int) ([]models.MatchResult, error) {
	var matches []models.MatchResult
	err := r.db.
		Preload("Resume", func(db *gorm.DB) *gorm.DB {
			return db.Omit("extracted_text")
		}).
		Preload("JobDescription").
		Order("fit_score DESC").
		Limit(limit).
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top candidates: %w", err)
	}
	return matches, nil
}

// StatusDistribution implements DashboardRepository.
func (r *dashboardRepository) StatusDistribution() ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.Model(&models.MatchResult{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute status distribution: %w", err)
	}
	return counts, nil
}

// FitScoreStats implements DashboardRepository. Returns zeroes when no
// matches exist.
func (r *dashboardRepository) FitScoreStats() (*ScoreStats, error) {
	var stats ScoreStats
	err := r.db.Model(&models.MatchResult{}).
		Select("COALESCE(AVG(fit_score), 0) AS avg_score, COALESCE(MAX(fit_score), 0) AS max_score, COALESCE(MIN(fit_score), 0) AS min_score").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute fit score stats: %w", err)
	}
	return &stats, nil
}

// SkillsDemand implements DashboardRepository. Unnests the jsonb
// requiredSkills arrays across all job descriptions.
func (r *dashboardRepository) SkillsDemand(limit int) ([]SkillDemand, error) {
	var demand []SkillDemand
	err := r.db.Raw(`
		SELECT skill, COUNT(*) AS count
		FROM job_descriptions,
		     jsonb_array_elements_text(parsed_data->'requiredSkills') AS skill
		GROUP BY skill
		ORDER BY count DESC, skill ASC
		LIMIT ?`, limit).Scan(&demand).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute skills demand: %w", err)
	}
	return demand, nil
}

// ActivityTimeline implements DashboardRepository. Buckets matches by
// calendar day over the trailing window, newest day first.
func (r *dashboardRepository) ActivityTimeline(days int) ([]ActivityBucket, error) {
	var buckets []ActivityBucket
	err := r.db.Raw(`
		SELECT to_char(created_at::date, 'YYYY-MM-DD') AS day,
		       COUNT(*) AS count,
		       AVG(fit_score) AS avg_score
		FROM match_results
		WHERE created_at >= CURRENT_DATE - (? - 1) * INTERVAL '1 day'
		GROUP BY created_at::date
		ORDER BY created_at::date DESC`, days).Scan(&buckets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute activity timeline: %w", err)
	}
	return buckets, nil
}
