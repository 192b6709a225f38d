package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hiring-engine/internal/models"
)

type MatchFilter struct {
	ResumeID         *uuid.UUID
	JobDescriptionID *uuid.UUID
	Status           models.MatchStatus
	MinScore         *float64
}

type MatchResultRepository interface {
	// Upsert writes the match keyed on its (resume, job) pair and reports
	// whether a new row was inserted rather than an existing one refreshed.
	Upsert(match *models.MatchResult) (created bool, err error)
	FindByID(id uuid.UUID) (*models.MatchResult, error)
	FindByPair(resumeID, jobDescriptionID uuid.UUID) (*models.MatchResult, error)
	List(filter MatchFilter, page models.Pagination) ([]models.MatchResult, int64, error)
	ListByJob(jobDescriptionID uuid.UUID) ([]models.MatchResult, error)
	Update(match *models.MatchResult) error
	Delete(id uuid.UUID) error
}

type matchResultRepository struct {
	db *gorm.DB
}

func NewMatchResultRepository(db *gorm.DB) MatchResultRepository {
	return &matchResultRepository{db: db}
}

// Upsert implements MatchResultRepository. The insert races through the
// unique (resume_id, job_description_id) index: DoNothing on conflict, then
// the zero-rows outcome tells us an existing row must be refreshed in place.
func (r *matchResultRepository) Upsert(match *models.MatchResult) (bool, error) {
	if match.ID == uuid.Nil {
		match.ID = uuid.New()
	}

	result := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "resume_id"},
			{Name: "job_description_id"},
		},
		DoNothing: true,
	}).Create(match)
	if result.Error != nil {
		return false, fmt.Errorf("failed to upsert match result: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	// Pair already exists. Overwrite score, details, gap analysis and
	// questions in place; recruiter workflow fields are preserved.
	existing, err := r.FindByPair(match.ResumeID, match.JobDescriptionID)
	if err != nil {
		return false, err
	}

	updates := map[string]interface{}{
		"fit_score":           match.FitScore,
		"match_details":       match.MatchDetails,
		"gap_analysis":        match.GapAnalysis,
		"interview_questions": match.InterviewQuestions,
		"updated_at":          time.Now(),
	}
	if err := r.db.Model(&models.MatchResult{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
		return false, fmt.Errorf("failed to refresh match result: %w", err)
	}

	match.ID = existing.ID
	match.Status = existing.Status
	match.RecruiterNotes = existing.RecruiterNotes
	match.Feedback = existing.Feedback
	match.CreatedAt = existing.CreatedAt
	return false, nil
}

// FindByID implements MatchResultRepository.
func (r *matchResultRepository) FindByID(id uuid.UUID) (*models.MatchResult, error) {
	var match models.MatchResult
	err := r.db.
		Preload("Resume").
		Preload("JobDescription").
		Where("id = ?", id).
		First(&match).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find match: %w", err)
	}
	return &match, nil
}

// FindByPair implements MatchResultRepository.
func (r *matchResultRepository) FindByPair(resumeID, jobDescriptionID uuid.UUID) (*models.MatchResult, error) {
	var match models.MatchResult
	err := r.db.
		Where("resume_id = ? AND job_description_id = ?", resumeID, jobDescriptionID).
		First(&match).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find match: %w", err)
	}
	return &match, nil
}

// List implements MatchResultRepository. Results are ordered best fit
// first, newest first on ties.
func (r *matchResultRepository) List(filter MatchFilter, page models.Pagination) ([]models.MatchResult, int64, error) {
	query := r.db.Model(&models.MatchResult{})
	if filter.ResumeID != nil {
		query = query.Where("resume_id = ?", *filter.ResumeID)
	}
	if filter.JobDescriptionID != nil {
		query = query.Where("job_description_id = ?", *filter.JobDescriptionID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.MinScore != nil {
		query = query.Where("fit_score >= ?", *filter.MinScore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count matches: %w", err)
	}

	var matches []models.MatchResult
	err := query.
		Preload("Resume", func(db *gorm.DB) *gorm.DB {
			return db.Omit("extracted_text")
		}).
		Preload("JobDescription").
		Order("fit_score DESC, created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&matches).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list matches: %w", err)
	}

	return matches, total, nil
}

// ListByJob implements MatchResultRepository. Unpaginated: job analytics
// needs the full score population to bucket it.
func (r *matchResultRepository) ListByJob(jobDescriptionID uuid.UUID) ([]models.MatchResult, error) {
	var matches []models.MatchResult
	err := r.db.
		Preload("Resume", func(db *gorm.DB) *gorm.DB {
			return db.Omit("extracted_text")
		}).
		Where("job_description_id = ?", jobDescriptionID).
		Order("fit_score DESC").
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for job: %w", err)
	}
	return matches, nil
}

// Update implements MatchResultRepository.
func (r *matchResultRepository) Update(match *models.MatchResult) error {
	if err := r.db.Omit(clause.Associations).Save(match).Error; err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}
	return nil
}

// Delete implements MatchResultRepository.
func (r *matchResultRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.MatchResult{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete match: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
