package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hiring-engine/internal/models"
)

type JDFilter struct {
	UserID *uuid.UUID
	Status models.JDStatus
	Search string
}

type JobDescriptionRepository interface {
	Create(jd *models.JobDescription) error
	FindByID(id uuid.UUID) (*models.JobDescription, error)
	List(filter JDFilter, page models.Pagination) ([]models.JobDescription, int64, error)
	Update(jd *models.JobDescription) error
	Delete(id uuid.UUID) error
	IncrementViews(id uuid.UUID) error
	IncrementApplicants(id uuid.UUID) error
}

type jobDescriptionRepository struct {
	db *gorm.DB
}

func NewJobDescriptionRepository(db *gorm.DB) JobDescriptionRepository {
	return &jobDescriptionRepository{db: db}
}

// Create implements JobDescriptionRepository.
func (r *jobDescriptionRepository) Create(jd *models.JobDescription) error {
	if err := r.db.Create(jd).Error; err != nil {
		return fmt.Errorf("failed to create job description: %w", err)
	}
	return nil
}

// FindByID implements JobDescriptionRepository.
func (r *jobDescriptionRepository) FindByID(id uuid.UUID) (*models.JobDescription, error) {
	var jd models.JobDescription
	if err := r.db.Where("id = ?", id).First(&jd).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find job description: %w", err)
	}
	return &jd, nil
}

// List implements JobDescriptionRepository. Search matches title or company
// case-insensitively.
func (r *jobDescriptionRepository) List(filter JDFilter, page models.Pagination) ([]models.JobDescription, int64, error) {
	query := r.db.Model(&models.JobDescription{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR company ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count job descriptions: %w", err)
	}

	var jds []models.JobDescription
	err := query.
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&jds).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list job descriptions: %w", err)
	}

	return jds, total, nil
}

// Update implements JobDescriptionRepository.
func (r *jobDescriptionRepository) Update(jd *models.JobDescription) error {
	if err := r.db.Save(jd).Error; err != nil {
		return fmt.Errorf("failed to update job description: %w", err)
	}
	return nil
}

// Delete implements JobDescriptionRepository.
func (r *jobDescriptionRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.JobDescription{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete job description: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementViews bumps the view counter atomically in SQL so concurrent
// reads cannot lose updates.
func (r *jobDescriptionRepository) IncrementViews(id uuid.UUID) error {
	result := r.db.Model(&models.JobDescription{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment views: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementApplicants bumps the applicant counter atomically. The match
// orchestrator calls it only when the upsert inserted a new pair, so the
// counter tracks distinct resumes matched against the job.
func (r *jobDescriptionRepository) IncrementApplicants(id uuid.UUID) error {
	result := r.db.Model(&models.JobDescription{}).
		Where("id = ?", id).
		UpdateColumn("applicants", gorm.Expr("applicants + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment applicants: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
