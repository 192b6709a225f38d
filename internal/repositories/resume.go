package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hiring-engine/internal/models"
)

type ResumeRepository interface {
	Create(resume *models.Resume) error
	FindByID(id uuid.UUID) (*models.Resume, error)
	List(userID *uuid.UUID, page models.Pagination) ([]models.Resume, int64, error)
	Update(resume *models.Resume) error
	Delete(id uuid.UUID) error
}

type resumeRepository struct {
	db *gorm.DB
}

func NewResumeRepository(db *gorm.DB) ResumeRepository {
	return &resumeRepository{db: db}
}

// Create implements ResumeRepository.
func (r *resumeRepository) Create(resume *models.Resume) error {
	if err := r.db.Create(resume).Error; err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

// FindByID implements ResumeRepository.
func (r *resumeRepository) FindByID(id uuid.UUID) (*models.Resume, error) {
	var resume models.Resume
	if err := r.db.Where("id = ?", id).First(&resume).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find resume: %w", err)
	}
	return &resume, nil
}

// List implements ResumeRepository. The extracted text column is large and
// excluded from listings; it stays available on single-record fetches.
func (r *resumeRepository) List(userID *uuid.UUID, page models.Pagination) ([]models.Resume, int64, error) {
	query := r.db.Model(&models.Resume{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count resumes: %w", err)
	}

	var resumes []models.Resume
	err := query.
		Omit("extracted_text").
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&resumes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list resumes: %w", err)
	}

	return resumes, total, nil
}

// Update implements ResumeRepository.
func (r *resumeRepository) Update(resume *models.Resume) error {
	if err := r.db.Save(resume).Error; err != nil {
		return fmt.Errorf("failed to update resume: %w", err)
	}
	return nil
}

// Delete implements ResumeRepository.
func (r *resumeRepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.Resume{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete resume: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
