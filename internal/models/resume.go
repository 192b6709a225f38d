package models

import (
	"time"

	"github.com/google/uuid"
)

type ResumeStatus string

const (
	ResumeStatusPending ResumeStatus = "pending"
	ResumeStatusParsed  ResumeStatus = "parsed"
	ResumeStatusFailed  ResumeStatus = "failed"
)

// ResumeData holds the structured fields the ML service extracts from an
// uploaded résumé. Stored as a single jsonb document.
type ResumeData struct {
	Name                 string       `json:"name,omitempty"`
	Email                string       `json:"email,omitempty"`
	Phone                string       `json:"phone,omitempty"`
	Skills               []string     `json:"skills,omitempty"`
	Experience           []Experience `json:"experience,omitempty"`
	Education            []Education  `json:"education,omitempty"`
	Certifications       []string     `json:"certifications,omitempty"`
	Seniority            string       `json:"seniority,omitempty"`
	TotalYearsExperience float64      `json:"totalYearsExperience,omitempty"`
	Summary              string       `json:"summary,omitempty"`
	Languages            []string     `json:"languages,omitempty"`
	Projects             []Project    `json:"projects,omitempty"`
}

type Experience struct {
	Company     string `json:"company,omitempty"`
	Role        string `json:"role,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
}

type Education struct {
	Degree      string `json:"degree,omitempty"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
	Field       string `json:"field,omitempty"`
}

type Project struct {
	Name         string   `json:"name,omitempty"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

type Resume struct {
	ID            uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID        *uuid.UUID   `gorm:"type:uuid;index" json:"user_id,omitempty"`
	FileName      string       `gorm:"type:text;not null" json:"file_name"`
	FilePath      string       `gorm:"type:text;not null" json:"file_path"`
	FileSize      int64        `json:"file_size"`
	FileType      string       `gorm:"type:text" json:"file_type"`
	ExtractedText string       `gorm:"type:text" json:"extracted_text,omitempty"`
	ParsedData    ResumeData   `gorm:"type:jsonb;serializer:json" json:"parsed_data"`
	Status        ResumeStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	Tags          []string     `gorm:"type:jsonb;serializer:json" json:"tags,omitempty"`
	Notes         string       `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Resume) TableName() string {
	return "resumes"
}
