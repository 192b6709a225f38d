package models

import (
	"time"

	"github.com/google/uuid"
)

type JDStatus string

const (
	JDStatusDraft  JDStatus = "draft"
	JDStatusActive JDStatus = "active"
	JDStatusClosed JDStatus = "closed"
	JDStatusOnHold JDStatus = "on-hold"
)

// JobData holds the structured fields the ML service extracts from a job
// description. Stored as a single jsonb document.
type JobData struct {
	RequiredSkills   []string `json:"requiredSkills,omitempty"`
	OptionalSkills   []string `json:"optionalSkills,omitempty"`
	Keywords         []string `json:"keywords,omitempty"`
	Seniority        string   `json:"seniority,omitempty"`
	Experience       string   `json:"experience,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
	Qualifications   []string `json:"qualifications,omitempty"`
	Benefits         []string `json:"benefits,omitempty"`
}

type SalaryRange struct {
	Min      float64 `json:"min,omitempty"`
	Max      float64 `json:"max,omitempty"`
	Currency string  `json:"currency,omitempty"`
}

type JobDescription struct {
	ID             uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID         *uuid.UUID  `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Title          string      `gorm:"type:text;not null" json:"title"`
	Company        string      `gorm:"type:text;not null" json:"company"`
	Location       string      `gorm:"type:text" json:"location,omitempty"`
	Department     string      `gorm:"type:text" json:"department,omitempty"`
	EmploymentType string      `gorm:"type:text;default:'Full-time'" json:"employment_type"`
	SalaryRange    SalaryRange `gorm:"type:jsonb;serializer:json" json:"salary_range"`
	Description    string      `gorm:"type:text;not null" json:"description"`
	ParsedData     JobData     `gorm:"type:jsonb;serializer:json" json:"parsed_data"`
	Status         JDStatus    `gorm:"type:text;not null;default:'active';index" json:"status"`
	Applicants     int64       `gorm:"not null;default:0" json:"applicants"`
	Views          int64       `gorm:"not null;default:0" json:"views"`
	Tags           []string    `gorm:"type:jsonb;serializer:json" json:"tags,omitempty"`
	Deadline       *time.Time  `json:"deadline,omitempty"`
	CreatedAt      time.Time   `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (JobDescription) TableName() string {
	return "job_descriptions"
}
