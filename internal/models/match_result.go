package models

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchStatusNew         MatchStatus = "new"
	MatchStatusReviewed    MatchStatus = "reviewed"
	MatchStatusShortlisted MatchStatus = "shortlisted"
	MatchStatusRejected    MatchStatus = "rejected"
	MatchStatusInterviewed MatchStatus = "interviewed"
	MatchStatusOffered     MatchStatus = "offered"
)

// ValidMatchStatus reports whether s is one of the recruiter workflow
// states a match can be moved to.
func ValidMatchStatus(s MatchStatus) bool {
	switch s {
	case MatchStatusNew, MatchStatusReviewed, MatchStatusShortlisted,
		MatchStatusRejected, MatchStatusInterviewed, MatchStatusOffered:
		return true
	}
	return false
}

type MatchDetails struct {
	MatchedSkills   []string       `json:"matchedSkills,omitempty"`
	MissingSkills   []string       `json:"missingSkills,omitempty"`
	SkillOverlap    float64        `json:"skillOverlap,omitempty"`
	ExperienceMatch string         `json:"experienceMatch,omitempty"`
	SeniorityMatch  bool           `json:"seniorityMatch,omitempty"`
	MatchBreakdown  MatchBreakdown `json:"matchBreakdown,omitempty"`
}

type MatchBreakdown struct {
	SkillScore      float64 `json:"skillScore,omitempty"`
	ExperienceScore float64 `json:"experienceScore,omitempty"`
	EducationScore  float64 `json:"educationScore,omitempty"`
	OverallScore    float64 `json:"overallScore,omitempty"`
}

type GapAnalysis struct {
	Recommendations      []string `json:"recommendations,omitempty"`
	ImprovementAreas     []string `json:"improvementAreas,omitempty"`
	LearningPath         []string `json:"learningPath,omitempty"`
	EstimatedTimeToReady string   `json:"estimatedTimeToReady,omitempty"`
}

type InterviewQuestion struct {
	Question   string `json:"question"`
	Category   string `json:"category,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

type MatchFeedback struct {
	RecruiterRating int    `json:"recruiterRating,omitempty"`
	Comments        string `json:"comments,omitempty"`
}

// MatchResult joins one résumé and one job description. The composite
// unique index keeps at most one row per pair; the orchestrator upserts
// against it.
type MatchResult struct {
	ID                 uuid.UUID           `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ResumeID           uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_match_resume_jd,priority:1" json:"resume_id"`
	JobDescriptionID   uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_match_resume_jd,priority:2" json:"job_description_id"`
	FitScore           float64             `gorm:"not null;index" json:"fit_score"`
	MatchDetails       MatchDetails        `gorm:"type:jsonb;serializer:json" json:"match_details"`
	GapAnalysis        GapAnalysis         `gorm:"type:jsonb;serializer:json" json:"gap_analysis"`
	InterviewQuestions []InterviewQuestion `gorm:"type:jsonb;serializer:json" json:"interview_questions"`
	RecruiterNotes     string              `gorm:"type:text" json:"recruiter_notes,omitempty"`
	Status             MatchStatus         `gorm:"type:text;not null;default:'new';index" json:"status"`
	Ranking            int                 `json:"ranking,omitempty"`
	Feedback           MatchFeedback       `gorm:"type:jsonb;serializer:json" json:"feedback"`
	CreatedAt          time.Time           `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time           `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Resume         *Resume         `gorm:"foreignKey:ResumeID" json:"resume,omitempty"`
	JobDescription *JobDescription `gorm:"foreignKey:JobDescriptionID" json:"job_description,omitempty"`
}

func (MatchResult) TableName() string {
	return "match_results"
}
