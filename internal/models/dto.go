package models

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=user recruiter"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type ParseJDRequest struct {
	Title          string      `json:"title" validate:"required"`
	Company        string      `json:"company" validate:"required"`
	Description    string      `json:"description" validate:"required"`
	Location       string      `json:"location"`
	Department     string      `json:"department"`
	EmploymentType string      `json:"employmentType" validate:"omitempty,oneof=Full-time Part-time Contract Internship Freelance"`
	SalaryRange    SalaryRange `json:"salaryRange"`
	Deadline       string      `json:"deadline"`
}

type MatchRequest struct {
	ResumeID         string `json:"resumeId" validate:"required,uuid"`
	JobDescriptionID string `json:"jobDescriptionId" validate:"required,uuid"`
}

type UpdateResumeRequest struct {
	Tags  *[]string `json:"tags"`
	Notes *string   `json:"notes"`
}

type UpdateJDRequest struct {
	Title          *string      `json:"title"`
	Company        *string      `json:"company"`
	Location       *string      `json:"location"`
	Department     *string      `json:"department"`
	EmploymentType *string      `json:"employmentType"`
	SalaryRange    *SalaryRange `json:"salaryRange"`
	Description    *string      `json:"description"`
	Status         *JDStatus    `json:"status"`
	Tags           *[]string    `json:"tags"`
}

type UpdateMatchRequest struct {
	Status         *MatchStatus   `json:"status"`
	RecruiterNotes *string        `json:"recruiterNotes"`
	Feedback       *MatchFeedback `json:"feedback"`
}

// Pagination is the uniform offset pagination applied to every list
// endpoint. Limit is capped at MaxPageLimit.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Normalize clamps the pagination to sane bounds.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// MatchData is the payload section of a successful orchestration response.
type MatchData struct {
	FitScore           float64             `json:"fitScore"`
	MatchDetails       MatchDetails        `json:"matchDetails"`
	GapAnalysis        GapAnalysis         `json:"gapAnalysis"`
	InterviewQuestions []InterviewQuestion `json:"interviewQuestions"`
}

type ParseResumeData struct {
	ExtractedText string     `json:"extractedText"`
	ParsedData    ResumeData `json:"parsedData"`
}
