package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"hiring-engine/internal/models"
	"hiring-engine/internal/repositories"
)

// MatcherService runs the match orchestration workflow: three sequential
// ML calls followed by a single upsert. Nothing is persisted unless every
// step succeeds.
type MatcherService interface {
	MatchCandidates(ctx context.Context, resumeID, jobDescriptionID uuid.UUID) (*models.MatchResult, error)
}

type matcherService struct {
	resumeRepo repositories.ResumeRepository
	jdRepo     repositories.JobDescriptionRepository
	matchRepo  repositories.MatchResultRepository
	mlClient   MLClient
}

func NewMatcherService(
	resumeRepo repositories.ResumeRepository,
	jdRepo repositories.JobDescriptionRepository,
	matchRepo repositories.MatchResultRepository,
	mlClient MLClient,
) MatcherService {
	return &matcherService{
		resumeRepo: resumeRepo,
		jdRepo:     jdRepo,
		matchRepo:  matchRepo,
		mlClient:   mlClient,
	}
}

// MatchCandidates implements MatcherService.
func (m *matcherService) MatchCandidates(ctx context.Context, resumeID, jobDescriptionID uuid.UUID) (*models.MatchResult, error) {
	resume, err := m.resumeRepo.FindByID(resumeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load resume: %w", err)
	}

	jd, err := m.jdRepo.FindByID(jobDescriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job description: %w", err)
	}

	// Step 1: fit score + structured match breakdown
	log.Printf("🔄 Matching resume %s against job %s\n", resumeID, jobDescriptionID)
	score, err := m.mlClient.Match(ctx, resume.ParsedData, jd.ParsedData)
	if err != nil {
		return nil, fmt.Errorf("match step failed: %w", err)
	}

	// Step 2: gap analysis, fed by the match breakdown
	log.Println("🔄 Requesting gap analysis...")
	gap, err := m.mlClient.Improve(ctx, resume.ParsedData, jd.ParsedData, score.MatchDetails)
	if err != nil {
		return nil, fmt.Errorf("gap analysis step failed: %w", err)
	}

	// Step 3: interview questions
	log.Println("🔄 Generating interview questions...")
	questions, err := m.mlClient.Interview(ctx, resume.ParsedData, jd.ParsedData)
	if err != nil {
		return nil, fmt.Errorf("interview step failed: %w", err)
	}

	match := &models.MatchResult{
		ResumeID:           resumeID,
		JobDescriptionID:   jobDescriptionID,
		FitScore:           score.FitScore,
		MatchDetails:       score.MatchDetails,
		GapAnalysis:        *gap,
		InterviewQuestions: questions,
		Status:             models.MatchStatusNew,
	}

	created, err := m.matchRepo.Upsert(match)
	if err != nil {
		return nil, fmt.Errorf("failed to persist match: %w", err)
	}

	// The applicant counter tracks distinct resumes matched against the
	// job, so it moves only on the first insert of a pair.
	if created {
		if err := m.jdRepo.IncrementApplicants(jobDescriptionID); err != nil {
			return nil, fmt.Errorf("failed to update applicant count: %w", err)
		}
	}

	log.Printf("✅ Match completed: %s (fit score %.1f)\n", match.ID, match.FitScore)
	return match, nil
}
