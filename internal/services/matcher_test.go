package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiring-engine/internal/models"
	"hiring-engine/internal/repositories"
)

type fakeResumeRepo struct {
	resume *models.Resume
	err    error
}

func (f *fakeResumeRepo) Create(*models.Resume) error { return nil }
func (f *fakeResumeRepo) FindByID(uuid.UUID) (*models.Resume, error) {
	return f.resume, f.err
}
func (f *fakeResumeRepo) List(*uuid.UUID, models.Pagination) ([]models.Resume, int64, error) {
	return nil, 0, nil
}
func (f *fakeResumeRepo) Update(*models.Resume) error { return nil }
func (f *fakeResumeRepo) Delete(uuid.UUID) error      { return nil }

type fakeJDRepo struct {
	jd             *models.JobDescription
	err            error
	applicantCalls int
}

func (f *fakeJDRepo) Create(*models.JobDescription) error { return nil }
func (f *fakeJDRepo) FindByID(uuid.UUID) (*models.JobDescription, error) {
	return f.jd, f.err
}
func (f *fakeJDRepo) List(repositories.JDFilter, models.Pagination) ([]models.JobDescription, int64, error) {
	return nil, 0, nil
}
func (f *fakeJDRepo) Update(*models.JobDescription) error { return nil }
func (f *fakeJDRepo) Delete(uuid.UUID) error              { return nil }
func (f *fakeJDRepo) IncrementViews(uuid.UUID) error      { return nil }
func (f *fakeJDRepo) IncrementApplicants(uuid.UUID) error {
	f.applicantCalls++
	return nil
}

type fakeMatchRepo struct {
	created     bool
	err         error
	upsertCalls int
	lastUpsert  *models.MatchResult
}

func (f *fakeMatchRepo) Upsert(match *models.MatchResult) (bool, error) {
	f.upsertCalls++
	f.lastUpsert = match
	return f.created, f.err
}
func (f *fakeMatchRepo) FindByID(uuid.UUID) (*models.MatchResult, error) { return nil, nil }
func (f *fakeMatchRepo) FindByPair(uuid.UUID, uuid.UUID) (*models.MatchResult, error) {
	return nil, nil
}
func (f *fakeMatchRepo) List(repositories.MatchFilter, models.Pagination) ([]models.MatchResult, int64, error) {
	return nil, 0, nil
}
func (f *fakeMatchRepo) ListByJob(uuid.UUID) ([]models.MatchResult, error) { return nil, nil }
func (f *fakeMatchRepo) Update(*models.MatchResult) error                  { return nil }
func (f *fakeMatchRepo) Delete(uuid.UUID) error                            { return nil }

type fakeMLClient struct {
	matchResult  *MatchScoreResult
	matchErr     error
	gap          *models.GapAnalysis
	improveErr   error
	questions    []models.InterviewQuestion
	interviewErr error
}

func (f *fakeMLClient) ParseResume(context.Context, string, string, string) (*models.ParseResumeData, error) {
	return nil, nil
}
func (f *fakeMLClient) ParseJD(context.Context, string, string, string) (*models.JobData, error) {
	return nil, nil
}
func (f *fakeMLClient) Match(context.Context, models.ResumeData, models.JobData) (*MatchScoreResult, error) {
	return f.matchResult, f.matchErr
}
func (f *fakeMLClient) Improve(context.Context, models.ResumeData, models.JobData, models.MatchDetails) (*models.GapAnalysis, error) {
	return f.gap, f.improveErr
}
func (f *fakeMLClient) Interview(context.Context, models.ResumeData, models.JobData) ([]models.InterviewQuestion, error) {
	return f.questions, f.interviewErr
}

func matcherFixtures() (*fakeResumeRepo, *fakeJDRepo, *fakeMatchRepo, *fakeMLClient) {
	resumeRepo := &fakeResumeRepo{
		resume: &models.Resume{
			ID:         uuid.New(),
			ParsedData: models.ResumeData{Name: "Ada Lovelace", Skills: []string{"Go"}},
		},
	}
	jdRepo := &fakeJDRepo{
		jd: &models.JobDescription{
			ID:         uuid.New(),
			Title:      "Backend Engineer",
			ParsedData: models.JobData{RequiredSkills: []string{"Go", "SQL"}},
		},
	}
	matchRepo := &fakeMatchRepo{created: true}
	ml := &fakeMLClient{
		matchResult: &MatchScoreResult{
			FitScore:     85,
			MatchDetails: models.MatchDetails{MatchedSkills: []string{"Go"}},
		},
		gap:       &models.GapAnalysis{Recommendations: []string{"Learn SQL"}},
		questions: []models.InterviewQuestion{{Question: "Why Go?", Category: "technical", Difficulty: "medium"}},
	}
	return resumeRepo, jdRepo, matchRepo, ml
}

func TestMatchCandidates(t *testing.T) {
	resumeRepo, jdRepo, matchRepo, ml := matcherFixtures()
	matcher := NewMatcherService(resumeRepo, jdRepo, matchRepo, ml)

	match, err := matcher.MatchCandidates(context.Background(), resumeRepo.resume.ID, jdRepo.jd.ID)
	require.NoError(t, err)

	assert.Equal(t, 85.0, match.FitScore)
	assert.Equal(t, models.MatchStatusNew, match.Status)
	assert.Equal(t, []string{"Learn SQL"}, match.GapAnalysis.Recommendations)
	assert.Len(t, match.InterviewQuestions, 1)
	assert.Equal(t, 1, matchRepo.upsertCalls)
	assert.Equal(t, 1, jdRepo.applicantCalls)
}

func TestMatchCandidatesRematchSkipsApplicantCount(t *testing.T) {
	resumeRepo, jdRepo, matchRepo, ml := matcherFixtures()
	matchRepo.created = false
	matcher := NewMatcherService(resumeRepo, jdRepo, matchRepo, ml)

	_, err := matcher.MatchCandidates(context.Background(), resumeRepo.resume.ID, jdRepo.jd.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, matchRepo.upsertCalls)
	assert.Equal(t, 0, jdRepo.applicantCalls, "re-matching an existing pair must not move the applicant count")
}

func TestMatchCandidatesStepFailureLeavesNothingPersisted(t *testing.T) {
	resumeRepo, jdRepo, matchRepo, ml := matcherFixtures()
	ml.improveErr = &UpstreamCallError{Endpoint: "/improve", StatusCode: 500, Message: "model overloaded"}
	matcher := NewMatcherService(resumeRepo, jdRepo, matchRepo, ml)

	_, err := matcher.MatchCandidates(context.Background(), resumeRepo.resume.ID, jdRepo.jd.ID)
	require.Error(t, err)

	var callErr *UpstreamCallError
	assert.ErrorAs(t, err, &callErr)
	assert.Equal(t, 0, matchRepo.upsertCalls)
	assert.Equal(t, 0, jdRepo.applicantCalls)
}

func TestMatchCandidatesMissingResume(t *testing.T) {
	resumeRepo, jdRepo, matchRepo, ml := matcherFixtures()
	resumeRepo.resume = nil
	resumeRepo.err = repositories.ErrNotFound
	matcher := NewMatcherService(resumeRepo, jdRepo, matchRepo, ml)

	_, err := matcher.MatchCandidates(context.Background(), uuid.New(), jdRepo.jd.ID)
	require.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Equal(t, 0, matchRepo.upsertCalls)
}
