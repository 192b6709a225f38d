package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"hiring-engine/internal/config"
	"hiring-engine/internal/models"
)

// MLClient talks to the external ML service that owns resume/JD parsing,
// fit scoring, gap analysis and interview question generation.
type MLClient interface {
	ParseResume(ctx context.Context, filePath, originalName, contentType string) (*models.ParseResumeData, error)
	ParseJD(ctx context.Context, title, company, description string) (*models.JobData, error)
	Match(ctx context.Context, resume models.ResumeData, jd models.JobData) (*MatchScoreResult, error)
	Improve(ctx context.Context, resume models.ResumeData, jd models.JobData, details models.MatchDetails) (*models.GapAnalysis, error)
	Interview(ctx context.Context, resume models.ResumeData, jd models.JobData) ([]models.InterviewQuestion, error)
}

type MatchScoreResult struct {
	FitScore     float64             `json:"fitScore"`
	MatchDetails models.MatchDetails `json:"matchDetails"`
}

// UpstreamCallError carries the upstream endpoint and HTTP status so the
// error envelope can pass them through.
type UpstreamCallError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *UpstreamCallError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("ML service %s returned %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("ML service %s failed: %s", e.Endpoint, e.Message)
}

// Transient reports whether the failure is worth retrying: timeouts,
// connection errors and 5xx/429 responses.
func (e *UpstreamCallError) Transient() bool {
	if e.StatusCode == 0 {
		return true
	}
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

type mlClient struct {
	baseURL      string
	timeout      time.Duration
	parseTimeout time.Duration
	maxAttempts  int
	initialDelay time.Duration
	httpClient   *http.Client
}

func NewMLClient(cfg config.MLConfig) MLClient {
	return &mlClient{
		baseURL:      cfg.BaseURL,
		timeout:      cfg.Timeout,
		parseTimeout: cfg.ParseTimeout,
		maxAttempts:  cfg.RetryMaxAttempts,
		initialDelay: cfg.RetryInitialDelay,
		httpClient:   &http.Client{},
	}
}

// ParseResume implements MLClient. The uploaded file is streamed to the
// ML service as multipart form data under the "resume" field.
func (c *mlClient) ParseResume(ctx context.Context, filePath, originalName, contentType string) (*models.ParseResumeData, error) {
	var result models.ParseResumeData
	err := c.callWithRetry(ctx, "/parse-resume", func(ctx context.Context) error {
		return c.postFile(ctx, "/parse-resume", filePath, originalName, &result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ParseJD implements MLClient.
func (c *mlClient) ParseJD(ctx context.Context, title, company, description string) (*models.JobData, error) {
	payload := map[string]string{
		"title":       title,
		"company":     company,
		"description": description,
	}

	var response struct {
		ParsedData models.JobData `json:"parsedData"`
	}
	err := c.callWithRetry(ctx, "/parse-jd", func(ctx context.Context) error {
		return c.postJSON(ctx, "/parse-jd", payload, &response)
	})
	if err != nil {
		return nil, err
	}
	return &response.ParsedData, nil
}

// Match implements MLClient.
func (c *mlClient) Match(ctx context.Context, resume models.ResumeData, jd models.JobData) (*MatchScoreResult, error) {
	payload := map[string]interface{}{
		"resume":         resume,
		"jobDescription": jd,
	}

	var result MatchScoreResult
	err := c.callWithRetry(ctx, "/match", func(ctx context.Context) error {
		return c.postJSON(ctx, "/match", payload, &result)
	})
	if err != nil {
		return nil, err
	}
	if result.FitScore < 0 || result.FitScore > 100 {
		return nil, &UpstreamCallError{
			Endpoint: "/match",
			Message:  fmt.Sprintf("fit score out of range: %.2f", result.FitScore),
		}
	}
	return &result, nil
}

// Improve implements MLClient. The response body is the gap-analysis
// object itself.
func (c *mlClient) Improve(ctx context.Context, resume models.ResumeData, jd models.JobData, details models.MatchDetails) (*models.GapAnalysis, error) {
	payload := map[string]interface{}{
		"resume":         resume,
		"jobDescription": jd,
		"matchDetails":   details,
	}

	var result models.GapAnalysis
	err := c.callWithRetry(ctx, "/improve", func(ctx context.Context) error {
		return c.postJSON(ctx, "/improve", payload, &result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// interviewQuestion tolerates both bare strings and structured objects in
// the questions array.
type interviewQuestion models.InterviewQuestion

func (q *interviewQuestion) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		q.Question = s
		return nil
	}

	var obj models.InterviewQuestion
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*q = interviewQuestion(obj)
	return nil
}

// Interview implements MLClient. Missing category/difficulty default to
// "technical"/"medium".
func (c *mlClient) Interview(ctx context.Context, resume models.ResumeData, jd models.JobData) ([]models.InterviewQuestion, error) {
	payload := map[string]interface{}{
		"resume":         resume,
		"jobDescription": jd,
	}

	var response struct {
		Questions []interviewQuestion `json:"questions"`
	}
	err := c.callWithRetry(ctx, "/interview", func(ctx context.Context) error {
		return c.postJSON(ctx, "/interview", payload, &response)
	})
	if err != nil {
		return nil, err
	}

	questions := make([]models.InterviewQuestion, 0, len(response.Questions))
	for _, q := range response.Questions {
		question := models.InterviewQuestion(q)
		if question.Category == "" {
			question.Category = "technical"
		}
		if question.Difficulty == "" {
			question.Difficulty = "medium"
		}
		questions = append(questions, question)
	}
	return questions, nil
}

// callWithRetry runs the call with bounded retry and exponential backoff
// on transient upstream failures. Non-transient failures and context
// cancellation abort immediately.
func (c *mlClient) callWithRetry(ctx context.Context, endpoint string, call func(ctx context.Context) error) error {
	if c.baseURL == "" {
		return &UpstreamCallError{Endpoint: endpoint, Message: "ML_SERVICE_URL is not configured"}
	}

	attempts := c.maxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := c.initialDelay
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		err := call(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		var callErr *UpstreamCallError
		if !errors.As(err, &callErr) || !callErr.Transient() {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		if attempt == attempts {
			break
		}

		log.Printf("⚠️  ML call %s failed (attempt %d/%d): %v, retrying in %v\n",
			endpoint, attempt, attempts, err, delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return lastErr
		}
		delay *= 2
	}

	return lastErr
}

func (c *mlClient) postJSON(ctx context.Context, endpoint string, payload, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, endpoint, result)
}

func (c *mlClient) postFile(ctx context.Context, endpoint, filePath, originalName string, result interface{}) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("resume", filepath.Base(originalName))
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize form: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.parseTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req, endpoint, result)
}

func (c *mlClient) do(req *http.Request, endpoint string, result interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamCallError{Endpoint: endpoint, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &UpstreamCallError{Endpoint: endpoint, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UpstreamCallError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(body),
		}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return &UpstreamCallError{
			Endpoint: endpoint,
			Message:  fmt.Sprintf("malformed response payload: %v", err),
		}
	}

	return nil
}

// upstreamMessage extracts the error field from an upstream error body,
// falling back to the raw body.
func upstreamMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	if len(body) > 256 {
		body = body[:256]
	}
	return string(body)
}
