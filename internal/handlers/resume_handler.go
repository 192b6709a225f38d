package handlers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"hiring-engine/internal/apperrors"
	"hiring-engine/internal/middleware"
	"hiring-engine/internal/models"
	"hiring-engine/internal/repositories"
	"hiring-engine/internal/services"
)

type ResumeHandler struct {
	resumeRepo  repositories.ResumeRepository
	storage     services.StorageService
	extractor   services.TextExtractorService
	mlClient    services.MLClient
	maxFileSize int64
}

func NewResumeHandler(
	resumeRepo repositories.ResumeRepository,
	storage services.StorageService,
	extractor services.TextExtractorService,
	mlClient services.MLClient,
	maxFileSize int64,
) *ResumeHandler {
	return &ResumeHandler{
		resumeRepo:  resumeRepo,
		storage:     storage,
		extractor:   extractor,
		mlClient:    mlClient,
		maxFileSize: maxFileSize,
	}
}

// HandleParseResume handles POST /api/parse-resume. The uploaded file is
// stored locally, sanity-checked, then shipped to the ML service for
// parsing. Any downstream failure removes the stored file so no orphaned
// uploads accumulate.
func (h *ResumeHandler) HandleParseResume(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil || file == nil {
		return apperrors.Validation("No file uploaded")
	}

	if file.Size > h.maxFileSize {
		return apperrors.Validation(fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize))
	}

	filename, filePath, err := h.storage.SaveFile(file)
	if err != nil {
		return apperrors.Validation("Invalid file. Please upload a PDF or DOCX resume.")
	}

	cleanup := func() {
		if err := h.storage.DeleteFile(filename); err != nil {
			log.Printf("⚠️  Failed to clean up uploaded file %s: %v\n", filename, err)
		}
	}

	// Reject corrupt or empty documents before paying for an ML call.
	localText, err := h.extractor.ExtractText(filePath)
	if err != nil {
		cleanup()
		return apperrors.Validation("Uploaded file is unreadable or contains no text")
	}

	parsed, err := h.mlClient.ParseResume(c.Context(), filePath, file.Filename, file.Header.Get(fiber.HeaderContentType))
	if err != nil {
		cleanup()
		return apperrors.Upstream("Failed to parse resume", err)
	}

	extractedText := parsed.ExtractedText
	if extractedText == "" {
		extractedText = localText
	}

	resume := &models.Resume{
		UserID:        ownerID(middleware.CurrentUser(c)),
		FileName:      file.Filename,
		FilePath:      filePath,
		FileSize:      file.Size,
		FileType:      file.Header.Get(fiber.HeaderContentType),
		ExtractedText: extractedText,
		ParsedData:    parsed.ParsedData,
		Status:        models.ResumeStatusParsed,
	}

	if err := h.resumeRepo.Create(resume); err != nil {
		cleanup()
		return apperrors.Persistence("Failed to save resume", err)
	}

	log.Printf("✅ Resume %s parsed and saved\n", resume.ID)

	return c.JSON(fiber.Map{
		"success":  true,
		"resumeId": resume.ID,
		"data": models.ParseResumeData{
			ExtractedText: extractedText,
			ParsedData:    parsed.ParsedData,
		},
	})
}

// HandleGetResumes handles GET /api/resumes
func (h *ResumeHandler) HandleGetResumes(c *fiber.Ctx) error {
	page := parsePagination(c)
	resumes, total, err := h.resumeRepo.List(ownerID(middleware.CurrentUser(c)), page)
	if err != nil {
		return apperrors.Persistence("Failed to fetch resumes", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   total,
		"page":    page.Page,
		"limit":   page.Limit,
		"data":    resumes,
	})
}

// HandleGetResume handles GET /api/resumes/:id
func (h *ResumeHandler) HandleGetResume(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "resume")
	if err != nil {
		return err
	}

	resume, err := h.resumeRepo.FindByID(id)
	if err != nil {
		return notFoundOr(err, "Resume not found", "Failed to fetch resume")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    resume,
	})
}

// HandleUpdateResume handles PUT /api/resumes/:id. Only tags and notes
// are mutable.
func (h *ResumeHandler) HandleUpdateResume(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "resume")
	if err != nil {
		return err
	}

	var req models.UpdateResumeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	resume, err := h.resumeRepo.FindByID(id)
	if err != nil {
		return notFoundOr(err, "Resume not found", "Failed to fetch resume")
	}

	if err := h.checkOwnership(c, resume, "update"); err != nil {
		return err
	}

	if req.Tags != nil {
		resume.Tags = *req.Tags
	}
	if req.Notes != nil {
		resume.Notes = *req.Notes
	}

	if err := h.resumeRepo.Update(resume); err != nil {
		return apperrors.Persistence("Failed to update resume", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    resume,
	})
}

// HandleDeleteResume handles DELETE /api/resumes/:id. The backing file is
// removed best-effort; a missing file does not fail the request.
func (h *ResumeHandler) HandleDeleteResume(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "resume")
	if err != nil {
		return err
	}

	resume, err := h.resumeRepo.FindByID(id)
	if err != nil {
		return notFoundOr(err, "Resume not found", "Failed to fetch resume")
	}

	if err := h.checkOwnership(c, resume, "delete"); err != nil {
		return err
	}

	if err := h.storage.DeleteByPath(resume.FilePath); err != nil {
		log.Printf("⚠️  Failed to delete resume file %s: %v\n", resume.FilePath, err)
	}

	if err := h.resumeRepo.Delete(id); err != nil {
		return notFoundOr(err, "Resume not found", "Failed to delete resume")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Resume deleted successfully",
	})
}

func (h *ResumeHandler) checkOwnership(c *fiber.Ctx, resume *models.Resume, action string) error {
	user := middleware.CurrentUser(c)
	if user == nil || resume.UserID == nil {
		return nil
	}
	if *resume.UserID != user.ID && !user.IsAdmin() {
		return apperrors.Authorization("Not authorized to " + action + " this resume")
	}
	return nil
}
