package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"hiring-engine/internal/apperrors"
	"hiring-engine/internal/middleware"
	"hiring-engine/internal/models"
	"hiring-engine/internal/repositories"
	"hiring-engine/internal/services"
)

type JDHandler struct {
	jdRepo   repositories.JobDescriptionRepository
	mlClient services.MLClient
}

func NewJDHandler(jdRepo repositories.JobDescriptionRepository, mlClient services.MLClient) *JDHandler {
	return &JDHandler{
		jdRepo:   jdRepo,
		mlClient: mlClient,
	}
}

// HandleParseJD handles POST /api/parse-jd. The description is sent to
// the ML service for skill extraction before the record is persisted.
func (h *JDHandler) HandleParseJD(c *fiber.Ctx) error {
	var req models.ParseJDRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	parsed, err := h.mlClient.ParseJD(c.Context(), req.Title, req.Company, req.Description)
	if err != nil {
		return apperrors.Upstream("Failed to parse job description", err)
	}

	jd := &models.JobDescription{
		UserID:         ownerID(middleware.CurrentUser(c)),
		Title:          req.Title,
		Company:        req.Company,
		Location:       req.Location,
		Department:     req.Department,
		EmploymentType: req.EmploymentType,
		SalaryRange:    req.SalaryRange,
		Description:    req.Description,
		ParsedData:     *parsed,
		Status:         models.JDStatusActive,
	}
	if jd.EmploymentType == "" {
		jd.EmploymentType = "Full-time"
	}
	if req.Deadline != "" {
		if deadline, err := time.Parse(time.RFC3339, req.Deadline); err == nil {
			jd.Deadline = &deadline
		} else {
			return apperrors.Validation("Invalid deadline format, expected RFC 3339")
		}
	}

	if err := h.jdRepo.Create(jd); err != nil {
		return apperrors.Persistence("Failed to save job description", err)
	}

	log.Printf("✅ Job description %s parsed and saved\n", jd.ID)

	return c.JSON(fiber.Map{
		"success": true,
		"jdId":    jd.ID,
		"data": fiber.Map{
			"parsedData": parsed,
		},
	})
}

// HandleGetJDs handles GET /api/job-descriptions
func (h *JDHandler) HandleGetJDs(c *fiber.Ctx) error {
	filter := repositories.JDFilter{
		UserID: ownerID(middleware.CurrentUser(c)),
		Status: models.JDStatus(c.Query("status")),
		Search: c.Query("search"),
	}
	page := parsePagination(c)

	jds, total, err := h.jdRepo.List(filter, page)
	if err != nil {
		return apperrors.Persistence("Failed to fetch job descriptions", err)
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"count":           total,
		"page":            page.Page,
		"limit":           page.Limit,
		"jobDescriptions": jds,
	})
}

// HandleGetJD handles GET /api/job-descriptions/:id. Fetching a job bumps
// its view counter.
func (h *JDHandler) HandleGetJD(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "job description")
	if err != nil {
		return err
	}

	jd, err := h.jdRepo.FindByID(id)
	if err != nil {
		return notFoundOr(err, "Job description not found", "Failed to fetch job description")
	}

	if err := h.jdRepo.IncrementViews(id); err != nil {
		log.Printf("⚠️  Failed to increment views for job %s: %v\n", id, err)
	} else {
		jd.Views++
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    jd,
	})
}

// HandleUpdateJD handles PUT /api/job-descriptions/:id
func (h *JDHandler) HandleUpdateJD(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "job description")
	if err != nil {
		return err
	}

	var req models.UpdateJDRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	jd, err := h.jdRepo.FindByID(id)
	if err != nil {
		return notFoundOr(err, "Job description not found", "Failed to fetch job description")
	}

	if req.Title != nil {
		jd.Title = *req.Title
	}
	if req.Company != nil {
		jd.Company = *req.Company
	}
	if req.Location != nil {
		jd.Location = *req.Location
	}
	if req.Department != nil {
		jd.Department = *req.Department
	}
	if req.EmploymentType != nil {
		jd.EmploymentType = *req.EmploymentType
	}
	if req.SalaryRange != nil {
		jd.SalaryRange = *req.SalaryRange
	}
	if req.Description != nil {
		jd.Description = *req.Description
	}
	if req.Status != nil {
		switch *req.Status {
		case models.JDStatusDraft, models.JDStatusActive, models.JDStatusClosed, models.JDStatusOnHold:
			jd.Status = *req.Status
		default:
			return apperrors.Validation("Invalid job description status")
		}
	}
	if req.Tags != nil {
		jd.Tags = *req.Tags
	}

	if err := h.jdRepo.Update(jd); err != nil {
		return apperrors.Persistence("Failed to update job description", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    jd,
	})
}

// HandleDeleteJD handles DELETE /api/job-descriptions/:id
func (h *JDHandler) HandleDeleteJD(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "job description")
	if err != nil {
		return err
	}

	if err := h.jdRepo.Delete(id); err != nil {
		return notFoundOr(err, "Job description not found", "Failed to delete job description")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Job description deleted successfully",
	})
}
