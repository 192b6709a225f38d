package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"hiring-engine/internal/apperrors"
	"hiring-engine/internal/config"
	"hiring-engine/internal/handlers"
	"hiring-engine/internal/middleware"
	"hiring-engine/internal/repositories"
	"hiring-engine/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	resumeRepo := repositories.NewResumeRepository(db)
	jdRepo := repositories.NewJobDescriptionRepository(db)
	matchRepo := repositories.NewMatchResultRepository(db)
	dashboardRepo := repositories.NewDashboardRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	extractorService := services.NewTextExtractorService()

	tokenService, err := services.NewTokenService(cfg.JWT)
	if err != nil {
		log.Fatalf("❌ Failed to initialize token service: %v", err)
	}

	mlClient := services.NewMLClient(cfg.ML)
	if !cfg.MLConfigured() {
		log.Println("⚠️  ML_SERVICE_URL is not configured; parse and match endpoints will fail")
	}

	matcherService := services.NewMatcherService(resumeRepo, jdRepo, matchRepo, mlClient)
	log.Println("✅ Services initialized successfully")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, tokenService)
	resumeHandler := handlers.NewResumeHandler(
		resumeRepo,
		storageService,
		extractorService,
		mlClient,
		cfg.Storage.MaxFileSize,
	)
	jdHandler := handlers.NewJDHandler(jdRepo, mlClient)
	matchHandler := handlers.NewMatchHandler(matcherService, matchRepo)
	dashboardHandler := handlers.NewDashboardHandler(dashboardRepo, jdRepo, matchRepo)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "AI Hiring Engine API",
		ReadTimeout:  30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: errorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		mlStatus := "not configured"
		if cfg.MLConfigured() {
			mlStatus = "configured"
		}
		return c.JSON(fiber.Map{
			"status":    "OK",
			"service":   "AI Hiring Engine Backend",
			"timestamp": time.Now().Format(time.RFC3339),
			"cors": fiber.Map{
				"enabled":        true,
				"allowedOrigins": cfg.CORS.AllowedOrigins,
			},
			"mlService": mlStatus,
		})
	})

	// Root endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI Hiring Engine API",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"auth":            "/api/auth",
				"resumes":         "/api/resumes",
				"jobDescriptions": "/api/job-descriptions",
				"matches":         "/api/matches",
				"dashboard":       "/api/dashboard",
			},
		})
	})

	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/auth/register", authHandler.HandleRegister)
	api.Post("/auth/login", authHandler.HandleLogin)

	// Everything else passes through the auth gate, applied at mount time
	// rather than per handler.
	authGate := middleware.AuthRequired(tokenService, userRepo)
	protected := api.Group("", authGate)
	recruiter := middleware.RequireRecruiter()

	protected.Get("/auth/me", authHandler.HandleMe)

	protected.Post("/parse-resume", resumeHandler.HandleParseResume)
	protected.Get("/resumes", resumeHandler.HandleGetResumes)
	protected.Get("/resumes/:id", resumeHandler.HandleGetResume)
	protected.Put("/resumes/:id", resumeHandler.HandleUpdateResume)
	protected.Delete("/resumes/:id", resumeHandler.HandleDeleteResume)

	protected.Post("/parse-jd", recruiter, jdHandler.HandleParseJD)
	protected.Get("/job-descriptions", jdHandler.HandleGetJDs)
	protected.Get("/job-descriptions/:id", jdHandler.HandleGetJD)
	protected.Put("/job-descriptions/:id", recruiter, jdHandler.HandleUpdateJD)
	protected.Delete("/job-descriptions/:id", recruiter, jdHandler.HandleDeleteJD)

	protected.Post("/match", matchHandler.HandleMatch)
	protected.Get("/matches", matchHandler.HandleGetMatches)
	protected.Get("/matches/:id", matchHandler.HandleGetMatch)
	protected.Put("/matches/:id", recruiter, matchHandler.HandleUpdateMatch)
	protected.Delete("/matches/:id", recruiter, matchHandler.HandleDeleteMatch)

	protected.Get("/dashboard", dashboardHandler.HandleGetDashboard)
	protected.Get("/dashboard/job/:id", dashboardHandler.HandleGetJobAnalytics)

	// 404 fallback
	app.Use(func(c *fiber.Ctx) error {
		return apperrors.NotFound("Route not found")
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// errorHandler renders every error as the JSON envelope
// {success:false, error, details?}. Raw errors never reach the client.
func errorHandler(c *fiber.Ctx, err error) error {
	appErr := apperrors.From(err)

	if appErr.Status >= fiber.StatusInternalServerError {
		log.Printf("❌ %s %s: %v\n", c.Method(), c.Path(), err)
	}

	resp := fiber.Map{
		"success": false,
		"error":   appErr.Message,
	}
	if appErr.Details != "" {
		resp["details"] = appErr.Details
	}

	return c.Status(appErr.Status).JSON(resp)
}
