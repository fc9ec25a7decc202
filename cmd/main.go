package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"childguard/backend/internal/api/handler"
	"childguard/backend/internal/audit"
	"childguard/backend/internal/cases"
	"childguard/backend/internal/fieldcrypto"
	"childguard/backend/internal/localization"
	"childguard/backend/internal/models"
	"childguard/backend/internal/reportgen"
	"childguard/backend/internal/storage"
	"childguard/backend/internal/uploads"
	"childguard/backend/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupDependencies() (*gorm.DB, *redis.Client) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		env("DB_HOST", "localhost"),
		env("DB_USER", "user"),
		env("DB_PASSWORD", "password"),
		env("DB_NAME", "childguarddb"),
		env("DB_PORT", "5432"),
	)

	// TranslateError maps driver duplicate-key failures onto
	// gorm.ErrDuplicatedKey, which the workflow create path relies on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     env("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.Actor{},
		&models.Unit{},
		&models.Case{},
		&models.AIFlag{},
		&models.Attachment{},
		&models.Workflow{},
		&models.WorkflowNote{},
		&models.AuditEntry{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting ChildGuard Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	if fieldcrypto.Configure(os.Getenv("FIELD_ENCRYPTION_KEY")) {
		log.Println("Field encryption enabled")
	} else {
		log.Println("WARN: No valid FIELD_ENCRYPTION_KEY, sensitive fields stored in plaintext")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	db, rdb := setupDependencies()
	s := storage.NewStorageService(db, rdb)

	trail := audit.NewTrail(s)
	go trail.Run()

	caseSvc := cases.NewService(s, trail)
	wfSvc := workflow.NewService(s, trail, reportgen.NewTemplateGenerator())

	loc, err := localization.NewLocalizer()
	if err != nil {
		log.Fatalf("Failed to load locales: %v", err)
	}

	uploadDir := env("UPLOAD_DIR", "uploads")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}
	saver := uploads.NewSaver(uploadDir)

	h := handler.NewHandler(caseSvc, wfSvc, trail, s, saver, loc, []byte(jwtSecret))

	r := gin.Default()

	r.POST("/api/auth/login", h.Login)

	api := r.Group("/api", h.AuthRequired())
	{
		api.POST("/cases", h.CreateCase)
		api.GET("/cases", h.ListCases)
		api.GET("/cases/:id", h.GetCase)
		api.PUT("/cases/:id", h.UpdateCase)
		api.POST("/cases/:id/assign", h.AssignCase)
		api.POST("/cases/:id/classify", h.ClassifyCase)
		api.POST("/cases/:id/escalate", h.EscalateCase)
		api.POST("/cases/:id/safeguard", h.SafeguardCase)
		api.POST("/cases/:id/false-report", h.MarkFalseReport)
		api.POST("/cases/:id/close", h.CloseCase)
		api.POST("/cases/:id/archive", h.ArchiveCase)
		api.DELETE("/cases/:id", h.DeleteCase)

		api.POST("/workflows", h.CreateWorkflow)
		api.GET("/workflows/mine", h.MyWorkflows)
		api.GET("/workflows/case/:caseId", h.GetWorkflowByCase)
		api.POST("/workflows/:id/stages/:stage/complete", h.CompleteStage)
		api.POST("/workflows/:id/dpe/generate", h.GenerateDPE)
		api.POST("/workflows/:id/notes", h.AddWorkflowNote)
		api.POST("/workflows/:id/classify", h.ClassifyWorkflow)

		api.GET("/history", h.History)

		api.GET("/units", h.ListUnits)
		api.GET("/units/:id", h.GetUnit)
		api.GET("/units/:id/statistics", h.UnitStatistics)
		api.POST("/units", h.RequireRole(models.RoleLevel3), h.CreateUnit)
		api.PUT("/units/:id", h.RequireRole(models.RoleLevel3), h.UpdateUnit)
	}

	server := &http.Server{
		Addr:           ":" + env("PORT", "8080"),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("ERROR: Forced shutdown: %v", err)
	}

	// Drain the audit queue before exiting so committed mutations keep
	// their entries.
	trail.Close()
}
