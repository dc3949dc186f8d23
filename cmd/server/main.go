package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/codebuildervaibhav/clean-transcribe/internal/cleaner"
	"github.com/codebuildervaibhav/clean-transcribe/internal/cleanup"
	"github.com/codebuildervaibhav/clean-transcribe/internal/config"
	"github.com/codebuildervaibhav/clean-transcribe/internal/handlers"
	"github.com/codebuildervaibhav/clean-transcribe/internal/queue"
	"github.com/codebuildervaibhav/clean-transcribe/internal/storage"
	"github.com/codebuildervaibhav/clean-transcribe/internal/transcription"
	"github.com/codebuildervaibhav/clean-transcribe/internal/version"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ensure directories exist
	if err := cleanup.EnsureTempDirExists(cfg.Storage.TempDir); err != nil {
		log.Fatalf("Failed to create temp directory: %v", err)
	}
	if err := os.MkdirAll(cfg.Storage.OutputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	// Custom logger setup
	logBuffer := &LogBuffer{lines: make([]string, 0, 1000)}
	multiWriter := io.MultiWriter(os.Stdout, logBuffer)
	log.SetOutput(multiWriter)

	log.Println("Initializing components...")

	// Provider registry
	registry, err := buildRegistry(cfg)
	if err != nil {
		log.Fatalf("Failed to build provider registry: %v", err)
	}
	for family, usableErr := range registry.Families() {
		if usableErr != nil {
			log.Printf("Provider %s unavailable: %v", family, usableErr)
		} else {
			log.Printf("Provider %s ready", family)
		}
	}

	// Transcript cleaner
	var clean *cleaner.Cleaner
	if cfg.Cleaning.Enabled {
		clean = cleaner.New(cfg.Cleaning.Model)
		if err := clean.Usable(); err != nil {
			log.Printf("WARNING: transcript cleaning disabled: %v", err)
			clean = nil
		}
	}

	// Local storage
	localStorage := storage.NewLocalStorage(cfg.Storage.OutputDir)

	// Google Drive client (optional - may fail if credentials not set up)
	var driveClient *storage.DriveClient
	if _, err := os.Stat(cfg.GoogleDrive.CredentialsFile); err == nil {
		driveClient, err = storage.NewDriveClient(
			cfg.GoogleDrive.CredentialsFile,
			cfg.GoogleDrive.TokenFile,
			cfg.GoogleDrive.FolderName,
		)
		if err != nil {
			log.Printf("WARNING: Google Drive not available: %v", err)
			log.Println("Transcripts will only be saved locally")
			driveClient = nil
		} else {
			log.Println("Google Drive integration enabled")
		}
	} else {
		log.Println("Google Drive credentials not found - saving locally only")
	}

	// Database
	db, err := storage.NewMetadataDB(cfg.Storage.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Progress hub and worker pool
	hub := handlers.NewProgressHub()
	workerPool := queue.NewWorkerPool(
		cfg.Workers.Count,
		registry,
		clean,
		localStorage,
		driveClient,
		db,
		hub.Reporter,
	)
	workerPool.Start()

	// Cleanup scheduler
	cleanupScheduler := cleanup.NewScheduler(
		cfg.Storage.TempDir,
		time.Duration(cfg.Cleanup.IntervalMinutes)*time.Minute,
		time.Duration(cfg.Cleanup.MaxAgeHours)*time.Hour,
	)
	cleanupScheduler.Start()
	defer cleanupScheduler.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: cfg.Limits.MaxFileSizeMB * 1024 * 1024,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Initialize handlers
	defaults := handlers.JobDefaults{
		ModelID:       cfg.Transcription.DefaultModel,
		OutputFormat:  "txt",
		Clean:         cfg.Cleaning.Enabled,
		CleaningStyle: cfg.Cleaning.Style,
	}
	uploadHandler := handlers.NewUploadHandler(workerPool, registry, cfg.Storage.TempDir, cfg.Limits.MaxFileSizeMB, defaults)
	urlHandler := handlers.NewURLHandler(workerPool, registry, cfg.Storage.TempDir, defaults)
	streamHandler := handlers.NewStreamHandler(hub)

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": version.Current,
		})
	})

	app.Post("/upload", uploadHandler.Handle)
	app.Post("/url", urlHandler.Handle)

	// WebSocket progress stream
	app.Get("/ws/progress", websocket.New(streamHandler.Handle))

	// Model discovery: which models are currently usable, per family
	app.Get("/models", func(c *fiber.Ctx) error {
		return c.JSON(registry.AvailableModels())
	})

	// Get transcript metadata
	app.Get("/transcripts", func(c *fiber.Ctx) error {
		limit := 50 // Default limit
		records, err := db.ListRecords(limit)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(records)
	})

	// Get transcript text
	app.Get("/transcripts/:id/text", func(c *fiber.Ctx) error {
		jobID := c.Params("id")

		record, err := db.GetRecord(jobID)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Transcript not found"})
		}

		content, err := os.ReadFile(record.LocalPath)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to read transcript file"})
		}

		return c.SendString(string(content))
	})

	// Get server logs
	app.Get("/logs", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"logs": logBuffer.GetLogs(),
		})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	log.Println("Endpoints:")
	log.Println("   POST /upload      - Upload audio file")
	log.Println("   POST /url         - Process a media URL")
	log.Println("   GET  /ws/progress - WebSocket job progress stream")
	log.Println("   GET  /models      - List usable models per provider")
	log.Println("   GET  /transcripts - List all transcripts")
	log.Println("   GET  /transcripts/:id/text - Get transcript text")
	log.Println("   GET  /logs        - View server logs")
	log.Println("   GET  /health      - Health check")

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Println("Shutting down gracefully...")
		app.Shutdown()
	}()

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// buildRegistry registers every provider family. Registration succeeds
// even for providers whose prerequisites are missing; they just report
// unusable until configured.
func buildRegistry(cfg *config.Config) (*transcription.Registry, error) {
	registry := transcription.NewRegistry()
	providers := []transcription.Provider{
		transcription.NewWhisperProvider(),
		transcription.NewWhisperCPPProvider(cfg.Transcription.WhisperCPPModelDir),
		transcription.NewOpenAIProvider(),
		transcription.NewVoxtralProvider(),
		transcription.NewGeminiProvider(),
	}
	for _, p := range providers {
		if err := registry.Register(p); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// LogBuffer captures logs in memory
type LogBuffer struct {
	lines []string
	mu    sync.Mutex
}

func (lb *LogBuffer) Write(p []byte) (n int, err error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.lines = append(lb.lines, string(p))

	// Keep last 1000 lines
	if len(lb.lines) > 1000 {
		lb.lines = lb.lines[len(lb.lines)-1000:]
	}

	return len(p), nil
}

func (lb *LogBuffer) GetLogs() []string {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	logs := make([]string, len(lb.lines))
	copy(logs, lb.lines)
	return logs
}
