package handlers

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/codebuildervaibhav/clean-transcribe/internal/format"
	"github.com/codebuildervaibhav/clean-transcribe/internal/queue"
	"github.com/codebuildervaibhav/clean-transcribe/internal/transcription"
	"github.com/codebuildervaibhav/clean-transcribe/internal/types"
)

// UploadHandler handles audio file uploads.
type UploadHandler struct {
	workerPool *queue.WorkerPool
	registry   *transcription.Registry
	tempDir    string
	maxSizeMB  int
	defaults   JobDefaults
}

// JobDefaults fills request fields the client left out.
type JobDefaults struct {
	ModelID       string
	OutputFormat  string
	Clean         bool
	CleaningStyle string
}

func NewUploadHandler(workerPool *queue.WorkerPool, registry *transcription.Registry, tempDir string, maxSizeMB int, defaults JobDefaults) *UploadHandler {
	return &UploadHandler{
		workerPool: workerPool,
		registry:   registry,
		tempDir:    tempDir,
		maxSizeMB:  maxSizeMB,
		defaults:   defaults,
	}
}

// Handle processes the upload request
func (h *UploadHandler) Handle(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "No file uploaded",
			"code":  "ERR_NO_FILE",
		})
	}

	requestName := c.FormValue("name")
	if requestName == "" {
		requestName = "untitled"
	}

	maxSize := int64(h.maxSizeMB) * 1024 * 1024
	if file.Size > maxSize {
		return c.Status(400).JSON(fiber.Map{
			"error": fmt.Sprintf("File too large (max %dMB)", h.maxSizeMB),
			"code":  "ERR_FILE_TOO_LARGE",
		})
	}

	if !transcription.ValidateAudioFormat(file.Filename) {
		return c.Status(400).JSON(fiber.Map{
			"error": "Unsupported audio format",
			"code":  "ERR_INVALID_FORMAT",
		})
	}

	job, errResp := buildJob(c, h.registry, h.defaults)
	if errResp != nil {
		return errResp(c)
	}

	jobID := uuid.New().String()
	extension := filepath.Ext(file.Filename)
	tempPath := filepath.Join(h.tempDir, fmt.Sprintf("%s%s", jobID, extension))

	if err := c.SaveFile(file, tempPath); err != nil {
		log.Printf("Failed to save uploaded file: %v", err)
		return c.Status(500).JSON(fiber.Map{
			"error": "Failed to save file",
			"code":  "ERR_SAVE_FAILED",
		})
	}

	job.ID = jobID
	job.RequestName = requestName
	job.SourceType = types.SourceUpload
	job.FilePath = tempPath

	h.workerPool.EnqueueJob(job)

	return c.JSON(fiber.Map{
		"job_id":  jobID,
		"status":  "queued",
		"message": "File uploaded successfully, processing started",
	})
}

// buildJob reads the model/format/cleaning form values shared by the
// upload and URL endpoints, validating the model against the registry
// before any work is queued.
func buildJob(c *fiber.Ctx, registry *transcription.Registry, defaults JobDefaults) (*queue.Job, func(*fiber.Ctx) error) {
	modelID := c.FormValue("model")
	if modelID == "" {
		modelID = defaults.ModelID
	}
	if _, err := registry.Resolve(modelID); err != nil {
		msg := fmt.Sprintf("Unknown model %q", modelID)
		return nil, func(c *fiber.Ctx) error {
			return c.Status(400).JSON(fiber.Map{"error": msg, "code": "ERR_UNKNOWN_MODEL"})
		}
	}

	outputFormat := c.FormValue("format")
	if outputFormat == "" {
		outputFormat = defaults.OutputFormat
	}
	if !format.Supported(outputFormat) {
		msg := fmt.Sprintf("Unsupported output format %q", outputFormat)
		return nil, func(c *fiber.Ctx) error {
			return c.Status(400).JSON(fiber.Map{"error": msg, "code": "ERR_INVALID_OUTPUT_FORMAT"})
		}
	}

	job := &queue.Job{
		ModelID:       modelID,
		Language:      c.FormValue("language"),
		Prompt:        c.FormValue("prompt"),
		OutputFormat:  outputFormat,
		Clean:         defaults.Clean,
		CleaningStyle: defaults.CleaningStyle,
	}
	if v := c.FormValue("clean"); v != "" {
		job.Clean = v == "true" || v == "1"
	}
	if v := c.FormValue("cleaning_style"); v != "" {
		job.CleaningStyle = v
	}
	return job, nil
}
