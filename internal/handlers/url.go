package handlers

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/codebuildervaibhav/clean-transcribe/internal/download"
	"github.com/codebuildervaibhav/clean-transcribe/internal/queue"
	"github.com/codebuildervaibhav/clean-transcribe/internal/transcription"
	"github.com/codebuildervaibhav/clean-transcribe/internal/types"
)

// URLHandler accepts a media URL (direct audio link or a video page
// handled by yt-dlp), downloads it in the background and enqueues the
// transcription job once the audio is on disk.
type URLHandler struct {
	workerPool *queue.WorkerPool
	registry   *transcription.Registry
	tempDir    string
	defaults   JobDefaults
}

func NewURLHandler(workerPool *queue.WorkerPool, registry *transcription.Registry, tempDir string, defaults JobDefaults) *URLHandler {
	return &URLHandler{
		workerPool: workerPool,
		registry:   registry,
		tempDir:    tempDir,
		defaults:   defaults,
	}
}

// Handle processes URL submissions.
func (h *URLHandler) Handle(c *fiber.Ctx) error {
	url := c.FormValue("url")
	if url == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "URL is required",
			"code":  "ERR_NO_URL",
		})
	}

	requestName := c.FormValue("name")

	job, errResp := buildJob(c, h.registry, h.defaults)
	if errResp != nil {
		return errResp(c)
	}

	jobID := uuid.New().String()

	// Download in the background; long videos take a while.
	go func() {
		result, err := download.Audio(context.Background(), url, h.tempDir)
		if err != nil {
			log.Printf("Failed to download %s for job %s: %v", url, jobID, err)
			return
		}

		job.ID = jobID
		job.RequestName = requestName
		if job.RequestName == "" {
			job.RequestName = result.Name
		}
		job.SourceType = types.SourceURL
		job.FilePath = result.Path

		h.workerPool.EnqueueJob(job)
	}()

	return c.JSON(fiber.Map{
		"job_id":  jobID,
		"status":  "downloading",
		"message": "Download started (this may take a few minutes for long videos)",
	})
}
