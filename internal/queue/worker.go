package queue

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/codebuildervaibhav/clean-transcribe/internal/cleaner"
	"github.com/codebuildervaibhav/clean-transcribe/internal/format"
	"github.com/codebuildervaibhav/clean-transcribe/internal/progress"
	"github.com/codebuildervaibhav/clean-transcribe/internal/storage"
	"github.com/codebuildervaibhav/clean-transcribe/internal/transcription"
	"github.com/codebuildervaibhav/clean-transcribe/internal/types"
)

// Reporters builds a per-job progress reporter; server mode uses this to
// fan progress out to websocket subscribers.
type Reporters func(jobID string) progress.Reporter

// WorkerPool manages a pool of workers processing transcription jobs.
// Within one job, chunk transcription calls are strictly sequential;
// the pool only parallelizes across jobs.
type WorkerPool struct {
	jobQueue     chan *Job
	workerCount  int
	registry     *transcription.Registry
	clean        *cleaner.Cleaner
	localStorage *storage.LocalStorage
	driveClient  *storage.DriveClient
	db           *storage.MetadataDB
	reporters    Reporters
}

func NewWorkerPool(
	workerCount int,
	registry *transcription.Registry,
	clean *cleaner.Cleaner,
	localStorage *storage.LocalStorage,
	driveClient *storage.DriveClient,
	db *storage.MetadataDB,
	reporters Reporters,
) *WorkerPool {
	if reporters == nil {
		reporters = func(string) progress.Reporter { return progress.Noop{} }
	}
	return &WorkerPool{
		jobQueue:     make(chan *Job, 100),
		workerCount:  workerCount,
		registry:     registry,
		clean:        clean,
		localStorage: localStorage,
		driveClient:  driveClient,
		db:           db,
		reporters:    reporters,
	}
}

// Start initializes all workers
func (wp *WorkerPool) Start() {
	log.Printf("Starting worker pool with %d workers", wp.workerCount)
	for i := 0; i < wp.workerCount; i++ {
		go wp.worker(i)
	}
}

// EnqueueJob adds a job to the queue
func (wp *WorkerPool) EnqueueJob(job *Job) {
	job.Status = types.StatusQueued
	job.CreatedAt = time.Now()
	wp.jobQueue <- job
	log.Printf("Job %s enqueued (source: %s, model: %s, name: %s)",
		job.ID, job.SourceType, job.ModelID, job.RequestName)
}

// worker processes jobs from the queue
func (wp *WorkerPool) worker(id int) {
	log.Printf("Worker %d started", id)

	for job := range wp.jobQueue {
		// Panic recovery
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Worker %d: PANIC processing job %s: %v\n%s",
						id, job.ID, r, string(debug.Stack()))
					job.Status = types.StatusFailed
					job.Error = fmt.Errorf("worker panic: %v", r)
					wp.cleanupTempFile(job.FilePath)
				}
			}()

			wp.processJob(id, job)
		}()
	}
}

// processJob handles the complete transcription pipeline
func (wp *WorkerPool) processJob(workerID int, job *Job) {
	log.Printf("Worker %d: Processing job %s with model %s", workerID, job.ID, job.ModelID)
	job.Status = types.StatusProcessing
	ctx := context.Background()

	fail := func(stage string, err error) {
		log.Printf("Worker %d: %s failed for job %s: %v", workerID, stage, job.ID, err)
		job.Status = types.StatusFailed
		job.Error = fmt.Errorf("%s failed: %w", stage, err)
		wp.cleanupTempFile(job.FilePath)
	}

	// Step 1: Transcribe through the provider router
	result, err := wp.registry.Transcribe(ctx, transcription.Request{
		AudioPath: job.FilePath,
		ModelID:   job.ModelID,
		Language:  job.Language,
		Prompt:    job.Prompt,
		Reporter:  wp.reporters(job.ID),
	})
	if err != nil {
		fail("Transcription", err)
		return
	}

	result.JobID = job.ID
	result.CountWords()
	result.ProcessedAt = time.Now()

	// Step 2: Optional LLM cleaning; failure keeps the raw text
	if job.Clean && wp.clean != nil {
		cleaned, err := wp.clean.Clean(ctx, result.Text, job.CleaningStyle)
		if err != nil {
			log.Printf("Worker %d: WARNING - cleaning failed for job %s, keeping raw transcript: %v",
				workerID, job.ID, err)
		} else if cleaned != "" {
			result.Text = cleaned
			result.CountWords()
		}
	}

	// Step 3: Render the requested output format
	rendered, err := format.Render(result, job.OutputFormat)
	if err != nil {
		fail("Formatting", err)
		return
	}

	// Step 4: Save locally
	localPath, err := wp.localStorage.SaveTranscript(job.RequestName, rendered, job.OutputFormat, result)
	if err != nil {
		fail("Local save", err)
		return
	}
	result.LocalPath = localPath

	// Step 5: Upload to Google Drive (with retry)
	if wp.driveClient != nil {
		var driveURL string
		for attempt := 1; attempt <= 3; attempt++ {
			driveURL, err = wp.driveClient.Upload(job.RequestName, rendered, job.OutputFormat, result)
			if err == nil {
				result.GDriveURL = driveURL
				break
			}
			log.Printf("Worker %d: Google Drive upload attempt %d/3 failed: %v", workerID, attempt, err)
			if attempt < 3 {
				time.Sleep(time.Duration(attempt*attempt) * time.Second) // Exponential backoff
			}
		}
		if err != nil {
			log.Printf("Worker %d: WARNING - Google Drive upload failed after 3 attempts, continuing with local save only", workerID)
		}
	}

	// Step 6: Save metadata to database
	if wp.db != nil {
		err = wp.db.SaveRecord(&storage.Record{
			JobID:       job.ID,
			RequestName: job.RequestName,
			SourceType:  job.SourceType,
			ModelID:     job.ModelID,
			Language:    result.Language,
			GDriveURL:   result.GDriveURL,
			LocalPath:   localPath,
			Duration:    result.Duration,
			WordCount:   result.WordCount,
		})
		if err != nil {
			log.Printf("Worker %d: Database save failed: %v", workerID, err)
		}
	}

	// Step 7: Cleanup
	wp.cleanupTempFile(job.FilePath)

	job.Result = result
	job.Status = types.StatusCompleted
	log.Printf("Worker %d: Job %s completed successfully (local: %s)", workerID, job.ID, localPath)
}

// cleanupTempFile removes a temporary file
func (wp *WorkerPool) cleanupTempFile(filePath string) {
	if filePath == "" {
		return
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to cleanup temp file %s: %v", filePath, err)
	}
}
