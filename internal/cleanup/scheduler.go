// Package cleanup removes stale temporary audio files left behind by
// interrupted downloads or chunking runs.
package cleanup

import (
	"log"
	"os"
	"path/filepath"
	"time"
)

// Scheduler periodically sweeps the temp directory.
type Scheduler struct {
	tempDir  string
	interval time.Duration
	maxAge   time.Duration
	stopChan chan struct{}
}

func NewScheduler(tempDir string, interval, maxAge time.Duration) *Scheduler {
	return &Scheduler{
		tempDir:  tempDir,
		interval: interval,
		maxAge:   maxAge,
		stopChan: make(chan struct{}),
	}
}

// Start runs an initial sweep, then sweeps on the configured interval
// until Stop is called.
func (s *Scheduler) Start() {
	s.sweep()

	ticker := time.NewTicker(s.interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stopChan:
				ticker.Stop()
				return
			}
		}
	}()

	log.Printf("Cleanup scheduler started (interval: %s, max age: %s)", s.interval, s.maxAge)
}

func (s *Scheduler) Stop() {
	close(s.stopChan)
}

// sweep deletes files in the temp dir older than maxAge.
func (s *Scheduler) sweep() {
	now := time.Now()
	var deletedCount int
	var deletedSize int64

	filepath.Walk(s.tempDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if now.Sub(info.ModTime()) > s.maxAge {
			size := info.Size()
			if err := os.Remove(path); err != nil {
				log.Printf("Failed to delete old file %s: %v", path, err)
			} else {
				deletedCount++
				deletedSize += size
			}
		}
		return nil
	})

	if deletedCount > 0 {
		log.Printf("Cleanup: %d stale temp files deleted, %.2fMB freed",
			deletedCount, float64(deletedSize)/(1024*1024))
	}
}

// EnsureTempDirExists creates the temp directory if it doesn't exist.
func EnsureTempDirExists(tempDir string) error {
	return os.MkdirAll(tempDir, 0755)
}
