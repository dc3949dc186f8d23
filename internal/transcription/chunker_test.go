package transcription

import (
	"errors"
	"testing"
)

func TestPlanWindowsSingleChunkWhenUnderLimit(t *testing.T) {
	// One hour at exactly the payload limit: the safety margin still forces
	// chunks, so use a file well under it for the single-window case.
	totalMs := int64(5 * 60 * 1000)
	fileSize := int64(5 * 1024 * 1024)
	limit := int64(25 * 1024 * 1024)

	windows, err := planWindows(totalMs, fileSize, limit, DefaultChunkDurationMs)
	if err != nil {
		t.Fatal(err)
	}
	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows))
	}
	if windows[0].startMs != 0 || windows[0].durationMs != totalMs {
		t.Errorf("window = %+v, want {0 %d}", windows[0], totalMs)
	}
}

func TestPlanWindowsRespectsPayloadCeiling(t *testing.T) {
	// A file twice the limit must split, and every window's estimated size
	// must stay under limit * safety margin.
	totalMs := int64(60 * 60 * 1000)
	limit := int64(25 * 1024 * 1024)
	fileSize := 2 * limit

	windows, err := planWindows(totalMs, fileSize, limit, DefaultChunkDurationMs)
	if err != nil {
		t.Fatal(err)
	}
	if len(windows) < 2 {
		t.Fatalf("got %d windows, want at least 2", len(windows))
	}

	bytesPerMs := float64(fileSize) / float64(totalMs)
	budget := float64(limit) * chunkSafetyMargin
	var covered int64
	for i, w := range windows {
		if w.startMs != covered {
			t.Errorf("window %d starts at %d, want %d (gap or overlap)", i, w.startMs, covered)
		}
		if est := float64(w.durationMs) * bytesPerMs; est > budget {
			t.Errorf("window %d estimated %0.f bytes, over budget %0.f", i, est, budget)
		}
		covered += w.durationMs
	}
	if covered != totalMs {
		t.Errorf("windows cover %dms, want %dms", covered, totalMs)
	}
}

func TestPlanWindowsZeroDuration(t *testing.T) {
	windows, err := planWindows(0, 1024, 25*1024*1024, DefaultChunkDurationMs)
	if err != nil {
		t.Fatal(err)
	}
	if len(windows) != 0 {
		t.Errorf("got %d windows for zero-duration source, want 0", len(windows))
	}
}

func TestPlanWindowsInfeasibleBitrate(t *testing.T) {
	// A bitrate so high that even a 1ms chunk overshoots the limit.
	_, err := planWindows(1000, 10*1024*1024, 1024, DefaultChunkDurationMs)
	if !errors.Is(err, ErrSizeInfeasible) {
		t.Fatalf("err = %v, want ErrSizeInfeasible", err)
	}
}

func TestPlanWindowsDefaultsTarget(t *testing.T) {
	totalMs := int64(30 * 60 * 1000)
	windows, err := planWindows(totalMs, 1024, 25*1024*1024, 0)
	if err != nil {
		t.Fatal(err)
	}
	// Tiny file: only the target caps the windows, so 30min / 10min = 3.
	if len(windows) != 3 {
		t.Fatalf("got %d windows, want 3", len(windows))
	}
	for _, w := range windows {
		if w.durationMs != DefaultChunkDurationMs {
			t.Errorf("window duration = %d, want %d", w.durationMs, DefaultChunkDurationMs)
		}
	}
}

func TestCleanupChunksEmpty(t *testing.T) {
	// Must not panic on an empty slice.
	CleanupChunks(nil)
	CleanupChunks([]Chunk{})
}
