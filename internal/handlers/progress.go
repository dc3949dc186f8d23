package handlers

import (
	"fmt"
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"

	"github.com/codebuildervaibhav/clean-transcribe/internal/progress"
)

// ProgressHub fans per-job progress events out to websocket
// subscribers. Jobs publish through the Reporter they are handed; the
// core transcription code stays unaware of websockets.
type ProgressHub struct {
	mu   sync.Mutex
	subs map[string][]chan string
}

func NewProgressHub() *ProgressHub {
	return &ProgressHub{subs: make(map[string][]chan string)}
}

// Reporter returns a progress.Reporter that publishes to this hub under
// jobID.
func (h *ProgressHub) Reporter(jobID string) progress.Reporter {
	return &hubReporter{hub: h, jobID: jobID}
}

// Subscribe registers a listener for jobID. The returned cancel func
// must be called when the listener goes away.
func (h *ProgressHub) Subscribe(jobID string) (<-chan string, func()) {
	ch := make(chan string, 16)
	h.mu.Lock()
	h.subs[jobID] = append(h.subs[jobID], ch)
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		channels := h.subs[jobID]
		for i, c := range channels {
			if c == ch {
				h.subs[jobID] = append(channels[:i], channels[i+1:]...)
				close(c)
				break
			}
		}
		if len(h.subs[jobID]) == 0 {
			delete(h.subs, jobID)
		}
	}
	return ch, cancel
}

func (h *ProgressHub) publish(jobID, message string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs[jobID] {
		select {
		case ch <- message:
		default:
			// Slow subscriber; drop rather than stall the job.
		}
	}
}

type hubReporter struct {
	hub   *ProgressHub
	jobID string
	label string
	total int
	done  int
}

func (r *hubReporter) Begin(label string, total int) {
	r.label = label
	r.total = total
	r.done = 0
	r.hub.publish(r.jobID, label)
}

func (r *hubReporter) Advance(n int) {
	r.done += n
	if r.total > 1 {
		r.hub.publish(r.jobID, fmt.Sprintf("%s: %d/%d", r.label, r.done, r.total))
	}
}

func (r *hubReporter) End() {
	if r.label != "" {
		r.hub.publish(r.jobID, r.label+": done")
	}
	r.label = ""
}

// StreamHandler serves the websocket progress stream for one job.
type StreamHandler struct {
	hub *ProgressHub
}

func NewStreamHandler(hub *ProgressHub) *StreamHandler {
	return &StreamHandler{hub: hub}
}

// Handle streams progress messages for the job id in the query string
// until the client disconnects.
func (h *StreamHandler) Handle(c *websocket.Conn) {
	defer c.Close()

	jobID := c.Query("job_id")
	if jobID == "" {
		c.WriteMessage(websocket.TextMessage, []byte(`{"error":"job_id query parameter is required"}`))
		return
	}

	events, cancel := h.hub.Subscribe(jobID)
	defer cancel()

	log.Printf("Progress stream opened for job %s", jobID)

	for msg := range events {
		if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			log.Printf("Progress stream write error for job %s: %v", jobID, err)
			return
		}
	}
}
