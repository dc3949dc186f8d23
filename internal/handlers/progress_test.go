package handlers

import (
	"testing"
	"time"
)

func TestProgressHubPublishToSubscriber(t *testing.T) {
	hub := NewProgressHub()
	events, cancel := hub.Subscribe("job-1")
	defer cancel()

	rep := hub.Reporter("job-1")
	rep.Begin("Transcribing chunks", 3)
	rep.Advance(1)

	want := []string{"Transcribing chunks", "Transcribing chunks: 1/3"}
	for _, expected := range want {
		select {
		case got := <-events:
			if got != expected {
				t.Errorf("event = %q, want %q", got, expected)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %q", expected)
		}
	}
}

func TestProgressHubIsolatesJobs(t *testing.T) {
	hub := NewProgressHub()
	a, cancelA := hub.Subscribe("job-a")
	defer cancelA()

	hub.Reporter("job-b").Begin("other job", 1)

	select {
	case msg := <-a:
		t.Errorf("job-a received %q meant for job-b", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestProgressHubCancelClosesChannel(t *testing.T) {
	hub := NewProgressHub()
	events, cancel := hub.Subscribe("job-1")
	cancel()

	if _, open := <-events; open {
		t.Error("channel should be closed after cancel")
	}

	// Publishing after cancel must not panic or block.
	hub.Reporter("job-1").Begin("late", 1)
}

func TestProgressHubSlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewProgressHub()
	_, cancel := hub.Subscribe("job-1")
	defer cancel()

	rep := hub.Reporter("job-1")
	rep.Begin("work", 100)
	done := make(chan struct{})
	go func() {
		// More events than the channel buffer holds; the hub must drop
		// rather than stall.
		for i := 0; i < 100; i++ {
			rep.Advance(1)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on slow subscriber")
	}
}
