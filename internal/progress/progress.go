package progress

import "log"

// Reporter receives human-readable progress for discrete units of work
// (model load, upload, per-chunk transcription). It is a UI concern only;
// core logic must behave identically with the no-op reporter.
type Reporter interface {
	// Begin announces a phase with a known number of steps (0 if unknown).
	Begin(label string, total int)
	// Advance marks n steps of the current phase as done.
	Advance(n int)
	// End closes the current phase.
	End()
}

// Noop discards all progress events. It is the default for library use
// and for tests.
type Noop struct{}

func (Noop) Begin(string, int) {}
func (Noop) Advance(int)       {}
func (Noop) End()              {}

// Console logs progress through the standard logger.
type Console struct {
	label string
	total int
	done  int
}

func NewConsole() *Console {
	return &Console{}
}

func (c *Console) Begin(label string, total int) {
	c.label = label
	c.total = total
	c.done = 0
	if total > 1 {
		log.Printf("%s (%d steps)", label, total)
	} else {
		log.Printf("%s...", label)
	}
}

func (c *Console) Advance(n int) {
	c.done += n
	if c.total > 1 {
		log.Printf("%s: %d/%d", c.label, c.done, c.total)
	}
}

func (c *Console) End() {
	if c.label != "" {
		log.Printf("%s: done", c.label)
	}
	c.label = ""
}
