// Package frame signals new source content to the render loop.
package frame

import "sync"

// Monitor is a single pending-frame flag shared by a content producer
// and the render goroutine.
//
// The producer calls Signal from any goroutine. The render goroutine calls
// Consume once per draw, the flag is cleared only after the latest content
// has been re-bound, under the same lock the producer takes.
type Monitor struct {
	mu      sync.Mutex
	pending bool
	stats   Stats

	notify func()
}

// Stats counts flag transitions.
type Stats struct {
	Signalled uint64
	Consumed  uint64
	// Dropped counts signals that found the flag still set,
	// i.e. frames that were replaced before the loop could draw them.
	Dropped uint64
}

// NewMonitor creates a monitor, notify is called after every signal
// (usually to request a redraw) and may be nil.
func NewMonitor(notify func()) *Monitor { return &Monitor{notify: notify} }

// Signal marks new content as ready.
func (m *Monitor) Signal() {
	m.mu.Lock()
	if m.pending {
		m.stats.Dropped++
	}
	m.pending = true
	m.stats.Signalled++
	m.mu.Unlock()

	if m.notify != nil {
		m.notify()
	}
}

// Consume runs rebind and clears the flag if a frame is pending.
// It returns false and leaves the bound content alone otherwise.
func (m *Monitor) Consume(rebind func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.pending {
		return false
	}
	if rebind != nil {
		rebind()
	}
	m.pending = false
	m.stats.Consumed++
	return true
}

func (m *Monitor) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Reset drops a pending frame without consuming it.
func (m *Monitor) Reset() {
	m.mu.Lock()
	m.pending = false
	m.mu.Unlock()
}
