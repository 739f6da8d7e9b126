package blend

import (
	"sync"

	"github.com/blendwall/blendwall/pkg/geometry"
	"github.com/blendwall/blendwall/pkg/logger"
)

// Poster hands work over to the render goroutine.
// Post returns false when the task was not accepted.
type Poster interface {
	Post(task func()) bool
	RequestRender()
}

// Manager keeps the active blend configuration of a render loop
// and buffers a spec that arrives before the surface size is known.
//
// Configure may be called from any goroutine, everything else belongs
// to the render goroutine.
type Manager struct {
	poster Poster
	log    *logger.Logger

	mu      sync.Mutex
	ready   bool
	pending *Spec

	// render goroutine only
	dims     geometry.Extent
	active   *Spec
	uniforms Uniforms
}

func NewManager(poster Poster, log *logger.Logger) *Manager {
	return &Manager{poster: poster, log: log}
}

// Configure sets a new blend spec. It never blocks.
// Before the first surface-ready event the spec is buffered,
// a later call replaces an earlier unapplied one.
func (m *Manager) Configure(spec Spec) {
	m.mu.Lock()
	if !m.ready {
		m.pending = &spec
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	ok := m.poster.Post(func() {
		m.apply(spec)
		m.poster.RequestRender()
	})
	if !ok {
		m.log.Debug().Stringer("spec", spec).Msg("blend spec dropped, loop is detached")
	}
}

// OnSurfaceReady records the surface size and re-derives the uniforms,
// consuming the buffered spec if there is one.
func (m *Manager) OnSurfaceReady(dims geometry.Extent) {
	if !dims.Valid() {
		return
	}
	m.mu.Lock()
	m.ready = true
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()

	m.dims = dims
	switch {
	case pending != nil:
		m.apply(*pending)
	case m.active != nil:
		m.apply(*m.active)
	}
}

func (m *Manager) apply(spec Spec) {
	m.active = &spec
	m.uniforms = Derive(spec, m.dims)
}

// Uniforms returns the uniforms of the active spec.
func (m *Manager) Uniforms() Uniforms { return m.uniforms }

// Active returns the applied spec, if any.
func (m *Manager) Active() (Spec, bool) {
	if m.active == nil {
		return Spec{}, false
	}
	return *m.active, true
}

// Pending reports whether a spec waits for the surface.
func (m *Manager) Pending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending != nil
}

// Reset forgets the surface and every spec.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.ready = false
	m.pending = nil
	m.mu.Unlock()
	m.dims = geometry.Extent{}
	m.active = nil
	m.uniforms = Uniforms{}
}
