package render

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blendwall/blendwall/pkg/blend"
	"github.com/blendwall/blendwall/pkg/frame"
	"github.com/blendwall/blendwall/pkg/geometry"
	"github.com/blendwall/blendwall/pkg/logger"
	"github.com/gofrs/uuid"
)

var ErrDetached = errors.New("render loop is detached")

// State is the mutable rendering state. It belongs to the render goroutine,
// other goroutines change it only through queued tasks.
type State struct {
	Surface   geometry.Extent
	Content   geometry.Extent
	Target    geometry.Rect
	Transform geometry.Mat4
	TexMatrix geometry.Mat4
	Handles   Handles

	dirty bool
}

// Stats is a snapshot of the loop counters.
type Stats struct {
	Draws   uint64
	Tasks   uint64
	Rebinds uint64
	Frames  frame.Stats
}

// Loop is the serialized render loop of one surface.
//
// Configuration calls are accepted from any goroutine and never block,
// they are queued and applied right before the next draw. Draws are
// demand-driven: a configuration change or a new content frame requests one.
type Loop struct {
	id       string
	dev      Device
	surface  Surface
	source   Source
	log      *logger.Logger
	clear    [4]float32
	interval time.Duration

	tasks  queue
	frames *frame.Monitor
	blend  *blend.Manager
	wake   chan struct{}
	stop   chan struct{}
	done   chan struct{}

	mu       sync.Mutex
	running  bool
	detached atomic.Bool
	teardown sync.Once

	// render goroutine only
	state    State
	released bool

	draws, tasksRun, rebinds atomic.Uint64
}

type Option func(*Loop)

func WithSource(s Source) Option   { return func(l *Loop) { l.source = s } }
func WithSurface(s Surface) Option { return func(l *Loop) { l.surface = s } }
func WithLogger(log *logger.Logger) Option {
	return func(l *Loop) { l.log = log }
}
func WithClearColor(c [4]float32) Option { return func(l *Loop) { l.clear = c } }

// WithMinFrameInterval limits how often Run draws.
func WithMinFrameInterval(d time.Duration) Option { return func(l *Loop) { l.interval = d } }

func New(dev Device, opts ...Option) *Loop {
	l := &Loop{
		id:    uuid.Must(uuid.NewV4()).String(),
		dev:   dev,
		log:   logger.Default(),
		clear: [4]float32{0, 0, 0, 1},
		wake:  make(chan struct{}, 1),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = l.log.Extend(l.log.With().Str("loop", l.id[:8]))
	l.frames = frame.NewMonitor(l.RequestRender)
	l.blend = blend.NewManager(l, l.log)
	l.state = State{Content: geometry.Unit, Transform: geometry.Identity(), TexMatrix: geometry.Identity()}
	return l
}

func (l *Loop) ID() string { return l.id }

// Post queues a task for the render goroutine.
// It returns false once the loop is detached.
func (l *Loop) Post(task func()) bool {
	if l.detached.Load() {
		return false
	}
	l.tasks.push(task)
	return true
}

// RequestRender schedules a draw. Requests coalesce.
func (l *Loop) RequestRender() {
	if l.detached.Load() {
		return
	}
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// OnSurfaceCreated acquires the GPU resources with the given shaders.
// A second call replaces the previous resources.
func (l *Loop) OnSurfaceCreated(src ShaderSource) {
	l.update(func(s *State) {
		Release(l.dev, &s.Handles)
		h, err := Acquire(l.dev, src, l.log)
		if err != nil {
			l.log.Error().Err(err).Msg("surface has no GPU resources, drawing background only")
			return
		}
		s.Handles = h
		// the new texture is empty
		if l.source != nil {
			l.frames.Signal()
		}
	})
}

// OnSurfaceChanged records the surface size. The first valid size replays
// a pending blend spec and, if no target was set, targets the whole surface.
func (l *Loop) OnSurfaceChanged(w, h int) {
	l.update(func(s *State) {
		dims := geometry.Extent{W: w, H: h}
		if !dims.Valid() {
			l.log.Debug().Stringer("size", dims).Msg("ignored surface size")
			return
		}
		s.Surface = dims
		l.dev.Viewport(w, h)
		if s.Target.Empty() {
			s.Target = geometry.RectOf(dims)
		}
		l.blend.OnSurfaceReady(dims)
		s.dirty = true
		l.log.Info().Stringer("size", dims).Stringer("target", s.Target).Msg("surface changed")
	})
}

// OnContentMetadataReady records the content size.
func (l *Loop) OnContentMetadataReady(w, h int) {
	l.update(func(s *State) {
		ext := geometry.Extent{W: w, H: h}
		if !ext.Valid() {
			ext = geometry.Unit
		}
		s.Content = ext
		s.dirty = true
		l.log.Debug().Stringer("content", ext).Msg("content metadata")
	})
}

// OnNewFrameAvailable flags new content, the next draw re-binds it.
func (l *Loop) OnNewFrameAvailable() { l.frames.Signal() }

// SetTargetRect moves the content to a surface rectangle.
// A rectangle without area keeps the current placement.
func (l *Loop) SetTargetRect(r geometry.Rect) {
	l.update(func(s *State) {
		if r.Empty() {
			l.log.Debug().Stringer("rect", r).Msg("degenerate target ignored")
			return
		}
		s.Target = r
		s.dirty = true
	})
}

// SetBlendSpec configures the edge blend of the seam.
func (l *Loop) SetBlendSpec(spec blend.Spec) { l.blend.Configure(spec) }

func (l *Loop) update(fn func(s *State)) {
	if l.Post(func() { fn(&l.state) }) {
		l.RequestRender()
	}
}

// DrawFrame runs one draw step: queued tasks, then a pending content frame,
// then the transform, then a single draw. Render goroutine only.
func (l *Loop) DrawFrame() {
	if l.released {
		return
	}
	start := time.Now()

	n := l.tasks.drain()
	l.tasksRun.Add(uint64(n))
	tasksRun.Add(float64(n))

	s := &l.state
	if l.source != nil && s.Handles.Valid() {
		l.frames.Consume(func() {
			s.TexMatrix = l.source.Bind(l.dev, s.Handles.Texture)
			l.rebinds.Add(1)
			framesRebound.Inc()
		})
	}

	if s.dirty {
		if m, ok := geometry.ComputeTransform(s.Content, s.Surface, s.Target); ok {
			s.Transform = m
		}
		s.dirty = false
	}

	l.dev.Clear(l.clear)
	if s.Handles.Valid() && l.source != nil {
		l.dev.Draw(DrawCall{
			Program:    s.Handles.Program,
			Texture:    s.Handles.Texture,
			MVP:        s.Transform,
			TexMatrix:  s.TexMatrix,
			Blend:      l.blend.Uniforms(),
			Resolution: [2]float32{float32(s.Surface.W), float32(s.Surface.H)},
		})
	}

	l.draws.Add(1)
	draws.Inc()
	drawDuration.Observe(time.Since(start).Seconds())
}

// Run is the render goroutine. It binds the surface context to its OS thread,
// starts the source and draws on demand until Teardown or ctx is done.
// GPU resources are released before it returns.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.detached.Load() || l.running {
		l.mu.Unlock()
		return ErrDetached
	}
	l.running = true
	l.mu.Unlock()
	defer close(l.done)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if l.surface != nil {
		if err := l.surface.MakeCurrent(); err != nil {
			l.detached.Store(true)
			l.shutdown()
			return err
		}
	}
	if l.source != nil {
		if err := l.source.Start(l); err != nil {
			l.log.Error().Err(err).Msg("content source didn't start")
		}
	}
	l.log.Info().Msg("render loop started")

	var last time.Time
	for {
		select {
		case <-l.wake:
			if wait := l.interval - time.Since(last); l.interval > 0 && wait > 0 {
				select {
				case <-time.After(wait):
				case <-l.stop:
					l.shutdown()
					return nil
				case <-ctx.Done():
					l.detached.Store(true)
					l.shutdown()
					return ctx.Err()
				}
			}
			l.DrawFrame()
			if l.surface != nil {
				l.surface.Present()
			}
			last = time.Now()
		case <-l.stop:
			l.shutdown()
			return nil
		case <-ctx.Done():
			l.detached.Store(true)
			l.shutdown()
			return ctx.Err()
		}
	}
}

// Teardown detaches the loop so nothing else gets queued or drawn,
// then releases the GPU resources on the render goroutine.
// It is safe to call more than once and from any goroutine, but without
// Run it has to be called from the goroutine that did the drawing.
func (l *Loop) Teardown() {
	l.teardown.Do(func() {
		l.mu.Lock()
		l.detached.Store(true)
		running := l.running
		l.mu.Unlock()

		close(l.stop)
		if running {
			<-l.done
			return
		}
		l.shutdown()
	})
}

func (l *Loop) shutdown() {
	if l.released {
		return
	}
	if dropped := len(l.tasks.take()); dropped > 0 {
		l.log.Debug().Int("tasks", dropped).Msg("dropped tasks of a detached loop")
	}
	Release(l.dev, &l.state.Handles)
	l.blend.Reset()
	l.frames.Reset()
	if l.source != nil {
		if err := l.source.Close(); err != nil {
			l.log.Warn().Err(err).Msg("content source close")
		}
	}
	// hand the context over to whoever draws next
	if r, ok := l.surface.(releaser); ok {
		if err := r.Release(); err != nil {
			l.log.Warn().Err(err).Msg("surface release")
		}
	}
	l.released = true
	l.log.Info().Msg("render loop released")
}

// Stats returns the loop counters, safe from any goroutine.
func (l *Loop) Stats() Stats {
	return Stats{
		Draws:   l.draws.Load(),
		Tasks:   l.tasksRun.Load(),
		Rebinds: l.rebinds.Load(),
		Frames:  l.frames.Stats(),
	}
}

// Snapshot returns a copy of the render state. Render goroutine only.
func (l *Loop) Snapshot() State { return l.state }

// Blend returns the active blend uniforms. Render goroutine only.
func (l *Loop) Blend() blend.Uniforms { return l.blend.Uniforms() }
