package graphics

import (
	"fmt"
	"unsafe"

	"github.com/blendwall/blendwall/pkg/geometry"
	"github.com/blendwall/blendwall/pkg/logger"
	"github.com/blendwall/blendwall/pkg/thread"
	"github.com/veandco/go-sdl2/sdl"
)

type Config struct {
	Title          string
	Display        int
	W, H           int
	Fullscreen     bool
	GLVersionMajor int
	GLVersionMinor int
	VSync          bool
}

// SDL is a window with a GL context, the render surface of a loop.
// The context is current on the creating thread until Release.
type SDL struct {
	w       *sdl.Window
	ctx     sdl.GLContext
	display int
	log     *logger.Logger
}

// NewSDL opens the window on the main thread.
func NewSDL(cfg Config, log *logger.Logger) (*SDL, error) {
	s := &SDL{log: log.Module("sdl")}
	if err := thread.CallErr(func() error { return s.create(cfg) }); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SDL) create(cfg Config) error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("sdl: %w", err)
	}
	for _, a := range [][2]int{
		{sdl.GL_CONTEXT_MAJOR_VERSION, cfg.GLVersionMajor},
		{sdl.GL_CONTEXT_MINOR_VERSION, cfg.GLVersionMinor},
		{sdl.GL_DOUBLEBUFFER, 1},
	} {
		if err := sdl.GLSetAttribute(sdl.GLattr(a[0]), a[1]); err != nil {
			s.log.Warn().Err(err).Msgf("gl attribute %v", a[0])
		}
	}

	w, h := int32(cfg.W), int32(cfg.H)
	if w <= 0 || h <= 0 {
		bounds, err := sdl.GetDisplayBounds(cfg.Display)
		if err != nil {
			sdl.Quit()
			return fmt.Errorf("display %v: %w", cfg.Display, err)
		}
		w, h = bounds.W, bounds.H
	}
	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	pos := int32(sdl.WINDOWPOS_CENTERED_MASK | cfg.Display)

	win, err := sdl.CreateWindow(cfg.Title, pos, pos, w, h, flags)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("window: %w", err)
	}
	ctx, err := win.GLCreateContext()
	if err != nil {
		err1 := win.Destroy()
		sdl.Quit()
		return fmt.Errorf("gl context: %w, destroy err: %v", err, err1)
	}
	if err = win.GLMakeCurrent(ctx); err != nil {
		sdl.GLDeleteContext(ctx)
		_ = win.Destroy()
		sdl.Quit()
		return fmt.Errorf("gl bind: %w", err)
	}
	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		s.log.Warn().Err(err).Msg("swap interval")
	}
	if cfg.Fullscreen {
		_, _ = sdl.ShowCursor(sdl.DISABLE)
	}

	s.w, s.ctx, s.display = win, ctx, cfg.Display
	s.log.Info().Int("display", cfg.Display).Int32("w", w).Int32("h", h).Bool("fullscreen", cfg.Fullscreen).Msg("window opened")
	return nil
}

// MakeCurrent binds the context to the calling thread.
func (s *SDL) MakeCurrent() error { return s.w.GLMakeCurrent(s.ctx) }

// Release unbinds the context from the calling thread,
// so the render thread can take it.
func (s *SDL) Release() error { return s.w.GLMakeCurrent(nil) }

func (s *SDL) Present() { s.w.GLSwap() }

// Size is the drawable size in pixels.
func (s *SDL) Size() (int, int) {
	w, h := s.w.GLGetDrawableSize()
	return int(w), int(h)
}

// Screen is the size of the display the window was opened on.
func (s *SDL) Screen() (screen geometry.Extent, err error) {
	err = thread.CallErr(func() error {
		bounds, err := sdl.GetDisplayBounds(s.display)
		if err != nil {
			return err
		}
		screen = geometry.Extent{W: int(bounds.W), H: int(bounds.H)}
		return nil
	})
	return
}

// Place moves and resizes the window, r is relative to its display.
// An empty r is ignored.
func (s *SDL) Place(r geometry.Rect) error {
	if r.Empty() {
		return nil
	}
	return thread.CallErr(func() error {
		bounds, err := sdl.GetDisplayBounds(s.display)
		if err != nil {
			return err
		}
		if s.w.GetFlags()&sdl.WINDOW_FULLSCREEN_DESKTOP != 0 {
			if err = s.w.SetFullscreen(0); err != nil {
				return err
			}
		}
		s.w.SetPosition(bounds.X+int32(r.Left), bounds.Y+int32(r.Top))
		s.w.SetSize(int32(r.Width()), int32(r.Height()))
		s.log.Debug().Stringer("window", r).Msg("window placed")
		return nil
	})
}

func (s *SDL) SetTitle(title string) { thread.Call(func() { s.w.SetTitle(title) }) }

// Deinit destroys the window and the context.
// The context must not be current on another thread.
func (s *SDL) Deinit() error {
	var err error
	thread.Call(func() {
		_ = s.w.GLMakeCurrent(s.ctx)
		sdl.GLDeleteContext(s.ctx)
		err = s.w.Destroy()
		sdl.Quit()
	})
	s.log.Info().Msg("window closed")
	return err
}

func GlProcAddress(proc string) unsafe.Pointer { return sdl.GLGetProcAddress(proc) }

func TryInit() error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return err
	}
	sdl.Quit()
	return nil
}
