package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blendwall/blendwall/pkg/config"
	"github.com/blendwall/blendwall/pkg/content"
	"github.com/blendwall/blendwall/pkg/graphics"
	"github.com/blendwall/blendwall/pkg/graphics/shader"
	"github.com/blendwall/blendwall/pkg/logger"
	"github.com/blendwall/blendwall/pkg/render"
	"github.com/blendwall/blendwall/pkg/thread"
	"github.com/blendwall/blendwall/pkg/wall"
)

const pollInterval = 10 * time.Millisecond

// host owns the window and the render loop drawing into it.
// A mode switch that moves the window replaces the loop.
type host struct {
	ctx     context.Context
	conf    config.Config
	win     *graphics.SDL
	gl      *graphics.GL
	shaders render.ShaderSource
	wall    *wall.Controller
	log     *logger.Logger

	mu   sync.Mutex
	loop *render.Loop
	runs sync.WaitGroup
}

func newHost(ctx context.Context, conf config.Config, log *logger.Logger) (*host, error) {
	shaders := shader.Default()
	if conf.Graphics.VertexShader != "" || conf.Graphics.FragmentShader != "" {
		var err error
		if shaders, err = shader.Load(conf.Graphics.VertexShader, conf.Graphics.FragmentShader); err != nil {
			return nil, err
		}
	}
	params, err := wall.ParamsFrom(conf.Wall)
	if err != nil {
		return nil, err
	}
	mode, err := wall.ParseMode(conf.Wall.Mode)
	if err != nil {
		return nil, err
	}

	win, err := graphics.NewSDL(graphics.Config{
		Title:          conf.Display.Title,
		Display:        conf.Display.Index,
		W:              conf.Display.Width,
		H:              conf.Display.Height,
		Fullscreen:     conf.Display.Fullscreen,
		GLVersionMajor: conf.Graphics.GlVersionMajor,
		GLVersionMinor: conf.Graphics.GlVersionMinor,
		VSync:          true,
	}, log)
	if err != nil {
		return nil, err
	}

	// the context is current on the main thread right after the window opens
	var dev *graphics.GL
	err = thread.CallErr(func() (err error) {
		if dev, err = graphics.NewGL(graphics.GlProcAddress, log); err != nil {
			return err
		}
		return win.Release()
	})
	if err != nil {
		_ = win.Deinit()
		return nil, err
	}

	screen, err := win.Screen()
	if err != nil {
		_ = win.Deinit()
		return nil, fmt.Errorf("screen: %w", err)
	}

	h := &host{ctx: ctx, conf: conf, win: win, gl: dev, shaders: shaders, log: log}
	h.wall = wall.NewController(nil, screen, params, log)
	h.wall.OnSwitch = h.recreate

	if conf.Wall.Presets != "" {
		presets, err := wall.LoadPresets(conf.Wall.Presets)
		if err != nil {
			h.close()
			return nil, err
		}
		h.wall.SetPresets(presets)
	}

	if conf.Wall.Preset != "" {
		if _, err = h.wall.ApplyPreset(conf.Wall.Preset); err != nil {
			h.close()
			return nil, err
		}
	} else {
		h.wall.Switch(mode)
	}
	if h.current() == nil {
		loop, err := h.start()
		if err != nil {
			h.close()
			return nil, err
		}
		h.wall.SetTarget(loop)
	}
	log.Info().Stringer("screen", screen).Stringer("placement", h.wall.Placement()).Msg("wall is ready")
	return h, nil
}

// start opens the content and runs a new render loop on the window.
func (h *host) start() (*render.Loop, error) {
	src, err := content.Open(h.ctx, h.conf.Content, h.log)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	var color [4]float32
	copy(color[:], h.conf.Graphics.ClearColor)

	opts := []render.Option{
		render.WithSurface(h.win),
		render.WithLogger(h.log.Module("render")),
		render.WithClearColor(color),
		render.WithMinFrameInterval(h.conf.Graphics.FrameInterval()),
	}
	if src != nil {
		opts = append(opts, render.WithSource(src))
	}
	loop := render.New(h.gl, opts...)

	h.runs.Add(1)
	go func() {
		defer h.runs.Done()
		if err := loop.Run(h.ctx); err != nil && !errors.Is(err, context.Canceled) {
			h.log.Error().Err(err).Msg("render loop")
		}
	}()
	loop.OnSurfaceCreated(h.shaders)
	loop.OnSurfaceChanged(h.win.Size())

	h.mu.Lock()
	h.loop = loop
	h.mu.Unlock()
	return loop, nil
}

// recreate tears the loop down, moves the window and starts over,
// the way a view is removed and added again.
func (h *host) recreate(p wall.Placement) wall.Target {
	if old := h.current(); old != nil {
		old.Teardown()
	}
	if err := h.win.Place(p.Window); err != nil {
		h.log.Warn().Err(err).Msg("window was not moved")
	}
	loop, err := h.start()
	if err != nil {
		h.log.Error().Err(err).Msg("render loop was not recreated")
		return nil
	}
	return loop
}

func (h *host) current() *render.Loop {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loop
}

// reload applies the wall section of a changed config.
func (h *host) reload(conf config.Config) {
	params, err := wall.ParamsFrom(conf.Wall)
	if err != nil {
		h.log.Error().Err(err).Msg("wall params")
		return
	}
	mode, err := wall.ParseMode(conf.Wall.Mode)
	if err != nil {
		h.log.Error().Err(err).Msg("wall mode")
		return
	}
	h.wall.SetParams(params)
	h.wall.Switch(mode)
}

var keys = map[string]wall.Mode{"L": wall.LeftHalf, "R": wall.RightHalf, "N": wall.None}

// serve handles window events until the window is closed or ctx is done.
func (h *host) serve(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		for _, e := range h.win.Poll() {
			switch e.Kind {
			case graphics.EventQuit:
				h.log.Info().Msg("window closed by user")
				return
			case graphics.EventResize:
				if loop := h.current(); loop != nil {
					loop.OnSurfaceChanged(e.W, e.H)
				}
			case graphics.EventKey:
				if e.Key == "Escape" || e.Key == "Q" {
					return
				}
				if mode, ok := keys[e.Key]; ok {
					h.wall.Switch(mode)
				}
			}
		}
	}
}

func (h *host) close() {
	if loop := h.current(); loop != nil {
		loop.Teardown()
	}
	h.runs.Wait()
	thread.Call(func() {
		if err := h.win.MakeCurrent(); err == nil {
			h.gl.Close()
		}
	})
	if err := h.win.Deinit(); err != nil {
		h.log.Warn().Err(err).Msg("window")
	}
}
