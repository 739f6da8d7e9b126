package wall

import (
	"fmt"
	"sync"

	"github.com/blendwall/blendwall/pkg/blend"
	"github.com/blendwall/blendwall/pkg/geometry"
	"github.com/blendwall/blendwall/pkg/logger"
)

// Target is what a placement is applied to, a render loop.
type Target interface {
	SetTargetRect(r geometry.Rect)
	SetBlendSpec(spec blend.Spec)
}

// Controller keeps the placement of one projector and pushes it to the target.
// All methods are safe for concurrent use.
type Controller struct {
	mu        sync.Mutex
	target    Target
	screen    geometry.Extent
	params    Params
	placement Placement
	presets   Presets
	log       *logger.Logger

	// OnSwitch is called with the new placement when the window
	// has to move, before the placement is applied. It may replace the target.
	OnSwitch func(Placement) Target
}

func NewController(target Target, screen geometry.Extent, params Params, log *logger.Logger) *Controller {
	return &Controller{
		target:    target,
		screen:    screen,
		params:    params,
		placement: Plan(None, screen, params),
		log:       log.Module("wall"),
	}
}

// Apply plans the mode and applies it without touching the window.
func (c *Controller) Apply(mode Mode) Placement {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.placement = Plan(mode, c.screen, c.params)
	c.push()
	return c.placement
}

// Switch changes the mode. When the window geometry changes the OnSwitch
// hook recreates the surface first. It reports whether anything changed.
func (c *Controller) Switch(mode Mode) (Placement, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.switchTo(Plan(mode, c.screen, c.params))
}

func (c *Controller) switchTo(next Placement) (Placement, bool) {
	prev := c.placement
	if next.Mode == prev.Mode && next.Window == prev.Window && next.Target == prev.Target && sameBlend(next.Blend, prev.Blend) {
		return prev, false
	}
	if next.Window != prev.Window && c.OnSwitch != nil {
		if t := c.OnSwitch(next); t != nil {
			c.target = t
		}
	}
	c.placement = next
	c.push()
	c.log.Info().Stringer("placement", next).Msg("wall mode switched")
	return next, true
}

// SetParams replaces the projector parameters and re-applies the current mode.
func (c *Controller) SetParams(p Params) (Placement, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params = p
	return c.switchTo(Plan(c.placement.Mode, c.screen, p))
}

// SetTarget points the controller to a new render loop
// and applies the current placement to it.
func (c *Controller) SetTarget(t Target) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = t
	c.push()
}

// SetRect moves the content without changing the mode.
func (c *Controller) SetRect(r geometry.Rect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.placement.Target = r
	if c.target != nil {
		c.target.SetTargetRect(r)
	}
}

// SetBlend overrides the seam blend of the current placement.
func (c *Controller) SetBlend(spec blend.Spec) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.placement.Seam = spec.Seam
	c.placement.Blend = &spec
	if c.target != nil {
		c.target.SetBlendSpec(spec)
	}
}

func (c *Controller) SetPresets(p Presets) {
	c.mu.Lock()
	c.presets = p
	c.mu.Unlock()
}

// ApplyPreset switches to a named placement.
func (c *Controller) ApplyPreset(name string) (Placement, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	preset, ok := c.presets[name]
	if !ok {
		return c.placement, fmt.Errorf("unknown preset %q", name)
	}
	next, err := preset.Placement(c.screen, c.params)
	if err != nil {
		return c.placement, fmt.Errorf("preset %q: %w", name, err)
	}
	p, _ := c.switchTo(next)
	return p, nil
}

func (c *Controller) Placement() Placement {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.placement
}

func (c *Controller) Mode() Mode { return c.Placement().Mode }

func (c *Controller) push() {
	if c.target == nil {
		return
	}
	c.target.SetTargetRect(c.placement.Target)
	if c.placement.Blend != nil {
		c.target.SetBlendSpec(*c.placement.Blend)
	} else {
		// a zero seam turns the blend off
		c.target.SetBlendSpec(blend.Spec{})
	}
}

func sameBlend(a, b *blend.Spec) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
