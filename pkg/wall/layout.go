// Package wall lays content out over two side by side projectors
// that share an overlapping seam.
package wall

import (
	"fmt"
	"math"

	"github.com/blendwall/blendwall/pkg/blend"
	"github.com/blendwall/blendwall/pkg/config"
	"github.com/blendwall/blendwall/pkg/geometry"
)

// Mode is the part of the wall this projector shows.
type Mode int

const (
	None Mode = iota
	LeftHalf
	RightHalf
)

func (m Mode) String() string {
	switch m {
	case None:
		return "none"
	case LeftHalf:
		return "left"
	case RightHalf:
		return "right"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "none":
		return None, nil
	case "left":
		return LeftHalf, nil
	case "right":
		return RightHalf, nil
	}
	return None, fmt.Errorf("unknown wall mode: %q", s)
}

// Params describe the projector pair.
type Params struct {
	// ProjectorRatio is the width / height of one projector image.
	ProjectorRatio float64
	// OverlapRatio is the share of one projector width both images cover.
	OverlapRatio float64
	Alpha        float64
	Gamma        float64
	Blend        blend.Mode
}

func DefaultParams() Params {
	return Params{
		ProjectorRatio: 12.0 / 9,
		OverlapRatio:   3.0 / 12,
		Alpha:          0.8,
		Gamma:          blend.DefaultGamma,
		Blend:          blend.SimpleAlpha,
	}
}

// Available is the largest area of the projector ratio that fits the screen.
func Available(screen geometry.Extent, ratio float64) geometry.Extent {
	if !screen.Valid() || ratio <= 0 {
		return geometry.Extent{}
	}
	if screen.Aspect() > ratio {
		return geometry.Extent{W: floor(float64(screen.H) * ratio), H: screen.H}
	}
	return geometry.Extent{W: screen.W, H: floor(float64(screen.W) / ratio)}
}

// Overlap is the seam width in pixels of a projector image of the given width.
func Overlap(width int, ratio float64) int {
	if width <= 0 || ratio <= 0 {
		return 0
	}
	return floor(float64(width) * ratio)
}

// floor truncates, forgiving the rounding error of ratios like 4/3.
func floor(v float64) int { return int(math.Floor(v + 1e-9)) }

// Placement is where one projector's window sits on its screen and
// what it shows inside of the window.
type Placement struct {
	Mode Mode
	// Window is in screen pixels, the surface has its size.
	Window geometry.Rect
	// Target and Seam are in surface pixels.
	Target geometry.Rect
	Seam   geometry.Rect
	// Blend is nil when the projector has no seam.
	Blend *blend.Spec
}

// Surface is the window size.
func (p Placement) Surface() geometry.Extent {
	return geometry.Extent{W: int(p.Window.Width()), H: int(p.Window.Height())}
}

func (p Placement) String() string {
	return fmt.Sprintf("%v window=%v target=%v seam=%v", p.Mode, p.Window, p.Target, p.Seam)
}

// Plan places content stretched over both projectors.
//
// Both windows have the available size and sit at the bottom of their screens,
// the left one at the right screen edge and the right one at the left edge.
// The content spans a virtual rectangle 2·available − overlap wide:
// the left projector shows its start, the right one its end.
func Plan(mode Mode, screen geometry.Extent, p Params) Placement {
	if mode == None || !screen.Valid() {
		full := geometry.RectOf(screen)
		return Placement{Mode: None, Window: full, Target: full}
	}

	avail := Available(screen, p.ProjectorRatio)
	overlap := Overlap(avail.W, p.OverlapRatio)
	w, h := float64(avail.W), float64(avail.H)
	total := 2*w - float64(overlap)
	top := float64(screen.H - avail.H)

	pl := Placement{Mode: mode}
	side := blend.RightEdge
	switch mode {
	case LeftHalf:
		pl.Window = geometry.XYWH(float64(screen.W-avail.W), top, w, h)
		pl.Target = geometry.XYWH(0, 0, total, h)
		pl.Seam = geometry.XYWH(w-float64(overlap), 0, float64(overlap), h)
	case RightHalf:
		pl.Window = geometry.XYWH(0, top, w, h)
		pl.Target = geometry.XYWH(w-total, 0, total, h)
		pl.Seam = geometry.XYWH(0, 0, float64(overlap), h)
		side = blend.LeftEdge
	}
	if overlap > 0 {
		pl.Blend = &blend.Spec{Seam: pl.Seam, Side: side, Alpha: p.Alpha, Gamma: p.Gamma, Mode: p.Blend}
	}
	return pl
}

// ParamsFrom reads the projector parameters of the wall config.
func ParamsFrom(c config.Wall) (Params, error) {
	mode, err := blend.ParseMode(c.Blend)
	if err != nil {
		return Params{}, err
	}
	return Params{
		ProjectorRatio: c.ProjectorRatio,
		OverlapRatio:   c.OverlapRatio,
		Alpha:          c.Alpha,
		Gamma:          c.Gamma,
		Blend:          mode,
	}, nil
}
