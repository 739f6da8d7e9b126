// Package blend turns a projector seam into the uniforms of the edge blend shader.
package blend

import (
	"fmt"

	"github.com/blendwall/blendwall/pkg/geometry"
)

// Side is the edge of this projector's image the blend ramp fades toward.
type Side int

const (
	LeftEdge Side = iota
	RightEdge
)

func (s Side) Left() bool { return s == LeftEdge }

func (s Side) String() string {
	switch s {
	case LeftEdge:
		return "left"
	case RightEdge:
		return "right"
	}
	return fmt.Sprintf("side(%d)", int(s))
}

func ParseSide(s string) (Side, error) {
	switch s {
	case "left":
		return LeftEdge, nil
	case "right":
		return RightEdge, nil
	}
	return LeftEdge, fmt.Errorf("unknown blend side: %q", s)
}

// Mode selects the falloff curve of the blend ramp.
type Mode int

const (
	// SimpleAlpha ramps linearly. Gamma is carried through to the uniforms
	// but has no effect in this mode.
	SimpleAlpha Mode = iota
	// GammaAware raises the ramp to 1/gamma.
	GammaAware
)

func (m Mode) String() string {
	switch m {
	case SimpleAlpha:
		return "simple"
	case GammaAware:
		return "gamma"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode accepts the names returned by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "simple", "alpha":
		return SimpleAlpha, nil
	case "gamma":
		return GammaAware, nil
	}
	return SimpleAlpha, fmt.Errorf("unknown blend mode: %q", s)
}

// DefaultGamma is used by GammaAware when no gamma was given.
const DefaultGamma = 2.2

// Spec is one projector's contribution to a shared seam.
type Spec struct {
	// Seam is the overlap in surface pixels.
	Seam  geometry.Rect
	Side  Side
	Alpha float64
	// Gamma is optional, zero means not set.
	Gamma float64
	Mode  Mode
}

func (s Spec) String() string {
	return fmt.Sprintf("seam=%v side=%v alpha=%g gamma=%g mode=%v", s.Seam, s.Side, s.Alpha, s.Gamma, s.Mode)
}

// Legacy builds a spec the way the old two-projector call did:
// the left projector fades toward its right edge and the other way around.
// Gamma is kept in the spec but SimpleAlpha ignores it.
func Legacy(isLeft bool, seam geometry.Rect, gamma, alpha float64) Spec {
	side := LeftEdge
	if isLeft {
		side = RightEdge
	}
	return Spec{Seam: seam, Side: side, Alpha: alpha, Gamma: gamma, Mode: SimpleAlpha}
}

// Uniforms are the normalized, GPU-facing blend parameters.
// The seam is in texture space, V grows upward.
// The zero value disables blending.
type Uniforms struct {
	MinU, MinV float32
	MaxU, MaxV float32
	// InvWidth is 1/(MaxU-MinU), or 0 for a seam without width.
	InvWidth float32
	Alpha    float32
	Gamma    float32
	Left     bool
	Mode     Mode
}

// Enabled reports whether the uniforms describe a seam at all.
func (u Uniforms) Enabled() bool { return u.InvWidth > 0 }

// Derive normalizes a spec against the surface size.
func Derive(spec Spec, dims geometry.Extent) Uniforms {
	if !dims.Valid() {
		return Uniforms{}
	}
	w, h := float64(dims.W), float64(dims.H)

	minU := spec.Seam.Left / w
	maxU := spec.Seam.Right / w
	minV := 1 - spec.Seam.Bottom/h
	maxV := 1 - spec.Seam.Top/h

	var inv float64
	if width := maxU - minU; width > 0 {
		inv = 1 / width
	}

	gamma := spec.Gamma
	if spec.Mode == GammaAware && gamma <= 0 {
		gamma = DefaultGamma
	}

	return Uniforms{
		MinU:     float32(minU),
		MinV:     float32(minV),
		MaxU:     float32(maxU),
		MaxV:     float32(maxV),
		InvWidth: float32(inv),
		Alpha:    float32(clamp(spec.Alpha)),
		Gamma:    float32(gamma),
		Left:     spec.Side.Left(),
		Mode:     spec.Mode,
	}
}

// clamp keeps alpha in [0, 1], NaN turns the blend off.
func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v >= 0:
		return v
	}
	return 0
}
