package wall

import (
	"fmt"
	"os"

	"github.com/blendwall/blendwall/pkg/blend"
	"github.com/blendwall/blendwall/pkg/geometry"
	"gopkg.in/yaml.v3"
)

// Preset is a hand tuned placement. Fields left out come from the plan
// of its mode.
type Preset struct {
	Mode   string      `yaml:"mode"`
	Target *[4]float64 `yaml:"target,omitempty"`
	Seam   *[4]float64 `yaml:"seam,omitempty"`
	Side   string      `yaml:"side,omitempty"`
	Alpha  *float64    `yaml:"alpha,omitempty"`
	Gamma  *float64    `yaml:"gamma,omitempty"`
	Blend  string      `yaml:"blend,omitempty"`
}

// Presets by name.
type Presets map[string]Preset

type presetFile struct {
	Presets Presets `yaml:"presets"`
}

// LoadPresets reads a yaml file of named presets:
//
//	presets:
//	  calibrated-left:
//	    mode: left
//	    target: [0, 0, 2520, 1080]
//	    seam: [1060, 0, 1440, 1080]
//	    alpha: 0.85
func LoadPresets(path string) (Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f presetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("presets %v: %w", path, err)
	}
	for name, p := range f.Presets {
		if _, err := p.Placement(geometry.Extent{W: 1, H: 1}, DefaultParams()); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
	}
	return f.Presets, nil
}

// Placement plans the preset mode on the screen and applies the overrides.
func (p Preset) Placement(screen geometry.Extent, params Params) (Placement, error) {
	mode, err := ParseMode(p.Mode)
	if err != nil {
		return Placement{}, err
	}
	if p.Blend != "" {
		if params.Blend, err = blend.ParseMode(p.Blend); err != nil {
			return Placement{}, err
		}
	}
	if p.Alpha != nil {
		if *p.Alpha < 0 || *p.Alpha > 1 {
			return Placement{}, fmt.Errorf("alpha must be in [0, 1], got %v", *p.Alpha)
		}
		params.Alpha = *p.Alpha
	}
	if p.Gamma != nil {
		params.Gamma = *p.Gamma
	}

	pl := Plan(mode, screen, params)
	if p.Target != nil {
		pl.Target = rect(*p.Target)
	}
	if p.Seam == nil && p.Side == "" {
		return pl, nil
	}

	spec := blend.Spec{Seam: pl.Seam, Side: blend.RightEdge, Alpha: params.Alpha, Gamma: params.Gamma, Mode: params.Blend}
	if pl.Blend != nil {
		spec = *pl.Blend
	}
	if p.Seam != nil {
		spec.Seam = rect(*p.Seam)
	}
	if p.Side != "" {
		if spec.Side, err = blend.ParseSide(p.Side); err != nil {
			return Placement{}, err
		}
	}
	pl.Seam, pl.Blend = spec.Seam, &spec
	return pl, nil
}

func rect(v [4]float64) geometry.Rect {
	return geometry.Rect{Left: v[0], Top: v[1], Right: v[2], Bottom: v[3]}
}
