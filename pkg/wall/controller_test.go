package wall

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blendwall/blendwall/pkg/blend"
	"github.com/blendwall/blendwall/pkg/geometry"
	"github.com/blendwall/blendwall/pkg/logger"
)

type target struct {
	rects []geometry.Rect
	specs []blend.Spec
}

func (t *target) SetTargetRect(r geometry.Rect) { t.rects = append(t.rects, r) }
func (t *target) SetBlendSpec(s blend.Spec)     { t.specs = append(t.specs, s) }

func (t *target) last() (geometry.Rect, blend.Spec) {
	return t.rects[len(t.rects)-1], t.specs[len(t.specs)-1]
}

func TestControllerApply(t *testing.T) {
	tg := &target{}
	c := NewController(tg, fullHD, DefaultParams(), logger.Nop())

	p := c.Apply(LeftHalf)
	r, s := tg.last()
	if r != p.Target || s != *p.Blend {
		t.Errorf("applied %v %v, want %v", r, s, p)
	}
	if c.Mode() != LeftHalf {
		t.Errorf("mode %v", c.Mode())
	}

	c.Apply(None)
	r, s = tg.last()
	if r != geometry.RectOf(fullHD) {
		t.Errorf("rect %v", r)
	}
	if s != (blend.Spec{}) {
		t.Errorf("blend was not turned off: %v", s)
	}
}

func TestControllerSwitch(t *testing.T) {
	first, second := &target{}, &target{}
	c := NewController(first, fullHD, DefaultParams(), logger.Nop())

	var recreated []Placement
	c.OnSwitch = func(p Placement) Target {
		recreated = append(recreated, p)
		return second
	}

	p, changed := c.Switch(RightHalf)
	if !changed {
		t.Fatalf("not changed")
	}
	if len(recreated) != 1 || recreated[0].Mode != RightHalf {
		t.Fatalf("recreated %v", recreated)
	}
	if len(first.rects) != 0 {
		t.Errorf("old target was updated")
	}
	if r, _ := second.last(); r != p.Target {
		t.Errorf("new target got %v", r)
	}

	if _, changed = c.Switch(RightHalf); changed {
		t.Errorf("same mode changed")
	}
	if len(recreated) != 1 {
		t.Errorf("recreated on the same mode")
	}

	// same window, only the blend changes
	params := DefaultParams()
	params.Alpha = 0.5
	p, changed = c.SetParams(params)
	if !changed || p.Blend.Alpha != 0.5 {
		t.Errorf("params were not applied: %v", p)
	}
	if len(recreated) != 1 {
		t.Errorf("recreated for new params")
	}
}

func TestControllerOverrides(t *testing.T) {
	tg := &target{}
	c := NewController(tg, fullHD, DefaultParams(), logger.Nop())
	c.Apply(LeftHalf)

	rect := geometry.XYWH(10, 10, 100, 100)
	c.SetRect(rect)
	if r, _ := tg.last(); r != rect {
		t.Errorf("rect %v", r)
	}
	spec := blend.Spec{Seam: geometry.XYWH(1000, 0, 440, 1080), Side: blend.RightEdge, Alpha: 1, Mode: blend.GammaAware}
	c.SetBlend(spec)
	if _, s := tg.last(); s != spec {
		t.Errorf("spec %v", s)
	}
	if p := c.Placement(); p.Target != rect || p.Seam != spec.Seam {
		t.Errorf("placement %v", p)
	}
}

func TestControllerPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	data := `
presets:
  tuned:
    mode: left
    seam: [1060, 0, 1440, 1080]
    alpha: 0.9
    blend: gamma
  plain:
    mode: right
    target: [0, 0, 1440, 1080]
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	presets, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	tg := &target{}
	c := NewController(tg, fullHD, DefaultParams(), logger.Nop())
	c.SetPresets(presets)

	p, err := c.ApplyPreset("tuned")
	if err != nil {
		t.Fatal(err)
	}
	want := blend.Spec{
		Seam:  geometry.Rect{Left: 1060, Right: 1440, Bottom: 1080},
		Side:  blend.RightEdge,
		Alpha: 0.9,
		Gamma: blend.DefaultGamma,
		Mode:  blend.GammaAware,
	}
	if p.Mode != LeftHalf || *p.Blend != want {
		t.Errorf("tuned %v %v", p, *p.Blend)
	}
	if _, s := tg.last(); s != want {
		t.Errorf("target got %v", s)
	}

	p, err = c.ApplyPreset("plain")
	if err != nil {
		t.Fatal(err)
	}
	if p.Target != geometry.XYWH(0, 0, 1440, 1080) || p.Blend.Side != blend.LeftEdge {
		t.Errorf("plain %v", p)
	}

	if _, err = c.ApplyPreset("missing"); err == nil {
		t.Errorf("no error for a missing preset")
	}
}

func TestLoadPresetsInvalid(t *testing.T) {
	tests := map[string]string{
		"mode":  "presets:\n  a:\n    mode: up\n",
		"side":  "presets:\n  a:\n    mode: left\n    side: top\n",
		"blend": "presets:\n  a:\n    mode: left\n    blend: add\n",
		"alpha": "presets:\n  a:\n    mode: left\n    alpha: 5\n",
		"yaml":  "presets: [",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "p.yaml")
			if err := os.WriteFile(path, []byte(data), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadPresets(path); err == nil {
				t.Errorf("no error")
			}
		})
	}
}
