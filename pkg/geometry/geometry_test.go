package geometry

import (
	"math"
	"testing"
)

const eps = 1e-5

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestFit(t *testing.T) {
	tests := []struct {
		name    string
		content Extent
		target  Rect
		w, h    float64
	}{
		{name: "letterbox", content: Extent{1280, 720}, target: XYWH(0, 0, 960, 1080), w: 960, h: 540},
		{name: "pillarbox", content: Extent{720, 1280}, target: XYWH(0, 0, 1920, 1080), w: 607.5, h: 1080},
		{name: "same aspect", content: Extent{1920, 1080}, target: XYWH(100, 100, 960, 540), w: 960, h: 540},
		{name: "unit content", content: Unit, target: XYWH(0, 0, 400, 300), w: 300, h: 300},
		{name: "no target", content: Extent{4, 3}, target: Rect{}, w: 0, h: 0},
		{name: "no content", content: Extent{}, target: XYWH(0, 0, 10, 10), w: 0, h: 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w, h := Fit(test.content, test.target)
			if !near(w, test.w) || !near(h, test.h) {
				t.Errorf("Fit() = %vx%v, want %vx%v", w, h, test.w, test.h)
			}
		})
	}
}

func TestFitKeepsAspectInsideTarget(t *testing.T) {
	contents := []Extent{{1280, 720}, {720, 1280}, {1, 1}, {4000, 3}, {3, 4000}, {1024, 768}}
	targets := []Rect{XYWH(0, 0, 960, 1080), XYWH(-300, 20, 2400, 1080), XYWH(5, 5, 1, 1000), XYWH(0, 0, 777, 333)}

	for _, c := range contents {
		for _, r := range targets {
			w, h := Fit(c, r)
			if w > r.Width()+eps || h > r.Height()+eps {
				t.Errorf("%v in %v: %vx%v does not fit", c, r, w, h)
			}
			if got := w / h; math.Abs(got-c.Aspect())/c.Aspect() > eps {
				t.Errorf("%v in %v: aspect %v, want %v", c, r, got, c.Aspect())
			}
			if !near(w, r.Width()) && !near(h, r.Height()) {
				t.Errorf("%v in %v: %vx%v touches no side", c, r, w, h)
			}
		}
	}
}

func TestComputeTransform(t *testing.T) {
	m, ok := ComputeTransform(Extent{1280, 720}, Extent{1920, 1080}, XYWH(0, 0, 960, 1080))
	if !ok {
		t.Fatalf("transform is not ok")
	}
	want := map[int]float32{0: 0.5, 5: 0.5, 10: 1, 15: 1, 12: -0.5, 13: 0}
	for i, v := range want {
		if math.Abs(float64(m[i]-v)) > eps {
			t.Errorf("m[%d] = %v, want %v", i, m[i], v)
		}
	}

	// the quad corners land on the fitted area, centered in the target
	x0, y0 := m.Apply(-1, -1)
	x1, y1 := m.Apply(1, 1)
	if !near(float64(x0), -1) || !near(float64(x1), 0) {
		t.Errorf("x range = [%v, %v], want [-1, 0]", x0, x1)
	}
	if !near(float64(y0), -0.5) || !near(float64(y1), 0.5) {
		t.Errorf("y range = [%v, %v], want [-0.5, 0.5]", y0, y1)
	}
}

func TestComputeTransformOffsetTarget(t *testing.T) {
	surface := Extent{1000, 500}
	target := XYWH(500, 0, 500, 250)

	m, _ := ComputeTransform(Extent{2, 1}, surface, target)
	x0, y0 := m.Apply(-1, 1)
	x1, y1 := m.Apply(1, -1)

	// back to surface pixels
	px := func(x float32) float64 { return (float64(x) + 1) / 2 * 1000 }
	py := func(y float32) float64 { return (1 - float64(y)) / 2 * 500 }

	if !near(px(x0), 500) || !near(px(x1), 1000) || !near(py(y0), 0) || !near(py(y1), 250) {
		t.Errorf("quad = (%v,%v,%v,%v), want (500,0,1000,250)", px(x0), py(y0), px(x1), py(y1))
	}
}

func TestComputeTransformNotReady(t *testing.T) {
	tests := []struct {
		name    string
		content Extent
		surface Extent
		target  Rect
		ok      bool
		m       Mat4
	}{
		{name: "no surface", content: Extent{4, 3}, target: XYWH(0, 0, 4, 3), ok: true, m: Identity()},
		{name: "no content", content: Extent{0, 3}, surface: Extent{4, 3}, target: XYWH(0, 0, 4, 3), ok: true, m: Identity()},
		{name: "zero width target", content: Extent{4, 3}, surface: Extent{4, 3}, target: XYWH(1, 1, 0, 3)},
		{name: "zero height target", content: Extent{4, 3}, surface: Extent{4, 3}, target: XYWH(1, 1, 3, 0)},
		{name: "inverted target", content: Extent{4, 3}, surface: Extent{4, 3}, target: Rect{Left: 3, Right: 1, Bottom: 2}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m, ok := ComputeTransform(test.content, test.surface, test.target)
			if ok != test.ok {
				t.Errorf("ok = %v, want %v", ok, test.ok)
			}
			if m != test.m {
				t.Errorf("m = %v, want %v", m, test.m)
			}
			for _, v := range m {
				if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
					t.Errorf("m has a bad value: %v", m)
				}
			}
		})
	}
}

func TestComputeTransformIsDeterministic(t *testing.T) {
	a, _ := ComputeTransform(Extent{1281, 719}, Extent{1917, 1077}, XYWH(13.3, 7.7, 951.1, 1003.9))
	b, _ := ComputeTransform(Extent{1281, 719}, Extent{1917, 1077}, XYWH(13.3, 7.7, 951.1, 1003.9))
	if a != b {
		t.Errorf("%v != %v", a, b)
	}
}
