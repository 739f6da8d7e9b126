// Package geometry maps source content into a target rectangle of a render surface.
package geometry

import "fmt"

// Extent is a size in pixels, used both for the render surface
// and for the source content.
type Extent struct {
	W, H int
}

// Unit is the content extent assumed until the real one is known.
var Unit = Extent{W: 1, H: 1}

func (e Extent) Valid() bool { return e.W > 0 && e.H > 0 }

// Aspect returns W/H or 0 for an invalid extent.
func (e Extent) Aspect() float64 {
	if !e.Valid() {
		return 0
	}
	return float64(e.W) / float64(e.H)
}

func (e Extent) String() string { return fmt.Sprintf("%dx%d", e.W, e.H) }

// Rect is an axis-aligned rectangle in surface pixels,
// origin at the top-left corner, Y pointing down.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// RectOf returns a rectangle that covers the whole extent.
func RectOf(e Extent) Rect { return Rect{Right: float64(e.W), Bottom: float64(e.H)} }

// XYWH makes a rectangle out of its origin and size.
func XYWH(x, y, w, h float64) Rect { return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h} }

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

func (r Rect) Center() (x, y float64) {
	return r.Left + r.Width()/2, r.Top + r.Height()/2
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g,%g,%g)", r.Left, r.Top, r.Right, r.Bottom)
}

// Fit returns the largest size with the content aspect ratio
// that fits entirely inside the target (letterbox or pillarbox).
func Fit(content Extent, target Rect) (w, h float64) {
	aspect := content.Aspect()
	w, h = target.Width(), target.Height()
	if aspect == 0 || w <= 0 || h <= 0 {
		return 0, 0
	}
	if aspect > w/h {
		h = w / aspect
	} else {
		w = h * aspect
	}
	return
}

// ComputeTransform builds the matrix that moves a unit quad spanning [-1,1]²
// onto the fitted and centered content area of the target rectangle.
//
// When the surface or the content extent is not known yet, the identity is returned.
// A target without area yields ok == false and the caller must keep
// whatever transform it had before.
func ComputeTransform(content, surface Extent, target Rect) (m Mat4, ok bool) {
	if !surface.Valid() || !content.Valid() {
		return Identity(), true
	}
	if target.Empty() {
		return Mat4{}, false
	}

	fw, fh := Fit(content, target)
	sx := fw / float64(surface.W)
	sy := fh / float64(surface.H)

	cx, cy := target.Center()
	tx := cx/float64(surface.W)*2 - 1
	ty := -(cy/float64(surface.H)*2 - 1)

	return Identity().
		Translate(float32(tx), float32(ty), 0).
		Scale(float32(sx), float32(sy), 1), true
}
