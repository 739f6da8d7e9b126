package content

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	cardBackground = color.RGBA{R: 24, G: 24, B: 24, A: 255}
	cardGrid       = color.RGBA{R: 160, G: 160, B: 160, A: 255}
	cardAxis       = color.RGBA{R: 255, G: 64, B: 64, A: 255}
	cardText       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// TestCard draws an alignment pattern: a grid of cells, the center axes,
// a one pixel frame and a label in the top left corner.
// Overlapping projectors line up when their grids match in the seam.
func TestCard(w, h, cell int, label string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(cardBackground), image.Point{}, draw.Src)
	if cell <= 0 {
		cell = 64
	}

	for x := 0; x < w; x += cell {
		vline(img, x, cardGrid)
	}
	for y := 0; y < h; y += cell {
		hline(img, y, cardGrid)
	}
	vline(img, w-1, cardGrid)
	hline(img, h-1, cardGrid)
	vline(img, w/2, cardAxis)
	hline(img, h/2, cardAxis)

	if label != "" {
		d := font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(cardText),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(8, 8+basicfont.Face7x13.Ascent),
		}
		d.DrawString(label)
	}
	return img
}

func vline(img *image.RGBA, x int, c color.RGBA) {
	draw.Draw(img, image.Rect(x, 0, x+1, img.Rect.Dy()), image.NewUniform(c), image.Point{}, draw.Src)
}

func hline(img *image.RGBA, y int, c color.RGBA) {
	draw.Draw(img, image.Rect(0, y, img.Rect.Dx(), y+1), image.NewUniform(c), image.Point{}, draw.Src)
}
