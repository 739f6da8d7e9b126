// Package content provides the visual sources a render loop draws:
// still images, pushed video frames, image sequences and test cards.
package content

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/blendwall/blendwall/pkg/geometry"
	"github.com/blendwall/blendwall/pkg/logger"
	"github.com/blendwall/blendwall/pkg/render"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxTextureSide is the largest texture side a loaded picture keeps,
// bigger pictures are scaled down.
const MaxTextureSide = 4096

var ErrEmptyImage = errors.New("image has no pixels")

// LoadImage decodes a picture file into RGBA pixels.
func LoadImage(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %v: %w", path, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%v (%v): %w", path, format, ErrEmptyImage)
	}
	return ToRGBA(img, MaxTextureSide), nil
}

// ToRGBA converts any image into tightly packed RGBA with the origin at (0, 0).
// With limit > 0 the longer side is scaled down to limit keeping the aspect.
func ToRGBA(img image.Image, limit int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if limit > 0 && (w > limit || h > limit) {
		if w >= h {
			w, h = limit, h*limit/w
		} else {
			w, h = w*limit/h, limit
		}
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return dst
	}
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*w {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Image is a static picture. It reports its size once and
// uploads its pixels every time the loop asks for a re-bind.
type Image struct {
	img *image.RGBA
}

func NewImage(img *image.RGBA) *Image { return &Image{img: img} }

// OpenImage loads the picture at path.
func OpenImage(path string, log *logger.Logger) (*Image, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", path).Stringer("size", img.Bounds().Size()).Msg("image loaded")
	return NewImage(img), nil
}

func (i *Image) Start(sink render.Sink) error {
	size := i.img.Bounds().Size()
	sink.OnContentMetadataReady(size.X, size.Y)
	sink.OnNewFrameAvailable()
	return nil
}

// Bind uploads the picture. Picture rows go top to bottom,
// so the texture is read with V flipped.
func (i *Image) Bind(up render.Uploader, tex uint32) geometry.Mat4 {
	up.Upload(tex, i.img)
	return geometry.FlipY()
}

func (i *Image) Close() error { return nil }

func (i *Image) Size() geometry.Extent {
	s := i.img.Bounds().Size()
	return geometry.Extent{W: s.X, H: s.Y}
}
