package content

import (
	"errors"
	"image"
	"sync"

	"github.com/blendwall/blendwall/pkg/geometry"
	"github.com/blendwall/blendwall/pkg/render"
)

var ErrClosed = errors.New("content source is closed")

// Frame is one decoded picture with the transform its texture is read with.
type Frame struct {
	Image     *image.RGBA
	Transform geometry.Mat4
}

// VideoStats counts mailbox traffic.
type VideoStats struct {
	Pushed uint64
	Bound  uint64
	// Replaced counts frames overwritten before they were bound.
	Replaced uint64
}

// Video is a single slot frame mailbox between a decoder and the render loop.
// The decoder pushes from its own goroutine, only the latest frame is kept.
type Video struct {
	mu     sync.Mutex
	sink   render.Sink
	frame  *Frame
	fresh  bool
	size   image.Point
	closed bool
	stats  VideoStats
}

func NewVideo() *Video { return &Video{} }

// Push hands over a decoded picture in top to bottom row order.
func (v *Video) Push(img *image.RGBA) error {
	return v.PushFrame(Frame{Image: img, Transform: geometry.FlipY()})
}

// PushFrame hands over a frame, replacing one that was not bound yet.
// The sink learns about a new size before it learns about the frame.
func (v *Video) PushFrame(f Frame) error {
	if f.Image == nil || f.Image.Bounds().Empty() {
		return ErrEmptyImage
	}
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	if v.fresh {
		v.stats.Replaced++
	}
	v.frame, v.fresh = &f, true
	v.stats.Pushed++
	size := f.Image.Bounds().Size()
	resized := size != v.size
	v.size = size
	sink := v.sink
	v.mu.Unlock()

	// the sink takes the frame monitor lock, which Bind runs under
	if sink != nil {
		if resized {
			sink.OnContentMetadataReady(size.X, size.Y)
		}
		sink.OnNewFrameAvailable()
	}
	return nil
}

// Start attaches the sink. A frame pushed earlier is announced right away.
func (v *Video) Start(sink render.Sink) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	v.sink = sink
	has, size := v.frame != nil, v.size
	v.mu.Unlock()

	if has {
		sink.OnContentMetadataReady(size.X, size.Y)
		sink.OnNewFrameAvailable()
	}
	return nil
}

// Bind uploads the latest frame. Without a frame nothing is uploaded
// and the identity is returned.
func (v *Video) Bind(up render.Uploader, tex uint32) geometry.Mat4 {
	v.mu.Lock()
	f := v.frame
	if f != nil {
		v.fresh = false
		v.stats.Bound++
	}
	v.mu.Unlock()

	if f == nil {
		return geometry.Identity()
	}
	up.Upload(tex, f.Image)
	return f.Transform
}

func (v *Video) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	v.sink = nil
	v.frame = nil
	return nil
}

func (v *Video) Stats() VideoStats {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stats
}
