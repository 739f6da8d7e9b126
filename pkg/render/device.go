// Package render owns the single goroutine that mutates rendering state
// and talks to the GPU.
package render

import (
	"image"

	"github.com/blendwall/blendwall/pkg/blend"
	"github.com/blendwall/blendwall/pkg/geometry"
)

type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	if s == VertexStage {
		return "vertex"
	}
	return "fragment"
}

// ShaderSource is the program text supplied by the host.
type ShaderSource struct {
	Vertex   string
	Fragment string
}

// Uploader copies pixels into a texture.
type Uploader interface {
	Upload(tex uint32, img *image.RGBA)
}

// Device is the GPU the loop draws with.
// All methods are called from the render goroutine only.
type Device interface {
	Uploader

	CompileShader(stage ShaderStage, src string) (id uint32, info string, ok bool)
	LinkProgram(vertex, fragment uint32) (id uint32, info string, ok bool)
	DeleteShader(id uint32)
	DeleteProgram(id uint32)

	NewTexture() uint32
	DeleteTexture(id uint32)

	Viewport(w, h int)
	Clear(color [4]float32)
	Draw(call DrawCall)
}

// DrawCall is everything one draw of the content quad needs.
type DrawCall struct {
	Program    uint32
	Texture    uint32
	MVP        geometry.Mat4
	TexMatrix  geometry.Mat4
	Blend      blend.Uniforms
	Resolution [2]float32
}

// Surface is the host window the loop presents to.
type Surface interface {
	// MakeCurrent binds the GPU context to the calling thread.
	MakeCurrent() error
	Present()
}

// releaser is a surface that can unbind its context from the render thread.
type releaser interface {
	Release() error
}

// Sink receives content notifications, from any goroutine.
type Sink interface {
	OnContentMetadataReady(w, h int)
	OnNewFrameAvailable()
}

// Source is a visual content provider (a still image, a video...).
type Source interface {
	// Start begins producing content, reporting to the sink.
	Start(sink Sink) error
	// Bind uploads the latest content into tex and returns the
	// texture transform that goes with it. Render goroutine only.
	Bind(up Uploader, tex uint32) geometry.Mat4
	Close() error
}
