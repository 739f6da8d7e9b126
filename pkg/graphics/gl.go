// Package graphics puts the render loop on a real screen:
// an OpenGL 2.1 device and an SDL window that owns the GL context.
package graphics

import (
	"errors"
	"image"
	"strings"
	"unsafe"

	"github.com/blendwall/blendwall/pkg/blend"
	"github.com/blendwall/blendwall/pkg/logger"
	"github.com/blendwall/blendwall/pkg/render"
	"github.com/go-gl/gl/v2.1/gl"
)

// attribute slots, bound before linking
const (
	aPosition uint32 = iota
	aTexCoord
)

// quad is a triangle strip over the whole clip space,
// interleaved as x, y, u, v.
var quad = [16]float32{
	-1, -1, 0, 0,
	1, -1, 1, 0,
	-1, 1, 0, 1,
	1, 1, 1, 1,
}

// GL is render.Device on top of OpenGL 2.1.
// Every method has to be called with the context current.
type GL struct {
	vbo      uint32
	uniforms map[uint32]map[string]int32
	sizes    map[uint32]image.Point
	log      *logger.Logger
}

// NewGL loads the GL functions of the current context and sets up the quad.
func NewGL(getProcAddr func(name string) unsafe.Pointer, log *logger.Logger) (*GL, error) {
	if err := gl.InitWithProcAddrFunc(getProcAddr); err != nil {
		return nil, err
	}
	g := &GL{
		uniforms: make(map[uint32]map[string]int32),
		sizes:    make(map[uint32]image.Point),
		log:      log.Module("gl"),
	}
	info := g.DriverInfo()
	g.log.Info().
		Str("version", info.Version).
		Str("vendor", info.Vendor).
		Str("renderer", info.Renderer).
		Str("glsl", info.GLSL).
		Msg("OpenGL")

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quad)*4, gl.Ptr(&quad[0]), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	if e := gl.GetError(); e != gl.NO_ERROR {
		return nil, errors.New("gl setup failed: " + glError(e))
	}
	return g, nil
}

type DriverInfo struct {
	Version  string
	Vendor   string
	Renderer string
	GLSL     string
}

func (g *GL) DriverInfo() DriverInfo {
	return DriverInfo{
		Version: get(gl.VERSION),
		Vendor:  get(gl.VENDOR),
		// This string is often the name of the GPU.
		// In the case of Mesa3d, it would be i.e "Gallium 0.4 on NVA8".
		Renderer: get(gl.RENDERER),
		GLSL:     get(gl.SHADING_LANGUAGE_VERSION),
	}
}

func (g *GL) CompileShader(stage render.ShaderStage, src string) (uint32, string, bool) {
	kind := uint32(gl.VERTEX_SHADER)
	if stage == render.FragmentStage {
		kind = gl.FRAGMENT_SHADER
	}
	id := gl.CreateShader(kind)
	if id == 0 {
		return 0, "glCreateShader: " + glError(gl.GetError()), false
	}
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(id, 1, csrc, nil)
	free()
	gl.CompileShader(id)

	var status int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &n)
		buf := make([]byte, n+1)
		gl.GetShaderInfoLog(id, n, nil, &buf[0])
		return id, infoLog(buf), false
	}
	return id, "", true
}

func (g *GL) LinkProgram(vs, fs uint32) (uint32, string, bool) {
	p := gl.CreateProgram()
	if p == 0 {
		return 0, "glCreateProgram: " + glError(gl.GetError()), false
	}
	gl.AttachShader(p, vs)
	gl.AttachShader(p, fs)
	gl.BindAttribLocation(p, aPosition, gl.Str("aPosition\x00"))
	gl.BindAttribLocation(p, aTexCoord, gl.Str("aTexCoord\x00"))
	gl.LinkProgram(p)
	gl.DetachShader(p, vs)
	gl.DetachShader(p, fs)

	var status int32
	gl.GetProgramiv(p, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var n int32
		gl.GetProgramiv(p, gl.INFO_LOG_LENGTH, &n)
		buf := make([]byte, n+1)
		gl.GetProgramInfoLog(p, n, nil, &buf[0])
		return p, infoLog(buf), false
	}
	g.uniforms[p] = make(map[string]int32)
	return p, "", true
}

func (g *GL) DeleteShader(id uint32) { gl.DeleteShader(id) }

func (g *GL) DeleteProgram(id uint32) {
	gl.DeleteProgram(id)
	delete(g.uniforms, id)
}

func (g *GL) NewTexture() uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	if tex == 0 {
		return 0
	}
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

func (g *GL) DeleteTexture(id uint32) {
	gl.DeleteTextures(1, &id)
	delete(g.sizes, id)
}

// Upload replaces the texture pixels, reallocating only on a size change.
func (g *GL) Upload(tex uint32, img *image.RGBA) {
	size := img.Rect.Size()
	if size.X <= 0 || size.Y <= 0 {
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	if g.sizes[tex] == size {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(size.X), int32(size.Y), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	} else {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(size.X), int32(size.Y), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
		g.sizes[tex] = size
	}
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (g *GL) Viewport(w, h int) { gl.Viewport(0, 0, int32(w), int32(h)) }

func (g *GL) Clear(c [4]float32) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (g *GL) Draw(call render.DrawCall) {
	gl.UseProgram(call.Program)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, call.Texture)

	gl.UniformMatrix4fv(g.uniform(call.Program, "uMVPMatrix"), 1, false, &call.MVP[0])
	gl.UniformMatrix4fv(g.uniform(call.Program, "uTexMatrix"), 1, false, &call.TexMatrix[0])
	gl.Uniform1i(g.uniform(call.Program, "sTexture"), 0)
	gl.Uniform2f(g.uniform(call.Program, "uResolution"), call.Resolution[0], call.Resolution[1])

	b := blendValuesOf(call.Blend)
	gl.Uniform4f(g.uniform(call.Program, "uBlendRect"), b.rect[0], b.rect[1], b.rect[2], b.rect[3])
	gl.Uniform1f(g.uniform(call.Program, "uBlendInvWidth"), b.invWidth)
	gl.Uniform1f(g.uniform(call.Program, "uAlpha"), b.alpha)
	gl.Uniform1f(g.uniform(call.Program, "uGamma"), b.gamma)
	gl.Uniform1f(g.uniform(call.Program, "uIsLeft"), b.left)
	gl.Uniform1i(g.uniform(call.Program, "uMode"), b.mode)

	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.EnableVertexAttribArray(aPosition)
	gl.VertexAttribPointer(aPosition, 2, gl.FLOAT, false, 16, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(aTexCoord)
	gl.VertexAttribPointer(aTexCoord, 2, gl.FLOAT, false, 16, gl.PtrOffset(8))

	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)

	gl.DisableVertexAttribArray(aPosition)
	gl.DisableVertexAttribArray(aTexCoord)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)

	if e := gl.GetError(); e != gl.NO_ERROR {
		g.log.Error().Str("err", glError(e)).Msg("draw")
	}
}

// Close frees the quad buffer.
func (g *GL) Close() {
	if g.vbo != 0 {
		gl.DeleteBuffers(1, &g.vbo)
		g.vbo = 0
	}
}

// uniform looks a location up once per program, -1 (not used by the program)
// is cached too and makes GL ignore the value.
func (g *GL) uniform(program uint32, name string) int32 {
	locs, ok := g.uniforms[program]
	if !ok {
		locs = make(map[string]int32)
		g.uniforms[program] = locs
	}
	if loc, ok := locs[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(program, gl.Str(name+"\x00"))
	locs[name] = loc
	return loc
}

type blendValues struct {
	rect     [4]float32
	invWidth float32
	alpha    float32
	gamma    float32
	left     float32
	mode     int32
}

func blendValuesOf(u blend.Uniforms) blendValues {
	v := blendValues{
		rect:     [4]float32{u.MinU, u.MinV, u.MaxU, u.MaxV},
		invWidth: u.InvWidth,
		alpha:    u.Alpha,
		gamma:    u.Gamma,
	}
	if u.Left {
		v.left = 1
	}
	if u.Mode == blend.GammaAware {
		v.mode = 1
	}
	return v
}

func infoLog(buf []byte) string { return strings.TrimRight(string(buf), "\x00\n ") }

func get(name uint32) string {
	if s := gl.GetString(name); s != nil {
		return gl.GoStr(s)
	}
	return ""
}

func glError(e uint32) string {
	switch e {
	case gl.NO_ERROR:
		return "no error"
	case gl.INVALID_ENUM:
		return "invalid enum"
	case gl.INVALID_VALUE:
		return "invalid value"
	case gl.INVALID_OPERATION:
		return "invalid operation"
	case gl.OUT_OF_MEMORY:
		return "out of memory"
	}
	return "unknown"
}
