package render

import (
	"image"
	"sync"

	"github.com/blendwall/blendwall/pkg/geometry"
)

// fakeDevice records GPU calls without a GPU.
type fakeDevice struct {
	mu sync.Mutex

	failCompile ShaderStage
	compileFail bool
	linkFail    bool
	noTexture   bool

	next     uint32
	shaders  map[uint32]bool
	programs map[uint32]bool
	textures map[uint32]bool

	viewport [2]int
	clears   int
	calls    []DrawCall
	uploads  int
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		shaders:  map[uint32]bool{},
		programs: map[uint32]bool{},
		textures: map[uint32]bool{},
	}
}

func (d *fakeDevice) id() uint32 { d.next++; return d.next }

func (d *fakeDevice) CompileShader(stage ShaderStage, _ string) (uint32, string, bool) {
	id := d.id()
	d.shaders[id] = true
	if d.compileFail && stage == d.failCompile {
		return id, "0:1(1): error: syntax error", false
	}
	return id, "", true
}

func (d *fakeDevice) LinkProgram(_, _ uint32) (uint32, string, bool) {
	id := d.id()
	d.programs[id] = true
	if d.linkFail {
		return id, "error: vertex output not read", false
	}
	return id, "", true
}

func (d *fakeDevice) DeleteShader(id uint32)  { delete(d.shaders, id) }
func (d *fakeDevice) DeleteProgram(id uint32) { delete(d.programs, id) }

func (d *fakeDevice) NewTexture() uint32 {
	if d.noTexture {
		return 0
	}
	id := d.id()
	d.textures[id] = true
	return id
}

func (d *fakeDevice) DeleteTexture(id uint32) { delete(d.textures, id) }

func (d *fakeDevice) Upload(tex uint32, _ *image.RGBA) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.textures[tex] {
		d.uploads++
	}
}

func (d *fakeDevice) Viewport(w, h int) { d.viewport = [2]int{w, h} }

func (d *fakeDevice) Clear(_ [4]float32) {
	d.mu.Lock()
	d.clears++
	d.mu.Unlock()
}

func (d *fakeDevice) Draw(call DrawCall) {
	d.mu.Lock()
	d.calls = append(d.calls, call)
	d.mu.Unlock()
}

func (d *fakeDevice) draws() []DrawCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]DrawCall{}, d.calls...)
}

func (d *fakeDevice) live() int { return len(d.shaders) + len(d.programs) + len(d.textures) }

// fakeSource is a content source driven by the test.
type fakeSource struct {
	mu      sync.Mutex
	sink    Sink
	binds   int
	closed  int
	started chan struct{}
	tex     geometry.Mat4
}

func newFakeSource() *fakeSource {
	return &fakeSource{started: make(chan struct{}), tex: geometry.FlipY()}
}

func (s *fakeSource) Start(sink Sink) error {
	s.mu.Lock()
	s.sink = sink
	s.mu.Unlock()
	close(s.started)
	return nil
}

func (s *fakeSource) Bind(up Uploader, tex uint32) geometry.Mat4 {
	s.mu.Lock()
	s.binds++
	s.mu.Unlock()
	up.Upload(tex, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	return s.tex
}

func (s *fakeSource) Close() error {
	s.mu.Lock()
	s.closed++
	s.mu.Unlock()
	return nil
}

func (s *fakeSource) count() (binds, closed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.binds, s.closed
}

// fakeSurface counts presents and releases.
type fakeSurface struct {
	mu       sync.Mutex
	presents int
	released int
	err      error
}

func (s *fakeSurface) Release() error {
	s.mu.Lock()
	s.released++
	s.mu.Unlock()
	return nil
}

func (s *fakeSurface) MakeCurrent() error { return s.err }

func (s *fakeSurface) Present() {
	s.mu.Lock()
	s.presents++
	s.mu.Unlock()
}

func (s *fakeSurface) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presents
}
