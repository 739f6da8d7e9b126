package render

import (
	"errors"
	"testing"

	"github.com/blendwall/blendwall/pkg/logger"
)

var shaders = ShaderSource{Vertex: "void main() {}", Fragment: "void main() {}"}

func TestAcquire(t *testing.T) {
	dev := newFakeDevice()
	h, err := Acquire(dev, shaders, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if !h.Valid() {
		t.Errorf("handles are not valid: %+v", h)
	}
	if len(dev.shaders) != 0 {
		t.Errorf("shader objects leaked: %v", dev.shaders)
	}

	Release(dev, &h)
	if h.Valid() || dev.live() != 0 {
		t.Errorf("release left %v objects, handles %+v", dev.live(), h)
	}
}

func TestAcquireFailures(t *testing.T) {
	tests := []struct {
		name  string
		dev   *fakeDevice
		check func(err error) bool
	}{
		{
			name: "vertex",
			dev:  &fakeDevice{compileFail: true, failCompile: VertexStage},
			check: func(err error) bool {
				var ce *CompileError
				return errors.As(err, &ce) && ce.Stage == VertexStage && ce.Log != ""
			},
		},
		{
			name: "fragment",
			dev:  &fakeDevice{compileFail: true, failCompile: FragmentStage},
			check: func(err error) bool {
				var ce *CompileError
				return errors.As(err, &ce) && ce.Stage == FragmentStage
			},
		},
		{
			name: "link",
			dev:  &fakeDevice{linkFail: true},
			check: func(err error) bool {
				var le *LinkError
				return errors.As(err, &le) && le.Log != ""
			},
		},
		{
			name:  "texture",
			dev:   &fakeDevice{noTexture: true},
			check: func(err error) bool { return errors.Is(err, ErrNoTexture) },
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			dev := test.dev
			dev.shaders, dev.programs, dev.textures = map[uint32]bool{}, map[uint32]bool{}, map[uint32]bool{}

			h, err := Acquire(dev, shaders, logger.Nop())
			if !test.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
			if h != (Handles{}) {
				t.Errorf("handles = %+v, want zero", h)
			}
			if dev.live() != 0 {
				t.Errorf("%v GPU objects leaked", dev.live())
			}
		})
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	dev := newFakeDevice()
	Release(dev, nil)

	var zero Handles
	Release(dev, &zero)

	h, _ := Acquire(dev, shaders, logger.Nop())
	partial := Handles{Texture: h.Texture}
	Release(dev, &partial)
	Release(dev, &partial)
	if dev.textures[h.Texture] {
		t.Errorf("texture was not deleted")
	}
	if !dev.programs[h.Program] {
		t.Errorf("program deleted through a handle that did not hold it")
	}
}
