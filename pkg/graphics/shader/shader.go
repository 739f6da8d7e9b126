// Package shader holds the default GLSL program of the wall.
package shader

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/blendwall/blendwall/pkg/render"
)

var (
	//go:embed quad.vert
	vertex string
	//go:embed blend.frag
	fragment string
)

// Default is the quad program with edge blending.
func Default() render.ShaderSource { return render.ShaderSource{Vertex: vertex, Fragment: fragment} }

// Load replaces the default stages with files when their paths are set.
func Load(vertexPath, fragmentPath string) (render.ShaderSource, error) {
	src := Default()
	if vertexPath != "" {
		b, err := os.ReadFile(vertexPath)
		if err != nil {
			return src, fmt.Errorf("vertex shader: %w", err)
		}
		src.Vertex = string(b)
	}
	if fragmentPath != "" {
		b, err := os.ReadFile(fragmentPath)
		if err != nil {
			return src, fmt.Errorf("fragment shader: %w", err)
		}
		src.Fragment = string(b)
	}
	return src, nil
}
