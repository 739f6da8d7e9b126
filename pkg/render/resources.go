package render

import (
	"errors"
	"fmt"

	"github.com/blendwall/blendwall/pkg/logger"
)

// Handles are the GPU objects of one loop. Zero means not created.
type Handles struct {
	Program uint32
	Texture uint32
}

func (h Handles) Valid() bool { return h.Program != 0 && h.Texture != 0 }

type CompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%v shader compile failed: %s", e.Stage, e.Log)
}

type LinkError struct {
	Log string
}

func (e *LinkError) Error() string { return "program link failed: " + e.Log }

var ErrNoTexture = errors.New("texture allocation failed")

// Acquire builds the program and the content texture.
// On failure it returns zero handles, and whatever was created on the way
// is deleted again.
func Acquire(dev Device, src ShaderSource, log *logger.Logger) (Handles, error) {
	vs, err := compile(dev, VertexStage, src.Vertex, log)
	if err != nil {
		return Handles{}, err
	}
	fs, err := compile(dev, FragmentStage, src.Fragment, log)
	if err != nil {
		dev.DeleteShader(vs)
		return Handles{}, err
	}

	program, info, ok := dev.LinkProgram(vs, fs)
	// the program holds on to them
	dev.DeleteShader(vs)
	dev.DeleteShader(fs)
	if !ok {
		log.Error().Str("info", info).Msg("program link failed")
		if program != 0 {
			dev.DeleteProgram(program)
		}
		resourceErrors.WithLabelValues("link").Inc()
		return Handles{}, &LinkError{Log: info}
	}

	tex := dev.NewTexture()
	if tex == 0 {
		dev.DeleteProgram(program)
		resourceErrors.WithLabelValues("texture").Inc()
		return Handles{}, ErrNoTexture
	}

	log.Debug().Uint32("program", program).Uint32("texture", tex).Msg("GPU resources acquired")
	return Handles{Program: program, Texture: tex}, nil
}

func compile(dev Device, stage ShaderStage, src string, log *logger.Logger) (uint32, error) {
	id, info, ok := dev.CompileShader(stage, src)
	if ok {
		return id, nil
	}
	log.Error().Str("stage", stage.String()).Str("info", info).Msg("shader compile failed")
	if id != 0 {
		dev.DeleteShader(id)
	}
	resourceErrors.WithLabelValues("compile").Inc()
	return 0, &CompileError{Stage: stage, Log: info}
}

// Release deletes the handles and zeroes them.
// Calling it again, or with partially created handles, is fine.
func Release(dev Device, h *Handles) {
	if h == nil {
		return
	}
	if h.Texture != 0 {
		dev.DeleteTexture(h.Texture)
		h.Texture = 0
	}
	if h.Program != 0 {
		dev.DeleteProgram(h.Program)
		h.Program = 0
	}
}
