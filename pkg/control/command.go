// Package control is the remote side of a wall: a websocket endpoint
// that moves the content, tunes the seam blend and switches modes.
//
// Each message is a JSON command with a type field t and an optional id
// that is echoed in the reply:
//
//	{"id":"1","t":"target","rect":[0,0,2520,1080]}
//	{"id":"2","t":"blend","seam":[1080,0,1440,1080],"side":"right","alpha":0.8,"mode":"gamma"}
//	{"id":"3","t":"legacy","left":true,"seam":[1080,0,1440,1080],"gamma":2.2,"alpha":0.8}
//	{"id":"4","t":"mode","mode":"left"}
//	{"id":"5","t":"preset","name":"calibrated"}
//	{"id":"6","t":"state"}
//
// Replies look like {"id":"1","ok":true} or {"id":"1","ok":false,"err":"..."},
// state replies carry the current placement.
package control

import (
	"errors"
	"fmt"

	"github.com/blendwall/blendwall/pkg/blend"
	"github.com/blendwall/blendwall/pkg/geometry"
	"github.com/blendwall/blendwall/pkg/wall"
	"github.com/goccy/go-json"
)

type PT string

const (
	Target PT = "target"
	Blend  PT = "blend"
	Legacy PT = "legacy"
	Mode   PT = "mode"
	Preset PT = "preset"
	State  PT = "state"
)

type Command struct {
	Id   string      `json:"id,omitempty"`
	T    PT          `json:"t"`
	Rect *[4]float64 `json:"rect,omitempty"`
	Seam *[4]float64 `json:"seam,omitempty"`
	// Side is the edge the ramp fades toward: left or right.
	Side  string   `json:"side,omitempty"`
	Left  *bool    `json:"left,omitempty"`
	Alpha *float64 `json:"alpha,omitempty"`
	Gamma float64  `json:"gamma,omitempty"`
	// Mode is the wall mode of a mode command and the blend mode of a blend one.
	Mode string `json:"mode,omitempty"`
	Name string `json:"name,omitempty"`
}

type Reply struct {
	Id    string    `json:"id,omitempty"`
	Ok    bool      `json:"ok"`
	Err   string    `json:"err,omitempty"`
	State *Snapshot `json:"state,omitempty"`
}

// Snapshot is the placement as sent over the wire.
type Snapshot struct {
	Mode   string      `json:"mode"`
	Window [4]float64  `json:"window"`
	Target [4]float64  `json:"target"`
	Seam   [4]float64  `json:"seam"`
	Blend  *BlendState `json:"blend,omitempty"`
}

type BlendState struct {
	Side  string  `json:"side"`
	Alpha float64 `json:"alpha"`
	Gamma float64 `json:"gamma"`
	Mode  string  `json:"mode"`
}

// Wall is what the commands drive, a wall.Controller.
type Wall interface {
	SetRect(r geometry.Rect)
	SetBlend(spec blend.Spec)
	Switch(mode wall.Mode) (wall.Placement, bool)
	ApplyPreset(name string) (wall.Placement, error)
	Placement() wall.Placement
}

var (
	errNoRect  = errors.New("rect is missing")
	errNoSeam  = errors.New("seam is missing")
	errNoAlpha = errors.New("alpha is missing")
	errAlpha   = errors.New("alpha must be in [0, 1]")
)

// Handle decodes one command and runs it.
func Handle(w Wall, data []byte) Reply {
	var c Command
	if err := json.Unmarshal(data, &c); err != nil {
		return Reply{Err: fmt.Sprintf("bad command: %v", err)}
	}
	r := Reply{Id: c.Id}
	if err := run(w, c, &r); err != nil {
		r.Err = err.Error()
		return r
	}
	r.Ok = true
	return r
}

func run(w Wall, c Command, r *Reply) error {
	switch c.T {
	case Target:
		if c.Rect == nil {
			return errNoRect
		}
		w.SetRect(rect(*c.Rect))
	case Blend:
		spec, err := c.blend()
		if err != nil {
			return err
		}
		w.SetBlend(spec)
	case Legacy:
		if c.Seam == nil {
			return errNoSeam
		}
		if c.Alpha == nil {
			return errNoAlpha
		}
		if !validAlpha(*c.Alpha) {
			return errAlpha
		}
		w.SetBlend(blend.Legacy(c.Left != nil && *c.Left, rect(*c.Seam), c.Gamma, *c.Alpha))
	case Mode:
		mode, err := wall.ParseMode(c.Mode)
		if err != nil {
			return err
		}
		w.Switch(mode)
	case Preset:
		if _, err := w.ApplyPreset(c.Name); err != nil {
			return err
		}
	case State:
	default:
		return fmt.Errorf("unknown command %q", c.T)
	}
	r.State = snapshot(w.Placement())
	return nil
}

func (c Command) blend() (blend.Spec, error) {
	if c.Seam == nil {
		return blend.Spec{}, errNoSeam
	}
	spec := blend.Spec{Seam: rect(*c.Seam), Alpha: 1, Gamma: c.Gamma}
	if c.Alpha != nil {
		if !validAlpha(*c.Alpha) {
			return spec, errAlpha
		}
		spec.Alpha = *c.Alpha
	}
	var err error
	if c.Side != "" {
		if spec.Side, err = blend.ParseSide(c.Side); err != nil {
			return spec, err
		}
	}
	if spec.Mode, err = blend.ParseMode(c.Mode); err != nil {
		return spec, err
	}
	return spec, nil
}

func validAlpha(a float64) bool { return a >= 0 && a <= 1 }

func snapshot(p wall.Placement) *Snapshot {
	s := Snapshot{
		Mode:   p.Mode.String(),
		Window: array(p.Window),
		Target: array(p.Target),
		Seam:   array(p.Seam),
	}
	if p.Blend != nil {
		s.Blend = &BlendState{
			Side:  p.Blend.Side.String(),
			Alpha: p.Blend.Alpha,
			Gamma: p.Blend.Gamma,
			Mode:  p.Blend.Mode.String(),
		}
	}
	return &s
}

func rect(v [4]float64) geometry.Rect {
	return geometry.Rect{Left: v[0], Top: v[1], Right: v[2], Bottom: v[3]}
}

func array(r geometry.Rect) [4]float64 { return [4]float64{r.Left, r.Top, r.Right, r.Bottom} }
