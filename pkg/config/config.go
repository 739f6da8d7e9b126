package config

import (
	"fmt"
	"time"

	"github.com/blendwall/blendwall/pkg/config/monitoring"
	"github.com/blendwall/blendwall/pkg/logger"
	"github.com/spf13/pflag"
)

type Config struct {
	Display    Display
	Content    Content
	Wall       Wall
	Graphics   Graphics
	Control    Control
	Monitoring monitoring.Config
	Log        Log
}

// Display is the projector output the wall renders to.
type Display struct {
	Index      int
	Title      string `default:"blendwall"`
	Width      int
	Height     int
	Fullscreen bool
	// LockDir keeps one lock file per display index.
	LockDir string
}

// Content is the visual source.
type Content struct {
	// Kind is one of: image, sequence, testcard, none.
	Kind string `default:"image"`
	// Path is a picture file or a directory of pictures.
	Path string
	// URL is fetched into CacheDir and replaces Path,
	// zip archives are unpacked.
	URL      string
	CacheDir string  `default:"cache"`
	Fps      float64 `default:"30"`
	// Once stops a sequence on its last frame instead of looping.
	Once bool
	// Width, Height and Label shape the test card.
	Width  int `default:"1920"`
	Height int `default:"1080"`
	Label  string
}

// Wall describes this projector's part of a two projector wall.
type Wall struct {
	// Mode is one of: none, left, right.
	Mode           string  `default:"none"`
	ProjectorRatio float64 `default:"1.3333333333333333"`
	OverlapRatio   float64 `default:"0.25"`
	Alpha          float64 `default:"0.8"`
	Gamma          float64 `default:"2.2"`
	// Blend is one of: simple, gamma.
	Blend   string `default:"simple"`
	Presets string
	Preset  string
	// Watch reloads the wall section when the config file changes.
	Watch bool
}

type Graphics struct {
	VertexShader   string
	FragmentShader string
	ClearColor     []float32 `default:"[0,0,0,1]"`
	MaxFps         int       `default:"60"`
	GlVersionMajor int       `default:"2"`
	GlVersionMinor int       `default:"1"`
}

// FrameInterval is the shortest time between two draws, 0 means no limit.
func (g Graphics) FrameInterval() time.Duration {
	if g.MaxFps <= 0 {
		return 0
	}
	return time.Second / time.Duration(g.MaxFps)
}

type Control struct {
	Enabled bool
	Address string `default:":9000"`
}

type Log struct {
	Debug bool
	// Json switches from console output to JSON lines.
	Json    bool
	NoColor bool
}

func (l Log) Logger(tag string) logger.Config {
	return logger.Config{Debug: l.Debug, Console: !l.Json, NoColor: l.NoColor, Tag: tag}
}

// Load reads the configuration from path (or the default locations)
// and environment variables.
func Load(path string) (Config, error) {
	var conf Config
	if err := LoadConfig(&conf, path); err != nil {
		return conf, fmt.Errorf("config: %w", err)
	}
	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	switch c.Content.Kind {
	case "image", "sequence", "testcard", "none":
	default:
		return fmt.Errorf("config: unknown content kind %q", c.Content.Kind)
	}
	switch c.Wall.Mode {
	case "none", "left", "right":
	default:
		return fmt.Errorf("config: unknown wall mode %q", c.Wall.Mode)
	}
	if c.Wall.ProjectorRatio <= 0 {
		return fmt.Errorf("config: projector ratio must be positive, got %v", c.Wall.ProjectorRatio)
	}
	if c.Wall.OverlapRatio < 0 || c.Wall.OverlapRatio >= 1 {
		return fmt.Errorf("config: overlap ratio must be in [0, 1), got %v", c.Wall.OverlapRatio)
	}
	if c.Wall.Alpha < 0 || c.Wall.Alpha > 1 {
		return fmt.Errorf("config: blend alpha must be in [0, 1], got %v", c.Wall.Alpha)
	}
	if len(c.Graphics.ClearColor) != 4 {
		return fmt.Errorf("config: clear color needs 4 components, got %v", c.Graphics.ClearColor)
	}
	return nil
}

// Flags are command line overrides, applied on top of the loaded config.
type Flags struct {
	Path    string
	mode    string
	content string
	kind    string
	display int
	debug   bool
	control string
	monPort int
}

func (f *Flags) WithFlags(fs *pflag.FlagSet) *Flags {
	fs.StringVarP(&f.Path, "conf", "c", "", "Set custom configuration file path")
	fs.StringVar(&f.mode, "mode", "", "Wall mode: [none, left, right]")
	fs.StringVar(&f.content, "content", "", "Content path (image file or sequence dir)")
	fs.StringVar(&f.kind, "kind", "", "Content kind: [image, sequence, testcard, none]")
	fs.IntVar(&f.display, "display", 0, "Display index")
	fs.BoolVar(&f.debug, "debug", false, "Debug logs")
	fs.StringVar(&f.control, "control", "", "Websocket control address, enables control")
	fs.IntVar(&f.monPort, "monitoring.port", 0, "Monitoring server port, enables metrics")
	return f
}

// Apply copies every flag that was set explicitly into the config.
func (f *Flags) Apply(fs *pflag.FlagSet, c *Config) {
	if fs.Changed("mode") {
		c.Wall.Mode = f.mode
	}
	if fs.Changed("content") {
		c.Content.Path = f.content
	}
	if fs.Changed("kind") {
		c.Content.Kind = f.kind
	}
	if fs.Changed("display") {
		c.Display.Index = f.display
	}
	if fs.Changed("debug") {
		c.Log.Debug = f.debug
	}
	if fs.Changed("control") {
		c.Control.Enabled = true
		c.Control.Address = f.control
	}
	if fs.Changed("monitoring.port") {
		c.Monitoring.Port = f.monPort
		c.Monitoring.MetricEnabled = true
	}
}
