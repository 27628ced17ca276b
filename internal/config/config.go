// Package config handles facelit configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds all renderer settings.
type Config struct {
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Video      VideoConfig      `yaml:"video"`
	Mesh       MeshConfig       `yaml:"mesh"`
	Feed       FeedConfig       `yaml:"feed"`
	Lighting   LightingConfig   `yaml:"lighting"`
	Screenshot ScreenshotConfig `yaml:"screenshot"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// VideoConfig describes the camera frame that textures the mesh.
// Landmark coordinates are in pixels of a frame this size.
type VideoConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	StillImage string `yaml:"still_image"` // used instead of feed frames when set
}

// MeshConfig holds face mesh settings.
type MeshConfig struct {
	Topology    string `yaml:"topology"` // .obj, .gltf/.glb or .yaml
	MaxVertices int    `yaml:"max_vertices"`
}

// FeedConfig holds landmark feed settings.
type FeedConfig struct {
	Listen string `yaml:"listen"`
	Path   string `yaml:"path"`
	Record string `yaml:"record"` // append received detections to this .jsonl
	Replay string `yaml:"replay"` // play a .jsonl recording instead of listening
}

// LightingConfig holds the orbiting point light.
type LightingConfig struct {
	Radius float64 `yaml:"radius"`
	Height float64 `yaml:"height"`
	Speed  float64 `yaml:"speed"` // radians per second
}

// ScreenshotConfig holds F12 capture settings.
type ScreenshotConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // png or webp
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      640,
			Height:     480,
			Fullscreen: false,
			VSync:      true,
		},
		Video: VideoConfig{
			Width:  640,
			Height: 480,
		},
		Mesh: MeshConfig{
			Topology:    "canonical_face_model.obj",
			MaxVertices: 478,
		},
		Feed: FeedConfig{
			Listen: "127.0.0.1:8765",
			Path:   "/landmarks",
		},
		Lighting: LightingConfig{
			Radius: 4,
			Height: 1.5,
			Speed:  3,
		},
		Screenshot: ScreenshotConfig{
			Dir:    "screenshots",
			Format: "png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics size %dx%d must be positive", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Video.Width <= 0 || c.Video.Height <= 0 {
		errs = append(errs, fmt.Errorf("video size %dx%d must be positive", c.Video.Width, c.Video.Height))
	}
	if c.Mesh.MaxVertices < 1 || c.Mesh.MaxVertices > 1<<16 {
		errs = append(errs, fmt.Errorf("mesh.max_vertices %d out of range [1, 65536]", c.Mesh.MaxVertices))
	}
	if c.Mesh.Topology == "" {
		errs = append(errs, errors.New("mesh.topology is required"))
	}
	if c.Feed.Replay == "" && c.Feed.Listen == "" {
		errs = append(errs, errors.New("feed.listen is required without feed.replay"))
	}
	if c.Feed.Path != "" && !strings.HasPrefix(c.Feed.Path, "/") {
		errs = append(errs, fmt.Errorf("feed.path %q must start with /", c.Feed.Path))
	}
	switch strings.ToLower(c.Screenshot.Format) {
	case "png", "webp":
	default:
		errs = append(errs, fmt.Errorf("screenshot.format %q: want png or webp", c.Screenshot.Format))
	}
	return errors.Join(errs...)
}
