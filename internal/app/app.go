// Package app implements the render loop of the face mesh viewer.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/facelit/internal/config"
	"github.com/Faultbox/facelit/internal/engine/debug"
	"github.com/Faultbox/facelit/internal/engine/gpu"
	"github.com/Faultbox/facelit/internal/engine/input"
	"github.com/Faultbox/facelit/internal/engine/lighting"
	"github.com/Faultbox/facelit/internal/engine/scene"
	"github.com/Faultbox/facelit/internal/engine/window"
	"github.com/Faultbox/facelit/internal/facemesh"
	"github.com/Faultbox/facelit/internal/logger"
)

// Title is the window title.
const Title = "facelit"

// App owns the window, GPU resources and inputs.
type App struct {
	cfg     *config.Config
	running bool

	window      *window.Window
	input       *input.Input
	dev         gpu.Device
	renderer    *scene.Renderer
	sources     *sources
	driver      *Driver
	screenshots *debug.ScreenshotCapture

	cancel context.CancelFunc
}

// New loads the topology, opens the window and builds the pipeline. Any
// failure here is fatal for the caller.
func New(cfg *config.Config) (*App, error) {
	logger.Info("initializing facelit",
		zap.String("topology", cfg.Mesh.Topology),
		zap.Int("videoWidth", cfg.Video.Width),
		zap.Int("videoHeight", cfg.Video.Height),
	)

	topo, err := facemesh.LoadTopology(cfg.Mesh.Topology, cfg.Mesh.MaxVertices)
	if err != nil {
		return nil, fmt.Errorf("loading topology: %w", err)
	}
	logger.Info("topology loaded",
		zap.Int("triangles", topo.TriangleCount()),
		zap.Int("vertices", topo.VertexCount()),
		zap.Int("unreferenced", len(topo.Unreferenced())),
	)

	a := &App{cfg: cfg}

	// The OpenGL context comes with the window.
	a.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    4,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	a.dev, err = gpu.NewGL()
	if err != nil {
		a.Close()
		return nil, err
	}

	a.renderer, err = scene.NewRenderer(a.dev, topo, scene.Config{
		FrameWidth:  cfg.Video.Width,
		FrameHeight: cfg.Video.Height,
		MaxVertices: cfg.Mesh.MaxVertices,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	a.renderer.Resize(a.window.DrawableSize())

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.sources, err = openSources(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	orbit := lighting.Orbit{
		Radius: cfg.Lighting.Radius,
		Height: cfg.Lighting.Height,
		Speed:  cfg.Lighting.Speed,
	}
	a.driver = NewDriver(a.sources.landmarks, a.sources.frames, a.renderer, topo, orbit)
	a.input = input.New()
	a.screenshots = debug.NewScreenshotCapture(cfg.Screenshot.Dir, Title, cfg.Screenshot.Format)

	logger.Info("facelit initialized")
	return a, nil
}

// Run starts the render loop and returns when the window is closed.
func (a *App) Run() error {
	a.running = true

	start := time.Now()
	lastTime := start
	frameCount := 0
	fpsTimer := start

	logger.Info("starting render loop")

	for a.running {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		if a.input.Update() {
			a.running = false
			break
		}
		a.handleInput()

		if err := a.driver.RenderFrame(now.Sub(start)); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		// Read back before the swap while the back buffer holds the frame.
		if a.input.IsKeyPressed(sdl.SCANCODE_F12) {
			a.screenshot()
		}

		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			updates, skipped := a.driver.Stats()
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Duration("dt", dt),
				zap.Uint64("meshUpdates", updates),
				zap.Uint64("skipped", skipped),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) handleInput() {
	if _, _, ok := a.input.Resized(); ok {
		a.renderer.Resize(a.window.DrawableSize())
	}
	if a.input.IsKeyPressed(sdl.SCANCODE_ESCAPE) {
		a.running = false
	}
	if a.input.IsKeyPressed(sdl.SCANCODE_F11) {
		if err := a.window.ToggleFullscreen(); err != nil {
			logger.Warn("fullscreen toggle failed", zap.Error(err))
		}
	}
}

func (a *App) screenshot() {
	w, h := a.window.DrawableSize()
	path, err := a.screenshots.Capture(a.dev, w, h)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close releases everything New acquired, in reverse order.
func (a *App) Close() {
	logger.Info("closing facelit")

	if a.cancel != nil {
		a.cancel()
	}
	if a.sources != nil {
		if err := a.sources.close(); err != nil {
			logger.Warn("closing sources", zap.Error(err))
		}
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
