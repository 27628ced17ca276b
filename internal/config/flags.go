package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagTopology   = flag.String("topology", "", "Face mesh topology file (.obj, .glb, .gltf, .yaml)")
	flagListen     = flag.String("listen", "", "Landmark feed listen address")
	flagReplay     = flag.String("replay", "", "Replay a .jsonl landmark recording instead of listening")
	flagRecord     = flag.String("record", "", "Record received landmarks to a .jsonl file")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagTopology != "" {
		cfg.Mesh.Topology = *flagTopology
	}
	if *flagListen != "" {
		cfg.Feed.Listen = *flagListen
	}
	if *flagReplay != "" {
		cfg.Feed.Replay = *flagReplay
	}
	if *flagRecord != "" {
		cfg.Feed.Record = *flagRecord
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
}
