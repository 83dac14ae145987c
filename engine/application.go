package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/folio/engine/core"
)

type Backend string

const (
	BackendOpenGL   Backend = "opengl"
	BackendHeadless Backend = "headless"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"start_pos_y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"start_width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"start_height"`
	// The application name used in windowing, if applicable.
	Name     string `toml:"name"`
	LogLevel string `toml:"log_level"`
	// PixelRatio overrides the ratio reported by the platform when positive.
	PixelRatio float32 `toml:"pixel_ratio"`
	// Seed for every random scene placement. Zero picks one from the clock.
	Seed    uint64  `toml:"seed"`
	Backend Backend `toml:"backend"`
	// ContentPath points at a content file that replaces the built-in one.
	ContentPath string `toml:"content_path"`
	// Watch reloads ContentPath when it changes on disk.
	Watch bool `toml:"watch"`
	// Frames rendered per section by the snapshot command.
	Frames    int    `toml:"frames"`
	OutputDir string `toml:"output_dir"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		StartPosX:   100,
		StartPosY:   100,
		StartWidth:  1280,
		StartHeight: 720,
		Name:        "Folio",
		LogLevel:    "info",
		Seed:        0,
		Backend:     BackendOpenGL,
		Frames:      60,
		OutputDir:   "snapshots",
	}
}

// LoadApplicationConfig reads a TOML file over the defaults. A missing file
// is not an error and yields the defaults.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	config := DefaultApplicationConfig()
	if len(path) == 0 {
		return config, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		core.LogDebug("no config at %s, using defaults", path)
		return config, nil
	}
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

func (c *ApplicationConfig) Validate() error {
	if c.StartWidth == 0 || c.StartHeight == 0 {
		return fmt.Errorf("window size must be positive, got %dx%d: %w", c.StartWidth, c.StartHeight, core.ErrInvalidConfig)
	}
	switch c.Backend {
	case BackendOpenGL, BackendHeadless:
	default:
		return fmt.Errorf("unknown backend %q: %w", c.Backend, core.ErrInvalidConfig)
	}
	if c.Frames < 1 {
		return fmt.Errorf("frames must be at least 1, got %d: %w", c.Frames, core.ErrInvalidConfig)
	}
	if c.PixelRatio < 0 {
		return fmt.Errorf("pixel ratio must not be negative: %w", core.ErrInvalidConfig)
	}
	return nil
}
