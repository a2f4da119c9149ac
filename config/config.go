// Package config holds the run configuration shared by the commands.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Logging LoggingConfig `toml:"logging"`
	Planner PlannerConfig `toml:"planner"`
	Viewer  ViewerConfig  `toml:"viewer"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type PlannerConfig struct {
	Scene    string        `toml:"scene"`
	Watch    bool          `toml:"watch"`
	Debounce time.Duration `toml:"debounce"`
	Step     float64       `toml:"step"`      // world units per simulated tick
	MaxSteps int           `toml:"max_steps"` // bound on a simulated walk
}

type ViewerConfig struct {
	CellPixels int `toml:"cell_pixels"`
	PanelWidth int `toml:"panel_width"`
}

// Load reads a TOML file over the defaults. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.clamp()
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaults()
}

func defaults() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Planner: PlannerConfig{
			Scene:    "corridor.yaml",
			Debounce: 100 * time.Millisecond,
			Step:     0.25,
			MaxSteps: 1000,
		},
		Viewer: ViewerConfig{
			CellPixels: 40,
			PanelWidth: 220,
		},
	}
}

func (c *Config) clamp() {
	d := defaults()
	if c.Planner.Step <= 0 {
		c.Planner.Step = d.Planner.Step
	}
	if c.Planner.MaxSteps <= 0 {
		c.Planner.MaxSteps = d.Planner.MaxSteps
	}
	if c.Planner.Debounce < 0 {
		c.Planner.Debounce = 0
	}
	if c.Viewer.CellPixels < 4 {
		c.Viewer.CellPixels = d.Viewer.CellPixels
	}
	if c.Viewer.PanelWidth < 0 {
		c.Viewer.PanelWidth = 0
	}
}

// NewLogger builds a zap logger from the logging section. Unknown levels fall
// back to info.
func NewLogger(cfg LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
