package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadFlappy loads the game configuration.
// Search order: customPath -> ~/.arcade/configs/flappy.yaml -> ./configs/flappy.yaml -> embedded default.
// Files only need to set the keys they change; the rest keep their defaults.
func LoadFlappy(customPath string) (FlappyConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return FlappyConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return FlappyConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("flappy.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/flappy.yaml"); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultFlappyYAML)
	if err != nil {
		return DefaultFlappyConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML over the built-in defaults and validates the result.
func Parse(data []byte) (FlappyConfig, error) {
	cfg := DefaultFlappyConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FlappyConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return FlappyConfig{}, err
	}
	return cfg, nil
}

// Marshal encodes the configuration as YAML.
func Marshal(cfg FlappyConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// Validate reports the first parameter that would break the simulation.
func (c FlappyConfig) Validate() error {
	positive := []struct {
		key string
		val float64
	}{
		{"world.points_per_meter", c.World.PointsPerMeter},
		{"bird.x_divisor", c.Bird.XDivisor},
		{"bird.width", c.Bird.Width},
		{"bird.height", c.Bird.Height},
		{"bird.flap_frame_time", c.Bird.FlapFrameTime},
		{"pipes.width", c.Pipes.Width},
		{"pipes.height", c.Pipes.Height},
		{"pipes.gap", c.Pipes.Gap},
		{"pipes.spawn_interval", c.Pipes.SpawnInterval},
		{"pipes.move_duration_per_point", c.Pipes.MoveDurationPerPoint},
		{"ground.tile_width", c.Ground.TileWidth},
		{"ground.height", c.Ground.Height},
		{"ground.move_duration_per_point", c.Ground.MoveDurationPerPoint},
		{"skyline.tile_width", c.Skyline.TileWidth},
		{"skyline.move_duration_per_point", c.Skyline.MoveDurationPerPoint},
		{"flash.phase", c.Flash.Phase},
		{"cell.width", c.Cell.Width},
		{"cell.height", c.Cell.Height},
	}
	for _, p := range positive {
		if p.val <= 0 {
			return fmt.Errorf("config: %s must be positive, got %v", p.key, p.val)
		}
	}

	if c.Bird.Mass < 0 {
		return fmt.Errorf("config: bird.mass must not be negative, got %v", c.Bird.Mass)
	}
	if c.Flash.Repeats < 1 {
		return fmt.Errorf("config: flash.repeats must be at least 1, got %d", c.Flash.Repeats)
	}
	if c.Bird.MinRotation > c.Bird.MaxRotation {
		return fmt.Errorf("config: bird.min_rotation %v exceeds bird.max_rotation %v",
			c.Bird.MinRotation, c.Bird.MaxRotation)
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}
