package config

import (
	_ "embed"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultFlappyConfig returns the built-in configuration.
// Kept in sync with defaults/flappy.yaml.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		World: WorldConfig{
			Gravity:        5.0,
			PointsPerMeter: 150,
		},
		Bird: BirdConfig{
			XDivisor:      2.8,
			Width:         34,
			Height:        24,
			Mass:          0,
			Impulse:       8,
			FlapFrameTime: 0.2,
			RiseFactor:    0.001,
			FallFactor:    0.002,
			MinRotation:   -1.0,
			MaxRotation:   0.5,
			TumbleAngle:   0.01,
			TumbleTime:    0.003,
		},
		Pipes: PipesConfig{
			Width:                52,
			Height:               240,
			Gap:                  170,
			SpawnInterval:        2.0,
			MoveDurationPerPoint: 0.01,
		},
		Ground: ScrollConfig{
			TileWidth:            48,
			Height:               32,
			MoveDurationPerPoint: 0.01,
		},
		Skyline: ScrollConfig{
			TileWidth:            96,
			Height:               64,
			MoveDurationPerPoint: 0.1,
		},
		Flash: FlashConfig{
			Repeats: 4,
			Phase:   0.05,
		},
		Cell: CellConfig{
			Width:  8,
			Height: 16,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultFlappyYAML
}
