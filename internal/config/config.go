// Package config provides YAML-based configuration loading for the game.
package config

// FlappyConfig contains all tunable parameters of the game.
type FlappyConfig struct {
	World   WorldConfig  `yaml:"world"`
	Bird    BirdConfig   `yaml:"bird"`
	Pipes   PipesConfig  `yaml:"pipes"`
	Ground  ScrollConfig `yaml:"ground"`
	Skyline ScrollConfig `yaml:"skyline"`
	Flash   FlashConfig  `yaml:"flash"`
	Cell    CellConfig   `yaml:"cell"`
}

// WorldConfig defines physics world parameters.
type WorldConfig struct {
	Gravity        float64 `yaml:"gravity"`          // Downward acceleration in m/s²
	PointsPerMeter float64 `yaml:"points_per_meter"` // Scene points per physics meter
}

// BirdConfig defines the player's bird.
type BirdConfig struct {
	XDivisor      float64 `yaml:"x_divisor"` // Spawn x is frame width divided by this
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"` // Body radius is half the height
	Mass          float64 `yaml:"mass"`   // 0 derives mass from the body's area
	Impulse       float64 `yaml:"impulse"`
	FlapFrameTime float64 `yaml:"flap_frame_time"` // Seconds per wing frame
	RiseFactor    float64 `yaml:"rise_factor"`     // Rotation per unit of upward velocity
	FallFactor    float64 `yaml:"fall_factor"`     // Rotation per unit of downward velocity
	MinRotation   float64 `yaml:"min_rotation"`
	MaxRotation   float64 `yaml:"max_rotation"`
	TumbleAngle   float64 `yaml:"tumble_angle"`
	TumbleTime    float64 `yaml:"tumble_time"`
}

// PipesConfig defines obstacle parameters.
type PipesConfig struct {
	Width                float64 `yaml:"width"`
	Height               float64 `yaml:"height"`
	Gap                  float64 `yaml:"gap"`                     // Vertical gap between the two pipes
	SpawnInterval        float64 `yaml:"spawn_interval"`          // Seconds between pairs
	MoveDurationPerPoint float64 `yaml:"move_duration_per_point"` // Seconds to travel one point
}

// ScrollConfig defines a horizontally looping background strip.
type ScrollConfig struct {
	TileWidth            float64 `yaml:"tile_width"`
	Height               float64 `yaml:"height"`
	MoveDurationPerPoint float64 `yaml:"move_duration_per_point"`
}

// FlashConfig defines the background flash played on a crash.
type FlashConfig struct {
	Repeats int     `yaml:"repeats"`
	Phase   float64 `yaml:"phase"` // Seconds each color is held
}

// CellConfig maps terminal cells to scene points.
type CellConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}
