// Package config centralizes all tunable game parameters.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Field dimensions in logical units.
const (
	FieldWidth  = 1280
	FieldHeight = 720
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MaxTermWidth          = 160 // Max render columns
	MaxTermHeight         = 48  // Max render rows
	MaxUsernameLength     = 16  // Maximum display length for player names
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Leaderboard
const (
	LeaderboardSize = 5
)

// Config holds every simulation tunable. Zero values are not meaningful;
// start from Default and overlay a file with Load.
type Config struct {
	Field    FieldConfig    `yaml:"field"`
	Tick     TickConfig     `yaml:"tick"`
	Ball     BallConfig     `yaml:"ball"`
	Paddle   PaddleConfig   `yaml:"paddle"`
	Blocks   BlocksConfig   `yaml:"blocks"`
	PowerUps PowerUpsConfig `yaml:"powerups"`
	Level    LevelConfig    `yaml:"level"`
	Cheats   CheatsConfig   `yaml:"cheats"`
	Score    ScoreConfig    `yaml:"score"`
}

type FieldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type TickConfig struct {
	Period time.Duration `yaml:"period"`
}

type BallConfig struct {
	Radius float64 `yaml:"radius"`
	Speed  float64 `yaml:"speed"`
}

type PaddleConfig struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	Speed        float64 `yaml:"speed"`
	BottomOffset float64 `yaml:"bottom_offset"` // distance of the paddle centre from the bottom edge
}

// BlocksConfig describes the static grid and the moving blocks of each level.
type BlocksConfig struct {
	Rows         int     `yaml:"rows"`
	Columns      int     `yaml:"columns"`
	RowHeight    float64 `yaml:"row_height"`
	MovingWidth  float64 `yaml:"moving_width"`
	MovingHeight float64 `yaml:"moving_height"`
	MovingMinY   float64 `yaml:"moving_min_y"`
	MovingMaxY   float64 `yaml:"moving_max_y"`
	MovingMinSpd float64 `yaml:"moving_min_speed"`
	MovingMaxSpd float64 `yaml:"moving_max_speed"`
	PlaceTries   int     `yaml:"place_tries"`
}

type PowerUpsConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Width       float64       `yaml:"width"`
	Height      float64       `yaml:"height"`
	MinX        float64       `yaml:"min_x"`
	MaxX        float64       `yaml:"max_x"`
	MinY        float64       `yaml:"min_y"`
	MaxY        float64       `yaml:"max_y"`
	Lifetime    time.Duration `yaml:"lifetime"`
	Effect      time.Duration `yaml:"effect"`
	MinInterval time.Duration `yaml:"min_interval"`
	MaxInterval time.Duration `yaml:"max_interval"`
	MinBatch    int           `yaml:"min_batch"`
	MaxBatch    int           `yaml:"max_batch"`
	Splits      int           `yaml:"splits"`
	SplitOffset float64       `yaml:"split_offset"`
}

type LevelConfig struct {
	PaddleWidthDivisor float64 `yaml:"paddle_width_divisor"`
	PaddleSpeedStep    float64 `yaml:"paddle_speed_step"`
	BallSpeedStep      float64 `yaml:"ball_speed_step"`
	MaxStartLevel      int     `yaml:"max_start_level"`
}

type CheatsConfig struct {
	PaddleSpeedStep float64 `yaml:"paddle_speed_step"`
	BallSpeedStep   float64 `yaml:"ball_speed_step"`
	PaddleSizeScale float64 `yaml:"paddle_size_scale"`
}

type ScoreConfig struct {
	PerHit int `yaml:"per_hit"`
}

// Default returns the stock game tuning.
func Default() Config {
	return Config{
		Field: FieldConfig{Width: FieldWidth, Height: FieldHeight},
		Tick:  TickConfig{Period: 5 * time.Millisecond},
		Ball:  BallConfig{Radius: 10, Speed: 4},
		Paddle: PaddleConfig{
			Width:        190,
			Height:       20,
			Speed:        8,
			BottomOffset: 30,
		},
		Blocks: BlocksConfig{
			Rows:         3,
			Columns:      6,
			RowHeight:    80,
			MovingWidth:  80,
			MovingHeight: 40,
			MovingMinY:   280,
			MovingMaxY:   450,
			MovingMinSpd: 1,
			MovingMaxSpd: 4,
			PlaceTries:   100,
		},
		PowerUps: PowerUpsConfig{
			Enabled:     true,
			Width:       40,
			Height:      40,
			MinX:        50,
			MaxX:        1230,
			MinY:        280,
			MaxY:        650,
			Lifetime:    10 * time.Second,
			Effect:      5 * time.Second,
			MinInterval: 5 * time.Second,
			MaxInterval: 15 * time.Second,
			MinBatch:    1,
			MaxBatch:    3,
			Splits:      3,
			SplitOffset: 10,
		},
		Level: LevelConfig{
			PaddleWidthDivisor: 1.2,
			PaddleSpeedStep:    2,
			BallSpeedStep:      1.2,
			MaxStartLevel:      3,
		},
		Cheats: CheatsConfig{
			PaddleSpeedStep: 2,
			BallSpeedStep:   1.2,
			PaddleSizeScale: 1.2,
		},
		Score: ScoreConfig{PerHit: 1},
	}
}

// Load reads a YAML file and overlays it on the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode overlays YAML from r on the defaults and validates the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects tunings the simulation cannot run with.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, msg string) {
		if !ok {
			errs = append(errs, errors.New(msg))
		}
	}
	check(c.Field.Width > 0 && c.Field.Height > 0, "field dimensions must be positive")
	check(c.Tick.Period > 0, "tick period must be positive")
	check(c.Ball.Radius > 0, "ball radius must be positive")
	check(c.Paddle.Width > 0 && c.Paddle.Height > 0, "paddle dimensions must be positive")
	check(c.Blocks.Rows > 0 && c.Blocks.Columns > 0, "block grid must have rows and columns")
	check(c.Blocks.MovingMinY <= c.Blocks.MovingMaxY, "moving block y range is inverted")
	check(c.Blocks.MovingMinSpd <= c.Blocks.MovingMaxSpd, "moving block speed range is inverted")
	check(c.PowerUps.MinInterval <= c.PowerUps.MaxInterval, "power-up interval range is inverted")
	check(c.PowerUps.MinBatch >= 1 && c.PowerUps.MinBatch <= c.PowerUps.MaxBatch, "power-up batch range is invalid")
	check(c.PowerUps.MinX <= c.PowerUps.MaxX && c.PowerUps.MinY <= c.PowerUps.MaxY, "power-up area is inverted")
	check(c.Level.PaddleWidthDivisor > 0, "paddle width divisor must be positive")
	check(c.Level.MaxStartLevel >= 1, "max start level must be at least 1")
	return errors.Join(errs...)
}
