package config

import (
	"fmt"
	"os"

	"github.com/san-kum/accretion/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTimeStep  = 0.05
	DefaultSubSteps  = 10
	DefaultMaxSteps  = 10000
	DefaultSaveSteps = 100
	DefaultWidth     = 1200
	DefaultHeight    = 800
	DefaultDensity   = 2.0
	DefaultFPS       = 30
	DefaultBodies    = 200
)

type Config struct {
	Integrator         string          `yaml:"integrator"`
	TimeStep           float64         `yaml:"time_step"`
	SubSteps           int             `yaml:"sub_steps_per_frame"`
	Drag               float64         `yaml:"drag_coefficient"`
	CollisionThreshold float64         `yaml:"collision_threshold"`
	MinBodies          int             `yaml:"min_bodies"`
	MaxSteps           int             `yaml:"max_steps"`
	ValidateState      bool            `yaml:"validate_state"`
	SaveSteps          int             `yaml:"save_steps"`
	Seed               int64           `yaml:"seed"`
	Lock               LockConfig      `yaml:"lock"`
	View               ViewConfig      `yaml:"view"`
	InitState          InitStateConfig `yaml:"init_state"`
}

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (p Point) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

type LockConfig struct {
	Enabled bool  `yaml:"enabled"`
	Index   int   `yaml:"index"`
	Anchor  Point `yaml:"anchor"`
}

// ViewConfig controls rendering only; it never affects the physics.
type ViewConfig struct {
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Density float64 `yaml:"density"`
	FPS     int     `yaml:"fps"`
	Theme   string  `yaml:"theme"`
}

type InitStateConfig struct {
	Generator   string       `yaml:"generator"`
	NumBodies   int          `yaml:"num_bodies"`
	Radius      float64      `yaml:"radius"`
	CentralMass float64      `yaml:"central_mass"`
	MeanMass    float64      `yaml:"mean_mass"`
	MassSpread  float64      `yaml:"mass_spread"`
	Speed       float64      `yaml:"speed"`
	Bodies      []BodyConfig `yaml:"bodies,omitempty"`
}

// BodyConfig describes one explicitly placed body. Color is a hex string
// such as "#ff8800"; an empty color picks one from the palette.
type BodyConfig struct {
	Pos   Point   `yaml:"pos"`
	Vel   Point   `yaml:"vel"`
	Mass  float64 `yaml:"mass"`
	Color string  `yaml:"color,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator:         "rk4",
		TimeStep:           DefaultTimeStep,
		SubSteps:           DefaultSubSteps,
		Drag:               1.0,
		CollisionThreshold: 1.0,
		MinBodies:          1,
		MaxSteps:           DefaultMaxSteps,
		ValidateState:      true,
		SaveSteps:          DefaultSaveSteps,
		Seed:               1,
		Lock: LockConfig{
			Anchor: Point{X: DefaultWidth / 2, Y: DefaultHeight / 2},
		},
		View: ViewConfig{
			Width:   DefaultWidth,
			Height:  DefaultHeight,
			Density: DefaultDensity,
			FPS:     DefaultFPS,
			Theme:   "nebula",
		},
		InitState: InitStateConfig{
			Generator:   "disk",
			NumBodies:   DefaultBodies,
			Radius:      300,
			CentralMass: 1000,
			MeanMass:    1,
			MassSpread:  0.3,
			Speed:       1,
		},
	}
}

// Load reads a YAML file on top of the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.InitState.Bodies = append([]BodyConfig(nil), c.InitState.Bodies...)
	return &cp
}

// Simulation converts c into the driver configuration and validates it.
func (c *Config) Simulation() (dynamo.Config, error) {
	sc := dynamo.Config{
		TimeStep:           c.TimeStep,
		SubSteps:           c.SubSteps,
		Drag:               c.Drag,
		CollisionThreshold: c.CollisionThreshold,
		MinBodies:          c.MinBodies,
		MaxSteps:           c.MaxSteps,
		Lock:               c.Lock.Enabled,
		Anchor:             c.Lock.Anchor.Vec(),
		ValidateState:      c.ValidateState,
	}
	if err := sc.Validate(); err != nil {
		return dynamo.Config{}, err
	}
	return sc, nil
}

// Validate checks the options that the driver does not see.
func (c *Config) Validate() error {
	if _, err := c.Simulation(); err != nil {
		return err
	}
	if c.SaveSteps < 0 {
		return fmt.Errorf("%w: save_steps must not be negative, got %d", dynamo.ErrInvalidConfig, c.SaveSteps)
	}
	if c.View.Width <= 0 || c.View.Height <= 0 {
		return fmt.Errorf("%w: view size must be positive, got %dx%d", dynamo.ErrInvalidConfig, c.View.Width, c.View.Height)
	}
	if c.View.FPS <= 0 {
		return fmt.Errorf("%w: view fps must be positive, got %d", dynamo.ErrInvalidConfig, c.View.FPS)
	}
	if len(c.InitState.Bodies) == 0 && c.InitState.NumBodies < 0 {
		return fmt.Errorf("%w: num_bodies must not be negative, got %d", dynamo.ErrInvalidConfig, c.InitState.NumBodies)
	}
	return nil
}

// Tunable lists the keys accepted by Set.
var Tunable = []string{"time_step", "sub_steps_per_frame", "drag_coefficient", "collision_threshold", "min_bodies", "num_bodies", "speed", "mass_spread"}

// Set assigns a numeric option by its YAML key. Integer options are
// truncated.
func (c *Config) Set(key string, v float64) error {
	switch key {
	case "time_step":
		c.TimeStep = v
	case "sub_steps_per_frame":
		c.SubSteps = int(v)
	case "drag_coefficient":
		c.Drag = v
	case "collision_threshold":
		c.CollisionThreshold = v
	case "min_bodies":
		c.MinBodies = int(v)
	case "num_bodies":
		c.InitState.NumBodies = int(v)
	case "speed":
		c.InitState.Speed = v
	case "mass_spread":
		c.InitState.MassSpread = v
	default:
		return fmt.Errorf("%w: unknown option %q (tunable: %v)", dynamo.ErrInvalidConfig, key, Tunable)
	}
	return nil
}
