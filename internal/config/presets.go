package config

import "sort"

// Presets holds named starting points per initial-state generator.
var Presets = map[string]map[string]*Config{
	"disk": {
		"small": preset(func(c *Config) {
			c.InitState = InitStateConfig{Generator: "disk", NumBodies: 60, Radius: 200, CentralMass: 500, MeanMass: 1, MassSpread: 0.2, Speed: 1}
		}),
		"dense": preset(func(c *Config) {
			c.InitState = InitStateConfig{Generator: "disk", NumBodies: 400, Radius: 300, CentralMass: 2000, MeanMass: 0.5, MassSpread: 0.3, Speed: 1}
			c.CollisionThreshold = 1.5
		}),
		"locked": preset(func(c *Config) {
			c.InitState = InitStateConfig{Generator: "disk", NumBodies: 150, Radius: 250, CentralMass: 1000, MeanMass: 1, MassSpread: 0.3, Speed: 1}
			c.Lock.Enabled = true
			c.Lock.Index = 0
		}),
	},
	"ring": {
		"thin": preset(func(c *Config) {
			c.InitState = InitStateConfig{Generator: "ring", NumBodies: 120, Radius: 250, CentralMass: 800, MeanMass: 0.5, MassSpread: 0.1, Speed: 1}
		}),
		"slow": preset(func(c *Config) {
			c.InitState = InitStateConfig{Generator: "ring", NumBodies: 120, Radius: 250, CentralMass: 800, MeanMass: 0.5, MassSpread: 0.1, Speed: 0.7}
			c.Drag = 0.999
		}),
	},
	"cluster": {
		"cold": preset(func(c *Config) {
			c.InitState = InitStateConfig{Generator: "cluster", NumBodies: 150, Radius: 200, MeanMass: 2, MassSpread: 0.5}
			c.MinBodies = 2
		}),
		"crowded": preset(func(c *Config) {
			c.InitState = InitStateConfig{Generator: "cluster", NumBodies: 500, Radius: 250, MeanMass: 1, MassSpread: 0.5}
			c.MinBodies = 2
			c.TimeStep = 0.02
		}),
	},
	"binary": {
		"close": preset(func(c *Config) {
			c.InitState = InitStateConfig{Generator: "binary", Radius: 40, CentralMass: 200, Speed: 1}
			c.MaxSteps = 2000
		}),
		"wide": preset(func(c *Config) {
			c.InitState = InitStateConfig{Generator: "binary", Radius: 150, CentralMass: 500, Speed: 1}
			c.MaxSteps = 4000
		}),
	},
}

func preset(fn func(*Config)) *Config {
	c := DefaultConfig()
	fn(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(generator, name string) *Config {
	byName, ok := Presets[generator]
	if !ok {
		return nil
	}
	cfg, ok := byName[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(generator string) []string {
	byName, ok := Presets[generator]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generators lists the generators that have presets.
func Generators() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
