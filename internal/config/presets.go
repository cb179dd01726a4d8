package config

import (
	"math"
	"sort"

	"github.com/StuyPulse/StuyLib-sub001/internal/sim"
)

func timing(dt, duration float64) sim.Config {
	return sim.Config{Dt: dt, Duration: duration, ValidateState: true}
}

var Presets = map[string]map[string]*Config{
	"flywheel": {
		"spinup": {
			Mechanism: "flywheel", Integrator: "rk4", Controller: "pidff", Sim: timing(0.02, 3),
			Setpoints: sim.Schedule{{At: 0, Value: 50}},
			Gains:     GainsConfig{Kp: 0.5, Ks: 0.1, Kv: 0.12, Ka: 0.02},
			Filters:   FilterConfig{MeasurementRC: 0.02},
			Metrics:   MetricsConfig{Tolerance: 1},
		},
		"bangbang": {
			Mechanism: "flywheel", Integrator: "rk4", Controller: "bangbang", Sim: timing(0.01, 3),
			Setpoints: sim.Schedule{{At: 0, Value: 60}},
			Gains:     GainsConfig{BangBang: 12},
			Metrics:   MetricsConfig{Tolerance: 2},
		},
		"tbh": {
			Mechanism: "flywheel", Integrator: "rk4", Controller: "tbh", Sim: timing(0.02, 5),
			Setpoints: sim.Schedule{{At: 0, Value: 60}},
			Gains:     GainsConfig{TBH: 0.01},
			Metrics:   MetricsConfig{Tolerance: 2},
		},
	},
	"elevator": {
		"lift": {
			Mechanism: "elevator", Integrator: "rk4", Controller: "pidff", Sim: timing(0.02, 4),
			Setpoints: sim.Schedule{{At: 0, Value: 1.2}, {At: 2, Value: 0.4}},
			Gains:     GainsConfig{Kp: 24, Kd: 1, Kg: 0.6, Ks: 0.2, Kv: 3, Ka: 0.4},
			Profile:   ProfileConfig{MaxVelocity: 1.5, MaxAcceleration: 4},
			Metrics:   MetricsConfig{Tolerance: 0.02},
		},
		"unprofiled": {
			Mechanism: "elevator", Integrator: "rk4", Controller: "pid", Sim: timing(0.02, 4),
			Setpoints: sim.Schedule{{At: 0, Value: 1.2}},
			Gains:     GainsConfig{Kp: 30, Ki: 4, Kd: 1, IRange: 0.2, ILimit: 0.5},
			Filters:   FilterConfig{OutputRateLimit: 120},
			Metrics:   MetricsConfig{Tolerance: 0.02},
		},
	},
	"arm": {
		"raise": {
			Mechanism: "arm", Integrator: "rk4", Controller: "pidff", Sim: timing(0.02, 3),
			InitState: []float64{-math.Pi / 2, 0},
			Setpoints: sim.Schedule{{At: 0, Value: math.Pi / 4}},
			Gains:     GainsConfig{Kp: 8, Kd: 0.4, Kg: 0.8, Ks: 0.1, Kv: 1.2, Ka: 0.05},
			Profile:   ProfileConfig{MaxVelocity: 3, MaxAcceleration: 8},
			Metrics:   MetricsConfig{Tolerance: 0.02},
		},
		"hold": {
			Mechanism: "arm", Integrator: "rk4", Controller: "pid", Sim: timing(0.02, 3),
			Setpoints: sim.Schedule{{At: 0, Value: 0}},
			Gains:     GainsConfig{Kp: 10, Ki: 6, Kd: 0.3, IRange: 0.3},
			Metrics:   MetricsConfig{Tolerance: 0.02},
		},
	},
	"turret": {
		"seam": {
			Mechanism: "turret", Integrator: "rk4", Controller: "pid", Sim: timing(0.02, 3),
			InitState: []float64{2.5, 0},
			Setpoints: sim.Schedule{{At: 0, Value: 3.0}, {At: 1.5, Value: -3.0}},
			Gains:     GainsConfig{Kp: 6, Kd: 0.3},
			Metrics:   MetricsConfig{Tolerance: 0.02},
		},
		"sweep": {
			Mechanism: "turret", Integrator: "rk4", Controller: "pidff", Sim: timing(0.02, 4),
			Setpoints: sim.Schedule{{At: 0, Value: math.Pi / 2}, {At: 2, Value: -math.Pi / 2}},
			Gains:     GainsConfig{Kp: 6, Kd: 0.2, Ks: 0.15, Kv: 1.5, Ka: 0.08},
			Profile:   ProfileConfig{MaxVelocity: 4, MaxAcceleration: 10},
			Metrics:   MetricsConfig{Tolerance: 0.02},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(mechanism, preset string) *Config {
	mechPresets, ok := Presets[mechanism]
	if !ok {
		return nil
	}
	cfg, ok := mechPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names for a mechanism in sorted order.
func ListPresets(mechanism string) []string {
	mechPresets, ok := Presets[mechanism]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(mechPresets))
	for name := range mechPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
