// Package engine orchestrates the per-axis control pipeline: it owns
// every axis's plant, controller, safety, and planner state, runs
// control steps on command, and dispatches the wire command table.
package engine

import "motionctl/internal/trajectory"

// Config is the set of fixed parameters an Engine is built from.
type Config struct {
	AxisCount  int
	SampleTime float64
	TotalSteps int
	PlantMass  float64

	DefaultPlannerInput trajectory.Input

	// Verbose gates the per-step console-style progress log.
	Verbose bool
}

// DefaultConfig returns the reference configuration: two axes, 1ms
// sample period, 1001 steps per motion, 16kg plant mass, and the
// default move profile (S=1.0, Vmax=0.8, Amax=2.0, Jmax=10.0, Dmax=200.0).
func DefaultConfig() Config {
	return Config{
		AxisCount:  2,
		SampleTime: 0.001,
		TotalSteps: 1001,
		PlantMass:  16.0,
		DefaultPlannerInput: trajectory.Input{
			Distance:   1.0,
			VMax:       0.8,
			AMax:       2.0,
			JMax:       10.0,
			DMax:       200.0,
			SampleTime: 0.001,
		},
	}
}
