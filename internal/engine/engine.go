package engine

import (
	"fmt"
	"log"
	"math"

	"motionctl/internal/safety"
	"motionctl/internal/telemetry"
)

// Engine owns every axis's runtime state and the system-wide fault
// context. It is the sole mutator of plant, controller, safety, and
// fault state; only the control worker goroutine calls its methods.
type Engine struct {
	cfg Config

	Axes []*Axis
	Sys  *safety.SystemFaultCtx

	globalStep int
	running    bool

	onRecord func(telemetry.Record)
}

// New builds an Engine with cfg.AxisCount axes, each starting on the
// default move profile, and the system fault context at its post-init
// defaults.
func New(cfg Config, onRecord func(telemetry.Record)) (*Engine, error) {
	e := &Engine{
		cfg:      cfg,
		Axes:     make([]*Axis, cfg.AxisCount),
		Sys:      safety.NewSystemFaultCtx(),
		running:  true,
		onRecord: onRecord,
	}
	for i := 0; i < cfg.AxisCount; i++ {
		ax, err := NewAxis(cfg)
		if err != nil {
			return nil, fmt.Errorf("engine: axis %d: %w", i, err)
		}
		e.Axes[i] = ax
	}
	return e, nil
}

// Running reports whether the engine will still accept control steps.
func (e *Engine) Running() bool { return e.running }

// GlobalStep returns the number of control steps executed so far.
func (e *Engine) GlobalStep() int { return e.globalStep }

func (e *Engine) axisFaultBits() []bool {
	bits := make([]bool, safety.MaxAxes)
	for i, ax := range e.Axes {
		if i >= safety.MaxAxes {
			break
		}
		bits[i] = ax.Fault.AxisFault
	}
	return bits
}

// ExecuteControlStep runs one control step on every axis whose bit is
// set in mask: pull the next trajectory point, read the plant's
// previous output as actual position, compute error, run the
// controller chain, apply the safety supervisor, advance the plant,
// and bump that axis's step counter. After every masked axis is
// processed it recomputes the system fault aggregate, emits one
// telemetry record, and validates that no axis produced a non-finite
// error or force.
func (e *Engine) ExecuteControlStep(mask uint32) error {
	if !e.running {
		return fmt.Errorf("engine: control system not running")
	}
	if e.Sys.SystemFault {
		e.running = false
		return fmt.Errorf("engine: system fault detected, stopping")
	}

	for axis := 0; axis < e.cfg.AxisCount; axis++ {
		if mask&(1<<uint(axis)) == 0 {
			continue
		}
		ax := e.Axes[axis]
		ax.Active = true

		if ax.Step >= e.cfg.TotalSteps {
			continue
		}

		if ax.Fault.AxisFault {
			log.Printf("[control] axis %d fault detected, switching to open loop", axis)
			ax.Safety.Mode = safety.Open
			ax.force.Store(0.0)
			ax.publishMode()
			continue
		}

		if point, ok := ax.Planner.GetNextPoint(); ok {
			ax.target.Store(point.Pos)
		} else {
			log.Printf("[control] axis %d: trajectory exhausted", axis)
		}

		actual := ax.Plant.Position()
		ax.actual.Store(actual)

		errVal := ax.target.Load() - actual
		ax.errVal.Store(errVal)

		rawForce := ax.Controller.Update(errVal)

		inAccel := float64(ax.Step)*e.cfg.SampleTime < ax.Planner.Ta()
		force := safety.ApplySafetyControl(ax.Safety, ax.Fault, e.Sys, e.axisFaultBits(), inAccel, rawForce, errVal)
		ax.force.Store(force)

		ax.Fault.UpdateAxis()
		ax.Plant.Update(force)
		ax.publishMode()

		ax.Step++
	}

	e.Sys.UpdateSystem(e.axisFaultBits())

	if e.cfg.Verbose {
		e.logStep(mask)
	}

	rec := e.buildRecord(mask)
	if e.onRecord != nil {
		e.onRecord(rec)
	}

	for axis := 0; axis < e.cfg.AxisCount; axis++ {
		if mask&(1<<uint(axis)) == 0 {
			continue
		}
		ax := e.Axes[axis]
		if !isFinite(ax.errVal.Load()) || !isFinite(ax.force.Load()) {
			e.running = false
			return fmt.Errorf("engine: non-finite value detected on axis %d", axis)
		}
	}

	e.globalStep++
	return nil
}

func (e *Engine) buildRecord(mask uint32) telemetry.Record {
	rec := telemetry.Record{Step: e.globalStep}
	for axis := 0; axis < e.cfg.AxisCount; axis++ {
		if mask&(1<<uint(axis)) == 0 {
			continue
		}
		ax := e.Axes[axis]
		if len(rec.Samples) == 0 {
			rec.Time = float64(ax.Step-1) * e.cfg.SampleTime
		}
		mode := 0
		if ax.Safety.Mode == safety.Open {
			mode = 1
		}
		rec.Samples = append(rec.Samples, telemetry.AxisSample{
			Axis:   axis,
			Target: ax.target.Load(),
			Actual: ax.actual.Load(),
			Error:  ax.errVal.Load(),
			Force:  ax.force.Load(),
			Mode:   mode,
		})
	}
	return rec
}

func (e *Engine) logStep(mask uint32) {
	line := fmt.Sprintf("Step: %d", e.globalStep)
	for axis := 0; axis < e.cfg.AxisCount; axis++ {
		if mask&(1<<uint(axis)) == 0 {
			continue
		}
		ax := e.Axes[axis]
		modeCh := byte('C')
		if ax.Safety.Mode == safety.Open {
			modeCh = 'O'
		}
		line += fmt.Sprintf(" | Axis%d: Time=%.3fs, Target=%.12f, Actual=%.15f, Error=%.13f, Force=%.9f (%c)",
			axis, float64(ax.Step-1)*e.cfg.SampleTime, ax.target.Load(), ax.actual.Load(), ax.errVal.Load(), ax.force.Load(), modeCh)
	}
	log.Println(line)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
