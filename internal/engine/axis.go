package engine

import (
	"errors"

	"motionctl/internal/atomicfloat"
	"motionctl/internal/control"
	"motionctl/internal/plant"
	"motionctl/internal/safety"
	"motionctl/internal/trajectory"
)

// Axis is one axis's complete runtime state: plant, controller chain,
// safety data, fault context, and the trajectory it is currently
// tracking. Target/actual/error/force/mode are additionally published
// through lock-free atomics so the status API can read the latest
// values without contending with the control loop.
type Axis struct {
	Plant      *plant.RigidBody
	Controller *control.Controller
	Safety     *safety.ControlData
	Fault      *safety.AxisFaultCtx
	Planner    *trajectory.Context

	Step   int
	Active bool

	target atomicfloat.Float64
	actual atomicfloat.Float64
	errVal atomicfloat.Float64
	force  atomicfloat.Float64
	mode   atomicfloat.Float64
}

// NewAxis builds an axis runtime using the engine's default planner
// input and plant mass.
func NewAxis(cfg Config) (*Axis, error) {
	ctx, ok := trajectory.NewPlanner(cfg.DefaultPlannerInput)
	if !ok {
		return nil, errors.New("engine: default planner initialization failed")
	}
	return &Axis{
		Plant:      plant.NewRigidBody(cfg.PlantMass, cfg.SampleTime),
		Controller: control.New(cfg.SampleTime),
		Safety:     safety.NewControlData(),
		Fault:      safety.NewAxisFaultCtx(),
		Planner:    ctx,
	}, nil
}

// Snapshot is a point-in-time, lock-free read of an axis's published
// state plus its live tuning, for status reporting.
type Snapshot struct {
	Step   int
	Active bool
	Target float64
	Actual float64
	Error  float64
	Force  float64
	Mode   safety.Mode

	Kp, Ki, Kd float64

	PlannerDistance float64
	PlannerVMax     float64
	PlannerAMax     float64
}

// Snapshot reads the axis's currently published state.
func (a *Axis) Snapshot() Snapshot {
	mode := safety.Closed
	if a.mode.Load() != 0 {
		mode = safety.Open
	}
	in := a.Planner.Input()
	return Snapshot{
		Step:            a.Step,
		Active:          a.Active,
		Target:          a.target.Load(),
		Actual:          a.actual.Load(),
		Error:           a.errVal.Load(),
		Force:           a.force.Load(),
		Mode:            mode,
		Kp:              a.Controller.PID.Kp,
		Ki:              a.Controller.PID.Ki,
		Kd:              a.Controller.PID.Kd,
		PlannerDistance: in.Distance,
		PlannerVMax:     in.VMax,
		PlannerAMax:     in.AMax,
	}
}

func (a *Axis) publishMode() {
	if a.Safety.Mode == safety.Open {
		a.mode.Store(1)
	} else {
		a.mode.Store(0)
	}
}
