package engine

import (
	"fmt"

	"motionctl/internal/safety"
	"motionctl/internal/trajectory"
)

// CommandStatus mirrors the wire status codes returned to the
// transport layer: PENDING=0, EXECUTING=1, COMPLETED=2, ERROR=3.
type CommandStatus int32

const (
	StatusPending CommandStatus = iota
	StatusExecuting
	StatusCompleted
	StatusError
)

// CommandResult is the outcome of one dispatched command, independent
// of wire encoding.
type CommandResult struct {
	Status    CommandStatus
	ErrorCode int32
	Message   string
}

func completed(msg string) CommandResult {
	return CommandResult{Status: StatusCompleted, Message: msg}
}

func errResult(code int32, msg string) CommandResult {
	return CommandResult{Status: StatusError, ErrorCode: code, Message: msg}
}

// CommandMsg is one decoded wire command handed from the transport
// worker to the control worker, along with a reply channel the control
// worker uses to report the dispatched result back.
type CommandMsg struct {
	Cmd    int32
	Axis   int32
	Params [5]float64
	Reply  chan CommandResult
}

// Dispatch routes one decoded command to its handler. axis and params
// carry the command's wire payload; see the command table for per-
// command semantics. For commands 1 and 3 only, axis=1 selects axis 0,
// axis=2 selects axis 1, and axis=3 selects both; every other
// axis-scoped command takes axis as a plain zero-based index.
func (e *Engine) Dispatch(cmd int32, axis int32, params [5]float64) CommandResult {
	switch cmd {
	case 1:
		mask, ok := maskForPairedAxisArg(axis, e.cfg.AxisCount)
		if !ok {
			return errResult(1, fmt.Sprintf("invalid axis value %d for cmd 1", axis))
		}
		if err := e.ExecuteControlStep(mask); err != nil {
			return errResult(2, err.Error())
		}
		return completed("control step executed")

	case 2:
		e.globalStep = 0
		for _, ax := range e.Axes {
			ax.Step = 0
			ax.Active = false
		}
		return completed("step counters reset")

	case 3:
		mask, ok := maskForPairedAxisArg(axis, e.cfg.AxisCount)
		if !ok {
			return errResult(1, fmt.Sprintf("invalid axis value %d for cmd 3", axis))
		}
		steps := int(params[0])
		executed := 0
		for i := 0; i < steps; i++ {
			if !e.maskBelowTotalSteps(mask) {
				break
			}
			if err := e.ExecuteControlStep(mask); err != nil {
				return errResult(2, err.Error())
			}
			executed++
		}
		return completed(fmt.Sprintf("executed %d steps", executed))

	case 4:
		e.running = false
		for _, ax := range e.Axes {
			ax.Fault.Raw[safety.FaultHardwareEmergencyStop] = true
			ax.Fault.UpdateAxis()
		}
		e.Sys.UpdateSystem(e.axisFaultBits())
		for _, ax := range e.Axes {
			ax.Safety.Mode = safety.Open
			ax.force.Store(0.0)
			ax.publishMode()
		}
		return completed("emergency stop")

	case 5:
		if axis < 0 || int(axis) >= e.cfg.AxisCount {
			return errResult(1, fmt.Sprintf("invalid axis number %d", axis))
		}
		def := e.cfg.DefaultPlannerInput
		in := trajectory.Input{
			Distance:   sentinelOr(params[0], def.Distance),
			VMax:       sentinelOr(params[1], def.VMax),
			AMax:       sentinelOr(params[2], def.AMax),
			JMax:       sentinelOr(params[3], def.JMax),
			DMax:       sentinelOr(params[4], def.DMax),
			SampleTime: e.cfg.SampleTime,
		}
		ctx, ok := trajectory.NewPlanner(in)
		if !ok {
			return errResult(3, fmt.Sprintf("trajectory planner initialization failed for axis %d", axis))
		}
		e.Axes[axis].Planner = ctx
		return completed(fmt.Sprintf("trajectory reinitialized for axis %d", axis))

	case 6:
		if axis < 0 || int(axis) >= e.cfg.AxisCount {
			return errResult(1, fmt.Sprintf("invalid axis number %d", axis))
		}
		ax := e.Axes[axis]
		kp := sentinelOr(params[0], ax.Controller.PID.Kp)
		ki := sentinelOr(params[1], ax.Controller.PID.Ki)
		kd := sentinelOr(params[2], ax.Controller.PID.Kd)
		ax.Controller.SetGains(kp, ki, kd)
		return completed(fmt.Sprintf("controller gains updated for axis %d", axis))

	case 7:
		if axis < 0 || int(axis) >= e.cfg.AxisCount {
			return errResult(1, fmt.Sprintf("invalid axis number %d", axis))
		}
		snap := e.Axes[axis].Snapshot()
		return completed(fmt.Sprintf(
			"st=%d t=%.4f a=%.4f e=%.4f f=%.4f md=%d kp=%.3f ki=%.3f kd=%.3f d=%.3f v=%.3f am=%.3f",
			snap.Step, snap.Target, snap.Actual, snap.Error, snap.Force, snap.Mode,
			snap.Kp, snap.Ki, snap.Kd, snap.PlannerDistance, snap.PlannerVMax, snap.PlannerAMax))

	case 8:
		mask := allAxesMask(e.cfg.AxisCount)
		if err := e.ExecuteControlStep(mask); err != nil {
			return errResult(2, err.Error())
		}
		return completed("control step executed on all axes")

	case 9:
		mask := allAxesMask(e.cfg.AxisCount)
		steps := int(params[0])
		executed := 0
		for i := 0; i < steps && e.globalStep < e.cfg.TotalSteps; i++ {
			if err := e.ExecuteControlStep(mask); err != nil {
				return errResult(2, err.Error())
			}
			executed++
		}
		return completed(fmt.Sprintf("executed %d steps on all axes", executed))

	case 999:
		e.running = false
		return completed("disconnecting")

	default:
		return errResult(1, fmt.Sprintf("unknown command: %d", cmd))
	}
}

// maskForPairedAxisArg implements the axis=1/2/3 mask convention used
// only by commands 1 and 3: axis=1 selects axis 0, axis=2 selects axis
// 1, axis=3 selects both.
func maskForPairedAxisArg(axis int32, axisCount int) (uint32, bool) {
	switch axis {
	case 1:
		return 1, axisCount >= 1
	case 2:
		return 2, axisCount >= 2
	case 3:
		return 3, axisCount >= 2
	default:
		return 0, false
	}
}

func allAxesMask(axisCount int) uint32 {
	return uint32(1<<uint(axisCount)) - 1
}

func (e *Engine) maskBelowTotalSteps(mask uint32) bool {
	for axis := 0; axis < e.cfg.AxisCount; axis++ {
		if mask&(1<<uint(axis)) == 0 {
			continue
		}
		if e.Axes[axis].Step >= e.cfg.TotalSteps {
			return false
		}
	}
	return true
}

// sentinelOr resolves the commands 5/6 "0.0 means keep default/current"
// convention: a non-zero param wins, a zero param falls back to def.
func sentinelOr(param, def float64) float64 {
	if param != 0.0 {
		return param
	}
	return def
}
