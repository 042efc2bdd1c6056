package safety

// ErrorThreshold is the tracking-error magnitude, during the accel
// phase only, that trips an axis from closed-loop to open-loop.
const ErrorThreshold = 7e-10

// Mode is an axis's control mode: the commanded force either comes
// from the controller chain (Closed) or is forced to zero (Open).
type Mode int

const (
	Closed Mode = iota
	Open
)

// ControlData holds one axis's current safety mode and the last force
// value considered valid.
type ControlData struct {
	Mode            Mode
	LastValidOutput float64
}

// NewControlData returns an axis's safety state at its post-init
// default: closed loop, zero last-valid output.
func NewControlData() *ControlData {
	return &ControlData{Mode: Closed}
}

// ApplySafetyControl runs the tracking-error trip check for one axis
// on one control step and returns the force that should actually be
// applied to the plant.
//
// inAccelPhase must be true only while that axis's elapsed time within
// the current motion is inside its accel phase (step*Ts < Ta); the
// threshold check is gated on it. When the check trips, the axis mode
// is switched to Open, NON_CRITICAL_POS_ERR is raised and the fault
// chain is recomputed, and 0.0 is returned. Otherwise rawForce is
// recorded as the last-valid output and returned unchanged.
func ApplySafetyControl(data *ControlData, fault *AxisFaultCtx, sys *SystemFaultCtx, allAxisFaults []bool, inAccelPhase bool, rawForce, errVal float64) float64 {
	if inAccelPhase && errAbs(errVal) > ErrorThreshold && data.Mode == Closed {
		data.Mode = Open
		data.LastValidOutput = rawForce
		fault.Raw[FaultNonCriticalPosErr] = true
		fault.UpdateAxis()
		sys.UpdateSystem(allAxisFaults)
		return 0.0
	}

	data.LastValidOutput = rawForce
	return rawForce
}

func errAbs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
