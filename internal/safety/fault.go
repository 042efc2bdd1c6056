// Package safety implements the per-axis and system-wide fault
// aggregation chain and the safety supervisor that arbitrates between
// closed-loop and open-loop control on each control step.
package safety

// FaultType enumerates the fixed set of raw fault lines an axis can
// raise. The aggregation shape (20 fault types, 8-axis capacity) is
// fixed regardless of how many axes are actually active.
type FaultType int

const (
	FaultHardwareEmergencyStop FaultType = iota
	FaultNonCriticalPosErr
	FaultCriticalPosErr
	FaultOverVelocity
	FaultOverAcceleration
	FaultOverCurrent
	FaultOverTemperature
	FaultUnderVoltage
	FaultOverVoltage
	FaultEncoderFault
	FaultCommunicationTimeout
	FaultLimitSwitchPositive
	FaultLimitSwitchNegative
	FaultFollowingError
	FaultBrakeFault
	FaultDriveFault
	FaultWatchdogTimeout
	FaultConfigurationError
	FaultSensorFault
	FaultUnknown

	NumFaultTypes
)

// MaxAxes is the fixed capacity of the fault-aggregation arrays,
// independent of how many axes a given engine activates.
const MaxAxes = 8

// AxisFaultCtx holds one axis's raw fault inputs, their per-fault
// configuration (SAFINI/FMASK/FDEF), the derived fault vector, and the
// resulting aggregate bit.
type AxisFaultCtx struct {
	SAFINI [NumFaultTypes]bool
	FMASK  [NumFaultTypes]bool
	FDEF   [NumFaultTypes]bool // preserved per-fault, never consulted by UpdateAxis

	Raw   [NumFaultTypes]bool
	Fault [NumFaultTypes]bool

	InternalSafetyCond bool
	AxisFault          bool
}

// NewAxisFaultCtx returns a context with the specified post-init
// defaults: SAFINI all false, FMASK and FDEF all true, internal safety
// condition true.
func NewAxisFaultCtx() *AxisFaultCtx {
	c := &AxisFaultCtx{InternalSafetyCond: true}
	for i := range c.FMASK {
		c.FMASK[i] = true
		c.FDEF[i] = true
	}
	return c
}

// UpdateAxis recomputes the per-fault vector and axis aggregate from
// the current raw inputs. For every fault type whose raw line is set:
// s = SAFINI ? !raw : raw, x = s OR internalSafetyCond; if FMASK is
// set for that fault, Fault[i] is set to x and x is OR'd into the
// aggregate. FDEF is intentionally never read here.
//
// Under the documented post-init defaults (internalSafetyCond true),
// x collapses to true whenever a FMASK'd raw line is set, regardless
// of SAFINI: a healthy internal safety condition treats any asserted
// fault line as real. internalSafetyCond false hands the decision to
// the SAFINI-adjusted line instead. This is an OR, not the XOR used
// at the system level in UpdateSystem below -- the two levels read
// the same two signals differently, and spec.md's Scenario D (a
// single raised raw bit with FMASK true must raise AxisFault) only
// holds under OR.
func (c *AxisFaultCtx) UpdateAxis() {
	aggregate := false
	for i := 0; i < int(NumFaultTypes); i++ {
		if !c.Raw[i] {
			continue
		}
		s := c.Raw[i]
		if c.SAFINI[i] {
			s = !c.Raw[i]
		}
		x := s || c.InternalSafetyCond
		if c.FMASK[i] {
			c.Fault[i] = x
			aggregate = aggregate || x
		}
	}
	c.AxisFault = aggregate
}

// SystemFaultCtx holds the system-wide safety condition, its
// SAFINI/FMASK configuration, and the aggregated system fault bit.
type SystemFaultCtx struct {
	SSAFINI bool
	SFMASK  bool

	SystemSafetyCond bool
	SystemFault      bool
}

// NewSystemFaultCtx returns a context with the post-init defaults:
// SSAFINI false, SFMASK true, system safety condition true.
func NewSystemFaultCtx() *SystemFaultCtx {
	return &SystemFaultCtx{SFMASK: true, SystemSafetyCond: true}
}

// UpdateSystem recomputes the system fault bit from the OR of every
// axis's aggregate bit and the system safety condition:
// any = OR(axisFaults), o = any OR systemSafetyCond,
// s = SSAFINI ? !o : o, x = s XOR systemSafetyCond,
// SystemFault = x AND SFMASK.
//
// Under the post-init defaults (SSAFINI false, systemSafetyCond true)
// o is always true and x = true XOR true = false, so SystemFault stays
// false whatever the axis bits are. The formula is kept literally.
func (s *SystemFaultCtx) UpdateSystem(axisFaults []bool) {
	any := false
	for _, f := range axisFaults {
		any = any || f
	}
	o := any || s.SystemSafetyCond
	cond := o
	if s.SSAFINI {
		cond = !o
	}
	x := cond != s.SystemSafetyCond
	s.SystemFault = x && s.SFMASK
}
