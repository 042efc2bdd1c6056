package safety

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAxisFaultAggregation(t *testing.T) {
	Convey("Given a freshly initialized axis fault context", t, func() {
		ctx := NewAxisFaultCtx()

		Convey("With no raw fault lines set", func() {
			ctx.UpdateAxis()
			So(ctx.AxisFault, ShouldBeFalse)
		})

		Convey("When a single raw fault is set with FMASK true", func() {
			ctx.Raw[FaultOverVelocity] = true
			ctx.UpdateAxis()
			So(ctx.Fault[FaultOverVelocity], ShouldBeTrue)
			So(ctx.AxisFault, ShouldBeTrue)
		})

		Convey("When a raw fault is set but FMASK is false for it", func() {
			ctx.Raw[FaultOverVelocity] = true
			ctx.FMASK[FaultOverVelocity] = false
			ctx.UpdateAxis()
			So(ctx.Fault[FaultOverVelocity], ShouldBeFalse)
			So(ctx.AxisFault, ShouldBeFalse)
		})

		Convey("When SAFINI inverts a raised raw line to false", func() {
			ctx.Raw[FaultOverCurrent] = true
			ctx.SAFINI[FaultOverCurrent] = true
			ctx.UpdateAxis()
			// s = !raw = false, x = s || internalSafetyCond = false || true = true:
			// still faults, since internalSafetyCond defaults true.
			So(ctx.Fault[FaultOverCurrent], ShouldBeTrue)
		})

		Convey("When internalSafetyCond is false and the raw line is true", func() {
			ctx.InternalSafetyCond = false
			ctx.Raw[FaultOverCurrent] = true
			ctx.UpdateAxis()
			// s = raw = true, x = s || internalSafetyCond = true || false = true
			So(ctx.Fault[FaultOverCurrent], ShouldBeTrue)
			So(ctx.AxisFault, ShouldBeTrue)
		})

		Convey("UpdateAxis never reads FDEF", func() {
			ctx.Raw[FaultOverCurrent] = true
			ctx.FDEF[FaultOverCurrent] = false
			before := ctx.FDEF[FaultOverCurrent]
			ctx.UpdateAxis()
			So(ctx.FDEF[FaultOverCurrent], ShouldEqual, before)
		})
	})
}

func TestSystemFaultAggregation(t *testing.T) {
	Convey("Given a freshly initialized system fault context", t, func() {
		sys := NewSystemFaultCtx()

		Convey("With no axis faults raised", func() {
			sys.UpdateSystem([]bool{false, false})
			So(sys.SystemFault, ShouldBeFalse)
		})

		Convey("When any axis raises its aggregate bit", func() {
			sys.UpdateSystem([]bool{true, false})
			So(sys.SystemFault, ShouldBeFalse)
		})

		Convey("When SFMASK is false, SystemFault is suppressed regardless of inputs", func() {
			sys.SFMASK = false
			sys.UpdateSystem([]bool{true, true})
			So(sys.SystemFault, ShouldBeFalse)
		})
	})
}

func TestApplySafetyControl(t *testing.T) {
	Convey("Given a closed-loop axis in its accel phase", t, func() {
		data := NewControlData()
		fault := NewAxisFaultCtx()
		sys := NewSystemFaultCtx()

		Convey("With error under threshold", func() {
			force := ApplySafetyControl(data, fault, sys, []bool{false}, true, 12.5, 1e-12)
			So(force, ShouldEqual, 12.5)
			So(data.Mode, ShouldEqual, Closed)
		})

		Convey("With error over threshold while in the accel phase", func() {
			force := ApplySafetyControl(data, fault, sys, []bool{false}, true, 12.5, 1e-3)
			So(force, ShouldEqual, 0.0)
			So(data.Mode, ShouldEqual, Open)
			So(fault.Raw[FaultNonCriticalPosErr], ShouldBeTrue)
			So(fault.AxisFault, ShouldBeTrue)
		})

		Convey("With error over threshold outside the accel phase", func() {
			force := ApplySafetyControl(data, fault, sys, []bool{false}, false, 12.5, 1e-3)
			So(force, ShouldEqual, 12.5)
			So(data.Mode, ShouldEqual, Closed)
		})

		Convey("Once tripped open, a subsequent step does not re-trip", func() {
			ApplySafetyControl(data, fault, sys, []bool{false}, true, 12.5, 1e-3)
			force := ApplySafetyControl(data, fault, sys, []bool{false}, true, 7.0, 1e-3)
			So(force, ShouldEqual, 7.0)
			So(data.Mode, ShouldEqual, Open)
		})
	})
}
