package trajectory

import (
	"math"
	"testing"
)

const testEps = 1e-6

func scenarioAInput() Input {
	return Input{Distance: 1.0, VMax: 0.8, AMax: 2.0, JMax: 10.0, DMax: 200.0, SampleTime: 1e-3}
}

func drainAll(ctx *Context) []Point {
	var pts []Point
	for {
		p, ok := ctx.GetNextPoint()
		if !ok {
			break
		}
		pts = append(pts, p)
		if len(pts) > 1_000_000 {
			break // guard against a runaway test; a real context always terminates
		}
	}
	return pts
}

func TestScenarioADefaultMove(t *testing.T) {
	ctx, ok := NewPlanner(scenarioAInput())
	if !ok {
		t.Fatal("NewPlanner failed for scenario A input")
	}
	if ctx.tv <= 0 {
		t.Fatalf("scenario A expects a cruise phase, got tv=%v", ctx.tv)
	}

	pts := drainAll(ctx)
	last := pts[len(pts)-1]
	if math.Abs(last.Pos-1.0) > testEps || math.Abs(last.Vel) > testEps {
		t.Fatalf("scenario A final state: got (p=%v, v=%v), want (1.0, 0)", last.Pos, last.Vel)
	}
}

func TestScenarioBShortMove(t *testing.T) {
	in := scenarioAInput()
	in.Distance = 0.001
	ctx, ok := NewPlanner(in)
	if !ok {
		t.Fatal("NewPlanner failed for scenario B input")
	}
	if ctx.tv > 1e-9 {
		t.Fatalf("scenario B expects no cruise phase, got tv=%v", ctx.tv)
	}

	pts := drainAll(ctx)
	last := pts[len(pts)-1]
	if math.Abs(last.Pos-0.001) > testEps || math.Abs(last.Vel) > testEps {
		t.Fatalf("scenario B final state: got (p=%v, v=%v), want (0.001, 0)", last.Pos, last.Vel)
	}
}

func TestScenarioCDeadlineScaling(t *testing.T) {
	in := scenarioAInput()
	base, ok := NewPlanner(in)
	if !ok {
		t.Fatal("NewPlanner failed building the unscaled baseline")
	}
	toptimal := base.TotalTime()

	in.TimeLimit = 0.5 * toptimal
	ctx, ok := NewPlanner(in)
	if !ok {
		t.Fatal("NewPlanner failed for scenario C input")
	}
	if !ctx.IsTimeScaled() {
		t.Fatal("scenario C should report time scaling applied")
	}
	if ctx.AlphaScaleFactor() <= 1.0 {
		t.Fatalf("tightening the deadline should require alpha > 1, got %v", ctx.AlphaScaleFactor())
	}
	if math.Abs(ctx.TotalTime()-in.TimeLimit) > 1e-6 {
		t.Fatalf("scaled total time %v should match requested TimeLimit %v", ctx.TotalTime(), in.TimeLimit)
	}

	pts := drainAll(ctx)
	last := pts[len(pts)-1]
	if math.Abs(last.Pos-1.0) > testEps || math.Abs(last.Vel) > testEps {
		t.Fatalf("scenario C final state: got (p=%v, v=%v), want (1.0, 0)", last.Pos, last.Vel)
	}
}

func TestPropertyEndStateIdentity(t *testing.T) {
	ctx, ok := NewPlanner(scenarioAInput())
	if !ok {
		t.Fatal("NewPlanner failed")
	}
	pts := drainAll(ctx)
	last := pts[len(pts)-1]
	if math.Abs(last.Pos-1.0) > 1e-6 || math.Abs(last.Vel) > 1e-6 ||
		math.Abs(last.Acc) > 1e-6 || math.Abs(last.Jerk) > 1e-6 {
		t.Fatalf("end-state identity violated: %+v", last)
	}
}

func TestPropertyMonotonicPositionAndNonNegativeVelocity(t *testing.T) {
	ctx, ok := NewPlanner(scenarioAInput())
	if !ok {
		t.Fatal("NewPlanner failed")
	}
	pts := drainAll(ctx)
	for i, p := range pts {
		if p.Vel < -1e-9 {
			t.Fatalf("velocity went negative at sample %d: %v", i, p.Vel)
		}
		if i > 0 && p.Pos < pts[i-1].Pos-1e-9 {
			t.Fatalf("position decreased at sample %d: %v -> %v", i, pts[i-1].Pos, p.Pos)
		}
	}
}

func TestPropertyBoundsRespectScaledCaps(t *testing.T) {
	in := scenarioAInput()
	ctx, ok := NewPlanner(in)
	if !ok {
		t.Fatal("NewPlanner failed")
	}
	alpha := ctx.AlphaScaleFactor()
	const eps = 1e-9
	vCap := alpha*in.VMax + eps
	aCap := alpha*alpha*in.AMax + eps
	jCap := alpha*alpha*alpha*in.JMax + eps
	sCap := alpha*alpha*alpha*alpha*in.DMax + eps

	for _, p := range drainAll(ctx) {
		if math.Abs(p.Vel) > vCap {
			t.Fatalf("velocity %v exceeds cap %v at t=%v", p.Vel, vCap, p.Time)
		}
		if math.Abs(p.Acc) > aCap {
			t.Fatalf("acceleration %v exceeds cap %v at t=%v", p.Acc, aCap, p.Time)
		}
		if math.Abs(p.Jerk) > jCap {
			t.Fatalf("jerk %v exceeds cap %v at t=%v", p.Jerk, jCap, p.Time)
		}
		if math.Abs(p.Snap) > sCap {
			t.Fatalf("snap %v exceeds cap %v at t=%v", p.Snap, sCap, p.Time)
		}
	}
}

func TestPropertyZeroDistanceYieldsImmediateDone(t *testing.T) {
	in := scenarioAInput()
	in.Distance = 0
	ctx, ok := NewPlanner(in)
	if !ok {
		t.Fatal("NewPlanner failed for zero distance")
	}
	if ctx.TotalTime() != 0 {
		t.Fatalf("zero distance should yield a zero-duration trajectory, got %v", ctx.TotalTime())
	}
	p, more := ctx.GetNextPoint()
	if p.Pos != 0 {
		t.Fatalf("zero distance first point should be at position 0, got %v", p.Pos)
	}
	_, more = ctx.GetNextPoint()
	if more {
		t.Fatal("zero distance trajectory should be exhausted after its single point")
	}
}

func TestPropertySymmetryOnShortMove(t *testing.T) {
	in := scenarioAInput()
	in.Distance = 0.001
	ctx, ok := NewPlanner(in)
	if !ok {
		t.Fatal("NewPlanner failed")
	}
	if ctx.tv > 1e-9 {
		t.Fatal("this test requires a no-cruise short move")
	}

	// decSnaps is the exact negation of accSnaps at every index, and both
	// halves start from acc=jerk=0 over the same segment durations, so
	// the accel and decel acceleration traces must be exact negatives of
	// each other at every precomputed border.
	for i := 0; i <= numSegments; i++ {
		accAcc := ctx.accState[i].acc
		decAcc := ctx.decState[i].acc
		if math.Abs(accAcc+decAcc) > 1e-6 {
			t.Fatalf("accel/decel acceleration should mirror at border %d: acc=%v dec=%v", i, accAcc, decAcc)
		}
	}
}

func TestNewPlannerRejectsInvalidInput(t *testing.T) {
	cases := []Input{
		{Distance: -1, VMax: 1, AMax: 1, JMax: 1, DMax: 1, SampleTime: 0.001},
		{Distance: 1, VMax: 0, AMax: 1, JMax: 1, DMax: 1, SampleTime: 0.001},
		{Distance: 1, VMax: 1, AMax: 0, JMax: 1, DMax: 1, SampleTime: 0.001},
		{Distance: 1, VMax: 1, AMax: 1, JMax: 0, DMax: 1, SampleTime: 0.001},
		{Distance: 1, VMax: 1, AMax: 1, JMax: 1, DMax: 0, SampleTime: 0.001},
		{Distance: 1, VMax: 1, AMax: 1, JMax: 1, DMax: 1, SampleTime: 0},
	}
	for i, in := range cases {
		if _, ok := NewPlanner(in); ok {
			t.Fatalf("case %d: expected NewPlanner to reject %+v", i, in)
		}
	}
}
