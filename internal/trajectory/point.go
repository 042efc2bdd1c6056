package trajectory

import "math"

const pointEps = 1e-9

// GetNextPoint computes the kinematic state at the context's current
// internal time, then advances that internal clock by one sample
// period. It returns ok=false once the profile has been fully consumed
// (the caller already received the final point on a prior call).
func (c *Context) GetNextPoint() (Point, bool) {
	if c.finished && c.currentTime > c.totalTime {
		return Point{}, false
	}

	t := c.currentTime
	if !c.finished && t >= c.totalTime-pointEps {
		t = c.totalTime
		c.finished = true
	} else if t < 0.0 {
		t = 0.0
	}

	p := c.calculatePoint(t)

	if !c.finished {
		c.currentTime += c.input.SampleTime
	} else {
		c.currentTime = c.totalTime + c.input.SampleTime
	}

	return p, true
}

// calculatePoint evaluates the profile at an arbitrary instant within
// [0, totalTime] using the precomputed boundary state of whichever of
// the fourteen sub-phases (seven accel, seven decel) or cruise phase t
// falls in, plus a local closed-form polynomial integration from that
// boundary.
func (c *Context) calculatePoint(t float64) Point {
	const eps = 1e-12
	dEff := math.Pow(c.alpha, 4.0) * c.input.DMax

	p := Point{Time: t}

	if t < eps {
		s := c.accState[0]
		p.Pos, p.Vel, p.Acc, p.Jerk = s.pos, s.vel, s.acc, s.jerk
		if c.td > eps {
			p.Snap = dEff
		}
		return p
	}

	if math.Abs(t-c.totalTime) < eps {
		final := c.decState[numSegments]
		p.Pos = final.pos
		if math.Abs(p.Pos-c.input.Distance) < 1e-6 {
			p.Pos = c.input.Distance
		}
		return p
	}

	if t >= c.constVelStart-eps && t < c.decelStart-eps {
		s := c.accState[numSegments]
		tau := math.Max(0, t-c.constVelStart)
		p.Vel = s.vel
		p.Pos = s.pos + s.vel*tau
		return p
	}

	if t >= c.decelStart-eps {
		snaps := [numSegments]float64{-dEff, 0, dEff, 0, dEff, 0, -dEff}
		if seg, ok := findSegment(c.decBorders, t, eps); ok {
			return c.integrateSegment(p, c.decState[seg], c.decBorders, seg, t, snaps)
		}
		if math.Abs(t-c.decBorders[numSegments]) < eps {
			final := c.decState[numSegments]
			p.Pos = final.pos
			return p
		}
		return c.fallback(p, t)
	}

	snaps := [numSegments]float64{dEff, 0, -dEff, 0, -dEff, 0, dEff}
	if seg, ok := findSegment(c.accBorders, t, eps); ok {
		return c.integrateSegment(p, c.accState[seg], c.accBorders, seg, t, snaps)
	}
	if math.Abs(t-c.constVelStart) < eps {
		s := c.accState[numSegments]
		p.Pos, p.Vel, p.Acc, p.Jerk = s.pos, s.vel, s.acc, s.jerk
		p.Snap = snaps[numSegments-1]
		return p
	}
	return c.fallback(p, t)
}

func findSegment(borders [numSegments + 1]float64, t, eps float64) (int, bool) {
	for i := 0; i < numSegments; i++ {
		if t >= borders[i]-eps && t < borders[i+1]-eps {
			return i, true
		}
	}
	return 0, false
}

func (c *Context) integrateSegment(p Point, start boundaryState, borders [numSegments + 1]float64, seg int, t float64, snaps [numSegments]float64) Point {
	const eps = 1e-9
	segStart := borders[seg]
	tau := math.Max(0, t-segStart)
	segDuration := borders[seg+1] - borders[seg]
	if tau > segDuration+eps {
		tau = math.Max(0.0, segDuration)
	}

	snap := snaps[seg]
	dt2 := tau * tau
	dt3 := dt2 * tau
	dt4 := dt2 * dt2

	p.Snap = snap
	p.Jerk = start.jerk + snap*tau
	p.Acc = start.acc + start.jerk*tau + 0.5*snap*dt2
	p.Vel = start.vel + start.acc*tau + 0.5*start.jerk*dt2 + (1.0/6.0)*snap*dt3
	p.Pos = start.pos + start.vel*tau + 0.5*start.acc*dt2 + (1.0/6.0)*start.jerk*dt3 + (1.0/24.0)*snap*dt4

	if !isFinite(p.Pos) {
		p.Pos = start.pos
	}
	return p
}

// fallback handles the case where floating-point tolerance leaves t
// just outside every recognized window; it snaps to the nearest
// precomputed boundary rather than propagating a gap in the profile.
func (c *Context) fallback(p Point, t float64) Point {
	var s boundaryState
	switch {
	case t > c.decelStart:
		s = c.decState[numSegments]
	case t > c.constVelStart:
		s = c.accState[numSegments]
	default:
		s = c.accState[0]
	}
	p.Pos, p.Vel, p.Acc, p.Jerk = s.pos, s.vel, s.acc, s.jerk
	return p
}

// TotalTime returns the profile's total duration in seconds.
func (c *Context) TotalTime() float64 { return c.totalTime }

// IsTimeScaled reports whether the time-limit scaling search ran.
func (c *Context) IsTimeScaled() bool { return c.isTimeScaled }

// AlphaScaleFactor returns the scaling factor applied to VMax/AMax/JMax/DMax.
func (c *Context) AlphaScaleFactor() float64 { return c.alpha }

// Input returns the planner's original, unscaled input.
func (c *Context) Input() Input { return c.input }

// Ta returns the constant-acceleration sub-phase duration used by this
// profile's accel and decel halves.
func (c *Context) Ta() float64 { return c.ta }

// Finished reports whether the profile has produced its final point.
func (c *Context) Finished() bool { return c.finished }
