package trajectory

import "math"

const (
	alphaMaxIterations = 100
	timeTolerance       = 1e-9
	alphaTolerance      = 1e-7
)

// NewPlanner validates in and precomputes the full boundary-state table
// for the profile it describes. It returns nil, false if the inputs are
// invalid, if the requested time limit cannot be met by any scaling
// factor, or if the precomputed final state deviates from the commanded
// distance by more than a small tolerance.
func NewPlanner(in Input) (*Context, bool) {
	if in.Distance < 0.0 || in.VMax <= 0.0 || in.AMax <= 0.0 || in.JMax <= 0.0 || in.DMax <= 0.0 || in.SampleTime <= 0.0 {
		return nil, false
	}

	td, tj, ta, tv, optimalTime, ok := optimalTimeSegments(in)
	if !ok {
		return nil, false
	}

	alpha := 1.0
	finalTime := optimalTime
	isScaled := false

	if in.TimeLimit > 0 && math.Abs(in.TimeLimit-optimalTime) > timeTolerance {
		isScaled = true
		var alphaLow, alphaHigh float64
		if in.TimeLimit < optimalTime {
			alphaLow, alphaHigh = 1.0, 50.0
		} else {
			alphaLow, alphaHigh = 1e-8, 1.0
		}

		bestAlpha := 1.0
		minTimeErr := math.MaxFloat64
		bestTd, bestTj, bestTa, bestTv := td, tj, ta, tv

		for i := 0; i < alphaMaxIterations; i++ {
			guess := (alphaLow + alphaHigh) / 2.0
			scaled := Input{
				Distance:   in.Distance,
				VMax:       math.Pow(guess, 1.0) * in.VMax,
				AMax:       math.Pow(guess, 2.0) * in.AMax,
				JMax:       math.Pow(guess, 3.0) * in.JMax,
				DMax:       math.Pow(guess, 4.0) * in.DMax,
				SampleTime: in.SampleTime,
			}

			gTd, gTj, gTa, gTv, gTime, gOK := optimalTimeSegments(scaled)
			if !gOK || !isFinite(gTime) {
				if in.TimeLimit < optimalTime {
					alphaHigh = guess
				} else {
					alphaLow = guess
				}
				continue
			}

			timeErr := gTime - in.TimeLimit
			if math.Abs(timeErr) < minTimeErr {
				minTimeErr = math.Abs(timeErr)
				bestAlpha = guess
				bestTd, bestTj, bestTa, bestTv = gTd, gTj, gTa, gTv
			}

			if timeErr > 0 {
				alphaLow = guess
			} else {
				alphaHigh = guess
			}

			if (alphaHigh-alphaLow) < alphaTolerance*math.Max(1.0, alphaHigh) || math.Abs(timeErr) < timeTolerance {
				break
			}
		}

		alpha = bestAlpha
		finalTime = in.TimeLimit
		td, tj, ta, tv = bestTd, bestTj, bestTa, bestTv
	}

	ctx := &Context{
		input:        in,
		td:           td,
		tj:           tj,
		ta:           ta,
		isTimeScaled: isScaled,
		alpha:        alpha,
	}

	te := 4.0*td + 2.0*tj + ta
	ctx.totalTime = finalTime
	ctx.tv = math.Max(0.0, ctx.totalTime-2.0*te)

	ctx.accBorders[0] = 0.0
	durations := [numSegments]float64{td, tj, td, ta, td, tj, td}
	for i := 0; i < numSegments; i++ {
		ctx.accBorders[i+1] = ctx.accBorders[i] + durations[i]
	}
	ctx.constVelStart = te
	ctx.decelStart = ctx.totalTime - te
	if ctx.decelStart < ctx.constVelStart-1e-9 {
		ctx.decelStart = ctx.constVelStart
		ctx.tv = 0.0
	} else {
		ctx.tv = math.Max(0.0, ctx.decelStart-ctx.constVelStart)
	}
	for i := range ctx.decBorders {
		ctx.decBorders[i] = ctx.decelStart + ctx.accBorders[i]
	}

	dEff := math.Pow(alpha, 4.0) * in.DMax
	accSnaps := [numSegments]float64{dEff, 0, -dEff, 0, -dEff, 0, dEff}

	ctx.accState[0] = boundaryState{}
	var x, v, a, j float64
	for i := 0; i < numSegments; i++ {
		dt := durations[i]
		if dt < 1e-12 {
			ctx.accState[i+1] = ctx.accState[i]
			continue
		}
		snap := accSnaps[i]
		dt2, dt3, dt4 := dt*dt, dt*dt*dt, dt*dt*dt*dt
		x += v*dt + 0.5*a*dt2 + (1.0/6.0)*j*dt3 + (1.0/24.0)*snap*dt4
		v += a*dt + 0.5*j*dt2 + (1.0/6.0)*snap*dt3
		a += j*dt + 0.5*snap*dt2
		j += snap * dt
		if !isFinite(x) || !isFinite(v) || !isFinite(a) || !isFinite(j) {
			return nil, false
		}
		ctx.accState[i+1] = boundaryState{pos: x, vel: v, acc: a, jerk: j}
	}

	ctx.constVelEnd = ctx.accState[numSegments]
	ctx.constVelEnd.pos += ctx.accState[numSegments].vel * ctx.tv

	decSnaps := [numSegments]float64{-dEff, 0, dEff, 0, dEff, 0, -dEff}
	ctx.decState[0] = ctx.constVelEnd
	x, v = ctx.constVelEnd.pos, ctx.constVelEnd.vel
	a, j = 0, 0
	for i := 0; i < numSegments; i++ {
		dt := durations[i]
		if dt < 1e-12 {
			ctx.decState[i+1] = ctx.decState[i]
			continue
		}
		snap := decSnaps[i]
		dt2, dt3, dt4 := dt*dt, dt*dt*dt, dt*dt*dt*dt
		x += v*dt + 0.5*a*dt2 + (1.0/6.0)*j*dt3 + (1.0/24.0)*snap*dt4
		v += a*dt + 0.5*j*dt2 + (1.0/6.0)*snap*dt3
		a += j*dt + 0.5*snap*dt2
		j += snap * dt
		if !isFinite(x) || !isFinite(v) || !isFinite(a) || !isFinite(j) {
			return nil, false
		}
		ctx.decState[i+1] = boundaryState{pos: x, vel: v, acc: a, jerk: j}
	}

	finalPosErr := math.Abs(ctx.decState[numSegments].pos - in.Distance)
	finalVelErr := math.Abs(ctx.decState[numSegments].vel)
	if finalPosErr > 1e-6 || finalVelErr > 1e-6 {
		return nil, false
	}

	return ctx, true
}
