package trajectory

import "math"

const segmentEps = 1e-12

// rampIntegrate walks the seven sub-phases of a single accel (or decel)
// half, starting from rest, under the given per-phase durations and
// snap values, and returns the resulting position/velocity/acceleration/
// jerk. It is the shared core of the two ramp-kinematics helpers below;
// NewPlanner's boundary-state precomputation runs the same recurrence
// in its own loop.
func rampIntegrate(durations, snaps [numSegments]float64) (pos, vel, acc, jerk float64, ok bool) {
	for i := 0; i < numSegments; i++ {
		dt := durations[i]
		if dt < segmentEps {
			continue
		}
		snap := snaps[i]
		dt2 := dt * dt
		dt3 := dt2 * dt
		dt4 := dt2 * dt2

		pos += vel*dt + 0.5*acc*dt2 + (1.0/6.0)*jerk*dt3 + (1.0/24.0)*snap*dt4
		vel += acc*dt + 0.5*jerk*dt2 + (1.0/6.0)*snap*dt3
		acc += jerk*dt + 0.5*snap*dt2
		jerk += snap * dt

		if !isFinite(pos) || !isFinite(vel) || !isFinite(acc) || !isFinite(jerk) {
			return 0, 0, 0, 0, false
		}
	}
	return pos, vel, acc, jerk, true
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// rampKinematicsInternal computes Td, Tj, Ta for an accel half that
// ramps from rest to targetV under a peak acceleration of targetA, plus
// the displacement and final velocity that half actually produces.
func rampKinematicsInternal(targetV, targetA, jMax, dMax float64) (td, tj, ta, finalV, finalS float64, ok bool) {
	if targetA <= segmentEps || targetV < -segmentEps {
		return 0, 0, 0, 0, 0, true
	}
	jMax = math.Max(segmentEps, jMax)
	dMax = math.Max(segmentEps, dMax)

	tjCrit := jMax / dMax
	aCrit := tjCrit * jMax
	if targetA >= aCrit-segmentEps {
		td = tjCrit
		if jMax > segmentEps {
			tj = math.Max(0.0, (targetA-aCrit)/jMax)
		}
	} else {
		td = math.Sqrt(math.Max(0.0, targetA/dMax))
	}

	velJerkPhases := targetA * (2.0*td + tj)
	if targetV >= velJerkPhases-segmentEps {
		if targetA > segmentEps {
			ta = math.Max(0.0, (targetV-velJerkPhases)/targetA)
		}
	}

	td, tj, ta = math.Max(0, td), math.Max(0, tj), math.Max(0, ta)
	if td < segmentEps && tj < segmentEps && ta < segmentEps {
		return td, tj, ta, 0, 0, true
	}

	durations := [numSegments]float64{td, tj, td, ta, td, tj, td}
	snaps := [numSegments]float64{dMax, 0, -dMax, 0, -dMax, 0, dMax}
	pos, vel, _, _, rampOK := rampIntegrate(durations, snaps)
	if !rampOK {
		return td, tj, ta, math.NaN(), math.NaN(), true
	}
	return td, tj, ta, vel, pos, true
}

// rampKinematicsForSearch computes Td, Tj and the resulting ramp
// displacement for a triangular (no constant-acceleration phase) ramp
// that peaks at targetA. Used by the short-move binary search for the
// peak acceleration that exactly halves the commanded distance.
func rampKinematicsForSearch(targetA, jMax, dMax float64) (td, tj, sRamp float64, ok bool) {
	if targetA <= segmentEps {
		return 0, 0, 0, true
	}
	jMax = math.Max(segmentEps, jMax)
	dMax = math.Max(segmentEps, dMax)

	tjCrit := jMax / dMax
	aCrit := tjCrit * jMax
	if targetA >= aCrit-segmentEps {
		td = tjCrit
		if jMax > segmentEps {
			tj = math.Max(0.0, (targetA-aCrit)/jMax)
		}
	} else {
		td = math.Sqrt(math.Max(0.0, targetA/dMax))
	}

	td, tj = math.Max(0, td), math.Max(0, tj)
	if td < segmentEps && tj < segmentEps {
		return td, tj, 0, true
	}

	durations := [numSegments]float64{td, tj, td, 0, td, tj, td}
	snaps := [numSegments]float64{dMax, 0, -dMax, 0, -dMax, 0, dMax}
	pos, _, _, _, rampOK := rampIntegrate(durations, snaps)
	if !rampOK {
		return td, tj, math.NaN(), false
	}
	return td, tj, pos, true
}

// optimalTimeSegments computes the shortest-time segmentation (Td, Tj,
// Ta, Tv) for the given constraints, with no time limit applied: ramp
// to VMax if the distance allows a cruise phase, otherwise binary-search
// the peak acceleration of a triangular profile that exactly covers the
// commanded distance.
func optimalTimeSegments(in Input) (td, tj, ta, tv, totalTime float64, ok bool) {
	if in.Distance < 1e-12 {
		return 0, 0, 0, 0, 0, true
	}

	rampTd, rampTj, rampTa, _, sRampVmax, rampOK := rampKinematicsInternal(in.VMax, in.AMax, in.JMax, in.DMax)
	if !rampOK || !isFinite(sRampVmax) {
		return 0, 0, 0, 0, 0, false
	}

	const distTol = 1e-9

	if 2.0*sRampVmax <= in.Distance+distTol {
		td, tj, ta = rampTd, rampTj, rampTa
		if in.VMax > 1e-12 {
			tv = math.Max(0.0, (in.Distance-2.0*sRampVmax)/in.VMax)
		}
	} else {
		aLow, aHigh := 0.0, in.AMax
		bestA := 0.0
		minSErr := math.MaxFloat64
		bestTd, bestTj := 0.0, 0.0
		found := false

		for iter := 0; iter < 100; iter++ {
			aGuess := 0.5 * (aLow + aHigh)
			if aGuess <= 1e-15 {
				if aLow < 1e-14 && aHigh < 1e-12 {
					break
				}
				aGuess = 1e-15
			}

			curTd, curTj, sGuess, guessOK := rampKinematicsForSearch(aGuess, in.JMax, in.DMax)
			if !guessOK || !isFinite(sGuess) {
				if (aHigh - aLow) < 1e-9*in.AMax {
					break
				}
				aLow = aGuess
				continue
			}

			sErr := 2.0*sGuess - in.Distance
			if math.Abs(sErr) < minSErr {
				minSErr = math.Abs(sErr)
				bestA = aGuess
				bestTd, bestTj = curTd, curTj
				found = true
			}

			if sErr > 0 {
				aHigh = aGuess
			} else {
				aLow = aGuess
			}
			if math.Abs(sErr) < distTol || (aHigh-aLow) < 1e-9*math.Max(1.0, aHigh) {
				break
			}
		}
		_ = bestA

		if !found {
			return 0, 0, 0, 0, 0, false
		}

		td, tj, ta, tv = bestTd, bestTj, 0, 0
	}

	totalTime = math.Max(0.0, 2.0*(4.0*td+2.0*tj+ta)+tv)
	return td, tj, ta, tv, totalTime, true
}
