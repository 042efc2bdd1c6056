package biquad

import "math"

// Notch is a twin-resonance notch built from an independent zero pair
// (fz, zetaZ) and pole pair (fp, zetaP).
type Notch struct {
	State
	ZeroHz, PoleHz     float64
	ZeroDamp, PoleDamp float64
	Ts                 float64
}

// NewNotch derives coefficients from the zero/pole pair:
//
//	Oz = 2*pi*fz, Op = 2*pi*fp
//	b0 = 1 + 2*zetaZ/(Oz*Ts) + 4/(Oz^2*Ts^2)
//	b1 = 2 - 8/(Oz^2*Ts^2)
//	b2 = 1 - 2*zetaZ/(Oz*Ts) + 4/(Oz^2*Ts^2)
//
// with the denominator (a0, a1, a2) built the same way from the pole pair.
func NewNotch(fz, fp, zetaZ, zetaP, ts float64) *Notch {
	n := &Notch{ZeroHz: fz, PoleHz: fp, ZeroDamp: zetaZ, PoleDamp: zetaP, Ts: ts}

	omegaZ := 2 * math.Pi * fz
	omegaP := 2 * math.Pi * fp

	n.B0 = 1 + 2*zetaZ/(omegaZ*ts) + 4/(omegaZ*omegaZ*ts*ts)
	n.B1 = 2 - 8/(omegaZ*omegaZ*ts*ts)
	n.B2 = 1 - 2*zetaZ/(omegaZ*ts) + 4/(omegaZ*omegaZ*ts*ts)

	n.A0 = 1 + 2*zetaP/(omegaP*ts) + 4/(omegaP*omegaP*ts*ts)
	n.A1 = 2 - 8/(omegaP*omegaP*ts*ts)
	n.A2 = 1 - 2*zetaP/(omegaP*ts) + 4/(omegaP*omegaP*ts*ts)

	return n
}
