package biquad

import "math"

// LowPass is a second-order discrete low-pass section parameterized by
// cutoff frequency and damping ratio.
type LowPass struct {
	State
	CutoffHz float64
	Damping  float64
	Ts       float64
}

// NewLowPass derives direct-form-I coefficients for cutoff fc [Hz],
// damping ratio zeta, and sample period ts [s]:
//
//	omega = 2*pi*fc*ts
//	b0=b2=omega^2, b1=2*omega^2
//	a0=4+4*zeta*omega+omega^2, a1=-8+2*omega^2, a2=4-4*zeta*omega+omega^2
func NewLowPass(fc, zeta, ts float64) *LowPass {
	lp := &LowPass{CutoffHz: fc, Damping: zeta, Ts: ts}
	omega := 2 * math.Pi * fc * ts
	omegaSq := omega * omega

	lp.B0 = omegaSq
	lp.B1 = 2 * omegaSq
	lp.B2 = omegaSq

	lp.A0 = 4 + 4*zeta*omega + omegaSq
	lp.A1 = -8 + 2*omegaSq
	lp.A2 = 4 - 4*zeta*omega + omegaSq

	return lp
}
