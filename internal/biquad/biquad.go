// Package biquad implements the fixed-coefficient direct-form-I filters
// shared by the control chain: a PI-D compensator, a second-order
// low-pass, and a twin-resonance notch. All three are built on the same
// two-sample-history recursion; only coefficient derivation differs.
package biquad

// State holds the two-sample input/output history and the six
// direct-form-I coefficients of a discrete biquad section.
//
//	y[n] = (b0*x[n] + b1*x[n-1] + b2*x[n-2] - a1*y[n-1] - a2*y[n-2]) / a0
type State struct {
	A0, A1, A2 float64
	B0, B1, B2 float64

	inPrev  [2]float64
	outPrev [2]float64
}

// Update applies one step of the direct-form-I recursion and shifts the
// input/output histories.
func (s *State) Update(x float64) float64 {
	y := (s.B0*x + s.B1*s.inPrev[0] + s.B2*s.inPrev[1] -
		s.A1*s.outPrev[0] - s.A2*s.outPrev[1]) / s.A0

	s.inPrev[1] = s.inPrev[0]
	s.inPrev[0] = x
	s.outPrev[1] = s.outPrev[0]
	s.outPrev[0] = y

	return y
}

// Reset clears the input/output history, leaving coefficients untouched.
func (s *State) Reset() {
	s.inPrev = [2]float64{}
	s.outPrev = [2]float64{}
}

// Output returns the most recently produced sample without advancing state.
func (s *State) Output() float64 {
	return s.outPrev[0]
}
