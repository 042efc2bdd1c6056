// Package plant models the controlled mechanical load: a single rigid
// mass driven by a commanded force, discretized with a Tustin transform
// of 1/(m*s^2).
package plant

// RigidBody is a Tustin-discretized double integrator of mass Mass,
// sampled at Ts. Force in, position out.
type RigidBody struct {
	Mass float64
	Ts   float64

	b0, b1, b2 float64
	a0, a1, a2 float64

	inPrev  [2]float64
	outPrev [2]float64
}

// NewRigidBody derives the discretization coefficients from mass and
// sample period:
//
//	b0 = Ts^2, b1 = 2*Ts^2, b2 = Ts^2
//	a0 = 4*m,  a1 = -8*m,   a2 = 4*m
func NewRigidBody(mass, ts float64) *RigidBody {
	rb := &RigidBody{Mass: mass, Ts: ts}

	rb.b0 = ts * ts
	rb.b1 = 2 * ts * ts
	rb.b2 = ts * ts

	rb.a0 = 4 * mass
	rb.a1 = -8 * mass
	rb.a2 = 4 * mass

	return rb
}

// Update advances the plant by one sample under the given commanded
// force and returns the new output position.
func (rb *RigidBody) Update(force float64) float64 {
	output := (rb.b0*force + rb.b1*rb.inPrev[0] + rb.b2*rb.inPrev[1] -
		rb.a1*rb.outPrev[0] - rb.a2*rb.outPrev[1]) / rb.a0

	rb.inPrev[1] = rb.inPrev[0]
	rb.inPrev[0] = force
	rb.outPrev[1] = rb.outPrev[0]
	rb.outPrev[0] = output

	return output
}

// Position returns the plant's last committed output position, i.e. the
// value out_prev[0] holds before Update is next called. The control
// loop reads this one-sample-delayed value as "actual position" ahead
// of computing the next force, matching the original controller's
// read-before-update ordering.
func (rb *RigidBody) Position() float64 {
	return rb.outPrev[0]
}
