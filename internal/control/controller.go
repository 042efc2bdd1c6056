// Package control implements the per-axis compensation chain: a PID
// compensator feeding a low-pass filter feeding a notch filter.
package control

import "motionctl/internal/biquad"

// Default tuning constants, carried over from the reference controller.
const (
	DefaultKp = 500000.0
	DefaultKi = 10.0
	DefaultKd = 20.0

	DefaultLowPassFreq = 500.0
	DefaultLowPassDamp = 0.8

	DefaultNotchZeroFreq = 100.0
	DefaultNotchPoleFreq = 100.0
	DefaultNotchZeroDamp = 0.01
	DefaultNotchPoleDamp = 0.05
)

// Controller chains a PID compensator, a low-pass filter, and a notch
// filter in series: error in, commanded force out.
type Controller struct {
	PID   *biquad.PID
	LPF   *biquad.LowPass
	Notch *biquad.Notch
}

// New builds a Controller with the default tuning constants at sample
// period ts.
func New(ts float64) *Controller {
	return &Controller{
		PID:   biquad.NewPID(DefaultKp, DefaultKi, DefaultKd, ts),
		LPF:   biquad.NewLowPass(DefaultLowPassFreq, DefaultLowPassDamp, ts),
		Notch: biquad.NewNotch(DefaultNotchZeroFreq, DefaultNotchPoleFreq, DefaultNotchZeroDamp, DefaultNotchPoleDamp, ts),
	}
}

// Update runs one control step: PID output is low-pass filtered, then
// notch filtered, producing the commanded force.
func (c *Controller) Update(errVal float64) float64 {
	pidOut := c.PID.Update(errVal)
	lpfOut := c.LPF.Update(pidOut)
	notchOut := c.Notch.Update(lpfOut)
	return notchOut
}

// Reset clears all three stages' history, leaving tuning untouched.
func (c *Controller) Reset() {
	c.PID.Reset()
	c.LPF.Reset()
	c.Notch.Reset()
}

// SetGains overwrites the PID gains in place. Callers are responsible
// for resolving the 0.0-sentinel "leave unchanged" convention before
// calling this.
func (c *Controller) SetGains(kp, ki, kd float64) {
	c.PID.SetGains(kp, ki, kd)
}
