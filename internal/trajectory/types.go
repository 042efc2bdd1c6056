// Package trajectory implements a fourth-order (snap-limited) S-curve
// point-to-point motion profile. A planner is built once from a set of
// physical constraints and then stepped point by point; boundary states
// for every one of the fourteen accel/decel sub-phases are precomputed
// at construction so that stepping never accumulates integration error.
package trajectory

// Input is the set of physical constraints and sampling parameters a
// profile is planned from.
type Input struct {
	Distance   float64 // [m] total displacement, must be >= 0
	VMax       float64 // [m/s] velocity cap, must be > 0
	AMax       float64 // [m/s^2] acceleration cap, must be > 0
	JMax       float64 // [m/s^3] jerk cap, must be > 0
	DMax       float64 // [m/s^4] snap cap, must be > 0
	SampleTime float64 // [s] sample period, must be > 0
	TimeLimit  float64 // [s] desired total duration; <= 0 means "use the optimal time"
}

// Point is the complete kinematic state of a profile at one instant.
type Point struct {
	Time float64 // [s]
	Pos  float64 // [m]
	Vel  float64 // [m/s]
	Acc  float64 // [m/s^2]
	Jerk float64 // [m/s^3]
	Snap float64 // [m/s^4]
}

// boundaryState is the kinematic state at one of the eight border times
// of a seven-segment accel or decel half.
type boundaryState struct {
	pos, vel, acc, jerk float64
}

const numSegments = 7

// Context is a planned profile: the precomputed time segmentation and
// boundary states needed to answer GetNextPoint in constant time and
// with no accumulated error. Build one with NewPlanner.
type Context struct {
	input Input

	td, tj, ta, tv float64
	totalTime      float64

	isTimeScaled bool
	alpha        float64

	accBorders [numSegments + 1]float64
	decBorders [numSegments + 1]float64
	constVelStart float64
	decelStart    float64

	accState      [numSegments + 1]boundaryState
	decState      [numSegments + 1]boundaryState
	constVelEnd   boundaryState

	currentTime float64
	finished    bool
}
