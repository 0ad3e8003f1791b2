package rrr_arm

import (
	"iter"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"
)

// DefaultPathSteps is the number of interpolated targets per executed path.
const DefaultPathSteps = 50

// LinearPath returns steps evenly spaced points from start to end, both
// included.
func LinearPath(start, end r3.Vector, steps int) []r3.Vector {
	switch {
	case steps <= 0:
		return nil
	case steps == 1:
		return []r3.Vector{start}
	}

	xs := floats.Span(make([]float64, steps), start.X, end.X)
	ys := floats.Span(make([]float64, steps), start.Y, end.Y)

	path := make([]r3.Vector, steps)
	for i := range path {
		path[i] = r3.Vector{X: xs[i], Y: ys[i]}
	}
	// endpoints are exact, whatever rounding Span accumulated
	path[0], path[steps-1] = start, end
	return path
}

// PathStep is one target of a traversal and its solve result. Err is non-nil
// only on the last step of an aborted traversal.
type PathStep struct {
	Index  int
	Target r3.Vector
	Angles JointAngles
	Err    error
}

// Trajectory lazily solves each point of LinearPath(start, end, steps) in
// order. The first failing step is yielded with its error and ends the
// sequence. Ranging over the result again restarts from the first point.
func Trajectory(start, end r3.Vector, steps int, cfg ArmConfig) iter.Seq[PathStep] {
	return func(yield func(PathStep) bool) {
		for i, target := range LinearPath(start, end, steps) {
			angles, err := Solve(target, cfg)
			if !yield(PathStep{Index: i, Target: target, Angles: angles, Err: err}) || err != nil {
				return
			}
		}
	}
}

// TrajectoryResult is the eager outcome of a traversal.
type TrajectoryResult struct {
	// Steps holds every visited step; after a failed solve it ends with the
	// failing step.
	Steps     []PathStep
	Completed bool
	// FailedAt is the index of the step without a solution, or -1.
	FailedAt int
}

// Err returns the error of the failing step, if any.
func (r TrajectoryResult) Err() error {
	if r.FailedAt < 0 || len(r.Steps) == 0 {
		return nil
	}
	return r.Steps[len(r.Steps)-1].Err
}

// Applied returns the steps that produced valid joint angles.
func (r TrajectoryResult) Applied() []PathStep {
	if r.FailedAt < 0 || len(r.Steps) == 0 {
		return r.Steps
	}
	return r.Steps[:len(r.Steps)-1]
}

// RunTrajectory collects Trajectory into a TrajectoryResult.
func RunTrajectory(start, end r3.Vector, steps int, cfg ArmConfig) TrajectoryResult {
	res := TrajectoryResult{Completed: true, FailedAt: -1}
	for step := range Trajectory(start, end, steps, cfg) {
		res.Steps = append(res.Steps, step)
		if step.Err != nil {
			res.Completed = false
			res.FailedAt = step.Index
		}
	}
	return res
}
