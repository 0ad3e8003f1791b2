package rrr_arm

import (
	"slices"

	"github.com/golang/geo/r3"
)

// PathHistory is the end effector trail left by executed paths. The zero
// value is an empty history. Values are never modified in place: Append
// returns a new history and leaves the receiver untouched.
type PathHistory struct {
	points []r3.Vector
}

// Append returns a history with pts added after the existing points.
func (h PathHistory) Append(pts ...r3.Vector) PathHistory {
	if len(pts) == 0 {
		return h
	}
	return PathHistory{points: append(slices.Clip(h.points), pts...)}
}

// Len returns the number of recorded points.
func (h PathHistory) Len() int {
	return len(h.points)
}

// Points returns a copy of the recorded points in visiting order.
func (h PathHistory) Points() []r3.Vector {
	return slices.Clone(h.points)
}

// Last returns the most recent point.
func (h PathHistory) Last() (r3.Vector, bool) {
	if len(h.points) == 0 {
		return r3.Vector{}, false
	}
	return h.points[len(h.points)-1], true
}
