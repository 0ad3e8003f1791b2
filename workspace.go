package rrr_arm

import (
	"github.com/golang/geo/r3"
)

// DefaultWorkspaceStep is the grid spacing used for the workspace overlay.
const DefaultWorkspaceStep = 7

// SampleWorkspace returns the grid points inside the reach square for which
// Solve finds a valid solution under cfg. It is a display aid; points between
// grid cells are not examined.
func SampleWorkspace(cfg ArmConfig) []r3.Vector {
	return SampleWorkspaceStep(cfg, DefaultWorkspaceStep)
}

// SampleWorkspaceStep is SampleWorkspace with a custom grid step. A step below
// one is treated as one.
func SampleWorkspaceStep(cfg ArmConfig, step int) []r3.Vector {
	if step < 1 {
		step = 1
	}
	rMax := int(cfg.Reach())

	var points []r3.Vector
	for x := -rMax; x < rMax+step; x += step {
		for y := -rMax; y < rMax+step; y += step {
			p := r3.Vector{X: float64(x), Y: float64(y)}
			if _, err := Solve(p, cfg); err == nil {
				points = append(points, p)
			}
		}
	}
	return points
}
