package rrr_arm

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearPath(t *testing.T) {
	start := r3.Vector{X: 0, Y: 0}
	end := r3.Vector{X: 10, Y: -20}

	path := LinearPath(start, end, 11)
	require.Len(t, path, 11)
	assert.Equal(t, start, path[0])
	assert.Equal(t, end, path[10])
	for i, p := range path {
		assert.InDelta(t, float64(i), p.X, 1e-9)
		assert.InDelta(t, -2*float64(i), p.Y, 1e-9)
		assert.Zero(t, p.Z)
	}
}

func TestLinearPathEndpointsExact(t *testing.T) {
	start := r3.Vector{X: 130, Y: 0}
	end := r3.Vector{X: 50, Y: 180}

	for _, steps := range []int{2, 3, 7, 50, 333} {
		path := LinearPath(start, end, steps)
		require.Len(t, path, steps)
		assert.Equal(t, start, path[0])
		assert.Equal(t, end, path[steps-1])
	}
}

func TestLinearPathDegenerateCounts(t *testing.T) {
	start := r3.Vector{X: 1, Y: 2}
	end := r3.Vector{X: 3, Y: 4}

	assert.Empty(t, LinearPath(start, end, 0))
	assert.Empty(t, LinearPath(start, end, -5))
	assert.Equal(t, []r3.Vector{start}, LinearPath(start, end, 1))
}

func TestLinearPathSamePoint(t *testing.T) {
	p := r3.Vector{X: 80, Y: 60}
	for _, q := range LinearPath(p, p, 5) {
		assert.Equal(t, p, q)
	}
}

func TestRunTrajectoryCompletes(t *testing.T) {
	res := RunTrajectory(r3.Vector{X: 130}, r3.Vector{X: 80, Y: 60}, 50, DefaultArmConfig)

	assert.True(t, res.Completed)
	assert.Equal(t, -1, res.FailedAt)
	assert.NoError(t, res.Err())
	require.Len(t, res.Steps, 50)
	assert.Len(t, res.Applied(), 50)

	for i, step := range res.Steps {
		assert.Equal(t, i, step.Index)
		assert.NoError(t, step.Err)
	}
	last := res.Steps[49]
	assert.Equal(t, r3.Vector{X: 80, Y: 60}, last.Target)
	assertAngles(t, JointAngles{2.09795361389543, 93.58332169847198, -58.81137766652338}, last.Angles)
}

func TestRunTrajectoryStopsAtFirstFailure(t *testing.T) {
	res := RunTrajectory(r3.Vector{X: 130}, DefaultEndPoint, DefaultPathSteps, DefaultArmConfig)

	assert.False(t, res.Completed)
	assert.Equal(t, 27, res.FailedAt)
	require.Len(t, res.Steps, 28)
	assert.Len(t, res.Applied(), 27)
	assert.True(t, errors.Is(res.Err(), ErrUnreachable))

	for _, step := range res.Applied() {
		assert.NoError(t, step.Err)
	}
}

func TestRunTrajectoryLimitFailure(t *testing.T) {
	res := RunTrajectory(r3.Vector{X: 80, Y: 60}, r3.Vector{X: -80, Y: 60}, 50, DefaultArmConfig)

	assert.False(t, res.Completed)
	assert.Equal(t, 20, res.FailedAt)
	assert.True(t, errors.Is(res.Err(), ErrLimitExceeded))
	assert.Contains(t, res.Err().Error(), "joint 2")
}

func TestRunTrajectoryFailsOnStart(t *testing.T) {
	res := RunTrajectory(DefaultEndPoint, r3.Vector{X: 130}, 10, DefaultArmConfig)

	assert.False(t, res.Completed)
	assert.Equal(t, 0, res.FailedAt)
	assert.Empty(t, res.Applied())
}

func TestRunTrajectoryNoSteps(t *testing.T) {
	res := RunTrajectory(r3.Vector{X: 130}, DefaultEndPoint, 0, DefaultArmConfig)

	assert.True(t, res.Completed)
	assert.Empty(t, res.Steps)
	assert.NoError(t, res.Err())
}

func TestTrajectoryIsLazy(t *testing.T) {
	var seen []int
	for step := range Trajectory(r3.Vector{X: 130}, r3.Vector{X: 80, Y: 60}, 50, DefaultArmConfig) {
		seen = append(seen, step.Index)
		if step.Index == 4 {
			break
		}
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, seen)
}

func TestTrajectoryRestarts(t *testing.T) {
	seq := Trajectory(r3.Vector{X: 130}, r3.Vector{X: 80, Y: 60}, 10, DefaultArmConfig)

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	assert.Equal(t, 10, count())
	assert.Equal(t, 10, count())
}

func TestTrajectoryElbowDown(t *testing.T) {
	cfg := DefaultArmConfig.WithElbow(ElbowDown)

	res := RunTrajectory(r3.Vector{X: 130}, r3.Vector{X: 0, Y: 100}, 50, cfg)
	require.True(t, res.Completed)
	last := res.Steps[len(res.Steps)-1]
	assertAngles(t, JointAngles{124.77194403194859, -93.58332169847198, 58.81137766652338}, last.Angles)
}
