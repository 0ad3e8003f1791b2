package rrr_arm

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openConfig has limits wide enough that only geometry can reject a target.
func openConfig() ArmConfig {
	cfg := DefaultArmConfig
	for i := range cfg.JointLimits {
		cfg.JointLimits[i] = JointLimit{Min: -720, Max: 720}
	}
	return cfg
}

func assertAngles(t *testing.T, expected, actual JointAngles) {
	t.Helper()
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], 1e-6, "joint %d", i+1)
	}
}

func TestSolveStretchedAlongX(t *testing.T) {
	cfg := DefaultArmConfig
	cfg.JointLimits = [3]JointLimit{{-180, 180}, {-180, 180}, {-180, 180}}

	angles, err := Solve(r3.Vector{X: 130, Y: 0}, cfg)
	require.NoError(t, err)
	assertAngles(t, JointAngles{0, 0, 0}, angles)
}

func TestSolveDefaultEndPointIsUnreachable(t *testing.T) {
	cfg := DefaultArmConfig
	cfg.JointLimits = [3]JointLimit{{-180, 180}, {-180, 180}, {-180, 180}}

	_, err := Solve(r3.Vector{X: 50, Y: 180}, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSolution))
	assert.True(t, errors.Is(err, ErrUnreachable))
	assert.False(t, errors.Is(err, ErrLimitExceeded))
}

func TestSolveKnownTarget(t *testing.T) {
	up, err := Solve(r3.Vector{X: 80, Y: 60}, DefaultArmConfig)
	require.NoError(t, err)
	assertAngles(t, JointAngles{2.09795361389543, 93.58332169847198, -58.81137766652338}, up)

	down, err := Solve(r3.Vector{X: 80, Y: 60}, DefaultArmConfig.WithElbow(ElbowDown))
	require.NoError(t, err)
	assertAngles(t, JointAngles{71.64184167779261, -93.58332169847198, 58.81137766652338}, down)
}

func TestSolveElbowSolutionsDiffer(t *testing.T) {
	targets := []r3.Vector{
		{X: 80, Y: 60},
		{X: 100, Y: 0},
		{X: -50, Y: 70},
		{X: 20, Y: -110},
	}

	for _, target := range targets {
		up, err := Solve(target, openConfig())
		require.NoError(t, err, "target %v", target)
		down, err := Solve(target, openConfig().WithElbow(ElbowDown))
		require.NoError(t, err, "target %v", target)

		assert.NotEqual(t, up, down)
		assert.InDelta(t, up[1], -down[1], 1e-9, "q2 flips sign between elbow configurations")
	}
}

func TestSolveElbowSolutionsCoincideOnBoundary(t *testing.T) {
	up, err := Solve(r3.Vector{X: 130}, openConfig())
	require.NoError(t, err)
	down, err := Solve(r3.Vector{X: 130}, openConfig().WithElbow(ElbowDown))
	require.NoError(t, err)

	assertAngles(t, up, down)
}

func TestSolveRoundTrip(t *testing.T) {
	for _, elbow := range []ElbowSign{ElbowUp, ElbowDown} {
		cfg := openConfig().WithElbow(elbow)
		solved := 0
		for x := -130.0; x <= 130; x += 10 {
			for y := -130.0; y <= 130; y += 10 {
				target := r3.Vector{X: x, Y: y}
				angles, err := Solve(target, cfg)
				if err != nil {
					continue
				}
				solved++
				tip := EndEffector(angles, cfg.LinkLengths)
				assert.InDelta(t, x, tip.X, 1e-9, "x of %v elbow %s", target, elbow)
				assert.InDelta(t, y, tip.Y, 1e-9, "y of %v elbow %s", target, elbow)
			}
		}
		assert.Greater(t, solved, 100)
	}
}

func TestSolveAnnulusBoundsOnWristCenter(t *testing.T) {
	cfg := openConfig()
	l1, l2, l3 := cfg.LinkLengths[0], cfg.LinkLengths[1], cfg.LinkLengths[2]

	for x := -200.0; x <= 200; x += 5 {
		for y := -200.0; y <= 200; y += 5 {
			phi := math.Atan2(y, x)
			wx, wy := x-l3*math.Cos(phi), y-l3*math.Sin(phi)
			dSq := wx*wx + wy*wy
			if dSq > (l1+l2)*(l1+l2)+1e-6 || dSq < (l1-l2)*(l1-l2)-1e-6 {
				_, err := Solve(r3.Vector{X: x, Y: y}, cfg)
				assert.True(t, errors.Is(err, ErrUnreachable), "(%v, %v) should be unreachable", x, y)
			}
		}
	}
}

func TestSolveInnerHoleIsUnreachable(t *testing.T) {
	_, err := Solve(r3.Vector{X: 45, Y: 0}, openConfig())
	assert.True(t, errors.Is(err, ErrUnreachable))
}

func TestSolveOrigin(t *testing.T) {
	t.Run("open limits", func(t *testing.T) {
		angles, err := Solve(r3.Vector{}, openConfig())
		require.NoError(t, err)
		tip := EndEffector(angles, DefaultArmConfig.LinkLengths)
		assert.InDelta(t, 0, tip.X, 1e-9)
		assert.InDelta(t, 0, tip.Y, 1e-9)
	})

	t.Run("default limits reject the elbow", func(t *testing.T) {
		_, err := Solve(r3.Vector{}, DefaultArmConfig)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrLimitExceeded))
		assert.True(t, errors.Is(err, ErrNoSolution))
		assert.Contains(t, err.Error(), "joint 2")
	})
}

func TestSolveRejectsWholeTriple(t *testing.T) {
	cfg := DefaultArmConfig
	// (80, 60) elbow up has q3 ≈ -58.8°
	cfg.JointLimits[2] = JointLimit{Min: -10, Max: 10}

	angles, err := Solve(r3.Vector{X: 80, Y: 60}, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLimitExceeded))
	assert.Equal(t, JointAngles{}, angles)
}

func TestSolveLimitsAreInclusive(t *testing.T) {
	cfg := DefaultArmConfig
	cfg.JointLimits = [3]JointLimit{{0, 0}, {0, 0}, {0, 0}}

	angles, err := Solve(r3.Vector{X: 130}, cfg)
	require.NoError(t, err)
	assertAngles(t, JointAngles{}, angles)
}

func TestSolveIsDeterministic(t *testing.T) {
	target := r3.Vector{X: -33.3, Y: 71.1}
	first, firstErr := Solve(target, DefaultArmConfig)
	for range 10 {
		again, err := Solve(target, DefaultArmConfig)
		assert.Equal(t, first, again)
		assert.Equal(t, firstErr == nil, err == nil)
	}
}

func TestForwardKinematics(t *testing.T) {
	links := [3]float64{60, 40, 30}

	pts := ForwardKinematics(JointAngles{90, -90, 0}, links)
	assert.InDelta(t, 0, pts[0].Norm(), 1e-12)
	assert.InDelta(t, 0, pts[1].X, 1e-9)
	assert.InDelta(t, 60, pts[1].Y, 1e-9)
	assert.InDelta(t, 40, pts[2].X, 1e-9)
	assert.InDelta(t, 60, pts[2].Y, 1e-9)
	assert.InDelta(t, 70, pts[3].X, 1e-9)
	assert.InDelta(t, 60, pts[3].Y, 1e-9)

	pose := EndPose(JointAngles{90, -90, 0}, links)
	assert.InDelta(t, 70, pose.Point().X, 1e-9)
	assert.InDelta(t, 60, pose.Point().Y, 1e-9)
}

func TestDegreesRadians(t *testing.T) {
	assert.InDelta(t, 180, Degrees(math.Pi), 1e-12)
	assert.InDelta(t, math.Pi/2, Radians(90), 1e-12)
	assert.Equal(t, "(1.00°, -2.50°, 3.25°)", JointAngles{1, -2.5, 3.25}.String())
}
