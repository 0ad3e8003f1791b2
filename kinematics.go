package rrr_arm

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/rdk/spatialmath"
)

var (
	// ErrNoSolution is matched (via errors.Is) by every failed solve.
	ErrNoSolution = errors.New("no inverse kinematics solution")

	// ErrUnreachable means the wrist center lies outside the two-link annulus.
	ErrUnreachable = errors.WithMessage(ErrNoSolution, "target out of workspace")

	// ErrLimitExceeded means a geometric solution exists but a joint is outside its limits.
	ErrLimitExceeded = errors.WithMessage(ErrNoSolution, "joint limit hit")
)

// JointAngles holds the three joint angles in degrees, base joint first.
type JointAngles [3]float64

func (q JointAngles) String() string {
	return fmt.Sprintf("(%.2f°, %.2f°, %.2f°)", q[0], q[1], q[2])
}

// Radians returns the angles converted to radians.
func (q JointAngles) Radians() [3]float64 {
	return [3]float64{Radians(q[0]), Radians(q[1]), Radians(q[2])}
}

// Degrees converts radians to degrees.
func Degrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// Solve computes the joint angles that put the end effector on target.
//
// The last link is taken to point along the polar angle of the target, so the
// wrist center sits L3 short of the target on the ray from the origin. The
// remaining two-link problem is solved in closed form with cfg.Elbow picking
// the sign of sin(q2). The whole triple is rejected if any joint falls outside
// its limit. No tolerance is applied at the workspace boundary or at the limits.
func Solve(target r3.Vector, cfg ArmConfig) (JointAngles, error) {
	l1, l2, l3 := cfg.LinkLengths[0], cfg.LinkLengths[1], cfg.LinkLengths[2]

	phi := math.Atan2(target.Y, target.X)
	wx := target.X - l3*math.Cos(phi)
	wy := target.Y - l3*math.Sin(phi)
	dSq := wx*wx + wy*wy

	cos2 := (dSq - l1*l1 - l2*l2) / (2 * l1 * l2)
	if math.Abs(cos2) > 1.0 {
		return JointAngles{}, errors.WithMessagef(ErrUnreachable, "target (%.2f, %.2f), cos(q2)=%.4f", target.X, target.Y, cos2)
	}

	sin2 := float64(cfg.Elbow) * math.Sqrt(1-cos2*cos2)
	q2 := math.Atan2(sin2, cos2)
	q1 := math.Atan2(wy, wx) - math.Atan2(l2*sin2, l1+l2*cos2)
	q3 := phi - (q1 + q2)

	angles := JointAngles{Degrees(q1), Degrees(q2), Degrees(q3)}
	for i, a := range angles {
		lim := cfg.JointLimits[i]
		if !lim.Contains(a) {
			return JointAngles{}, errors.WithMessagef(ErrLimitExceeded,
				"joint %d angle %.2f° outside [%.2f°, %.2f°]", i+1, a, lim.Min, lim.Max)
		}
	}

	return angles, nil
}

// ForwardKinematics returns the base, elbow, wrist and end effector positions
// for the given angles, accumulating each joint angle along the chain.
func ForwardKinematics(angles JointAngles, links [3]float64) [4]r3.Vector {
	var pts [4]r3.Vector
	heading := 0.0
	for i := range 3 {
		heading += Radians(angles[i])
		pts[i+1] = r3.Vector{
			X: pts[i].X + links[i]*math.Cos(heading),
			Y: pts[i].Y + links[i]*math.Sin(heading),
		}
	}
	return pts
}

// EndEffector returns only the tip of the chain.
func EndEffector(angles JointAngles, links [3]float64) r3.Vector {
	return ForwardKinematics(angles, links)[3]
}

// EndPose returns the end effector as a pose rotated about +Z by the total
// joint angle.
func EndPose(angles JointAngles, links [3]float64) spatialmath.Pose {
	return spatialmath.NewPose(
		EndEffector(angles, links),
		&spatialmath.OrientationVectorDegrees{OZ: 1, Theta: angles[0] + angles[1] + angles[2]},
	)
}
