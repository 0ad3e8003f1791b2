package rrr_arm

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"
)

// DefaultFrameDelay paces Execute between applied frames.
const DefaultFrameDelay = 5 * time.Millisecond

// DefaultEndPoint is the end target the control panel is seeded with.
var DefaultEndPoint = r3.Vector{X: 50, Y: 180}

// Frame is handed to the Execute callback once per applied path step.
type Frame struct {
	Step   PathStep
	Joints [4]r3.Vector
}

// JointBar is the normalized position of a joint inside its limit range.
type JointBar struct {
	Fraction float64 `json:"fraction"`
	Label    string  `json:"label"`
}

// Scene is an immutable copy of the simulator state for renderers.
type Scene struct {
	Config    ArmConfig
	Start     r3.Vector
	End       r3.Vector
	Angles    JointAngles
	HasPose   bool
	Workspace []r3.Vector
	History   []r3.Vector
}

// Joints returns the linkage positions of the current pose.
func (s Scene) Joints() ([4]r3.Vector, bool) {
	if !s.HasPose {
		return [4]r3.Vector{}, false
	}
	return ForwardKinematics(s.Angles, s.Config.LinkLengths), true
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

// WithFrameDelay sets the pause between frames in Execute. Zero disables pacing.
func WithFrameDelay(d time.Duration) SimulatorOption {
	return func(s *Simulator) {
		s.frameDelay = d
	}
}

// WithMetrics records solve and trajectory outcomes into m.
func WithMetrics(m *Metrics) SimulatorOption {
	return func(s *Simulator) {
		s.metrics = m
	}
}

// Simulator owns the interactive state around the kinematics core: the
// current arm config, the start/end targets, the displayed pose, the cached
// workspace and the trail.
type Simulator struct {
	logger     logging.Logger
	metrics    *Metrics
	frameDelay time.Duration

	// execMu serializes Execute with every mutator that moves the start
	// target or changes the config; mu guards the fields below it.
	execMu sync.Mutex

	mu        sync.RWMutex
	cfg       ArmConfig
	start     r3.Vector
	end       r3.Vector
	angles    JointAngles
	hasPose   bool
	workspace []r3.Vector
	history   PathHistory
}

// NewSimulator validates cfg, samples its workspace and places the arm
// stretched along the X axis.
func NewSimulator(cfg ArmConfig, logger logging.Logger, opts ...SimulatorOption) (*Simulator, error) {
	s := &Simulator{
		logger:     logger,
		frameDelay: DefaultFrameDelay,
		end:        DefaultEndPoint,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}

	if err := s.UpdateParams(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Metrics returns the simulator's collectors.
func (s *Simulator) Metrics() *Metrics {
	return s.metrics
}

// Config returns the current arm config.
func (s *Simulator) Config() ArmConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// UpdateParams replaces the link lengths, limits and elbow, recomputes the
// workspace and resets the arm to the X axis. On error nothing changes.
func (s *Simulator) UpdateParams(cfg ArmConfig) error {
	if _, _, err := cfg.Validate(""); err != nil {
		return errors.Wrap(err, "invalid numeric inputs")
	}

	started := time.Now()
	workspace := SampleWorkspace(cfg)
	s.logger.Debugf("Sampled %d workspace points in %v", len(workspace), time.Since(started))

	s.execMu.Lock()
	defer s.execMu.Unlock()

	s.mu.Lock()
	s.cfg = cfg
	s.workspace = workspace
	s.resetToXAxisLocked()
	s.mu.Unlock()

	s.metrics.workspacePoints.Set(float64(len(workspace)))
	s.logger.Infof("Arm updated: links=%v limits=%v elbow=%s", cfg.LinkLengths, cfg.JointLimits, cfg.Elbow)
	return nil
}

// ResetToXAxis moves the start target to (L1+L2+L3, 0) and shows the arm
// fully stretched with all joints at zero.
func (s *Simulator) ResetToXAxis() {
	s.execMu.Lock()
	defer s.execMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetToXAxisLocked()
}

func (s *Simulator) resetToXAxisLocked() {
	s.start = r3.Vector{X: s.cfg.Reach()}
	s.angles = JointAngles{}
	s.hasPose = true
}

// SetStart sets the start target and re-solves the displayed pose.
func (s *Simulator) SetStart(p r3.Vector) error {
	s.execMu.Lock()
	defer s.execMu.Unlock()
	return s.setStart(p)
}

func (s *Simulator) setStart(p r3.Vector) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start = p
	return s.resolveStartLocked()
}

// SetEnd sets the end target used by Execute.
func (s *Simulator) SetEnd(p r3.Vector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.end = p
}

// Start returns the current start target.
func (s *Simulator) Start() r3.Vector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.start
}

// End returns the current end target.
func (s *Simulator) End() r3.Vector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.end
}

// SetElbow switches the elbow configuration and re-solves the start target.
// The returned error reports that the start has no solution in the new
// configuration; the switch still takes effect and the pose is cleared.
func (s *Simulator) SetElbow(e ElbowSign) error {
	if e != ElbowUp && e != ElbowDown {
		return fmt.Errorf("elbow must be +1 or -1, got %d", int(e))
	}
	s.execMu.Lock()
	defer s.execMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Elbow = e
	return s.resolveStartLocked()
}

// ClearHistory empties the trail and re-solves the start target.
func (s *Simulator) ClearHistory() error {
	s.execMu.Lock()
	defer s.execMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = PathHistory{}
	s.metrics.historyPoints.Set(0)
	return s.resolveStartLocked()
}

func (s *Simulator) resolveStartLocked() error {
	angles, err := Solve(s.start, s.cfg)
	s.metrics.observeSolve(err)
	if err != nil {
		s.hasPose = false
		return err
	}
	s.angles = angles
	s.hasPose = true
	return nil
}

// Solve runs the solver against the current config without touching the
// displayed pose.
func (s *Simulator) Solve(target r3.Vector) (JointAngles, error) {
	angles, err := Solve(target, s.Config())
	s.metrics.observeSolve(err)
	return angles, err
}

// Pose returns the displayed joint angles, if any.
func (s *Simulator) Pose() (JointAngles, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.angles, s.hasPose
}

// History returns the current trail.
func (s *Simulator) History() PathHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history
}

// Workspace returns a copy of the sampled workspace for the current config.
func (s *Simulator) Workspace() []r3.Vector {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.workspace)
}

// Snapshot copies the whole state for rendering.
func (s *Simulator) Snapshot() Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Scene{
		Config:    s.cfg,
		Start:     s.start,
		End:       s.end,
		Angles:    s.angles,
		HasPose:   s.hasPose,
		Workspace: slices.Clone(s.workspace),
		History:   s.history.Points(),
	}
}

// JointBars returns the position of each joint inside its limit range, or
// nil when no pose is displayed.
func (s *Simulator) JointBars() []JointBar {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasPose {
		return nil
	}
	return jointBars(s.angles, s.cfg.JointLimits)
}

func jointBars(angles JointAngles, limits [3]JointLimit) []JointBar {
	bars := make([]JointBar, 3)
	for i, a := range angles {
		span := math.Max(1, limits[i].Max-limits[i].Min)
		bars[i] = JointBar{
			Fraction: math.Min(1, math.Max(0, (a-limits[i].Min)/span)),
			Label:    fmt.Sprintf("J%d: %.1f°", i+1, a),
		}
	}
	return bars
}

// Execute drives the arm from the start target to end along a straight line.
// Each solved step becomes the displayed pose, extends the trail and is passed
// to onFrame (which may be nil); frames are paced by the frame delay. The first
// step without a solution aborts the run with an error matching ErrNoSolution
// and leaves the start target unchanged. On success end becomes the new start.
//
// onFrame must not call the simulator's mutators; it runs while Execute holds
// the execution lock.
func (s *Simulator) Execute(ctx context.Context, end r3.Vector, onFrame func(Frame) error) (TrajectoryResult, error) {
	s.execMu.Lock()
	defer s.execMu.Unlock()
	return s.execute(ctx, end, onFrame)
}

// ExecuteFrom moves the start target to start and runs Execute without
// letting another mutator in between. An unsolvable start is not an error by
// itself; the run then aborts at step 0.
func (s *Simulator) ExecuteFrom(ctx context.Context, start, end r3.Vector, onFrame func(Frame) error) (TrajectoryResult, error) {
	s.execMu.Lock()
	defer s.execMu.Unlock()
	if err := s.setStart(start); err != nil {
		s.logger.Debugf("Start %s has no solution: %v", FormatPoint(start), err)
	}
	return s.execute(ctx, end, onFrame)
}

func (s *Simulator) execute(ctx context.Context, end r3.Vector, onFrame func(Frame) error) (TrajectoryResult, error) {
	s.mu.Lock()
	s.end = end
	cfg, start := s.cfg, s.start
	s.mu.Unlock()

	var tick <-chan time.Time
	if s.frameDelay > 0 {
		ticker := time.NewTicker(s.frameDelay)
		defer ticker.Stop()
		tick = ticker.C
	}

	s.logger.Debugf("Executing path %s -> %s in %d steps", FormatPoint(start), FormatPoint(end), cfg.Steps)

	res := TrajectoryResult{Completed: true, FailedAt: -1}
	for step := range Trajectory(start, end, cfg.Steps, cfg) {
		if err := ctx.Err(); err != nil {
			res.Completed = false
			return res, err
		}

		res.Steps = append(res.Steps, step)
		s.metrics.observeSolve(step.Err)
		if step.Err != nil {
			res.Completed = false
			res.FailedAt = step.Index
			s.metrics.observeTrajectory(false)
			s.logger.Warnf("Path aborted at step %d/%d (%s): %v", step.Index+1, cfg.Steps, FormatPoint(step.Target), step.Err)
			return res, errors.Wrapf(step.Err, "path aborted at step %d", step.Index)
		}

		joints := ForwardKinematics(step.Angles, cfg.LinkLengths)
		s.mu.Lock()
		s.angles = step.Angles
		s.hasPose = true
		s.history = s.history.Append(joints[3])
		historyLen := s.history.Len()
		s.mu.Unlock()
		s.metrics.historyPoints.Set(float64(historyLen))

		if onFrame != nil {
			if err := onFrame(Frame{Step: step, Joints: joints}); err != nil {
				res.Completed = false
				return res, errors.Wrap(err, "frame callback failed")
			}
		}

		if tick != nil {
			select {
			case <-tick:
			case <-ctx.Done():
				res.Completed = false
				return res, ctx.Err()
			}
		}
	}

	s.mu.Lock()
	s.start = end
	s.mu.Unlock()

	s.metrics.observeTrajectory(true)
	s.logger.Infof("Path completed, start moved to %s", FormatPoint(end))
	return res, nil
}
