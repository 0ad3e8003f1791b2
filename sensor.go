package rrr_arm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/rdk/components/sensor"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/resource"
)

var (
	KinematicsSensorModel = resource.NewModel("devrel", "rrr", "kinematics")
)

func init() {
	resource.RegisterComponent(sensor.API, KinematicsSensorModel,
		resource.Registration[sensor.Sensor, *KinematicsSensorConfig]{
			Constructor: newKinematicsSensor,
		},
	)
}

// KinematicsSensorConfig is the component configuration. Omitted fields take
// their DefaultArmConfig values.
type KinematicsSensorConfig struct {
	LinkLengths []float64    `json:"link_lengths,omitempty"` // L1, L2, L3
	JointLimits []JointLimit `json:"joint_limits,omitempty"` // degrees, base joint first
	Elbow       string       `json:"elbow,omitempty"`        // "up" or "down" (default: up)
	Steps       int          `json:"steps,omitempty"`        // Points per executed path (default: 50)

	// Pause between frames of execute_path (default: 0, no pacing)
	FrameDelayMs int `json:"frame_delay_ms,omitempty"`
}

// Validate ensures all parts of the config are valid
func (cfg *KinematicsSensorConfig) Validate(path string) ([]string, []string, error) {
	if _, err := cfg.ArmConfig(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.FrameDelayMs < 0 {
		return nil, nil, fmt.Errorf("%s: frame_delay_ms must not be negative, got %d", path, cfg.FrameDelayMs)
	}
	return nil, nil, nil
}

// ArmConfig converts the attributes into a validated ArmConfig.
func (cfg *KinematicsSensorConfig) ArmConfig() (ArmConfig, error) {
	arm := DefaultArmConfig
	if len(cfg.LinkLengths) > 0 {
		if len(cfg.LinkLengths) != 3 {
			return ArmConfig{}, fmt.Errorf("expected 3 link lengths, got %d", len(cfg.LinkLengths))
		}
		copy(arm.LinkLengths[:], cfg.LinkLengths)
	}
	if len(cfg.JointLimits) > 0 {
		if len(cfg.JointLimits) != 3 {
			return ArmConfig{}, fmt.Errorf("expected 3 joint limits, got %d", len(cfg.JointLimits))
		}
		copy(arm.JointLimits[:], cfg.JointLimits)
	}
	if cfg.Elbow != "" {
		e, err := ParseElbowSign(cfg.Elbow)
		if err != nil {
			return ArmConfig{}, err
		}
		arm.Elbow = e
	}
	if cfg.Steps != 0 {
		arm.Steps = cfg.Steps
	}
	if _, _, err := arm.Validate(""); err != nil {
		return ArmConfig{}, err
	}
	return arm, nil
}

// kinematicsSensor exposes a Simulator as a sensor component
type kinematicsSensor struct {
	resource.AlwaysRebuild

	name   resource.Name
	logger logging.Logger
	sim    *Simulator

	mu  sync.Mutex
	cfg *KinematicsSensorConfig
}

func newKinematicsSensor(
	ctx context.Context,
	deps resource.Dependencies,
	rawConf resource.Config,
	logger logging.Logger,
) (sensor.Sensor, error) {
	conf, err := resource.NativeConfig[*KinematicsSensorConfig](rawConf)
	if err != nil {
		return nil, err
	}
	return NewKinematicsSensor(rawConf.ResourceName(), conf, logger)
}

// NewKinematicsSensor creates the sensor from an already parsed config.
func NewKinematicsSensor(name resource.Name, conf *KinematicsSensorConfig, logger logging.Logger) (sensor.Sensor, error) {
	armCfg, err := conf.ArmConfig()
	if err != nil {
		return nil, err
	}

	sim, err := NewSimulator(armCfg, logger, WithFrameDelay(time.Duration(conf.FrameDelayMs)*time.Millisecond))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize simulator: %w", err)
	}

	logger.Infof("RRR kinematics sensor initialized with links %v", armCfg.LinkLengths)
	return &kinematicsSensor{
		name:   name,
		logger: logger,
		cfg:    conf,
		sim:    sim,
	}, nil
}

// Name returns the sensor's name
func (ks *kinematicsSensor) Name() resource.Name {
	return ks.name
}

// Readings reports the displayed pose and the state around it
func (ks *kinematicsSensor) Readings(ctx context.Context, extra map[string]any) (map[string]any, error) {
	scene := ks.sim.Snapshot()

	readings := map[string]any{
		"link_lengths":     floatsToAny(scene.Config.LinkLengths[:]),
		"elbow":            scene.Config.Elbow.String(),
		"start":            pointToMap(scene.Start),
		"end":              pointToMap(scene.End),
		"has_pose":         scene.HasPose,
		"history_points":   len(scene.History),
		"workspace_points": len(scene.Workspace),
	}

	if joints, ok := scene.Joints(); ok {
		readings["joint_angles_deg"] = floatsToAny(scene.Angles[:])
		readings["end_effector"] = pointToMap(joints[3])

		bars := make([]any, 0, 3)
		for _, bar := range jointBars(scene.Angles, scene.Config.JointLimits) {
			bars = append(bars, map[string]any{"fraction": bar.Fraction, "label": bar.Label})
		}
		readings["joint_bars"] = bars
	}

	return readings, nil
}

// DoCommand handles solver and simulator commands
func (ks *kinematicsSensor) DoCommand(ctx context.Context, cmd map[string]any) (map[string]any, error) {
	command, ok := cmd["command"].(string)
	if !ok {
		return nil, fmt.Errorf("command must be a string")
	}

	switch command {
	case "solve":
		return ks.solve(cmd)

	case "execute_path":
		return ks.executePath(ctx, cmd)

	case "clear_trace":
		err := ks.sim.ClearHistory()
		return map[string]any{"success": true, "start_reachable": err == nil}, nil

	case "set_elbow":
		elbow, ok := cmd["elbow"].(string)
		if !ok {
			return nil, fmt.Errorf("set_elbow command requires 'elbow' string parameter")
		}
		e, err := ParseElbowSign(elbow)
		if err != nil {
			return nil, err
		}
		err = ks.sim.SetElbow(e)
		return map[string]any{"success": true, "elbow": e.String(), "start_reachable": err == nil}, nil

	case "update_params":
		return ks.updateParams(cmd)

	case "reset":
		ks.sim.ResetToXAxis()
		return map[string]any{"success": true, "start": pointToMap(ks.sim.Start())}, nil

	case "workspace":
		points := ks.sim.Workspace()
		out := make([]any, len(points))
		for i, p := range points {
			out[i] = []any{p.X, p.Y}
		}
		return map[string]any{"count": len(points), "points": out}, nil

	default:
		return nil, fmt.Errorf("unknown command: %s", command)
	}
}

func (ks *kinematicsSensor) solve(cmd map[string]any) (map[string]any, error) {
	target, err := pointArg(cmd, "x", "y")
	if err != nil {
		return nil, err
	}

	angles, err := ks.sim.Solve(target)
	if err != nil {
		return map[string]any{"reachable": false, "reason": solveOutcome(err), "message": err.Error()}, nil
	}
	return map[string]any{"reachable": true, "joint_angles_deg": floatsToAny(angles[:])}, nil
}

func (ks *kinematicsSensor) executePath(ctx context.Context, cmd map[string]any) (map[string]any, error) {
	end, err := pointArg(cmd, "end_x", "end_y")
	if err != nil {
		return nil, err
	}

	var res TrajectoryResult
	if _, ok := cmd["start_x"]; ok {
		start, argErr := pointArg(cmd, "start_x", "start_y")
		if argErr != nil {
			return nil, argErr
		}
		// an unsolvable start surfaces as a failure at step 0
		res, err = ks.sim.ExecuteFrom(ctx, start, end, nil)
	} else {
		res, err = ks.sim.Execute(ctx, end, nil)
	}
	result := map[string]any{
		"completed":     res.Completed,
		"steps_applied": len(res.Applied()),
		"failed_at":     res.FailedAt,
		"start":         pointToMap(ks.sim.Start()),
	}
	if err != nil {
		if !errors.Is(err, ErrNoSolution) {
			return nil, err
		}
		result["message"] = "Out of workspace or joint limits."
		result["reason"] = solveOutcome(err)
	}
	return result, nil
}

func (ks *kinematicsSensor) updateParams(cmd map[string]any) (map[string]any, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	next := *ks.cfg
	// keep the elbow picked with set_elbow unless the command overrides it
	next.Elbow = ks.sim.Config().Elbow.String()
	if raw, ok := cmd["link_lengths"]; ok {
		lengths, err := floatSliceArg(raw)
		if err != nil {
			return nil, errors.Wrap(err, "link_lengths")
		}
		next.LinkLengths = lengths
	}
	if raw, ok := cmd["joint_limits"]; ok {
		pairs, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("joint_limits must be an array of [min, max] pairs")
		}
		limits := make([]JointLimit, len(pairs))
		for i, pair := range pairs {
			vals, err := floatSliceArg(pair)
			if err != nil || len(vals) != 2 {
				return nil, fmt.Errorf("joint_limits[%d] must be a [min, max] pair", i)
			}
			limits[i] = JointLimit{Min: vals[0], Max: vals[1]}
		}
		next.JointLimits = limits
	}
	if elbow, ok := cmd["elbow"].(string); ok {
		next.Elbow = elbow
	}

	armCfg, err := next.ArmConfig()
	if err != nil {
		return nil, err
	}
	if err := ks.sim.UpdateParams(armCfg); err != nil {
		return nil, err
	}
	ks.cfg = &next

	return map[string]any{
		"success":          true,
		"workspace_points": len(ks.sim.Workspace()),
		"start":            pointToMap(ks.sim.Start()),
	}, nil
}

// Close cleans up the sensor
func (ks *kinematicsSensor) Close(ctx context.Context) error {
	ks.logger.Info("Closing RRR kinematics sensor")
	return nil
}

func pointArg(cmd map[string]any, xKey, yKey string) (r3.Vector, error) {
	x, ok := cmd[xKey].(float64)
	if !ok {
		return r3.Vector{}, fmt.Errorf("'%s' must be a number", xKey)
	}
	y, ok := cmd[yKey].(float64)
	if !ok {
		return r3.Vector{}, fmt.Errorf("'%s' must be a number", yKey)
	}
	return r3.Vector{X: x, Y: y}, nil
}

func floatSliceArg(raw any) ([]float64, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("must be an array of numbers")
	}
	out := make([]float64, len(items))
	for i, item := range items {
		v, ok := item.(float64)
		if !ok {
			return nil, fmt.Errorf("element %d must be a number", i)
		}
		out[i] = v
	}
	return out, nil
}

func floatsToAny(vals []float64) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

func pointToMap(p r3.Vector) map[string]any {
	return map[string]any{"x": p.X, "y": p.Y}
}
