package rrr_arm

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.viam.com/rdk/logging"
	"gonum.org/v1/plot/vg"
)

// Point is the JSON form of a planar target.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) vector() r3.Vector { return r3.Vector{X: p.X, Y: p.Y} }

func pointFrom(v r3.Vector) Point { return Point{X: v.X, Y: v.Y} }

// SolveResponse is returned by POST /solve.
type SolveResponse struct {
	Reachable bool         `json:"reachable"`
	Angles    *JointAngles `json:"joint_angles_deg,omitempty"`
	Reason    string       `json:"reason,omitempty"`
	Message   string       `json:"message,omitempty"`
}

// TrajectoryRequest is the body of POST /trajectory. A missing start keeps
// the simulator's current start.
type TrajectoryRequest struct {
	Start *Point `json:"start,omitempty"`
	End   Point  `json:"end"`
}

// TrajectoryStep is one applied frame in a TrajectoryResponse.
type TrajectoryStep struct {
	Index       int         `json:"index"`
	Target      Point       `json:"target"`
	Angles      JointAngles `json:"joint_angles_deg"`
	EndEffector Point       `json:"end_effector"`
}

// TrajectoryResponse is returned by POST /trajectory.
type TrajectoryResponse struct {
	Completed bool             `json:"completed"`
	FailedAt  int              `json:"failed_at"`
	Steps     []TrajectoryStep `json:"steps"`
	Start     Point            `json:"start"`
	Reason    string           `json:"reason,omitempty"`
}

// WorkspaceResponse is returned by GET /workspace.
type WorkspaceResponse struct {
	Count  int     `json:"count"`
	Points []Point `json:"points"`
}

// StateResponse is returned by GET /state.
type StateResponse struct {
	Config        ArmConfig    `json:"config"`
	Start         Point        `json:"start"`
	End           Point        `json:"end"`
	Angles        *JointAngles `json:"joint_angles_deg,omitempty"`
	Bars          []JointBar   `json:"joint_bars,omitempty"`
	HistoryPoints int          `json:"history_points"`
}

type apiServer struct {
	sim    *Simulator
	logger logging.Logger
}

// NewHandler exposes sim over HTTP.
func NewHandler(sim *Simulator, logger logging.Logger) http.Handler {
	s := &apiServer{sim: sim, logger: logger}

	r := chi.NewRouter()
	r.Get("/state", s.state)
	r.Post("/solve", s.solve)
	r.Get("/workspace", s.workspace)
	r.Post("/trajectory", s.trajectory)
	r.Delete("/history", s.clearHistory)
	r.Get("/scene.svg", s.scene)
	r.Handle("/metrics", promhttp.HandlerFor(sim.Metrics().Registry, promhttp.HandlerOpts{}))
	return r
}

func (s *apiServer) state(w http.ResponseWriter, r *http.Request) {
	scene := s.sim.Snapshot()
	resp := StateResponse{
		Config:        scene.Config,
		Start:         pointFrom(scene.Start),
		End:           pointFrom(scene.End),
		HistoryPoints: len(scene.History),
	}
	if scene.HasPose {
		angles := scene.Angles
		resp.Angles = &angles
		resp.Bars = jointBars(scene.Angles, scene.Config.JointLimits)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) solve(w http.ResponseWriter, r *http.Request) {
	var body Point
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warnf("solve: invalid request body: %v", err)
		return
	}

	angles, err := s.sim.Solve(body.vector())
	if err != nil {
		s.writeJSON(w, http.StatusOK, SolveResponse{Reason: solveOutcome(err), Message: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, SolveResponse{Reachable: true, Angles: &angles})
}

func (s *apiServer) workspace(w http.ResponseWriter, r *http.Request) {
	points := s.sim.Workspace()
	resp := WorkspaceResponse{Count: len(points), Points: make([]Point, len(points))}
	for i, p := range points {
		resp.Points[i] = pointFrom(p)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) trajectory(w http.ResponseWriter, r *http.Request) {
	var body TrajectoryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warnf("trajectory: invalid request body: %v", err)
		return
	}

	var applied []TrajectoryStep
	onFrame := func(f Frame) error {
		applied = append(applied, TrajectoryStep{
			Index:       f.Step.Index,
			Target:      pointFrom(f.Step.Target),
			Angles:      f.Step.Angles,
			EndEffector: pointFrom(f.Joints[3]),
		})
		return nil
	}

	var (
		res TrajectoryResult
		err error
	)
	if body.Start != nil {
		// an unsolvable start is reported as a failure at step 0
		res, err = s.sim.ExecuteFrom(r.Context(), body.Start.vector(), body.End.vector(), onFrame)
	} else {
		res, err = s.sim.Execute(r.Context(), body.End.vector(), onFrame)
	}
	if err != nil && !errors.Is(err, ErrNoSolution) {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		s.logger.Errorf("trajectory failed: %v", err)
		return
	}

	if applied == nil {
		applied = []TrajectoryStep{}
	}
	resp := TrajectoryResponse{
		Completed: res.Completed,
		FailedAt:  res.FailedAt,
		Steps:     applied,
		Start:     pointFrom(s.sim.Start()),
	}
	if err != nil {
		resp.Reason = solveOutcome(err)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) clearHistory(w http.ResponseWriter, r *http.Request) {
	// the start may be unreachable after a config change; the trail is cleared regardless
	_ = s.sim.ClearHistory()
	w.WriteHeader(http.StatusNoContent)
}

func (s *apiServer) scene(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := RenderScene(w, s.sim.Snapshot(), FormatSVG, 8*vg.Inch); err != nil {
		s.logger.Errorf("scene render failed: %v", err)
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Errorf("response encode failed: %v", err)
	}
}
