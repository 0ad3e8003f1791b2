package rrr_arm

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"
	"gopkg.in/yaml.v3"
)

// ElbowSign selects one of the two solutions of the two-link subchain.
type ElbowSign int

const (
	ElbowUp   ElbowSign = 1
	ElbowDown ElbowSign = -1
)

func (e ElbowSign) String() string {
	switch e {
	case ElbowUp:
		return "up"
	case ElbowDown:
		return "down"
	default:
		return "unknown"
	}
}

// ParseElbowSign accepts "up"/"down" (as shown in the elbow toggle) or "+1"/"-1".
func ParseElbowSign(s string) (ElbowSign, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "elbow up", "1", "+1":
		return ElbowUp, nil
	case "down", "elbow down", "-1":
		return ElbowDown, nil
	default:
		return 0, fmt.Errorf("elbow must be 'up' or 'down', got '%s'", s)
	}
}

func (e ElbowSign) MarshalText() ([]byte, error) {
	if e != ElbowUp && e != ElbowDown {
		return nil, fmt.Errorf("invalid elbow sign %d", int(e))
	}
	return []byte(e.String()), nil
}

func (e *ElbowSign) UnmarshalText(text []byte) error {
	sign, err := ParseElbowSign(string(text))
	if err != nil {
		return err
	}
	*e = sign
	return nil
}

// JointLimit is an inclusive angle range in degrees.
type JointLimit struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Contains reports whether angle lies in [Min, Max]. NaN is never contained.
func (l JointLimit) Contains(angle float64) bool {
	return l.Min <= angle && angle <= l.Max
}

// ArmConfig describes the arm for a single solve. It is passed by value.
type ArmConfig struct {
	LinkLengths [3]float64    `json:"link_lengths" yaml:"link_lengths"`
	JointLimits [3]JointLimit `json:"joint_limits" yaml:"joint_limits"`
	Elbow       ElbowSign     `json:"elbow,omitempty" yaml:"elbow,omitempty"`

	// Steps is the number of interpolated points per executed path (default: 50)
	Steps int `json:"steps,omitempty" yaml:"steps,omitempty"`
}

// DefaultArmConfig matches the values the control panel starts with.
var DefaultArmConfig = ArmConfig{
	LinkLengths: [3]float64{60, 40, 30},
	JointLimits: [3]JointLimit{
		{Min: -180, Max: 180},
		{Min: -150, Max: 150},
		{Min: -120, Max: 120},
	},
	Elbow: ElbowUp,
	Steps: DefaultPathSteps,
}

// Reach is the sum of the link lengths.
func (cfg ArmConfig) Reach() float64 {
	return cfg.LinkLengths[0] + cfg.LinkLengths[1] + cfg.LinkLengths[2]
}

// WithElbow returns a copy of cfg using the given elbow configuration.
func (cfg ArmConfig) WithElbow(e ElbowSign) ArmConfig {
	cfg.Elbow = e
	return cfg
}

// Validate ensures all parts of the config are valid
func (cfg *ArmConfig) Validate(path string) ([]string, []string, error) {
	if cfg.Elbow == 0 {
		cfg.Elbow = ElbowUp
	}
	if cfg.Steps == 0 {
		cfg.Steps = DefaultPathSteps
	}

	for i, l := range cfg.LinkLengths {
		if !(l > 0) {
			return nil, nil, fmt.Errorf("%slink length %d must be positive, got %v", pathPrefix(path), i+1, l)
		}
	}
	for i, lim := range cfg.JointLimits {
		if !(lim.Min <= lim.Max) {
			return nil, nil, fmt.Errorf("%sjoint %d limit min %v is greater than max %v", pathPrefix(path), i+1, lim.Min, lim.Max)
		}
	}
	if cfg.Elbow != ElbowUp && cfg.Elbow != ElbowDown {
		return nil, nil, fmt.Errorf("%selbow must be +1 or -1, got %d", pathPrefix(path), int(cfg.Elbow))
	}
	if cfg.Steps < 1 {
		return nil, nil, fmt.Errorf("%ssteps must be at least 1, got %d", pathPrefix(path), cfg.Steps)
	}

	return nil, nil, nil
}

func pathPrefix(path string) string {
	if path == "" {
		return ""
	}
	return path + ": "
}

// LoadArmConfigFromFile reads a JSON or YAML config (chosen by extension) and validates it.
// Fields missing from the file keep their DefaultArmConfig values.
func LoadArmConfigFromFile(filePath string, logger logging.Logger) (ArmConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return ArmConfig{}, errors.Wrap(err, "failed to read arm config file")
	}

	cfg := DefaultArmConfig
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return ArmConfig{}, errors.Wrap(err, "failed to parse arm config YAML")
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return ArmConfig{}, errors.Wrap(err, "failed to parse arm config JSON")
		}
	}

	if _, _, err := cfg.Validate(filePath); err != nil {
		return ArmConfig{}, errors.Wrap(err, "arm config validation failed")
	}

	if logger != nil {
		logger.Debugf("Loaded arm config from %s: links=%v elbow=%s", filePath, cfg.LinkLengths, cfg.Elbow)
	}
	return cfg, nil
}

// SaveArmConfigToFile writes cfg as JSON or YAML depending on the file extension.
func SaveArmConfigToFile(filePath string, cfg ArmConfig) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return errors.Wrap(err, "failed to marshal arm config")
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write arm config file")
	}
	return nil
}

// ParsePoint parses coordinates typed as "x, y".
func ParsePoint(s string) (r3.Vector, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return r3.Vector{}, errors.Errorf("format coordinates as: x, y (got %q)", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return r3.Vector{}, errors.Wrapf(err, "invalid x coordinate %q", parts[0])
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return r3.Vector{}, errors.Wrapf(err, "invalid y coordinate %q", parts[1])
	}
	return r3.Vector{X: x, Y: y}, nil
}

// FormatPoint is the inverse of ParsePoint.
func FormatPoint(p r3.Vector) string {
	return strconv.FormatFloat(p.X, 'g', -1, 64) + ", " + strconv.FormatFloat(p.Y, 'g', -1, 64)
}
