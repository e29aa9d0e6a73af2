package grasp

import (
	"fmt"

	"github.com/gantry-robotics/graspgen/internal/props"
	"github.com/gantry-robotics/graspgen/internal/scene"
	"github.com/gantry-robotics/graspgen/internal/spatial"
)

// DefaultAngleDelta is the angular step used when none is configured.
const DefaultAngleDelta = 0.1

// Config carries the per-run parameters of the generator. It is read once
// at construction and never consulted again.
type Config struct {
	// EndEffector is the name of the end-effector group (required).
	EndEffector string
	// NamedPosture optionally names a default posture to apply to the
	// group before enumeration; empty skips the step.
	NamedPosture string
	// Object names the target object frame (required).
	Object string
	// ToolToGrasp is the transform from the robot tool frame to the grasp
	// frame. An empty reference frame means it is expressed w.r.t. the
	// end-effector's parent link frame.
	ToolToGrasp scene.StampedTransform
	// AngleDelta is the angular step in radians. Must be nonzero; negative
	// values enumerate clockwise.
	AngleDelta float64
}

// DefaultConfig returns a Config with declared defaults: identity
// tool-to-grasp transform and the default angular step.
func DefaultConfig() Config {
	return Config{
		ToolToGrasp: scene.StampedTransform{Transform: spatial.Identity()},
		AngleDelta:  DefaultAngleDelta,
	}
}

// Property names recognized by DeclareProperties / ConfigFromProps.
const (
	PropEndEffector  = "eef"
	PropNamedPosture = "eef_named_pose"
	PropObject       = "object"
	PropToolToGrasp  = "tool_to_grasp_tf"
	PropAngleDelta   = "angle_delta"
)

// DeclareProperties declares the generator's parameters on a property set,
// with their defaults and descriptions.
func DeclareProperties(s *props.Set) {
	s.DeclareString(PropEndEffector, "", "name of end-effector group")
	s.DeclareString(PropNamedPosture, "", "named default posture for the end effector")
	s.DeclareString(PropObject, "", "name of the object to grasp")
	s.Declare(PropToolToGrasp, scene.StampedTransform{Transform: spatial.Identity()},
		"transform from robot tool frame to grasp frame")
	s.DeclareFloat(PropAngleDelta, DefaultAngleDelta, "angular steps (rad)")
}

// ConfigFromProps reads a Config back out of a property set populated by
// DeclareProperties.
func ConfigFromProps(s *props.Set) (Config, error) {
	cfg := DefaultConfig()
	var err error
	if cfg.EndEffector, err = s.String(PropEndEffector); err != nil {
		return Config{}, err
	}
	if cfg.NamedPosture, err = s.String(PropNamedPosture); err != nil {
		return Config{}, err
	}
	if cfg.Object, err = s.String(PropObject); err != nil {
		return Config{}, err
	}
	if cfg.AngleDelta, err = s.Float(PropAngleDelta); err != nil {
		return Config{}, err
	}
	v, err := s.Value(PropToolToGrasp)
	if err != nil {
		return Config{}, err
	}
	tf, ok := v.(scene.StampedTransform)
	if !ok {
		return Config{}, fmt.Errorf("property %q holds %T, want scene.StampedTransform", PropToolToGrasp, v)
	}
	cfg.ToolToGrasp = tf
	return cfg, nil
}
