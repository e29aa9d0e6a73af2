// Package config loads generator parameters from a JSON file. Fields are
// pointers so an absent key leaves the declared default untouched; the same
// document shape works for both startup configuration and sweep overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/gantry-robotics/graspgen/internal/grasp"
	"github.com/gantry-robotics/graspgen/internal/scene"
	"github.com/gantry-robotics/graspgen/internal/spatial"
)

// ToolToGraspConfig is the file form of the tool->grasp transform.
type ToolToGraspConfig struct {
	ReferenceFrame *string     `json:"reference_frame,omitempty"`
	XYZ            *[3]float64 `json:"xyz,omitempty"`
	Axis           *[3]float64 `json:"axis,omitempty"`
	Angle          *float64    `json:"angle,omitempty"`
}

// FileConfig is the root configuration document.
type FileConfig struct {
	EndEffector  *string            `json:"eef,omitempty"`
	NamedPosture *string            `json:"eef_named_pose,omitempty"`
	Object       *string            `json:"object,omitempty"`
	AngleDelta   *float64           `json:"angle_delta,omitempty"`
	ToolToGrasp  *ToolToGraspConfig `json:"tool_to_grasp_tf,omitempty"`
}

// Load reads and parses a config file.
func Load(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var fc FileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &fc, nil
}

// Apply merges the non-nil fields of fc over cfg.
func (fc *FileConfig) Apply(cfg *grasp.Config) {
	if fc.EndEffector != nil {
		cfg.EndEffector = *fc.EndEffector
	}
	if fc.NamedPosture != nil {
		cfg.NamedPosture = *fc.NamedPosture
	}
	if fc.Object != nil {
		cfg.Object = *fc.Object
	}
	if fc.AngleDelta != nil {
		cfg.AngleDelta = *fc.AngleDelta
	}
	if fc.ToolToGrasp != nil {
		t := fc.ToolToGrasp
		if t.ReferenceFrame != nil {
			cfg.ToolToGrasp.ReferenceFrame = scene.FrameID(*t.ReferenceFrame)
		}
		tr := spatial.Identity()
		if t.XYZ != nil {
			tr = spatial.Translate(r3.Vec{X: t.XYZ[0], Y: t.XYZ[1], Z: t.XYZ[2]})
		}
		if t.Axis != nil && t.Angle != nil {
			tr = tr.Mul(spatial.AxisAngle(r3.Vec{X: t.Axis[0], Y: t.Axis[1], Z: t.Axis[2]}, *t.Angle))
		}
		cfg.ToolToGrasp.Transform = tr
	}
}
