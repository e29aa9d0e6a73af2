package scene

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gantry-robotics/graspgen/internal/spatial"
	"gonum.org/v1/gonum/spatial/r3"
)

// Fixture is the on-disk JSON form of a scene. Frames must be listed
// parent-before-child; the planning frame is implicit as the tree root.
//
// Example:
//
//	{
//	  "planning_frame": "world",
//	  "frames": [
//	    {"id": "table", "parent": "world", "xyz": [0.5, 0, 0.4]},
//	    {"id": "can", "parent": "table", "xyz": [0, 0.1, 0.05], "axis": [0,0,1], "angle": 0.3}
//	  ],
//	  "end_effectors": [
//	    {"name": "gripper", "parent_link": "palm",
//	     "links": ["palm", "finger_l", "finger_r"],
//	     "postures": {"open": {"finger_joint": 0.04}}}
//	  ]
//	}
type Fixture struct {
	PlanningFrame string            `json:"planning_frame"`
	Frames        []FrameFixture    `json:"frames"`
	EndEffectors  []EffectorFixture `json:"end_effectors"`
}

// FrameFixture describes one frame's attachment and local pose.
type FrameFixture struct {
	ID     string     `json:"id"`
	Parent string     `json:"parent"`
	XYZ    [3]float64 `json:"xyz"`
	Axis   [3]float64 `json:"axis"`  // rotation axis, optional
	Angle  float64    `json:"angle"` // radians about Axis
}

// EffectorFixture describes one end-effector group.
type EffectorFixture struct {
	Name       string                        `json:"name"`
	ParentLink string                        `json:"parent_link"`
	Links      []string                      `json:"links"`
	Postures   map[string]map[string]float64 `json:"postures"`
}

// Transform converts the fixture's xyz/axis/angle fields into a Transform.
func (f FrameFixture) Transform() spatial.Transform {
	t := spatial.Translate(r3.Vec{X: f.XYZ[0], Y: f.XYZ[1], Z: f.XYZ[2]})
	return t.Mul(spatial.AxisAngle(r3.Vec{X: f.Axis[0], Y: f.Axis[1], Z: f.Axis[2]}, f.Angle))
}

// Parse builds a Scene from fixture JSON.
func Parse(data []byte) (*Scene, error) {
	var fx Fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("failed to parse scene fixture: %w", err)
	}
	if fx.PlanningFrame == "" {
		return nil, fmt.Errorf("scene fixture missing planning_frame")
	}
	s := New(FrameID(fx.PlanningFrame))
	for _, ff := range fx.Frames {
		if ff.ID == "" {
			return nil, fmt.Errorf("scene fixture frame with empty id")
		}
		if err := s.AddFrame(FrameID(ff.ID), FrameID(ff.Parent), ff.Transform()); err != nil {
			return nil, fmt.Errorf("frame %q: %w", ff.ID, err)
		}
	}
	for _, ef := range fx.EndEffectors {
		if ef.Name == "" || ef.ParentLink == "" {
			return nil, fmt.Errorf("end effector needs name and parent_link")
		}
		if !s.HasFrame(FrameID(ef.ParentLink)) {
			return nil, fmt.Errorf("end effector %q parent link %q: %w", ef.Name, ef.ParentLink, ErrFrameNotFound)
		}
		eef := &EndEffector{
			Name:       ef.Name,
			ParentLink: FrameID(ef.ParentLink),
			Postures:   map[string]Posture{},
		}
		for _, l := range ef.Links {
			if !s.HasFrame(FrameID(l)) {
				return nil, fmt.Errorf("end effector %q link %q: %w", ef.Name, l, ErrFrameNotFound)
			}
			eef.Links = append(eef.Links, FrameID(l))
		}
		for name, joints := range ef.Postures {
			p := Posture{}
			for j, v := range joints {
				p[j] = v
			}
			eef.Postures[name] = p
		}
		s.RegisterEndEffector(eef)
	}
	return s, nil
}

// Load reads and parses a scene fixture file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene fixture: %w", err)
	}
	return Parse(data)
}
