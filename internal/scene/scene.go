// Package scene models the kinematic environment the grasp generator works
// against: a tree of named frames with rigid offsets, a registry of
// end-effector groups, and the robot posture. A Scene is a snapshot; the
// generator clones it and mutates only its private copy.
package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gantry-robotics/graspgen/internal/spatial"
)

// FrameID is a human-readable frame name like "world", "object/can-1" or
// "gripper/palm".
type FrameID string

var (
	// ErrFrameNotFound is returned when a frame name does not resolve.
	// Callers must branch on this explicitly; an identity-valued frame is
	// a legitimate resolution, never a failure signal.
	ErrFrameNotFound = errors.New("frame not found")

	// ErrUndefinedEndEffector is returned when an end-effector group name
	// is not defined for the robot model.
	ErrUndefinedEndEffector = errors.New("end effector not defined")
)

// StampedTransform is a rigid transform together with the frame it is
// expressed in. An empty ReferenceFrame means "caller decides" (the grasp
// generator interprets it as the end-effector link frame).
type StampedTransform struct {
	ReferenceFrame FrameID
	Transform      spatial.Transform
}

// PoseStamped is a pose expressed in a named frame.
type PoseStamped struct {
	FrameID FrameID
	Pose    spatial.Transform
}

// Posture is a set of named joint positions.
type Posture map[string]float64

// EndEffector describes a named end-effector group: the kinematic sub-chain
// (e.g. a gripper) rooted at ParentLink.
type EndEffector struct {
	Name       string
	ParentLink FrameID
	Links      []FrameID
	Postures   map[string]Posture
}

type frameNode struct {
	parent FrameID
	local  spatial.Transform // pose of this frame in its parent frame
}

// Scene is a frame tree rooted at the planning frame, plus the robot model
// registry and posture. Not safe for concurrent use.
type Scene struct {
	planningFrame FrameID
	frames        map[FrameID]*frameNode
	eefs          map[string]*EndEffector
	joints        map[string]float64
}

// New creates an empty scene rooted at planningFrame.
func New(planningFrame FrameID) *Scene {
	return &Scene{
		planningFrame: planningFrame,
		frames:        map[FrameID]*frameNode{planningFrame: {local: spatial.Identity()}},
		eefs:          map[string]*EndEffector{},
		joints:        map[string]float64{},
	}
}

// PlanningFrame returns the common root frame poses are resolved in.
func (s *Scene) PlanningFrame() FrameID { return s.planningFrame }

// AddFrame attaches a frame to the tree with the given pose relative to its
// parent. The parent must already exist.
func (s *Scene) AddFrame(id, parent FrameID, local spatial.Transform) error {
	if _, ok := s.frames[parent]; !ok {
		return fmt.Errorf("parent %q: %w", parent, ErrFrameNotFound)
	}
	if _, ok := s.frames[id]; ok {
		return fmt.Errorf("frame %q already exists", id)
	}
	s.frames[id] = &frameNode{parent: parent, local: local}
	return nil
}

// HasFrame reports whether id exists in the tree.
func (s *Scene) HasFrame(id FrameID) bool {
	_, ok := s.frames[id]
	return ok
}

// FrameTransform resolves the pose of id in the planning frame. A missing
// frame is an explicit ErrFrameNotFound, wrapped with the frame name.
func (s *Scene) FrameTransform(id FrameID) (spatial.Transform, error) {
	n, ok := s.frames[id]
	if !ok {
		return spatial.Transform{}, fmt.Errorf("frame %q: %w", id, ErrFrameNotFound)
	}
	pose := n.local
	for cur := n.parent; cur != ""; {
		p, ok := s.frames[cur]
		if !ok {
			return spatial.Transform{}, fmt.Errorf("frame %q: broken chain at %q: %w", id, cur, ErrFrameNotFound)
		}
		pose = p.local.Mul(pose)
		cur = p.parent
	}
	return pose, nil
}

// SetLinkPose places the named frame at a pose expressed in the planning
// frame. The frame's subtree moves rigidly with it: children keep their
// stored local offsets, so their planning-frame poses are re-derived on the
// next FrameTransform call.
func (s *Scene) SetLinkPose(id FrameID, pose spatial.Transform) error {
	n, ok := s.frames[id]
	if !ok {
		return fmt.Errorf("frame %q: %w", id, ErrFrameNotFound)
	}
	if n.parent == "" {
		return fmt.Errorf("frame %q is the planning frame and cannot move", id)
	}
	parentPose, err := s.FrameTransform(n.parent)
	if err != nil {
		return err
	}
	n.local = parentPose.Inv().Mul(pose)
	return nil
}

// RegisterEndEffector adds an end-effector group to the robot model.
func (s *Scene) RegisterEndEffector(eef *EndEffector) {
	s.eefs[eef.Name] = eef
}

// EndEffector resolves a named end-effector group.
func (s *Scene) EndEffector(name string) (*EndEffector, error) {
	eef, ok := s.eefs[name]
	if !ok {
		return nil, fmt.Errorf("end effector %q: %w", name, ErrUndefinedEndEffector)
	}
	return eef, nil
}

// ApplyPosture sets the scene's joint positions from one of the group's
// named postures. Returns false (and leaves joints untouched) if the group
// has no posture of that name.
func (s *Scene) ApplyPosture(eef *EndEffector, name string) bool {
	p, ok := eef.Postures[name]
	if !ok {
		return false
	}
	for joint, v := range p {
		s.joints[joint] = v
	}
	return true
}

// Joint returns the current position of a joint (zero if never set).
func (s *Scene) Joint(name string) float64 { return s.joints[name] }

// JointNames returns the names of all joints with a set position, sorted.
func (s *Scene) JointNames() []string {
	names := make([]string, 0, len(s.joints))
	for n := range s.joints {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the scene. The copy shares nothing with the
// original; mutating one never affects the other. EndEffector definitions
// are model data and are shared read-only.
func (s *Scene) Clone() *Scene {
	c := &Scene{
		planningFrame: s.planningFrame,
		frames:        make(map[FrameID]*frameNode, len(s.frames)),
		eefs:          make(map[string]*EndEffector, len(s.eefs)),
		joints:        make(map[string]float64, len(s.joints)),
	}
	for id, n := range s.frames {
		cp := *n
		c.frames[id] = &cp
	}
	for name, eef := range s.eefs {
		c.eefs[name] = eef
	}
	for j, v := range s.joints {
		c.joints[j] = v
	}
	return c
}
