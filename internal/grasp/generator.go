// Package grasp implements the candidate grasp pose generator: it rotates a
// target object's local frame about its Z axis in fixed angular steps and
// converts every step into the pose the end-effector's parent link must
// reach, emitting one candidate per pull.
package grasp

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/gantry-robotics/graspgen/internal/marker"
	"github.com/gantry-robotics/graspgen/internal/scene"
	"github.com/gantry-robotics/graspgen/internal/spatial"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrZeroAngleDelta is returned by NewGenerator for a zero angular step,
// which would enumerate forever.
var ErrZeroAngleDelta = errors.New("angle delta must be nonzero")

// ArrowScale is the length in meters of the grasp-pose debug arrow.
const ArrowScale = 0.1

// TargetPoseKey names the pose attribute attached to every emitted state.
const TargetPoseKey = "target_pose"

// Marker namespaces for the two kinds of candidate visuals.
const (
	ArrowNamespace = "grasp pose"
	EEFNamespace   = "grasp eef"
)

// Cursor is the enumeration state: the accumulated rotation angle. It is a
// plain value so progress can be inspected and restored.
type Cursor struct {
	Angle float64
}

// InBounds reports whether the cursor still lies strictly inside the
// enumeration interval (-2π, 2π).
func (c Cursor) InBounds() bool {
	return c.Angle > -2*math.Pi && c.Angle < 2*math.Pi
}

// Trajectory is the placeholder record emitted with every candidate: zero
// cost and a name carrying the post-step angle.
type Trajectory struct {
	Cost float64
	Name string
}

// State is the downstream-consumable result of one enumeration step: a
// private scene snapshot plus named pose attributes (at minimum
// TargetPoseKey).
type State struct {
	scn   *scene.Scene
	poses map[string]scene.PoseStamped
}

// Scene returns the state's scene snapshot. The snapshot is owned by the
// state; downstream consumers may mutate it freely.
func (s *State) Scene() *scene.Scene { return s.scn }

// Pose returns a named pose attribute.
func (s *State) Pose(name string) (scene.PoseStamped, bool) {
	p, ok := s.poses[name]
	return p, ok
}

// Candidate is one grasp hypothesis.
type Candidate struct {
	// Theta is the rotation angle this candidate was generated at.
	Theta float64
	// Target is the pose the end-effector's parent link must reach,
	// expressed with the link frame as header.
	Target scene.PoseStamped
	// Trajectory is the zero-cost placeholder forwarded downstream.
	Trajectory Trajectory
	// Markers are the debug visuals: the grasp arrow and a dimmed
	// rendering of the end effector at the candidate pose.
	Markers []marker.Marker
	// State wraps a scene snapshot carrying the target pose attribute.
	State *State
}

// resolution caches the frame lookups performed once per run.
type resolution struct {
	eef        *scene.EndEffector
	linkFrame  scene.FrameID
	grasp2tool spatial.Transform
	grasp2link spatial.Transform
	objectPose spatial.Transform
}

// Generator enumerates candidate grasp poses. It owns a private clone of
// the scene it was built from and is driven by a single caller alternating
// CanProduceMore and ProduceNext; it is not safe for concurrent use.
type Generator struct {
	cfg    Config
	work   *scene.Scene
	cursor Cursor
	res    *resolution
	// scratch is the forward-kinematics buffer for the end-effector ghost
	// markers. It is mutated per candidate; emitted states are cloned from
	// work, never from scratch, so the viz link moves never leak into them.
	scratch *scene.Scene
}

// NewGenerator builds a generator over a private clone of s. The scene
// passed in is never mutated. A zero AngleDelta is rejected up front; frame
// and end-effector resolution happens lazily on the first ProduceNext so
// that resolution failures surface as errors there, clearly distinct from
// exhaustion.
func NewGenerator(cfg Config, s *scene.Scene) (*Generator, error) {
	if cfg.AngleDelta == 0 {
		return nil, ErrZeroAngleDelta
	}
	if s == nil {
		return nil, errors.New("nil scene")
	}
	return &Generator{cfg: cfg, work: s.Clone()}, nil
}

// Cursor returns the current enumeration cursor.
func (g *Generator) Cursor() Cursor { return g.cursor }

// Reset restores the enumeration cursor, e.g. to replay a run.
func (g *Generator) Reset(c Cursor) { g.cursor = c }

// CanProduceMore reports whether another candidate can still be produced.
// Query only: no side effects, callable repeatedly.
func (g *Generator) CanProduceMore() bool {
	return g.cursor.InBounds()
}

// resolve performs the once-per-run frame resolution. Any failure here is a
// fatal configuration error for the whole run.
func (g *Generator) resolve() (*resolution, error) {
	eef, err := g.work.EndEffector(g.cfg.EndEffector)
	if err != nil {
		return nil, err
	}
	linkFrame := eef.ParentLink

	if g.cfg.NamedPosture != "" {
		g.work.ApplyPosture(eef, g.cfg.NamedPosture)
	}

	// An unset reference frame means the transform is already expressed
	// w.r.t. the link frame.
	refFrame := g.cfg.ToolToGrasp.ReferenceFrame
	if refFrame == "" {
		refFrame = linkFrame
	}

	toGrasp := g.cfg.ToolToGrasp.Transform
	grasp2tool := toGrasp.Inv()

	var grasp2link spatial.Transform
	if refFrame != linkFrame {
		// re-express tool->grasp w.r.t. the link frame
		linkPose, err := g.work.FrameTransform(linkFrame)
		if err != nil {
			return nil, fmt.Errorf("resolve link frame: %w", err)
		}
		refPose, err := g.work.FrameTransform(refFrame)
		if err != nil {
			return nil, fmt.Errorf("resolve tool-to-grasp reference frame: %w", err)
		}
		toGrasp = linkPose.Inv().Mul(refPose).Mul(toGrasp)
		grasp2link = toGrasp.Inv()
	} else {
		// frames coincide: reuse grasp2tool directly rather than composing
		// identities and accumulating rounding error
		grasp2link = grasp2tool
		if !g.work.HasFrame(linkFrame) {
			return nil, fmt.Errorf("resolve link frame: frame %q: %w", linkFrame, scene.ErrFrameNotFound)
		}
	}

	objectPose, err := g.work.FrameTransform(scene.FrameID(g.cfg.Object))
	if err != nil {
		return nil, fmt.Errorf("resolve object: %w", err)
	}

	return &resolution{
		eef:        eef,
		linkFrame:  linkFrame,
		grasp2tool: grasp2tool,
		grasp2link: grasp2link,
		objectPose: objectPose,
	}, nil
}

// ProduceNext performs one enumeration step. It returns (nil, nil) once the
// cursor has left the enumeration interval (a no-op, not an error) and
// (nil, err) if the run's frame resolution fails. Otherwise it returns
// exactly one candidate and advances the cursor by the configured step.
func (g *Generator) ProduceNext() (*Candidate, error) {
	if !g.CanProduceMore() {
		return nil, nil
	}
	if g.res == nil {
		res, err := g.resolve()
		if err != nil {
			return nil, err
		}
		g.res = res
		g.scratch = g.work.Clone()
	}
	res := g.res

	theta := g.cursor.Angle
	// rotate the object's local frame about its own Z axis
	graspPose := res.objectPose.Mul(spatial.RotZ(theta))
	linkPose := graspPose.Mul(res.grasp2link)
	g.cursor.Angle += g.cfg.AngleDelta

	state := &State{
		scn: g.work.Clone(),
		poses: map[string]scene.PoseStamped{
			TargetPoseKey: {FrameID: res.linkFrame, Pose: linkPose},
		},
	}

	traj := Trajectory{
		Cost: 0,
		Name: strconv.FormatFloat(g.cursor.Angle, 'f', 6, 64),
	}

	markers := make([]marker.Marker, 0, 1+len(res.eef.Links))

	// Arrow at the tool frame, rotated so the shaft points along the
	// object's Z instead of the arrow's default +X, and pulled back one
	// scale so the tip (not the base) sits at the grasp point.
	arrowPose := graspPose.
		Mul(res.grasp2tool).
		Mul(spatial.RotY(-math.Pi / 2)).
		Mul(spatial.Translate(r3.Vec{X: -ArrowScale}))
	markers = append(markers, marker.Arrow(ArrowNamespace, g.work.PlanningFrame(), arrowPose, ArrowScale, marker.LimeGreen))

	// Ghost the end effector at the candidate pose: move the parent link in
	// the scratch scene and re-derive its subtree. The scratch copy is
	// private to this generator, so the mutation cannot leak.
	if err := g.scratch.SetLinkPose(res.linkFrame, linkPose); err == nil {
		markers = append(markers, marker.LinkMarkers(EEFNamespace, g.scratch, res.eef.Links, marker.LimeGreen.Dimmed())...)
	}

	return &Candidate{
		Theta:      theta,
		Target:     scene.PoseStamped{FrameID: res.linkFrame, Pose: linkPose},
		Trajectory: traj,
		Markers:    markers,
		State:      state,
	}, nil
}
