// Package marker builds debug visualization primitives for grasp candidates.
// Markers are plain values; rendering them (HTML scatter, PNG plots) lives in
// internal/viz.
package marker

import (
	"github.com/gantry-robotics/graspgen/internal/scene"
	"github.com/gantry-robotics/graspgen/internal/spatial"
)

// Shape identifies the marker geometry.
type Shape int

const (
	// ShapeArrow is an arrow whose shaft points along the marker's +X axis
	// and whose base sits at the marker pose origin.
	ShapeArrow Shape = iota
	// ShapeLink renders a robot link's collision/visual geometry at the
	// marker pose.
	ShapeLink
)

func (s Shape) String() string {
	switch s {
	case ShapeArrow:
		return "arrow"
	case ShapeLink:
		return "link"
	default:
		return "unknown"
	}
}

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// LimeGreen is the default grasp-pose arrow color.
var LimeGreen = Color{R: 0.196, G: 0.804, B: 0.196, A: 1}

// Marker is one visualization primitive, posed in a named frame.
type Marker struct {
	Namespace string
	FrameID   scene.FrameID
	Pose      spatial.Transform
	Shape     Shape
	Scale     float64
	Color     Color
	// Link is set for ShapeLink markers: the link whose geometry to draw.
	Link scene.FrameID
}

// Arrow builds an arrow marker of the given length at pose.
func Arrow(ns string, frame scene.FrameID, pose spatial.Transform, scale float64, c Color) Marker {
	return Marker{
		Namespace: ns,
		FrameID:   frame,
		Pose:      pose,
		Shape:     ShapeArrow,
		Scale:     scale,
		Color:     c,
	}
}

// LinkMarkers builds one marker per link at the link's current pose in s,
// resolved in the planning frame. Links missing from the frame tree are
// skipped: visualization must not fail a run that planning math survived.
func LinkMarkers(ns string, s *scene.Scene, links []scene.FrameID, c Color) []Marker {
	out := make([]Marker, 0, len(links))
	for _, link := range links {
		pose, err := s.FrameTransform(link)
		if err != nil {
			continue
		}
		out = append(out, Marker{
			Namespace: ns,
			FrameID:   s.PlanningFrame(),
			Pose:      pose,
			Shape:     ShapeLink,
			Scale:     1,
			Color:     c,
			Link:      link,
		})
	}
	return out
}

// Dimmed returns c with its alpha halved, the convention for ghost
// renderings of the end effector at a candidate pose.
func (c Color) Dimmed() Color {
	c.A *= 0.5
	return c
}
