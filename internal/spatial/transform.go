// Package spatial implements rigid 3D transforms used for all frame
// composition in graspgen. A Transform is a unit rotation quaternion plus a
// translation, equivalent to a 4x4 homogeneous matrix but cheaper to compose
// and invert. Row-major [16]float64 matrices are supported for interop with
// stored poses.
package spatial

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is a rigid transform: rotate by R, then translate by T.
// The zero value is NOT valid; use Identity().
type Transform struct {
	R quat.Number // unit quaternion
	T r3.Vec
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{R: quat.Number{Real: 1}}
}

// Translate returns a pure translation by v.
func Translate(v r3.Vec) Transform {
	return Transform{R: quat.Number{Real: 1}, T: v}
}

// AxisAngle returns a pure rotation of angle radians about axis.
// The axis need not be normalized; a zero axis yields the identity.
func AxisAngle(axis r3.Vec, angle float64) Transform {
	n := r3.Norm(axis)
	if n == 0 {
		return Identity()
	}
	u := r3.Scale(1/n, axis)
	s := math.Sin(angle / 2)
	return Transform{R: quat.Number{
		Real: math.Cos(angle / 2),
		Imag: s * u.X,
		Jmag: s * u.Y,
		Kmag: s * u.Z,
	}}
}

// RotX returns a rotation about the X axis.
func RotX(angle float64) Transform { return AxisAngle(r3.Vec{X: 1}, angle) }

// RotY returns a rotation about the Y axis.
func RotY(angle float64) Transform { return AxisAngle(r3.Vec{Y: 1}, angle) }

// RotZ returns a rotation about the Z axis.
func RotZ(angle float64) Transform { return AxisAngle(r3.Vec{Z: 1}, angle) }

// rotate applies the rotation part of t to v via q·v·q*.
func (t Transform) rotate(v r3.Vec) r3.Vec {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(t.R, p), quat.Conj(t.R))
	return r3.Vec{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// Apply transforms the point v.
func (t Transform) Apply(v r3.Vec) r3.Vec {
	return r3.Add(t.rotate(v), t.T)
}

// Mul composes a with b such that (a.Mul(b)).Apply(v) == a.Apply(b.Apply(v)).
// b is applied first, matching matrix composition a·b.
func (a Transform) Mul(b Transform) Transform {
	r := quat.Mul(a.R, b.R)
	// renormalize to keep long composition chains from drifting
	if n := quat.Abs(r); n != 0 {
		r = quat.Scale(1/n, r)
	}
	return Transform{
		R: r,
		T: r3.Add(a.rotate(b.T), a.T),
	}
}

// Inv returns the inverse transform.
func (t Transform) Inv() Transform {
	ri := quat.Conj(t.R)
	inv := Transform{R: ri}
	inv.T = r3.Scale(-1, inv.rotate(t.T))
	return inv
}

// Matrix returns the transform as a row-major 4x4 homogeneous matrix
// (m00..m03, m10..m13, m20..m23, m30..m33).
func (t Transform) Matrix() [16]float64 {
	w, x, y, z := t.R.Real, t.R.Imag, t.R.Jmag, t.R.Kmag
	return [16]float64{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y), t.T.X,
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x), t.T.Y,
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y), t.T.Z,
		0, 0, 0, 1,
	}
}

// FromMatrix builds a Transform from a row-major 4x4 homogeneous matrix.
// The upper-left 3x3 block must be a rotation (orthonormal, det +1); no
// check is performed. Uses the trace method with the usual branch on the
// largest diagonal element for numerical stability.
func FromMatrix(m [16]float64) Transform {
	var q quat.Number
	tr := m[0] + m[5] + m[10]
	switch {
	case tr > 0:
		s := math.Sqrt(tr+1) * 2
		q = quat.Number{
			Real: s / 4,
			Imag: (m[9] - m[6]) / s,
			Jmag: (m[2] - m[8]) / s,
			Kmag: (m[4] - m[1]) / s,
		}
	case m[0] > m[5] && m[0] > m[10]:
		s := math.Sqrt(1+m[0]-m[5]-m[10]) * 2
		q = quat.Number{
			Real: (m[9] - m[6]) / s,
			Imag: s / 4,
			Jmag: (m[1] + m[4]) / s,
			Kmag: (m[2] + m[8]) / s,
		}
	case m[5] > m[10]:
		s := math.Sqrt(1+m[5]-m[0]-m[10]) * 2
		q = quat.Number{
			Real: (m[2] - m[8]) / s,
			Imag: (m[1] + m[4]) / s,
			Jmag: s / 4,
			Kmag: (m[6] + m[9]) / s,
		}
	default:
		s := math.Sqrt(1+m[10]-m[0]-m[5]) * 2
		q = quat.Number{
			Real: (m[4] - m[1]) / s,
			Imag: (m[2] + m[8]) / s,
			Jmag: (m[6] + m[9]) / s,
			Kmag: s / 4,
		}
	}
	if n := quat.Abs(q); n != 0 {
		q = quat.Scale(1/n, q)
	}
	return Transform{R: q, T: r3.Vec{X: m[3], Y: m[7], Z: m[11]}}
}

// ApproxEqual reports whether t and o represent the same transform within
// tol. Rotations are compared up to quaternion sign (q and -q are the same
// rotation).
func (t Transform) ApproxEqual(o Transform, tol float64) bool {
	d := r3.Sub(t.T, o.T)
	if r3.Norm(d) > tol {
		return false
	}
	same := quatDist(t.R, o.R)
	flip := quatDist(t.R, quat.Scale(-1, o.R))
	return same <= tol || flip <= tol
}

// IsIdentity reports whether t is the identity transform within tol.
func (t Transform) IsIdentity(tol float64) bool {
	return t.ApproxEqual(Identity(), tol)
}

func quatDist(a, b quat.Number) float64 {
	return quat.Abs(quat.Sub(a, b))
}
