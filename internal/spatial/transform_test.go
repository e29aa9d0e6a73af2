package spatial

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-12

func vecEquals(a, b r3.Vec, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}

func TestIdentityApply(t *testing.T) {
	v := r3.Vec{X: 1.5, Y: -2, Z: 0.25}
	got := Identity().Apply(v)
	if !vecEquals(got, v, tol) {
		t.Errorf("Identity().Apply(%v) = %v, want unchanged", v, got)
	}
}

func TestRotZQuarterTurn(t *testing.T) {
	// a quarter turn about Z maps +X to +Y
	got := RotZ(math.Pi/2).Apply(r3.Vec{X: 1})
	want := r3.Vec{Y: 1}
	if !vecEquals(got, want, 1e-12) {
		t.Errorf("RotZ(pi/2).Apply(+X) = %v, want %v", got, want)
	}
}

func TestRotYPointsXDown(t *testing.T) {
	// the arrow correction: RotY(-pi/2) maps +X to +Z
	got := RotY(-math.Pi/2).Apply(r3.Vec{X: 1})
	want := r3.Vec{Z: 1}
	if !vecEquals(got, want, 1e-12) {
		t.Errorf("RotY(-pi/2).Apply(+X) = %v, want %v", got, want)
	}
}

func TestAxisAngleZeroAxis(t *testing.T) {
	if !AxisAngle(r3.Vec{}, 1.0).IsIdentity(tol) {
		t.Error("AxisAngle with zero axis should be identity")
	}
}

func TestMulComposesRightToLeft(t *testing.T) {
	a := Translate(r3.Vec{X: 1})
	b := RotZ(math.Pi / 2)
	v := r3.Vec{X: 1}

	got := a.Mul(b).Apply(v)
	want := a.Apply(b.Apply(v))
	if !vecEquals(got, want, 1e-12) {
		t.Errorf("(a·b).Apply = %v, a.Apply(b.Apply) = %v", got, want)
	}
	// rotate first, then translate: +X -> +Y -> (1, 1, 0)
	if !vecEquals(got, r3.Vec{X: 1, Y: 1}, 1e-12) {
		t.Errorf("composed result = %v, want (1,1,0)", got)
	}
}

func TestInvRoundTrip(t *testing.T) {
	tr := Translate(r3.Vec{X: 0.3, Y: -1.2, Z: 2}).Mul(AxisAngle(r3.Vec{X: 1, Y: 2, Z: 3}, 0.7))
	if !tr.Mul(tr.Inv()).IsIdentity(1e-12) {
		t.Error("t · t⁻¹ is not identity")
	}
	if !tr.Inv().Mul(tr).IsIdentity(1e-12) {
		t.Error("t⁻¹ · t is not identity")
	}
}

func TestInvUndoesApply(t *testing.T) {
	tr := RotX(0.4).Mul(Translate(r3.Vec{Y: 5}))
	v := r3.Vec{X: 1, Y: 2, Z: 3}
	got := tr.Inv().Apply(tr.Apply(v))
	if !vecEquals(got, v, 1e-12) {
		t.Errorf("inverse did not undo apply: got %v, want %v", got, v)
	}
}

func TestMatrixRoundTrip(t *testing.T) {
	cases := []Transform{
		Identity(),
		RotZ(0.3),
		RotX(math.Pi - 0.01),
		AxisAngle(r3.Vec{X: -1, Y: 0.5, Z: 2}, 2.5),
		Translate(r3.Vec{X: 1, Y: 2, Z: 3}).Mul(RotY(1.1)),
	}
	for i, tr := range cases {
		back := FromMatrix(tr.Matrix())
		if !back.ApproxEqual(tr, 1e-10) {
			t.Errorf("case %d: matrix round trip mismatch: %+v vs %+v", i, back, tr)
		}
	}
}

func TestMatrixMatchesApply(t *testing.T) {
	tr := AxisAngle(r3.Vec{X: 0.2, Y: -1, Z: 0.5}, 1.9).Mul(Translate(r3.Vec{X: -0.4, Z: 1.5}))
	m := tr.Matrix()
	v := r3.Vec{X: 0.7, Y: -0.1, Z: 2.2}

	mx := m[0]*v.X + m[1]*v.Y + m[2]*v.Z + m[3]
	my := m[4]*v.X + m[5]*v.Y + m[6]*v.Z + m[7]
	mz := m[8]*v.X + m[9]*v.Y + m[10]*v.Z + m[11]

	got := tr.Apply(v)
	if !vecEquals(got, r3.Vec{X: mx, Y: my, Z: mz}, 1e-10) {
		t.Errorf("matrix apply %v disagrees with quaternion apply %v", r3.Vec{X: mx, Y: my, Z: mz}, got)
	}
}

func TestApproxEqualQuaternionSign(t *testing.T) {
	// q and -q are the same rotation
	a := RotZ(0.5)
	b := a
	b.R.Real, b.R.Imag, b.R.Jmag, b.R.Kmag = -b.R.Real, -b.R.Imag, -b.R.Jmag, -b.R.Kmag
	if !a.ApproxEqual(b, tol) {
		t.Error("negated quaternion should compare equal")
	}
}

func TestFullTurnIsIdentity(t *testing.T) {
	got := RotZ(math.Pi).Mul(RotZ(math.Pi))
	if !got.IsIdentity(1e-12) {
		t.Errorf("two half turns should be identity, got %+v", got)
	}
}
