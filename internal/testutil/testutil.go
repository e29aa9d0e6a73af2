// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"testing"

	"github.com/gantry-robotics/graspgen/internal/spatial"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertFloatEquals checks two floats agree within eps.
func AssertFloatEquals(t *testing.T, got, want, eps float64) {
	t.Helper()
	if math.Abs(got-want) > eps {
		t.Errorf("value = %v, want %v (eps %v)", got, want, eps)
	}
}

// AssertTransformEquals checks two transforms agree within eps.
func AssertTransformEquals(t *testing.T, got, want spatial.Transform, eps float64) {
	t.Helper()
	if !got.ApproxEqual(want, eps) {
		t.Errorf("transform = %+v, want %+v (eps %v)", got, want, eps)
	}
}
