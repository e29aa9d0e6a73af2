package props

import (
	"errors"
	"testing"
)

func TestDeclareAndDefaults(t *testing.T) {
	s := NewSet()
	s.DeclareString("eef", "", "name of end-effector group")
	s.DeclareFloat("angle_delta", 0.1, "angular steps (rad)")

	v, err := s.String("eef")
	if err != nil || v != "" {
		t.Errorf("String(eef) = %q, %v; want default empty", v, err)
	}
	f, err := s.Float("angle_delta")
	if err != nil || f != 0.1 {
		t.Errorf("Float(angle_delta) = %v, %v; want 0.1", f, err)
	}
	if got := s.Describe("angle_delta"); got != "angular steps (rad)" {
		t.Errorf("Describe = %q", got)
	}
}

func TestOverride(t *testing.T) {
	s := NewSet()
	s.DeclareFloat("angle_delta", 0.1, "")
	if err := s.SetFloat("angle_delta", 0.5); err != nil {
		t.Fatal(err)
	}
	f, _ := s.Float("angle_delta")
	if f != 0.5 {
		t.Errorf("Float = %v, want 0.5", f)
	}
}

func TestUnknownProperty(t *testing.T) {
	s := NewSet()
	s.DeclareString("eef", "", "")

	if _, err := s.Float("eef"); !errors.Is(err, ErrUnknownProperty) {
		t.Errorf("type mismatch should report unknown property, got %v", err)
	}
	if err := s.SetString("nope", "x"); !errors.Is(err, ErrUnknownProperty) {
		t.Errorf("SetString(nope) = %v, want ErrUnknownProperty", err)
	}
	if _, err := s.Value("nope"); !errors.Is(err, ErrUnknownProperty) {
		t.Errorf("Value(nope) = %v, want ErrUnknownProperty", err)
	}
	if s.Describe("nope") != "" {
		t.Error("Describe of unknown property should be empty")
	}
}

func TestAnyTyped(t *testing.T) {
	type tf struct{ X float64 }
	s := NewSet()
	s.Declare("tool_to_grasp_tf", tf{}, "transform from tool frame to grasp frame")

	if err := s.Set("tool_to_grasp_tf", tf{X: 2}); err != nil {
		t.Fatal(err)
	}
	v, err := s.Value("tool_to_grasp_tf")
	if err != nil {
		t.Fatal(err)
	}
	if v.(tf).X != 2 {
		t.Errorf("Value = %+v", v)
	}
}
