package grasp

import (
	"testing"

	"github.com/gantry-robotics/graspgen/internal/props"
	"github.com/gantry-robotics/graspgen/internal/scene"
	"github.com/gantry-robotics/graspgen/internal/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultAngleDelta, cfg.AngleDelta)
	assert.Empty(t, cfg.ToolToGrasp.ReferenceFrame)
	assert.True(t, cfg.ToolToGrasp.Transform.IsIdentity(1e-15))
}

func TestConfigFromPropsDefaults(t *testing.T) {
	set := props.NewSet()
	DeclareProperties(set)

	cfg, err := ConfigFromProps(set)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfigFromPropsOverrides(t *testing.T) {
	set := props.NewSet()
	DeclareProperties(set)

	tf := scene.StampedTransform{
		ReferenceFrame: "tool_tip",
		Transform:      spatial.Translate(r3.Vec{Z: 0.1}),
	}
	require.NoError(t, set.SetString(PropEndEffector, "gripper"))
	require.NoError(t, set.SetString(PropNamedPosture, "open"))
	require.NoError(t, set.SetString(PropObject, "can"))
	require.NoError(t, set.SetFloat(PropAngleDelta, 0.25))
	require.NoError(t, set.Set(PropToolToGrasp, tf))

	cfg, err := ConfigFromProps(set)
	require.NoError(t, err)
	assert.Equal(t, "gripper", cfg.EndEffector)
	assert.Equal(t, "open", cfg.NamedPosture)
	assert.Equal(t, "can", cfg.Object)
	assert.Equal(t, 0.25, cfg.AngleDelta)
	assert.Equal(t, tf, cfg.ToolToGrasp)
}

func TestConfigFromPropsWrongTransformType(t *testing.T) {
	set := props.NewSet()
	DeclareProperties(set)
	require.NoError(t, set.Set(PropToolToGrasp, "not a transform"))

	_, err := ConfigFromProps(set)
	assert.Error(t, err)
}

func TestPropertyDescriptions(t *testing.T) {
	set := props.NewSet()
	DeclareProperties(set)
	assert.Equal(t, "angular steps (rad)", set.Describe(PropAngleDelta))
	assert.Equal(t, "name of end-effector group", set.Describe(PropEndEffector))
}
