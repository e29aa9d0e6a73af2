package record

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/gantry-robotics/graspgen/internal/grasp"
	"github.com/gantry-robotics/graspgen/internal/scene"
	"github.com/gantry-robotics/graspgen/internal/spatial"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testCandidate(theta float64) *grasp.Candidate {
	pose := spatial.Translate(r3.Vec{X: 0.5}).Mul(spatial.RotZ(theta))
	return &grasp.Candidate{
		Theta:      theta,
		Target:     scene.PoseStamped{FrameID: "palm", Pose: pose},
		Trajectory: grasp.Trajectory{Cost: 0, Name: "0.100000"},
	}
}

func TestInsertAndListRuns(t *testing.T) {
	s := openTestStore(t)

	run := &Run{Object: "can", EndEffector: "gripper", AngleDelta: 0.1}
	require.NoError(t, s.InsertRun(run))
	assert.NotEmpty(t, run.RunID, "InsertRun should assign a UUID")
	assert.NotZero(t, run.CreatedAt)

	got, err := s.GetRun(run.RunID)
	require.NoError(t, err)
	if diff := cmp.Diff(run, got); diff != "" {
		t.Errorf("run round trip mismatch (-want +got):\n%s", diff)
	}

	runs, err := s.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.RunID, runs[0].RunID)
}

func TestInsertAndListCandidates(t *testing.T) {
	s := openTestStore(t)
	run := &Run{Object: "can", EndEffector: "gripper", AngleDelta: math.Pi / 2}
	require.NoError(t, s.InsertRun(run))

	thetas := []float64{0, math.Pi / 2, math.Pi}
	for i, th := range thetas {
		require.NoError(t, s.InsertCandidate(run.RunID, i, testCandidate(th)))
	}

	rows, err := s.ListCandidates(run.RunID)
	require.NoError(t, err)
	require.Len(t, rows, len(thetas))

	for i, row := range rows {
		assert.Equal(t, i, row.Seq)
		assert.InDelta(t, thetas[i], row.Theta, 1e-12)
		assert.Equal(t, "palm", row.Frame)
		assert.Equal(t, 0.0, row.Cost)

		// pose round-trips through the JSON matrix encoding
		want := testCandidate(thetas[i]).Target.Pose
		back := spatial.FromMatrix(row.Pose)
		assert.True(t, back.ApproxEqual(want, 1e-10), "pose round trip mismatch at seq %d", i)
	}
}

func TestListCandidatesEmptyRun(t *testing.T) {
	s := openTestStore(t)
	rows, err := s.ListCandidates("no-such-run")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDuplicateSeqRejected(t *testing.T) {
	s := openTestStore(t)
	run := &Run{Object: "can", EndEffector: "gripper", AngleDelta: 0.1}
	require.NoError(t, s.InsertRun(run))

	require.NoError(t, s.InsertCandidate(run.RunID, 0, testCandidate(0)))
	assert.Error(t, s.InsertCandidate(run.RunID, 0, testCandidate(0.1)),
		"primary key (run_id, seq) should reject duplicates")
}

func TestMigrationsIdempotentOnReopen(t *testing.T) {
	path := t.TempDir() + "/grasp.db"
	s, err := Open(path)
	require.NoError(t, err)
	run := &Run{Object: "can", EndEffector: "gripper", AngleDelta: 0.1}
	require.NoError(t, s.InsertRun(run))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	got, err := s2.GetRun(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, run.RunID, got.RunID)
}
