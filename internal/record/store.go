// Package record persists enumeration runs and their candidates to sqlite
// so sweeps can be compared offline. Schema is managed with embedded
// golang-migrate migrations.
package record

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/gantry-robotics/graspgen/internal/grasp"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Run is one enumeration run's header row.
type Run struct {
	RunID       string  `json:"run_id"`
	Object      string  `json:"object"`
	EndEffector string  `json:"eef"`
	AngleDelta  float64 `json:"angle_delta"`
	CreatedAt   int64   `json:"created_at"`
}

// CandidateRow is one persisted candidate.
type CandidateRow struct {
	RunID string      `json:"run_id"`
	Seq   int         `json:"seq"`
	Theta float64     `json:"theta"`
	Cost  float64     `json:"cost"`
	Name  string      `json:"name"`
	Frame string      `json:"frame"`
	Pose  [16]float64 `json:"pose"`
}

// Store provides persistence for grasp enumeration runs.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the sqlite database at path and applies pending
// migrations. ":memory:" works for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A ":memory:" database exists per connection; with a pool the
	// migrated schema and later inserts could land on different ones. The
	// store is driven by a single caller anyway.
	db.SetMaxOpenConns(1)
	s := &Store{db: db}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrateUp() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load embedded migrations: %w", err)
	}
	driver, err := sqlitemigrate.WithInstance(s.db, &sqlitemigrate.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	// Note: m is not closed; closing it would close the shared DB connection.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// InsertRun persists a run header. If RunID is empty a UUID is generated;
// if CreatedAt is zero the current time is used. The (possibly updated) run
// is returned for chaining.
func (s *Store) InsertRun(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}
	_, err := s.db.Exec(`
		INSERT INTO grasp_runs (run_id, object, eef, angle_delta, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		run.RunID, run.Object, run.EndEffector, run.AngleDelta, run.CreatedAt,
	)
	return err
}

// InsertCandidate persists one candidate under a run at sequence position seq.
func (s *Store) InsertCandidate(runID string, seq int, c *grasp.Candidate) error {
	poseJSON, err := json.Marshal(c.Target.Pose.Matrix())
	if err != nil {
		return fmt.Errorf("failed to encode pose: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO grasp_candidates (run_id, seq, theta, cost, name, frame, pose_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, seq, c.Theta, c.Trajectory.Cost, c.Trajectory.Name, string(c.Target.FrameID), string(poseJSON),
	)
	return err
}

// GetRun loads a run header.
func (s *Store) GetRun(runID string) (*Run, error) {
	var r Run
	err := s.db.QueryRow(`
		SELECT run_id, object, eef, angle_delta, created_at
		FROM grasp_runs WHERE run_id = ?`, runID).
		Scan(&r.RunID, &r.Object, &r.EndEffector, &r.AngleDelta, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRuns returns all run headers, newest first.
func (s *Store) ListRuns() ([]*Run, error) {
	rows, err := s.db.Query(`
		SELECT run_id, object, eef, angle_delta, created_at
		FROM grasp_runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.Object, &r.EndEffector, &r.AngleDelta, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

// ListCandidates returns a run's candidates in sequence order.
func (s *Store) ListCandidates(runID string) ([]*CandidateRow, error) {
	rows, err := s.db.Query(`
		SELECT run_id, seq, theta, cost, name, frame, pose_json
		FROM grasp_candidates WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*CandidateRow
	for rows.Next() {
		var (
			c        CandidateRow
			poseJSON string
		)
		if err := rows.Scan(&c.RunID, &c.Seq, &c.Theta, &c.Cost, &c.Name, &c.Frame, &poseJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(poseJSON), &c.Pose); err != nil {
			return nil, fmt.Errorf("candidate %d: corrupt pose: %w", c.Seq, err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
