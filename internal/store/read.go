package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/roach88/crosstemp/internal/dataset"
)

var (
	// ErrNoRecording is returned when the database holds no recording.
	ErrNoRecording = errors.New("store: no recording in database")

	// ErrRunNotFound is returned when no run has the requested ID.
	ErrRunNotFound = errors.New("store: run not found")
)

// ReadRecording loads the recording with trials ordered by day, then trial.
// When days are given only their trials are read; the day filter is served
// by the (day, trial) unique index.
func (s *Store) ReadRecording(ctx context.Context, days ...int) (*dataset.Recording, error) {
	info, err := s.RecordingInfo(ctx)
	if err != nil {
		return nil, err
	}

	query, params := trialQuery(days)
	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query trials: %w", err)
	}
	defer rows.Close()

	rec := &dataset.Recording{
		Name:     info.Name,
		Neurons:  info.Neurons,
		Bins:     info.Bins,
		Duration: info.Duration,
	}
	for rows.Next() {
		var tr dataset.Trial
		var blob []byte
		if err := rows.Scan(&tr.Day, &tr.Index, &tr.Task, &tr.Sample, &tr.Distractor, &tr.Choice, &blob); err != nil {
			return nil, fmt.Errorf("scan trial: %w", err)
		}
		tr.X, err = decodeFeatures(blob, info.Neurons, info.Bins)
		if err != nil {
			return nil, fmt.Errorf("trial day=%d index=%d: %w", tr.Day, tr.Index, err)
		}
		rec.Trials = append(rec.Trials, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trials: %w", err)
	}
	return rec, nil
}

// RecordingInfo returns the recording metadata and trial count.
func (s *Store) RecordingInfo(ctx context.Context) (RecordingInfo, error) {
	var info RecordingInfo
	err := s.db.QueryRowContext(ctx, `
		SELECT r.name, r.n_neurons, r.n_bins, r.duration, r.hash,
		       (SELECT COUNT(*) FROM trials)
		FROM recording r
		WHERE r.id = 1
	`).Scan(&info.Name, &info.Neurons, &info.Bins, &info.Duration, &info.Hash, &info.Trials)
	if errors.Is(err, sql.ErrNoRows) {
		return RecordingInfo{}, ErrNoRecording
	}
	if err != nil {
		return RecordingInfo{}, fmt.Errorf("query recording: %w", err)
	}
	return info, nil
}

// Days returns the distinct recorded days in ascending order.
func (s *Store) Days(ctx context.Context) ([]int, error) {
	if _, err := s.RecordingInfo(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT day FROM trials ORDER BY day ASC`)
	if err != nil {
		return nil, fmt.Errorf("query days: %w", err)
	}
	defer rows.Close()

	var days []int
	for rows.Next() {
		var d int
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate days: %w", err)
	}
	return days, nil
}

// ReadRun retrieves a run and all of its matrices.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	query, params := RunFilter{ID: id}.compile()
	row := s.db.QueryRowContext(ctx, query, params...)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, err
	}

	run.Matrices, err = s.readMatrices(ctx, id)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// ListRuns returns runs matching filter in insertion order, without matrices.
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListRuns(ctx context.Context, filter RunFilter) ([]Run, error) {
	query, params := filter.compile()
	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func (s *Store) readMatrices(ctx context.Context, runID string) (map[string]*mat.Dense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, n_rows, n_cols, data
		FROM run_matrices
		WHERE run_id = ?
		ORDER BY name ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query matrices: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*mat.Dense)
	for rows.Next() {
		var name string
		var r, c int
		var blob []byte
		if err := rows.Scan(&name, &r, &c, &blob); err != nil {
			return nil, fmt.Errorf("scan matrix: %w", err)
		}
		data, err := decodeFloats(blob, r*c)
		if err != nil {
			return nil, fmt.Errorf("matrix %q: %w", name, err)
		}
		out[name] = mat.NewDense(r, c, data)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matrices: %w", err)
	}
	return out, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var run Run
	var kind, optsJSON, shapeJSON string
	var elapsedMS int64
	err := row.Scan(&run.Seq, &run.ID, &run.Hash, &kind, &run.Features, &run.Day, &run.Task,
		&optsJSON, &shapeJSON, &run.Figure, &elapsedMS)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Kind = RunKind(kind)
	run.Elapsed = time.Duration(elapsedMS) * time.Millisecond

	if run.Options, err = unmarshalOptions(optsJSON); err != nil {
		return Run{}, err
	}
	if run.Shape, err = unmarshalShape(shapeJSON); err != nil {
		return Run{}, err
	}
	return run, nil
}
