package store

import (
	"context"
	"database/sql"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/roach88/crosstemp/internal/dataset"
	"github.com/roach88/crosstemp/internal/runid"
)

// WriteRecording replaces the stored recording and all of its trials.
// The recording is validated first; nothing is written if it is malformed.
func (s *Store) WriteRecording(ctx context.Context, rec *dataset.Recording) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("write recording: %w", err)
	}
	hash, err := runid.RecordingHash(rec.Name, rec.Neurons, rec.Bins, len(rec.Trials), rec.Duration)
	if err != nil {
		return fmt.Errorf("write recording: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write recording: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, stmt := range []string{"DELETE FROM trials", "DELETE FROM recording"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("write recording: clear: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO recording (id, name, n_neurons, n_bins, duration, hash)
		VALUES (1, ?, ?, ?, ?, ?)
	`, rec.Name, rec.Neurons, rec.Bins, rec.Duration, hash)
	if err != nil {
		return fmt.Errorf("write recording: insert metadata: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trials (day, trial, task, sample, distractor, choice, features)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write recording: prepare: %w", err)
	}
	defer stmt.Close()

	for i, tr := range rec.Trials {
		blob, err := encodeFeatures(tr.X, rec.Neurons, rec.Bins)
		if err != nil {
			return fmt.Errorf("write recording: trial %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, tr.Day, tr.Index, tr.Task, tr.Sample, tr.Distractor, tr.Choice, blob); err != nil {
			return fmt.Errorf("write recording: trial %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write recording: commit: %w", err)
	}
	return nil
}

// WriteRun inserts a run and its matrices in one transaction.
// Uses ON CONFLICT(id) DO NOTHING for idempotency; a duplicate ID leaves the
// stored run untouched and returns inserted=false.
func (s *Store) WriteRun(ctx context.Context, run Run) (inserted bool, err error) {
	optsJSON, err := marshalOptions(run.Options)
	if err != nil {
		return false, fmt.Errorf("write run: %w", err)
	}
	shapeJSON, err := marshalShape(run.Shape)
	if err != nil {
		return false, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, hash, kind, features, day, task, options, shape, figure, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Hash,
		string(run.Kind),
		run.Features,
		run.Day,
		run.Task,
		optsJSON,
		shapeJSON,
		run.Figure,
		run.Elapsed.Milliseconds(),
	)
	if err != nil {
		return false, fmt.Errorf("write run: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write run: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return false, nil
	}

	for _, name := range sortedMatrixNames(run.Matrices) {
		if err := writeMatrix(ctx, tx, run.ID, name, run.Matrices[name]); err != nil {
			return false, fmt.Errorf("write run: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write run: commit: %w", err)
	}
	return true, nil
}

func writeMatrix(ctx context.Context, tx *sql.Tx, runID, name string, m *mat.Dense) error {
	if m == nil {
		return fmt.Errorf("matrix %q is nil", name)
	}
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		data = append(data, m.RawRowView(i)...)
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO run_matrices (run_id, name, n_rows, n_cols, data)
		VALUES (?, ?, ?, ?, ?)
	`, runID, name, r, c, encodeFloats(data))
	if err != nil {
		return fmt.Errorf("matrix %q: %w", name, err)
	}
	return nil
}
