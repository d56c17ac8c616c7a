/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mspranav/azuredevops-swe-agent/pipeline"
)

// ErrNotFound reports that no run with the requested id exists.
var ErrNotFound = errors.New("task run not found")

// TaskRun is one persisted pipeline result.
type TaskRun struct {
	ID        string
	TaskID    string
	Status    string
	Message   string
	CommitID  string
	NoChanges bool
	PRID      int
	PRURL     string
	Elapsed   time.Duration
	CreatedAt time.Time
}

// RecordResult persists a pipeline result and returns the stored run.
func (s *Store) RecordResult(ctx context.Context, result pipeline.Result) (*TaskRun, error) {
	run := &TaskRun{
		ID:        uuid.NewString(),
		TaskID:    result.TaskID,
		Status:    result.Status,
		Message:   result.Message,
		CommitID:  result.CommitID,
		NoChanges: result.NoChanges,
		Elapsed:   result.Elapsed,
		CreatedAt: time.Now().UTC(),
	}
	if result.PullRequest != nil {
		run.PRID = result.PullRequest.ID
		run.PRURL = result.PullRequest.URL
	}
	_, err := s.ExecContext(ctx, `
		INSERT INTO task_runs (id, task_id, status, message, commit_id, no_changes, pr_id, pr_url, elapsed_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.TaskID, run.Status, run.Message, run.CommitID, run.NoChanges,
		run.PRID, run.PRURL, run.Elapsed.Milliseconds(), run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting task run: %w", err)
	}
	return run, nil
}

// GetRun returns one run by id.
func (s *Store) GetRun(ctx context.Context, id string) (*TaskRun, error) {
	row := s.QueryRowContext(ctx, `
		SELECT id, task_id, status, message, commit_id, no_changes, pr_id, pr_url, elapsed_ms, created_at
		FROM task_runs WHERE id = ?`, id)
	return scanRun(row)
}

// ListFilter narrows ListRuns. Zero values mean no filtering; Limit 0 means
// a default page of 50.
type ListFilter struct {
	TaskID string
	Status string
	Limit  int
	Offset int
}

// ListRuns returns runs newest first.
func (s *Store) ListRuns(ctx context.Context, filter ListFilter) ([]*TaskRun, error) {
	query := `
		SELECT id, task_id, status, message, commit_id, no_changes, pr_id, pr_url, elapsed_ms, created_at
		FROM task_runs WHERE 1=1`
	var args []any
	if filter.TaskID != "" {
		query += " AND task_id = ?"
		args = append(args, filter.TaskID)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " ORDER BY created_at DESC, id LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing task runs: %w", err)
	}
	defer rows.Close()

	var runs []*TaskRun
	for rows.Next() {
		run, err := scanRunRows(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// DeleteRun removes one run by id.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.ExecContext(ctx, "DELETE FROM task_runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanRun(row *sql.Row) (*TaskRun, error) {
	var run TaskRun
	var elapsedMS int64
	err := row.Scan(&run.ID, &run.TaskID, &run.Status, &run.Message, &run.CommitID,
		&run.NoChanges, &run.PRID, &run.PRURL, &elapsedMS, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning task run: %w", err)
	}
	run.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	return &run, nil
}

func scanRunRows(rows *sql.Rows) (*TaskRun, error) {
	var run TaskRun
	var elapsedMS int64
	if err := rows.Scan(&run.ID, &run.TaskID, &run.Status, &run.Message, &run.CommitID,
		&run.NoChanges, &run.PRID, &run.PRURL, &elapsedMS, &run.CreatedAt); err != nil {
		return nil, fmt.Errorf("scanning task run: %w", err)
	}
	run.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	return &run, nil
}
