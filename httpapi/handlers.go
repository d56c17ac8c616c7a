/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/labstack/echo/v4"

	"github.com/mspranav/azuredevops-swe-agent/store"
)

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// runResponse is the JSON shape of a stored run.
type runResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	CommitID  string    `json:"commit_id,omitempty"`
	NoChanges bool      `json:"no_changes,omitempty"`
	PRID      int       `json:"pr_id,omitempty"`
	PRURL     string    `json:"pr_url,omitempty"`
	ElapsedMS int64     `json:"elapsed_ms"`
	CreatedAt time.Time `json:"created_at"`
}

func toResponse(run *store.TaskRun) runResponse {
	return runResponse{
		ID:        run.ID,
		TaskID:    run.TaskID,
		Status:    run.Status,
		Message:   run.Message,
		CommitID:  run.CommitID,
		NoChanges: run.NoChanges,
		PRID:      run.PRID,
		PRURL:     run.PRURL,
		ElapsedMS: run.Elapsed.Milliseconds(),
		CreatedAt: run.CreatedAt,
	}
}

// handleProcessTask runs the pipeline synchronously and records the result.
// Clarification and error outcomes are still 200s; the caller inspects the
// status field.
func (s *Server) handleProcessTask(c echo.Context) error {
	taskID := c.Param("id")
	ctx := c.Request().Context()

	result := s.processor.ProcessTask(ctx, taskID)
	run, err := s.runs.RecordResult(ctx, result)
	if err != nil {
		clog.FromContext(ctx).Errorf("recording run: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to record run")
	}

	resp := toResponse(run)
	return c.JSON(http.StatusOK, struct {
		runResponse
		Missing []string `json:"missing_information,omitempty"`
	}{resp, result.Missing})
}

func (s *Server) handleListRuns(c echo.Context) error {
	filter := store.ListFilter{
		TaskID: c.QueryParam("task_id"),
		Status: c.QueryParam("status"),
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		filter.Limit = n
	}
	if v := c.QueryParam("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid offset")
		}
		filter.Offset = n
	}

	runs, err := s.runs.ListRuns(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list runs")
	}
	out := make([]runResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, toResponse(run))
	}
	return c.JSON(http.StatusOK, map[string]any{"runs": out})
}

func (s *Server) handleGetRun(c echo.Context) error {
	run, err := s.runs.GetRun(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "run not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load run")
	}
	return c.JSON(http.StatusOK, toResponse(run))
}

func (s *Server) handleDeleteRun(c echo.Context) error {
	err := s.runs.DeleteRun(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "run not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete run")
	}
	return c.NoContent(http.StatusNoContent)
}
