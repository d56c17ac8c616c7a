/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mspranav/azuredevops-swe-agent/pipeline"
	"github.com/mspranav/azuredevops-swe-agent/store"
)

type fakeProcessor struct {
	result pipeline.Result
}

func (f *fakeProcessor) ProcessTask(_ context.Context, taskID string) pipeline.Result {
	result := f.result
	result.TaskID = taskID
	return result
}

func newTestServer(t *testing.T, result pipeline.Result) (*Server, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "agent.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	srv, err := NewServer(&fakeProcessor{result: result}, s, Config{APIKey: "secret"})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv, s
}

func do(srv *Server, method, target, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if apiKey != "" {
		req.Header.Set("X-Api-Key", apiKey)
	}
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func TestHealthNeedsNoKey(t *testing.T) {
	srv, _ := newTestServer(t, pipeline.Result{})
	rec := do(srv, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Errorf("GET /health = %d, want 200", rec.Code)
	}
}

func TestMetricsNeedsNoKey(t *testing.T) {
	srv, _ := newTestServer(t, pipeline.Result{})
	rec := do(srv, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Errorf("GET /metrics = %d, want 200", rec.Code)
	}
}

func TestAPIKeyRequired(t *testing.T) {
	srv, _ := newTestServer(t, pipeline.Result{})
	if rec := do(srv, http.MethodGet, "/api/v1/runs", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("no key = %d, want 401", rec.Code)
	}
	if rec := do(srv, http.MethodGet, "/api/v1/runs", "wrong"); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong key = %d, want 401", rec.Code)
	}
	if rec := do(srv, http.MethodGet, "/api/v1/runs", "secret"); rec.Code != http.StatusOK {
		t.Errorf("right key = %d, want 200", rec.Code)
	}
}

func TestProcessTaskRecordsRun(t *testing.T) {
	srv, s := newTestServer(t, pipeline.Result{
		Status:   pipeline.StatusCompleted,
		Message:  "Pull request #17 created",
		CommitID: "deadbeef",
	})

	rec := do(srv, http.MethodPost, "/api/v1/tasks/42/process", "secret")
	if rec.Code != http.StatusOK {
		t.Fatalf("POST = %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		ID     string `json:"id"`
		TaskID string `json:"task_id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.TaskID != "42" || resp.Status != pipeline.StatusCompleted {
		t.Errorf("resp = %+v", resp)
	}

	run, err := s.GetRun(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.CommitID != "deadbeef" {
		t.Errorf("stored CommitID = %q", run.CommitID)
	}
}

func TestProcessTaskClarificationPayload(t *testing.T) {
	srv, _ := newTestServer(t, pipeline.Result{
		Status:  pipeline.StatusClarification,
		Missing: []string{"Acceptance criteria are missing."},
	})

	rec := do(srv, http.MethodPost, "/api/v1/tasks/7/process", "secret")
	if rec.Code != http.StatusOK {
		t.Fatalf("POST = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "missing_information") {
		t.Errorf("body missing clarification items: %s", rec.Body)
	}
}

func TestRunLifecycle(t *testing.T) {
	srv, _ := newTestServer(t, pipeline.Result{Status: pipeline.StatusCompleted})

	rec := do(srv, http.MethodPost, "/api/v1/tasks/42/process", "secret")
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if rec := do(srv, http.MethodGet, "/api/v1/runs/"+created.ID, "secret"); rec.Code != http.StatusOK {
		t.Errorf("GET run = %d", rec.Code)
	}
	if rec := do(srv, http.MethodGet, "/api/v1/runs?status=completed", "secret"); !strings.Contains(rec.Body.String(), created.ID) {
		t.Errorf("list missing run: %s", rec.Body)
	}
	if rec := do(srv, http.MethodDelete, "/api/v1/runs/"+created.ID, "secret"); rec.Code != http.StatusNoContent {
		t.Errorf("DELETE = %d", rec.Code)
	}
	if rec := do(srv, http.MethodGet, "/api/v1/runs/"+created.ID, "secret"); rec.Code != http.StatusNotFound {
		t.Errorf("GET deleted run = %d, want 404", rec.Code)
	}
}

func TestListRunsRejectsBadPagination(t *testing.T) {
	srv, _ := newTestServer(t, pipeline.Result{})
	if rec := do(srv, http.MethodGet, "/api/v1/runs?limit=nope", "secret"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit = %d, want 400", rec.Code)
	}
	if rec := do(srv, http.MethodGet, "/api/v1/runs?offset=-1", "secret"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad offset = %d, want 400", rec.Code)
	}
}

func TestStartReturnsNilAfterShutdown(t *testing.T) {
	srv, _ := newTestServer(t, pipeline.Result{})
	srv.config.Addr = "127.0.0.1:0"

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	deadline := time.Now().Add(5 * time.Second)
	for srv.echo.ListenerAddr() == nil {
		if time.Now().After(deadline) {
			t.Fatal("server never started listening")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("Start after Shutdown = %v, want nil", err)
	}
}

func TestNewServerValidation(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "agent.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer s.Close()

	if _, err := NewServer(nil, s, Config{APIKey: "k"}); err == nil {
		t.Error("nil processor should fail")
	}
	if _, err := NewServer(&fakeProcessor{}, nil, Config{APIKey: "k"}); err == nil {
		t.Error("nil store should fail")
	}
	if _, err := NewServer(&fakeProcessor{}, s, Config{}); err == nil {
		t.Error("empty API key should fail")
	}
}
