/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package implementer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/mspranav/azuredevops-swe-agent/codegen"
	"github.com/mspranav/azuredevops-swe-agent/pipeline/requirements"
)

// dirWorkspace is a Workspace over a plain directory, no git involved.
type dirWorkspace struct {
	dir string
}

func (d dirWorkspace) Dir() string { return d.dir }

func (d dirWorkspace) ReadFile(relPath string) ([]byte, error) {
	return os.ReadFile(filepath.Join(d.dir, filepath.FromSlash(relPath)))
}

func (d dirWorkspace) WriteFile(relPath string, content []byte) error {
	abs := filepath.Join(d.dir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return err
	}
	return os.WriteFile(abs, content, 0o644)
}

func (d dirWorkspace) FileExists(relPath string) bool {
	_, err := os.Stat(filepath.Join(d.dir, filepath.FromSlash(relPath)))
	return err == nil
}

// fakeGenerator fails for paths in failFor and records what it was asked.
type fakeGenerator struct {
	failFor  map[string]bool
	implReqs []codegen.ImplementationRequest
	testReqs []codegen.TestRequest
}

func (f *fakeGenerator) GenerateImplementation(_ context.Context, req codegen.ImplementationRequest) (string, error) {
	f.implReqs = append(f.implReqs, req)
	if f.failFor[req.Path] {
		return "", errors.New("model unavailable")
	}
	return fmt.Sprintf("# generated for %s\n", req.Path), nil
}

func (f *fakeGenerator) GenerateTests(_ context.Context, req codegen.TestRequest) (string, error) {
	f.testReqs = append(f.testReqs, req)
	if f.failFor[req.TestPath] {
		return "", errors.New("model unavailable")
	}
	return fmt.Sprintf("# tests for %s\n", req.SourcePath), nil
}

func newTestImplementer(t *testing.T, gen codegen.Generator) *Implementer {
	t.Helper()
	impl, err := New(gen, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return impl
}

func seedRepo(t *testing.T) dirWorkspace {
	t.Helper()
	ws := dirWorkspace{dir: t.TempDir()}
	if err := ws.WriteFile("src/existing.py", []byte("def old(): ...\n")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := ws.WriteFile("requirements.txt", []byte("pytest==8.0\n")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return ws
}

func TestApplyPartialFailure(t *testing.T) {
	ws := seedRepo(t)
	gen := &fakeGenerator{failFor: map[string]bool{"src/broken.py": true}}
	impl := newTestImplementer(t, gen)

	outcome := impl.Apply(context.Background(), ws, codegen.TaskContext{ID: "42", Title: "Add things"}, requirements.Set{
		Files: []string{"src/broken.py", "src/existing.py", "src/new.py"},
	})

	if got := len(outcome.Succeeded()); got != 2 {
		t.Errorf("succeeded = %d, want 2", got)
	}
	failed := outcome.Failed()
	if len(failed) != 1 || failed[0].Path != "src/broken.py" {
		t.Errorf("failed = %+v, want just src/broken.py", failed)
	}
	if failed[0].Err == nil {
		t.Error("failed change should carry its error")
	}
	if !ws.FileExists("src/new.py") {
		t.Error("src/new.py was not written despite a sibling failure")
	}
}

func TestApplyActions(t *testing.T) {
	ws := seedRepo(t)
	gen := &fakeGenerator{}
	impl := newTestImplementer(t, gen)

	outcome := impl.Apply(context.Background(), ws, codegen.TaskContext{ID: "42"}, requirements.Set{
		Files: []string{"src/existing.py", "src/new.py"},
	})

	byPath := map[string]FileChange{}
	for _, c := range outcome.Changes {
		byPath[c.Path] = c
	}
	if got := byPath["src/existing.py"].Action; got != ActionModify {
		t.Errorf("existing file action = %q, want modify", got)
	}
	if got := byPath["src/new.py"].Action; got != ActionCreate {
		t.Errorf("new file action = %q, want create", got)
	}

	// The modify request must carry the file's current content.
	for _, req := range gen.implReqs {
		if req.Path == "src/existing.py" && req.ExistingContent == "" {
			t.Error("modify request missing existing content")
		}
	}
}

func TestApplyGeneratesTestsWhenRequired(t *testing.T) {
	ws := seedRepo(t)
	gen := &fakeGenerator{}
	impl := newTestImplementer(t, gen)

	outcome := impl.Apply(context.Background(), ws, codegen.TaskContext{ID: "42"}, requirements.Set{
		Files:           []string{"src/feature.py"},
		TestingRequired: true,
	})

	generated := outcome.GeneratedTests()
	if len(generated) != 1 {
		t.Fatalf("generated tests = %d, want 1", len(generated))
	}
	if generated[0].Path != "tests/test_feature.py" {
		t.Errorf("test path = %q, want tests/test_feature.py", generated[0].Path)
	}
	if !ws.FileExists("tests/test_feature.py") {
		t.Error("test file was not written")
	}
	// The repository declares pytest, so the request should name it.
	if len(gen.testReqs) != 1 || gen.testReqs[0].Framework != "pytest" {
		t.Errorf("test requests = %+v, want pytest framework", gen.testReqs)
	}
}

func TestApplySkipsTestsWhenNotRequired(t *testing.T) {
	ws := seedRepo(t)
	gen := &fakeGenerator{}
	impl := newTestImplementer(t, gen)

	outcome := impl.Apply(context.Background(), ws, codegen.TaskContext{ID: "42"}, requirements.Set{
		Files: []string{"src/feature.py"},
	})
	if len(outcome.Tests) != 0 {
		t.Errorf("tests = %+v, want none", outcome.Tests)
	}
	if len(gen.testReqs) != 0 {
		t.Error("generator asked for tests despite the flag being off")
	}
}

func TestApplySkipsTestsForFailedChanges(t *testing.T) {
	ws := seedRepo(t)
	gen := &fakeGenerator{failFor: map[string]bool{"src/broken.py": true}}
	impl := newTestImplementer(t, gen)

	outcome := impl.Apply(context.Background(), ws, codegen.TaskContext{ID: "42"}, requirements.Set{
		Files:           []string{"src/broken.py"},
		TestingRequired: true,
	})
	if len(outcome.Tests) != 1 || outcome.Tests[0].Status != TestSkipped {
		t.Errorf("tests = %+v, want one skipped artifact", outcome.Tests)
	}
}

func TestApplyDetectsRepositoryContext(t *testing.T) {
	ws := seedRepo(t)
	gen := &fakeGenerator{}
	impl := newTestImplementer(t, gen)

	outcome := impl.Apply(context.Background(), ws, codegen.TaskContext{ID: "42"}, requirements.Set{
		Files: []string{"src/feature.py"},
	})
	if outcome.PrimaryLanguage != "Python" {
		t.Errorf("PrimaryLanguage = %q, want Python", outcome.PrimaryLanguage)
	}
	found := false
	for _, f := range outcome.Frameworks {
		if f == "pytest" {
			found = true
		}
	}
	if !found {
		t.Errorf("Frameworks = %v, want pytest detected", outcome.Frameworks)
	}
}

func TestNewRequiresGenerator(t *testing.T) {
	if _, err := New(nil, nil, nil); err == nil {
		t.Error("New(nil) should fail")
	}
}
