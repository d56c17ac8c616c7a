/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package implementer

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"

	"github.com/mspranav/azuredevops-swe-agent/codegen"
	"github.com/mspranav/azuredevops-swe-agent/langdetect"
	"github.com/mspranav/azuredevops-swe-agent/pipeline/requirements"
)

// Actions a file change can take.
const (
	ActionCreate = "create"
	ActionModify = "modify"
)

// Statuses of a file change.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Statuses of a test artifact.
const (
	TestGenerated = "generated"
	TestSkipped   = "skipped"
	TestError     = "error"
)

// FileChange records the outcome for one requested file.
type FileChange struct {
	Path     string
	Language string
	Action   string
	Status   string
	Err      error
}

// TestArtifact records the outcome of test generation for one source change.
type TestArtifact struct {
	Path       string
	SourcePath string
	Status     string
	Err        error
}

// Outcome is the result of applying a whole task inside a workspace.
type Outcome struct {
	Changes         []FileChange
	Tests           []TestArtifact
	PrimaryLanguage string
	Frameworks      []string
}

// Succeeded returns the changes that were applied.
func (o Outcome) Succeeded() []FileChange {
	var out []FileChange
	for _, c := range o.Changes {
		if c.Status == StatusSuccess {
			out = append(out, c)
		}
	}
	return out
}

// Failed returns the changes that could not be applied.
func (o Outcome) Failed() []FileChange {
	var out []FileChange
	for _, c := range o.Changes {
		if c.Status == StatusError {
			out = append(out, c)
		}
	}
	return out
}

// GeneratedTests returns the test artifacts that were written.
func (o Outcome) GeneratedTests() []TestArtifact {
	var out []TestArtifact
	for _, a := range o.Tests {
		if a.Status == TestGenerated {
			out = append(out, a)
		}
	}
	return out
}

// Workspace is the slice of workspace behavior the implementer needs.
type Workspace interface {
	Dir() string
	ReadFile(relPath string) ([]byte, error)
	WriteFile(relPath string, content []byte) error
	FileExists(relPath string) bool
}

// Implementer drives code generation for a task's files.
type Implementer struct {
	generator codegen.Generator
	detector  *langdetect.Detector
	registry  *codegen.Registry
}

// New returns an Implementer using the given generator.
func New(generator codegen.Generator, detector *langdetect.Detector, registry *codegen.Registry) (*Implementer, error) {
	if generator == nil {
		return nil, fmt.Errorf("generator must not be nil")
	}
	if detector == nil {
		detector = langdetect.New()
	}
	if registry == nil {
		registry = codegen.NewRegistry()
	}
	return &Implementer{generator: generator, detector: detector, registry: registry}, nil
}

// Apply implements the task's requirements inside the workspace. It always
// returns an Outcome; per-file failures are recorded in it rather than
// returned as an error.
func (i *Implementer) Apply(ctx context.Context, ws Workspace, task codegen.TaskContext, reqs requirements.Set) Outcome {
	log := clog.FromContext(ctx).With("task", task.ID)

	counts, err := i.detector.DetectLanguages(ws.Dir())
	if err != nil {
		log.Warnf("detecting languages: %v", err)
	}
	outcome := Outcome{
		PrimaryLanguage: i.detector.PrimaryLanguage(counts),
		Frameworks:      i.detector.DetectFrameworks(ws.Dir()),
	}
	style := i.detector.AnalyzeStyle(ws.Dir(), outcome.PrimaryLanguage)

	for _, path := range reqs.Files {
		outcome.Changes = append(outcome.Changes, i.applyOne(ctx, ws, task, path, style, outcome))
	}

	if reqs.TestingRequired {
		for _, change := range outcome.Changes {
			outcome.Tests = append(outcome.Tests, i.testFor(ctx, ws, task, change, outcome))
		}
	}

	log.Infof("applied %d of %d changes", len(outcome.Succeeded()), len(outcome.Changes))
	return outcome
}

func (i *Implementer) applyOne(ctx context.Context, ws Workspace, task codegen.TaskContext, path string, style langdetect.StyleHints, outcome Outcome) FileChange {
	change := FileChange{
		Path:     path,
		Language: i.detector.LanguageForPath(path),
		Action:   ActionCreate,
	}
	if change.Language == "" {
		change.Language = outcome.PrimaryLanguage
	}

	var existing string
	if ws.FileExists(path) {
		change.Action = ActionModify
		content, err := ws.ReadFile(path)
		if err != nil {
			change.Status = StatusError
			change.Err = fmt.Errorf("reading %s: %w", path, err)
			return change
		}
		existing = string(content)
	}

	content, err := i.generator.GenerateImplementation(ctx, codegen.ImplementationRequest{
		Task:            task,
		Path:            path,
		Language:        change.Language,
		Action:          change.Action,
		ExistingContent: existing,
		Frameworks:      outcome.Frameworks,
		Style:           style,
	})
	if err != nil {
		change.Status = StatusError
		change.Err = fmt.Errorf("generating %s: %w", path, err)
		clog.FromContext(ctx).Warnf("generation failed for %s: %v", path, err)
		return change
	}
	if err := ws.WriteFile(path, []byte(content)); err != nil {
		change.Status = StatusError
		change.Err = err
		return change
	}
	change.Status = StatusSuccess
	return change
}

func (i *Implementer) testFor(ctx context.Context, ws Workspace, task codegen.TaskContext, change FileChange, outcome Outcome) TestArtifact {
	artifact := TestArtifact{SourcePath: change.Path, Status: TestSkipped}
	if change.Status != StatusSuccess || change.Language == "" {
		return artifact
	}
	strategy := i.registry.ForLanguage(change.Language)
	artifact.Path = strategy.TestPath(change.Path)

	source, err := ws.ReadFile(change.Path)
	if err != nil {
		artifact.Status = TestError
		artifact.Err = fmt.Errorf("reading %s: %w", change.Path, err)
		return artifact
	}
	framework := ""
	for _, f := range outcome.Frameworks {
		// Prefer a detected test framework over the strategy default.
		if f == "pytest" || f == "Jest" {
			framework = f
			break
		}
	}
	content, err := i.generator.GenerateTests(ctx, codegen.TestRequest{
		Task:          task,
		SourcePath:    change.Path,
		SourceContent: string(source),
		TestPath:      artifact.Path,
		Language:      change.Language,
		Framework:     framework,
	})
	if err != nil {
		artifact.Status = TestError
		artifact.Err = fmt.Errorf("generating tests for %s: %w", change.Path, err)
		return artifact
	}
	if err := ws.WriteFile(artifact.Path, []byte(content)); err != nil {
		artifact.Status = TestError
		artifact.Err = err
		return artifact
	}
	artifact.Status = TestGenerated
	return artifact
}
