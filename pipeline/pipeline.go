/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"

	"github.com/mspranav/azuredevops-swe-agent/azuredevops"
	"github.com/mspranav/azuredevops-swe-agent/codegen"
	"github.com/mspranav/azuredevops-swe-agent/pipeline/implementer"
	"github.com/mspranav/azuredevops-swe-agent/pipeline/prcomposer"
	"github.com/mspranav/azuredevops-swe-agent/pipeline/requirements"
	"github.com/mspranav/azuredevops-swe-agent/testrunner"
	"github.com/mspranav/azuredevops-swe-agent/workspace"
)

// Terminal statuses of a processed task.
const (
	StatusCompleted     = "completed"
	StatusClarification = "clarification_requested"
	StatusError         = "error"
)

// WorkItemGateway is the Azure DevOps surface the pipeline needs.
type WorkItemGateway interface {
	FetchTask(ctx context.Context, taskID string) (*azuredevops.TaskDetails, error)
	AddComment(ctx context.Context, taskID, text string) error
	CreatePullRequest(ctx context.Context, req azuredevops.PullRequestRequest) (*azuredevops.PullRequestCreated, error)
}

// Workspace is a checked-out repository the pipeline can change, commit and
// push.
type Workspace interface {
	implementer.Workspace
	Branch() string
	BaseBranch() string
	CommitAll(ctx context.Context, message string) (string, error)
	Push(ctx context.Context) error
	Release() error
}

// WorkspaceManager acquires a Workspace for a task.
type WorkspaceManager interface {
	Acquire(ctx context.Context, taskID, cloneURL string) (Workspace, error)
}

// NewWorkspaceManager adapts a git workspace manager to the pipeline's
// interface.
func NewWorkspaceManager(m *workspace.Manager) WorkspaceManager {
	return gitWorkspaceManager{m: m}
}

type gitWorkspaceManager struct {
	m *workspace.Manager
}

func (g gitWorkspaceManager) Acquire(ctx context.Context, taskID, cloneURL string) (Workspace, error) {
	ws, err := g.m.Acquire(ctx, taskID, cloneURL)
	if err != nil {
		return nil, err
	}
	return ws, nil
}

// ChangeApplier applies a task's requirements inside a workspace.
type ChangeApplier interface {
	Apply(ctx context.Context, ws implementer.Workspace, task codegen.TaskContext, reqs requirements.Set) implementer.Outcome
}

// TestExecutor runs a repository's tests.
type TestExecutor interface {
	Run(ctx context.Context, dir, language, framework, testPath string) testrunner.Result
}

// Result is the terminal outcome of processing one task.
type Result struct {
	Status         string
	TaskID         string
	Message        string
	Missing        []string
	Requirements   requirements.Set
	Implementation implementer.Outcome
	CommitID       string
	NoChanges      bool
	PullRequest    *prcomposer.Outcome
	TestResult     *testrunner.Result
	Elapsed        time.Duration
}

// Pipeline wires the stages together.
type Pipeline struct {
	gateway    WorkItemGateway
	workspaces WorkspaceManager
	applier    ChangeApplier
	opts       *options
}

// New returns a Pipeline. The gateway, workspace manager and applier are all
// required.
func New(gateway WorkItemGateway, workspaces WorkspaceManager, applier ChangeApplier, opts ...Option) (*Pipeline, error) {
	if gateway == nil {
		return nil, fmt.Errorf("work item gateway must not be nil")
	}
	if workspaces == nil {
		return nil, fmt.Errorf("workspace manager must not be nil")
	}
	if applier == nil {
		return nil, fmt.Errorf("change applier must not be nil")
	}
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Pipeline{gateway: gateway, workspaces: workspaces, applier: applier, opts: o}, nil
}

// ProcessTask runs the whole pipeline for one task. It never panics; a panic
// in any stage is returned as an error result.
func (p *Pipeline) ProcessTask(ctx context.Context, taskID string) (result Result) {
	start := time.Now()
	ctx = clog.WithLogger(ctx, clog.FromContext(ctx).With("task", taskID))

	defer func() {
		if r := recover(); r != nil {
			clog.FromContext(ctx).Errorf("panic while processing task: %v", r)
			result = Result{
				Status:  StatusError,
				TaskID:  taskID,
				Message: fmt.Sprintf("internal error: %v", r),
			}
		}
		result.Elapsed = time.Since(start)
		tasksProcessed.WithLabelValues(result.Status).Inc()
		taskDuration.Observe(result.Elapsed.Seconds())
	}()

	log := clog.FromContext(ctx)
	log.Infof("processing task")

	details, err := p.gateway.FetchTask(ctx, taskID)
	if err != nil {
		return p.errorResult(taskID, fmt.Errorf("fetching task: %w", err))
	}

	reqs, missing := requirements.Analyze(details)
	if len(missing) > 0 {
		log.Infof("requesting clarification, %d items missing", len(missing))
		if err := p.gateway.AddComment(ctx, taskID, clarificationComment(missing)); err != nil {
			log.Warnf("posting clarification comment: %v", err)
		}
		return Result{
			Status:       StatusClarification,
			TaskID:       taskID,
			Message:      "Task requires clarification before implementation can start",
			Missing:      missing,
			Requirements: reqs,
		}
	}

	cloneURL := details.Repository.CloneURL()
	if cloneURL == "" {
		return p.errorResult(taskID, fmt.Errorf("repository %q has no clone URL", details.Repository.ResolveID()))
	}

	ws, err := p.workspaces.Acquire(ctx, taskID, cloneURL)
	if err != nil {
		return p.errorResult(taskID, fmt.Errorf("acquiring workspace: %w", err))
	}
	defer func() {
		if err := ws.Release(); err != nil {
			log.Warnf("releasing workspace: %v", err)
		}
	}()

	task := codegen.TaskContext{
		ID:                 details.ID,
		Title:              details.Title,
		Description:        details.Description,
		AcceptanceCriteria: details.AcceptanceCriteria,
	}
	outcome := p.applier.Apply(ctx, ws, task, reqs)

	var testResult *testrunner.Result
	if p.opts.runner != nil && reqs.TestingRequired && len(outcome.GeneratedTests()) > 0 {
		first := outcome.GeneratedTests()[0]
		framework := ""
		if len(outcome.Frameworks) > 0 {
			framework = outcome.Frameworks[0]
		}
		r := p.opts.runner.Run(ctx, ws.Dir(), outcome.PrimaryLanguage, framework, first.Path)
		testResult = &r
	}

	message := fmt.Sprintf("Implement task #%s\n\nImplemented by Azure DevOps AI Agent", taskID)
	commitID, err := ws.CommitAll(ctx, message)
	if errors.Is(err, workspace.ErrNoChanges) {
		log.Infof("no changes produced, skipping push and pull request")
		return Result{
			Status:         StatusCompleted,
			TaskID:         taskID,
			Message:        "No changes were produced for this task",
			Requirements:   reqs,
			Implementation: outcome,
			NoChanges:      true,
			TestResult:     testResult,
		}
	}
	if err != nil {
		return p.errorResult(taskID, fmt.Errorf("committing changes: %w", err))
	}

	in := prcomposer.Input{
		TaskID:      taskID,
		TaskTitle:   details.Title,
		Description: details.Description,
		Changes:     outcome.Changes,
		Tests:       outcome.Tests,
	}
	if testResult != nil {
		in.TestsRun = testResult.Run
		in.TestsPassed = testResult.Passed
	}
	submission := prcomposer.Submit(ctx, ws, p.gateway, prcomposer.Request{
		TaskID:       taskID,
		RepositoryID: details.Repository.ResolveID(),
		SourceBranch: ws.Branch(),
		TargetBranch: p.opts.targetBranch,
		Title:        prcomposer.Title(taskID, details.Title),
		Description:  prcomposer.Compose(in, p.opts.extensions...),
		Reviewers:    p.opts.reviewers,
	})
	if submission.Status != "success" {
		return p.errorResult(taskID, submission.Err)
	}

	log.Infof("task completed, pull request #%d", submission.ID)
	return Result{
		Status:         StatusCompleted,
		TaskID:         taskID,
		Message:        fmt.Sprintf("Pull request #%d created", submission.ID),
		Requirements:   reqs,
		Implementation: outcome,
		CommitID:       commitID,
		PullRequest:    &submission,
		TestResult:     testResult,
	}
}

// clarificationComment builds the single comment posted back on the work
// item listing everything the task author still needs to provide.
func clarificationComment(missing []string) string {
	var b strings.Builder
	b.WriteString("I need some clarification before I can implement this task:\n\n")
	for _, item := range missing {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	b.WriteString("\nPlease provide this information so I can complete the task.")
	return b.String()
}

func (p *Pipeline) errorResult(taskID string, err error) Result {
	return Result{
		Status:  StatusError,
		TaskID:  taskID,
		Message: err.Error(),
	}
}
