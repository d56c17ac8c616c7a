/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package pipeline

import (
	"fmt"

	"github.com/mspranav/azuredevops-swe-agent/pipeline/prcomposer"
)

type options struct {
	targetBranch string
	reviewers    []string
	runner       TestExecutor
	extensions   []prcomposer.Extension
}

// Option configures a Pipeline.
type Option func(*options) error

// WithTargetBranch sets the branch pull requests merge into. The default is
// main.
func WithTargetBranch(branch string) Option {
	return func(o *options) error {
		if branch == "" {
			return fmt.Errorf("target branch must not be empty")
		}
		o.targetBranch = branch
		return nil
	}
}

// WithReviewers sets the reviewers added to every pull request.
func WithReviewers(reviewers ...string) Option {
	return func(o *options) error {
		o.reviewers = reviewers
		return nil
	}
}

// WithTestRunner enables test execution after changes are applied. Without
// it tests are generated but never run.
func WithTestRunner(runner TestExecutor) Option {
	return func(o *options) error {
		if runner == nil {
			return fmt.Errorf("test runner must not be nil")
		}
		o.runner = runner
		return nil
	}
}

// WithExtensions appends extra sections to every pull request description.
func WithExtensions(extensions ...prcomposer.Extension) Option {
	return func(o *options) error {
		o.extensions = extensions
		return nil
	}
}

func buildOptions(opts []Option) (*options, error) {
	o := &options{targetBranch: "main"}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}
