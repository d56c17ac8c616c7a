/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package codegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/mspranav/azuredevops-swe-agent/langdetect"
)

// TaskContext carries the task fields that generation prompts quote.
type TaskContext struct {
	ID                 string
	Title              string
	Description        string
	AcceptanceCriteria string
}

// ImplementationRequest asks for the content of one source file.
type ImplementationRequest struct {
	Task            TaskContext
	Path            string
	Language        string
	Action          string // "create" or "modify"
	ExistingContent string
	Frameworks      []string
	Style           langdetect.StyleHints
}

// TestRequest asks for a test file covering freshly generated source.
type TestRequest struct {
	Task          TaskContext
	SourcePath    string
	SourceContent string
	TestPath      string
	Language      string
	Framework     string
}

// Generator produces file contents from a request. Implementations wrap a
// single model provider.
type Generator interface {
	GenerateImplementation(ctx context.Context, req ImplementationRequest) (string, error)
	GenerateTests(ctx context.Context, req TestRequest) (string, error)
}

// New returns a Generator for the named model, routing by model family.
func New(model, apiKey string, opts ...Option) (Generator, error) {
	if model == "" {
		return nil, fmt.Errorf("model must not be empty")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("api key must not be empty")
	}
	switch {
	case strings.HasPrefix(model, "claude-"):
		return newClaudeGenerator(model, apiKey, opts...)
	case strings.HasPrefix(model, "gpt-"), strings.HasPrefix(model, "o1-"), strings.HasPrefix(model, "o3-"):
		return newOpenAIGenerator(model, apiKey, opts...)
	default:
		return nil, fmt.Errorf("unsupported model %q", model)
	}
}

type options struct {
	maxTokens int64
	registry  *Registry
}

// Option configures a Generator.
type Option func(*options) error

// WithMaxTokens bounds the response size of each generation call.
func WithMaxTokens(n int64) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", n)
		}
		o.maxTokens = n
		return nil
	}
}

// WithRegistry overrides the strategy registry used for prompt additions.
func WithRegistry(r *Registry) Option {
	return func(o *options) error {
		if r == nil {
			return fmt.Errorf("registry must not be nil")
		}
		o.registry = r
		return nil
	}
}

func buildOptions(opts []Option) (*options, error) {
	o := &options{
		maxTokens: 8192,
		registry:  NewRegistry(),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// stripFences removes a surrounding markdown code fence, which models add
// even when told not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
