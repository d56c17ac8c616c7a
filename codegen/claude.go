/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package codegen

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/chainguard-dev/clog"
)

type claudeGenerator struct {
	client anthropic.Client
	model  anthropic.Model
	opts   *options
}

func newClaudeGenerator(model, apiKey string, opts ...Option) (*claudeGenerator, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	return &claudeGenerator{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.Model(model),
		opts:   o,
	}, nil
}

func (g *claudeGenerator) GenerateImplementation(ctx context.Context, req ImplementationRequest) (string, error) {
	prompt := buildImplementationPrompt(req, g.opts.registry.ForLanguage(req.Language))
	clog.FromContext(ctx).With("file", req.Path).Infof("generating implementation with %s", g.model)
	return g.complete(ctx, prompt)
}

func (g *claudeGenerator) GenerateTests(ctx context.Context, req TestRequest) (string, error) {
	prompt := buildTestPrompt(req, g.opts.registry.ForLanguage(req.Language))
	clog.FromContext(ctx).With("file", req.TestPath).Infof("generating tests with %s", g.model)
	return g.complete(ctx, prompt)
}

func (g *claudeGenerator) complete(ctx context.Context, prompt string) (string, error) {
	message, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: g.opts.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic message: %w", err)
	}
	var out string
	for _, block := range message.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	if out == "" {
		return "", fmt.Errorf("anthropic returned no text content")
	}
	return stripFences(out), nil
}
