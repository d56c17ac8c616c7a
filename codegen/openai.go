/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package codegen

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type openAIGenerator struct {
	client openai.Client
	model  string
	opts   *options
}

func newOpenAIGenerator(model, apiKey string, opts ...Option) (*openAIGenerator, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	return &openAIGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		opts:   o,
	}, nil
}

func (g *openAIGenerator) GenerateImplementation(ctx context.Context, req ImplementationRequest) (string, error) {
	prompt := buildImplementationPrompt(req, g.opts.registry.ForLanguage(req.Language))
	clog.FromContext(ctx).With("file", req.Path).Infof("generating implementation with %s", g.model)
	return g.complete(ctx, prompt)
}

func (g *openAIGenerator) GenerateTests(ctx context.Context, req TestRequest) (string, error) {
	prompt := buildTestPrompt(req, g.opts.registry.ForLanguage(req.Language))
	clog.FromContext(ctx).With("file", req.TestPath).Infof("generating tests with %s", g.model)
	return g.complete(ctx, prompt)
}

func (g *openAIGenerator) complete(ctx context.Context, prompt string) (string, error) {
	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens: openai.Int(g.opts.maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai returned no content")
	}
	return stripFences(completion.Choices[0].Message.Content), nil
}
