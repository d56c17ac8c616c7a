/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package codegen

import (
	"fmt"
	"strings"
)

func buildImplementationPrompt(req ImplementationRequest, strategy Strategy) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are implementing a change for task #%s: %s\n\n", req.Task.ID, req.Task.Title)
	fmt.Fprintf(&b, "Task description:\n%s\n\n", req.Task.Description)
	if req.Task.AcceptanceCriteria != "" {
		fmt.Fprintf(&b, "Acceptance criteria:\n%s\n\n", req.Task.AcceptanceCriteria)
	}
	fmt.Fprintf(&b, "Target file: %s\n", req.Path)
	fmt.Fprintf(&b, "Language: %s\n", req.Language)
	if len(req.Frameworks) > 0 {
		fmt.Fprintf(&b, "Frameworks in use: %s\n", strings.Join(req.Frameworks, ", "))
	}
	b.WriteString("\n")

	if req.Action == "modify" {
		fmt.Fprintf(&b, "The file already exists. Current content:\n```\n%s\n```\n\n", req.ExistingContent)
		b.WriteString("Produce the complete updated file content with the task's change applied. Preserve all unrelated code.\n")
	} else {
		b.WriteString("The file does not exist yet. Produce its complete content.\n")
	}

	b.WriteString("\nMatch the repository's existing style:\n")
	fmt.Fprintf(&b, "- Indentation: %s", req.Style.Indentation)
	if req.Style.Indentation == "spaces" {
		fmt.Fprintf(&b, " (%d per level)", req.Style.IndentSize)
	}
	b.WriteString("\n")
	if req.Style.FunctionNaming != "" {
		fmt.Fprintf(&b, "- Function naming: %s\n", req.Style.FunctionNaming)
	}
	if req.Style.StringQuotes != "" {
		fmt.Fprintf(&b, "- String quotes: %s\n", req.Style.StringQuotes)
	}
	if additions := strategy.PromptAdditions(); additions != "" {
		fmt.Fprintf(&b, "\n%s\n", additions)
	}

	b.WriteString("\nRespond with only the file content. No explanation, no markdown fences.\n")
	return b.String()
}

func buildTestPrompt(req TestRequest, strategy Strategy) string {
	framework := req.Framework
	if framework == "" {
		framework = strategy.DefaultTestFramework()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Write tests for the change made in task #%s: %s\n\n", req.Task.ID, req.Task.Title)
	fmt.Fprintf(&b, "Source file %s:\n```\n%s\n```\n\n", req.SourcePath, req.SourceContent)
	fmt.Fprintf(&b, "The tests will live at %s.\n", req.TestPath)
	fmt.Fprintf(&b, "Language: %s\n", req.Language)
	if framework != "" {
		fmt.Fprintf(&b, "Test framework: %s\n", framework)
	}
	b.WriteString("\nCover the main behavior and at least one edge case.\n")
	b.WriteString("Respond with only the test file content. No explanation, no markdown fences.\n")
	return b.String()
}
