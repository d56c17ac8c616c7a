/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package prcomposer

import (
	"fmt"
	"strings"

	"github.com/mspranav/azuredevops-swe-agent/pipeline/implementer"
)

const (
	maxTitleLength = 255
	maxSummary     = 500
)

// Input is everything composition needs about a finished task.
type Input struct {
	TaskID      string
	TaskTitle   string
	Description string
	Changes     []implementer.FileChange
	Tests       []implementer.TestArtifact
	// TestsRun and TestsPassed are execution counts from the test runner.
	// Both zero means tests were not executed.
	TestsRun    int
	TestsPassed int
}

// Extension appends an optional section to a composed description.
type Extension func(description string) string

// Title renders "[Task #{id}] {title} (AI Agent)", hard-truncated to 255
// characters with the last three replaced by an ellipsis marker.
func Title(taskID, taskTitle string) string {
	if taskTitle == "" {
		taskTitle = "Implement task"
	}
	title := fmt.Sprintf("[Task #%s] %s (AI Agent)", taskID, taskTitle)
	runes := []rune(title)
	if len(runes) > maxTitleLength {
		title = string(runes[:maxTitleLength-3]) + "..."
	}
	return title
}

// Compose renders the pull request description with its fixed section order,
// then applies the extensions in the order given.
func Compose(in Input, extensions ...Extension) string {
	description := fmt.Sprintf(`
## Summary
%s

## Implemented Changes
%s

## Testing
%s

## Task Reference
This PR addresses Azure DevOps Task #%s

_This pull request was created by an AI Agent_
`, summary(in.Description), changesSection(in.Changes), testingSection(in), in.TaskID)

	for _, extend := range extensions {
		description = extend(description)
	}
	return description
}

func summary(description string) string {
	if description == "" {
		return "No description provided"
	}
	runes := []rune(description)
	if len(runes) > maxSummary {
		return string(runes[:maxSummary-3]) + "..."
	}
	return description
}

func changesSection(changes []implementer.FileChange) string {
	var lines []string
	for _, c := range changes {
		if c.Status != implementer.StatusSuccess {
			continue
		}
		lines = append(lines, fmt.Sprintf("- **%s** `%s` (%s)", capitalize(c.Action), c.Path, c.Language))
	}
	if len(lines) == 0 {
		return "- No changes implemented"
	}
	return strings.Join(lines, "\n")
}

func testingSection(in Input) string {
	var files []string
	for _, t := range in.Tests {
		if t.Status == implementer.TestGenerated {
			files = append(files, t.Path)
		}
	}
	if len(files) == 0 {
		return "- No tests were created or run"
	}
	lines := []string{fmt.Sprintf("- Created/updated %d test files", len(files))}
	for _, f := range files {
		lines = append(lines, fmt.Sprintf("  - `%s`", f))
	}
	if in.TestsRun > 0 {
		lines = append(lines, fmt.Sprintf("- Ran %d tests, %d passed", in.TestsRun, in.TestsPassed))
	}
	return strings.Join(lines, "\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
