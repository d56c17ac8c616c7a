/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package requirements

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mspranav/azuredevops-swe-agent/azuredevops"
)

// Set is the analyzed form of a task.
type Set struct {
	// Files are the candidate file paths the task mentions, deduplicated
	// and sorted.
	Files []string
	// TestingRequired reports whether the task asks for tests.
	TestingRequired bool
	// Summary is the task description bounded to summaryLimit characters.
	Summary string
}

const (
	summaryLimit        = 500
	minDescriptionChars = 50
)

// The three clarification messages posted back to a work item.
const (
	MissingRepository  = "Repository information is missing. Please specify which repository should be modified."
	MissingDescription = "Task description is too brief. Please provide more details about what needs to be implemented."
	MissingCriteria    = "Acceptance criteria are missing. Please specify how to verify that the task is completed correctly."
)

// filePatterns match file paths in task prose. The first catches paths
// introduced by a verb like "modify" or "create", optionally backtick-quoted;
// the second catches bare paths with a short alphabetic extension.
var filePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:in|modify|update|create|the file|file)[:\s]+` + "`?" + `([a-zA-Z0-9_\-./\\]+\.[a-zA-Z0-9]+)` + "`?"),
	regexp.MustCompile(`([a-zA-Z0-9_\-./\\]+\.[a-zA-Z]{1,5})\b`),
}

// Analyze extracts requirements from the task and reports any missing
// information. A non-empty missing slice means the task needs clarification
// before implementation can start.
func Analyze(details *azuredevops.TaskDetails) (Set, []string) {
	text := details.Description + "\n" + details.AcceptanceCriteria

	seen := map[string]bool{}
	var files []string
	for _, pattern := range filePatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			if path := m[1]; !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
		}
	}
	sort.Strings(files)

	set := Set{
		Files:           files,
		TestingRequired: strings.Contains(strings.ToLower(text), "test"),
		Summary:         summarize(details.Description),
	}

	var missing []string
	if details.Repository == nil {
		missing = append(missing, MissingRepository)
	}
	if utf8.RuneCountInString(details.Description) < minDescriptionChars {
		missing = append(missing, MissingDescription)
	}
	if details.AcceptanceCriteria == "" {
		missing = append(missing, MissingCriteria)
	}
	return set, missing
}

// summarize bounds a description to summaryLimit characters, replacing the
// tail with an ellipsis marker when it is cut.
func summarize(description string) string {
	runes := []rune(description)
	if len(runes) <= summaryLimit {
		return description
	}
	return string(runes[:summaryLimit-3]) + "..."
}
