/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package testrunner

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	jestSummary   = regexp.MustCompile(`Tests:\s+(\d+)\s+failed,\s+(\d+)\s+passed,\s+(\d+)\s+total`)
	jestAllPassed = regexp.MustCompile(`Tests:\s+(\d+)\s+passed,\s+(\d+)\s+total`)
	jestFailure   = regexp.MustCompile(`● (.*)\n`)
	pytestSummary = regexp.MustCompile(`(\d+) passed(?:,\s*(\d+) failed)?(?:,\s*(\d+) skipped)?`)
	pytestFailed  = regexp.MustCompile(`(\d+) failed`)
	gradleSummary = regexp.MustCompile(`(\d+) tests? completed, (\d+) failed`)
	dotnetSummary = regexp.MustCompile(`Total tests: (\d+)\. Passed: (\d+)\. Failed: (\d+)\. Skipped: (\d+)`)
	goFailLine    = regexp.MustCompile(`(?m)^--- FAIL: (\S+)`)
	goPassLine    = regexp.MustCompile(`(?m)^--- PASS: (\S+)`)
)

// parseOutput extracts counts from test tool output. Tools whose output is
// not recognized still get a correct pass/fail status from the exit code.
func parseOutput(language, framework, output string, succeeded bool) Result {
	result := Result{
		Status: StatusFailed,
		Output: output,
	}
	if succeeded {
		result.Status = StatusPassed
	}

	switch {
	case (language == "JavaScript" || language == "TypeScript") && framework == "Jest":
		if m := jestSummary.FindStringSubmatch(output); m != nil {
			result.Failed = atoi(m[1])
			result.Passed = atoi(m[2])
			result.Run = atoi(m[3])
		} else if m := jestAllPassed.FindStringSubmatch(output); m != nil {
			result.Passed = atoi(m[1])
			result.Run = atoi(m[2])
		}
		for _, m := range jestFailure.FindAllStringSubmatch(output, -1) {
			result.Failures = append(result.Failures, strings.TrimSpace(m[1]))
		}

	case language == "Python":
		if m := pytestSummary.FindStringSubmatch(output); m != nil {
			result.Passed = atoi(m[1])
			result.Failed = atoi(m[2])
			result.Skipped = atoi(m[3])
			result.Run = result.Passed + result.Failed + result.Skipped
		} else if m := pytestFailed.FindStringSubmatch(output); m != nil {
			result.Failed = atoi(m[1])
			result.Run = result.Failed
		}
		for _, line := range strings.Split(output, "\n") {
			if strings.HasPrefix(line, "FAILED ") {
				result.Failures = append(result.Failures, strings.TrimPrefix(line, "FAILED "))
			}
		}

	case language == "Java" || language == "Kotlin":
		if m := gradleSummary.FindStringSubmatch(output); m != nil {
			result.Run = atoi(m[1])
			result.Failed = atoi(m[2])
			result.Passed = result.Run - result.Failed
		}

	case language == "C#":
		if m := dotnetSummary.FindStringSubmatch(output); m != nil {
			result.Run = atoi(m[1])
			result.Passed = atoi(m[2])
			result.Failed = atoi(m[3])
			result.Skipped = atoi(m[4])
		}

	case language == "Go":
		result.Passed = len(goPassLine.FindAllString(output, -1))
		for _, m := range goFailLine.FindAllStringSubmatch(output, -1) {
			result.Failures = append(result.Failures, m[1])
		}
		result.Failed = len(result.Failures)
		result.Run = result.Passed + result.Failed
	}
	return result
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
