/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package testrunner

import (
	"context"
	"testing"
	"time"
)

func TestIsTestFile(t *testing.T) {
	tests := []struct {
		language string
		path     string
		want     bool
	}{
		{"Python", "tests/test_client.py", true},
		{"Python", "src/client.py", false},
		{"JavaScript", "src/__tests__/Button.test.js", true},
		{"TypeScript (React)", "src/__tests__/App.test.tsx", true},
		{"Java", "src/test/java/com/acme/BillingTest.java", true},
		{"Go", "pkg/server_test.go", true},
		{"Go", "pkg/server.go", false},
		{"COBOL", "whatever.cbl", false},
	}
	for _, tc := range tests {
		if got := IsTestFile(tc.language, tc.path); got != tc.want {
			t.Errorf("IsTestFile(%s, %s) = %t, want %t", tc.language, tc.path, got, tc.want)
		}
	}
}

func TestRunSkipsUnknownLanguage(t *testing.T) {
	r, err := NewRunner()
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	result := r.Run(context.Background(), t.TempDir(), "COBOL", "", "")
	if result.Status != StatusSkipped {
		t.Errorf("Status = %q, want skipped", result.Status)
	}
}

func TestRunReportsTimeout(t *testing.T) {
	r, err := NewRunner(WithTimeout(50 * time.Millisecond))
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	commands["Sleepy"] = map[string]string{"default": "sleep 5"}
	defer delete(commands, "Sleepy")

	result := r.Run(context.Background(), t.TempDir(), "Sleepy", "", "")
	if result.Status != StatusTimeout {
		t.Errorf("Status = %q, want timeout", result.Status)
	}
}

func TestRunReportsMissingTool(t *testing.T) {
	r, err := NewRunner()
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	commands["Ghost"] = map[string]string{"default": "definitely-not-a-real-tool"}
	defer delete(commands, "Ghost")

	result := r.Run(context.Background(), t.TempDir(), "Ghost", "", "")
	if result.Status != StatusError {
		t.Errorf("Status = %q, want error", result.Status)
	}
}

func TestWithTimeoutValidation(t *testing.T) {
	if _, err := NewRunner(WithTimeout(0)); err == nil {
		t.Error("WithTimeout(0) should fail")
	}
}

func TestParsePytestOutput(t *testing.T) {
	output := "collected 5 items\n\ntests/test_client.py ....F\n\nFAILED tests/test_client.py::test_retry - AssertionError\n\n4 passed, 1 failed, 0 skipped\n"
	result := parseOutput("Python", "pytest", output, false)
	if result.Status != StatusFailed {
		t.Errorf("Status = %q, want failed", result.Status)
	}
	if result.Run != 5 || result.Passed != 4 || result.Failed != 1 {
		t.Errorf("counts = %d/%d/%d, want 5 run, 4 passed, 1 failed", result.Run, result.Passed, result.Failed)
	}
	if len(result.Failures) != 1 || result.Failures[0] != "tests/test_client.py::test_retry - AssertionError" {
		t.Errorf("Failures = %v", result.Failures)
	}
}

func TestParseJestOutput(t *testing.T) {
	output := "● Button › renders\n\nTests:       1 failed, 7 passed, 8 total\n"
	result := parseOutput("TypeScript", "Jest", output, false)
	if result.Run != 8 || result.Passed != 7 || result.Failed != 1 {
		t.Errorf("counts = %d/%d/%d, want 8/7/1", result.Run, result.Passed, result.Failed)
	}
	if len(result.Failures) != 1 {
		t.Errorf("Failures = %v, want one entry", result.Failures)
	}
}

func TestParseJestAllPassing(t *testing.T) {
	output := "Tests:       8 passed, 8 total\n"
	result := parseOutput("JavaScript", "Jest", output, true)
	if result.Status != StatusPassed || result.Run != 8 || result.Passed != 8 {
		t.Errorf("result = %+v, want 8 of 8 passed", result)
	}
}

func TestParseGradleOutput(t *testing.T) {
	output := "12 tests completed, 2 failed\n"
	result := parseOutput("Java", "JUnit 5", output, false)
	if result.Run != 12 || result.Failed != 2 || result.Passed != 10 {
		t.Errorf("counts = %d/%d/%d, want 12 run, 10 passed, 2 failed", result.Run, result.Passed, result.Failed)
	}
}

func TestParseDotnetOutput(t *testing.T) {
	output := "Total tests: 20. Passed: 18. Failed: 1. Skipped: 1.\n"
	result := parseOutput("C#", "", output, false)
	if result.Run != 20 || result.Passed != 18 || result.Failed != 1 || result.Skipped != 1 {
		t.Errorf("result = %+v", result)
	}
}

func TestParseGoOutput(t *testing.T) {
	output := "--- PASS: TestA (0.00s)\n--- PASS: TestB (0.01s)\n--- FAIL: TestC (0.02s)\nFAIL\n"
	result := parseOutput("Go", "", output, false)
	if result.Run != 3 || result.Passed != 2 || result.Failed != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/2/1", result.Run, result.Passed, result.Failed)
	}
	if len(result.Failures) != 1 || result.Failures[0] != "TestC" {
		t.Errorf("Failures = %v, want [TestC]", result.Failures)
	}
}

func TestParseUnrecognizedOutputKeepsExitStatus(t *testing.T) {
	result := parseOutput("Ruby", "", "something unusual\n", true)
	if result.Status != StatusPassed || result.Run != 0 {
		t.Errorf("result = %+v, want passed with zero counts", result)
	}
}
