/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package testrunner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
)

// Statuses a test run can end in.
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusTimeout = "timeout"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// DefaultTimeout bounds a single test run.
const DefaultTimeout = 5 * time.Minute

// Result reports one test run.
type Result struct {
	Status   string
	Command  string
	Output   string
	Run      int
	Passed   int
	Failed   int
	Skipped  int
	Failures []string
}

// commands maps language then framework to the command template. "default"
// is the fallback within a language; {path} is replaced with the test path.
var commands = map[string]map[string]string{
	"JavaScript": {
		"Jest":    "npx jest {path} --no-cache",
		"Mocha":   "npx mocha {path}",
		"default": "npm test",
	},
	"TypeScript": {
		"Jest":    "npx jest {path} --no-cache",
		"Mocha":   "npx mocha -r ts-node/register {path}",
		"default": "npm test",
	},
	"Python": {
		"pytest":   "python -m pytest {path} -v",
		"unittest": "python -m unittest {path}",
		"default":  "python -m pytest {path}",
	},
	"Java": {
		"default": "./gradlew test",
	},
	"Kotlin": {
		"default": "./gradlew test",
	},
	"C#": {
		"default": "dotnet test {path}",
	},
	"Go": {
		"default": "go test ./...",
	},
	"Ruby": {
		"RSpec":   "bundle exec rspec {path}",
		"default": "bundle exec rake test",
	},
	"PHP": {
		"default": "./vendor/bin/phpunit",
	},
	"Rust": {
		"default": "cargo test",
	},
}

// testFilePatterns recognize test files per language.
var testFilePatterns = map[string][]*regexp.Regexp{
	"JavaScript": compileAll(`.*\.test\.js$`, `.*\.spec\.js$`, `__tests__/.*\.js$`),
	"TypeScript": compileAll(`.*\.test\.tsx?$`, `.*\.spec\.tsx?$`, `__tests__/.*\.tsx?$`),
	"Python":     compileAll(`test_.*\.py$`, `.*_test\.py$`, `tests/.*\.py$`),
	"Java":       compileAll(`.*Test\.java$`, `Test.*\.java$`),
	"Kotlin":     compileAll(`.*Test\.kt$`, `Test.*\.kt$`),
	"C#":         compileAll(`.*Tests?\.cs$`),
	"Go":         compileAll(`.*_test\.go$`),
	"Ruby":       compileAll(`.*_spec\.rb$`, `spec/.*\.rb$`),
	"PHP":        compileAll(`.*Test\.php$`),
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// IsTestFile reports whether the path looks like a test file for the
// language.
func IsTestFile(language, path string) bool {
	for _, p := range testFilePatterns[baseLanguage(language)] {
		if p.MatchString(path) {
			return true
		}
	}
	return false
}

func baseLanguage(language string) string {
	if i := strings.Index(language, " ("); i > 0 {
		return language[:i]
	}
	return language
}

// Runner executes test commands in a working directory.
type Runner struct {
	timeout time.Duration
}

// Option configures a Runner.
type Option func(*Runner) error

// WithTimeout bounds each test run.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", d)
		}
		r.timeout = d
		return nil
	}
}

// NewRunner returns a Runner with the default timeout unless overridden.
func NewRunner(opts ...Option) (*Runner, error) {
	r := &Runner{timeout: DefaultTimeout}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Run executes the tests for a language in dir. An unknown language is
// reported as skipped rather than failed.
func (r *Runner) Run(ctx context.Context, dir, language, framework, testPath string) Result {
	log := clog.FromContext(ctx)
	base := baseLanguage(language)
	templates, ok := commands[base]
	if !ok {
		log.Infof("no test command for %s, skipping", language)
		return Result{Status: StatusSkipped}
	}
	template, ok := templates[framework]
	if !ok {
		template = templates["default"]
	}
	command := strings.ReplaceAll(template, "{path}", testPath)
	command = strings.Join(strings.Fields(command), " ")

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := strings.Fields(command)
	cmd := exec.CommandContext(runCtx, args[0], args[1:]...)
	cmd.Dir = dir
	log.Infof("running tests: %s", command)
	output, err := cmd.CombinedOutput()

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return Result{Status: StatusTimeout, Command: command, Output: string(output)}
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		// The command could not run at all, e.g. the tool is missing.
		return Result{Status: StatusError, Command: command, Output: err.Error()}
	}

	result := parseOutput(base, framework, string(output), err == nil)
	result.Command = command
	return result
}
