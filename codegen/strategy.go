/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package codegen

import (
	"path"
	"strings"
)

// Strategy captures the per-language conventions generation depends on: where
// a test for a given source file belongs and which test framework to assume
// when the repository does not reveal one.
type Strategy interface {
	// TestPath returns the conventional test file path for a source file.
	TestPath(sourcePath string) string
	// DefaultTestFramework names the framework to target when detection
	// found none.
	DefaultTestFramework() string
	// PromptAdditions returns extra guidance appended to generation
	// prompts, or an empty string.
	PromptAdditions() string
}

// Registry resolves a Strategy for a language. Lookups normalize variant
// names, so "TypeScript (React)" resolves to the TypeScript strategy.
type Registry struct {
	strategies map[string]Strategy
	fallback   Strategy
}

// NewRegistry returns a Registry loaded with the built-in strategies.
func NewRegistry() *Registry {
	return &Registry{
		strategies: map[string]Strategy{
			"Python":     pythonStrategy{},
			"JavaScript": jsStrategy{},
			"TypeScript": jsStrategy{},
			"Java":       jvmStrategy{framework: "JUnit 5"},
			"Kotlin":     jvmStrategy{framework: "JUnit 5"},
			"C#":         csharpStrategy{},
			"Go":         goStrategy{},
		},
		fallback: genericStrategy{},
	}
}

// ForLanguage returns the strategy for the language, falling back to the
// generic strategy for unknown languages.
func (r *Registry) ForLanguage(language string) Strategy {
	base := language
	if i := strings.Index(base, " ("); i > 0 {
		base = base[:i]
	}
	if s, ok := r.strategies[base]; ok {
		return s
	}
	return r.fallback
}

type pythonStrategy struct{}

func (pythonStrategy) TestPath(sourcePath string) string {
	dir, file := path.Split(path.Clean(sourcePath))
	name := "test_" + file
	// Files under src/ or lib/ get their tests in a sibling tests/ tree.
	for _, prefix := range []string{"src/", "lib/"} {
		if strings.HasPrefix(sourcePath, prefix) {
			return path.Join("tests", name)
		}
	}
	return path.Join(dir, name)
}

func (pythonStrategy) DefaultTestFramework() string { return "pytest" }

func (pythonStrategy) PromptAdditions() string {
	return "Follow PEP 8. Include type hints and docstrings for public functions."
}

type jsStrategy struct{}

func (jsStrategy) TestPath(sourcePath string) string {
	dir, file := path.Split(path.Clean(sourcePath))
	ext := path.Ext(file)
	name := strings.TrimSuffix(file, ext) + ".test" + ext
	// Trees rooted at a src/ component keep their tests in
	// src/__tests__/, mirroring the remaining subpath.
	parts := strings.Split(path.Clean(dir), "/")
	for i, p := range parts {
		if p == "src" {
			joined := append([]string{}, parts[:i+1]...)
			joined = append(joined, "__tests__")
			joined = append(joined, parts[i+1:]...)
			return path.Join(append(joined, name)...)
		}
	}
	return path.Join(dir, name)
}

func (jsStrategy) DefaultTestFramework() string { return "Jest" }

func (jsStrategy) PromptAdditions() string {
	return "Use ES modules and modern syntax. Avoid the any type in TypeScript."
}

type jvmStrategy struct {
	framework string
}

func (s jvmStrategy) TestPath(sourcePath string) string {
	ext := path.Ext(sourcePath)
	base := strings.TrimSuffix(sourcePath, ext)
	base = strings.Replace(base, "src/main/", "src/test/", 1)
	return base + "Test" + ext
}

func (s jvmStrategy) DefaultTestFramework() string { return s.framework }

func (jvmStrategy) PromptAdditions() string { return "" }

type csharpStrategy struct{}

func (csharpStrategy) TestPath(sourcePath string) string {
	ext := path.Ext(sourcePath)
	return strings.TrimSuffix(sourcePath, ext) + "Tests" + ext
}

func (csharpStrategy) DefaultTestFramework() string { return "xUnit" }

func (csharpStrategy) PromptAdditions() string { return "" }

type goStrategy struct{}

func (goStrategy) TestPath(sourcePath string) string {
	return strings.TrimSuffix(sourcePath, ".go") + "_test.go"
}

func (goStrategy) DefaultTestFramework() string { return "go test" }

func (goStrategy) PromptAdditions() string {
	return "Return errors explicitly and accept context.Context on blocking calls."
}

type genericStrategy struct{}

func (genericStrategy) TestPath(sourcePath string) string {
	ext := path.Ext(sourcePath)
	return strings.TrimSuffix(sourcePath, ext) + "Test" + ext
}

func (genericStrategy) DefaultTestFramework() string { return "" }

func (genericStrategy) PromptAdditions() string { return "" }
