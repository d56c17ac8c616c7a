/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package langdetect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
}

func TestDetectLanguages(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/app.py":                 "print('hi')\n",
		"src/util.py":                "x = 1\n",
		"web/index.ts":               "const x = 1;\n",
		"web/App.tsx":                "export default null;\n",
		"node_modules/dep/index.js":  "ignored\n",
		".git/hooks/pre-commit":      "ignored\n",
		"README.md":                  "docs\n",
	})

	d := New()
	counts, err := d.DetectLanguages(root)
	if err != nil {
		t.Fatalf("DetectLanguages: %v", err)
	}
	want := map[string]int{
		"Python":             2,
		"TypeScript":         1,
		"TypeScript (React)": 1,
	}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("DetectLanguages (-want +got):\n%s", diff)
	}
	if got := d.PrimaryLanguage(counts); got != "Python" {
		t.Errorf("PrimaryLanguage = %q, want Python", got)
	}
}

func TestPrimaryLanguageTieBreak(t *testing.T) {
	d := New()
	got := d.PrimaryLanguage(map[string]int{"Go": 3, "C#": 3})
	if got != "C#" {
		t.Errorf("PrimaryLanguage = %q, want C# (alphabetical tie break)", got)
	}
	if got := d.PrimaryLanguage(nil); got != "" {
		t.Errorf("PrimaryLanguage(nil) = %q, want empty", got)
	}
}

func TestLanguageForPath(t *testing.T) {
	d := New()
	tests := []struct {
		path string
		want string
	}{
		{"src/main.py", "Python"},
		{"src/App.TSX", "TypeScript (React)"},
		{"pkg/server.go", "Go"},
		{"Makefile", ""},
	}
	for _, tc := range tests {
		if got := d.LanguageForPath(tc.path); got != tc.want {
			t.Errorf("LanguageForPath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestDetectFrameworks(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"manage.py":        "#!/usr/bin/env python\n",
		"requirements.txt": "Django==5.0\npytest==8.0\n",
		"package.json":     `{"dependencies": {"react": "^18.0.0"}, "devDependencies": {"jest": "^29.0.0"}}`,
	})

	d := New()
	got := d.DetectFrameworks(root)
	want := []string{"Django", "pytest", "React", "Jest"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DetectFrameworks (-want +got):\n%s", diff)
	}
}

func TestAnalyzeStyle(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/service.py": "def fetch_user(id):\n    name = 'ada'\n    return name\n\n\ndef save_user(u):\n    key = 'users'\n    return key\n",
	})

	d := New()
	hints := d.AnalyzeStyle(root, "Python")
	if hints.Indentation != "spaces" || hints.IndentSize != 4 {
		t.Errorf("indentation = %s/%d, want spaces/4", hints.Indentation, hints.IndentSize)
	}
	if hints.FunctionNaming != "snake_case" {
		t.Errorf("FunctionNaming = %q, want snake_case", hints.FunctionNaming)
	}
	if hints.StringQuotes != "single" {
		t.Errorf("StringQuotes = %q, want single", hints.StringQuotes)
	}
	if hints.Semicolons {
		t.Error("Semicolons = true, want false")
	}
}

func TestAnalyzeStyleEmptyFallsBackToDefaults(t *testing.T) {
	d := New()
	hints := d.AnalyzeStyle(t.TempDir(), "Python")
	if hints.IndentSize != 4 || hints.FunctionNaming != "snake_case" {
		t.Errorf("unexpected defaults: %+v", hints)
	}
}
