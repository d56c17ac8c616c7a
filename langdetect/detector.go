/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package langdetect

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Detector maps file extensions to languages and marker files to frameworks.
// Construct one with New and share it; its tables are never mutated after
// construction.
type Detector struct {
	extensions map[string]string
	frameworks []frameworkRule
	skipDirs   map[string]bool
}

// frameworkRule detects a framework either by the presence of a marker file
// or by a dependency string appearing inside a manifest file.
type frameworkRule struct {
	framework  string
	markerFile string
	manifest   string
	dependency string
}

// New returns a Detector loaded with the built-in language and framework
// tables.
func New() *Detector {
	return &Detector{
		extensions: map[string]string{
			".py":    "Python",
			".js":    "JavaScript",
			".jsx":   "JavaScript (React)",
			".ts":    "TypeScript",
			".tsx":   "TypeScript (React)",
			".java":  "Java",
			".kt":    "Kotlin",
			".kts":   "Kotlin",
			".cs":    "C#",
			".go":    "Go",
			".rb":    "Ruby",
			".php":   "PHP",
			".rs":    "Rust",
			".cpp":   "C++",
			".cc":    "C++",
			".cxx":   "C++",
			".c":     "C",
			".h":     "C",
			".swift": "Swift",
			".scala": "Scala",
			".sh":    "Shell",
			".sql":   "SQL",
		},
		frameworks: []frameworkRule{
			{framework: "Django", markerFile: "manage.py"},
			{framework: "Django", manifest: "requirements.txt", dependency: "django"},
			{framework: "Flask", manifest: "requirements.txt", dependency: "flask"},
			{framework: "FastAPI", manifest: "requirements.txt", dependency: "fastapi"},
			{framework: "pytest", manifest: "requirements.txt", dependency: "pytest"},
			{framework: "React", manifest: "package.json", dependency: `"react"`},
			{framework: "Angular", manifest: "package.json", dependency: "@angular/core"},
			{framework: "Vue", manifest: "package.json", dependency: `"vue"`},
			{framework: "Express", manifest: "package.json", dependency: `"express"`},
			{framework: "Jest", manifest: "package.json", dependency: `"jest"`},
			{framework: "Spring Boot", manifest: "pom.xml", dependency: "spring-boot"},
			{framework: "Spring Boot", manifest: "build.gradle", dependency: "spring-boot"},
			{framework: "Rails", manifest: "Gemfile", dependency: "rails"},
			{framework: "Laravel", markerFile: "artisan"},
		},
		skipDirs: map[string]bool{
			".git":         true,
			"node_modules": true,
			"vendor":       true,
			"dist":         true,
			"build":        true,
			"target":       true,
			"__pycache__":  true,
			".venv":        true,
			"venv":         true,
		},
	}
}

// LanguageForPath returns the language implied by the path's extension, or
// an empty string when the extension is unknown.
func (d *Detector) LanguageForPath(path string) string {
	return d.extensions[strings.ToLower(filepath.Ext(path))]
}

// DetectLanguages walks the repository and counts source files per language.
func (d *Detector) DetectLanguages(root string) (map[string]int, error) {
	counts := map[string]int{}
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if d.skipDirs[entry.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if lang := d.LanguageForPath(path); lang != "" {
			counts[lang]++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// PrimaryLanguage returns the language with the most files, breaking ties
// alphabetically so the answer is stable, or an empty string for an empty
// repository.
func (d *Detector) PrimaryLanguage(counts map[string]int) string {
	langs := make([]string, 0, len(counts))
	for l := range counts {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool {
		if counts[langs[i]] != counts[langs[j]] {
			return counts[langs[i]] > counts[langs[j]]
		}
		return langs[i] < langs[j]
	})
	if len(langs) == 0 {
		return ""
	}
	return langs[0]
}

// DetectFrameworks reports the frameworks whose markers appear at the
// repository root, in a stable order without duplicates.
func (d *Detector) DetectFrameworks(root string) []string {
	seen := map[string]bool{}
	var found []string
	for _, rule := range d.frameworks {
		if seen[rule.framework] {
			continue
		}
		if rule.markerFile != "" {
			if _, err := os.Stat(filepath.Join(root, rule.markerFile)); err == nil {
				seen[rule.framework] = true
				found = append(found, rule.framework)
			}
			continue
		}
		data, err := os.ReadFile(filepath.Join(root, rule.manifest))
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(string(data)), strings.ToLower(rule.dependency)) {
			seen[rule.framework] = true
			found = append(found, rule.framework)
		}
	}
	return found
}
