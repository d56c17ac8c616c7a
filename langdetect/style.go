/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package langdetect

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// StyleHints summarizes the dominant conventions observed in existing source
// files, so generated code can match them.
type StyleHints struct {
	Indentation    string // "spaces" or "tabs"
	IndentSize     int
	MaxLineLength  int
	FunctionNaming string // "snake_case", "camelCase" or "PascalCase"
	StringQuotes   string // "single" or "double"
	Semicolons     bool
}

// maxSampleFiles bounds how many files AnalyzeStyle reads per call.
const maxSampleFiles = 20

var (
	snakeFunc  = regexp.MustCompile(`\bdef\s+[a-z][a-z0-9_]*_[a-z0-9_]*\s*\(`)
	camelFunc  = regexp.MustCompile(`\bfunction\s+[a-z][a-zA-Z0-9]*[A-Z][a-zA-Z0-9]*\s*\(`)
	pascalFunc = regexp.MustCompile(`\b(?:public|private|protected|internal)?\s*\w+\s+([A-Z][a-zA-Z0-9]*)\s*\(`)
)

// AnalyzeStyle samples source files of the given language under root and
// returns the conventions that appear most often. Defaults lean on the
// language's common style when the sample is too small to decide.
func (d *Detector) AnalyzeStyle(root, language string) StyleHints {
	hints := defaultsFor(language)

	var (
		tabLines, spaceLines       int
		indentTwo, indentFour      int
		singleQuotes, doubleQuotes int
		semiLines, bareLines       int
		longest                    int
		snake, camel, pascal       int
		sampled                    int
	)

	filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if entry.IsDir() {
			if d.skipDirs[entry.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if sampled >= maxSampleFiles || d.LanguageForPath(path) != language {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return nil
		}
		defer f.Close()
		sampled++

		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			if len(line) > longest {
				longest = len(line)
			}
			switch {
			case strings.HasPrefix(line, "\t"):
				tabLines++
			case strings.HasPrefix(line, "    "):
				spaceLines++
				indentFour++
			case strings.HasPrefix(line, "  "):
				spaceLines++
				indentTwo++
			}
			singleQuotes += strings.Count(line, "'")
			doubleQuotes += strings.Count(line, `"`)
			trimmed := strings.TrimSpace(line)
			if trimmed != "" && !strings.HasPrefix(trimmed, "//") && !strings.HasPrefix(trimmed, "#") {
				if strings.HasSuffix(trimmed, ";") {
					semiLines++
				} else {
					bareLines++
				}
			}
			snake += len(snakeFunc.FindAllString(line, -1))
			camel += len(camelFunc.FindAllString(line, -1))
			pascal += len(pascalFunc.FindAllString(line, -1))
		}
		return nil
	})

	if sampled == 0 {
		return hints
	}
	if tabLines > spaceLines {
		hints.Indentation = "tabs"
	} else if spaceLines > 0 {
		hints.Indentation = "spaces"
		if indentTwo > indentFour {
			hints.IndentSize = 2
		} else {
			hints.IndentSize = 4
		}
	}
	if singleQuotes > doubleQuotes {
		hints.StringQuotes = "single"
	} else if doubleQuotes > 0 {
		hints.StringQuotes = "double"
	}
	hints.Semicolons = semiLines > bareLines
	if longest > 0 {
		hints.MaxLineLength = longest
	}
	switch {
	case snake >= camel && snake >= pascal && snake > 0:
		hints.FunctionNaming = "snake_case"
	case camel >= pascal && camel > 0:
		hints.FunctionNaming = "camelCase"
	case pascal > 0:
		hints.FunctionNaming = "PascalCase"
	}
	return hints
}

func defaultsFor(language string) StyleHints {
	switch {
	case language == "Python":
		return StyleHints{Indentation: "spaces", IndentSize: 4, MaxLineLength: 88, FunctionNaming: "snake_case", StringQuotes: "double"}
	case language == "Go":
		return StyleHints{Indentation: "tabs", IndentSize: 1, MaxLineLength: 100, FunctionNaming: "camelCase", StringQuotes: "double"}
	case strings.HasPrefix(language, "JavaScript"), strings.HasPrefix(language, "TypeScript"):
		return StyleHints{Indentation: "spaces", IndentSize: 2, MaxLineLength: 100, FunctionNaming: "camelCase", StringQuotes: "single", Semicolons: true}
	case language == "Java", language == "Kotlin", language == "Scala":
		return StyleHints{Indentation: "spaces", IndentSize: 4, MaxLineLength: 120, FunctionNaming: "camelCase", StringQuotes: "double", Semicolons: language == "Java"}
	case language == "C#":
		return StyleHints{Indentation: "spaces", IndentSize: 4, MaxLineLength: 120, FunctionNaming: "PascalCase", StringQuotes: "double", Semicolons: true}
	default:
		return StyleHints{Indentation: "spaces", IndentSize: 4, MaxLineLength: 100, FunctionNaming: "camelCase", StringQuotes: "double"}
	}
}
