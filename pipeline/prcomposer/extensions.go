/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package prcomposer

import (
	"fmt"
	"sort"
	"strings"
)

// Dependency describes another repository this change depends on.
type Dependency struct {
	Name          string
	URL           string
	Type          string
	ChangesNeeded []string
}

// CrossRepositoryDependencies appends a section listing repositories that
// need coordinated changes. With no dependencies it leaves the description
// untouched.
func CrossRepositoryDependencies(deps []Dependency) Extension {
	return func(description string) string {
		if len(deps) == 0 {
			return description
		}
		var b strings.Builder
		b.WriteString("\n## Cross-Repository Dependencies\n")
		for _, dep := range deps {
			name := dep.Name
			if name == "" {
				name = "Unknown repository"
			}
			url := dep.URL
			if url == "" {
				url = "#"
			}
			depType := dep.Type
			if depType == "" {
				depType = "dependency"
			}
			fmt.Fprintf(&b, "- **%s** (%s)\n", name, depType)
			fmt.Fprintf(&b, "  - %s\n", url)
			if len(dep.ChangesNeeded) > 0 {
				b.WriteString("  - Changes required:\n")
				for _, change := range dep.ChangesNeeded {
					fmt.Fprintf(&b, "    - %s\n", change)
				}
			}
		}
		return description + "\n" + b.String()
	}
}

// PerformanceComparison appends a before/after metrics table. Metrics present
// on only one side show N/A, and a zero baseline reports N/A rather than a
// percentage.
func PerformanceComparison(before, after map[string]float64) Extension {
	return func(description string) string {
		if len(before) == 0 || len(after) == 0 {
			return description
		}
		names := map[string]bool{}
		for m := range before {
			names[m] = true
		}
		for m := range after {
			names[m] = true
		}
		metrics := make([]string, 0, len(names))
		for m := range names {
			metrics = append(metrics, m)
		}
		sort.Strings(metrics)

		var b strings.Builder
		b.WriteString("\n## Performance Comparison\n")
		b.WriteString("| Metric | Before | After | Change |\n")
		b.WriteString("|--------|--------|-------|--------|\n")
		for _, metric := range metrics {
			beforeValue, beforeOK := before[metric]
			afterValue, afterOK := after[metric]
			row := [3]string{"N/A", "N/A", "N/A"}
			if beforeOK {
				row[0] = formatMetric(beforeValue)
			}
			if afterOK {
				row[1] = formatMetric(afterValue)
			}
			if beforeOK && afterOK {
				if beforeValue == 0 {
					row[2] = "N/A (division by zero)"
				} else {
					row[2] = fmt.Sprintf("%.2f%%", (afterValue-beforeValue)/beforeValue*100)
				}
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", metric, row[0], row[1], row[2])
		}
		return description + "\n" + b.String()
	}
}

func formatMetric(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

// FeatureFlag describes a flag guarding the change.
type FeatureFlag struct {
	Name         string
	DefaultState string
	// Environments maps an environment name to its flag state.
	Environments map[string]string
	Usage        string
	Testing      string
}

// FeatureFlagSection appends rollout and testing guidance for a feature
// flagged change.
func FeatureFlagSection(flag *FeatureFlag) Extension {
	return func(description string) string {
		if flag == nil {
			return description
		}
		name := flag.Name
		if name == "" {
			name = "Unknown"
		}
		state := flag.DefaultState
		if state == "" {
			state = "disabled"
		}
		var b strings.Builder
		b.WriteString("\n## Feature Flag Information\n")
		fmt.Fprintf(&b, "### Flag Name: `%s`\n\n", name)
		fmt.Fprintf(&b, "Default state: **%s**\n\n", state)
		b.WriteString("### Configuration\n")
		envs := make([]string, 0, len(flag.Environments))
		for env := range flag.Environments {
			envs = append(envs, env)
		}
		sort.Strings(envs)
		for _, env := range envs {
			fmt.Fprintf(&b, "#### %s Environment\n", env)
			fmt.Fprintf(&b, "- State: %s\n", flag.Environments[env])
		}
		b.WriteString("\n### Usage Instructions\n")
		if flag.Usage != "" {
			b.WriteString(flag.Usage)
		} else {
			fmt.Fprintf(&b, "To enable the feature, set the `%s` flag to `true` in your configuration.\n", name)
		}
		b.WriteString("\n### Testing\n")
		if flag.Testing != "" {
			b.WriteString(flag.Testing)
		} else {
			b.WriteString("- Test with the feature flag both enabled and disabled\n")
			fmt.Fprintf(&b, "- To enable for testing, set `%s=true`\n", name)
		}
		return description + "\n" + b.String()
	}
}
