/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package codegen

import "testing"

func TestTestPath(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		language string
		source   string
		want     string
	}{
		{"Python", "src/billing/invoice.py", "tests/test_invoice.py"},
		{"Python", "lib/helpers.py", "tests/test_helpers.py"},
		{"Python", "scripts/migrate.py", "scripts/test_migrate.py"},
		{"JavaScript", "src/components/Button.jsx", "src/__tests__/components/Button.test.jsx"},
		{"JavaScript", "scripts/build.js", "scripts/build.test.js"},
		{"JavaScript", "index.js", "index.test.js"},
		{"TypeScript", "src/api/client.ts", "src/__tests__/api/client.test.ts"},
		{"TypeScript (React)", "src/App.tsx", "src/__tests__/App.test.tsx"},
		{"Java", "src/main/java/com/acme/Billing.java", "src/test/java/com/acme/BillingTest.java"},
		{"Kotlin", "src/main/kotlin/com/acme/Billing.kt", "src/test/kotlin/com/acme/BillingTest.kt"},
		{"C#", "Services/InvoiceService.cs", "Services/InvoiceServiceTests.cs"},
		{"Go", "internal/billing/invoice.go", "internal/billing/invoice_test.go"},
		{"Rust", "src/billing.rs", "src/billingTest.rs"},
	}
	for _, tc := range tests {
		t.Run(tc.language+"/"+tc.source, func(t *testing.T) {
			got := r.ForLanguage(tc.language).TestPath(tc.source)
			if got != tc.want {
				t.Errorf("TestPath(%q) = %q, want %q", tc.source, got, tc.want)
			}
		})
	}
}

func TestForLanguageNormalizesVariants(t *testing.T) {
	r := NewRegistry()
	if r.ForLanguage("TypeScript (React)") != r.ForLanguage("TypeScript") {
		t.Error("TypeScript (React) should resolve to the TypeScript strategy")
	}
	if r.ForLanguage("COBOL") != r.ForLanguage("") {
		t.Error("unknown languages should resolve to the generic strategy")
	}
}

func TestDefaultTestFramework(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		language string
		want     string
	}{
		{"Python", "pytest"},
		{"JavaScript", "Jest"},
		{"Java", "JUnit 5"},
		{"C#", "xUnit"},
		{"Fortran", ""},
	}
	for _, tc := range tests {
		if got := r.ForLanguage(tc.language).DefaultTestFramework(); got != tc.want {
			t.Errorf("DefaultTestFramework(%s) = %q, want %q", tc.language, got, tc.want)
		}
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", "def f():\n    pass", "def f():\n    pass"},
		{"plain fence", "```\ncode\n```", "code"},
		{"language fence", "```python\ncode\n```", "code"},
		{"leading whitespace", "\n```go\npackage x\n```\n", "package x"},
		{"unterminated fence", "```python\ncode", "code"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripFences(tc.in); got != tc.want {
				t.Errorf("stripFences(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
