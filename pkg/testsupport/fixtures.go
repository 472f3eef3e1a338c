// Package testsupport provides fixture builders and golden-file helpers
// shared by the package test suites. Helpers fail the test on error to keep
// contract tests concise.
package testsupport

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-crf/pkg/template"
)

// EnrollmentTemplate builds a small but representative fixture: one general
// section with scalar fields and one lab section containing a table field.
func EnrollmentTemplate() template.Template {
	min, max := 18.0, 45.0
	return template.Template{
		ID:   "tpl-enrollment",
		Name: "Enrollment",
		Sections: []template.Section{
			{
				ID:    "sec-general",
				Title: "General",
				Fields: []template.Field{
					{ID: "fld-name", Type: template.FieldText, Key: "full_name", Label: "Full Name", Required: true},
					{
						ID: "fld-age", Type: template.FieldNumber, Key: "age", Label: "Age", Required: true,
						Validation: &template.Validation{Min: &min, Max: &max},
					},
					{
						ID: "fld-sex", Type: template.FieldSelect, Key: "sex", Label: "Sex",
						Options: []template.Option{
							{Label: "Female", Value: "female"},
							{Label: "Male", Value: "male"},
							{Label: "Intersex", Value: "intersex"},
						},
					},
				},
			},
			{
				ID:    "sec-labs",
				Title: "Laboratory",
				Fields: []template.Field{
					{
						ID: "fld-panel", Type: template.FieldTable, Key: "lab_panel", Label: "Lab Panel",
						Table: &template.TableSchema{
							Columns: []template.Column{
								{ID: "col-test", Label: "Test", Type: template.ColumnText, Required: true},
								{ID: "col-result", Label: "Result", Type: template.ColumnNumber},
								{ID: "col-abnormal", Label: "Abnormal", Type: template.ColumnCheckbox},
							},
							DefaultRows:     2,
							AllowAddRows:    true,
							AllowDeleteRows: true,
						},
					},
				},
			},
		},
	}
}

// MustLoadTemplate reads a JSON fixture into a Template.
func MustLoadTemplate(t *testing.T, path string) template.Template {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("load template fixture: %v", err)
	}
	var tpl template.Template
	if err := json.Unmarshal(data, &tpl); err != nil {
		t.Fatalf("unmarshal template fixture: %v", err)
	}
	return tpl
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is
// set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
