package openapi

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-crf/pkg/template"
	"github.com/goliatone/go-crf/pkg/testsupport"
)

const dictionaryYAML = `openapi: 3.0.3
info:
  title: Oncology Study Dictionary
  version: "1.0"
paths: {}
components:
  schemas:
    Demographics:
      type: object
      required: [full_name, age]
      properties:
        full_name:
          type: string
          description: Name as written on the consent form.
        age:
          type: integer
          minimum: 18
          maximum: 45
        sex:
          type: string
          enum: [female, male, intersex]
        consent_date:
          type: string
          format: date
        notes:
          type: string
          maxLength: 2000
    Visit:
      type: object
      properties:
        visit_date:
          type: string
          format: date
        labs:
          type: array
          items:
            type: object
            required: [test]
            properties:
              test:
                type: string
              result:
                type: number
              abnormal:
                type: boolean
    StatusCode:
      type: string
      enum: [active, withdrawn]
`

func TestImport_BuildsSectionsFromObjectSchemas(t *testing.T) {
	t.Parallel()

	tpl, err := Import(context.Background(), []byte(dictionaryYAML), WithTemplateID("tpl-oncology"))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	if tpl.ID != "tpl-oncology" || tpl.Name != "Oncology Study Dictionary" {
		t.Errorf("template identity = %s/%s", tpl.ID, tpl.Name)
	}
	// StatusCode is a bare string schema and contributes no section
	if got := len(tpl.Sections); got != 2 {
		t.Fatalf("sections = %d, want 2", got)
	}
	if err := tpl.Validate(); err != nil {
		t.Fatalf("imported template fails validation: %v", err)
	}
}

func TestImport_FieldTypeMapping(t *testing.T) {
	t.Parallel()

	tpl, err := Import(context.Background(), []byte(dictionaryYAML))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	age, ok := tpl.Field("sec-demographics", "fld-age")
	if !ok {
		t.Fatal("age field missing")
	}
	if age.Type != template.FieldNumber || !age.Required {
		t.Errorf("age = %s required=%v", age.Type, age.Required)
	}
	if age.Validation == nil || *age.Validation.Min != 18 || *age.Validation.Max != 45 {
		t.Errorf("age bounds = %+v", age.Validation)
	}

	sex, _ := tpl.Field("sec-demographics", "fld-sex")
	if sex.Type != template.FieldSelect {
		t.Errorf("sex type = %s, want select", sex.Type)
	}
	wantOptions := []template.Option{
		{Label: "Female", Value: "female"},
		{Label: "Male", Value: "male"},
		{Label: "Intersex", Value: "intersex"},
	}
	if diff := cmp.Diff(wantOptions, sex.Options); diff != "" {
		t.Errorf("sex options (-want +got):\n%s", diff)
	}

	consent, _ := tpl.Field("sec-demographics", "fld-consent_date")
	if consent.Type != template.FieldDate || consent.Label != "Consent Date" {
		t.Errorf("consent_date = %s %q", consent.Type, consent.Label)
	}

	notes, _ := tpl.Field("sec-demographics", "fld-notes")
	if notes.Type != template.FieldTextarea {
		t.Errorf("long string type = %s, want textarea", notes.Type)
	}

	name, _ := tpl.Field("sec-demographics", "fld-full_name")
	if name.HelpText == "" {
		t.Error("property description not carried into help text")
	}
}

func TestImport_ArrayOfObjectBecomesTable(t *testing.T) {
	t.Parallel()

	tpl, err := Import(context.Background(), []byte(dictionaryYAML), WithSchemaFilter("Visit"))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got := len(tpl.Sections); got != 1 {
		t.Fatalf("filtered sections = %d, want 1", got)
	}

	labs, ok := tpl.Field("sec-visit", "fld-labs")
	if !ok {
		t.Fatal("labs field missing")
	}
	if labs.Type != template.FieldTable || labs.Table == nil {
		t.Fatalf("labs = %s, want table field with schema", labs.Type)
	}

	want := []template.Column{
		{ID: "col-abnormal", Label: "Abnormal", Type: template.ColumnCheckbox},
		{ID: "col-result", Label: "Result", Type: template.ColumnNumber},
		{ID: "col-test", Label: "Test", Type: template.ColumnText, Required: true},
	}
	if diff := cmp.Diff(want, labs.Table.Columns); diff != "" {
		t.Errorf("columns (-want +got):\n%s", diff)
	}
	if !labs.Table.AllowAddRows || labs.Table.DefaultRows != 1 {
		t.Errorf("row policy = %+v", labs.Table)
	}
}

func TestImport_GoldenDemographics(t *testing.T) {
	tpl, err := Import(testsupport.Context(), []byte(dictionaryYAML),
		WithTemplateID("tpl-demographics"),
		WithSchemaFilter("Demographics"),
	)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	golden := filepath.Join("testdata", "demographics.golden.json")
	testsupport.WriteGolden(t, golden, tpl)

	want := testsupport.MustLoadTemplate(t, golden)
	if diff := testsupport.CompareGolden(want, tpl); diff != "" {
		t.Errorf("imported template drifted from golden (-want +got):\n%s", diff)
	}
}

func TestImport_CaseCollidingSchemaNames(t *testing.T) {
	t.Parallel()

	doc := []byte(`openapi: 3.0.3
info:
  title: Collisions
  version: "1.0"
paths: {}
components:
  schemas:
    VISIT:
      type: object
      properties:
        site:
          type: string
    Visit:
      type: object
      properties:
        visit_date:
          type: string
          format: date
`)

	tpl, err := Import(context.Background(), doc)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got := len(tpl.Sections); got != 2 {
		t.Fatalf("sections = %d, want 2", got)
	}
	if tpl.Sections[0].ID == tpl.Sections[1].ID {
		t.Fatalf("section ids collide: %s", tpl.Sections[0].ID)
	}
	if err := tpl.Validate(); err != nil {
		t.Fatalf("imported template fails validation: %v", err)
	}
}

func TestImport_EmptyAndSchemalessDocuments(t *testing.T) {
	t.Parallel()

	if _, err := Import(context.Background(), nil); err == nil {
		t.Error("empty payload accepted")
	}
	doc := []byte("openapi: 3.0.3\ninfo: {title: Empty, version: \"1\"}\npaths: {}\n")
	if _, err := Import(context.Background(), doc); err == nil {
		t.Error("document without component schemas accepted")
	}
}
