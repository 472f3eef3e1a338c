package crf

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-crf/pkg/template"
	"github.com/goliatone/go-crf/pkg/testsupport"
	"github.com/goliatone/go-crf/pkg/widgets"
)

func TestEngine_OpenEditCommitCycle(t *testing.T) {
	t.Parallel()

	var committed []string
	commit := CommitterFunc(func(_ context.Context, fieldKey string, value any, justification string) error {
		committed = append(committed, fieldKey)
		return nil
	})

	now := time.Date(2026, time.June, 1, 8, 0, 0, 0, time.UTC)
	engine, err := New(
		WithTemplates(testsupport.EnrollmentTemplate()),
		WithCommitter(commit),
		WithClock(func() time.Time { return now }),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	in, err := engine.Open("tpl-enrollment", "case-17", map[string]any{"sec-general.fld-age": "30"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := in.Edit("sec-general.fld-age", "31"); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if pending, _ := in.RequestCommit("sec-general.fld-age"); !pending {
		t.Fatal("changed value did not require justification")
	}
	if err := in.ProvideJustification(context.Background(), "sec-general.fld-age", "birthday since screening"); err != nil {
		t.Fatalf("ProvideJustification: %v", err)
	}

	audit := in.Audit()
	if len(audit) != 1 || !audit[0].Timestamp.Equal(now) {
		t.Fatalf("audit = %+v", audit)
	}
	if len(committed) != 1 || committed[0] != "sec-general.fld-age" {
		t.Errorf("committer calls = %v", committed)
	}
}

func TestEngine_TemplateSourcesMerge(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"consent.json": &fstest.MapFile{Data: []byte(`{
			"id": "tpl-consent",
			"name": "Consent",
			"sections": [
				{"id": "sec-consent", "title": "Consent", "fields": [
					{"id": "fld-signed", "type": "yesno", "key": "signed", "label": "Signed"}
				]}
			]
		}`)},
	}

	engine, err := New(
		WithTemplates(testsupport.EnrollmentTemplate()),
		WithTemplateFS(fsys),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ids := engine.TemplateIDs()
	want := []string{"tpl-consent", "tpl-enrollment"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("template ids (-want +got):\n%s", diff)
	}
}

func TestEngine_OpenUnknownTemplate(t *testing.T) {
	t.Parallel()

	engine, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := engine.Open("tpl-nope", "case-1", nil); err == nil {
		t.Fatal("unknown template opened")
	}
}

func TestEngine_ValidateUsesEngineClock(t *testing.T) {
	t.Parallel()

	today := time.Date(2026, time.July, 1, 12, 0, 0, 0, time.UTC)
	tpl := template.Template{
		ID:   "tpl-consent",
		Name: "Consent",
		Sections: []template.Section{
			{ID: "sec-consent", Title: "Consent", Fields: []template.Field{
				{
					ID: "fld-date", Type: template.FieldDate, Key: "consent_date", Label: "Consent Date",
					Validation: &template.Validation{MaxDate: "today"},
				},
			}},
		},
	}

	engine, err := New(WithTemplates(tpl), WithClock(func() time.Time { return today }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	in, err := engine.Open("tpl-consent", "case-1", map[string]any{"sec-consent.fld-date": "2026-07-02"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	problems := engine.Validate(in)
	if len(problems) != 1 {
		t.Fatalf("problems = %v, want one future-date error", problems)
	}
}

func TestEngine_DescribeUsesRegistry(t *testing.T) {
	t.Parallel()

	engine, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	capability := engine.Describe(template.Field{Type: template.FieldCalculation})
	if capability.Control != widgets.ControlReadout || !capability.ReadOnly {
		t.Errorf("capability = %+v", capability)
	}
}
