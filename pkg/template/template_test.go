package template

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func demoTemplate() Template {
	return Template{
		ID:   "tpl-demographics",
		Name: "Demographic Details",
		Sections: []Section{
			{
				ID:    "sec-general",
				Title: "General Information",
				Fields: []Field{
					{ID: "fld-name", Type: FieldText, Key: "full_name", Label: "Full Name", Required: true},
					{ID: "fld-dob", Type: FieldDate, Key: "dob", Label: "Date of Birth"},
					{
						ID: "fld-labs", Type: FieldTable, Key: "lab_panel", Label: "Lab Panel",
						Table: &TableSchema{
							Columns: []Column{
								{ID: "col-test", Label: "Test", Type: ColumnText},
								{ID: "col-result", Label: "Result", Type: ColumnNumber},
							},
							DefaultRows:  2,
							AllowAddRows: true,
						},
					},
				},
			},
		},
	}
}

func TestAddField_LookupByReturnedID(t *testing.T) {
	cases := []struct {
		name string
		typ  FieldType
	}{
		{name: "text", typ: FieldText},
		{name: "select", typ: FieldSelect},
		{name: "table", typ: FieldTable},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tpl, created := demoTemplate().AddField("sec-general", tc.typ)
			if created.ID == "" {
				t.Fatalf("expected a generated field id")
			}
			got, ok := tpl.Field("sec-general", created.ID)
			if !ok {
				t.Fatalf("lookup of new field %s failed", created.ID)
			}
			if got.Type != tc.typ {
				t.Fatalf("field type: want %q, got %q", tc.typ, got.Type)
			}
		})
	}
}

func TestAddField_ChoiceStarterOptions(t *testing.T) {
	tpl, created := demoTemplate().AddField("sec-general", FieldSelect)
	got, _ := tpl.Field("sec-general", created.ID)
	if len(got.Options) != 2 {
		t.Fatalf("expected 2 placeholder options, got %d", len(got.Options))
	}
}

func TestAddField_TableStarterSchema(t *testing.T) {
	tpl, created := demoTemplate().AddField("sec-general", FieldMatrix)
	got, _ := tpl.Field("sec-general", created.ID)
	if got.Table == nil {
		t.Fatalf("expected a starter table schema")
	}
	if len(got.Table.Columns) != 2 {
		t.Fatalf("starter columns: want 2, got %d", len(got.Table.Columns))
	}
	if got.Table.DefaultRows != 3 || !got.Table.AllowAddRows {
		t.Fatalf("unexpected starter row policy: %+v", got.Table)
	}
}

func TestAddField_UnknownSectionIsNoOp(t *testing.T) {
	original := demoTemplate()
	updated, created := original.AddField("sec-missing", FieldText)
	if created.ID != "" {
		t.Fatalf("expected zero field for unknown section, got %+v", created)
	}
	if diff := cmp.Diff(original, updated); diff != "" {
		t.Fatalf("template changed on unknown section (-want +got):\n%s", diff)
	}
}

func TestAddField_UndeclaredTypeIsNoOp(t *testing.T) {
	original := demoTemplate()
	for _, typ := range []FieldType{"", "hologram"} {
		updated, created := original.AddField("sec-general", typ)
		if created.ID != "" {
			t.Fatalf("expected zero field for type %q, got %+v", typ, created)
		}
		if diff := cmp.Diff(original, updated); diff != "" {
			t.Fatalf("template changed for type %q (-want +got):\n%s", typ, diff)
		}
	}
}

func TestMutation_DoesNotAliasSource(t *testing.T) {
	original := demoTemplate()
	label := "Renamed"
	updated := original.UpdateField("sec-general", "fld-name", FieldPatch{Label: &label})

	if got, _ := original.Field("sec-general", "fld-name"); got.Label != "Full Name" {
		t.Fatalf("source template mutated: label %q", got.Label)
	}
	if got, _ := updated.Field("sec-general", "fld-name"); got.Label != "Renamed" {
		t.Fatalf("patch not applied: label %q", got.Label)
	}
}

func TestRemoveColumn_LastColumnIsNoOp(t *testing.T) {
	tpl := demoTemplate().RemoveColumn("fld-labs", "col-test")
	tpl2 := tpl.RemoveColumn("fld-labs", "col-result")

	field, _, _ := tpl2.FieldByID("fld-labs")
	if len(field.Table.Columns) != 1 {
		t.Fatalf("expected 1 surviving column, got %d", len(field.Table.Columns))
	}
	if diff := cmp.Diff(tpl, tpl2); diff != "" {
		t.Fatalf("removing the last column must be structurally neutral (-want +got):\n%s", diff)
	}
}

func TestAddColumn_AssignsID(t *testing.T) {
	tpl, column := demoTemplate().AddColumn("fld-labs", Column{Label: "Units", Type: ColumnText})
	if column.ID == "" {
		t.Fatalf("expected an assigned column id")
	}
	field, _, _ := tpl.FieldByID("fld-labs")
	if len(field.Table.Columns) != 3 {
		t.Fatalf("columns: want 3, got %d", len(field.Table.Columns))
	}
}

func TestUpdateColumn_PatchesInPlace(t *testing.T) {
	numeric := ColumnNumber
	required := true
	tpl := demoTemplate().UpdateColumn("fld-labs", "col-test", ColumnPatch{Type: &numeric, Required: &required})

	field, _, _ := tpl.FieldByID("fld-labs")
	got := field.Table.Columns[0]
	if got.Type != ColumnNumber || !got.Required {
		t.Fatalf("patch not applied: %+v", got)
	}
	if got.Label != "Test" {
		t.Fatalf("unpatched member changed: label %q", got.Label)
	}
}

func TestMoveField(t *testing.T) {
	tpl := demoTemplate().MoveField("sec-general", "fld-dob", MoveUp)
	section, _ := tpl.Section("sec-general")
	if section.Fields[0].ID != "fld-dob" {
		t.Fatalf("move up failed: first field %s", section.Fields[0].ID)
	}

	clamped := tpl.MoveField("sec-general", "fld-dob", MoveUp)
	if diff := cmp.Diff(tpl, clamped); diff != "" {
		t.Fatalf("move past the top must clamp (-want +got):\n%s", diff)
	}
}

func TestMoveSection_Clamps(t *testing.T) {
	tpl, _ := demoTemplate().AddSection("Vitals")
	moved := tpl.MoveSection(tpl.Sections[1].ID, MoveUp)
	if moved.Sections[0].Title != "Vitals" {
		t.Fatalf("move up failed: %q", moved.Sections[0].Title)
	}
	if diff := cmp.Diff(moved, moved.MoveSection(moved.Sections[0].ID, MoveUp)); diff != "" {
		t.Fatalf("moving the first section up must be a no-op:\n%s", diff)
	}
}

func TestRemoveSection_RefusesLast(t *testing.T) {
	original := demoTemplate()
	if diff := cmp.Diff(original, original.RemoveSection("sec-general")); diff != "" {
		t.Fatalf("removing the only section must be a no-op:\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(Template) Template
		wantErr bool
	}{
		{
			name:   "well formed",
			mutate: func(tpl Template) Template { return tpl },
		},
		{
			name: "duplicate field id",
			mutate: func(tpl Template) Template {
				tpl.Sections[0].Fields = append(tpl.Sections[0].Fields, Field{ID: "fld-name", Type: FieldText})
				return tpl
			},
			wantErr: true,
		},
		{
			name: "duplicate section id",
			mutate: func(tpl Template) Template {
				tpl.Sections = append(tpl.Sections, Section{ID: "sec-general", Title: "Again", Fields: []Field{{ID: "fld-extra", Type: FieldText}}})
				return tpl
			},
			wantErr: true,
		},
		{
			name: "table without columns",
			mutate: func(tpl Template) Template {
				tpl.Sections[0].Fields[2].Table = &TableSchema{}
				return tpl
			},
			wantErr: true,
		},
		{
			name: "side header dangling reference",
			mutate: func(tpl Template) Template {
				tpl.SideHeaders = []SideHeader{{ID: "sh-1", Title: "Vitals", Fields: []string{"sec-general.fld-ghost"}}}
				return tpl
			},
			wantErr: true,
		},
		{
			name: "side header resolving reference",
			mutate: func(tpl Template) Template {
				tpl.SideHeaders = []SideHeader{{ID: "sh-1", Title: "Vitals", Fields: []string{"sec-general.fld-dob"}}}
				return tpl
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.mutate(demoTemplate()).Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected a validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
