package widgets

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-crf/pkg/template"
)

func TestResolve_BuiltinMapping(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	options := []template.Option{{Label: "Mild", Value: "mild"}, {Label: "Severe", Value: "severe"}}

	cases := []struct {
		name  string
		field template.Field
		want  string
	}{
		{"text", template.Field{Type: template.FieldText}, ControlTextInput},
		{"textarea", template.Field{Type: template.FieldTextarea}, ControlTextarea},
		{"number", template.Field{Type: template.FieldNumber}, ControlNumberInput},
		{"date", template.Field{Type: template.FieldDate}, ControlDatePicker},
		{"time", template.Field{Type: template.FieldTime}, ControlTimePicker},
		{"select", template.Field{Type: template.FieldSelect, Options: options}, ControlDropdown},
		{"radio", template.Field{Type: template.FieldRadio, Options: options}, ControlRadioGroup},
		{"checkbox", template.Field{Type: template.FieldCheckbox, Options: options}, ControlCheckGroup},
		{"yesno", template.Field{Type: template.FieldYesNo}, ControlToggle},
		{"calculation", template.Field{Type: template.FieldCalculation}, ControlReadout},
		{"file", template.Field{Type: template.FieldFile}, ControlFileUpload},
		{"signature", template.Field{Type: template.FieldSignature}, ControlSignature},
		{"table", template.Field{Type: template.FieldTable}, ControlGrid},
		{"matrix", template.Field{Type: template.FieldMatrix}, ControlGrid},
		{"header", template.Field{Type: template.FieldHeader}, ControlStatic},
		{"tel", template.Field{Type: template.FieldTel}, ControlTextInput},
		{"url", template.Field{Type: template.FieldURL}, ControlTextInput},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := reg.Resolve(tc.field); got != tc.want {
				t.Errorf("Resolve(%s) = %q, want %q", tc.field.Type, got, tc.want)
			}
		})
	}
}

func TestResolve_ChoiceWithoutOptionsFallsBackToText(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	for _, typ := range []template.FieldType{template.FieldSelect, template.FieldRadio, template.FieldCheckbox} {
		if got := reg.Resolve(template.Field{Type: typ}); got != ControlTextInput {
			t.Errorf("Resolve(%s with no options) = %q, want %q", typ, got, ControlTextInput)
		}
	}
}

func TestRegister_HigherPriorityWins(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register("slider", 200, func(field template.Field) bool {
		return field.Type == template.FieldNumber
	})

	if got := reg.Resolve(template.Field{Type: template.FieldNumber}); got != "slider" {
		t.Errorf("Resolve = %q, want custom slider control", got)
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	options := []template.Option{{Label: "Yes", Value: "yes"}}

	calc := reg.Describe(template.Field{Type: template.FieldCalculation})
	if !calc.ReadOnly {
		t.Error("calculation capability is editable, want read-only")
	}

	check := reg.Describe(template.Field{Type: template.FieldCheckbox, Options: options})
	if !check.Multiple {
		t.Error("check group capability is single-select, want multiple")
	}
	if diff := cmp.Diff(options, check.Options); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}

	text := reg.Describe(template.Field{Type: template.FieldText})
	if text.ReadOnly || text.Multiple || len(text.Options) != 0 {
		t.Errorf("text capability = %+v, want plain editable control", text)
	}
}
