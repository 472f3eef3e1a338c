// Package widgets maps schema fields to the input control a renderer should
// present. Resolution goes through a priority-ordered matcher registry so
// host applications can override or extend the built-in mapping without
// touching the schema model.
package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-crf/pkg/template"
)

// Built-in control identifiers exposed by the registry.
const (
	ControlTextInput   = "text-input"
	ControlTextarea    = "textarea"
	ControlNumberInput = "number-input"
	ControlDatePicker  = "date-picker"
	ControlTimePicker  = "time-picker"
	ControlDropdown    = "dropdown"
	ControlRadioGroup  = "radio-group"
	ControlCheckGroup  = "check-group"
	ControlToggle      = "toggle"
	ControlReadout     = "readout"
	ControlFileUpload  = "file-upload"
	ControlSignature   = "signature-pad"
	ControlGrid        = "grid"
	ControlStatic      = "static"
)

// Capability describes how a renderer should treat one field: which control
// to draw, whether the value is operator-editable, and the choices to offer.
type Capability struct {
	Control  string
	ReadOnly bool
	Multiple bool
	Options  []template.Option
}

// Matcher decides whether a control should handle the supplied field.
type Matcher func(field template.Field) bool

type rule struct {
	control  string
	priority int
	match    Matcher
	order    int
}

// Registry selects controls for fields based on registered matchers. Higher
// priority wins; ties fall back to registration order.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in control matchers
// registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a control matcher with the provided name and priority. Higher
// priority values take precedence during resolution.
func (r *Registry) Register(control string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(control)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		control:  trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the control name for a field. Fields no matcher claims
// fall back to a plain text input rather than failing, so a malformed or
// future field type still renders something an operator can use.
func (r *Registry) Resolve(field template.Field) string {
	if r == nil {
		return ControlTextInput
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.control
		}
	}
	return ControlTextInput
}

// Describe resolves the field's control and fills in the rest of the
// capability: editability, multi-select, and the option list to offer.
func (r *Registry) Describe(field template.Field) Capability {
	capability := Capability{Control: r.Resolve(field)}
	switch capability.Control {
	case ControlReadout, ControlStatic:
		capability.ReadOnly = true
	case ControlCheckGroup:
		capability.Multiple = true
	}
	switch capability.Control {
	case ControlDropdown, ControlRadioGroup, ControlCheckGroup:
		capability.Options = append([]template.Option(nil), field.Options...)
	}
	return capability
}

func (r *Registry) registerBuiltins() {
	// choice controls only claim fields that actually carry options; a
	// choice field without any falls through to the text fallback.
	r.Register(ControlDropdown, 90, func(field template.Field) bool {
		return field.Type == template.FieldSelect && len(field.Options) > 0
	})
	r.Register(ControlRadioGroup, 90, func(field template.Field) bool {
		return field.Type == template.FieldRadio && len(field.Options) > 0
	})
	r.Register(ControlCheckGroup, 90, func(field template.Field) bool {
		return field.Type == template.FieldCheckbox && len(field.Options) > 0
	})

	r.Register(ControlGrid, 80, func(field template.Field) bool {
		return field.Type.IsTable()
	})
	r.Register(ControlToggle, 80, func(field template.Field) bool {
		return field.Type == template.FieldYesNo
	})
	r.Register(ControlReadout, 80, func(field template.Field) bool {
		return field.Type == template.FieldCalculation
	})
	r.Register(ControlStatic, 80, func(field template.Field) bool {
		return field.Type == template.FieldHeader
	})

	r.Register(ControlNumberInput, 70, func(field template.Field) bool {
		return field.Type == template.FieldNumber
	})
	r.Register(ControlDatePicker, 70, func(field template.Field) bool {
		return field.Type == template.FieldDate
	})
	r.Register(ControlTimePicker, 70, func(field template.Field) bool {
		return field.Type == template.FieldTime
	})
	r.Register(ControlTextarea, 70, func(field template.Field) bool {
		return field.Type == template.FieldTextarea
	})
	r.Register(ControlFileUpload, 70, func(field template.Field) bool {
		return field.Type == template.FieldFile
	})
	r.Register(ControlSignature, 70, func(field template.Field) bool {
		return field.Type == template.FieldSignature
	})
}
