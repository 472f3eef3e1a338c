package template

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errTemplateIDMissing   = errors.New("template: id is required")
	errTemplateNameMissing = errors.New("template: name is required")
)

// Validate checks the structural invariants a well-formed template upholds:
// unique section ids, unique field ids per section, at least one column per
// table schema, and side-header references that resolve to real fields.
// Renderable degradations (a choice field without options) are not errors
// here; the widget registry falls back to free text for those.
func (t Template) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errTemplateIDMissing
	}
	if strings.TrimSpace(t.Name) == "" {
		return errTemplateNameMissing
	}

	keys := make(map[string]struct{})
	sections := make(map[string]struct{}, len(t.Sections))
	for _, section := range t.Sections {
		if strings.TrimSpace(section.ID) == "" {
			return fmt.Errorf("template %s: section with empty id", t.ID)
		}
		if _, dup := sections[section.ID]; dup {
			return fmt.Errorf("template %s: duplicate section id %s", t.ID, section.ID)
		}
		sections[section.ID] = struct{}{}
		seen := make(map[string]struct{}, len(section.Fields))
		for _, field := range section.Fields {
			if strings.TrimSpace(field.ID) == "" {
				return fmt.Errorf("template %s: section %s holds a field with empty id", t.ID, section.ID)
			}
			if _, dup := seen[field.ID]; dup {
				return fmt.Errorf("template %s: duplicate field id %s in section %s", t.ID, field.ID, section.ID)
			}
			seen[field.ID] = struct{}{}
			keys[FieldKey(section.ID, field.ID)] = struct{}{}

			if field.Type.IsTable() {
				if field.Table == nil || len(field.Table.Columns) == 0 {
					return fmt.Errorf("template %s: table field %s has no columns", t.ID, field.ID)
				}
			}
		}
	}

	for _, header := range t.SideHeaders {
		for _, ref := range header.Fields {
			if _, ok := keys[ref]; !ok {
				return fmt.Errorf("template %s: side header %s references unknown field %s", t.ID, header.ID, ref)
			}
		}
	}
	return nil
}
