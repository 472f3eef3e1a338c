package template

import (
	"fmt"
	"strings"
)

// Direction selects where MoveField/MoveSection shift the target.
type Direction string

const (
	MoveUp   Direction = "up"
	MoveDown Direction = "down"
)

// SectionPatch is a field-level update applied by UpdateSection. Nil members
// leave the current value in place.
type SectionPatch struct {
	Title       *string
	Description *string
	Columns     *int
	Collapsible *bool
}

// FieldPatch is a field-level update applied by UpdateField. The field id and
// declared type are immutable and deliberately absent.
type FieldPatch struct {
	Key         *string
	Label       *string
	Required    *bool
	Width       *Width
	Placeholder *string
	HelpText    *string
	Default     any
	Validation  *Validation
	Options     []Option
}

// ColumnPatch is a field-level update applied by UpdateColumn. Changing a
// column's declared type never migrates existing cell values; stale cells keep
// their raw value until re-entered.
type ColumnPatch struct {
	Label    *string
	Type     *ColumnType
	Required *bool
	Options  []Option
	Width    *string
}

// AddSection appends an empty section and returns the updated template along
// with the created section.
func (t Template) AddSection(title string) (Template, Section) {
	section := Section{
		ID:      NewSectionID(),
		Title:   strings.TrimSpace(title),
		Fields:  []Field{},
		Columns: 1,
	}
	if section.Title == "" {
		section.Title = fmt.Sprintf("Section %d", len(t.Sections)+1)
	}
	out := t
	out.Sections = append(append([]Section(nil), t.Sections...), section)
	return out, section
}

// UpdateSection applies the patch to the addressed section. Unknown ids are a
// silent no-op.
func (t Template) UpdateSection(sectionID string, patch SectionPatch) Template {
	return t.updateSection(sectionID, func(section Section) Section {
		if patch.Title != nil {
			section.Title = *patch.Title
		}
		if patch.Description != nil {
			section.Description = *patch.Description
		}
		if patch.Columns != nil {
			section.Columns = *patch.Columns
		}
		if patch.Collapsible != nil {
			section.Collapsible = *patch.Collapsible
		}
		return section
	})
}

// RemoveSection drops the addressed section. Removing the last remaining
// section is refused so a template always has somewhere to put fields.
func (t Template) RemoveSection(sectionID string) Template {
	if len(t.Sections) <= 1 {
		return t
	}
	for idx, section := range t.Sections {
		if section.ID != sectionID {
			continue
		}
		out := t
		out.Sections = make([]Section, 0, len(t.Sections)-1)
		out.Sections = append(out.Sections, t.Sections[:idx]...)
		out.Sections = append(out.Sections, t.Sections[idx+1:]...)
		return out
	}
	return t
}

// MoveSection shifts a section one slot up or down, clamped at the ends.
func (t Template) MoveSection(sectionID string, dir Direction) Template {
	for idx, section := range t.Sections {
		if section.ID != sectionID {
			continue
		}
		target := moveIndex(idx, len(t.Sections), dir)
		if target == idx {
			return t
		}
		out := t
		out.Sections = make([]Section, len(t.Sections))
		copy(out.Sections, t.Sections)
		out.Sections[idx], out.Sections[target] = out.Sections[target], out.Sections[idx]
		return out
	}
	return t
}

// AddField appends a field of the requested type to the addressed section,
// generating a fresh id and the type's starter configuration: choice fields
// get two placeholder options, table fields a two-column schema. An unknown
// section id or an undeclared field type is a silent no-op returning a zero
// Field.
func (t Template) AddField(sectionID string, typ FieldType) (Template, Field) {
	if !typ.Valid() {
		return t, Field{}
	}
	if _, ok := t.Section(sectionID); !ok {
		return t, Field{}
	}

	field := newFieldOfType(typ)
	out := t.updateSection(sectionID, func(section Section) Section {
		section.Fields = append(section.Fields, field)
		return section
	})
	return out, field
}

func newFieldOfType(typ FieldType) Field {
	id := NewFieldID()
	name := string(typ)
	field := Field{
		ID:          id,
		Type:        typ,
		Key:         name + "_" + id,
		Label:       strings.ToUpper(name[:1]) + name[1:] + " Field",
		Width:       WidthFull,
		Placeholder: "Enter " + name + "...",
	}

	if typ.IsChoice() {
		field.Options = []Option{
			{Label: "Option 1", Value: "option_1"},
			{Label: "Option 2", Value: "option_2"},
		}
	}
	if typ.IsTable() {
		field.Table = &TableSchema{
			Columns: []Column{
				{ID: NewColumnID(), Label: "Column 1", Type: ColumnText},
				{ID: NewColumnID(), Label: "Column 2", Type: ColumnText},
			},
			DefaultRows:     3,
			AllowAddRows:    true,
			AllowDeleteRows: true,
		}
	}
	return field
}

// UpdateField applies the patch to the addressed field.
func (t Template) UpdateField(sectionID, fieldID string, patch FieldPatch) Template {
	return t.updateField(sectionID, fieldID, func(field Field) Field {
		if patch.Key != nil {
			field.Key = *patch.Key
		}
		if patch.Label != nil {
			field.Label = *patch.Label
		}
		if patch.Required != nil {
			field.Required = *patch.Required
		}
		if patch.Width != nil {
			field.Width = *patch.Width
		}
		if patch.Placeholder != nil {
			field.Placeholder = *patch.Placeholder
		}
		if patch.HelpText != nil {
			field.HelpText = *patch.HelpText
		}
		if patch.Default != nil {
			field.Default = patch.Default
		}
		if patch.Validation != nil {
			validation := *patch.Validation
			field.Validation = &validation
		}
		if patch.Options != nil {
			field.Options = cloneOptions(patch.Options)
		}
		return field
	})
}

// RemoveField drops the addressed field from its section.
func (t Template) RemoveField(sectionID, fieldID string) Template {
	return t.updateSection(sectionID, func(section Section) Section {
		for idx, field := range section.Fields {
			if field.ID == fieldID {
				section.Fields = append(section.Fields[:idx], section.Fields[idx+1:]...)
				break
			}
		}
		return section
	})
}

// MoveField shifts a field one slot up or down within its section, clamped at
// the ends.
func (t Template) MoveField(sectionID, fieldID string, dir Direction) Template {
	return t.updateSection(sectionID, func(section Section) Section {
		for idx, field := range section.Fields {
			if field.ID != fieldID {
				continue
			}
			target := moveIndex(idx, len(section.Fields), dir)
			if target != idx {
				section.Fields[idx], section.Fields[target] = section.Fields[target], section.Fields[idx]
			}
			break
		}
		return section
	})
}

// AddColumn appends a column to the addressed table field's schema. An empty
// column id is assigned a fresh one. Rows held by live form instances are
// migrated by the table engine, not here; stored templates carry no rows.
func (t Template) AddColumn(tableFieldID string, column Column) (Template, Column) {
	field, _, ok := t.FieldByID(tableFieldID)
	if !ok || field.Table == nil {
		return t, Column{}
	}
	if strings.TrimSpace(column.ID) == "" {
		column.ID = NewColumnID()
	}
	out := t.updateTable(tableFieldID, func(schema TableSchema) TableSchema {
		schema.Columns = append(schema.Columns, cloneColumn(column))
		return schema
	})
	return out, column
}

// RemoveColumn drops a column from the addressed table field. Removing the
// last remaining column is refused: the unchanged template is the signal.
func (t Template) RemoveColumn(tableFieldID, columnID string) Template {
	return t.updateTable(tableFieldID, func(schema TableSchema) TableSchema {
		if len(schema.Columns) <= 1 {
			return schema
		}
		for idx, column := range schema.Columns {
			if column.ID == columnID {
				schema.Columns = append(schema.Columns[:idx], schema.Columns[idx+1:]...)
				break
			}
		}
		return schema
	})
}

// UpdateColumn applies the patch to a column of the addressed table field.
func (t Template) UpdateColumn(tableFieldID, columnID string, patch ColumnPatch) Template {
	return t.updateTable(tableFieldID, func(schema TableSchema) TableSchema {
		for idx, column := range schema.Columns {
			if column.ID != columnID {
				continue
			}
			if patch.Label != nil {
				column.Label = *patch.Label
			}
			if patch.Type != nil {
				column.Type = *patch.Type
			}
			if patch.Required != nil {
				column.Required = *patch.Required
			}
			if patch.Options != nil {
				column.Options = cloneOptions(patch.Options)
			}
			if patch.Width != nil {
				column.Width = *patch.Width
			}
			schema.Columns[idx] = column
			break
		}
		return schema
	})
}

func moveIndex(idx, length int, dir Direction) int {
	switch dir {
	case MoveUp:
		if idx > 0 {
			return idx - 1
		}
	case MoveDown:
		if idx < length-1 {
			return idx + 1
		}
	}
	return idx
}
