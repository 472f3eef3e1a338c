package template

// Path-update helpers. All structural mutations funnel through these so the
// copy-on-write discipline lives in one place: the affected path is cloned,
// everything else is shared structurally with the source Template. A miss
// (unknown section/field id) returns the input unchanged; callers treat the
// missing effect as the error signal.

func (t Template) updateSection(sectionID string, fn func(Section) Section) Template {
	for idx, section := range t.Sections {
		if section.ID != sectionID {
			continue
		}
		out := t
		out.Sections = make([]Section, len(t.Sections))
		copy(out.Sections, t.Sections)
		out.Sections[idx] = fn(cloneSection(section))
		return out
	}
	return t
}

func (t Template) updateField(sectionID, fieldID string, fn func(Field) Field) Template {
	return t.updateSection(sectionID, func(section Section) Section {
		for idx, field := range section.Fields {
			if field.ID == fieldID {
				section.Fields[idx] = fn(field)
				break
			}
		}
		return section
	})
}

// updateTable addresses a table/matrix field by id alone and rewrites its
// schema. Non-table fields are left untouched.
func (t Template) updateTable(tableFieldID string, fn func(TableSchema) TableSchema) Template {
	_, sectionID, ok := t.FieldByID(tableFieldID)
	if !ok {
		return t
	}
	return t.updateField(sectionID, tableFieldID, func(field Field) Field {
		if field.Table == nil {
			return field
		}
		schema := fn(cloneTableSchema(*field.Table))
		field.Table = &schema
		return field
	})
}

func cloneSection(section Section) Section {
	out := section
	out.Fields = make([]Field, len(section.Fields))
	for idx, field := range section.Fields {
		out.Fields[idx] = cloneField(field)
	}
	return out
}

func cloneField(field Field) Field {
	out := field
	out.Options = cloneOptions(field.Options)
	if field.Validation != nil {
		validation := *field.Validation
		if field.Validation.Min != nil {
			min := *field.Validation.Min
			validation.Min = &min
		}
		if field.Validation.Max != nil {
			max := *field.Validation.Max
			validation.Max = &max
		}
		out.Validation = &validation
	}
	if field.Table != nil {
		schema := cloneTableSchema(*field.Table)
		out.Table = &schema
	}
	return out
}

func cloneTableSchema(schema TableSchema) TableSchema {
	out := schema
	out.Columns = make([]Column, len(schema.Columns))
	for idx, column := range schema.Columns {
		out.Columns[idx] = cloneColumn(column)
	}
	return out
}

func cloneColumn(column Column) Column {
	out := column
	out.Options = cloneOptions(column.Options)
	return out
}

func cloneOptions(options []Option) []Option {
	if options == nil {
		return nil
	}
	out := make([]Option, len(options))
	copy(out, options)
	return out
}
