package template

// DuplicateField deep-copies a field under a fresh id, appended to the end of
// its section. Every nested column receives a new id as well, so the copy
// shares no identifiers (and no mutable state) with the original.
func (t Template) DuplicateField(sectionID, fieldID string) (Template, Field) {
	source, ok := t.Field(sectionID, fieldID)
	if !ok {
		return t, Field{}
	}

	duplicate := reidentifyField(cloneField(source))
	duplicate.Label = source.Label + " (Copy)"
	out := t.updateSection(sectionID, func(section Section) Section {
		section.Fields = append(section.Fields, duplicate)
		return section
	})
	return out, duplicate
}

// DuplicateSection deep-copies a section under a fresh id, appended to the end
// of the template. Every field and column inside the copy is re-identified;
// internal references always point at the new ids, never the originals.
func (t Template) DuplicateSection(sectionID string) (Template, Section) {
	source, ok := t.Section(sectionID)
	if !ok {
		return t, Section{}
	}

	duplicate := cloneSection(source)
	duplicate.ID = NewSectionID()
	duplicate.Title = source.Title + " (Copy)"
	for idx, field := range duplicate.Fields {
		duplicate.Fields[idx] = reidentifyField(field)
	}

	out := t
	out.Sections = append(append([]Section(nil), t.Sections...), duplicate)
	return out, duplicate
}

func reidentifyField(field Field) Field {
	field.ID = NewFieldID()
	field.Key = field.Key + "_copy"
	if field.Table != nil {
		for idx := range field.Table.Columns {
			field.Table.Columns[idx].ID = NewColumnID()
		}
	}
	return field
}
