// Package openapi imports study data dictionaries published as OpenAPI
// documents into draft form templates. Each named component schema becomes a
// section; its properties become fields with types and constraints mapped
// from the schema. The result is a starting point for a template author,
// not a finished form.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-crf/pkg/template"
)

// ImportOption configures an import.
type ImportOption func(*importer)

// WithTemplateID overrides the generated template id.
func WithTemplateID(id string) ImportOption {
	return func(imp *importer) { imp.templateID = id }
}

// WithSchemaFilter restricts the import to the named component schemas.
func WithSchemaFilter(names ...string) ImportOption {
	return func(imp *importer) {
		imp.filter = make(map[string]bool, len(names))
		for _, name := range names {
			imp.filter[strings.TrimSpace(name)] = true
		}
	}
}

type importer struct {
	templateID string
	filter     map[string]bool
}

// Import parses an OpenAPI 3 document and builds a draft template from its
// component schemas. Only object schemas contribute sections; everything
// else is skipped.
func Import(ctx context.Context, raw []byte, opts ...ImportOption) (template.Template, error) {
	if len(raw) == 0 {
		return template.Template{}, errors.New("openapi: document payload is empty")
	}
	imp := &importer{}
	for _, opt := range opts {
		opt(imp)
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return template.Template{}, fmt.Errorf("openapi: load document: %w", err)
	}
	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return template.Template{}, errors.New("openapi: document has no component schemas")
	}

	tpl := template.Template{
		ID:   imp.templateID,
		Name: documentTitle(doc),
	}
	if tpl.ID == "" {
		tpl.ID = template.NewTemplateID()
	}

	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	// ids lowercase the schema name, so names differing only in case would
	// otherwise collide
	taken := make(map[string]int)
	for _, name := range names {
		if imp.filter != nil && !imp.filter[name] {
			continue
		}
		ref := doc.Components.Schemas[name]
		if ref == nil || ref.Value == nil || !hasType(ref.Value, "object") {
			continue
		}
		section := sectionFromSchema(name, ref.Value)
		if len(section.Fields) == 0 {
			continue
		}
		taken[section.ID]++
		if n := taken[section.ID]; n > 1 {
			section.ID = fmt.Sprintf("%s-%d", section.ID, n)
		}
		tpl.Sections = append(tpl.Sections, section)
	}
	if len(tpl.Sections) == 0 {
		return template.Template{}, errors.New("openapi: no object schemas to import")
	}
	return tpl, nil
}

func documentTitle(doc *openapi3.T) string {
	if doc.Info != nil && strings.TrimSpace(doc.Info.Title) != "" {
		return doc.Info.Title
	}
	return "Imported Data Dictionary"
}

func sectionFromSchema(name string, schema *openapi3.Schema) template.Section {
	section := template.Section{
		ID:          "sec-" + strings.ToLower(name),
		Title:       labelFor(name, schema.Title),
		Description: schema.Description,
	}

	required := make(map[string]bool, len(schema.Required))
	for _, prop := range schema.Required {
		required[prop] = true
	}

	propNames := make([]string, 0, len(schema.Properties))
	for prop := range schema.Properties {
		propNames = append(propNames, prop)
	}
	sort.Strings(propNames)

	for _, prop := range propNames {
		ref := schema.Properties[prop]
		if ref == nil || ref.Value == nil {
			continue
		}
		field, ok := fieldFromProperty(prop, ref.Value)
		if !ok {
			continue
		}
		field.Required = required[prop]
		section.Fields = append(section.Fields, field)
	}
	return section
}

func fieldFromProperty(name string, schema *openapi3.Schema) (template.Field, bool) {
	field := template.Field{
		ID:       "fld-" + strings.ToLower(name),
		Key:      name,
		Label:    labelFor(name, schema.Title),
		HelpText: schema.Description,
	}

	switch {
	case len(schema.Enum) > 0:
		field.Type = template.FieldSelect
		field.Options = optionsFromEnum(schema.Enum)
	case hasType(schema, "boolean"):
		field.Type = template.FieldYesNo
	case hasType(schema, "number"), hasType(schema, "integer"):
		field.Type = template.FieldNumber
		field.Validation = numericBounds(schema)
	case hasType(schema, "array"):
		return tableFieldFromArray(field, schema)
	case hasType(schema, "object"):
		// nested objects do not flatten into a single field
		return template.Field{}, false
	default:
		field.Type = stringFieldType(schema)
		field.Validation = stringConstraints(schema)
	}
	return field, true
}

// tableFieldFromArray maps an array-of-object property to a table field with
// one column per item property. Arrays of scalars have no column structure
// and are skipped.
func tableFieldFromArray(field template.Field, schema *openapi3.Schema) (template.Field, bool) {
	if schema.Items == nil || schema.Items.Value == nil {
		return template.Field{}, false
	}
	item := schema.Items.Value
	if !hasType(item, "object") || len(item.Properties) == 0 {
		return template.Field{}, false
	}

	names := make([]string, 0, len(item.Properties))
	for name := range item.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	itemRequired := make(map[string]bool, len(item.Required))
	for _, name := range item.Required {
		itemRequired[name] = true
	}

	columns := make([]template.Column, 0, len(names))
	for _, name := range names {
		ref := item.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		column := template.Column{
			ID:       "col-" + strings.ToLower(name),
			Label:    labelFor(name, ref.Value.Title),
			Type:     columnTypeFor(ref.Value),
			Required: itemRequired[name],
		}
		if len(ref.Value.Enum) > 0 {
			column.Options = optionsFromEnum(ref.Value.Enum)
		}
		columns = append(columns, column)
	}
	if len(columns) == 0 {
		return template.Field{}, false
	}

	field.Type = template.FieldTable
	field.Table = &template.TableSchema{
		Columns:         columns,
		DefaultRows:     1,
		AllowAddRows:    true,
		AllowDeleteRows: true,
	}
	return field, true
}

func columnTypeFor(schema *openapi3.Schema) template.ColumnType {
	switch {
	case len(schema.Enum) > 0:
		return template.ColumnSelect
	case hasType(schema, "boolean"):
		return template.ColumnCheckbox
	case hasType(schema, "number"), hasType(schema, "integer"):
		return template.ColumnNumber
	case schema.Format == "date":
		return template.ColumnDate
	default:
		return template.ColumnText
	}
}

func stringFieldType(schema *openapi3.Schema) template.FieldType {
	switch schema.Format {
	case "date", "date-time":
		return template.FieldDate
	case "time":
		return template.FieldTime
	case "uri":
		return template.FieldURL
	case "tel":
		return template.FieldTel
	}
	// long free text renders better multi-line
	if schema.MaxLength != nil && *schema.MaxLength > 255 {
		return template.FieldTextarea
	}
	return template.FieldText
}

func numericBounds(schema *openapi3.Schema) *template.Validation {
	if schema.Min == nil && schema.Max == nil {
		return nil
	}
	rules := &template.Validation{}
	if schema.Min != nil {
		value := *schema.Min
		rules.Min = &value
	}
	if schema.Max != nil {
		value := *schema.Max
		rules.Max = &value
	}
	return rules
}

func stringConstraints(schema *openapi3.Schema) *template.Validation {
	if schema.Pattern == "" {
		return nil
	}
	return &template.Validation{Pattern: schema.Pattern}
}

func optionsFromEnum(values []any) []template.Option {
	options := make([]template.Option, 0, len(values))
	for _, raw := range values {
		value := fmt.Sprintf("%v", raw)
		if strings.TrimSpace(value) == "" {
			continue
		}
		options = append(options, template.Option{
			Label: labelFor(value, ""),
			Value: value,
		})
	}
	return options
}

func hasType(schema *openapi3.Schema, want string) bool {
	return schema.Type != nil && schema.Type.Is(want)
}

// labelFor derives a human label from a schema title or, failing that, a
// snake_case or camelCase identifier.
func labelFor(name, title string) string {
	if strings.TrimSpace(title) != "" {
		return title
	}
	words := splitIdentifier(name)
	for idx, word := range words {
		if word == "" {
			continue
		}
		words[idx] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func splitIdentifier(name string) []string {
	name = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(name)
	var b strings.Builder
	for idx, r := range name {
		if idx > 0 && r >= 'A' && r <= 'Z' {
			prev := rune(name[idx-1])
			if prev >= 'a' && prev <= 'z' {
				b.WriteByte(' ')
			}
		}
		b.WriteRune(r)
	}
	return strings.Fields(b.String())
}
