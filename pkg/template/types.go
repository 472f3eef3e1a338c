package template

// FieldType enumerates the input kinds a Field may declare. The set is closed;
// unknown values degrade to free text at render time rather than failing.
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldTextarea    FieldType = "textarea"
	FieldNumber      FieldType = "number"
	FieldDate        FieldType = "date"
	FieldTime        FieldType = "time"
	FieldSelect      FieldType = "select"
	FieldRadio       FieldType = "radio"
	FieldCheckbox    FieldType = "checkbox"
	FieldYesNo       FieldType = "yesno"
	FieldCalculation FieldType = "calculation"
	FieldFile        FieldType = "file"
	FieldSignature   FieldType = "signature"
	FieldTable       FieldType = "table"
	FieldMatrix      FieldType = "matrix"
	FieldHeader      FieldType = "header"
	FieldTel         FieldType = "tel"
	FieldURL         FieldType = "url"
)

// IsChoice reports whether the type requires an option list.
func (t FieldType) IsChoice() bool {
	return t == FieldSelect || t == FieldRadio || t == FieldCheckbox
}

// IsTable reports whether the type carries a nested table schema.
func (t FieldType) IsTable() bool {
	return t == FieldTable || t == FieldMatrix
}

// Valid reports whether the type belongs to the declared enumeration.
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldTextarea, FieldNumber, FieldDate, FieldTime,
		FieldSelect, FieldRadio, FieldCheckbox, FieldYesNo, FieldCalculation,
		FieldFile, FieldSignature, FieldTable, FieldMatrix, FieldHeader,
		FieldTel, FieldURL:
		return true
	}
	return false
}

// ColumnType enumerates the cell kinds a table Column may declare.
type ColumnType string

const (
	ColumnText     ColumnType = "text"
	ColumnNumber   ColumnType = "number"
	ColumnDate     ColumnType = "date"
	ColumnSelect   ColumnType = "select"
	ColumnCheckbox ColumnType = "checkbox"
	ColumnTextarea ColumnType = "textarea"
)

// Width is the layout hint a field declares for form rendering.
type Width string

const (
	WidthFull    Width = "full"
	WidthHalf    Width = "half"
	WidthThird   Width = "third"
	WidthQuarter Width = "quarter"
)

// Option is a label/value pair used by choice fields and select columns.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Validation carries the declarative constraints a field may attach. Numeric
// bounds apply to number fields; MinDate/MaxDate accept an ISO date or the
// sentinel "today" resolved by the validator's clock.
type Validation struct {
	Min     *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max     *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	MinDate string   `json:"minDate,omitempty" yaml:"minDate,omitempty"`
	MaxDate string   `json:"maxDate,omitempty" yaml:"maxDate,omitempty"`
}

// Column describes one column of a table/matrix field. The ID is assigned at
// creation and never changes; cell maps key on it.
type Column struct {
	ID       string     `json:"id" yaml:"id"`
	Label    string     `json:"label" yaml:"label"`
	Type     ColumnType `json:"type" yaml:"type"`
	Options  []Option   `json:"options,omitempty" yaml:"options,omitempty"`
	Required bool       `json:"required,omitempty" yaml:"required,omitempty"`
	Width    string     `json:"width,omitempty" yaml:"width,omitempty"`
}

// TableSchema is the column layout and row policy of a table/matrix field.
// A schema always holds at least one column; RemoveColumn refuses to strip
// the last one.
type TableSchema struct {
	Columns         []Column `json:"columns" yaml:"columns"`
	DefaultRows     int      `json:"defaultRows,omitempty" yaml:"defaultRows,omitempty"`
	AllowAddRows    bool     `json:"allowAddRows,omitempty" yaml:"allowAddRows,omitempty"`
	AllowDeleteRows bool     `json:"allowDeleteRows,omitempty" yaml:"allowDeleteRows,omitempty"`
}

// Field is a single labelled input unit within a Section. Key is the
// programmatic name answers persist under; ID is immutable once created.
type Field struct {
	ID          string       `json:"id" yaml:"id"`
	Type        FieldType    `json:"type" yaml:"type"`
	Key         string       `json:"key" yaml:"key"`
	Label       string       `json:"label" yaml:"label"`
	Required    bool         `json:"required,omitempty" yaml:"required,omitempty"`
	Width       Width        `json:"width,omitempty" yaml:"width,omitempty"`
	Placeholder string       `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	HelpText    string       `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Default     any          `json:"default,omitempty" yaml:"default,omitempty"`
	Validation  *Validation  `json:"validation,omitempty" yaml:"validation,omitempty"`
	Options     []Option     `json:"options,omitempty" yaml:"options,omitempty"`
	Table       *TableSchema `json:"tableConfig,omitempty" yaml:"tableConfig,omitempty"`
}

// Section groups ordered fields under a title. Sort order is the slice order;
// mutations preserve it.
type Section struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
	Columns     int     `json:"columns,omitempty" yaml:"columns,omitempty"`
	Collapsible bool    `json:"collapsible,omitempty" yaml:"collapsible,omitempty"`
}

// SideHeader maps a subset of fields to an auxiliary grouping label shown
// alongside the form body. Field references use composite sectionID.fieldID
// keys.
type SideHeader struct {
	ID     string   `json:"id" yaml:"id"`
	Title  string   `json:"title" yaml:"title"`
	Fields []string `json:"fields" yaml:"fields"`
}

// Template is the reusable definition of a form's structure. Values are
// immutable: every mutation returns a fresh Template so concurrently open
// form instances never observe edits from another authoring session.
type Template struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Sections    []Section    `json:"sections" yaml:"sections"`
	SideHeaders []SideHeader `json:"side_headers,omitempty" yaml:"side_headers,omitempty"`
}

// FieldKey builds the composite answer-map key for a field in a section.
func FieldKey(sectionID, fieldID string) string {
	return sectionID + "." + fieldID
}

// Section returns the section with the given id.
func (t Template) Section(sectionID string) (Section, bool) {
	for _, section := range t.Sections {
		if section.ID == sectionID {
			return section, true
		}
	}
	return Section{}, false
}

// Field looks a field up by its composite (sectionID, fieldID) address.
func (t Template) Field(sectionID, fieldID string) (Field, bool) {
	section, ok := t.Section(sectionID)
	if !ok {
		return Field{}, false
	}
	for _, field := range section.Fields {
		if field.ID == fieldID {
			return field, true
		}
	}
	return Field{}, false
}

// FieldByID scans all sections for a field id. Used for table mutations where
// callers address the table field directly.
func (t Template) FieldByID(fieldID string) (Field, string, bool) {
	for _, section := range t.Sections {
		for _, field := range section.Fields {
			if field.ID == fieldID {
				return field, section.ID, true
			}
		}
	}
	return Field{}, "", false
}

// FieldByKey resolves a composite answer-map key ("sectionID.fieldID") back
// to the field it addresses.
func (t Template) FieldByKey(key string) (Field, bool) {
	for _, section := range t.Sections {
		for _, field := range section.Fields {
			if FieldKey(section.ID, field.ID) == key {
				return field, true
			}
		}
	}
	return Field{}, false
}
