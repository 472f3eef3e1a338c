// Package validation checks captured answers against the constraints a
// template declares. Results are keyed by composite field key so callers can
// surface each message next to the field that produced it; an empty result
// means the form is clean.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-crf/pkg/table"
	"github.com/goliatone/go-crf/pkg/template"
)

const dateLayout = "2006-01-02"

// TodayBound is the sentinel a template may use for MinDate/MaxDate to bound
// a date field against the day of entry rather than a fixed calendar date.
const TodayBound = "today"

// Option configures a Validator.
type Option func(*Validator)

// WithToday overrides the clock used to resolve the "today" date bound.
// Tests pin it; production code leaves the default.
func WithToday(fn func() time.Time) Option {
	return func(v *Validator) {
		if fn != nil {
			v.today = fn
		}
	}
}

// Validator evaluates template constraints against answer values.
type Validator struct {
	today func() time.Time
}

// New constructs a Validator with the supplied options applied.
func New(opts ...Option) *Validator {
	v := &Validator{today: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks every data-bearing field in the template against the
// answers map (keyed by composite "sectionID.fieldID" keys) and returns the
// problems found, one message per offending field.
func (v *Validator) Validate(tpl template.Template, answers map[string]any) map[string]string {
	problems := make(map[string]string)
	for _, section := range tpl.Sections {
		for _, field := range section.Fields {
			key := template.FieldKey(section.ID, field.ID)
			if message, ok := v.ValidateField(field, answers[key]); !ok {
				problems[key] = message
			}
		}
	}
	return problems
}

// ValidateField checks a single field's value. It returns ok=true when the
// value satisfies every constraint; otherwise the message describes the first
// violated one. Display-only fields always pass.
func (v *Validator) ValidateField(field template.Field, value any) (string, bool) {
	switch field.Type {
	case template.FieldHeader, template.FieldCalculation:
		return "", true
	}
	if field.Type.IsTable() {
		return v.validateTable(field, value)
	}

	if isEmpty(value) {
		if field.Required {
			return "This field is required", false
		}
		return "", true
	}

	switch field.Type {
	case template.FieldNumber:
		return v.validateNumber(field, value)
	case template.FieldDate:
		return v.validateDate(field, value)
	case template.FieldTime:
		if _, err := time.Parse("15:04", asString(value)); err != nil {
			return "Enter a time as HH:MM", false
		}
	}
	return v.validatePattern(field, value)
}

func (v *Validator) validateNumber(field template.Field, value any) (string, bool) {
	number, err := asNumber(value)
	if err != nil {
		return "Enter a number", false
	}
	if rules := field.Validation; rules != nil {
		if rules.Min != nil && number < *rules.Min {
			return fmt.Sprintf("Must be at least %s", formatBound(*rules.Min)), false
		}
		if rules.Max != nil && number > *rules.Max {
			return fmt.Sprintf("Must be at most %s", formatBound(*rules.Max)), false
		}
	}
	return "", true
}

func (v *Validator) validateDate(field template.Field, value any) (string, bool) {
	entered, err := time.Parse(dateLayout, asString(value))
	if err != nil {
		return "Enter a date as YYYY-MM-DD", false
	}
	rules := field.Validation
	if rules == nil {
		return "", true
	}
	if bound, ok := v.resolveDateBound(rules.MinDate); ok && entered.Before(bound) {
		return fmt.Sprintf("Date must be on or after %s", bound.Format(dateLayout)), false
	}
	if bound, ok := v.resolveDateBound(rules.MaxDate); ok && entered.After(bound) {
		return fmt.Sprintf("Date must be on or before %s", bound.Format(dateLayout)), false
	}
	return "", true
}

func (v *Validator) resolveDateBound(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if strings.EqualFold(raw, TodayBound) {
		now := v.today()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), true
	}
	bound, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return bound, true
}

func (v *Validator) validatePattern(field template.Field, value any) (string, bool) {
	rules := field.Validation
	if rules == nil || strings.TrimSpace(rules.Pattern) == "" {
		return "", true
	}
	re, err := regexp.Compile(rules.Pattern)
	if err != nil {
		// a pattern that does not compile is a template authoring bug;
		// it must not block data entry
		return "", true
	}
	if !re.MatchString(asString(value)) {
		return "Value does not match the expected format", false
	}
	return "", true
}

// validateTable checks row presence plus required columns. Every required
// column must hold a non-empty cell in every row.
func (v *Validator) validateTable(field template.Field, value any) (string, bool) {
	rows := asRows(value)
	if len(rows) == 0 {
		if field.Required {
			return "Add at least one row", false
		}
		return "", true
	}
	if field.Table == nil {
		return "", true
	}
	for idx, row := range rows {
		for _, column := range field.Table.Columns {
			if !column.Required {
				continue
			}
			if isEmpty(row.Cells[column.ID]) {
				return fmt.Sprintf("Row %d is missing %q", idx+1, column.Label), false
			}
		}
	}
	return "", true
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case []table.Row:
		return len(v) == 0
	case bool:
		// a toggle answered false is still an answer
		return false
	default:
		return false
	}
}

func asString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func asNumber(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("validation: unsupported numeric value %T", value)
	}
}

func asRows(value any) []table.Row {
	return table.RowsFromValue(value)
}

func formatBound(bound float64) string {
	return strconv.FormatFloat(bound, 'f', -1, 64)
}
