package widgets

import (
	"strings"
	"time"

	"github.com/goliatone/go-crf/pkg/template"
)

// FilterNumeric strips everything from raw keyboard input that cannot be part
// of a decimal number: at most one leading minus sign and one decimal point,
// digits elsewhere. Leading zeros are preserved so identifiers typed into a
// number field by mistake round-trip unmangled.
func FilterNumeric(raw string) string {
	var b strings.Builder
	sawDot := false
	for idx, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' && idx == 0:
			b.WriteRune(r)
		case r == '.' && !sawDot:
			sawDot = true
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidDate reports whether the value is a calendar date in ISO form
// (2006-01-02). Empty values are not valid; requiredness is the validation
// layer's call.
func ValidDate(value string) bool {
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}

// ValidTime reports whether the value is a 24h clock time in HH:MM form.
func ValidTime(value string) bool {
	_, err := time.Parse("15:04", value)
	return err == nil
}

// InOptions reports whether the value matches one of the declared option
// values. An empty option list accepts nothing.
func InOptions(value string, options []template.Option) bool {
	for _, option := range options {
		if option.Value == value {
			return true
		}
	}
	return false
}
