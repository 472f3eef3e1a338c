package loader

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-crf/pkg/template"
)

var (
	helpPolicyOnce sync.Once
	helpPolicy     *bluemonday.Policy
)

// sanitizeTemplate cleans every operator-facing rich text surface. Template
// authors may use limited inline markup in help text and section
// descriptions; anything beyond that (scripts, event handlers, embeds) is
// stripped.
func sanitizeTemplate(tpl template.Template) template.Template {
	tpl.Description = sanitizeHelpMarkup(tpl.Description)
	sections := make([]template.Section, len(tpl.Sections))
	for idx, section := range tpl.Sections {
		section.Description = sanitizeHelpMarkup(section.Description)
		fields := make([]template.Field, len(section.Fields))
		for fidx, field := range section.Fields {
			field.HelpText = sanitizeHelpMarkup(field.HelpText)
			fields[fidx] = field
		}
		section.Fields = fields
		sections[idx] = section
	}
	tpl.Sections = sections
	return tpl
}

func sanitizeHelpMarkup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(helpSanitizer().Sanitize(trimmed))
}

func helpSanitizer() *bluemonday.Policy {
	helpPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "i", "em", "strong", "u", "sub", "sup", "br", "ul", "ol", "li")
		policy.AllowAttrs("href", "title").OnElements("a")
		policy.AllowStandardURLs()
		helpPolicy = policy
	})
	return helpPolicy
}
