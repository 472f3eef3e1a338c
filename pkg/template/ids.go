package template

import "github.com/google/uuid"

// newID returns a prefixed identifier for a freshly created structural
// element. IDs are opaque and never reused.
func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// NewTemplateID returns a fresh template identifier.
func NewTemplateID() string { return newID("tpl") }

// NewSectionID returns a fresh section identifier.
func NewSectionID() string { return newID("section") }

// NewFieldID returns a fresh field identifier.
func NewFieldID() string { return newID("field") }

// NewColumnID returns a fresh column identifier.
func NewColumnID() string { return newID("col") }
