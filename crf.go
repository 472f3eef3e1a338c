// Package crf is the entry point for the clinical report form engine. It
// wires the template store, the control registry, and the validator behind a
// single Engine so page-level code composes one object instead of four
// packages. The engine owns no process-wide state; every collaborator is
// passed in explicitly.
package crf

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/goliatone/go-crf/pkg/instance"
	"github.com/goliatone/go-crf/pkg/template"
	"github.com/goliatone/go-crf/pkg/template/loader"
	"github.com/goliatone/go-crf/pkg/validation"
	"github.com/goliatone/go-crf/pkg/widgets"
)

// Convenience aliases so casual consumers only import the root package.
type (
	// Template is the reusable definition of a form's structure.
	Template = template.Template
	// Section groups fields within a template.
	Section = template.Section
	// Field is a single labeled input unit.
	Field = template.Field
	// Capability describes the control a renderer should present.
	Capability = widgets.Capability
	// Instance is one case's live occurrence of a template.
	Instance = instance.Instance
	// AuditEntry records one justified value change.
	AuditEntry = instance.AuditEntry
	// Committer persists committed field values.
	Committer = instance.Committer
	// CommitterFunc adapts a function to the Committer interface.
	CommitterFunc = instance.CommitterFunc
)

// InstanceOption configures an instance at Open time.
type InstanceOption = instance.Option

// WithActor stamps audit entries with the identity of the person entering
// data.
func WithActor(actor string) InstanceOption {
	return instance.WithActor(actor)
}

// Option configures an Engine.
type Option func(*Engine) error

// WithTemplateFS loads template definitions from the supplied filesystem at
// construction time. Loaded templates merge into the store alongside any
// admitted via WithTemplates; when ids clash the later option wins.
func WithTemplateFS(fsys fs.FS) Option {
	return func(e *Engine) error {
		loaded, err := loader.LoadFS(fsys)
		if err != nil {
			return err
		}
		for _, id := range loaded.IDs() {
			tpl, _ := loaded.Get(id)
			if err := e.store.Put(tpl); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithTemplates admits templates built in memory.
func WithTemplates(templates ...template.Template) Option {
	return func(e *Engine) error {
		for _, tpl := range templates {
			if err := e.store.Put(tpl); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithCommitter supplies the persistence collaborator handed to every opened
// instance.
func WithCommitter(committer instance.Committer) Option {
	return func(e *Engine) error {
		e.committer = committer
		return nil
	}
}

// WithRegistry replaces the default control registry.
func WithRegistry(registry *widgets.Registry) Option {
	return func(e *Engine) error {
		if registry != nil {
			e.registry = registry
		}
		return nil
	}
}

// WithClock overrides the clock used for audit timestamps and the "today"
// validation bound.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) error {
		if now != nil {
			e.now = now
		}
		return nil
	}
}

// Engine composes the template store, control registry, and validator for
// one consuming application.
type Engine struct {
	store     *loader.Store
	registry  *widgets.Registry
	validator *validation.Validator
	committer instance.Committer
	now       func() time.Time
}

// New constructs an Engine. Without options it starts with an empty template
// store and the built-in control registry.
func New(opts ...Option) (*Engine, error) {
	empty, err := loader.LoadFS(nil)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		store:    empty,
		registry: widgets.NewRegistry(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	e.validator = validation.New(validation.WithToday(e.now))
	return e, nil
}

// Template returns a loaded template by id.
func (e *Engine) Template(id string) (template.Template, bool) {
	return e.store.Get(id)
}

// TemplateIDs lists the loaded template ids.
func (e *Engine) TemplateIDs() []string {
	return e.store.IDs()
}

// SaveTemplate admits an authored or mutated template back into the store.
func (e *Engine) SaveTemplate(tpl template.Template) error {
	return e.store.Put(tpl)
}

// Open creates a form instance for one case, seeded from a persisted answer
// map supplied by the caller's load boundary.
func (e *Engine) Open(templateID, caseID string, persisted map[string]any, opts ...instance.Option) (*instance.Instance, error) {
	tpl, ok := e.store.Get(templateID)
	if !ok {
		return nil, fmt.Errorf("crf: open %q: template not found", templateID)
	}
	base := []instance.Option{instance.WithClock(e.now)}
	if e.committer != nil {
		base = append(base, instance.WithCommitter(e.committer))
	}
	return instance.Open(tpl, caseID, persisted, append(base, opts...)...), nil
}

// Describe resolves the renderer capability for a field.
func (e *Engine) Describe(field template.Field) widgets.Capability {
	return e.registry.Describe(field)
}

// Validate runs the whole-template check against an instance's current
// answers. The result is advisory; it never blocks commits.
func (e *Engine) Validate(in *instance.Instance) map[string]string {
	return e.validator.Validate(in.Template(), in.Answers())
}
