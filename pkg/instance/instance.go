// Package instance holds the live, editable occurrence of a template for one
// case: the current answer map, the per-field dirty/audit state machine, and
// the audit log of justified changes. An Instance is owned by a single data
// entry session; the only asynchronous boundary is the persistence commit,
// which keeps the committing field locked until its outcome is known.
package instance

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-crf/pkg/template"
)

// Status tracks where an instance sits in the capture workflow.
type Status string

const (
	// StatusDraft is the initial state: data entry in progress.
	StatusDraft Status = "draft"
	// StatusSubmitted marks a completed, signed-off instance.
	StatusSubmitted Status = "submitted"
	// StatusEdited marks a submitted instance that has since received a
	// justified change.
	StatusEdited Status = "edited"
)

// Committer persists one field's committed value. Implementations are
// supplied by the page composing the engine; the instance never performs
// network calls itself.
type Committer interface {
	Commit(ctx context.Context, fieldKey string, value any, justification string) error
}

// CommitterFunc adapts a plain function to the Committer interface.
type CommitterFunc func(ctx context.Context, fieldKey string, value any, justification string) error

// Commit calls the wrapped function.
func (f CommitterFunc) Commit(ctx context.Context, fieldKey string, value any, justification string) error {
	return f(ctx, fieldKey, value, justification)
}

// AuditEntry records one justified value change.
type AuditEntry struct {
	Field         string    `json:"field"`
	OldValue      any       `json:"oldValue"`
	NewValue      any       `json:"newValue"`
	Justification string    `json:"justification"`
	Actor         string    `json:"actor,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Option configures an Instance at open time.
type Option func(*Instance)

// WithCommitter supplies the persistence collaborator used by
// ProvideJustification.
func WithCommitter(committer Committer) Option {
	return func(in *Instance) { in.committer = committer }
}

// WithActor stamps audit entries with the identity of the person entering
// data.
func WithActor(actor string) Option {
	return func(in *Instance) { in.actor = actor }
}

// WithClock overrides the audit timestamp source. Tests pin it.
func WithClock(now func() time.Time) Option {
	return func(in *Instance) {
		if now != nil {
			in.now = now
		}
	}
}

// WithStatus opens the instance in a workflow state other than draft, for
// instances rehydrated from persistence.
func WithStatus(status Status) Option {
	return func(in *Instance) { in.status = status }
}

// Instance is one case's live occurrence of a template.
type Instance struct {
	mu sync.Mutex

	tpl    template.Template
	caseID string

	status   Status
	archived bool

	answers  map[string]any
	baseline map[string]any
	tracks   map[string]*track
	audit    []AuditEntry

	committer Committer
	actor     string
	now       func() time.Time
}

// Open seeds an instance from the template and a persisted answer map keyed
// by composite field key. Persisted values become both the current answers
// and the clean baseline; nil is a blank instance.
func Open(tpl template.Template, caseID string, persisted map[string]any, opts ...Option) *Instance {
	in := &Instance{
		tpl:      tpl,
		caseID:   caseID,
		status:   StatusDraft,
		answers:  make(map[string]any, len(persisted)),
		baseline: make(map[string]any, len(persisted)),
		tracks:   make(map[string]*track),
		now:      time.Now,
	}
	for key, value := range persisted {
		in.answers[key] = value
		in.baseline[key] = value
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Template returns the schema this instance was opened against.
func (in *Instance) Template() template.Template { return in.tpl }

// CaseID returns the case this instance captures data for.
func (in *Instance) CaseID() string { return in.caseID }

// Status returns the current workflow state.
func (in *Instance) Status() Status {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.status
}

// Value returns the current in-memory value for a field key.
func (in *Instance) Value(fieldKey string) (any, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	value, ok := in.answers[fieldKey]
	return value, ok
}

// Answers returns a snapshot of the current answer map.
func (in *Instance) Answers() map[string]any {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := make(map[string]any, len(in.answers))
	for key, value := range in.answers {
		out[key] = value
	}
	return out
}

// Audit returns a copy of the audit log in append order.
func (in *Instance) Audit() []AuditEntry {
	in.mu.Lock()
	defer in.mu.Unlock()
	return append([]AuditEntry(nil), in.audit...)
}

// Dirty lists the field keys currently carrying uncommitted edits.
func (in *Instance) Dirty() []string {
	in.mu.Lock()
	defer in.mu.Unlock()
	keys := make([]string, 0, len(in.tracks))
	for key := range in.tracks {
		keys = append(keys, key)
	}
	return keys
}

// Submit marks a draft instance as submitted. Submission is refused while
// any field carries an uncommitted edit.
func (in *Instance) Submit() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.archived {
		return ErrArchived
	}
	if len(in.tracks) > 0 {
		return ErrUncommittedEdits
	}
	in.status = StatusSubmitted
	return nil
}

// Archive freezes the instance read-only. Every subsequent mutating call
// fails with ErrArchived.
func (in *Instance) Archive() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.archived = true
}

// Archived reports whether the instance has been frozen.
func (in *Instance) Archived() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.archived
}
